/*
 * Copyright 2026 The Inkwell Authors. All rights reserved.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package memory_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inkwell-team/inkwell/server/backend/database/memory"
	"github.com/inkwell-team/inkwell/server/backend/database/testcases"
)

func TestDB(t *testing.T) {
	t.Run("RunListDocInfos test", func(t *testing.T) {
		db, err := memory.New()
		require.NoError(t, err)
		testcases.RunListDocInfosTest(t, db)
	})

	db, err := memory.New()
	require.NoError(t, err)
	defer func() { require.NoError(t, db.Close()) }()

	t.Run("RunCreateAndFindDocInfo test", func(t *testing.T) {
		testcases.RunCreateAndFindDocInfoTest(t, db)
	})

	t.Run("RunUpdateDocInfo test", func(t *testing.T) {
		testcases.RunUpdateDocInfoTest(t, db)
	})

	t.Run("RunDeleteDocInfo test", func(t *testing.T) {
		testcases.RunDeleteDocInfoTest(t, db)
	})
}
