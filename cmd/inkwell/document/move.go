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

package document

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
)

func newMoveDocumentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mv [document id] [folder id]",
		Short: "Move a document into a folder, or to the root without a folder id",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errors.New("requires a document id and an optional folder id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateOutput(); err != nil {
				return err
			}

			folderID := ""
			if len(args) == 2 {
				folderID = args[1]
			}

			cli, err := config.Documents()
			if err != nil {
				return err
			}

			document, err := cli.MoveDocument(context.Background(), args[0], folderID)
			if err != nil {
				return err
			}

			return printDocuments(cmd, []*types.DocumentSummary{document})
		},
	}
}

func init() {
	SubCmd.AddCommand(newMoveDocumentCmd())
}
