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

var getRaw bool

func newGetDocumentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [document id]",
		Short: "Show a document",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a document id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateOutput(); err != nil {
				return err
			}

			cli, err := config.Documents()
			if err != nil {
				return err
			}

			document, err := cli.GetDocument(context.Background(), args[0])
			if err != nil {
				return err
			}

			if getRaw {
				cmd.Print(document.Content)
				return nil
			}
			return printDocuments(cmd, []*types.DocumentSummary{document})
		},
	}
}

func init() {
	cmd := newGetDocumentCmd()
	cmd.Flags().BoolVar(
		&getRaw,
		"raw",
		false,
		"Print the markdown body only",
	)
	SubCmd.AddCommand(cmd)
}
