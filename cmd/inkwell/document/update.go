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

var (
	updateTitle   string
	updateContent string
	updateFile    string
)

func newUpdateDocumentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update [document id]",
		Short: "Update the title or the body of a document",
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

			content, err := readContent(updateContent, updateFile)
			if err != nil {
				return err
			}

			fields := &types.UpdatableDocumentFields{Content: content}
			if cmd.Flags().Changed("title") {
				fields.Title = &updateTitle
			}

			cli, err := config.Documents()
			if err != nil {
				return err
			}

			document, err := cli.PatchDocument(context.Background(), args[0], fields)
			if err != nil {
				return err
			}

			return printDocuments(cmd, []*types.DocumentSummary{document})
		},
	}
}

func init() {
	cmd := newUpdateDocumentCmd()
	cmd.Flags().StringVar(
		&updateTitle,
		"title",
		"",
		"The new title",
	)
	cmd.Flags().StringVar(
		&updateContent,
		"content",
		"",
		"The new markdown body",
	)
	cmd.Flags().StringVarP(
		&updateFile,
		"file",
		"f",
		"",
		"Read the new markdown body from this file, or from stdin with -",
	)
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	SubCmd.AddCommand(cmd)
}
