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
	createContent string
	createFile    string
	createFolder  string
)

func newCreateDocumentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create [title]",
		Short: "Create a new document",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a title")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateOutput(); err != nil {
				return err
			}

			content, err := readContent(createContent, createFile)
			if err != nil {
				return err
			}

			fields := &types.CreateDocumentFields{Title: args[0]}
			if content != nil {
				fields.Content = *content
			}
			if createFolder != "" {
				fields.FolderID = &createFolder
			}

			cli, err := config.Documents()
			if err != nil {
				return err
			}

			document, err := cli.CreateDocument(context.Background(), fields)
			if err != nil {
				return err
			}

			return printDocuments(cmd, []*types.DocumentSummary{document})
		},
	}
}

func init() {
	cmd := newCreateDocumentCmd()
	cmd.Flags().StringVar(
		&createContent,
		"content",
		"",
		"The markdown body of the document",
	)
	cmd.Flags().StringVarP(
		&createFile,
		"file",
		"f",
		"",
		"Read the markdown body from this file, or from stdin with -",
	)
	cmd.Flags().StringVar(
		&createFolder,
		"folder",
		"",
		"The folder of the document",
	)
	cmd.MarkFlagsMutuallyExclusive("content", "file")
	SubCmd.AddCommand(cmd)
}
