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

	"github.com/spf13/cobra"

	"github.com/inkwell-team/inkwell/client"
	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
)

var (
	listFolder string
	listRoot   bool
	listQuery  string
	listLimit  int
)

func newListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "ls",
		Short:   "List documents",
		Aliases: []string{"list"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ValidateOutput(); err != nil {
				return err
			}

			cli, err := config.Documents()
			if err != nil {
				return err
			}

			opts := client.ListOptions{Query: listQuery, Limit: listLimit}
			if listRoot {
				root := ""
				opts.FolderID = &root
			} else if listFolder != "" {
				opts.FolderID = &listFolder
			}

			documents, err := cli.ListDocuments(context.Background(), opts)
			if err != nil {
				return err
			}

			return printDocuments(cmd, documents)
		},
	}
}

func init() {
	cmd := newListCommand()
	cmd.Flags().StringVar(
		&listFolder,
		"folder",
		"",
		"List the documents of this folder only",
	)
	cmd.Flags().BoolVar(
		&listRoot,
		"root",
		false,
		"List the documents outside of any folder only",
	)
	cmd.Flags().StringVarP(
		&listQuery,
		"query",
		"q",
		"",
		"List the documents whose title contains this text",
	)
	cmd.Flags().IntVar(
		&listLimit,
		"limit",
		0,
		"The maximum number of documents to list",
	)
	cmd.MarkFlagsMutuallyExclusive("folder", "root")
	SubCmd.AddCommand(cmd)
}
