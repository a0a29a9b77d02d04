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

// Package document provides the document command of the CLI.
package document

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/inkwell-team/inkwell/api/types"
	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
)

// SubCmd represents the document command
var SubCmd = &cobra.Command{
	Use:     "document",
	Short:   "Manage documents",
	Aliases: []string{"doc", "docs"},
}

func printDocuments(cmd *cobra.Command, documents []*types.DocumentSummary) error {
	switch config.Output {
	case "":
		tw := table.NewWriter()
		tw.Style().Options.DrawBorder = false
		tw.Style().Options.SeparateColumns = false
		tw.Style().Options.SeparateFooter = false
		tw.Style().Options.SeparateHeader = false
		tw.Style().Options.SeparateRows = false
		tw.AppendHeader(table.Row{
			"ID",
			"TITLE",
			"FOLDER",
			"SIZE",
			"CREATED AT",
			"UPDATED AT",
		})
		for _, document := range documents {
			folder := "/"
			if document.FolderID != nil {
				folder = *document.FolderID
			}
			tw.AppendRow(table.Row{
				document.ID,
				document.Title,
				folder,
				len(document.Content),
				document.CreatedAt.Local().Format(time.DateTime),
				document.UpdatedAt.Local().Format(time.DateTime),
			})
		}
		cmd.Printf("%s\n", tw.Render())
	case "json":
		jsonOutput, err := json.MarshalIndent(documents, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		cmd.Println(string(jsonOutput))
	case "yaml":
		yamlOutput, err := yaml.Marshal(documents)
		if err != nil {
			return fmt.Errorf("marshal YAML: %w", err)
		}
		cmd.Println(string(yamlOutput))
	default:
		return config.ErrUnknownOutput
	}

	return nil
}

// readContent returns the content given by flag, or the content of the
// file at path when set.
func readContent(content, path string) (*string, error) {
	if path != "" {
		data, err := readFile(path)
		if err != nil {
			return nil, err
		}
		text := string(data)
		return &text, nil
	}
	if content != "" {
		return &content, nil
	}
	return nil, nil
}
