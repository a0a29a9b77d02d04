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

package main

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
	"github.com/inkwell-team/inkwell/cmd/inkwell/document"
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Markdown editor server with live presence of collaborators",
}

// Run executes CLI.
func Run() int {
	if err := rootCmd.Execute(); err != nil {
		return 1
	}

	return 0
}

func init() {
	rootCmd.AddCommand(document.SubCmd)
	rootCmd.PersistentFlags().StringVar(
		&config.RPCAddr,
		"rpc-addr",
		config.DefaultRPCAddr,
		"Address of the server",
	)
	rootCmd.PersistentFlags().StringVar(
		&config.Token,
		"token",
		"",
		"Token sent to the server. Defaults to the token saved for --rpc-addr",
	)
	rootCmd.PersistentFlags().StringVarP(
		&config.UserID,
		"user",
		"u",
		"",
		"Acting user on servers without authentication",
	)
	rootCmd.PersistentFlags().StringVarP(
		&config.Output,
		"output",
		"o",
		"",
		"One of 'yaml' or 'json'.",
	)
}
