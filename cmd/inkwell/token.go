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
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
	"github.com/inkwell-team/inkwell/server"
	"github.com/inkwell-team/inkwell/server/rpc/auth"
)

var (
	tokenSecretKey   string
	tokenUserID      string
	tokenDisplayName string
	tokenLifetime    time.Duration
	tokenSave        bool
)

func newTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Issue a token signed with the secret key of the server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if tokenSecretKey == "" {
				return errors.New("--secret-key is required")
			}
			if tokenUserID == "" {
				return errors.New("--subject is required")
			}

			tm, err := auth.NewTokenManager(tokenSecretKey, tokenLifetime, 1)
			if err != nil {
				return err
			}
			token, err := tm.Generate(tokenUserID, tokenDisplayName)
			if err != nil {
				return err
			}

			if tokenSave {
				conf, err := config.Load()
				if err != nil {
					return err
				}
				conf.Auths[config.RPCAddr] = token
				if err := config.Save(conf); err != nil {
					return err
				}
			}

			cmd.Println(token)
			return nil
		},
	}
}

func init() {
	cmd := newTokenCmd()
	cmd.Flags().StringVar(
		&tokenSecretKey,
		"secret-key",
		"",
		"The secret key of the server",
	)
	cmd.Flags().StringVar(
		&tokenUserID,
		"subject",
		"",
		"The user id carried by the token",
	)
	cmd.Flags().StringVar(
		&tokenDisplayName,
		"name",
		"",
		"The display name carried by the token",
	)
	cmd.Flags().DurationVar(
		&tokenLifetime,
		"duration",
		server.DefaultTokenDuration,
		"The lifetime of the token",
	)
	cmd.Flags().BoolVar(
		&tokenSave,
		"save",
		false,
		"Save the token for --rpc-addr",
	)

	rootCmd.AddCommand(cmd)
}
