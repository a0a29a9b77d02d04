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
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/xid"
	"github.com/spf13/cobra"

	"github.com/inkwell-team/inkwell/client"
	"github.com/inkwell-team/inkwell/client/presence"
	"github.com/inkwell-team/inkwell/cmd/inkwell/config"
	"github.com/inkwell-team/inkwell/server/logging"
)

func newWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [document id]",
		Short: "Watch who is editing a document",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("requires a document id")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			docID := args[0]

			opts, err := config.ClientOptions()
			if err != nil {
				return err
			}
			userID := config.UserID
			if userID == "" {
				userID = "watch-" + xid.New().String()
			}
			opts = append(opts,
				client.WithUserID(userID),
				client.WithDisplayName("inkwell watch"),
				client.WithLogger(logging.DefaultLogger().Desugar()),
			)

			view := presence.New(docID, userID, presence.WithChangeListener(func(s presence.Snapshot) {
				cmd.Printf("%s\n%s\n\n", time.Now().Format(time.TimeOnly), renderCollaborators(s))
			}))

			ch, err := client.NewChannel(config.RPCAddr, view.Apply, opts...)
			if err != nil {
				return err
			}
			ch.OnStateChange(func(state client.ChannelState) {
				cmd.Printf("%s\n", state)
				if state == client.Connected {
					view.Reset()
				}
			})

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := ch.Open(ctx); err != nil {
				return err
			}
			ch.JoinDocument(docID)

			<-ctx.Done()
			ch.LeaveDocument(docID)
			if err := ch.Close(); err != nil {
				return fmt.Errorf("close channel: %w", err)
			}
			return nil
		},
	}
}

func renderCollaborators(s presence.Snapshot) string {
	tw := table.NewWriter()
	tw.Style().Options.DrawBorder = false
	tw.Style().Options.SeparateColumns = false
	tw.Style().Options.SeparateHeader = false
	tw.Style().Options.SeparateRows = false
	tw.AppendHeader(table.Row{"USER", "NAME", "STATUS", "CURSOR", "UPDATED AT"})
	for _, c := range s.Collaborators {
		cursor := "-"
		if c.Cursor != nil {
			cursor = fmt.Sprintf("%d:%d", c.Cursor.LineNumber, c.Cursor.Column)
		}
		tw.AppendRow(table.Row{
			c.UserID,
			c.DisplayName,
			c.Status,
			cursor,
			c.UpdatedAt.Format(time.TimeOnly),
		})
	}
	return tw.Render()
}

func init() {
	rootCmd.AddCommand(newWatchCmd())
}
