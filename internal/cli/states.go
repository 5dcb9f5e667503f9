// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/ManuGH/yaruki/internal/client"
	"github.com/ManuGH/yaruki/internal/states"
)

const defaultURL = "http://localhost:8787"

type clientFlags struct {
	url      string
	username string
	password string
	timeout  time.Duration
}

func (f *clientFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "url", envOr(EnvURL, defaultURL), "server base URL")
	cmd.Flags().StringVarP(&f.username, "username", "u", envOr(EnvUser, ""), "basic-auth username")
	cmd.Flags().StringVarP(&f.password, "password", "p", envOr(EnvPassword, ""), "basic-auth password")
	cmd.Flags().DurationVar(&f.timeout, "timeout", 30*time.Second, "request timeout")
}

func (f *clientFlags) client() (*client.Client, error) {
	return client.New(f.url,
		client.WithBasicAuth(f.username, f.password),
		client.WithTimeout(f.timeout),
	)
}

func (f *clientFlags) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), f.timeout)
}

// NewRecordCommand creates the record command.
func NewRecordCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		flags clientFlags
		state string
	)

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record a state at the current time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context(cmd)
			defer cancel()

			rec, err := c.Record(ctx, state)
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if out.IsJSON() {
				return out.JSON(rec)
			}
			out.Textf("%s\t%s", rec.Key, rec.Value)
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().StringVarP(&state, "state", "s", client.StateOn, "state value to record")
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "list <prefix>",
		Short: "List stored states whose key starts with prefix",
		Long: `List stored states whose key starts with prefix.

Keys look like YYYYMMDDHHmmss:<epochMillis>, so a prefix such as 20240101
selects one day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context(cmd)
			defer cancel()

			results, err := c.List(ctx, args[0])
			if err != nil {
				return err
			}

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if out.IsJSON() {
				return out.JSON(results)
			}
			for _, r := range results {
				out.Textf("%s\t%s", r.Key, valueText(r))
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

type sessionView struct {
	Start    time.Time `json:"start"`
	End      time.Time `json:"end,omitzero"`
	Duration string    `json:"duration,omitempty"`
}

// NewSessionsCommand creates the sessions command.
func NewSessionsCommand(rootOpts *RootOptions) *cobra.Command {
	var flags clientFlags

	cmd := &cobra.Command{
		Use:   "sessions <prefix>",
		Short: "Pair on/off states into work sessions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.client()
			if err != nil {
				return err
			}
			ctx, cancel := flags.context(cmd)
			defer cancel()

			results, err := c.List(ctx, args[0])
			if err != nil {
				return err
			}
			sessions := client.Sessions(results)

			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if out.IsJSON() {
				views := make([]sessionView, 0, len(sessions))
				for _, s := range sessions {
					v := sessionView{Start: s.Start, End: s.End}
					if !s.End.IsZero() {
						v.Duration = s.Duration().String()
					}
					views = append(views, v)
				}
				return out.JSON(views)
			}

			var total time.Duration
			for _, s := range sessions {
				if s.End.IsZero() {
					out.Textf("%s\t(open)", s.Start.Format(time.RFC3339))
					continue
				}
				total += s.Duration()
				out.Textf("%s\t%s", s.Start.Format(time.RFC3339), s.Duration())
			}
			out.Textf("total\t%s", total)
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

func valueText(r states.Result) string {
	if r.Value == nil {
		return "<missing>"
	}
	return *r.Value
}
