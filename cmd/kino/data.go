package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/ahror172/kino/internal/backup"
	"github.com/ahror172/kino/internal/model"
	"github.com/ahror172/kino/internal/store"
)

// withStore открывает хранилище из конфига на время одной команды.
func (a *app) withStore(ctx context.Context, fn func(ctx context.Context, st store.Store) error) error {
	if err := a.cfg.ValidateStorage(); err != nil {
		return err
	}
	st, err := openStore(a.cfg.Storage)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(ctx, st)
}

func newChannelsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "channels",
		Short:   "Manage the channel registry",
		GroupID: "data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List channels in gate order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				channels, err := st.LoadChannels(ctx)
				if err != nil {
					return err
				}
				printChannels(cmd.OutOrStdout(), channels, shouldUseColor(cmd.OutOrStdout()))
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <channel>",
		Short: "Append a channel (@username, -100… id or invite link)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				added, err := store.AddChannel(ctx, st, args[0])
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is already in the registry\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", args[0])
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "remove <channel>",
		Aliases: []string{"rm"},
		Short:   "Remove a channel",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				removed, err := store.RemoveChannel(ctx, st, args[0])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is not in the registry\n", args[0])
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
				return nil
			})
		},
	})
	return cmd
}

func newContentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "content",
		Short:   "Inspect registered content",
		GroupID: "data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				contents, err := st.ListContents(ctx)
				if err != nil {
					return err
				}
				printContents(cmd.OutOrStdout(), contents)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <code>",
		Short: "Show one content record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				c, err := st.GetContent(ctx, args[0])
				if errors.Is(err, store.ErrNotFound) {
					return errors.Errorf("code %q not found", args[0])
				}
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Code:     %s\n", c.Code)
				fmt.Fprintf(out, "Kind:     %s\n", c.MediaKindOrDefault())
				fmt.Fprintf(out, "File ID:  %s\n", c.FileID)
				if c.Caption != "" {
					fmt.Fprintf(out, "Caption:  %s\n", c.Caption)
				}
				if !c.UpdatedAt.IsZero() {
					fmt.Fprintf(out, "Updated:  %s\n", c.UpdatedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	})
	return cmd
}

func newRecipientsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "recipients",
		Short:   "Inspect broadcast recipients",
		GroupID: "data",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "count",
		Short: "Print the number of recipients",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				ids, err := st.LoadRecipients(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), strconv.Itoa(len(ids)))
				return nil
			})
		},
	})
	return cmd
}

func newBackupCmd(a *app) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:     "backup",
		Short:   "Export all registries as JSONL to the configured destinations",
		GroupID: "data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withStore(cmd.Context(), func(ctx context.Context, st store.Store) error {
				dests, err := backupDestinations(ctx, a.cfg.Backup, file)
				if err != nil {
					return err
				}
				if len(dests) == 0 {
					return errors.New("no backup destination: set backup.file, backup.s3_bucket or --file")
				}
				if err := backup.Run(ctx, st, dests...); err != nil {
					return err
				}
				for _, d := range dests {
					fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", d)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "write to this file instead of backup.file")
	return cmd
}

func printContents(w io.Writer, contents []*model.Content) {
	if len(contents) == 0 {
		fmt.Fprintln(w, "no content")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tKIND\tUPDATED\tCAPTION")
	for _, c := range contents {
		updated := "-"
		if !c.UpdatedAt.IsZero() {
			updated = c.UpdatedAt.Format("2006-01-02 15:04")
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.Code, c.MediaKindOrDefault(), updated, truncate(c.Caption, 40))
	}
	tw.Flush()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n-1]) + "…"
}
