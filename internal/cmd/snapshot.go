package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/structdiff/structdiff/diff"
	"github.com/structdiff/structdiff/internal/source"
	"github.com/structdiff/structdiff/internal/store"
	bboltStore "github.com/structdiff/structdiff/internal/store/bbolt"
)

func snapshotCmd() *cobra.Command {
	command := &cobra.Command{
		Use:   "snapshot",
		Short: "Save and compare named document snapshots",
	}

	command.PersistentFlags().String("store", "",
		"snapshot database file (default is $HOME/.structdiff.db)")
	mustBind("store", viper.BindPFlag("store", command.PersistentFlags().Lookup("store")))

	command.AddCommand(snapshotSaveCmd())
	command.AddCommand(snapshotListCmd())
	command.AddCommand(snapshotDeleteCmd())
	command.AddCommand(snapshotDiffCmd())

	return command
}

func snapshotSaveCmd() *cobra.Command {
	var srcOpts source.Options

	command := &cobra.Command{
		Use:   "save NAME TARGET",
		Short: "Capture a document under a name for later comparison",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcOpts.Logger = logger()
			doc, err := source.Load(cmd.Context(), args[1], srcOpts)
			if err != nil {
				return err
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snap := &store.Snapshot{
				Name:     args[0],
				TakenAt:  time.Now().UTC(),
				Document: doc,
			}
			if err := st.Save(cmd.Context(), snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved snapshot %q.\n", snap.Name)
			return nil
		},
	}

	sourceFlags(command, &srcOpts)

	return command
}

func snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snaps, err := st.List(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(snaps) == 0 {
				fmt.Fprintln(out, "No snapshots saved.")
				return nil
			}
			for _, snap := range snaps {
				fmt.Fprintf(out, "%s\t%s\t%s\n",
					snap.Name, diff.KindOf(snap.Document), humanize.Time(snap.TakenAt))
			}
			return nil
		},
	}
}

func snapshotDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a saved snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("snapshot %q: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted snapshot %q.\n", args[0])
			return nil
		},
	}
}

func snapshotDiffCmd() *cobra.Command {
	var format string
	var maxChanges int
	var srcOpts source.Options

	command := &cobra.Command{
		Use:   "diff NAME TARGET",
		Short: "Compare a saved snapshot against a live document",
		Long: `Compare a saved snapshot against a live document. TARGET accepts the same
arguments as the diff command, plus snap:NAME to compare two snapshots.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcOpts.Logger = logger()

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			snap, err := st.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("snapshot %q: %w", args[0], err)
			}
			target, err := resolveTarget(cmd.Context(), st, args[1], srcOpts)
			if err != nil {
				return err
			}

			entries := diff.Compare(snap.Document, target)
			return renderEntries(cmd.OutOrStdout(), entries, format, maxChanges)
		},
	}

	command.Flags().StringVar(&format, "format", formatText,
		"output format, one of text, json or summary")
	command.Flags().IntVar(&maxChanges, "max-changes", 500,
		"maximum changes shown in text output, -1 for everything")
	sourceFlags(command, &srcOpts)

	return command
}

// resolveTarget loads a comparison target, treating snap:NAME as a reference
// to another stored snapshot.
func resolveTarget(ctx context.Context, st store.SnapshotStore, arg string, opts source.Options) (any, error) {
	if name, ok := strings.CutPrefix(arg, "snap:"); ok {
		snap, err := st.Get(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("snapshot %q: %w", name, err)
		}
		return snap.Document, nil
	}
	return source.Load(ctx, arg, opts)
}

func openStore() (*bboltStore.Store, error) {
	path := viper.GetString("store")
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, ".structdiff.db")
	}
	return bboltStore.New(path, nil)
}
