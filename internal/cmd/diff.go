package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/structdiff/structdiff/diff"
	"github.com/structdiff/structdiff/internal/filter"
	"github.com/structdiff/structdiff/internal/normalize"
	"github.com/structdiff/structdiff/internal/source"
)

const (
	formatText    = "text"
	formatJSON    = "json"
	formatSummary = "summary"
)

func diffCmd() *cobra.Command {
	var opts diffOptions

	command := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two documents and report every difference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.source.Logger = logger()
			return runDiff(cmd.Context(), cmd.OutOrStdout(), args[0], args[1], opts)
		},
	}

	command.Flags().StringVar(&opts.format, "format", formatText,
		"output format, one of text, json or summary")
	command.Flags().StringVarP(&opts.rulesFile, "rules", "r", "",
		"normalization rules file applied to both documents before comparing")
	command.Flags().StringVarP(&opts.filterExpr, "filter", "f", "All()",
		"expression selecting which entries to report")
	command.Flags().IntVar(&opts.maxChanges, "max-changes", 500,
		"maximum changes shown in text output, -1 for everything")
	command.Flags().BoolVar(&opts.changesOnly, "changes-only", false,
		"drop unchanged entries from the output")
	command.Flags().BoolVar(&opts.docs, "docs", false,
		"treat OLD and NEW as directories of documents")
	sourceFlags(command, &opts.source)

	return command
}

type diffOptions struct {
	format      string
	rulesFile   string
	filterExpr  string
	maxChanges  int
	changesOnly bool
	docs        bool
	source      source.Options
}

func runDiff(ctx context.Context, out io.Writer, oldArg, newArg string, opts diffOptions) error {
	var rules []normalize.Rule
	if opts.rulesFile != "" {
		var err error
		rules, err = normalize.LoadRules(opts.rulesFile)
		if err != nil {
			return err
		}
	}

	var entries []diff.Entry
	if opts.docs {
		first, err := source.LoadDir(oldArg, opts.source)
		if err != nil {
			return err
		}
		second, err := source.LoadDir(newArg, opts.source)
		if err != nil {
			return err
		}
		if err := normalizeDocs(first, second, rules, opts.source); err != nil {
			return err
		}
		entries = diff.CompareDocs(first, second)
	} else {
		first, err := source.Load(ctx, oldArg, opts.source)
		if err != nil {
			return err
		}
		second, err := source.Load(ctx, newArg, opts.source)
		if err != nil {
			return err
		}
		if len(rules) > 0 {
			res, err := normalize.Apply(first, second, rules)
			if err != nil {
				return err
			}
			logApplied(res.Applied, opts.source)
			first, second = res.First, res.Second
		}
		entries = diff.Compare(first, second)
	}

	f, err := filter.Compile(opts.filterExpr)
	if err != nil {
		return err
	}
	entries, err = f.Apply(entries)
	if err != nil {
		return err
	}

	if opts.changesOnly {
		entries = dropUnchanged(entries)
	}

	return renderEntries(out, entries, opts.format, opts.maxChanges)
}

// normalizeDocs rewrites each document of a grouped compare in place. Sides
// normalize independently, so documents present on only one side still get
// their rules applied.
func normalizeDocs(first, second map[string]any, rules []normalize.Rule, opts source.Options) error {
	if len(rules) == 0 {
		return nil
	}
	for key, doc := range first {
		res, err := normalize.Apply(doc, nil, rules)
		if err != nil {
			return err
		}
		logApplied(res.Applied, opts)
		first[key] = res.First
	}
	for key, doc := range second {
		res, err := normalize.Apply(nil, doc, rules)
		if err != nil {
			return err
		}
		logApplied(res.Applied, opts)
		second[key] = res.Second
	}
	return nil
}

func logApplied(applied []normalize.Applied, opts source.Options) {
	for _, ap := range applied {
		opts.Logger.Debug().
			Str("rule", ap.Match).
			Str("action", ap.Action).
			Str("path", ap.Path).
			Str("side", ap.Side).
			Msg("applied normalization rule")
	}
}

// dropUnchanged removes unchanged leaves and any parents left without
// children after the removal.
func dropUnchanged(entries []diff.Entry) []diff.Entry {
	kept := make([]diff.Entry, 0, len(entries))
	for _, e := range entries {
		if len(e.Children) > 0 {
			e.Children = dropUnchanged(e.Children)
			if len(e.Children) == 0 {
				continue
			}
			kept = append(kept, e)
			continue
		}
		if e.Type.Changed() {
			kept = append(kept, e)
		}
	}
	return kept
}

func renderEntries(out io.Writer, entries []diff.Entry, format string, maxChanges int) error {
	switch format {
	case formatText:
		// Character-level string diffs only read well with styling, so they
		// follow the color switch.
		diff.RenderText(out, entries, diff.TextOptions{
			MaxChanges:    maxChanges,
			Theme:         theme(),
			InlineStrings: colorEnabled(),
		})
		return nil
	case formatJSON:
		return diff.RenderJSON(out, entries)
	case formatSummary:
		diff.RenderSummary(out, diff.Aggregate(entries))
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected text, json or summary", format)
	}
}

// sourceFlags registers the flags shared by every command that loads
// documents.
func sourceFlags(command *cobra.Command, opts *source.Options) {
	command.Flags().StringVar(&opts.Ref, "ref", "main",
		"commit, branch or tag for repository sources")
	command.Flags().StringVar(&opts.Path, "path", "",
		"file path within repository sources")
	command.Flags().StringVar(&opts.Format, "from", "",
		"force the document format, json or yaml")
}
