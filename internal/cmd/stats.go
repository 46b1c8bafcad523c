package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/structdiff/structdiff/diff"
	"github.com/structdiff/structdiff/internal/source"
)

func statsCmd() *cobra.Command {
	var format string
	var srcOpts source.Options

	command := &cobra.Command{
		Use:   "stats TARGET [TARGET]",
		Short: "Summarize a document's shape, or the size of a change between two",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcOpts.Logger = logger()
			return runStats(cmd.Context(), cmd.OutOrStdout(), args, format, srcOpts)
		},
	}

	command.Flags().StringVar(&format, "format", formatSummary,
		"output format, json or summary")
	sourceFlags(command, &srcOpts)

	return command
}

func runStats(ctx context.Context, out io.Writer, args []string, format string, srcOpts source.Options) error {
	first, err := source.Load(ctx, args[0], srcOpts)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		shape := diff.CountValues(first)
		switch format {
		case formatJSON:
			return writeJSON(out, shape)
		case formatSummary:
			fmt.Fprintf(out, "Target: %s\n", args[0])
			fmt.Fprintf(out, "Mappings: %d\n", shape.Mappings)
			fmt.Fprintf(out, "Sequences: %d\n", shape.Sequences)
			fmt.Fprintf(out, "Leaves: %d\n", shape.Leaves)
			fmt.Fprintf(out, "Nulls: %d\n", shape.Nulls)
			fmt.Fprintf(out, "Max depth: %d\n", shape.MaxDepth)
			return nil
		default:
			return fmt.Errorf("unknown format %q, expected json or summary", format)
		}
	}

	second, err := source.Load(ctx, args[1], srcOpts)
	if err != nil {
		return err
	}

	stats := diff.Aggregate(diff.Compare(first, second))
	switch format {
	case formatJSON:
		return writeJSON(out, stats)
	case formatSummary:
		diff.RenderSummary(out, stats)
		return nil
	default:
		return fmt.Errorf("unknown format %q, expected json or summary", format)
	}
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats JSON: %w", err)
	}
	data = append(data, '\n')
	if _, err := out.Write(data); err != nil {
		return fmt.Errorf("write stats JSON: %w", err)
	}
	return nil
}
