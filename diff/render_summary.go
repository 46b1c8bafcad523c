package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pulumi/inflector"
)

// RenderSummary writes the aggregate totals as one human-readable line.
func RenderSummary(out io.Writer, stats Stats) {
	parts := []string{
		countNoun(stats.Added, "addition"),
		countNoun(stats.Removed, "removal"),
		countNoun(stats.Modified, "modification"),
		countNoun(stats.Unchanged, "unchanged entry"),
	}
	fmt.Fprintf(out, "%s (%d total).\n", strings.Join(parts, ", "), stats.Total)
}

func countNoun(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %s", n, inflector.Pluralize(noun))
}
