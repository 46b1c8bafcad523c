package diff

import (
	"regexp"
	"strings"
)

// Path locates one value inside a document: mapping keys and decimal
// sequence indices, outermost segment first.
type Path []string

var (
	indexSegment = regexp.MustCompile(`^\d+$`)
	identSegment = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)
)

// String renders the path for display. The empty path renders as "root".
// The first segment is written bare; every following segment is written as
// "[0]" when it is all digits, ".key" when it is identifier-like, and as a
// bracket-quoted ["key"] otherwise. Quote characters inside bracket-quoted
// segments are not escaped.
func (p Path) String() string {
	if len(p) == 0 {
		return "root"
	}
	var sb strings.Builder
	sb.WriteString(p[0])
	for _, seg := range p[1:] {
		switch {
		case indexSegment.MatchString(seg):
			sb.WriteString("[")
			sb.WriteString(seg)
			sb.WriteString("]")
		case identSegment.MatchString(seg):
			sb.WriteString(".")
			sb.WriteString(seg)
		default:
			sb.WriteString(`["`)
			sb.WriteString(seg)
			sb.WriteString(`"]`)
		}
	}
	return sb.String()
}
