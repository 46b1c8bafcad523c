package diff

import "github.com/charmbracelet/lipgloss"

// Theme styles the markers and values emitted by the text renderer.
type Theme struct {
	AddedStyle     lipgloss.Style
	RemovedStyle   lipgloss.Style
	ModifiedStyle  lipgloss.Style
	UnchangedStyle lipgloss.Style
	ValueStyle     lipgloss.Style
}

// DefaultTheme colors markers with the conventional diff palette.
var DefaultTheme = Theme{
	AddedStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
	RemovedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	ModifiedStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
	UnchangedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("243")),
	ValueStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
}

// PlainTheme renders everything unstyled, for piped or captured output.
var PlainTheme = Theme{}

// Marker renders the one-character change indicator for an entry type.
func (t Theme) Marker(et EntryType) string {
	switch et {
	case Added:
		return t.AddedStyle.Render("+")
	case Removed:
		return t.RemovedStyle.Render("-")
	case Modified:
		return t.ModifiedStyle.Render("~")
	default:
		return t.UnchangedStyle.Render("=")
	}
}
