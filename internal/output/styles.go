package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. ANSI-256 indices so output looks the same on light and dark
// terminals.
var (
	ColorCyan    = lipgloss.Color("14")
	ColorGreen   = lipgloss.Color("82")
	ColorYellow  = lipgloss.Color("220")
	ColorRed     = lipgloss.Color("196")
	ColorBoldRed = lipgloss.Color("204")
	ColorCheck   = lipgloss.Color("10")
	ColorDimGray = lipgloss.Color("240")
)

var (
	// StyleNoun highlights sites, channels, versions, files and domains.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)
	StyleDim  = lipgloss.NewStyle().Faint(true)
)

// Per-item status words printed by hash and auth sync.
const (
	StatusCached = "cached"
	StatusHashed = "hashed"
	StatusKept   = "kept"
	StatusPruned = "pruned"
	StatusFailed = "failed"
)

var statusStyles = map[string]lipgloss.Style{
	StatusCached: StyleDim,
	StatusHashed: lipgloss.NewStyle().Foreground(ColorYellow),
	StatusKept:   lipgloss.NewStyle().Foreground(ColorGreen),
	StatusPruned: lipgloss.NewStyle().Foreground(ColorRed),
	StatusFailed: lipgloss.NewStyle().Bold(true).Foreground(ColorBoldRed),
}

// StatusStyle returns the style for a status word. Unknown words are unstyled.
func StatusStyle(status string) lipgloss.Style {
	if s, ok := statusStyles[status]; ok {
		return s
	}
	return lipgloss.NewStyle()
}

// itemWidth is the column the status word starts at for short names.
const itemWidth = 48

// FormatItemLine renders "<kind> <name>" with the status word aligned to the
// right of it.
func FormatItemLine(kind, name, status string) string {
	gap := max(itemWidth-len(kind)-1-len(name), 2)
	return StyleDim.Render(kind) + " " + StyleNoun.Render(name) +
		strings.Repeat(" ", gap) + StatusStyle(status).Render(status)
}

// FormatCheckmark prefixes msg with a green check mark.
func FormatCheckmark(msg string) string {
	return lipgloss.NewStyle().Foreground(ColorCheck).Render("✔") + " " + msg
}
