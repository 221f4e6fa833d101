package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorError     = lipgloss.Color("196") // Red
)

// defaultTagColors is the fixed tag-to-color lookup for badges.
// Unknown tags fall back to badgeNeutral.
var defaultTagColors = map[string]string{
	"sustainability": "#2e7d32",
	"technology":     "#1565c0",
	"innovation":     "#0277bd",
	"culture":        "#6a1b9a",
	"exchange":       "#ef6c00",
	"youth":          "#ad1457",
	"science":        "#00695c",
	"collaboration":  "#4527a0",
	"newsletter":     "#546e7a",
}

const badgeNeutral = "#555555"

// TagColor resolves the badge color for a tag, checking the override
// map first, then the fixed lookup.
func TagColor(tag string, overrides map[string]string) lipgloss.Color {
	key := strings.ToLower(strings.TrimSpace(tag))
	if c, ok := overrides[key]; ok {
		return lipgloss.Color(c)
	}
	if c, ok := defaultTagColors[key]; ok {
		return lipgloss.Color(c)
	}
	return lipgloss.Color(badgeNeutral)
}

// TagBadge renders a tag badge in its lookup color.
func TagBadge(tag string, overrides map[string]string) string {
	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("255")).
		Background(TagColor(tag, overrides)).
		Padding(0, 1)
	return style.Render(tag)
}

// CardTitle style for item titles.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// SelectedCardTitle style for the highlighted item's title.
var SelectedCardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// CardMeta style for dates, creators, and links.
var CardMeta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// CardPreview style for the content preview.
var CardPreview = lipgloss.NewStyle().
	Foreground(lipgloss.Color("252"))

// FilterBar style for the active filters region.
var FilterBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// SearchPrompt style for the "/" prompt.
var SearchPrompt = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// StatusBarKey style for key hints in the status bar.
var StatusBarKey = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// StatusBarText style for descriptive text in the status bar.
var StatusBarText = lipgloss.NewStyle().
	Foreground(colorSecondary)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorError).
	Bold(true).
	Padding(0, 1)

// PlaceholderStyle for the no-results and initial-error placeholders.
var PlaceholderStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(1, 2)

// EndMarker style for the end-of-stream line.
var EndMarker = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// DebugPanel style for the debug overlay.
var DebugPanel = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// DebugHeaderStyle for debug overlay section headers.
var DebugHeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(colorHighlight)
