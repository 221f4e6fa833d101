package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mbegonja/plusview/internal/debug"
)

// debugPanelChrome is the number of terminal lines consumed by
// DebugPanel's border (2) and vertical padding (2).
const debugPanelChrome = 4

// debugOverlay renders the debug panel showing engine stats and recent
// events. Pure function with no side effects. Returns a placeholder if
// no buffer is wired.
func debugOverlay(events *debug.Buffer, width, height int) string {
	if events == nil {
		return PlaceholderStyle.Render("Debug buffer disabled.")
	}

	stats := events.Stats()
	recent := events.Last(20)

	var lines []string
	lines = append(lines, DebugHeaderStyle.Render("Engine Stats"))
	lines = append(lines, fmt.Sprintf("  Fetches:   %d", stats[debug.KindFetch]))
	lines = append(lines, fmt.Sprintf("  Applies:   %d", stats[debug.KindApply]))
	lines = append(lines, fmt.Sprintf("  Resets:    %d", stats[debug.KindReset]))
	lines = append(lines, fmt.Sprintf("  Triggers:  %d", stats[debug.KindTrigger]))
	lines = append(lines, fmt.Sprintf("  Deletes:   %d", stats[debug.KindDelete]))
	lines = append(lines, fmt.Sprintf("  Errors:    %d", stats[debug.KindError]))
	lines = append(lines, fmt.Sprintf("  Buffer:    %d events", events.Len()))
	lines = append(lines, "")

	lines = append(lines, DebugHeaderStyle.Render("Recent Events"))
	for _, e := range recent {
		line := fmt.Sprintf("  %6s  %-8s  %s",
			formatEventAge(time.Since(e.Time)), string(e.Kind), truncateRunes(e.Msg, 48))
		lines = append(lines, line)
	}

	maxHeight := height - debugPanelChrome
	if maxHeight < 1 {
		maxHeight = 1
	}
	if len(lines) > maxHeight {
		lines = lines[:maxHeight]
	}

	panelWidth := 76
	if panelWidth > width-4 {
		panelWidth = width - 4
	}
	if panelWidth < 20 {
		panelWidth = 20
	}

	return DebugPanel.Width(panelWidth).Render(strings.Join(lines, "\n"))
}

// formatEventAge formats a duration as a compact human string.
// Negative durations from clock skew clamp to "0ms".
func formatEventAge(d time.Duration) string {
	if d < 0 {
		return "0ms"
	}
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
}

// debugStatusBar renders the status bar for the debug overlay.
func debugStatusBar(width int) string {
	keys := StatusBarKey.Render("D") + StatusBarText.Render(":close")
	return StatusBar.Width(width).Render("  [DEBUG]  " + keys)
}
