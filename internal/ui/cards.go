package ui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"

	"github.com/mbegonja/plusview/internal/controller"
	"github.com/mbegonja/plusview/internal/model"
	"github.com/mbegonja/plusview/internal/render"
)

// CardLines is the fixed line height of one card for the given
// density mode. Fixed heights keep scroll math trivial.
func CardLines(density string) int {
	if density == "compact" {
		return 2
	}
	return 5
}

// VisibleCards is how many whole cards fit in the content region.
func VisibleCards(height int, density string) int {
	n := height / CardLines(density)
	if n < 1 {
		n = 1
	}
	return n
}

// CardOffset clamps a scroll offset so the cursor stays visible.
func CardOffset(cursor, offset, height int, density string) int {
	visible := VisibleCards(height, density)
	if cursor < offset {
		return cursor
	}
	if cursor >= offset+visible {
		return cursor - visible + 1
	}
	return offset
}

// RenderCards renders the card list starting at the given item offset.
// An exhausted list gets an end marker after the last card.
func RenderCards(items []model.Item, cursor, offset, width, height int, density string, tagColors map[string]string, endReached bool) string {
	if len(items) == 0 {
		return PlaceholderStyle.Render("No results. Press 'c' to clear filters or 'r' to reload.")
	}

	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		offset = len(items) - 1
	}

	var b strings.Builder
	lines := 0
	perCard := CardLines(density)

	for i := offset; i < len(items); i++ {
		if lines+perCard > height {
			break
		}
		b.WriteString(renderCard(items[i], i == cursor, width, density, tagColors))
		lines += perCard
	}

	if endReached && lines < height {
		b.WriteString(EndMarker.Render("— end of results —"))
		b.WriteString("\n")
	}

	return b.String()
}

// renderCard renders one item at the fixed card height.
func renderCard(item model.Item, selected bool, width int, density string, tagColors map[string]string) string {
	var b strings.Builder

	title := render.Title(item)
	titleBudget := width - 4
	if titleBudget < 20 {
		titleBudget = 20
	}
	title = truncateRunes(title, titleBudget)
	if selected {
		b.WriteString("> " + SelectedCardTitle.Render(title))
	} else {
		b.WriteString("  " + CardTitle.Render(title))
	}
	b.WriteString("\n")

	// Meta line: date, then numbered tag badges (the number is the
	// toggle key for that tag).
	meta := "  " + CardMeta.Render(render.FormatDate(item))
	for i, tag := range item.Tags {
		if i >= 9 {
			break
		}
		badge := TagBadge(fmt.Sprintf("%d:%s", i+1, tag), tagColors)
		meta += " " + badge
	}
	b.WriteString(meta)
	b.WriteString("\n")

	if density == "compact" {
		return b.String()
	}

	preview := truncateRunes(render.Preview(item.Content), width-4)
	b.WriteString("  " + CardPreview.Render(preview))
	b.WriteString("\n")

	link := item.Link
	if link == "" && len(item.Creators) == 0 {
		b.WriteString("\n")
	} else {
		extra := link
		if len(item.Creators) > 0 {
			by := "by " + strings.Join(item.Creators, ", ")
			if extra != "" {
				extra += "  " + by
			} else {
				extra = by
			}
		}
		b.WriteString("  " + CardMeta.Render(truncateRunes(extra, width-4)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	return b.String()
}

// RenderActiveFilters renders the active-filters bar. Each badge is
// removable by toggling the same tag again.
func RenderActiveFilters(filters []string, tagColors map[string]string, width int) string {
	if len(filters) == 0 {
		return ""
	}
	parts := make([]string, 0, len(filters)+1)
	parts = append(parts, StatusBarText.Render("filters:"))
	for _, f := range filters {
		parts = append(parts, TagBadge(f+" ×", tagColors))
	}
	return FilterBar.Width(width).Render(strings.Join(parts, " "))
}

// RenderSearchBar renders the search input line.
func RenderSearchBar(text string, focused bool, matched int, width int) string {
	prompt := SearchPrompt.Render("/")
	body := text
	if focused {
		body += "▌"
	}
	count := ""
	if !focused && text != "" {
		count = StatusBarText.Render(fmt.Sprintf("  %d shown", matched))
	}
	content := prompt + body + count
	pad := width - lipgloss.Width(content) - 2
	if pad < 0 {
		pad = 0
	}
	return FilterBar.Width(width).Render(content + strings.Repeat(" ", pad))
}

// RenderStatusBar renders the bottom status bar.
func RenderStatusBar(list *controller.List, width int, loading bool, spin string) string {
	var left string
	switch {
	case loading:
		left = " " + spin + " loading… "
	default:
		total, known := list.TotalPages()
		if known {
			left = fmt.Sprintf(" %s · page %d/%d · %s ", list.Collection(), list.Page(), total, list.Mode())
		} else {
			left = fmt.Sprintf(" %s · page %d · %s ", list.Collection(), list.Page(), list.Mode())
		}
	}

	keys := []string{
		StatusBarKey.Render("j/k") + StatusBarText.Render(":nav"),
		StatusBarKey.Render("/") + StatusBarText.Render(":search"),
		StatusBarKey.Render("s") + StatusBarText.Render(":sort"),
		StatusBarKey.Render("1-9") + StatusBarText.Render(":tag"),
		StatusBarKey.Render("c") + StatusBarText.Render(":clear"),
		StatusBarKey.Render("d") + StatusBarText.Render(":delete"),
		StatusBarKey.Render("r") + StatusBarText.Render(":reload"),
		StatusBarKey.Render("q") + StatusBarText.Render(":quit"),
	}
	keyHints := strings.Join(keys, " ")

	pad := width - lipgloss.Width(left) - lipgloss.Width(keyHints)
	if pad < 0 {
		pad = 0
	}
	return StatusBar.Width(width).Render(left + strings.Repeat(" ", pad) + keyHints)
}

func truncateRunes(s string, max int) string {
	if max < 1 {
		return ""
	}
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-1]) + "…"
}
