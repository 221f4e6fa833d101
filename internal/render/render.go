// Package render defines the presentation boundary of the listing
// engine. The controller produces batches of items; a Renderer turns
// them into output. Keeping this behind an interface lets the same
// engine drive the interactive terminal UI and the plain-text dump
// used by the -latest flag, and lets tests run headless.
package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"

	"github.com/mbegonja/plusview/internal/model"
)

// PreviewChars is the character budget for the content preview. Not
// word-aware; the cut is mid-word if that's where the budget lands.
const PreviewChars = 220

// Mode distinguishes appending a batch from replacing the whole view.
type Mode int

const (
	// Replace discards prior output and renders the batch fresh.
	Replace Mode = iota
	// Append adds the batch after previously rendered items.
	Append
)

// Renderer consumes one batch of items.
type Renderer interface {
	Render(items []model.Item, mode Mode) error
}

// Preview truncates content to the preview budget, appending an
// ellipsis when anything was cut.
func Preview(content string) string {
	if utf8.RuneCountInString(content) <= PreviewChars {
		return content
	}
	runes := []rune(content)
	return string(runes[:PreviewChars]) + "…"
}

// FormatDate renders an item's date for display, with a fallback for
// records that never carried one.
func FormatDate(item model.Item) string {
	if !item.HasDate() {
		return "date unknown"
	}
	return item.Date.Format("2 Jan 2006")
}

// Title returns the display title, with a placeholder for records
// that arrived without one.
func Title(item model.Item) string {
	if strings.TrimSpace(item.Title) == "" {
		return "(untitled)"
	}
	return item.Title
}

// Text renders items as plain text to a writer, one block per item.
// Used by the -latest flag and anywhere a terminal UI is overkill.
type Text struct {
	w      io.Writer
	logger *log.Logger
}

// NewText creates a Text renderer. A nil logger is replaced with a
// discarding one.
func NewText(w io.Writer, logger *log.Logger) *Text {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Text{w: w, logger: logger}
}

// Render writes the batch. An empty batch in Replace mode produces a
// no-results line; in Append mode it produces nothing. A record that
// fails to format is logged and skipped, not fatal to the batch.
func (t *Text) Render(items []model.Item, mode Mode) error {
	if len(items) == 0 {
		if mode == Replace {
			_, err := fmt.Fprintln(t.w, "No results.")
			return err
		}
		return nil
	}

	for _, item := range items {
		if err := t.renderOne(item); err != nil {
			t.logger.Warn("skipping unrenderable item", "id", item.ID, "err", err)
		}
	}
	return nil
}

func (t *Text) renderOne(item model.Item) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("render panic: %v", r)
		}
	}()

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", Title(item))
	fmt.Fprintf(&b, "  %s", FormatDate(item))
	if len(item.Tags) > 0 {
		fmt.Fprintf(&b, "  [%s]", strings.Join(item.Tags, ", "))
	}
	b.WriteByte('\n')
	if preview := Preview(item.Content); preview != "" {
		fmt.Fprintf(&b, "  %s\n", preview)
	}
	if item.Link != "" {
		fmt.Fprintf(&b, "  %s\n", item.Link)
	}
	b.WriteByte('\n')

	_, err = io.WriteString(t.w, b.String())
	return err
}
