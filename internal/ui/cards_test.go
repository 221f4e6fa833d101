package ui

import (
	"strings"
	"testing"

	"github.com/mbegonja/plusview/internal/model"
)

func TestTagColorLookup(t *testing.T) {
	if TagColor("Science", nil) != TagColor("science", nil) {
		t.Error("tag color lookup must ignore case")
	}
	if TagColor("Unheard-of", nil) != badgeNeutral {
		t.Errorf("unknown tag must use the neutral color, got %v", TagColor("Unheard-of", nil))
	}
	overrides := map[string]string{"science": "#123456"}
	if TagColor("Science", overrides) != "#123456" {
		t.Error("config override must win")
	}
}

func TestCardOffsetKeepsCursorVisible(t *testing.T) {
	// 20 lines of comfortable cards = 4 visible.
	if got := CardOffset(0, 0, 20, "comfortable"); got != 0 {
		t.Errorf("cursor 0: expected offset 0, got %d", got)
	}
	if got := CardOffset(5, 0, 20, "comfortable"); got != 2 {
		t.Errorf("cursor 5: expected offset 2, got %d", got)
	}
	if got := CardOffset(1, 3, 20, "comfortable"); got != 1 {
		t.Errorf("cursor above window: expected offset 1, got %d", got)
	}
}

func TestRenderCardsPlaceholder(t *testing.T) {
	out := RenderCards(nil, 0, 0, 80, 20, "comfortable", nil, false)
	if !strings.Contains(out, "No results") {
		t.Errorf("expected no-results placeholder, got %q", out)
	}
}

func TestRenderCardsEndMarker(t *testing.T) {
	items := []model.Item{{ID: "1", Title: "Only item"}}
	out := RenderCards(items, 0, 0, 80, 20, "comfortable", nil, true)
	if !strings.Contains(out, "end of results") {
		t.Error("expected end marker after the last card")
	}
}

func TestRenderCardsNumbersTags(t *testing.T) {
	items := []model.Item{{ID: "1", Title: "Tagged", Tags: []string{"Science", "Youth"}}}
	out := RenderCards(items, 0, 0, 80, 20, "comfortable", nil, false)
	if !strings.Contains(out, "1:Science") || !strings.Contains(out, "2:Youth") {
		t.Errorf("expected numbered tag badges, got:\n%s", out)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := truncateRunes("héllo wörld", 6); got != "héllo…" {
		t.Errorf("unexpected truncation: %q", got)
	}
	if got := truncateRunes("short", 10); got != "short" {
		t.Errorf("short string must pass through: %q", got)
	}
}
