package model

import (
	"testing"
	"time"
)

func TestNormalizeAliases(t *testing.T) {
	raw := map[string]any{
		"headline":    "School Exchange Week",
		"body":        "Students visited partner schools.",
		"thumbnail":   "/uploads/exchange.jpg",
		"websiteLink": "https://example.org/exchange",
		"publishedAt": "2024-03-15T10:00:00Z",
		"categories":  []any{"Culture", "Youth"},
	}

	item := Normalize(raw)

	if item.Title != "School Exchange Week" {
		t.Errorf("expected headline to resolve to title, got %q", item.Title)
	}
	if item.Content != "Students visited partner schools." {
		t.Errorf("expected body to resolve to content, got %q", item.Content)
	}
	if item.ImageURL != "/uploads/exchange.jpg" {
		t.Errorf("expected thumbnail to resolve to imageUrl, got %q", item.ImageURL)
	}
	if item.Link != "https://example.org/exchange" {
		t.Errorf("expected websiteLink to resolve to link, got %q", item.Link)
	}
	want := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	if !item.Date.Equal(want) {
		t.Errorf("expected date %v, got %v", want, item.Date)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "Culture" || item.Tags[1] != "Youth" {
		t.Errorf("expected categories to resolve to tags, got %v", item.Tags)
	}
}

func TestNormalizeLinkPriority(t *testing.T) {
	// An explicit link field wins over the aliases.
	item := Normalize(map[string]any{
		"link":        "https://example.org/primary",
		"url":         "https://example.org/secondary",
		"websiteLink": "https://example.org/tertiary",
	})
	if item.Link != "https://example.org/primary" {
		t.Errorf("expected explicit link to win, got %q", item.Link)
	}
}

func TestNormalizeIDFallbacks(t *testing.T) {
	// Server id wins.
	item := Normalize(map[string]any{"_id": "abc123", "link": "https://x.org/a"})
	if item.ID != "abc123" {
		t.Errorf("expected server id, got %q", item.ID)
	}

	// Link is the fallback identity.
	item = Normalize(map[string]any{"url": "https://x.org/a"})
	if item.ID != "https://x.org/a" {
		t.Errorf("expected link-derived id, got %q", item.ID)
	}

	// Without either, a random token is assigned (non-empty, non-stable).
	a := Normalize(map[string]any{"title": "No identity"})
	b := Normalize(map[string]any{"title": "No identity"})
	if a.ID == "" {
		t.Error("expected random fallback id, got empty")
	}
	if a.ID == b.ID {
		t.Error("fallback ids should not collide across calls")
	}
}

func TestNormalizeNeverPanics(t *testing.T) {
	malformed := []map[string]any{
		nil,
		{},
		{"title": 42.0, "tags": 7.0, "date": true, "creators": "not-a-list"},
		{"tags": []any{1.0, true, nil}},
		{"date": "not a date", "year": "banana"},
	}
	for i, raw := range malformed {
		item := Normalize(raw)
		if item.Tags == nil {
			t.Errorf("record %d: tags must be a sequence, got nil", i)
		}
	}
}

func TestSplitTagsDelimitedString(t *testing.T) {
	tags := SplitTags("a, b  c")
	if len(tags) != 3 || tags[0] != "a" || tags[1] != "b" || tags[2] != "c" {
		t.Errorf(`expected ["a" "b" "c"], got %v`, tags)
	}
}

func TestSplitTagsShapes(t *testing.T) {
	if got := SplitTags([]any{"Science", " Youth ", ""}); len(got) != 2 {
		t.Errorf("expected 2 tags from native sequence, got %v", got)
	}
	if got := SplitTags(nil); got == nil || len(got) != 0 {
		t.Errorf("expected empty sequence for nil, got %v", got)
	}
	if got := SplitTags(17.5); got == nil || len(got) != 0 {
		t.Errorf("expected empty sequence for non-conforming shape, got %v", got)
	}
}

func TestParseDateFormats(t *testing.T) {
	cases := []struct {
		in   any
		want time.Time
	}{
		{"2025-06-01", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-01-01T08:30:00Z", time.Date(2024, 1, 1, 8, 30, 0, 0, time.UTC)},
		{float64(1700000000000), time.UnixMilli(1700000000000).UTC()},
		{"garbage", time.Time{}},
		{nil, time.Time{}},
	}
	for _, c := range cases {
		got := parseDate(c.in)
		if !got.Equal(c.want) {
			t.Errorf("parseDate(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestNormalizeYear(t *testing.T) {
	if item := Normalize(map[string]any{"year": 2023.0}); item.Year != 2023 {
		t.Errorf("expected year 2023, got %d", item.Year)
	}
	if item := Normalize(map[string]any{"year": "2021"}); item.Year != 2021 {
		t.Errorf("expected year 2021 from string, got %d", item.Year)
	}
}
