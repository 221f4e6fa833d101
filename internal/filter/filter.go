// Package filter provides pure filter functions for items.
// All functions are simple: []Item in, []Item out. No side effects.
package filter

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mbegonja/plusview/internal/model"
)

// titleCollator performs locale-aware title comparison, matching the
// ordering the site gets from localeCompare in browsers.
var titleCollator = collate.New(language.Und, collate.Loose)

// BySearch retains items whose title, content, any tag, or any creator
// contains term as a case-insensitive substring. An empty term keeps
// everything.
func BySearch(items []model.Item, term string) []model.Item {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return items
	}

	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if matchesSearch(item, term) {
			result = append(result, item)
		}
	}
	return result
}

func matchesSearch(item model.Item, term string) bool {
	if strings.Contains(strings.ToLower(item.Title), term) {
		return true
	}
	if strings.Contains(strings.ToLower(item.Content), term) {
		return true
	}
	for _, tag := range item.Tags {
		if strings.Contains(strings.ToLower(tag), term) {
			return true
		}
	}
	for _, c := range item.Creators {
		if strings.Contains(strings.ToLower(c), term) {
			return true
		}
	}
	return false
}

// ByTags retains items carrying every active filter key (AND semantics).
// Keys are lowercase; item tags are compared case-insensitively so that
// "Science" satisfies the "science" filter. An empty filter set keeps
// everything.
func ByTags(items []model.Item, active map[string]string) []model.Item {
	if len(active) == 0 {
		return items
	}

	result := make([]model.Item, 0, len(items))
	for _, item := range items {
		if hasAllTags(item, active) {
			result = append(result, item)
		}
	}
	return result
}

func hasAllTags(item model.Item, active map[string]string) bool {
	lower := make(map[string]bool, len(item.Tags))
	for _, tag := range item.Tags {
		lower[strings.ToLower(tag)] = true
	}
	for key := range active {
		if !lower[key] {
			return false
		}
	}
	return true
}

// SortItems orders items by the given key without mutating the input:
// "date" is newest first with undated items last, "year" is descending,
// "title" is locale-aware ascending. Any other key preserves input order.
func SortItems(items []model.Item, key string) []model.Item {
	result := make([]model.Item, len(items))
	copy(result, items)

	switch key {
	case "date":
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Date.After(result[j].Date)
		})
	case "year":
		sort.SliceStable(result, func(i, j int) bool {
			return result[i].Year > result[j].Year
		})
	case "title":
		sort.SliceStable(result, func(i, j int) bool {
			return titleCollator.CompareString(result[i].Title, result[j].Title) < 0
		})
	}
	return result
}

// PageSlice returns the 1-based page of the given size. Pages beyond the
// end yield an empty slice, which callers treat as end-of-stream.
func PageSlice(items []model.Item, page, size int) []model.Item {
	if page < 1 || size < 1 {
		return []model.Item{}
	}
	start := (page - 1) * size
	if start >= len(items) {
		return []model.Item{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// TotalPages is ceil(count/size), at least 1 (an empty view is a single
// empty page).
func TotalPages(count, size int) int {
	if size < 1 {
		return 1
	}
	pages := (count + size - 1) / size
	if pages < 1 {
		return 1
	}
	return pages
}
