package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Field aliases observed across collection records, in priority order.
// The admin form writes websiteLink for projects; older records carry
// url/sourceUrl; news records use headline/publishedAt/categories.
var (
	titleKeys   = []string{"title", "headline", "name"}
	contentKeys = []string{"content", "description", "body"}
	imageKeys   = []string{"imageUrl", "image", "thumbnail"}
	linkKeys    = []string{"link", "url", "websiteLink", "website", "sourceUrl"}
	dateKeys    = []string{"date", "publishedAt", "pubDate"}
	tagKeys     = []string{"tags", "categories"}
	idKeys      = []string{"_id", "id"}
)

// dateLayouts are tried in order when a date arrives as a string.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

// Normalize converts one raw record of unknown shape into a canonical Item.
// It never fails: missing or malformed fields degrade to zero values so one
// bad record cannot poison a batch.
//
// Identity resolution: server id if present, else the link, else a random
// token. The random token is not stable across reloads; upstream records
// without either field lose cursor stability, which we accept.
func Normalize(raw map[string]any) Item {
	link := firstString(raw, linkKeys)

	id := firstString(raw, idKeys)
	if id == "" {
		id = link
	}
	if id == "" {
		id = uuid.NewString()
	}

	return Item{
		ID:       id,
		Title:    firstString(raw, titleKeys),
		Content:  firstString(raw, contentKeys),
		ImageURL: firstString(raw, imageKeys),
		Link:     link,
		Date:     firstDate(raw, dateKeys),
		Tags:     SplitTags(firstValue(raw, tagKeys)),
		Creators: stringSlice(raw["creators"]),
		Year:     intValue(raw["year"]),
	}
}

// NormalizeAll converts a batch of raw records.
func NormalizeAll(raws []map[string]any) []Item {
	items := make([]Item, len(raws))
	for i, raw := range raws {
		items[i] = Normalize(raw)
	}
	return items
}

// SplitTags normalizes the tags field to a slice of non-empty strings.
// Accepts a native sequence or a single comma/whitespace-delimited string
// (the project schema stores tags as one string). Anything else degrades
// to an empty slice.
func SplitTags(v any) []string {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		return cleanTags(t)
	case []any:
		tags := make([]string, 0, len(t))
		for _, e := range t {
			if s, ok := e.(string); ok {
				tags = append(tags, s)
			}
		}
		return cleanTags(tags)
	case string:
		fields := strings.FieldsFunc(t, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
		})
		return cleanTags(fields)
	default:
		return []string{}
	}
}

func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// firstValue returns the first non-nil value among the given keys.
func firstValue(raw map[string]any, keys []string) any {
	for _, k := range keys {
		if v, ok := raw[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// firstString returns the first non-empty string-convertible value among keys.
func firstString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if s := asString(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

func firstDate(raw map[string]any, keys []string) time.Time {
	for _, k := range keys {
		if ts := parseDate(raw[k]); !ts.IsZero() {
			return ts
		}
	}
	return time.Time{}
}

// asString coerces scalar JSON values to a display string.
func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(s)
	case float64:
		if s == math.Trunc(s) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case fmt.Stringer:
		return s.String()
	default:
		return ""
	}
}

// parseDate accepts a string in any known layout or a unix timestamp in
// seconds or milliseconds. Unparseable values yield the zero time, which
// sorts oldest under the date sort.
func parseDate(v any) time.Time {
	switch d := v.(type) {
	case string:
		d = strings.TrimSpace(d)
		if d == "" {
			return time.Time{}
		}
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, d); err == nil {
				return ts
			}
		}
		return time.Time{}
	case float64:
		if d <= 0 {
			return time.Time{}
		}
		// Heuristic: values this large are milliseconds.
		if d > 1e12 {
			return time.UnixMilli(int64(d)).UTC()
		}
		return time.Unix(int64(d), 0).UTC()
	case time.Time:
		return d
	default:
		return time.Time{}
	}
}

func stringSlice(v any) []string {
	switch s := v.(type) {
	case []string:
		return cleanTags(s)
	case []any:
		out := make([]string, 0, len(s))
		for _, e := range s {
			if str, ok := e.(string); ok && strings.TrimSpace(str) != "" {
				out = append(out, strings.TrimSpace(str))
			}
		}
		return out
	default:
		return nil
	}
}

func intValue(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	default:
		return 0
	}
}
