// Package stub implements a small fixture server speaking the collection
// API contract in both of its observed shapes. It backs cmd/plusview-stub
// for local development and the loader/controller tests.
package stub

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Record is a raw server record. Field names deliberately vary (headline
// vs title, websiteLink vs link, tags as string vs array) to exercise the
// client-side normalizer the way real deployments do.
type Record map[string]any

// Server holds seeded collections and serves them over the API contract.
type Server struct {
	mu          sync.RWMutex
	collections map[string][]Record
	paginate    bool // envelope mode when true, bare array when false
}

// New creates a Server. When paginate is true, GET responses use the
// {items, totalPages} envelope and apply q/tags/sort server-side;
// otherwise the full collection is returned as a bare array and all
// filtering is the client's problem.
func New(paginate bool) *Server {
	return &Server{
		collections: map[string][]Record{},
		paginate:    paginate,
	}
}

// Seed replaces the named collection.
func (s *Server) Seed(collection string, records []Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]Record, len(records))
	copy(cp, records)
	s.collections[collection] = cp
}

// Len returns the current size of the named collection.
func (s *Server) Len(collection string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.collections[collection])
}

// Router builds the chi router for the API surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/api/{collection}", s.handleList)
	r.Delete("/api/{collection}/{id}", s.handleDelete)
	return r
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")

	s.mu.RLock()
	records, ok := s.collections[collection]
	s.mu.RUnlock()
	if !ok {
		http.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if !s.paginate {
		json.NewEncoder(w).Encode(records)
		return
	}

	page := intParam(r, "page", 1)
	limit := intParam(r, "limit", 10)
	filtered := applyQuery(records, r.URL.Query().Get("q"), r.URL.Query().Get("tags"), r.URL.Query().Get("sort"))

	totalPages := (len(filtered) + limit - 1) / limit
	if totalPages < 1 {
		totalPages = 1
	}

	start := (page - 1) * limit
	var slice []Record
	if start < len(filtered) {
		end := start + limit
		if end > len(filtered) {
			end = len(filtered)
		}
		slice = filtered[start:end]
	} else {
		slice = []Record{}
	}

	json.NewEncoder(w).Encode(map[string]any{
		"items":      slice,
		"total":      len(filtered),
		"totalPages": totalPages,
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	collection := chi.URLParam(r, "collection")
	id := chi.URLParam(r, "id")

	s.mu.Lock()
	defer s.mu.Unlock()

	records, ok := s.collections[collection]
	if !ok {
		http.NotFound(w, r)
		return
	}
	for i, rec := range records {
		if recordID(rec) == id {
			s.collections[collection] = append(records[:i], records[i+1:]...)
			w.WriteHeader(http.StatusNoContent)
			return
		}
	}
	http.NotFound(w, r)
}

// applyQuery mirrors the filtering a paginating deployment performs:
// substring search over title/content, AND tag match, date/title sort.
func applyQuery(records []Record, q, tags, sortKey string) []Record {
	result := make([]Record, 0, len(records))
	term := strings.ToLower(strings.TrimSpace(q))

	var wanted []string
	for _, t := range strings.Split(tags, ",") {
		if t = strings.TrimSpace(t); t != "" {
			wanted = append(wanted, strings.ToLower(t))
		}
	}

	for _, rec := range records {
		if term != "" && !recordMatches(rec, term) {
			continue
		}
		if len(wanted) > 0 && !recordHasTags(rec, wanted) {
			continue
		}
		result = append(result, rec)
	}

	switch sortKey {
	case "date":
		sort.SliceStable(result, func(i, j int) bool {
			return stringField(result[i], "date", "publishedAt", "pubDate") >
				stringField(result[j], "date", "publishedAt", "pubDate")
		})
	case "title":
		sort.SliceStable(result, func(i, j int) bool {
			return strings.ToLower(stringField(result[i], "title", "headline", "name")) <
				strings.ToLower(stringField(result[j], "title", "headline", "name"))
		})
	}
	return result
}

func recordMatches(rec Record, term string) bool {
	for _, key := range []string{"title", "headline", "name", "content", "description", "body"} {
		if s, ok := rec[key].(string); ok && strings.Contains(strings.ToLower(s), term) {
			return true
		}
	}
	return false
}

func recordHasTags(rec Record, wanted []string) bool {
	have := map[string]bool{}
	for _, tag := range recordTags(rec) {
		have[strings.ToLower(tag)] = true
	}
	for _, w := range wanted {
		if !have[w] {
			return false
		}
	}
	return true
}

func recordTags(rec Record) []string {
	for _, key := range []string{"tags", "categories"} {
		switch v := rec[key].(type) {
		case []any:
			var tags []string
			for _, e := range v {
				if s, ok := e.(string); ok {
					tags = append(tags, s)
				}
			}
			return tags
		case []string:
			return v
		case string:
			return strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' })
		}
	}
	return nil
}

func recordID(rec Record) string {
	for _, key := range []string{"_id", "id"} {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringField(rec Record, keys ...string) string {
	for _, key := range keys {
		if s, ok := rec[key].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intParam(r *http.Request, name string, fallback int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return fallback
	}
	return v
}
