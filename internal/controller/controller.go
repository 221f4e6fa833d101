// Package controller owns the listing state machine: pagination mode,
// page bookkeeping, the active filter set, and the rendered item list.
//
// The controller is sans-IO. Operations that need the network return a
// Request; the caller performs the fetch and hands the result back to
// Apply. This keeps every transition directly testable and lets the
// same machine drive a terminal UI or a headless dump.
package controller

import (
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/mbegonja/plusview/internal/api"
	"github.com/mbegonja/plusview/internal/filter"
	"github.com/mbegonja/plusview/internal/model"
)

// DefaultPageSize matches the page size the site has always used.
const DefaultPageSize = 10

// Mode is the pagination strategy, detected from the first response.
type Mode int

const (
	// ModeUnknown means no response has been seen yet.
	ModeUnknown Mode = iota
	// ModeServer means the endpoint paginates and filters per request.
	ModeServer
	// ModeClient means the endpoint returned the whole collection once
	// and all slicing and filtering happens locally.
	ModeClient
)

func (m Mode) String() string {
	switch m {
	case ModeServer:
		return "server"
	case ModeClient:
		return "client"
	default:
		return "unknown"
	}
}

// Request describes one page fetch the caller should perform. Gen ties
// the eventual response back to the state that asked for it; Apply
// discards responses whose generation no longer matches.
type Request struct {
	Gen        uint64
	Collection string
	Query      api.Query
	Initial    bool
}

// Advance is the result of a trigger or reset: either a Request to run,
// or a batch already resolved locally.
type Advance struct {
	OK      bool
	Fetch   bool
	Request Request
	Batch   []model.Item
	Replace bool
}

// Outcome is what Apply tells the caller to do with a fetch result.
type Outcome struct {
	Stale   bool
	Err     error
	Replace bool
	Batch   []model.Item
}

// List is the state for one collection listing.
type List struct {
	collection string
	pageSize   int
	logger     *log.Logger

	mode        Mode
	currentPage int
	totalPages  int
	boundKnown  bool
	endReached  bool
	inFlight    bool
	generation  uint64

	search  string
	sortKey string
	filters map[string]string // lowercase key -> display text

	all      []model.Item // full collection, client mode only
	rendered []model.Item
}

// NewList creates a List for the named collection. A nil logger is
// replaced with a discarding one.
func NewList(collection string, pageSize int, logger *log.Logger) *List {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &List{
		collection: collection,
		pageSize:   pageSize,
		logger:     logger,
		filters:    map[string]string{},
	}
}

func (l *List) Collection() string { return l.collection }
func (l *List) PageSize() int      { return l.pageSize }
func (l *List) Mode() Mode         { return l.mode }
func (l *List) Page() int          { return l.currentPage }
func (l *List) EndReached() bool   { return l.endReached }
func (l *List) InFlight() bool     { return l.inFlight }
func (l *List) Search() string     { return l.search }
func (l *List) SortKey() string    { return l.sortKey }

// TotalPages reports the known page bound. ok is false while the bound
// is unknown (envelope responses without total metadata).
func (l *List) TotalPages() (int, bool) { return l.totalPages, l.boundKnown }

// Rendered returns the items currently on screen, in render order.
func (l *List) Rendered() []model.Item { return l.rendered }

// ActiveFilters returns the display strings of the active tag filters,
// sorted by their lowercase keys for stable presentation.
func (l *List) ActiveFilters() []string {
	keys := make([]string, 0, len(l.filters))
	for k := range l.filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = l.filters[k]
	}
	return out
}

// HasFilter reports whether the tag is in the active filter set.
func (l *List) HasFilter(tag string) bool {
	_, ok := l.filters[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// SetSearch updates the search text and reports whether it changed.
// The caller debounces keystrokes and then runs ResetView.
func (l *List) SetSearch(term string) bool {
	term = strings.TrimSpace(term)
	if term == l.search {
		return false
	}
	l.search = term
	return true
}

// SetSort updates the sort key and reports whether it changed.
func (l *List) SetSort(key string) bool {
	if key == l.sortKey {
		return false
	}
	l.sortKey = key
	return true
}

// ToggleTag adds the tag to the active filter set, or removes it when
// already present. Membership is keyed on the lowercase form; the
// display string keeps its original case.
func (l *List) ToggleTag(display string) {
	display = strings.TrimSpace(display)
	if display == "" {
		return
	}
	key := strings.ToLower(display)
	if _, ok := l.filters[key]; ok {
		delete(l.filters, key)
	} else {
		l.filters[key] = display
	}
}

// RemoveFilter drops one tag from the active filter set.
func (l *List) RemoveFilter(display string) {
	delete(l.filters, strings.ToLower(strings.TrimSpace(display)))
}

// ClearFilters empties the active filter set.
func (l *List) ClearFilters() {
	l.filters = map[string]string{}
}

// ResetView discards page and end-of-stream state and rebuilds the
// view from page 1. In server (or not-yet-detected) mode it returns a
// Request; in client mode the first slice is recomputed locally from
// the retained collection. A reset supersedes any outstanding fetch:
// the generation bump makes Apply discard the late response.
func (l *List) ResetView() Advance {
	l.generation++
	l.currentPage = 1
	l.endReached = false
	l.boundKnown = false
	l.totalPages = 0

	if l.mode == ModeClient {
		l.inFlight = false
		view := l.currentView()
		l.totalPages = filter.TotalPages(len(view), l.pageSize)
		l.boundKnown = true
		l.rendered = filter.PageSlice(view, 1, l.pageSize)
		l.endReached = l.currentPage >= l.totalPages
		l.logger.Debug("local reset", "collection", l.collection, "matched", len(view))
		return Advance{OK: true, Batch: l.rendered, Replace: true}
	}

	l.inFlight = true
	l.logger.Debug("reset fetch", "collection", l.collection, "search", l.search, "sort", l.sortKey)
	return Advance{OK: true, Fetch: true, Replace: true, Request: l.request(true)}
}

// NextPage advances one page. It is a guarded no-op while a fetch is
// in flight or after end-of-stream; the guard coalesces rapid triggers
// into a single request.
func (l *List) NextPage() Advance {
	if l.inFlight || l.endReached || l.mode == ModeUnknown {
		return Advance{}
	}

	l.currentPage++

	if l.mode == ModeClient {
		view := l.currentView()
		l.totalPages = filter.TotalPages(len(view), l.pageSize)
		slice := filter.PageSlice(view, l.currentPage, l.pageSize)
		if len(slice) == 0 {
			l.endReached = true
			return Advance{OK: true}
		}
		l.rendered = append(l.rendered, slice...)
		if l.currentPage >= l.totalPages {
			l.endReached = true
		}
		return Advance{OK: true, Batch: slice}
	}

	l.inFlight = true
	return Advance{OK: true, Fetch: true, Request: l.request(false)}
}

// Apply consumes a fetch result. Responses from a superseded
// generation are reported stale and change nothing. Failures on a
// continuation roll the page counter back so the same page is retried
// on the next trigger; failures on the initial load leave the machine
// ready for a full retry.
func (l *List) Apply(req Request, page *api.Page, err error) Outcome {
	if req.Gen != l.generation {
		l.logger.Debug("discarding stale response", "collection", l.collection, "gen", req.Gen)
		return Outcome{Stale: true}
	}
	l.inFlight = false

	if err != nil {
		if !req.Initial && l.currentPage > 1 {
			l.currentPage--
		}
		l.logger.Warn("fetch failed", "collection", l.collection, "page", req.Query.Page, "err", err)
		return Outcome{Err: err, Replace: req.Initial}
	}

	if req.Initial {
		return l.applyInitial(page)
	}
	return l.applyNext(page)
}

func (l *List) applyInitial(page *api.Page) Outcome {
	if page.Shape == api.ShapeBareArray {
		l.mode = ModeClient
		l.all = page.Items
		view := l.currentView()
		l.totalPages = filter.TotalPages(len(view), l.pageSize)
		l.boundKnown = true
		l.rendered = filter.PageSlice(view, 1, l.pageSize)
		l.endReached = l.currentPage >= l.totalPages
		l.logger.Info("pagination mode detected", "collection", l.collection,
			"mode", l.mode, "records", len(page.Items))
		return Outcome{Replace: true, Batch: l.rendered}
	}

	l.mode = ModeServer
	l.rendered = page.Items
	l.totalPages = page.TotalPages
	l.boundKnown = page.TotalPages > 0
	l.endReached = len(page.Items) == 0 || (l.boundKnown && l.currentPage >= l.totalPages)
	l.logger.Info("pagination mode detected", "collection", l.collection,
		"mode", l.mode, "totalPages", page.TotalPages)
	return Outcome{Replace: true, Batch: l.rendered}
}

func (l *List) applyNext(page *api.Page) Outcome {
	if len(page.Items) == 0 {
		l.endReached = true
		return Outcome{}
	}
	if page.TotalPages > 0 {
		l.totalPages = page.TotalPages
		l.boundKnown = true
	}
	l.rendered = append(l.rendered, page.Items...)
	if l.boundKnown && l.currentPage >= l.totalPages {
		l.endReached = true
	}
	return Outcome{Batch: page.Items}
}

// RemoveItem drops a record from the local views after a confirmed
// delete. The server copy is already gone; a full reset would refetch.
func (l *List) RemoveItem(id string) {
	l.rendered = withoutItem(l.rendered, id)
	if l.mode == ModeClient {
		l.all = withoutItem(l.all, id)
	}
}

func withoutItem(items []model.Item, id string) []model.Item {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// currentView runs the local filter pipeline over the full collection.
func (l *List) currentView() []model.Item {
	view := filter.BySearch(l.all, l.search)
	view = filter.ByTags(view, l.filters)
	return filter.SortItems(view, l.sortKey)
}

func (l *List) request(initial bool) Request {
	return Request{
		Gen:        l.generation,
		Collection: l.collection,
		Initial:    initial,
		Query: api.Query{
			Page:   l.currentPage,
			Limit:  l.pageSize,
			Search: l.search,
			Sort:   l.sortKey,
			Tags:   l.ActiveFilters(),
		},
	}
}
