package controller

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mbegonja/plusview/internal/api"
	"github.com/mbegonja/plusview/internal/model"
)

func makeItems(n, offset int) []model.Item {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			ID:    fmt.Sprintf("item-%d", offset+i),
			Title: fmt.Sprintf("Item %d", offset+i),
		}
	}
	return items
}

func startServerList(t *testing.T) *List {
	t.Helper()
	l := NewList("news", 10, nil)
	adv := l.ResetView()
	if !adv.OK || !adv.Fetch {
		t.Fatalf("expected initial reset to fetch, got %+v", adv)
	}
	out := l.Apply(adv.Request, &api.Page{
		Shape: api.ShapeEnvelope, Items: makeItems(10, 0), TotalPages: 3,
	}, nil)
	if out.Stale || out.Err != nil {
		t.Fatalf("initial apply failed: %+v", out)
	}
	return l
}

func TestInitialEnvelopeSelectsServerMode(t *testing.T) {
	l := startServerList(t)

	if l.Mode() != ModeServer {
		t.Errorf("expected server mode, got %v", l.Mode())
	}
	if len(l.Rendered()) != 10 {
		t.Errorf("expected 10 rendered items, got %d", len(l.Rendered()))
	}
	if total, ok := l.TotalPages(); !ok || total != 3 {
		t.Errorf("expected known bound of 3, got %d (known=%v)", total, ok)
	}
	if l.EndReached() {
		t.Error("end must not be reached on page 1 of 3")
	}
}

func TestInitialBareArraySelectsClientMode(t *testing.T) {
	l := NewList("projects", 10, nil)
	adv := l.ResetView()
	out := l.Apply(adv.Request, &api.Page{
		Shape: api.ShapeBareArray, Items: makeItems(25, 0),
	}, nil)
	if out.Err != nil {
		t.Fatalf("apply failed: %v", out.Err)
	}

	if l.Mode() != ModeClient {
		t.Errorf("expected client mode, got %v", l.Mode())
	}
	if total, ok := l.TotalPages(); !ok || total != 3 {
		t.Errorf("expected ceil(25/10) = 3 pages, got %d (known=%v)", total, ok)
	}
	// Only the first slice is rendered, not the full collection.
	if len(l.Rendered()) != 10 {
		t.Errorf("expected first slice of 10, got %d", len(l.Rendered()))
	}
}

func TestClientModeAdvancesLocally(t *testing.T) {
	l := NewList("projects", 10, nil)
	adv := l.ResetView()
	l.Apply(adv.Request, &api.Page{Shape: api.ShapeBareArray, Items: makeItems(25, 0)}, nil)

	adv = l.NextPage()
	if !adv.OK || adv.Fetch {
		t.Fatalf("client mode advance must resolve locally, got %+v", adv)
	}
	if len(adv.Batch) != 10 || len(l.Rendered()) != 20 {
		t.Errorf("expected second slice of 10 (20 total), got %d (%d total)",
			len(adv.Batch), len(l.Rendered()))
	}

	adv = l.NextPage()
	if len(adv.Batch) != 5 || !l.EndReached() {
		t.Errorf("expected trailing slice of 5 and end-of-stream, got %d (end=%v)",
			len(adv.Batch), l.EndReached())
	}
	if adv := l.NextPage(); adv.OK {
		t.Error("advance past the last page must be a no-op")
	}
}

func TestInFlightGuardCoalescesTriggers(t *testing.T) {
	l := startServerList(t)

	first := l.NextPage()
	if !first.OK || !first.Fetch {
		t.Fatalf("expected a fetch for page 2, got %+v", first)
	}
	// A second trigger before the response lands must not start
	// another request.
	if second := l.NextPage(); second.OK {
		t.Errorf("expected in-flight guard to reject the second trigger, got %+v", second)
	}

	l.Apply(first.Request, &api.Page{Shape: api.ShapeEnvelope, Items: makeItems(10, 10), TotalPages: 3}, nil)
	if !l.NextPage().OK {
		t.Error("expected trigger to pass once the fetch resolved")
	}
}

func TestEmptyContinuationSetsEndRegardlessOfBound(t *testing.T) {
	l := startServerList(t)

	adv := l.NextPage()
	out := l.Apply(adv.Request, &api.Page{Shape: api.ShapeEnvelope, Items: nil, TotalPages: 3}, nil)
	if out.Err != nil {
		t.Fatalf("apply failed: %v", out.Err)
	}
	if !l.EndReached() {
		t.Error("an empty page must set end-of-stream even below the stated bound")
	}
}

func TestEndReachedIsMonotonicUntilReset(t *testing.T) {
	l := startServerList(t)
	adv := l.NextPage()
	l.Apply(adv.Request, &api.Page{Shape: api.ShapeEnvelope}, nil)
	if !l.EndReached() {
		t.Fatal("expected end-of-stream")
	}

	for i := 0; i < 3; i++ {
		if adv := l.NextPage(); adv.OK {
			t.Fatal("trigger after end-of-stream must be a no-op")
		}
	}

	l.SetSearch("exchange")
	adv = l.ResetView()
	if !adv.OK || !adv.Fetch {
		t.Fatalf("expected reset to refetch, got %+v", adv)
	}
	if l.EndReached() {
		t.Error("reset must clear end-of-stream")
	}
	if adv.Request.Query.Page != 1 || adv.Request.Query.Search != "exchange" {
		t.Errorf("reset request must carry page 1 and the new search, got %+v", adv.Request.Query)
	}
}

func TestRollbackOnContinuationFailure(t *testing.T) {
	l := startServerList(t)

	adv := l.NextPage()
	out := l.Apply(adv.Request, nil, errors.New("connection reset"))
	if out.Err == nil {
		t.Fatal("expected the error to propagate")
	}
	if l.EndReached() {
		t.Error("a failed fetch must not set end-of-stream")
	}
	if l.Page() != 1 {
		t.Errorf("expected page counter rolled back to 1, got %d", l.Page())
	}

	// The retry must re-request the same page.
	retry := l.NextPage()
	if !retry.OK || retry.Request.Query.Page != 2 {
		t.Errorf("expected retry of page 2, got %+v", retry)
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	l := startServerList(t)

	old := l.NextPage()

	// A filter toggle supersedes the outstanding fetch.
	l.ToggleTag("Science")
	fresh := l.ResetView()

	out := l.Apply(old.Request, &api.Page{Shape: api.ShapeEnvelope, Items: makeItems(10, 10), TotalPages: 3}, nil)
	if !out.Stale {
		t.Fatal("expected the superseded response to be reported stale")
	}
	if len(l.Rendered()) != 10 {
		t.Errorf("stale response must not touch the rendered list, got %d items", len(l.Rendered()))
	}

	out = l.Apply(fresh.Request, &api.Page{Shape: api.ShapeEnvelope, Items: makeItems(4, 0), TotalPages: 1}, nil)
	if out.Stale || out.Err != nil {
		t.Fatalf("current-generation response must apply, got %+v", out)
	}
	if len(l.Rendered()) != 4 {
		t.Errorf("expected 4 items after the fresh apply, got %d", len(l.Rendered()))
	}
}

func TestClientModeResetRecomputesWithoutFetch(t *testing.T) {
	l := NewList("projects", 10, nil)
	adv := l.ResetView()
	items := makeItems(25, 0)
	items[3].Tags = []string{"Science", "Youth"}
	items[7].Tags = []string{"Science"}
	l.Apply(adv.Request, &api.Page{Shape: api.ShapeBareArray, Items: items}, nil)

	l.ToggleTag("science")
	adv = l.ResetView()
	if !adv.OK || adv.Fetch {
		t.Fatalf("client mode reset must resolve locally, got %+v", adv)
	}
	if !adv.Replace {
		t.Error("a reset batch replaces the rendered list")
	}
	if len(adv.Batch) != 2 {
		t.Errorf("expected 2 tagged items, got %d", len(adv.Batch))
	}
	if !l.EndReached() {
		t.Error("a single filtered page means end-of-stream")
	}
}

func TestToggleTagKeysCaseInsensitively(t *testing.T) {
	l := NewList("news", 10, nil)

	l.ToggleTag("Science")
	if !l.HasFilter("SCIENCE") {
		t.Error("filter membership must ignore case")
	}
	if got := l.ActiveFilters(); len(got) != 1 || got[0] != "Science" {
		t.Errorf("display text must keep its original case, got %v", got)
	}

	// Toggling with a different casing removes the same entry.
	l.ToggleTag("science")
	if len(l.ActiveFilters()) != 0 {
		t.Errorf("expected empty filter set, got %v", l.ActiveFilters())
	}
}

func TestInitialFailureLeavesMachineRetryable(t *testing.T) {
	l := NewList("news", 10, nil)
	adv := l.ResetView()
	out := l.Apply(adv.Request, nil, errors.New("boom"))
	if out.Err == nil || !out.Replace {
		t.Fatalf("initial failure must surface a replacing error, got %+v", out)
	}
	if l.InFlight() {
		t.Error("in-flight flag must clear on failure")
	}

	retry := l.ResetView()
	if !retry.OK || !retry.Fetch || retry.Request.Query.Page != 1 {
		t.Errorf("expected a clean retry of page 1, got %+v", retry)
	}
}

func TestRemoveItem(t *testing.T) {
	l := startServerList(t)
	before := len(l.Rendered())
	l.RemoveItem("item-3")
	if len(l.Rendered()) != before-1 {
		t.Errorf("expected %d items after removal, got %d", before-1, len(l.Rendered()))
	}
	for _, item := range l.Rendered() {
		if item.ID == "item-3" {
			t.Error("removed item still present")
		}
	}
}

func TestRequestCarriesFilterState(t *testing.T) {
	l := NewList("news", 10, nil)
	l.SetSearch("  exchange ")
	l.SetSort("date")
	l.ToggleTag("Youth")
	l.ToggleTag("Science")

	adv := l.ResetView()
	q := adv.Request.Query
	if q.Search != "exchange" {
		t.Errorf("expected trimmed search text, got %q", q.Search)
	}
	if q.Sort != "date" {
		t.Errorf("expected sort key, got %q", q.Sort)
	}
	// Display values, ordered by lowercase key.
	if len(q.Tags) != 2 || q.Tags[0] != "Science" || q.Tags[1] != "Youth" {
		t.Errorf("expected display tags [Science Youth], got %v", q.Tags)
	}
}
