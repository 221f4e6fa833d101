package debug

import (
	"fmt"
	"testing"
)

func TestRecordAndSnapshot(t *testing.T) {
	b := NewBuffer(8)
	b.Recordf(KindFetch, "page %d", 1)
	b.Recordf(KindApply, "10 items")

	events := b.Snapshot()
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Kind != KindFetch || events[1].Kind != KindApply {
		t.Errorf("unexpected order: %v, %v", events[0].Kind, events[1].Kind)
	}
	if events[0].Time.IsZero() {
		t.Error("expected zero Time to be stamped")
	}
}

func TestWrapAroundKeepsNewest(t *testing.T) {
	b := NewBuffer(4)
	for i := 0; i < 10; i++ {
		b.Recordf(KindTrigger, "event %d", i)
	}

	if b.Len() != 4 {
		t.Fatalf("expected 4 buffered events, got %d", b.Len())
	}
	events := b.Snapshot()
	for i, e := range events {
		want := fmt.Sprintf("event %d", 6+i)
		if e.Msg != want {
			t.Errorf("position %d: expected %q, got %q", i, want, e.Msg)
		}
	}
}

func TestLast(t *testing.T) {
	b := NewBuffer(8)
	for i := 0; i < 5; i++ {
		b.Recordf(KindRender, "batch %d", i)
	}

	last := b.Last(2)
	if len(last) != 2 || last[0].Msg != "batch 3" || last[1].Msg != "batch 4" {
		t.Errorf("expected the two newest in order, got %v", last)
	}
	if got := b.Last(100); len(got) != 5 {
		t.Errorf("oversized request returns everything, got %d", len(got))
	}
	if b.Last(0) != nil {
		t.Error("non-positive request returns nil")
	}
}

func TestRecordCopiesExtra(t *testing.T) {
	b := NewBuffer(4)
	extra := map[string]any{"page": 1}
	b.Record(Event{Kind: KindFetch, Msg: "x", Extra: extra})
	extra["page"] = 99

	if got := b.Snapshot()[0].Extra["page"]; got != 1 {
		t.Errorf("expected recorded extra to be isolated, got %v", got)
	}
}

func TestStats(t *testing.T) {
	b := NewBuffer(8)
	b.Recordf(KindFetch, "a")
	b.Recordf(KindFetch, "b")
	b.Recordf(KindError, "c")

	stats := b.Stats()
	if stats[KindFetch] != 2 || stats[KindError] != 1 {
		t.Errorf("unexpected stats: %v", stats)
	}
}
