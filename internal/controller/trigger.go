package controller

// Trigger decides when the viewport has approached the end of the
// rendered list and the next page should be requested.
//
// Two mechanisms exist, mirroring the two ways a scroll position can
// be observed. The sentinel mechanism watches a marker after the last
// item and fires when it comes within a lookahead margin of the
// viewport. The scroll mechanism is the fallback: it compares the
// remaining scroll distance against a fixed threshold. Exactly one
// mechanism is active per Trigger, so switching can never double-fire.
type Trigger struct {
	mode  TriggerMode
	armed bool
}

// TriggerMode selects the detection mechanism.
type TriggerMode int

const (
	// TriggerSentinel watches the end-of-list marker.
	TriggerSentinel TriggerMode = iota
	// TriggerScroll watches the remaining scroll distance.
	TriggerScroll
)

const (
	// sentinelMarginLines is how far ahead of the marker the sentinel
	// mechanism fires.
	sentinelMarginLines = 5
	// scrollThresholdLines is the remaining-distance cutoff for the
	// fallback mechanism.
	scrollThresholdLines = 10
)

// Position is one observation of the viewport against the list.
type Position struct {
	// LinesBelow is the scrollable distance left under the viewport.
	LinesBelow int
	// SentinelVisible is true when the end-of-list marker is inside
	// the viewport plus its lookahead margin. Only the sentinel
	// mechanism reads it.
	SentinelVisible bool
}

// NewTrigger creates an armed Trigger using the given mechanism.
func NewTrigger(mode TriggerMode) *Trigger {
	return &Trigger{mode: mode, armed: true}
}

// Mode returns the active mechanism.
func (t *Trigger) Mode() TriggerMode { return t.mode }

// SentinelPosition derives a Position from item counts, for callers
// that track the last visible item rather than raw line offsets.
func SentinelPosition(lastVisibleLine, totalLines int) Position {
	below := totalLines - lastVisibleLine
	if below < 0 {
		below = 0
	}
	return Position{
		LinesBelow:      below,
		SentinelVisible: below <= sentinelMarginLines,
	}
}

// Observe reports whether the next page should be fetched. After
// firing, the trigger disarms until Rearm is called, so a stream of
// observations at the same position produces one fetch.
func (t *Trigger) Observe(p Position) bool {
	if !t.armed {
		return false
	}
	var hit bool
	switch t.mode {
	case TriggerSentinel:
		hit = p.SentinelVisible
	case TriggerScroll:
		hit = p.LinesBelow <= scrollThresholdLines
	}
	if hit {
		t.armed = false
	}
	return hit
}

// Rearm re-enables the trigger. Called after a new batch renders (the
// list grew, so the marker moved away) or after a reset.
func (t *Trigger) Rearm() {
	t.armed = true
}
