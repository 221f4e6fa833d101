// Package debug records listing-engine events in a bounded in-memory
// buffer. The UI's debug overlay reads it to answer "what did the
// engine just do" without digging through the log file.
package debug

import (
	"fmt"
	"sync"
	"time"
)

// Kind classifies an engine event.
type Kind string

const (
	KindFetch   Kind = "fetch"
	KindApply   Kind = "apply"
	KindReset   Kind = "reset"
	KindTrigger Kind = "trigger"
	KindRender  Kind = "render"
	KindDelete  Kind = "delete"
	KindError   Kind = "error"
)

// Event is one recorded engine action.
type Event struct {
	Time  time.Time
	Kind  Kind
	Msg   string
	Extra map[string]any
}

func (e Event) String() string {
	return fmt.Sprintf("%s %-7s %s", e.Time.Format("15:04:05.000"), e.Kind, e.Msg)
}

// DefaultCapacity is the default buffer size.
const DefaultCapacity = 256

// Buffer is a fixed-size circular event buffer. Goroutine-safe.
type Buffer struct {
	mu    sync.Mutex
	buf   []Event
	size  int
	head  int // next write position
	count int
}

// NewBuffer creates a Buffer with the given capacity.
func NewBuffer(size int) *Buffer {
	if size <= 0 {
		size = DefaultCapacity
	}
	return &Buffer{
		buf:  make([]Event, size),
		size: size,
	}
}

// Record appends an event, overwriting the oldest when full. A zero
// Time is stamped with the current time. The Extra map is copied so
// the caller can keep mutating its own.
func (b *Buffer) Record(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	if e.Extra != nil {
		cp := make(map[string]any, len(e.Extra))
		for k, v := range e.Extra {
			cp[k] = v
		}
		e.Extra = cp
	}
	b.mu.Lock()
	b.buf[b.head] = e
	b.head = (b.head + 1) % b.size
	if b.count < b.size {
		b.count++
	}
	b.mu.Unlock()
}

// Recordf records a formatted event with no extra fields.
func (b *Buffer) Recordf(kind Kind, format string, args ...any) {
	b.Record(Event{Kind: kind, Msg: fmt.Sprintf(format, args...)})
}

// Snapshot returns all buffered events, oldest first.
func (b *Buffer) Snapshot() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	result := make([]Event, b.count)
	if b.count < b.size {
		copy(result, b.buf[:b.count])
	} else {
		n := copy(result, b.buf[b.head:])
		copy(result[n:], b.buf[:b.head])
	}
	return result
}

// Last returns the n most recent events, oldest first.
func (b *Buffer) Last(n int) []Event {
	if n <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.count == 0 {
		return nil
	}
	if n > b.count {
		n = b.count
	}
	result := make([]Event, n)
	start := (b.head - n + b.size) % b.size
	if start+n <= b.size {
		copy(result, b.buf[start:start+n])
	} else {
		first := b.size - start
		copy(result, b.buf[start:])
		copy(result[first:], b.buf[:n-first])
	}
	return result
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}

// Stats returns event counts by kind.
func (b *Buffer) Stats() map[Kind]int {
	b.mu.Lock()
	defer b.mu.Unlock()

	counts := make(map[Kind]int)
	start := 0
	if b.count >= b.size {
		start = b.head
	}
	for i := 0; i < b.count; i++ {
		counts[b.buf[(start+i)%b.size].Kind]++
	}
	return counts
}
