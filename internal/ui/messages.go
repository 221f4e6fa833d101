// Package ui provides the Bubble Tea TUI for browsing collections.
package ui

import (
	"github.com/mbegonja/plusview/internal/api"
	"github.com/mbegonja/plusview/internal/controller"
)

// PageFetched is sent when a page request completes.
type PageFetched struct {
	Req  controller.Request
	Page *api.Page
	Err  error
}

// ItemDeleted is sent when a server-side delete completes.
type ItemDeleted struct {
	Collection string
	ID         string
	Err        error
}

// searchDebounced fires after the debounce delay; stale sequence
// numbers are ignored so only the last keystroke triggers a refetch.
type searchDebounced struct {
	seq int
}

// frameMsg drives the scroll animation.
type frameMsg struct{}
