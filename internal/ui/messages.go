package ui

import (
	"openphil/internal/eventbus"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// pagerClosedMsg reports the end of a pager session
type pagerClosedMsg struct {
	content string
	err     error
}

// projectSavedMsg reports the result of writing the project file on quit
type projectSavedMsg struct {
	path string
	err  error
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct{}

// pauseRenderingMsg signals to pause Bubble Tea rendering
type pauseRenderingMsg struct{}

// resumeRenderingMsg signals to resume Bubble Tea rendering
type resumeRenderingMsg struct{}
