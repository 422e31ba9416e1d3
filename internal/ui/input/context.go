package input

import (
	"openphil/internal/ui/services/selection"
	"openphil/internal/ui/state"
)

// ModelContext implements the Context interface for the input handler
type ModelContext struct {
	State     *state.AppState
	Selection *selection.Service
}

// CurrentIndex returns the position of the token under the cursor
func (c *ModelContext) CurrentIndex() int {
	return c.State.Cursor
}

// TotalTokens returns the number of tokens on screen
func (c *ModelContext) TotalTokens() int {
	return len(c.State.Tokens)
}

// SelectionEnabled reports whether clicks select tokens
func (c *ModelContext) SelectionEnabled() bool {
	return c.Selection.Enabled()
}

// HasSelection returns true if any tokens are selected
func (c *ModelContext) HasSelection() bool {
	return c.Selection.HasSelection()
}

// SelectedCount returns the number of selected tokens
func (c *ModelContext) SelectedCount() int {
	return c.Selection.Count()
}

// HasSplitTarget reports whether a token is marked for splitting
func (c *ModelContext) HasSplitTarget() bool {
	_, ok := c.Selection.SplitTarget()
	return ok
}
