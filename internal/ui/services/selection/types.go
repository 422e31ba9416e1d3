package selection

import (
	"openphil/internal/domain"
	core "openphil/internal/selection"
)

// Event types

// SelectionChangedEvent is published after a click or clear changed the run
type SelectionChangedEvent struct {
	Outcome core.Outcome
	Count   int
	First   domain.Token
	Last    domain.Token
}

// SelectionModeChangedEvent is published when the gate flips
type SelectionModeChangedEvent struct {
	Enabled bool
}

// SplitTargetChangedEvent is published when the split target is set or cleared
type SplitTargetChangedEvent struct {
	TokenID string
	Set     bool
}
