package selection

import (
	"openphil/internal/domain"
	core "openphil/internal/selection"
	"openphil/internal/ui/services/events"
)

// Service handles selection logic for the editing view
type Service struct {
	selector *core.Selector
	bus      events.EventBus
}

// NewService creates a new selection service over an empty sequence
func NewService(bus events.EventBus) *Service {
	if bus == nil {
		bus = &events.NullBus{}
	}
	seq, _ := core.NewSequence(nil)
	return &Service{
		selector: core.NewSelector(seq),
		bus:      bus,
	}
}

// SetTokens replaces the token sequence. The run and split target are
// cleared; the gate is kept.
func (s *Service) SetTokens(tokens []domain.Token) error {
	seq, err := core.NewSequence(tokens)
	if err != nil {
		return err
	}
	_, hadSplit := s.selector.SplitTarget()
	hadRun := s.selector.SelectedCount() > 0

	s.selector.SetSequence(seq)

	if hadRun {
		s.publishChanged(core.Ignored)
	}
	if hadSplit {
		s.bus.Publish(SplitTargetChangedEvent{})
	}
	return nil
}

// Sequence returns the ordered tokens being edited
func (s *Service) Sequence() *core.Sequence {
	return s.selector.Sequence()
}

// Enabled reports whether clicks modify the selection
func (s *Service) Enabled() bool {
	return s.selector.SelectionEnabled()
}

// ToggleMode flips the gate and clears the run
func (s *Service) ToggleMode() bool {
	hadRun := s.selector.SelectedCount() > 0
	enabled := s.selector.ToggleSelectionMode()

	s.bus.Publish(SelectionModeChangedEvent{Enabled: enabled})
	if hadRun {
		s.publishChanged(core.Ignored)
	}
	return enabled
}

// Click applies a token click to the selection
func (s *Service) Click(t domain.Token) core.Outcome {
	outcome := s.selector.HandleSelectToken(t)
	if outcome.Changed() {
		s.publishChanged(outcome)
	}
	return outcome
}

// ToggleSplit sets or clears the split target
func (s *Service) ToggleSplit(t domain.Token) bool {
	set := s.selector.HandleSelectTokenForSplit(t)
	id, _ := s.selector.SplitTarget()
	s.bus.Publish(SplitTargetChangedEvent{TokenID: id, Set: set})
	return set
}

// Clear empties the run and forgets the split target
func (s *Service) Clear() {
	if s.selector.SelectedCount() > 0 {
		s.selector.ClearSelection()
		s.publishChanged(core.Ignored)
	}
	if _, ok := s.selector.SplitTarget(); ok {
		s.selector.ClearSplit()
		s.bus.Publish(SplitTargetChangedEvent{})
	}
}

// IsSelected reports whether a token is in the run
func (s *Service) IsSelected(t domain.Token) bool {
	return s.selector.IsTokenSelected(t)
}

// Selected returns the run in sequence order
func (s *Service) Selected() []domain.Token {
	return s.selector.Selected()
}

// Count returns the number of selected tokens
func (s *Service) Count() int {
	return s.selector.SelectedCount()
}

// HasSelection returns true if any token is selected
func (s *Service) HasSelection() bool {
	return s.selector.SelectedCount() > 0
}

// Bounds returns the first and last selected token
func (s *Service) Bounds() (first, last domain.Token, ok bool) {
	return s.selector.SelectedBounds()
}

// SplitTarget returns the split target token id
func (s *Service) SplitTarget() (string, bool) {
	return s.selector.SplitTarget()
}

// IsSplitTarget reports whether t is the split target
func (s *Service) IsSplitTarget(t domain.Token) bool {
	return s.selector.IsSplitTarget(t)
}

func (s *Service) publishChanged(outcome core.Outcome) {
	first, last, _ := s.selector.SelectedBounds()
	s.bus.Publish(SelectionChangedEvent{
		Outcome: outcome,
		Count:   s.selector.SelectedCount(),
		First:   first,
		Last:    last,
	})
}
