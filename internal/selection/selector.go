// Package selection implements token range selection for the editing view.
//
// A Selector owns three pieces of state for one editing session: the
// selection-mode gate, a contiguous run of selected tokens, and an independent
// split target. It is not safe for concurrent use; the editing session that
// creates it is its only caller.
package selection

import "openphil/internal/domain"

// Outcome describes what a click did to the selection
type Outcome int

const (
	// Ignored means the selection did not change
	Ignored Outcome = iota
	// Started means an empty selection became a single token
	Started
	// Grew means a neighbour was added at one end of the run
	Grew
	// Shrank means a boundary token was removed
	Shrank
	// Collapsed means an interior click reduced the run to that token
	Collapsed
	// Replaced means a non-adjacent click started a new run
	Replaced
)

func (o Outcome) String() string {
	switch o {
	case Started:
		return "started"
	case Grew:
		return "grew"
	case Shrank:
		return "shrank"
	case Collapsed:
		return "collapsed"
	case Replaced:
		return "replaced"
	default:
		return "ignored"
	}
}

// Changed reports whether the outcome modified the selection
func (o Outcome) Changed() bool {
	return o != Ignored
}

// Selector is the selection state of one editing session
type Selector struct {
	seq      *Sequence
	enabled  bool
	run      Contiguous
	split    string
	hasSplit bool
}

// NewSelector creates a selector over seq with the gate off
func NewSelector(seq *Sequence) *Selector {
	return &Selector{
		seq: seq,
		run: NewContiguous(seq),
	}
}

// Sequence returns the token sequence the selector works on
func (s *Selector) Sequence() *Sequence {
	return s.seq
}

// SetSequence swaps in a new token sequence. Positions of the old sequence
// mean nothing in the new one, so the run and the split target are cleared.
// The gate keeps its value.
func (s *Selector) SetSequence(seq *Sequence) {
	s.seq = seq
	s.run = NewContiguous(seq)
	s.ClearSplit()
}

// SelectionEnabled reports whether clicks currently modify the selection
func (s *Selector) SelectionEnabled() bool {
	return s.enabled
}

// ToggleSelectionMode flips the gate and always clears the selection.
// It returns the new gate value.
func (s *Selector) ToggleSelectionMode() bool {
	s.enabled = !s.enabled
	s.run.Reset()
	return s.enabled
}

// HandleSelectToken applies one token click to the selection.
//
// With the gate off, or for a token that is not part of the sequence, nothing
// happens. Clicking a boundary of the run removes it, clicking an interior
// token collapses the run to that token, clicking the neighbour just outside
// either end grows the run, and any other click starts a new run.
func (s *Selector) HandleSelectToken(t domain.Token) Outcome {
	if !s.enabled {
		return Ignored
	}
	p, ok := s.seq.Position(t.ID)
	if !ok {
		return Ignored
	}

	if s.run.Empty() {
		s.run.Only(p)
		return Started
	}

	if s.run.Contains(p) {
		if s.run.IsBoundary(p) {
			s.run.Shrink(p)
			return Shrank
		}
		s.run.Only(p)
		return Collapsed
	}

	if s.run.Extend(p) {
		return Grew
	}
	s.run.Only(p)
	return Replaced
}

// IsTokenSelected reports whether the token is part of the current run
func (s *Selector) IsTokenSelected(t domain.Token) bool {
	p, ok := s.seq.Position(t.ID)
	return ok && s.run.Contains(p)
}

// Selected returns the run sorted by position index
func (s *Selector) Selected() []domain.Token {
	return s.run.Tokens()
}

// SelectedCount returns the length of the run
func (s *Selector) SelectedCount() int {
	return s.run.Len()
}

// SelectedBounds returns the first and last token of the run
func (s *Selector) SelectedBounds() (first, last domain.Token, ok bool) {
	first, ok = s.run.Low()
	if !ok {
		return domain.Token{}, domain.Token{}, false
	}
	last, _ = s.run.High()
	return first, last, true
}

// ClearSelection empties the run without touching the gate
func (s *Selector) ClearSelection() {
	s.run.Reset()
}

// HandleSelectTokenForSplit toggles the split target. Clicking the stored
// token clears it; any other token replaces it. It returns whether a target
// is set afterwards.
func (s *Selector) HandleSelectTokenForSplit(t domain.Token) bool {
	if s.hasSplit && s.split == t.ID {
		s.ClearSplit()
		return false
	}
	s.split = t.ID
	s.hasSplit = true
	return true
}

// SplitTarget returns the id of the token chosen for splitting
func (s *Selector) SplitTarget() (string, bool) {
	return s.split, s.hasSplit
}

// IsSplitTarget reports whether the token is the chosen split target
func (s *Selector) IsSplitTarget(t domain.Token) bool {
	return s.hasSplit && s.split == t.ID
}

// ClearSplit forgets the split target
func (s *Selector) ClearSplit() {
	s.split = ""
	s.hasSplit = false
}
