package selection

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openphil/internal/domain"
)

func tok(id string, index int) domain.Token {
	return domain.Token{ID: id, Index: index, Text: id}
}

func ids(tokens []domain.Token) []string {
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		out = append(out, t.ID)
	}
	return out
}

// newTestSelector builds a selector over A..F with gaps in the indices so
// that neighbour checks cannot rely on integer adjacency.
func newTestSelector(t *testing.T) (*Selector, map[string]domain.Token) {
	t.Helper()
	tokens := []domain.Token{
		tok("A", 0), tok("B", 1), tok("C", 2), tok("D", 5), tok("E", 10), tok("F", 11),
	}
	seq, err := NewSequence(tokens)
	require.NoError(t, err)

	byID := make(map[string]domain.Token, len(tokens))
	for _, tk := range tokens {
		byID[tk.ID] = tk
	}

	s := NewSelector(seq)
	require.True(t, s.ToggleSelectionMode())
	return s, byID
}

func click(s *Selector, tk map[string]domain.Token, names ...string) {
	for _, n := range names {
		s.HandleSelectToken(tk[n])
	}
}

func assertSelected(t *testing.T, s *Selector, want ...string) {
	t.Helper()
	if want == nil {
		want = []string{}
	}
	if diff := cmp.Diff(want, ids(s.Selected())); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
}

func TestFirstClickStartsRun(t *testing.T) {
	s, tk := newTestSelector(t)

	assert.Equal(t, Started, s.HandleSelectToken(tk["C"]))
	assertSelected(t, s, "C")
}

func TestBoundaryReclickIsReversible(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B", "C")
	assertSelected(t, s, "A", "B", "C")

	assert.Equal(t, Shrank, s.HandleSelectToken(tk["C"]))
	assertSelected(t, s, "A", "B")

	assert.Equal(t, Grew, s.HandleSelectToken(tk["C"]))
	assertSelected(t, s, "A", "B", "C")
}

func TestLowBoundaryShrinks(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B", "C")

	assert.Equal(t, Shrank, s.HandleSelectToken(tk["A"]))
	assertSelected(t, s, "B", "C")
}

func TestInteriorClickCollapses(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B", "C")

	assert.Equal(t, Collapsed, s.HandleSelectToken(tk["B"]))
	assertSelected(t, s, "B")
}

func TestNonAdjacentClickReplaces(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B")

	assert.Equal(t, Replaced, s.HandleSelectToken(tk["E"]))
	assertSelected(t, s, "E")
}

func TestGrowthKeepsOrder(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "B")

	assert.Equal(t, Grew, s.HandleSelectToken(tk["A"]))
	assertSelected(t, s, "A", "B")
}

func TestNeighbourIsBySequenceNotByInteger(t *testing.T) {
	s, tk := newTestSelector(t)

	// C has index 2 and D has index 5; they are still neighbours.
	click(s, tk, "C")
	assert.Equal(t, Grew, s.HandleSelectToken(tk["D"]))
	assert.Equal(t, Grew, s.HandleSelectToken(tk["E"]))
	assertSelected(t, s, "C", "D", "E")
}

func TestSingleTokenReclickEmpties(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "D")

	assert.Equal(t, Shrank, s.HandleSelectToken(tk["D"]))
	assertSelected(t, s)
	_, _, ok := s.SelectedBounds()
	assert.False(t, ok)
}

func TestToggleSelectionModeClearsAndGates(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B")

	assert.False(t, s.ToggleSelectionMode())
	assert.False(t, s.SelectionEnabled())
	assertSelected(t, s)

	assert.Equal(t, Ignored, s.HandleSelectToken(tk["A"]))
	assertSelected(t, s)

	assert.True(t, s.ToggleSelectionMode())
	click(s, tk, "F")
	assertSelected(t, s, "F")
	assert.False(t, s.ToggleSelectionMode())
	assertSelected(t, s)
}

func TestUnknownTokenIsIgnored(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A")

	assert.Equal(t, Ignored, s.HandleSelectToken(tok("Z", 3)))
	assertSelected(t, s, "A")
}

func TestIsTokenSelected(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "B", "C", "D")

	for id, want := range map[string]bool{"A": false, "B": true, "C": true, "D": true, "E": false} {
		assert.Equal(t, want, s.IsTokenSelected(tk[id]), id)
	}
	assert.Equal(t, 3, s.SelectedCount())

	first, last, ok := s.SelectedBounds()
	require.True(t, ok)
	assert.Equal(t, "B", first.ID)
	assert.Equal(t, "D", last.ID)
}

// TestRunStaysContiguous clicks through a fixed pseudo-random pattern and
// checks after each click that the run is sorted and gap-free.
func TestRunStaysContiguous(t *testing.T) {
	s, tk := newTestSelector(t)
	order := []string{"C", "D", "B", "A", "C", "E", "D", "F", "E", "A", "B", "C", "D", "E", "F", "C", "B"}

	for i, id := range order {
		before := s.SelectedCount()
		outcome := s.HandleSelectToken(tk[id])

		sel := s.Selected()
		for j := 1; j < len(sel); j++ {
			pPrev, _ := s.Sequence().Position(sel[j-1].ID)
			pCur, _ := s.Sequence().Position(sel[j].ID)
			require.Equal(t, pPrev+1, pCur, "click %d (%s) left a gap: %v", i, id, ids(sel))
		}
		if outcome != Shrank {
			assert.True(t, s.IsTokenSelected(tk[id]), "click %d (%s) should select the clicked token", i, id)
		} else {
			assert.Equal(t, before-1, s.SelectedCount())
		}
	}
}

func TestSplitToggle(t *testing.T) {
	s, tk := newTestSelector(t)

	_, ok := s.SplitTarget()
	assert.False(t, ok)

	assert.True(t, s.HandleSelectTokenForSplit(tk["B"]))
	id, ok := s.SplitTarget()
	require.True(t, ok)
	assert.Equal(t, "B", id)

	assert.False(t, s.HandleSelectTokenForSplit(tk["B"]))
	_, ok = s.SplitTarget()
	assert.False(t, ok)

	s.HandleSelectTokenForSplit(tk["B"])
	assert.True(t, s.HandleSelectTokenForSplit(tk["E"]))
	id, _ = s.SplitTarget()
	assert.Equal(t, "E", id)
	assert.True(t, s.IsSplitTarget(tk["E"]))
	assert.False(t, s.IsSplitTarget(tk["B"]))
}

func TestSplitIsIndependentOfRangeAndGate(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B")

	s.HandleSelectTokenForSplit(tk["E"])
	assertSelected(t, s, "A", "B")

	s.ToggleSelectionMode()
	id, ok := s.SplitTarget()
	require.True(t, ok)
	assert.Equal(t, "E", id)

	// the split toggle does not depend on the sequence either
	assert.True(t, s.HandleSelectTokenForSplit(tok("outside", 99)))
}

func TestSetSequenceResets(t *testing.T) {
	s, tk := newTestSelector(t)
	click(s, tk, "A", "B")
	s.HandleSelectTokenForSplit(tk["C"])

	seq, err := NewSequence([]domain.Token{tok("X", 1), tok("Y", 2)})
	require.NoError(t, err)
	s.SetSequence(seq)

	assert.True(t, s.SelectionEnabled())
	assertSelected(t, s)
	_, ok := s.SplitTarget()
	assert.False(t, ok)

	assert.Equal(t, Started, s.HandleSelectToken(tok("Y", 2)))
	assertSelected(t, s, "Y")
}

func TestOutcomeString(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{Ignored, "ignored"},
		{Started, "started"},
		{Grew, "grew"},
		{Shrank, "shrank"},
		{Collapsed, "collapsed"},
		{Replaced, "replaced"},
		{Outcome(42), "ignored"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.String())
		})
	}
	assert.False(t, Ignored.Changed())
	assert.True(t, Grew.Changed())
}
