package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openphil/internal/domain"
	core "openphil/internal/selection"
	"openphil/internal/ui/services/events"
)

func tokens() []domain.Token {
	return []domain.Token{
		{ID: "a", Index: 10, Text: "arma"},
		{ID: "b", Index: 20, Text: "virumque"},
		{ID: "c", Index: 30, Text: "cano"},
	}
}

type recorder struct {
	changed []SelectionChangedEvent
	modes   []bool
	splits  []SplitTargetChangedEvent
}

func newRecordingService(t *testing.T) (*Service, *recorder) {
	t.Helper()
	bus := events.NewBus()
	rec := &recorder{}
	bus.Subscribe(events.EventType(SelectionChangedEvent{}), func(e interface{}) {
		rec.changed = append(rec.changed, e.(SelectionChangedEvent))
	})
	bus.Subscribe(events.EventType(SelectionModeChangedEvent{}), func(e interface{}) {
		rec.modes = append(rec.modes, e.(SelectionModeChangedEvent).Enabled)
	})
	bus.Subscribe(events.EventType(SplitTargetChangedEvent{}), func(e interface{}) {
		rec.splits = append(rec.splits, e.(SplitTargetChangedEvent))
	})

	s := NewService(bus)
	require.NoError(t, s.SetTokens(tokens()))
	return s, rec
}

func TestClickPublishesChanges(t *testing.T) {
	s, rec := newRecordingService(t)
	toks := tokens()

	assert.Equal(t, core.Ignored, s.Click(toks[0]))
	assert.Empty(t, rec.changed)

	assert.True(t, s.ToggleMode())
	assert.Equal(t, []bool{true}, rec.modes)

	assert.Equal(t, core.Started, s.Click(toks[0]))
	assert.Equal(t, core.Grew, s.Click(toks[1]))
	require.Len(t, rec.changed, 2)
	last := rec.changed[1]
	assert.Equal(t, 2, last.Count)
	assert.Equal(t, "a", last.First.ID)
	assert.Equal(t, "b", last.Last.ID)

	assert.True(t, s.IsSelected(toks[1]))
	assert.False(t, s.IsSelected(toks[2]))
	assert.Equal(t, 2, s.Count())
	assert.True(t, s.HasSelection())
}

func TestToggleModeClearsRun(t *testing.T) {
	s, rec := newRecordingService(t)
	s.ToggleMode()
	s.Click(tokens()[1])

	assert.False(t, s.ToggleMode())
	assert.Equal(t, 0, s.Count())
	assert.Equal(t, []bool{true, false}, rec.modes)
	require.Len(t, rec.changed, 2)
	assert.Equal(t, 0, rec.changed[1].Count)
}

func TestToggleSplit(t *testing.T) {
	s, rec := newRecordingService(t)
	toks := tokens()

	assert.True(t, s.ToggleSplit(toks[2]))
	id, ok := s.SplitTarget()
	assert.True(t, ok)
	assert.Equal(t, "c", id)
	assert.True(t, s.IsSplitTarget(toks[2]))

	assert.False(t, s.ToggleSplit(toks[2]))
	_, ok = s.SplitTarget()
	assert.False(t, ok)

	assert.Equal(t, []SplitTargetChangedEvent{
		{TokenID: "c", Set: true},
		{TokenID: "", Set: false},
	}, rec.splits)
}

func TestSetTokensResetsRunAndSplit(t *testing.T) {
	s, rec := newRecordingService(t)
	s.ToggleMode()
	s.Click(tokens()[0])
	s.ToggleSplit(tokens()[1])

	require.NoError(t, s.SetTokens(tokens()[:2]))
	assert.True(t, s.Enabled())
	assert.Equal(t, 0, s.Count())
	_, ok := s.SplitTarget()
	assert.False(t, ok)
	assert.Equal(t, 2, s.Sequence().Len())
	assert.Len(t, rec.splits, 2)

	dup := []domain.Token{{ID: "x", Index: 1}, {ID: "x", Index: 2}}
	assert.ErrorIs(t, s.SetTokens(dup), core.ErrDuplicateID)
}

func TestClear(t *testing.T) {
	s, _ := newRecordingService(t)
	s.ToggleMode()
	s.Click(tokens()[0])
	s.ToggleSplit(tokens()[0])

	s.Clear()
	assert.Equal(t, 0, s.Count())
	_, ok := s.SplitTarget()
	assert.False(t, ok)
	assert.True(t, s.Enabled())

	_, _, ok = s.Bounds()
	assert.False(t, ok)
	assert.Empty(t, s.Selected())
}

func TestNilBus(t *testing.T) {
	s := NewService(nil)
	require.NoError(t, s.SetTokens(tokens()))
	s.ToggleMode()
	assert.Equal(t, core.Started, s.Click(tokens()[2]))
}
