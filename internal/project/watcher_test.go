package project

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"openphil/internal/domain"
	"openphil/internal/eventbus"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherPublishesReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aeneid.json")
	require.NoError(t, SaveFile(path, sampleProject()))

	bus := eventbus.New(nil)
	defer bus.Close()
	reloaded := make(chan eventbus.TokensReloadedEvent, 4)
	bus.Subscribe(eventbus.EventTokensReloaded, func(e eventbus.DomainEvent) {
		reloaded <- e.(eventbus.TokensReloadedEvent)
	})

	w, err := NewWatcher(path, bus, nil)
	require.NoError(t, err)
	w.debounce = 20 * time.Millisecond
	w.Start(context.Background())
	defer w.Close()

	p := sampleProject()
	p.Tokens = append(p.Tokens, domain.Token{ID: "t3", Index: 300, Text: "cano", WitnessID: "w1"})
	require.NoError(t, SaveFile(path, p))

	select {
	case e := <-reloaded:
		assert.Equal(t, "p1", e.ProjectID)
		require.Len(t, e.Tokens, 3)
		assert.Equal(t, "cano", e.Tokens[2].Text)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aeneid.toml")
	require.NoError(t, SaveFile(path, sampleProject()))

	bus := eventbus.New(nil)
	defer bus.Close()
	reloaded := make(chan struct{}, 1)
	bus.Subscribe(eventbus.EventTokensReloaded, func(eventbus.DomainEvent) {
		reloaded <- struct{}{}
	})

	w, err := NewWatcher(path, bus, nil)
	require.NoError(t, err)
	w.debounce = 10 * time.Millisecond
	w.Start(context.Background())
	defer w.Close()

	writeFile(t, filepath.Join(dir, "other.toml"), "x = 1")

	select {
	case <-reloaded:
		t.Fatal("unexpected reload")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherRejectsUnknownFormat(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "p.txt"), nil, nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestWatcherCloseWithoutStart(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "p.json"), nil, nil)
	require.NoError(t, err)
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
