package project

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"openphil/internal/eventbus"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a project file when it changes on disk and publishes the
// new token sequence as a TokensReloadedEvent.
type Watcher struct {
	path     string
	bus      eventbus.EventBus
	logger   *zap.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewWatcher creates a watcher for a project file. The containing directory
// is watched so editors that replace the file on save are still seen.
func NewWatcher(path string, bus eventbus.EventBus, logger *zap.Logger) (*Watcher, error) {
	if _, err := FormatFromPath(path); err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}
	return &Watcher{
		path:     abs,
		bus:      bus,
		logger:   logger.Named("watcher"),
		debounce: DefaultDebounce,
		watcher:  fw,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching in the background until ctx is done or Close is called
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return
	}
	w.running = true
	go w.run(ctx)
}

// Close stops the watcher and releases its resources
func (w *Watcher) Close() error {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	select {
	case <-w.stopCh:
		return nil
	default:
		close(w.stopCh)
	}
	if wasRunning {
		<-w.doneCh
	}
	return w.watcher.Close()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.logger.Debug("project file changed", zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-timer.C:
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	p, err := LoadFile(w.path)
	if err != nil {
		w.logger.Warn("reload failed", zap.String("path", w.path), zap.Error(err))
		w.publish(eventbus.ErrorEvent{Message: "reload failed", Err: err})
		return
	}
	w.logger.Info("project reloaded", zap.String("path", w.path), zap.Int("tokens", len(p.Tokens)))
	w.publish(eventbus.TokensReloadedEvent{ProjectID: p.ID, Tokens: p.Tokens})
}

func (w *Watcher) publish(e eventbus.DomainEvent) {
	if w.bus != nil {
		w.bus.Publish(e)
	}
}
