package project

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"openphil/internal/eventbus"
)

// skipDirs are never scanned for witnesses
var skipDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"target":       true,
	"__pycache__":  true,
	"venv":         true,
}

// Discovery finds witness files in the filesystem
type Discovery struct {
	bus        eventbus.EventBus
	logger     *zap.Logger
	extensions map[string]bool
	maxDepth   int

	mu         sync.Mutex
	isScanning bool
}

// NewDiscovery creates a discovery service for the given file extensions
func NewDiscovery(bus eventbus.EventBus, logger *zap.Logger, extensions []string, maxDepth int) *Discovery {
	if logger == nil {
		logger = zap.NewNop()
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		e = strings.ToLower(e)
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	if maxDepth <= 0 {
		maxDepth = 5
	}
	return &Discovery{
		bus:        bus,
		logger:     logger.Named("discovery"),
		extensions: exts,
		maxDepth:   maxDepth,
	}
}

// Scan returns witness files under roots, sorted. A root may also be a file,
// which is taken as-is whatever its extension.
func (d *Discovery) Scan(ctx context.Context, roots []string) ([]string, error) {
	d.mu.Lock()
	if d.isScanning {
		d.mu.Unlock()
		return nil, fmt.Errorf("scan already in progress")
	}
	d.isScanning = true
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.isScanning = false
		d.mu.Unlock()
	}()

	d.publish(eventbus.ScanStartedEvent{Paths: roots})

	seen := make(map[string]bool)
	var found []string
	add := func(path string) {
		if seen[path] {
			return
		}
		seen[path] = true
		found = append(found, path)
		d.publish(eventbus.WitnessDiscoveredEvent{Path: path})
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(abs)
			continue
		}
		if err := d.scanDirectory(ctx, abs, add); err != nil {
			return nil, err
		}
	}

	sort.Strings(found)
	d.publish(eventbus.ScanCompletedEvent{WitnessesFound: len(found)})
	return found, nil
}

// scanDirectory walks root up to maxDepth looking for witness files
func (d *Discovery) scanDirectory(ctx context.Context, root string, add func(string)) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			d.logger.Warn("error walking path", zap.String("path", path), zap.Error(err))
			return nil
		}

		name := entry.Name()
		if entry.IsDir() {
			if path == root {
				return nil
			}
			relPath, _ := filepath.Rel(root, path)
			depth := strings.Count(relPath, string(filepath.Separator)) + 1
			if depth > d.maxDepth || skipDirs[name] || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") {
			return nil
		}
		if d.extensions[strings.ToLower(filepath.Ext(name))] {
			add(path)
		}
		return nil
	})
}

func (d *Discovery) publish(e eventbus.DomainEvent) {
	if d.bus != nil {
		d.bus.Publish(e)
	}
}
