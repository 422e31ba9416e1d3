package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"openphil/internal/domain"
	"openphil/internal/eventbus"
	"openphil/internal/store"
	"openphil/internal/tokenize"
)

// Importer turns witness files into stored projects
type Importer struct {
	store     store.Store
	tokenizer *tokenize.Tokenizer
	bus       eventbus.EventBus
	logger    *zap.Logger
	workers   int
	newID     func() string
}

// NewImporter creates an importer that tokenizes up to workers files at once
func NewImporter(s store.Store, tz *tokenize.Tokenizer, bus eventbus.EventBus, logger *zap.Logger, workers int) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tz == nil {
		tz = tokenize.New(tokenize.DefaultStride)
	}
	if workers <= 0 {
		workers = 1
	}
	return &Importer{
		store:     s,
		tokenizer: tz,
		bus:       bus,
		logger:    logger.Named("importer"),
		workers:   workers,
		newID:     uuid.NewString,
	}
}

// Siglum derives a witness siglum from a file name: the base name without
// extension, upper-cased.
func Siglum(path string) string {
	base := filepath.Base(path)
	return strings.ToUpper(strings.TrimSuffix(base, filepath.Ext(base)))
}

// ImportFiles creates one project per witness file. The first failure
// cancels the remaining work; projects already stored are returned along
// with the error.
func (im *Importer) ImportFiles(ctx context.Context, paths []string) ([]domain.ProjectSummary, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)

	var mu sync.Mutex
	results := make([]*domain.ProjectSummary, len(paths))

	for i, path := range paths {
		g.Go(func() error {
			summary, err := im.importFile(gctx, path)
			if err != nil {
				return err
			}
			mu.Lock()
			results[i] = &summary
			mu.Unlock()
			return nil
		})
	}
	err := g.Wait()

	out := make([]domain.ProjectSummary, 0, len(paths))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	if err != nil {
		im.publish(eventbus.ErrorEvent{Message: "import failed", Err: err})
		return out, err
	}
	return out, nil
}

func (im *Importer) importFile(ctx context.Context, path string) (domain.ProjectSummary, error) {
	if err := ctx.Err(); err != nil {
		return domain.ProjectSummary{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.ProjectSummary{}, fmt.Errorf("failed to read witness %s: %w", path, err)
	}

	witness := domain.Witness{
		ID:     im.newID(),
		Siglum: Siglum(path),
		Name:   filepath.Base(path),
		Path:   path,
	}
	tokens, err := im.tokenizer.Tokenize(string(data), witness.ID)
	if err != nil {
		return domain.ProjectSummary{}, fmt.Errorf("failed to tokenize %s: %w", path, err)
	}

	p := &domain.Project{
		Name:      witness.Siglum,
		Witnesses: []domain.Witness{witness},
		Tokens:    tokens,
	}
	if err := im.store.CreateProject(ctx, p); err != nil {
		return domain.ProjectSummary{}, fmt.Errorf("failed to store %s: %w", path, err)
	}

	summary := p.Summary()
	im.logger.Info("imported witness",
		zap.String("path", path),
		zap.String("project", p.ID),
		zap.Int("tokens", summary.TokenCount))
	im.publish(eventbus.ProjectImportedEvent{Project: summary, Source: path})
	return summary, nil
}

// ImportProjectFile stores a project read from a project file
func (im *Importer) ImportProjectFile(ctx context.Context, path string) (domain.ProjectSummary, error) {
	p, err := LoadFile(path)
	if err != nil {
		return domain.ProjectSummary{}, err
	}
	if err := im.store.CreateProject(ctx, p); err != nil {
		return domain.ProjectSummary{}, fmt.Errorf("failed to store project %s: %w", path, err)
	}
	summary := p.Summary()
	im.publish(eventbus.ProjectImportedEvent{Project: summary, Source: path})
	return summary, nil
}

func (im *Importer) publish(e eventbus.DomainEvent) {
	if im.bus != nil {
		im.bus.Publish(e)
	}
}
