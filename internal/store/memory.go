package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"openphil/internal/domain"
)

// MemoryStore is an in-memory implementation of Store
type MemoryStore struct {
	mu       sync.RWMutex
	opts     options
	projects map[string]*domain.Project
}

// NewMemoryStore creates a new memory-based store
func NewMemoryStore(opts ...Option) *MemoryStore {
	return &MemoryStore{
		opts:     buildOptions(opts),
		projects: make(map[string]*domain.Project),
	}
}

func (s *MemoryStore) CreateProject(ctx context.Context, p *domain.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = s.opts.newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.opts.now()
	}
	if _, exists := s.projects[p.ID]; exists {
		return fmt.Errorf("project %s: %w", p.ID, ErrExists)
	}
	if err := checkTokens(p.ID, p.Tokens); err != nil {
		return err
	}
	for i := range p.Comments {
		c := &p.Comments[i]
		c.ProjectID = p.ID
		if c.ID == "" {
			c.ID = s.opts.newID()
		}
		if c.CreatedAt.IsZero() {
			c.CreatedAt = s.opts.now()
		}
	}
	s.projects[p.ID] = cloneProject(p)
	return nil
}

func (s *MemoryStore) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProjectSummary, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p.Summary())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Name < out[j].Name
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return cloneProject(p), nil
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.projects[id]; !ok {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	delete(s.projects, id)
	return nil
}

func (s *MemoryStore) Tokens(ctx context.Context, projectID string) ([]domain.Token, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Tokens, nil
}

func (s *MemoryStore) SplitToken(ctx context.Context, projectID, tokenID string, offset int) (domain.Token, domain.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return domain.Token{}, domain.Token{}, fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}

	plan, err := planSplit(p.Tokens, tokenID, offset, s.opts.stride, s.opts.newID)
	if err != nil {
		return domain.Token{}, domain.Token{}, err
	}

	p.Tokens = plan.Tokens
	for i := range p.Comments {
		if p.Comments[i].EndTokenID == tokenID {
			p.Comments[i].EndTokenID = plan.Right.ID
		}
	}
	return plan.Left, plan.Right, nil
}

func (s *MemoryStore) ReplaceTokens(ctx context.Context, projectID string, tokens []domain.Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[projectID]
	if !ok {
		return fmt.Errorf("project %s: %w", projectID, ErrNotFound)
	}
	if err := checkTokens(projectID, tokens); err != nil {
		return err
	}
	replaced := cloneProject(&domain.Project{Tokens: tokens})
	p.Tokens = replaced.Tokens
	return nil
}

func (s *MemoryStore) AddComment(ctx context.Context, c *domain.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.projects[c.ProjectID]
	if !ok {
		return fmt.Errorf("project %s: %w", c.ProjectID, ErrNotFound)
	}
	if !hasToken(p.Tokens, c.StartTokenID) || !hasToken(p.Tokens, c.EndTokenID) {
		return fmt.Errorf("comment range %s..%s: %w", c.StartTokenID, c.EndTokenID, ErrNotFound)
	}
	if c.ID == "" {
		c.ID = s.opts.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.opts.now()
	}
	p.Comments = append(p.Comments, *c)
	return nil
}

func (s *MemoryStore) Comments(ctx context.Context, projectID string) ([]domain.Comment, error) {
	p, err := s.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return p.Comments, nil
}

func (s *MemoryStore) Close() error { return nil }

func hasToken(tokens []domain.Token, id string) bool {
	for _, t := range tokens {
		if t.ID == id {
			return true
		}
	}
	return false
}

// cloneProject copies a project so callers cannot modify stored state
func cloneProject(p *domain.Project) *domain.Project {
	out := *p
	out.Witnesses = append([]domain.Witness(nil), p.Witnesses...)
	out.Comments = append([]domain.Comment(nil), p.Comments...)
	out.Tokens = make([]domain.Token, len(p.Tokens))
	for i, t := range p.Tokens {
		t.Meta = copyMeta(t.Meta)
		out.Tokens[i] = t
	}
	sort.SliceStable(out.Tokens, func(i, j int) bool { return out.Tokens[i].Index < out.Tokens[j].Index })
	return &out
}
