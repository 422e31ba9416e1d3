// Package store is the token source of the editing view: it keeps projects,
// their ordered tokens and the comments attached to token ranges.
package store

import (
	"context"
	"errors"
	"fmt"

	"openphil/internal/domain"
	"openphil/internal/selection"
)

var (
	// ErrNotFound is returned for unknown projects or tokens
	ErrNotFound = errors.New("not found")
	// ErrInvalidSplit is returned when a split offset does not cut a token in two
	ErrInvalidSplit = errors.New("invalid split offset")
	// ErrExists is returned when creating a project whose id is taken
	ErrExists = errors.New("already exists")
)

// checkTokens rejects token lists with repeated ids or position indices
func checkTokens(projectID string, tokens []domain.Token) error {
	if _, err := selection.NewSequence(tokens); err != nil {
		return fmt.Errorf("project %s: %w", projectID, err)
	}
	return nil
}

// Store provides access to project data
type Store interface {
	CreateProject(ctx context.Context, p *domain.Project) error
	ListProjects(ctx context.Context) ([]domain.ProjectSummary, error)
	GetProject(ctx context.Context, id string) (*domain.Project, error)
	DeleteProject(ctx context.Context, id string) error
	Tokens(ctx context.Context, projectID string) ([]domain.Token, error)
	SplitToken(ctx context.Context, projectID, tokenID string, offset int) (left, right domain.Token, err error)
	ReplaceTokens(ctx context.Context, projectID string, tokens []domain.Token) error
	AddComment(ctx context.Context, c *domain.Comment) error
	Comments(ctx context.Context, projectID string) ([]domain.Comment, error)
	Close() error
}
