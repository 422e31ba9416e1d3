package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"openphil/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS projects (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS witnesses (
	id         TEXT NOT NULL,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	siglum     TEXT NOT NULL,
	name       TEXT NOT NULL,
	path       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project_id, id)
);
CREATE TABLE IF NOT EXISTS tokens (
	id         TEXT NOT NULL,
	project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	idx        INTEGER NOT NULL,
	text       TEXT NOT NULL,
	witness_id TEXT NOT NULL DEFAULT '',
	meta       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (project_id, id)
);
CREATE INDEX IF NOT EXISTS tokens_project_idx ON tokens(project_id, idx);
CREATE TABLE IF NOT EXISTS comments (
	id             TEXT PRIMARY KEY,
	project_id     TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
	start_token_id TEXT NOT NULL,
	end_token_id   TEXT NOT NULL,
	body           TEXT NOT NULL,
	created_at     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS comments_project ON comments(project_id, created_at);
`

// SQLiteStore keeps projects in a sqlite database
type SQLiteStore struct {
	db     *sql.DB
	opts   options
	logger *zap.Logger
}

// OpenSQLite opens (and migrates) the database at path. ":memory:" is accepted.
func OpenSQLite(ctx context.Context, path string, logger *zap.Logger, opts ...Option) (*SQLiteStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// one connection keeps ":memory:" databases and pragmas consistent
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db, opts: buildOptions(opts), logger: logger.Named("store")}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	s.logger.Debug("database ready", zap.String("path", path))
	return s, nil
}

func (s *SQLiteStore) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) CreateProject(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = s.opts.newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = s.opts.now()
	}
	if err := checkTokens(p.ID, p.Tokens); err != nil {
		return err
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO projects (id, name, created_at) VALUES (?, ?, ?)`,
			p.ID, p.Name, p.CreatedAt.UnixNano()); err != nil {
			if isKeyConflict(err) {
				return fmt.Errorf("project %s: %w", p.ID, ErrExists)
			}
			return fmt.Errorf("failed to insert project: %w", err)
		}

		for _, w := range p.Witnesses {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO witnesses (id, project_id, siglum, name, path) VALUES (?, ?, ?, ?, ?)`,
				w.ID, p.ID, w.Siglum, w.Name, w.Path); err != nil {
				return fmt.Errorf("failed to insert witness %s: %w", w.Siglum, err)
			}
		}

		if err := insertTokens(ctx, tx, p.ID, p.Tokens); err != nil {
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
			if err := insertComment(ctx, tx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) ListProjects(ctx context.Context) ([]domain.ProjectSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.created_at,
			(SELECT COUNT(*) FROM tokens t WHERE t.project_id = p.id),
			(SELECT COUNT(*) FROM witnesses w WHERE w.project_id = p.id)
		FROM projects p
		ORDER BY p.created_at, p.name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var out []domain.ProjectSummary
	for rows.Next() {
		var (
			ps      domain.ProjectSummary
			created int64
		)
		if err := rows.Scan(&ps.ID, &ps.Name, &created, &ps.TokenCount, &ps.Witnesses); err != nil {
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		ps.CreatedAt = time.Unix(0, created)
		out = append(out, ps)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	p := &domain.Project{ID: id}
	var created int64
	err := s.db.QueryRowContext(ctx,
		`SELECT name, created_at FROM projects WHERE id = ?`, id).Scan(&p.Name, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	p.CreatedAt = time.Unix(0, created)

	if p.Witnesses, err = s.witnesses(ctx, id); err != nil {
		return nil, err
	}
	if p.Tokens, err = s.tokens(ctx, s.db, id); err != nil {
		return nil, err
	}
	if p.Comments, err = s.Comments(ctx, id); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *SQLiteStore) DeleteProject(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Tokens(ctx context.Context, projectID string) ([]domain.Token, error) {
	if err := s.projectExists(ctx, s.db, projectID); err != nil {
		return nil, err
	}
	return s.tokens(ctx, s.db, projectID)
}

func (s *SQLiteStore) SplitToken(ctx context.Context, projectID, tokenID string, offset int) (domain.Token, domain.Token, error) {
	var plan *splitPlan
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		tokens, err := s.tokens(ctx, tx, projectID)
		if err != nil {
			return err
		}
		if plan, err = planSplit(tokens, tokenID, offset, s.opts.stride, s.opts.newID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `UPDATE tokens SET text = ? WHERE project_id = ? AND id = ?`, plan.Left.Text, projectID, plan.Left.ID); err != nil {
			return fmt.Errorf("failed to update token: %w", err)
		}
		for _, t := range plan.Renumbered {
			if _, err := tx.ExecContext(ctx, `UPDATE tokens SET idx = ? WHERE project_id = ? AND id = ?`, t.Index, projectID, t.ID); err != nil {
				return fmt.Errorf("failed to renumber token %s: %w", t.ID, err)
			}
		}
		meta, err := encodeMeta(plan.Right.Meta)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (id, project_id, idx, text, witness_id, meta) VALUES (?, ?, ?, ?, ?, ?)`,
			plan.Right.ID, projectID, plan.Right.Index, plan.Right.Text, plan.Right.WitnessID, meta); err != nil {
			return fmt.Errorf("failed to insert split token: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`UPDATE comments SET end_token_id = ? WHERE project_id = ? AND end_token_id = ?`,
			plan.Right.ID, projectID, tokenID); err != nil {
			return fmt.Errorf("failed to move comment ranges: %w", err)
		}
		return nil
	})
	if err != nil {
		return domain.Token{}, domain.Token{}, err
	}

	s.logger.Debug("token split",
		zap.String("project", projectID),
		zap.String("left", plan.Left.ID),
		zap.String("right", plan.Right.ID),
		zap.Int("renumbered", len(plan.Renumbered)))
	return plan.Left, plan.Right, nil
}

func (s *SQLiteStore) ReplaceTokens(ctx context.Context, projectID string, tokens []domain.Token) error {
	if err := checkTokens(projectID, tokens); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.projectExists(ctx, tx, projectID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE project_id = ?`, projectID); err != nil {
			return fmt.Errorf("failed to clear tokens: %w", err)
		}
		return insertTokens(ctx, tx, projectID, tokens)
	})
}

func (s *SQLiteStore) AddComment(ctx context.Context, c *domain.Comment) error {
	if c.ID == "" {
		c.ID = s.opts.newID()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.opts.now()
	}

	return s.inTx(ctx, func(tx *sql.Tx) error {
		if err := s.projectExists(ctx, tx, c.ProjectID); err != nil {
			return err
		}
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tokens WHERE project_id = ? AND id IN (?, ?)`,
			c.ProjectID, c.StartTokenID, c.EndTokenID).Scan(&n); err != nil {
			return fmt.Errorf("failed to check comment range: %w", err)
		}
		want := 2
		if c.StartTokenID == c.EndTokenID {
			want = 1
		}
		if n != want {
			return fmt.Errorf("comment range %s..%s: %w", c.StartTokenID, c.EndTokenID, ErrNotFound)
		}
		return insertComment(ctx, tx, c)
	})
}

func (s *SQLiteStore) Comments(ctx context.Context, projectID string) ([]domain.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, project_id, start_token_id, end_token_id, body, created_at
		FROM comments WHERE project_id = ? ORDER BY created_at, id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	var out []domain.Comment
	for rows.Next() {
		var (
			c       domain.Comment
			created int64
		)
		if err := rows.Scan(&c.ID, &c.ProjectID, &c.StartTokenID, &c.EndTokenID, &c.Body, &created); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		c.CreatedAt = time.Unix(0, created)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) projectExists(ctx context.Context, q querier, id string) error {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM projects WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up project: %w", err)
	}
	return nil
}

func (s *SQLiteStore) tokens(ctx context.Context, q querier, projectID string) ([]domain.Token, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, idx, text, witness_id, meta FROM tokens
		WHERE project_id = ? ORDER BY idx`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tokens: %w", err)
	}
	defer rows.Close()

	var out []domain.Token
	for rows.Next() {
		var (
			t    domain.Token
			meta string
		)
		if err := rows.Scan(&t.ID, &t.Index, &t.Text, &t.WitnessID, &meta); err != nil {
			return nil, fmt.Errorf("failed to scan token: %w", err)
		}
		if t.Meta, err = decodeMeta(meta); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) witnesses(ctx context.Context, projectID string) ([]domain.Witness, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, siglum, name, path FROM witnesses WHERE project_id = ? ORDER BY siglum`, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load witnesses: %w", err)
	}
	defer rows.Close()

	var out []domain.Witness
	for rows.Next() {
		var w domain.Witness
		if err := rows.Scan(&w.ID, &w.Siglum, &w.Name, &w.Path); err != nil {
			return nil, fmt.Errorf("failed to scan witness: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}
	return nil
}

func insertTokens(ctx context.Context, tx *sql.Tx, projectID string, tokens []domain.Token) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO tokens (id, project_id, idx, text, witness_id, meta) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare token insert: %w", err)
	}
	defer stmt.Close()
	for _, t := range tokens {
		meta, err := encodeMeta(t.Meta)
		if err != nil {
			return err
		}
		if _, err := stmt.ExecContext(ctx, t.ID, projectID, t.Index, t.Text, t.WitnessID, meta); err != nil {
			return fmt.Errorf("failed to insert token %s: %w", t.ID, err)
		}
	}
	return nil
}

func insertComment(ctx context.Context, tx *sql.Tx, c *domain.Comment) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO comments (id, project_id, start_token_id, end_token_id, body, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.ProjectID, c.StartTokenID, c.EndTokenID, c.Body, c.CreatedAt.UnixNano()); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func encodeMeta(m map[string]string) (string, error) {
	if len(m) == 0 {
		return "", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("failed to encode token metadata: %w", err)
	}
	return string(data), nil
}

func decodeMeta(s string) (map[string]string, error) {
	if s == "" {
		return nil, nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return nil, fmt.Errorf("failed to decode token metadata: %w", err)
	}
	return m, nil
}

// isKeyConflict reports whether err is a primary key or unique constraint failure
func isKeyConflict(err error) bool {
	var sqliteErr *sqlite.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	switch sqliteErr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
