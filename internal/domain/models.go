package domain

import "time"

// Token is one unit of transcribed text within a project's ordered sequence
type Token struct {
	ID        string            `json:"id" yaml:"id" toml:"id" msgpack:"id"`
	Index     int               `json:"index" yaml:"index" toml:"index" msgpack:"index"`
	Text      string            `json:"text" yaml:"text" toml:"text" msgpack:"text"`
	WitnessID string            `json:"witness_id,omitempty" yaml:"witness_id,omitempty" toml:"witness_id,omitempty" msgpack:"witness_id,omitempty"`
	Meta      map[string]string `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty" msgpack:"meta,omitempty"`
}

// TokenID returns the token identity
func (t Token) TokenID() string { return t.ID }

// Position returns the position index used for ordering
func (t Token) Position() int { return t.Index }

// Witness is a source document contributing text to a project
type Witness struct {
	ID     string `json:"id" yaml:"id" toml:"id" msgpack:"id"`
	Siglum string `json:"siglum" yaml:"siglum" toml:"siglum" msgpack:"siglum"`
	Name   string `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	Path   string `json:"path,omitempty" yaml:"path,omitempty" toml:"path,omitempty" msgpack:"path,omitempty"`
}

// Project groups witnesses and the token sequence built from them
type Project struct {
	ID        string    `json:"id" yaml:"id" toml:"id" msgpack:"id"`
	Name      string    `json:"name" yaml:"name" toml:"name" msgpack:"name"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at" toml:"created_at" msgpack:"created_at"`
	Witnesses []Witness `json:"witnesses" yaml:"witnesses" toml:"witnesses" msgpack:"witnesses"`
	Tokens    []Token   `json:"tokens" yaml:"tokens" toml:"tokens" msgpack:"tokens"`
	Comments  []Comment `json:"comments,omitempty" yaml:"comments,omitempty" toml:"comments,omitempty" msgpack:"comments,omitempty"`
}

// ProjectSummary is the listing view of a project
type ProjectSummary struct {
	ID         string
	Name       string
	CreatedAt  time.Time
	TokenCount int
	Witnesses  int
}

// Comment annotates an inclusive token range
type Comment struct {
	ID           string    `json:"id" yaml:"id" toml:"id" msgpack:"id"`
	ProjectID    string    `json:"project_id" yaml:"project_id" toml:"project_id" msgpack:"project_id"`
	StartTokenID string    `json:"start_token_id" yaml:"start_token_id" toml:"start_token_id" msgpack:"start_token_id"`
	EndTokenID   string    `json:"end_token_id" yaml:"end_token_id" toml:"end_token_id" msgpack:"end_token_id"`
	Body         string    `json:"body" yaml:"body" toml:"body" msgpack:"body"`
	CreatedAt    time.Time `json:"created_at" yaml:"created_at" toml:"created_at" msgpack:"created_at"`
}

// Summary builds the listing view of a project
func (p *Project) Summary() ProjectSummary {
	return ProjectSummary{
		ID:         p.ID,
		Name:       p.Name,
		CreatedAt:  p.CreatedAt,
		TokenCount: len(p.Tokens),
		Witnesses:  len(p.Witnesses),
	}
}
