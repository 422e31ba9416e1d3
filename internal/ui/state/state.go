package state

import (
	"openphil/internal/domain"
)

// AppState contains all the editing view state that is not owned by a service
type AppState struct {
	// Project data
	ProjectID   string
	ProjectName string
	Source      string           // store id or project file path
	Tokens      []domain.Token   // ordered as displayed
	Comments    []domain.Comment // comments on this project

	// Cursor and viewport
	Cursor         int // position of the token under the cursor
	ViewportOffset int // first visible row
	ViewportHeight int // rows available for tokens

	// UI state
	Popup         string // inline popup content, shown when the pager is unavailable
	StatusMessage string
	StatusIsError bool
	Watching      bool // project file is watched for changes
	Busy          bool // a store command is running
}

// NewAppState creates a new application state
func NewAppState() *AppState {
	return &AppState{
		Tokens:         make([]domain.Token, 0),
		ViewportHeight: 20, // Default
	}
}

// SetProject replaces the displayed project
func (s *AppState) SetProject(p *domain.Project, source string) {
	s.ProjectID = p.ID
	s.ProjectName = p.Name
	s.Source = source
	s.Comments = p.Comments
	s.SetTokens(p.Tokens)
}

// SetTokens replaces the token sequence and keeps the cursor in range
func (s *AppState) SetTokens(tokens []domain.Token) {
	s.Tokens = tokens
	s.ClampCursor()
}

// ClampCursor keeps the cursor on an existing token
func (s *AppState) ClampCursor() {
	if s.Cursor >= len(s.Tokens) {
		s.Cursor = len(s.Tokens) - 1
	}
	if s.Cursor < 0 {
		s.Cursor = 0
	}
}

// CurrentToken returns the token under the cursor
func (s *AppState) CurrentToken() (domain.Token, bool) {
	return s.TokenAt(s.Cursor)
}

// TokenAt returns the token at a display position
func (s *AppState) TokenAt(index int) (domain.Token, bool) {
	if index < 0 || index >= len(s.Tokens) {
		return domain.Token{}, false
	}
	return s.Tokens[index], true
}

// TokenPosition returns the display position of a token id
func (s *AppState) TokenPosition(id string) int {
	for i, t := range s.Tokens {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// SetStatus shows a message in the status line
func (s *AppState) SetStatus(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = false
}

// SetError shows an error in the status line
func (s *AppState) SetError(msg string) {
	s.StatusMessage = msg
	s.StatusIsError = true
}

// ClearStatus removes the status line message
func (s *AppState) ClearStatus() {
	s.StatusMessage = ""
	s.StatusIsError = false
}

// CommentEnds counts the comments ending on each token id
func (s *AppState) CommentEnds() map[string]int {
	ends := make(map[string]int, len(s.Comments))
	for _, c := range s.Comments {
		ends[c.EndTokenID]++
	}
	return ends
}
