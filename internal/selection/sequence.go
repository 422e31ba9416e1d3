package selection

import (
	"fmt"
	"sort"

	"openphil/internal/domain"
)

// Sequence is the full ordered token list a selection is drawn from.
// Tokens are sorted by position index; ids and indices are unique.
type Sequence struct {
	tokens []domain.Token
	pos    map[string]int
}

// NewSequence copies and sorts tokens by position index
func NewSequence(tokens []domain.Token) (*Sequence, error) {
	sorted := make([]domain.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Index < sorted[j].Index
	})

	pos := make(map[string]int, len(sorted))
	for i, t := range sorted {
		if _, dup := pos[t.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, t.ID)
		}
		if i > 0 && sorted[i-1].Index == t.Index {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateIndex, t.Index)
		}
		pos[t.ID] = i
	}

	return &Sequence{tokens: sorted, pos: pos}, nil
}

// Len returns the number of tokens
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.tokens)
}

// At returns the token at position i
func (s *Sequence) At(i int) domain.Token {
	return s.tokens[i]
}

// Position returns where the token with the given id sits in the sequence
func (s *Sequence) Position(id string) (int, bool) {
	if s == nil {
		return 0, false
	}
	i, ok := s.pos[id]
	return i, ok
}

// Contains reports whether the id belongs to the sequence
func (s *Sequence) Contains(id string) bool {
	_, ok := s.Position(id)
	return ok
}

// Tokens returns a copy of the ordered tokens
func (s *Sequence) Tokens() []domain.Token {
	if s == nil {
		return nil
	}
	out := make([]domain.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// Slice returns a copy of the tokens at positions lo..hi inclusive
func (s *Sequence) Slice(lo, hi int) []domain.Token {
	if hi < lo {
		return nil
	}
	out := make([]domain.Token, hi-lo+1)
	copy(out, s.tokens[lo:hi+1])
	return out
}

// Range returns the inclusive run between two token ids in either order
func (s *Sequence) Range(startID, endID string) ([]domain.Token, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: %s", ErrIDNotFound, startID)
	}
	return RangeByID(s.tokens, domain.Token.TokenID, startID, endID)
}
