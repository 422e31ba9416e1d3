package store

import (
	"fmt"
	"sort"

	"openphil/internal/domain"
)

// splitPlan is the outcome of cutting one token in two
type splitPlan struct {
	Left       domain.Token
	Right      domain.Token
	Renumbered []domain.Token // tokens after the split whose index moved
	Tokens     []domain.Token // the full sequence afterwards, sorted by index
}

// planSplit cuts the token tokenID at rune offset into a left part that keeps
// the id and index and a right part with a fresh id. The right part takes the
// midpoint index between the token and its successor; when the successor is
// directly adjacent, everything after the token is renumbered with stride.
func planSplit(tokens []domain.Token, tokenID string, offset, stride int, newID func() string) (*splitPlan, error) {
	sorted := make([]domain.Token, len(tokens))
	copy(sorted, tokens)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Index < sorted[j].Index })

	pos := -1
	for i, t := range sorted {
		if t.ID == tokenID {
			pos = i
			break
		}
	}
	if pos < 0 {
		return nil, fmt.Errorf("token %s: %w", tokenID, ErrNotFound)
	}

	runes := []rune(sorted[pos].Text)
	if offset <= 0 || offset >= len(runes) {
		return nil, fmt.Errorf("%w: %d not inside %q", ErrInvalidSplit, offset, sorted[pos].Text)
	}
	if stride <= 0 {
		stride = 1
	}

	left := sorted[pos]
	left.Text = string(runes[:offset])
	right := domain.Token{
		ID:        newID(),
		Text:      string(runes[offset:]),
		WitnessID: left.WitnessID,
		Meta:      copyMeta(left.Meta),
	}

	plan := &splitPlan{Left: left}
	switch {
	case pos == len(sorted)-1:
		right.Index = left.Index + stride
	case sorted[pos+1].Index-left.Index >= 2:
		right.Index = left.Index + (sorted[pos+1].Index-left.Index)/2
	default:
		right.Index = left.Index + stride
		next := right.Index
		for i := pos + 1; i < len(sorted); i++ {
			next += stride
			if sorted[i].Index != next {
				sorted[i].Index = next
				plan.Renumbered = append(plan.Renumbered, sorted[i])
			}
		}
	}
	plan.Right = right

	out := make([]domain.Token, 0, len(sorted)+1)
	out = append(out, sorted[:pos]...)
	out = append(out, left, right)
	out = append(out, sorted[pos+1:]...)
	plan.Tokens = out

	return plan, nil
}

func copyMeta(m map[string]string) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
