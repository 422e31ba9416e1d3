package selection

import "openphil/internal/domain"

// Contiguous is a run of neighbouring tokens of a Sequence, stored as the
// inclusive position span [lo, hi]. It only grows or shrinks by one position
// at either end, so it cannot become non-contiguous. hi < lo means empty.
type Contiguous struct {
	seq *Sequence
	lo  int
	hi  int
}

// NewContiguous returns an empty run over seq
func NewContiguous(seq *Sequence) Contiguous {
	return Contiguous{seq: seq, lo: 0, hi: -1}
}

// Empty reports whether nothing is selected
func (c *Contiguous) Empty() bool {
	return c.hi < c.lo
}

// Len returns the number of tokens in the run
func (c *Contiguous) Len() int {
	if c.Empty() {
		return 0
	}
	return c.hi - c.lo + 1
}

// Bounds returns the sequence positions of the first and last token
func (c *Contiguous) Bounds() (lo, hi int, ok bool) {
	if c.Empty() {
		return 0, 0, false
	}
	return c.lo, c.hi, true
}

// Low returns the token with the smallest position index
func (c *Contiguous) Low() (domain.Token, bool) {
	if c.Empty() {
		return domain.Token{}, false
	}
	return c.seq.At(c.lo), true
}

// High returns the token with the largest position index
func (c *Contiguous) High() (domain.Token, bool) {
	if c.Empty() {
		return domain.Token{}, false
	}
	return c.seq.At(c.hi), true
}

// Contains reports whether position p is inside the run
func (c *Contiguous) Contains(p int) bool {
	return !c.Empty() && p >= c.lo && p <= c.hi
}

// IsBoundary reports whether position p is the first or last token of the run
func (c *Contiguous) IsBoundary(p int) bool {
	return !c.Empty() && (p == c.lo || p == c.hi)
}

// Adjacent reports whether p is the neighbour just before or just after the run
func (c *Contiguous) Adjacent(p int) bool {
	return !c.Empty() && (p == c.lo-1 || p == c.hi+1)
}

// Tokens returns the selected tokens sorted by position index
func (c *Contiguous) Tokens() []domain.Token {
	if c.Empty() {
		return nil
	}
	return c.seq.Slice(c.lo, c.hi)
}

// Reset empties the run
func (c *Contiguous) Reset() {
	c.lo, c.hi = 0, -1
}

// Only replaces the run with the single position p
func (c *Contiguous) Only(p int) {
	c.lo, c.hi = p, p
}

// Extend grows the run by p. It refuses anything but an adjacent neighbour.
func (c *Contiguous) Extend(p int) bool {
	switch {
	case c.Empty():
		return false
	case p == c.lo-1:
		c.lo = p
	case p == c.hi+1:
		c.hi = p
	default:
		return false
	}
	return true
}

// Shrink drops p from the run. It refuses anything but a boundary position.
func (c *Contiguous) Shrink(p int) bool {
	switch {
	case c.Empty():
		return false
	case p == c.lo:
		c.lo++
	case p == c.hi:
		c.hi--
	default:
		return false
	}
	return true
}
