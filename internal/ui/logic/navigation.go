package logic

import (
	"strconv"

	"github.com/mattn/go-runewidth"

	"openphil/internal/domain"
)

// Row is a line of tokens, given as inclusive display positions
type Row struct {
	Start int
	End   int
}

// TokenWidth returns the cells a token occupies, without the separator
func TokenWidth(t domain.Token, showIndices bool) int {
	w := runewidth.StringWidth(t.Text)
	if w == 0 {
		w = 1
	}
	if showIndices {
		w += len(strconv.Itoa(t.Index)) + 1
	}
	return w
}

// Layout wraps tokens into rows no wider than a given width
type Layout struct {
	rows  []Row
	rowOf []int
	col   []int
	width []int
}

// NewLayout lays tokens out left to right, one space between tokens. A token
// wider than the row gets a row of its own.
func NewLayout(tokens []domain.Token, width int, showIndices bool) *Layout {
	l := &Layout{
		rowOf: make([]int, len(tokens)),
		col:   make([]int, len(tokens)),
		width: make([]int, len(tokens)),
	}
	if width < 1 {
		width = 1
	}

	x := 0
	for i, t := range tokens {
		w := TokenWidth(t, showIndices)
		if len(l.rows) == 0 || (x > 0 && x+w > width) {
			l.rows = append(l.rows, Row{Start: i, End: i})
			x = 0
		}
		r := len(l.rows) - 1
		l.rows[r].End = i
		l.rowOf[i] = r
		l.col[i] = x
		l.width[i] = w
		x += w + 1
	}
	return l
}

// Rows returns the laid out rows
func (l *Layout) Rows() []Row {
	return l.rows
}

// RowCount returns the number of rows
func (l *Layout) RowCount() int {
	return len(l.rows)
}

// RowOf returns the row a token position is on
func (l *Layout) RowOf(pos int) int {
	if pos < 0 || pos >= len(l.rowOf) {
		return 0
	}
	return l.rowOf[pos]
}

// closestInRow returns the token of row r nearest to column x
func (l *Layout) closestInRow(r, x int) int {
	row := l.rows[r]
	for i := row.Start; i <= row.End; i++ {
		if x < l.col[i]+l.width[i] {
			return i
		}
	}
	return row.End
}

// Navigator moves a cursor over a layout and keeps it inside the viewport
type Navigator struct {
	layout         *Layout
	cursor         int
	viewportOffset int
	viewportHeight int
}

// NewNavigator creates a new navigator
func NewNavigator() *Navigator {
	return &Navigator{layout: NewLayout(nil, 1, false), viewportHeight: 1}
}

// UpdateState updates the navigator's state
func (n *Navigator) UpdateState(layout *Layout, cursor, viewportOffset, viewportHeight int) {
	if layout != nil {
		n.layout = layout
	}
	n.cursor = cursor
	n.viewportOffset = viewportOffset
	n.viewportHeight = viewportHeight
	if n.viewportHeight < 1 {
		n.viewportHeight = 1
	}
	n.clamp()
}

// Cursor returns the cursor position
func (n *Navigator) Cursor() int {
	return n.cursor
}

// ViewportOffset returns the first visible row
func (n *Navigator) ViewportOffset() int {
	return n.viewportOffset
}

// Move applies a navigation direction and returns the new cursor and viewport offset
func (n *Navigator) Move(direction string) (int, int) {
	total := len(n.layout.rowOf)
	if total == 0 {
		return 0, 0
	}
	row := n.layout.RowOf(n.cursor)
	x := n.layout.col[n.cursor]

	switch direction {
	case "left":
		n.cursor--
	case "right":
		n.cursor++
	case "up":
		if row > 0 {
			n.cursor = n.layout.closestInRow(row-1, x)
		}
	case "down":
		if row < n.layout.RowCount()-1 {
			n.cursor = n.layout.closestInRow(row+1, x)
		}
	case "pageup":
		target := row - n.viewportHeight
		if target < 0 {
			target = 0
		}
		n.cursor = n.layout.closestInRow(target, x)
	case "pagedown":
		target := row + n.viewportHeight
		if target > n.layout.RowCount()-1 {
			target = n.layout.RowCount() - 1
		}
		n.cursor = n.layout.closestInRow(target, x)
	case "home":
		n.cursor = 0
	case "end":
		n.cursor = total - 1
	case "linestart":
		n.cursor = n.layout.rows[row].Start
	case "lineend":
		n.cursor = n.layout.rows[row].End
	}

	n.clamp()
	return n.cursor, n.viewportOffset
}

// SetCursor moves the cursor to a position and scrolls it into view
func (n *Navigator) SetCursor(pos int) (int, int) {
	n.cursor = pos
	n.clamp()
	return n.cursor, n.viewportOffset
}

// clamp keeps the cursor on a token and its row inside the viewport
func (n *Navigator) clamp() {
	total := len(n.layout.rowOf)
	if n.cursor >= total {
		n.cursor = total - 1
	}
	if n.cursor < 0 {
		n.cursor = 0
	}

	row := n.layout.RowOf(n.cursor)
	if row < n.viewportOffset {
		n.viewportOffset = row
	}
	if row >= n.viewportOffset+n.viewportHeight {
		n.viewportOffset = row - n.viewportHeight + 1
	}

	maxOffset := n.layout.RowCount() - n.viewportHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if n.viewportOffset > maxOffset {
		n.viewportOffset = maxOffset
	}
	if n.viewportOffset < 0 {
		n.viewportOffset = 0
	}
}
