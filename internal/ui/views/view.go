package views

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"openphil/internal/domain"
	"openphil/internal/ui/logic"
)

// ViewState contains all the state needed for rendering
type ViewState struct {
	Width  int
	Height int

	ProjectName string
	Source      string
	Watching    bool
	Busy        bool

	Tokens         []domain.Token
	Rows           []logic.Row
	Cursor         int
	ViewportOffset int
	ViewportHeight int
	ShowIndices    bool
	HighlightSplit bool

	SelectionEnabled bool
	IsSelected       func(domain.Token) bool
	SelectedCount    int
	First            domain.Token
	Last             domain.Token
	SplitTargetID    string
	CommentEnds      map[string]int

	StatusMessage string
	StatusIsError bool
	Prompt        string
	TextInput     string
	HelpView      string
	ShowHelp      bool
	HelpContent   string
}

// Renderer handles all view rendering
type Renderer struct {
	styles      *Styles
	popupRender *PopupRenderer
}

// NewRenderer creates a new renderer
func NewRenderer() *Renderer {
	styles := NewStyles()
	return &Renderer{
		styles:      styles,
		popupRender: NewPopupRenderer(styles),
	}
}

// Styles returns the renderer's styles
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Render produces the complete view
func (r *Renderer) Render(state ViewState) string {
	if state.ShowHelp && state.HelpContent != "" {
		return r.popupRender.RenderPopup(state.HelpContent, state.Height, state.Width)
	}

	content := &strings.Builder{}
	content.WriteString(r.renderTitle(state))
	content.WriteString("\n\n")

	if state.Prompt != "" {
		content.WriteString(r.styles.Prompt.Render(state.Prompt))
		content.WriteString(state.TextInput)
		content.WriteString("\n\n")
	}

	if len(state.Tokens) == 0 {
		content.WriteString(r.styles.Dim.Render("No tokens in this project."))
	} else {
		content.WriteString(r.renderTokens(state))
	}

	// Status and help sit at the bottom
	footer := r.renderStatus(state)
	if state.HelpView != "" {
		footer += "\n" + r.styles.Help.Render(state.HelpView)
	}

	currentLines := strings.Count(content.String(), "\n") + 1
	footerLines := strings.Count(footer, "\n") + 1
	availableLines := state.Height - 2 // Main padding
	if availableLines <= 0 {
		availableLines = 22
	}
	if pad := availableLines - currentLines - footerLines; pad > 0 {
		content.WriteString(strings.Repeat("\n", pad))
	}
	content.WriteString("\n")
	content.WriteString(footer)

	mainStyle := r.styles.Main
	if state.Height > 0 {
		mainStyle = mainStyle.MaxHeight(state.Height)
	}
	return mainStyle.Render(content.String())
}

func (r *Renderer) renderTitle(state ViewState) string {
	title := r.styles.Title.Render("openphil")
	if state.ProjectName != "" {
		title += r.styles.Dim.Render(" · ") + state.ProjectName
	}

	var right []string
	if state.Busy {
		right = append(right, r.styles.Dim.Render("working..."))
	}
	if state.Watching {
		right = append(right, r.styles.Watching.Render("[watching "+state.Source+"]"))
	}
	if len(right) == 0 {
		return title
	}

	rightContent := strings.Join(right, "  ")
	termWidth := state.Width
	if termWidth <= 0 {
		termWidth = 80
	}
	padding := termWidth - 4 - lipgloss.Width(title) - lipgloss.Width(rightContent)
	if padding < 2 {
		padding = 2
	}
	return title + strings.Repeat(" ", padding) + rightContent
}

// renderTokens renders the visible token rows
func (r *Renderer) renderTokens(state ViewState) string {
	end := state.ViewportOffset + state.ViewportHeight
	if state.ViewportHeight <= 0 || end > len(state.Rows) {
		end = len(state.Rows)
	}
	start := state.ViewportOffset
	if start > end {
		start = end
	}

	lines := make([]string, 0, end-start)
	for _, row := range state.Rows[start:end] {
		var line strings.Builder
		for i := row.Start; i <= row.End; i++ {
			line.WriteString(r.renderToken(state, i))
			if state.CommentEnds[state.Tokens[i].ID] > 0 {
				line.WriteString(r.styles.CommentMark.Render("†"))
			} else if i < row.End {
				line.WriteString(" ")
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) renderToken(state ViewState, i int) string {
	t := state.Tokens[i]

	style := r.styles.Token
	if state.IsSelected != nil && state.IsSelected(t) {
		style = r.styles.Selected
		if t.ID == state.First.ID || t.ID == state.Last.ID {
			style = r.styles.SelectedEdge
		}
	}
	if state.HighlightSplit && t.ID == state.SplitTargetID {
		style = style.Foreground(r.styles.SplitTarget.GetForeground()).Underline(true)
	}
	if i == state.Cursor {
		style = style.Reverse(true)
	}

	text := t.Text
	if text == "" {
		text = " "
	}
	out := style.Render(text)
	if state.ShowIndices {
		out += r.styles.Index.Render(":" + strconv.Itoa(t.Index))
	}
	return out
}

// renderStatus builds the status line: gate, selection, split target, message
func (r *Renderer) renderStatus(state ViewState) string {
	var parts []string

	if state.SelectionEnabled {
		parts = append(parts, r.styles.GateOn.Render("SELECT"))
	} else {
		parts = append(parts, r.styles.GateOff.Render("select off"))
	}

	if state.SelectedCount > 0 {
		parts = append(parts, fmt.Sprintf("%d selected [%d..%d]", state.SelectedCount, state.First.Index, state.Last.Index))
	}

	if state.SplitTargetID != "" {
		label := state.SplitTargetID
		for _, t := range state.Tokens {
			if t.ID == state.SplitTargetID {
				label = fmt.Sprintf("%q", t.Text)
				break
			}
		}
		parts = append(parts, r.styles.SplitTarget.Render("split "+label))
	}

	if len(state.Rows) > 0 {
		row := 0
		for i, rw := range state.Rows {
			if state.Cursor >= rw.Start && state.Cursor <= rw.End {
				row = i
				break
			}
		}
		parts = append(parts, r.styles.Scroll.Render(fmt.Sprintf("line %d/%d", row+1, len(state.Rows))))
	}

	line := r.styles.Status.Render(strings.Join(parts, "  "))
	if state.StatusMessage != "" {
		msgStyle := r.styles.StatusSuccess
		if state.StatusIsError {
			msgStyle = r.styles.StatusError
		}
		line += "  " + msgStyle.Render(state.StatusMessage)
	}
	return line
}
