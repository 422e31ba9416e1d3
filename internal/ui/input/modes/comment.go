package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"openphil/internal/ui/input/types"
)

// CommentMode collects the body of a comment on the current selection
type CommentMode struct {
	TextInputMode
}

func NewCommentMode(ti *textinput.Model) *CommentMode {
	return &CommentMode{
		TextInputMode: NewTextInputMode(types.ModeComment, "comment", "Comment: ", ti),
	}
}

func (m *CommentMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	return m.TextInputMode.HandleKey(msg, ctx)
}
