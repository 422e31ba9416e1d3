package modes

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"openphil/internal/ui/input/types"
)

// SplitMode reads the character offset at which the split target is cut
type SplitMode struct {
	TextInputMode
}

func NewSplitMode(ti *textinput.Model) *SplitMode {
	return &SplitMode{
		TextInputMode: NewTextInputMode(types.ModeSplit, "split", "Split at offset: ", ti),
	}
}

func (m *SplitMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	if msg.Type == tea.KeyRunes {
		for _, r := range msg.Runes {
			if r < '0' || r > '9' {
				// Swallow anything that is not a digit
				return nil, true
			}
		}
	}
	return m.TextInputMode.HandleKey(msg, ctx)
}
