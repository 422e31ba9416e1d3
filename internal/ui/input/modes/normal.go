package modes

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"openphil/internal/ui/input/types"
)

// ggTimeout is how long a first 'g' waits for the second one
const ggTimeout = 500 * time.Millisecond

type NormalMode struct {
	lastKeyWasG bool
	lastGTime   time.Time
	now         func() time.Time
}

func NewNormalMode() *NormalMode {
	return &NormalMode{now: time.Now}
}

func (m *NormalMode) Name() string {
	return "normal"
}

func (m *NormalMode) Enter(ctx types.Context) []types.Action {
	return nil
}

func (m *NormalMode) Exit(ctx types.Context) []types.Action {
	m.lastKeyWasG = false
	return nil
}

func (m *NormalMode) HandleKey(msg tea.KeyMsg, ctx types.Context) ([]types.Action, bool) {
	key := msg.String()
	if key != "g" {
		m.lastKeyWasG = false
	}

	switch msg.Type {
	case tea.KeyCtrlC:
		return []types.Action{types.QuitAction{Force: true}}, true
	case tea.KeyUp:
		return navigate("up"), true
	case tea.KeyDown:
		return navigate("down"), true
	case tea.KeyLeft:
		return navigate("left"), true
	case tea.KeyRight:
		return navigate("right"), true
	case tea.KeyPgUp:
		return navigate("pageup"), true
	case tea.KeyPgDown:
		return navigate("pagedown"), true
	case tea.KeyHome:
		return navigate("home"), true
	case tea.KeyEnd:
		return navigate("end"), true
	case tea.KeyEnter:
		return m.click(ctx)
	}

	switch key {
	case "j":
		return navigate("down"), true
	case "k":
		return navigate("up"), true
	case "h":
		return navigate("left"), true
	case "l":
		return navigate("right"), true
	case "0":
		return navigate("linestart"), true
	case "$":
		return navigate("lineend"), true

	case "v":
		// Toggle selection mode; always clears the selection
		return []types.Action{types.ToggleSelectionModeAction{}}, true

	case " ":
		return m.click(ctx)

	case "s":
		if ctx.TotalTokens() == 0 {
			return nil, true
		}
		return []types.Action{types.SelectSplitTargetAction{Index: -1}}, true

	case "S":
		// Split prompt needs a target
		if !ctx.HasSplitTarget() {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeSplit}}, true

	case "c":
		// Comment prompt needs a selection
		if !ctx.HasSelection() {
			return nil, true
		}
		return []types.Action{types.ChangeModeAction{Mode: types.ModeComment}}, true

	case "p":
		return []types.Action{types.ShowSelectionAction{}}, true

	case "?":
		return []types.Action{types.ToggleHelpAction{}}, true

	case "esc":
		if ctx.HasSelection() || ctx.HasSplitTarget() {
			return []types.Action{types.ClearSelectionAction{}}, true
		}
		return nil, true

	case "q":
		return []types.Action{types.QuitAction{Force: false}}, true

	case "g":
		if m.lastKeyWasG && m.now().Sub(m.lastGTime) < ggTimeout {
			m.lastKeyWasG = false
			return navigate("home"), true
		}
		m.lastKeyWasG = true
		m.lastGTime = m.now()
		return nil, true

	case "G":
		return navigate("end"), true
	}

	return nil, false
}

func (m *NormalMode) click(ctx types.Context) ([]types.Action, bool) {
	if ctx.TotalTokens() == 0 {
		return nil, true
	}
	return []types.Action{types.SelectTokenAction{Index: -1}}, true
}

func navigate(direction string) []types.Action {
	return []types.Action{types.NavigateAction{Direction: direction}}
}
