package types

// Navigation actions
type NavigateAction struct {
	Direction string // "up", "down", "left", "right", "pageup", "pagedown", "home", "end", "linestart", "lineend"
}

func (a NavigateAction) Type() string { return "navigate" }

// Selection actions
type ToggleSelectionModeAction struct{}

func (a ToggleSelectionModeAction) Type() string { return "toggle_selection_mode" }

type SelectTokenAction struct {
	Index int // -1 for current
}

func (a SelectTokenAction) Type() string { return "select_token" }

type SelectSplitTargetAction struct {
	Index int // -1 for current
}

func (a SelectSplitTargetAction) Type() string { return "select_split_target" }

type ClearSelectionAction struct{}

func (a ClearSelectionAction) Type() string { return "clear_selection" }

// Mode transition actions
type ChangeModeAction struct {
	Mode Mode
	Data string // Optional initial text for the mode
}

func (a ChangeModeAction) Type() string { return "change_mode" }

// Text input actions
type UpdateTextAction struct {
	Text string
}

func (a UpdateTextAction) Type() string { return "update_text" }

type SubmitTextAction struct {
	Text string
	Mode Mode // Which mode submitted the text
}

func (a SubmitTextAction) Type() string { return "submit_text" }

type CancelTextAction struct{}

func (a CancelTextAction) Type() string { return "cancel_text" }

// Command actions
type ShowSelectionAction struct{}

func (a ShowSelectionAction) Type() string { return "show_selection" }

type ToggleHelpAction struct{}

func (a ToggleHelpAction) Type() string { return "toggle_help" }

type QuitAction struct {
	Force bool // true for Ctrl+C, false for 'q'
}

func (a QuitAction) Type() string { return "quit" }
