package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"openphil/internal/config"
	"openphil/internal/domain"
	"openphil/internal/eventbus"
	"openphil/internal/project"
	"openphil/internal/store"
	"openphil/internal/ui/commands"
	"openphil/internal/ui/input"
	inputtypes "openphil/internal/ui/input/types"
	"openphil/internal/ui/logic"
	"openphil/internal/ui/services/events"
	"openphil/internal/ui/services/selection"
	"openphil/internal/ui/state"
	"openphil/internal/ui/views"
)

// defaultStatusTimeout is how long informational status messages stay visible
const defaultStatusTimeout = 3 * time.Second

// chromeLines is the height taken by everything but the token rows,
// including the prompt line of the text modes
const chromeLines = 10

// Options configures an editing session
type Options struct {
	Store     store.Store
	ProjectID string
	Bus       eventbus.EventBus
	Config    *config.Config
	Logger    *zap.Logger
	Source    string // shown in the title while watching
	Watching  bool
	SaveTo    string // project file written back on quit after edits
}

// Model is the editing view of one project
type Model struct {
	bus    eventbus.EventBus
	config *config.Config
	logger *zap.Logger
	store  store.Store
	state  *state.AppState

	width       int
	height      int
	help        help.Model
	keys        keyMap
	inPagerMode bool
	dirty       bool
	saveTo      string

	statusTimeout time.Duration

	layout       *logic.Layout
	navigator    *logic.Navigator
	renderer     *views.Renderer
	helpRenderer *HelpRenderer
	uiBus        *events.Bus
	selection    *selection.Service
	cmdExecutor  *commands.Executor
	inputHandler *input.Handler
	pager        *Pager

	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(opts Options) *Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	appState := state.NewAppState()
	appState.ProjectID = opts.ProjectID
	appState.Source = opts.Source
	appState.Watching = opts.Watching

	uiBus := events.NewBus()
	keys := newKeyMap()

	m := &Model{
		bus:          opts.Bus,
		config:       cfg,
		logger:       logger.Named("ui"),
		store:        opts.Store,
		state:        appState,
		help:         help.New(),
		keys:         keys,
		saveTo:       opts.SaveTo,
		layout:       logic.NewLayout(nil, 1, false),
		navigator:    logic.NewNavigator(),
		renderer:     views.NewRenderer(),
		helpRenderer: NewHelpRenderer(keys),
		uiBus:        uiBus,
		selection:    selection.NewService(uiBus),
		cmdExecutor:  commands.NewExecutor(opts.Store, opts.Bus, logger, opts.ProjectID),
		inputHandler: input.New(),
		pager:        NewPager(),

		statusTimeout: defaultStatusTimeout,
	}

	uiBus.Subscribe(events.EventType(selection.SelectionChangedEvent{}), func(e interface{}) {
		ev := e.(selection.SelectionChangedEvent)
		m.logger.Debug("selection changed",
			zap.Stringer("outcome", ev.Outcome),
			zap.Int("count", ev.Count),
			zap.String("first", ev.First.ID),
			zap.String("last", ev.Last.ID))
	})
	uiBus.Subscribe(events.EventType(selection.SelectionModeChangedEvent{}), func(e interface{}) {
		m.logger.Debug("selection mode", zap.Bool("enabled", e.(selection.SelectionModeChangedEvent).Enabled))
	})

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init loads the project
func (m *Model) Init() tea.Cmd {
	return m.cmdExecutor.ExecuteLoad()
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.relayout()
		return m, nil

	case tea.KeyMsg:
		// The inline popup swallows keys until closed
		if m.state.Popup != "" {
			switch msg.String() {
			case "esc", "q", "?", "p", "enter":
				m.state.Popup = ""
			case "ctrl+c":
				return m, tea.Quit
			}
			return m, nil
		}

		ctx := &input.ModelContext{
			State:     m.state,
			Selection: m.selection,
		}
		actions, cmd := m.inputHandler.HandleKey(msg, ctx)

		cmds := []tea.Cmd{}
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		for _, action := range actions {
			if actionCmd := m.processAction(action); actionCmd != nil {
				cmds = append(cmds, actionCmd)
			}
		}
		return m, tea.Batch(cmds...)

	default:
		inputCmd := m.inputHandler.Update(msg)
		model, cmd := m.handleNonKeyboardMsg(msg)
		return model, tea.Batch(inputCmd, cmd)
	}
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.inPagerMode {
		return ""
	}

	first, last, _ := m.selection.Bounds()
	splitID, _ := m.selection.SplitTarget()

	textInput := ""
	if ti := m.inputHandler.TextInput(); ti != nil {
		textInput = ti.View()
	}

	return m.renderer.Render(views.ViewState{
		Width:            m.width,
		Height:           m.height,
		ProjectName:      m.state.ProjectName,
		Source:           m.state.Source,
		Watching:         m.state.Watching,
		Busy:             m.state.Busy,
		Tokens:           m.state.Tokens,
		Rows:             m.layout.Rows(),
		Cursor:           m.state.Cursor,
		ViewportOffset:   m.state.ViewportOffset,
		ViewportHeight:   m.state.ViewportHeight,
		ShowIndices:      m.config.UI.ShowIndices,
		HighlightSplit:   m.config.UI.HighlightSplit,
		SelectionEnabled: m.selection.Enabled(),
		IsSelected:       m.selection.IsSelected,
		SelectedCount:    m.selection.Count(),
		First:            first,
		Last:             last,
		SplitTargetID:    splitID,
		CommentEnds:      m.state.CommentEnds(),
		StatusMessage:    m.state.StatusMessage,
		StatusIsError:    m.state.StatusIsError,
		Prompt:           m.inputHandler.Prompt(),
		TextInput:        textInput,
		HelpView:         m.help.View(m.keys),
		ShowHelp:         m.state.Popup != "",
		HelpContent:      m.state.Popup,
	})
}

// processAction processes an action from the input handler
func (m *Model) processAction(action inputtypes.Action) tea.Cmd {
	switch a := action.(type) {
	case inputtypes.NavigateAction:
		m.state.Cursor, m.state.ViewportOffset = m.navigator.Move(a.Direction)

	case inputtypes.ToggleSelectionModeAction:
		if m.selection.ToggleMode() {
			return m.flash("Selection mode on")
		}
		return m.flash("Selection mode off")

	case inputtypes.SelectTokenAction:
		t, ok := m.tokenFor(a.Index)
		if !ok {
			return nil
		}
		if !m.selection.Enabled() {
			return m.flash("Press v to turn on selection mode")
		}
		m.selection.Click(t)

	case inputtypes.SelectSplitTargetAction:
		t, ok := m.tokenFor(a.Index)
		if !ok {
			return nil
		}
		if m.selection.ToggleSplit(t) {
			return m.flash(fmt.Sprintf("Marked %q for splitting, press S to split", t.Text))
		}

	case inputtypes.ClearSelectionAction:
		m.selection.Clear()

	case inputtypes.SubmitTextAction:
		return m.handleSubmit(a)

	case inputtypes.CancelTextAction:
		m.state.ClearStatus()

	case inputtypes.ShowSelectionAction:
		return m.showInPager(m.selectionText())

	case inputtypes.ToggleHelpAction:
		return m.showInPager(m.helpRenderer.RenderHelpContent())

	case inputtypes.QuitAction:
		if !a.Force && m.dirty && m.saveTo != "" {
			return m.saveProject()
		}
		return tea.Quit
	}
	return nil
}

func (m *Model) handleSubmit(a inputtypes.SubmitTextAction) tea.Cmd {
	switch a.Mode {
	case inputtypes.ModeComment:
		first, last, ok := m.selection.Bounds()
		if !ok {
			m.state.SetError("Nothing selected")
			return nil
		}
		m.state.Busy = true
		return m.cmdExecutor.ExecuteAddComment(first.ID, last.ID, a.Text)

	case inputtypes.ModeSplit:
		id, ok := m.selection.SplitTarget()
		if !ok {
			m.state.SetError("No token marked for splitting")
			return nil
		}
		offset, err := strconv.Atoi(strings.TrimSpace(a.Text))
		if err != nil {
			m.state.SetError(fmt.Sprintf("Invalid offset %q", a.Text))
			return nil
		}
		m.state.Busy = true
		return m.cmdExecutor.ExecuteSplit(id, offset)
	}
	return nil
}

// handleNonKeyboardMsg handles results of commands and external events
func (m *Model) handleNonKeyboardMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		return m, m.handleEvent(msg.Event)

	case commands.ProjectLoadedMsg:
		m.state.Busy = false
		if msg.Err != nil {
			m.state.SetError(fmt.Sprintf("Failed to load project: %v", msg.Err))
			return m, nil
		}
		reload := m.state.ProjectName != ""
		if err := m.setProject(msg.Project); err != nil {
			return m, nil
		}
		if reload {
			return m, m.flash("Project reloaded")
		}
		return m, nil

	case commands.TokenSplitMsg:
		m.state.Busy = false
		if msg.Err != nil {
			m.state.SetError(fmt.Sprintf("Split failed: %v", msg.Err))
			return m, nil
		}
		m.dirty = true
		if err := m.setProject(msg.Project); err != nil {
			return m, nil
		}
		m.state.Cursor, m.state.ViewportOffset = m.navigator.SetCursor(m.state.TokenPosition(msg.Left.ID))
		return m, m.flash(fmt.Sprintf("Split into %q and %q", msg.Left.Text, msg.Right.Text))

	case commands.CommentAddedMsg:
		m.state.Busy = false
		if msg.Err != nil {
			m.state.SetError(fmt.Sprintf("Comment failed: %v", msg.Err))
			return m, nil
		}
		m.dirty = true
		m.state.Comments = msg.Comments
		return m, m.flash("Comment added")

	case pagerClosedMsg:
		if msg.err != nil {
			// No pager available: show the content inline
			m.logger.Debug("pager unavailable", zap.Error(msg.err))
			m.state.Popup = msg.content
		}
		return m, nil

	case projectSavedMsg:
		if msg.err != nil {
			m.logger.Error("failed to save project", zap.String("path", msg.path), zap.Error(msg.err))
			m.state.SetError(fmt.Sprintf("Save failed: %v (ctrl+c quits without saving)", msg.err))
			return m, nil
		}
		m.logger.Info("project saved", zap.String("path", msg.path))
		return m, tea.Quit

	case pauseRenderingMsg:
		m.inPagerMode = true
		return m, nil

	case resumeRenderingMsg:
		m.inPagerMode = false
		return m, nil

	case clearStatusMsg:
		if !m.state.StatusIsError {
			m.state.ClearStatus()
		}
		return m, nil
	}
	return m, nil
}

// handleEvent processes domain events forwarded by the program
func (m *Model) handleEvent(event eventbus.DomainEvent) tea.Cmd {
	switch e := event.(type) {
	case eventbus.TokensReloadedEvent:
		if e.ProjectID != m.state.ProjectID {
			return nil
		}
		m.state.Busy = true
		return m.cmdExecutor.ExecuteReplaceTokens(e.Tokens)
	case eventbus.ErrorEvent:
		m.state.SetError(e.Message)
	}
	return nil
}

// setProject shows a project and resets the selection state. When the
// tokens do not form a valid sequence the selector is emptied so no run
// or split target outlives the tokens it was drawn from.
func (m *Model) setProject(p *domain.Project) error {
	m.state.SetProject(p, m.state.Source)
	err := m.selection.SetTokens(m.state.Tokens)
	if err != nil {
		_ = m.selection.SetTokens(nil)
		m.state.SetError(fmt.Sprintf("Invalid token sequence: %v", err))
	}
	m.relayout()
	return err
}

// relayout wraps tokens to the window and keeps the cursor visible
func (m *Model) relayout() {
	width := m.width - 4 // Main padding
	if w := m.config.UI.WrapWidth; w > 0 && (width <= 0 || w < width) {
		width = w
	}
	m.layout = logic.NewLayout(m.state.Tokens, width, m.config.UI.ShowIndices)

	if m.height > 0 {
		m.state.ViewportHeight = m.height - chromeLines
		if m.state.ViewportHeight < 1 {
			m.state.ViewportHeight = 1
		}
	}
	m.navigator.UpdateState(m.layout, m.state.Cursor, m.state.ViewportOffset, m.state.ViewportHeight)
	m.state.Cursor = m.navigator.Cursor()
	m.state.ViewportOffset = m.navigator.ViewportOffset()
}

// tokenFor resolves an action index, -1 meaning the cursor
func (m *Model) tokenFor(index int) (domain.Token, bool) {
	if index < 0 {
		return m.state.CurrentToken()
	}
	return m.state.TokenAt(index)
}

// selectionText is the selected run, or the whole text when nothing is selected
func (m *Model) selectionText() string {
	tokens := m.selection.Selected()
	header := fmt.Sprintf("%s (whole text)", m.state.ProjectName)
	if len(tokens) > 0 {
		header = fmt.Sprintf("%s [%d..%d]", m.state.ProjectName, tokens[0].Index, tokens[len(tokens)-1].Index)
	} else {
		tokens = m.state.Tokens
	}
	return header + "\n\n" + JoinTokens(tokens) + "\n"
}

// JoinTokens joins token texts with spaces, attaching punctuation to the
// preceding word.
func JoinTokens(tokens []domain.Token) string {
	var b strings.Builder
	for i, t := range tokens {
		if i > 0 && !isPunctuation(t.Text) {
			b.WriteByte(' ')
		}
		b.WriteString(t.Text)
	}
	return b.String()
}

func isPunctuation(s string) bool {
	r, size := utf8.DecodeRuneInString(s)
	return size == len(s) && size > 0 && unicode.IsPunct(r)
}

// showInPager opens content in the pager; without a terminal program the
// content falls back to an inline popup
func (m *Model) showInPager(content string) tea.Cmd {
	if m.program == nil {
		return func() tea.Msg {
			return pagerClosedMsg{content: content, err: errNoProgram}
		}
	}
	return func() tea.Msg {
		m.program.Send(pauseRenderingMsg{})
		err := m.pager.Show(content)
		m.program.Send(resumeRenderingMsg{})
		return pagerClosedMsg{content: content, err: err}
	}
}

// saveProject writes the edited project back to its file and quits
func (m *Model) saveProject() tea.Cmd {
	path := m.saveTo
	projectID := m.state.ProjectID
	s := m.store
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), commands.DefaultTimeout)
		defer cancel()
		p, err := s.GetProject(ctx, projectID)
		if err != nil {
			return projectSavedMsg{path: path, err: err}
		}
		return projectSavedMsg{path: path, err: project.SaveFile(path, p)}
	}
}

// flash shows a status message that clears itself
func (m *Model) flash(msg string) tea.Cmd {
	m.state.SetStatus(msg)
	return tea.Tick(m.statusTimeout, func(time.Time) tea.Msg { return clearStatusMsg{} })
}
