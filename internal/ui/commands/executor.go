package commands

import (
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"openphil/internal/domain"
	"openphil/internal/eventbus"
	"openphil/internal/store"
)

// Executor handles command execution
type Executor struct {
	ctx *CommandContext
}

// NewExecutor creates a new command executor for one project
func NewExecutor(s store.Store, bus eventbus.EventBus, logger *zap.Logger, projectID string) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		ctx: &CommandContext{
			Store:     s,
			Bus:       bus,
			Logger:    logger.Named("commands"),
			ProjectID: projectID,
		},
	}
}

// ExecuteLoad creates and executes a load command
func (e *Executor) ExecuteLoad() tea.Cmd {
	return NewLoadProjectCommand(e.ctx).Execute()
}

// ExecuteReplaceTokens creates and executes a replace command
func (e *Executor) ExecuteReplaceTokens(tokens []domain.Token) tea.Cmd {
	return NewReplaceTokensCommand(e.ctx, tokens).Execute()
}

// ExecuteSplit creates and executes a split command
func (e *Executor) ExecuteSplit(tokenID string, offset int) tea.Cmd {
	return NewSplitTokenCommand(e.ctx, tokenID, offset).Execute()
}

// ExecuteAddComment creates and executes a comment command
func (e *Executor) ExecuteAddComment(startTokenID, endTokenID, body string) tea.Cmd {
	return NewAddCommentCommand(e.ctx, startTokenID, endTokenID, body).Execute()
}
