package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"openphil/internal/domain"
	"openphil/internal/eventbus"
	"openphil/internal/selection"
	"openphil/internal/store"
)

// DefaultTimeout bounds a single store operation started from the UI
const DefaultTimeout = 10 * time.Second

// Command represents an executable action
type Command interface {
	Execute() tea.Cmd
}

// CommandContext provides context for command execution
type CommandContext struct {
	Store     store.Store
	Bus       eventbus.EventBus
	Logger    *zap.Logger
	ProjectID string
	Timeout   time.Duration
}

func (c *CommandContext) context() (context.Context, context.CancelFunc) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return context.WithTimeout(context.Background(), timeout)
}

func (c *CommandContext) publish(e eventbus.DomainEvent) {
	if c.Bus != nil {
		c.Bus.Publish(e)
	}
}

func (c *CommandContext) fail(message string, err error) {
	c.Logger.Error(message, zap.String("project", c.ProjectID), zap.Error(err))
	c.publish(eventbus.ErrorEvent{Message: message, Err: err})
}

// ProjectLoadedMsg carries a freshly read project
type ProjectLoadedMsg struct {
	Project *domain.Project
	Err     error
}

// TokenSplitMsg reports the result of a split
type TokenSplitMsg struct {
	Left    domain.Token
	Right   domain.Token
	Project *domain.Project
	Err     error
}

// CommentAddedMsg reports the result of adding a comment
type CommentAddedMsg struct {
	Comment  domain.Comment
	Comments []domain.Comment
	Err      error
}

// LoadProjectCommand reads the project with its tokens and comments
type LoadProjectCommand struct {
	ctx *CommandContext
}

// NewLoadProjectCommand creates a new load command
func NewLoadProjectCommand(ctx *CommandContext) *LoadProjectCommand {
	return &LoadProjectCommand{ctx: ctx}
}

// Execute loads the project
func (c *LoadProjectCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx.context()
		defer cancel()

		p, err := c.ctx.Store.GetProject(ctx, c.ctx.ProjectID)
		if err != nil {
			c.ctx.fail("failed to load project", err)
		}
		return ProjectLoadedMsg{Project: p, Err: err}
	}
}

// ReplaceTokensCommand swaps the stored tokens for a reloaded sequence
type ReplaceTokensCommand struct {
	ctx    *CommandContext
	tokens []domain.Token
}

// NewReplaceTokensCommand creates a new replace command
func NewReplaceTokensCommand(ctx *CommandContext, tokens []domain.Token) *ReplaceTokensCommand {
	return &ReplaceTokensCommand{ctx: ctx, tokens: tokens}
}

// Execute replaces the tokens and reads the project back
func (c *ReplaceTokensCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		if _, err := selection.NewSequence(c.tokens); err != nil {
			c.ctx.fail("rejected reloaded tokens", err)
			return ProjectLoadedMsg{Err: err}
		}

		ctx, cancel := c.ctx.context()
		defer cancel()

		if err := c.ctx.Store.ReplaceTokens(ctx, c.ctx.ProjectID, c.tokens); err != nil {
			c.ctx.fail("failed to reload tokens", err)
			return ProjectLoadedMsg{Err: err}
		}
		p, err := c.ctx.Store.GetProject(ctx, c.ctx.ProjectID)
		if err != nil {
			c.ctx.fail("failed to load project", err)
		}
		return ProjectLoadedMsg{Project: p, Err: err}
	}
}

// SplitTokenCommand cuts a token in two at a character offset
type SplitTokenCommand struct {
	ctx     *CommandContext
	tokenID string
	offset  int
}

// NewSplitTokenCommand creates a new split command
func NewSplitTokenCommand(ctx *CommandContext, tokenID string, offset int) *SplitTokenCommand {
	return &SplitTokenCommand{ctx: ctx, tokenID: tokenID, offset: offset}
}

// Execute performs the split
func (c *SplitTokenCommand) Execute() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := c.ctx.context()
		defer cancel()

		left, right, err := c.ctx.Store.SplitToken(ctx, c.ctx.ProjectID, c.tokenID, c.offset)
		if err != nil {
			c.ctx.fail("failed to split token", err)
			return TokenSplitMsg{Err: err}
		}
		c.ctx.Logger.Info("token split",
			zap.String("project", c.ctx.ProjectID),
			zap.String("left", left.Text),
			zap.String("right", right.Text))
		c.ctx.publish(eventbus.TokenSplitEvent{ProjectID: c.ctx.ProjectID, Left: left, Right: right})

		p, err := c.ctx.Store.GetProject(ctx, c.ctx.ProjectID)
		if err != nil {
			c.ctx.fail("failed to load project", err)
		}
		return TokenSplitMsg{Left: left, Right: right, Project: p, Err: err}
	}
}

// AddCommentCommand attaches a comment to a token range
type AddCommentCommand struct {
	ctx          *CommandContext
	startTokenID string
	endTokenID   string
	body         string
}

// NewAddCommentCommand creates a new comment command
func NewAddCommentCommand(ctx *CommandContext, startTokenID, endTokenID, body string) *AddCommentCommand {
	return &AddCommentCommand{
		ctx:          ctx,
		startTokenID: startTokenID,
		endTokenID:   endTokenID,
		body:         strings.TrimSpace(body),
	}
}

// Execute stores the comment
func (c *AddCommentCommand) Execute() tea.Cmd {
	if c.body == "" {
		return func() tea.Msg {
			return CommentAddedMsg{Err: fmt.Errorf("comment is empty")}
		}
	}
	return func() tea.Msg {
		ctx, cancel := c.ctx.context()
		defer cancel()

		comment := domain.Comment{
			ProjectID:    c.ctx.ProjectID,
			StartTokenID: c.startTokenID,
			EndTokenID:   c.endTokenID,
			Body:         c.body,
		}
		if err := c.ctx.Store.AddComment(ctx, &comment); err != nil {
			c.ctx.fail("failed to add comment", err)
			return CommentAddedMsg{Err: err}
		}
		c.ctx.publish(eventbus.CommentAddedEvent{Comment: comment})

		comments, err := c.ctx.Store.Comments(ctx, c.ctx.ProjectID)
		if err != nil {
			c.ctx.fail("failed to load comments", err)
		}
		return CommentAddedMsg{Comment: comment, Comments: comments, Err: err}
	}
}
