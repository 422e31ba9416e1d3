package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventProjectImported   EventType = "ProjectImported"
	EventTokensReloaded    EventType = "TokensReloaded"
	EventTokenSplit        EventType = "TokenSplit"
	EventCommentAdded      EventType = "CommentAdded"
	EventError             EventType = "Error"
	EventScanStarted       EventType = "ScanStarted"
	EventWitnessDiscovered EventType = "WitnessDiscovered"
	EventScanCompleted     EventType = "ScanCompleted"
	EventConfigLoaded      EventType = "ConfigLoaded"
	EventConfigSaved       EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// ProjectImportedEvent is emitted when a witness has been tokenized into a new project
type ProjectImportedEvent struct {
	Project ProjectSummary
	Source  string
}

func (e ProjectImportedEvent) Type() EventType { return EventProjectImported }

// TokensReloadedEvent is emitted when a project's token sequence was replaced
type TokensReloadedEvent struct {
	ProjectID string
	Tokens    []Token
}

func (e TokensReloadedEvent) Type() EventType { return EventTokensReloaded }

// TokenSplitEvent is emitted after a token was split in two
type TokenSplitEvent struct {
	ProjectID string
	Left      Token
	Right     Token
}

func (e TokenSplitEvent) Type() EventType { return EventTokenSplit }

// CommentAddedEvent is emitted after a comment was stored
type CommentAddedEvent struct {
	Comment Comment
}

func (e CommentAddedEvent) Type() EventType { return EventCommentAdded }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ScanStartedEvent is emitted when witness discovery begins
type ScanStartedEvent struct {
	Paths []string
}

func (e ScanStartedEvent) Type() EventType { return EventScanStarted }

// WitnessDiscoveredEvent is emitted for every witness file found during a scan
type WitnessDiscoveredEvent struct {
	Path string
}

func (e WitnessDiscoveredEvent) Type() EventType { return EventWitnessDiscovered }

// ScanCompletedEvent is emitted when witness discovery completes
type ScanCompletedEvent struct {
	WitnessesFound int
}

func (e ScanCompletedEvent) Type() EventType { return EventScanCompleted }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Path     string
	Database string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct {
	Path string
}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
