package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title         lipgloss.Style
	Dim           lipgloss.Style
	Status        lipgloss.Style
	Prompt        lipgloss.Style
	Help          lipgloss.Style
	Main          lipgloss.Style
	Scroll        lipgloss.Style
	InfoBox       lipgloss.Style
	Token         lipgloss.Style
	Cursor        lipgloss.Style
	Selected      lipgloss.Style
	SelectedEdge  lipgloss.Style
	SplitTarget   lipgloss.Style
	Index         lipgloss.Style
	CommentMark   lipgloss.Style
	GateOn        lipgloss.Style
	GateOff       lipgloss.Style
	StatusError   lipgloss.Style
	StatusSuccess lipgloss.Style
	Watching      lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim: lipgloss.NewStyle().Faint(true),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Prompt: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		Help:   lipgloss.NewStyle().Faint(true),
		Main: lipgloss.NewStyle().
			Padding(1, 2),
		Scroll: lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		InfoBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(1).
			BorderForeground(lipgloss.Color("241")),
		Token:         lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		Cursor:        lipgloss.NewStyle().Reverse(true),
		Selected:      lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255")),
		SelectedEdge:  lipgloss.NewStyle().Background(lipgloss.Color("31")).Foreground(lipgloss.Color("255")).Bold(true),
		SplitTarget:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Underline(true),
		Index:         lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		CommentMark:   lipgloss.NewStyle().Foreground(lipgloss.Color("220")),
		GateOn:        lipgloss.NewStyle().Foreground(lipgloss.Color("78")).Bold(true), // green
		GateOff:       lipgloss.NewStyle().Foreground(lipgloss.Color("241")),          // gray
		StatusError:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),          // red
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("78")),           // green
		Watching:      lipgloss.NewStyle().Foreground(lipgloss.Color("51")),           // cyan
	}
}
