package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// HelpRenderer handles help content rendering
type HelpRenderer struct {
	keys keyMap
}

// NewHelpRenderer creates a new help renderer
func NewHelpRenderer(keys keyMap) *HelpRenderer {
	return &HelpRenderer{keys: keys}
}

var helpSections = []string{"Navigation", "Selection", "Editing", "Other"}

// RenderHelpContent generates help content with colors for the pager
func (r *HelpRenderer) RenderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99"))

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder
	help.WriteString(titleStyle.Render("openphil Help"))
	help.WriteString("\n")

	for i, group := range r.keys.FullHelp() {
		help.WriteString("\n")
		help.WriteString(sectionStyle.Render(helpSections[i]))
		help.WriteString("\n")
		for _, b := range group {
			help.WriteString(fmt.Sprintf("  %s  %s\n", keyStyle.Render(padKeys(b)), descStyle.Render(b.Help().Desc)))
		}
	}

	help.WriteString("\n")
	note := lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241"))
	help.WriteString(note.Render("  Selections are contiguous: click a neighbour to grow, an end to shrink."))
	return help.String()
}

func padKeys(b key.Binding) string {
	return fmt.Sprintf("%-10s", b.Help().Key)
}
