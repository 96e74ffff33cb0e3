package ui

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// ColorSuccess marks finished steps.
var ColorSuccess = lipgloss.Color("#10B981")

// ConsoleStyles holds the styles used for verbose console messages.
type ConsoleStyles struct {
	Progress  lipgloss.Style
	Completed lipgloss.Style
	Notice    lipgloss.Style
}

// NewConsoleStyles builds styles whose color support matches writer.
// Writers that are not terminals get plain text.
func NewConsoleStyles(writer io.Writer) ConsoleStyles {
	renderer := lipgloss.DefaultRenderer()
	if writer != nil {
		renderer = lipgloss.NewRenderer(writer)
	}

	return ConsoleStyles{
		Progress:  renderer.NewStyle().Faint(true),
		Completed: renderer.NewStyle().Faint(true).Foreground(ColorSuccess),
		Notice:    renderer.NewStyle().Faint(true),
	}
}
