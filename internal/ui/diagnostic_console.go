package ui

import (
	"io"

	"go.uber.org/zap"
)

// DiagnosticConsole writes styled verbose messages through a console logger.
type DiagnosticConsole struct {
	logger *zap.Logger
	styles ConsoleStyles
}

// NewDiagnosticConsole constructs a console backed by logger, styled for writer.
// A nil logger discards everything.
func NewDiagnosticConsole(logger *zap.Logger, writer io.Writer) *DiagnosticConsole {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DiagnosticConsole{logger: logger, styles: NewConsoleStyles(writer)}
}

// Progress reports a step that has started.
func (console *DiagnosticConsole) Progress(message string) {
	console.logger.Info(console.styles.Progress.Render(message))
}

// Completed reports a step that has finished.
func (console *DiagnosticConsole) Completed(message string) {
	console.logger.Info(console.styles.Completed.Render(message))
}

// Notice reports an informational outcome, such as a branch without a match.
func (console *DiagnosticConsole) Notice(message string) {
	console.logger.Info(console.styles.Notice.Render(message))
}
