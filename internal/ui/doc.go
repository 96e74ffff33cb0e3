// Package ui renders the human-readable messages shown in verbose mode.
//
// DiagnosticConsole styles progress and notice messages with lipgloss and
// writes them through a message-only zap logger, so the same console stays
// silent when built on a no-op logger.
package ui
