// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec behind CommandRunner, exposes OSCommandRunner for default
// process execution, and offers ShellExecutor so that git, gh, and hub can be
// run with lifecycle logging and replaced by fakes during testing.
package execshell
