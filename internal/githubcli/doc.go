// Package githubcli wraps the forge command-line tools used to list pull requests.
//
// It builds gh and hub invocations that print one pull request per line, runs
// them through execshell, and surfaces typed errors so callers can tell input
// problems from execution failures.
package githubcli
