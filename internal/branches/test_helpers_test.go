package branches_test

import (
	"context"
	"sync"

	"github.com/temirov/landed/internal/branches"
	"github.com/temirov/landed/internal/execshell"
)

type diagnosticKind string

const (
	diagnosticKindProgress  = diagnosticKind("progress")
	diagnosticKindCompleted = diagnosticKind("completed")
	diagnosticKindNotice    = diagnosticKind("notice")
)

type recordedDiagnostic struct {
	kind    diagnosticKind
	message string
}

type recordingDiagnosticSink struct {
	mutex   sync.Mutex
	entries []recordedDiagnostic
}

func (sink *recordingDiagnosticSink) Progress(message string) {
	sink.record(diagnosticKindProgress, message)
}

func (sink *recordingDiagnosticSink) Completed(message string) {
	sink.record(diagnosticKindCompleted, message)
}

func (sink *recordingDiagnosticSink) Notice(message string) {
	sink.record(diagnosticKindNotice, message)
}

func (sink *recordingDiagnosticSink) record(kind diagnosticKind, message string) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	sink.entries = append(sink.entries, recordedDiagnostic{kind: kind, message: message})
}

func (sink *recordingDiagnosticSink) messages(kind diagnosticKind) []string {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()
	var messages []string
	for _, entry := range sink.entries {
		if entry.kind == kind {
			messages = append(messages, entry.message)
		}
	}
	return messages
}

type stubLocalSource struct {
	branches []branches.Branch
	err      error
	block    func(context.Context) error
}

func (source *stubLocalSource) ListLocalBranches(executionContext context.Context, _ string) ([]branches.Branch, error) {
	if source.block != nil {
		if blockError := source.block(executionContext); blockError != nil {
			return nil, blockError
		}
	}
	return source.branches, source.err
}

type stubPullRequestSource struct {
	branches      []branches.Branch
	err           error
	block         func(context.Context) error
	receivedQuery branches.PullRequestQuery
}

func (source *stubPullRequestSource) ListLandedBranches(executionContext context.Context, query branches.PullRequestQuery) ([]branches.Branch, error) {
	source.receivedQuery = query
	if source.block != nil {
		if blockError := source.block(executionContext); blockError != nil {
			return nil, blockError
		}
	}
	return source.branches, source.err
}

type recordedInvocation struct {
	tool    execshell.CommandName
	details execshell.CommandDetails
}

type stubToolResponse struct {
	result execshell.ExecutionResult
	err    error
}

// fakeCommandExecutor answers git, gh and hub invocations with canned responses keyed by tool.
type fakeCommandExecutor struct {
	mutex       sync.Mutex
	responses   map[execshell.CommandName]stubToolResponse
	invocations []recordedInvocation
}

func newFakeCommandExecutor() *fakeCommandExecutor {
	return &fakeCommandExecutor{responses: map[execshell.CommandName]stubToolResponse{}}
}

func (executor *fakeCommandExecutor) respond(tool execshell.CommandName, standardOutput string) {
	executor.responses[tool] = stubToolResponse{result: execshell.ExecutionResult{StandardOutput: standardOutput}}
}

func (executor *fakeCommandExecutor) fail(tool execshell.CommandName, failure error) {
	executor.responses[tool] = stubToolResponse{err: failure}
}

// exit mimics a tool that ran and printed output but exited with a non-zero code.
func (executor *fakeCommandExecutor) exit(tool execshell.CommandName, standardOutput string, standardError string, exitCode int) {
	result := execshell.ExecutionResult{StandardOutput: standardOutput, StandardError: standardError, ExitCode: exitCode}
	executor.responses[tool] = stubToolResponse{
		result: result,
		err:    execshell.CommandFailedError{Command: execshell.ShellCommand{Name: tool}, Result: result},
	}
}

func (executor *fakeCommandExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.execute(execshell.CommandGit, details)
}

func (executor *fakeCommandExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.execute(execshell.CommandGitHub, details)
}

func (executor *fakeCommandExecutor) ExecuteHub(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.execute(execshell.CommandHub, details)
}

func (executor *fakeCommandExecutor) execute(tool execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	executor.invocations = append(executor.invocations, recordedInvocation{tool: tool, details: details})
	response := executor.responses[tool]
	return response.result, response.err
}

func (executor *fakeCommandExecutor) invocationFor(tool execshell.CommandName) (recordedInvocation, bool) {
	executor.mutex.Lock()
	defer executor.mutex.Unlock()
	for _, invocation := range executor.invocations {
		if invocation.tool == tool {
			return invocation, true
		}
	}
	return recordedInvocation{}, false
}
