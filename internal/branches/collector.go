package branches

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/temirov/landed/internal/execshell"
)

const (
	localCollectionStartedMessageConstant   = "> Collecting local branches from git..."
	localCollectionCompletedMessageConstant = "> Done collecting local branches from git!"
	forgeCollectionStartedMessageConstant   = "> Collecting remote branches from GitHub..."
	forgeCollectionCompletedMessageConstant = "> Done collecting remote branches from GitHub!"
	commandExitNoticeTemplateConstant       = "%s exited with code %d"
	commandExitWithOutputTemplateConstant   = "%s exited with code %d: %s"
)

// DiagnosticSink receives the human-readable messages shown in verbose mode.
type DiagnosticSink interface {
	Progress(message string)
	Completed(message string)
	Notice(message string)
}

// NopDiagnosticSink discards every message.
type NopDiagnosticSink struct{}

// Progress discards the message.
func (NopDiagnosticSink) Progress(string) {}

// Completed discards the message.
func (NopDiagnosticSink) Completed(string) {}

// Notice discards the message.
func (NopDiagnosticSink) Notice(string) {}

// CollectionRequest parameterizes one concurrent collection.
type CollectionRequest struct {
	WorkingDirectory string
	PullRequestLimit int
	// Timeout bounds both collections together; zero disables it.
	Timeout time.Duration
}

// Collection holds the fully drained output of both sources.
type Collection struct {
	LocalBranches  []Branch
	LandedBranches []Branch
}

// Collector gathers local and landed branches concurrently.
type Collector struct {
	localSource       LocalBranchSource
	pullRequestSource PullRequestBranchSource
	diagnostics       DiagnosticSink
}

// NewCollector wires the two sources. A nil sink discards progress messages.
func NewCollector(localSource LocalBranchSource, pullRequestSource PullRequestBranchSource, diagnostics DiagnosticSink) (*Collector, error) {
	if localSource == nil {
		return nil, ErrLocalSourceNotConfigured
	}
	if pullRequestSource == nil {
		return nil, ErrPullRequestSourceNotConfigured
	}
	if diagnostics == nil {
		diagnostics = NopDiagnosticSink{}
	}
	return &Collector{localSource: localSource, pullRequestSource: pullRequestSource, diagnostics: diagnostics}, nil
}

// Collect runs both sources in parallel and returns once both have finished.
// A tool that ran but exited non-zero still completes its collection with whatever it
// printed, and its standard error becomes a notice. Any other failure cancels the other
// source and is returned.
func (collector *Collector) Collect(executionContext context.Context, request CollectionRequest) (Collection, error) {
	if executionContext == nil {
		executionContext = context.Background()
	}
	if request.Timeout > 0 {
		var cancel context.CancelFunc
		executionContext, cancel = context.WithTimeout(executionContext, request.Timeout)
		defer cancel()
	}

	group, groupContext := errgroup.WithContext(executionContext)

	var localBranches []Branch
	group.Go(func() error {
		collector.diagnostics.Progress(localCollectionStartedMessageConstant)
		branches, listError := collector.localSource.ListLocalBranches(groupContext, request.WorkingDirectory)
		if listError != nil && !collector.noticeCommandFailure(listError) {
			return listError
		}
		localBranches = branches
		collector.diagnostics.Completed(localCollectionCompletedMessageConstant)
		return nil
	})

	var landedBranches []Branch
	group.Go(func() error {
		collector.diagnostics.Progress(forgeCollectionStartedMessageConstant)
		branches, listError := collector.pullRequestSource.ListLandedBranches(groupContext, PullRequestQuery{
			WorkingDirectory: request.WorkingDirectory,
			Limit:            request.PullRequestLimit,
		})
		if listError != nil && !collector.noticeCommandFailure(listError) {
			return listError
		}
		landedBranches = branches
		collector.diagnostics.Completed(forgeCollectionCompletedMessageConstant)
		return nil
	})

	if waitError := group.Wait(); waitError != nil {
		return Collection{}, waitError
	}

	return Collection{LocalBranches: localBranches, LandedBranches: landedBranches}, nil
}

func (collector *Collector) noticeCommandFailure(listError error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(listError, &failedError) {
		return false
	}

	standardError := strings.TrimSpace(failedError.Result.StandardError)
	if len(standardError) == 0 {
		collector.diagnostics.Notice(fmt.Sprintf(commandExitNoticeTemplateConstant, failedError.Command.Name, failedError.Result.ExitCode))
		return true
	}
	collector.diagnostics.Notice(fmt.Sprintf(commandExitWithOutputTemplateConstant, failedError.Command.Name, failedError.Result.ExitCode, standardError))
	return true
}
