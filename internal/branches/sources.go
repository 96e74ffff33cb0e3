package branches

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/landed/internal/execshell"
	"github.com/temirov/landed/internal/githubcli"
)

const (
	gitBranchSubcommandConstant             = "branch"
	gitFormatFlagConstant                   = "--format"
	gitLocalBranchFormatConstant            = "%(refname:short) %(objectname)"
	gitOutputReadErrorTemplateConstant      = "unable to read git branch output: %w"
	forgeListErrorTemplateConstant          = "unable to list pull requests: %w"
	localListErrorTemplateConstant          = "unable to list local branches: %w"
	gitExecutorMissingMessageConstant       = "git executor not configured"
	pullRequestListerMissingMessageConstant = "pull request lister not configured"
)

var (
	// ErrGitExecutorNotConfigured indicates a local branch source was built without a git executor.
	ErrGitExecutorNotConfigured = errors.New(gitExecutorMissingMessageConstant)
	// ErrPullRequestListerNotConfigured indicates a pull request source was built without a lister.
	ErrPullRequestListerNotConfigured = errors.New(pullRequestListerMissingMessageConstant)
)

// GitCommandExecutor runs git.
type GitCommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// PullRequestLister returns raw pull request lines from the forge.
type PullRequestLister interface {
	ListPullRequestLines(executionContext context.Context, options githubcli.PullRequestListOptions) ([]string, error)
}

// LocalBranchSource yields the local branches of a repository in listing order.
type LocalBranchSource interface {
	ListLocalBranches(executionContext context.Context, workingDirectory string) ([]Branch, error)
}

// PullRequestQuery narrows the pull request listing.
type PullRequestQuery struct {
	WorkingDirectory string
	Limit            int
}

// PullRequestBranchSource yields head branches of pull requests that are no longer open.
type PullRequestBranchSource interface {
	ListLandedBranches(executionContext context.Context, query PullRequestQuery) ([]Branch, error)
}

// GitLocalBranchSource lists local branches with git branch --format.
type GitLocalBranchSource struct {
	executor GitCommandExecutor
}

// NewGitLocalBranchSource constructs a git-backed local branch source.
func NewGitLocalBranchSource(executor GitCommandExecutor) (*GitLocalBranchSource, error) {
	if executor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	return &GitLocalBranchSource{executor: executor}, nil
}

// ListLocalBranches runs git and parses each output line, skipping malformed ones.
// If git exits non-zero, the branches it printed are returned with the wrapped error.
func (source *GitLocalBranchSource) ListLocalBranches(executionContext context.Context, workingDirectory string) ([]Branch, error) {
	executionResult, executionError := source.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitBranchSubcommandConstant, gitFormatFlagConstant, gitLocalBranchFormatConstant},
		WorkingDirectory: workingDirectory,
	})
	if executionError != nil {
		wrappedError := fmt.Errorf(localListErrorTemplateConstant, executionError)
		if !isCommandFailure(executionError) {
			return nil, wrappedError
		}
		partialBranches, _ := parseLocalBranches(executionResult.StandardOutput)
		return partialBranches, wrappedError
	}

	return parseLocalBranches(executionResult.StandardOutput)
}

func parseLocalBranches(output string) ([]Branch, error) {
	localBranches := make([]Branch, 0)
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		branch, parsed := ParseLocalBranchLine(scanner.Text())
		if !parsed {
			continue
		}
		localBranches = append(localBranches, branch)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(gitOutputReadErrorTemplateConstant, scanError)
	}

	return localBranches, nil
}

// ForgePullRequestSource lists pull requests in every state and keeps the ones that are not open.
type ForgePullRequestSource struct {
	lister PullRequestLister
}

// NewForgePullRequestSource constructs a forge-backed pull request source.
func NewForgePullRequestSource(lister PullRequestLister) (*ForgePullRequestSource, error) {
	if lister == nil {
		return nil, ErrPullRequestListerNotConfigured
	}
	return &ForgePullRequestSource{lister: lister}, nil
}

// ListLandedBranches returns head branches of non-open pull requests in forge order.
// If the forge tool exits non-zero, the branches it printed are returned with the wrapped error.
func (source *ForgePullRequestSource) ListLandedBranches(executionContext context.Context, query PullRequestQuery) ([]Branch, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = githubcli.DefaultPullRequestLimit
	}

	lines, listError := source.lister.ListPullRequestLines(executionContext, githubcli.PullRequestListOptions{
		State:            githubcli.PullRequestStateAll,
		ResultLimit:      limit,
		WorkingDirectory: query.WorkingDirectory,
	})
	if listError != nil {
		wrappedError := fmt.Errorf(forgeListErrorTemplateConstant, listError)
		if !isCommandFailure(listError) {
			return nil, wrappedError
		}
		return landedBranchesFromLines(lines), wrappedError
	}

	return landedBranchesFromLines(lines), nil
}

func landedBranchesFromLines(lines []string) []Branch {
	landedBranches := make([]Branch, 0, len(lines))
	for _, line := range lines {
		record, parsed := ParsePullRequestLine(line)
		if !parsed || record.IsOpen() {
			continue
		}
		landedBranches = append(landedBranches, record.Branch())
	}
	return landedBranches
}

// isCommandFailure reports whether err comes from a tool that ran but exited with a non-zero code.
func isCommandFailure(err error) bool {
	var failedError execshell.CommandFailedError
	return errors.As(err, &failedError)
}
