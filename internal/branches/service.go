package branches

import (
	"context"
	"errors"
	"io"
	"time"

	"go.uber.org/zap"
)

const (
	localSourceMissingMessageConstant       = "local branch source not configured"
	pullRequestSourceMissingMessageConstant = "pull request branch source not configured"
	outputMissingMessageConstant            = "report output not configured"
	collectionCompletedLogMessageConstant   = "Collected branches"
	reportCompletedLogMessageConstant       = "Reported landed branches"
	collectionFailedLogMessageConstant      = "Branch collection failed"
	logFieldWorkingDirectoryConstant        = "working_directory"
	logFieldLocalCountConstant              = "local_branches"
	logFieldLandedCountConstant             = "landed_branches"
	logFieldIndexedCommitsConstant          = "indexed_commits"
	logFieldMatchedCountConstant            = "matched_branches"
)

var (
	// ErrLocalSourceNotConfigured indicates a missing LocalBranchSource.
	ErrLocalSourceNotConfigured = errors.New(localSourceMissingMessageConstant)
	// ErrPullRequestSourceNotConfigured indicates a missing PullRequestBranchSource.
	ErrPullRequestSourceNotConfigured = errors.New(pullRequestSourceMissingMessageConstant)
	// ErrOutputNotConfigured indicates a missing report writer.
	ErrOutputNotConfigured = errors.New(outputMissingMessageConstant)
)

// Options configures a single run.
type Options struct {
	WorkingDirectory string
	PullRequestLimit int
	Timeout          time.Duration
}

// ServiceDependencies enumerates collaborators required by Service.
type ServiceDependencies struct {
	Logger            *zap.Logger
	LocalSource       LocalBranchSource
	PullRequestSource PullRequestBranchSource
	Diagnostics       DiagnosticSink
	Output            io.Writer
}

// Service collects both branch lists, matches them by commit and reports the landed local branches.
type Service struct {
	logger    *zap.Logger
	collector *Collector
	reporter  *Reporter
}

// NewService validates dependencies and constructs a Service.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	collector, collectorError := NewCollector(dependencies.LocalSource, dependencies.PullRequestSource, dependencies.Diagnostics)
	if collectorError != nil {
		return nil, collectorError
	}

	reporter, reporterError := NewReporter(dependencies.Output, dependencies.Diagnostics)
	if reporterError != nil {
		return nil, reporterError
	}

	return &Service{logger: logger, collector: collector, reporter: reporter}, nil
}

// Run performs one collection, match and report cycle.
func (service *Service) Run(executionContext context.Context, options Options) error {
	collection, collectionError := service.collector.Collect(executionContext, CollectionRequest{
		WorkingDirectory: options.WorkingDirectory,
		PullRequestLimit: options.PullRequestLimit,
		Timeout:          options.Timeout,
	})
	if collectionError != nil {
		service.logger.Debug(collectionFailedLogMessageConstant,
			zap.String(logFieldWorkingDirectoryConstant, options.WorkingDirectory),
			zap.Error(collectionError),
		)
		return collectionError
	}

	index := BuildMatchIndex(collection.LandedBranches)
	service.logger.Debug(collectionCompletedLogMessageConstant,
		zap.String(logFieldWorkingDirectoryConstant, options.WorkingDirectory),
		zap.Int(logFieldLocalCountConstant, len(collection.LocalBranches)),
		zap.Int(logFieldLandedCountConstant, len(collection.LandedBranches)),
		zap.Int(logFieldIndexedCommitsConstant, index.Len()),
	)

	results := index.MatchAll(collection.LocalBranches)
	if reportError := service.reporter.Report(results); reportError != nil {
		return reportError
	}

	matchedCount := 0
	for _, result := range results {
		if result.Found {
			matchedCount++
		}
	}
	service.logger.Debug(reportCompletedLogMessageConstant, zap.Int(logFieldMatchedCountConstant, matchedCount))

	return nil
}
