package branches_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/landed/internal/branches"
)

func toBranches(testInstance *testing.T, lines []string) []branches.Branch {
	parsedBranches := make([]branches.Branch, 0, len(lines))
	for _, line := range lines {
		branch, parsed := branches.ParseLocalBranchLine(line)
		require.True(testInstance, parsed)
		parsedBranches = append(parsedBranches, branch)
	}
	return parsedBranches
}

func toLandedBranches(lines []string) []branches.Branch {
	landedBranches := make([]branches.Branch, 0, len(lines))
	for _, line := range lines {
		record, parsed := branches.ParsePullRequestLine(line)
		if !parsed || record.IsOpen() {
			continue
		}
		landedBranches = append(landedBranches, record.Branch())
	}
	return landedBranches
}

func TestServiceRunReportsLandedBranches(testInstance *testing.T) {
	testCases := []struct {
		name            string
		localLines      []string
		forgeLines      []string
		expectedOutput  string
		expectedNotices []string
	}{
		{
			name:            "merged_feature_is_reported",
			localLines:      []string{"main abc123", "feature def456"},
			forgeLines:      []string{"merged 1 feature def456", "open 2 other xyz789"},
			expectedOutput:  "feature\n",
			expectedNotices: []string{"Can't find main (abc123)"},
		},
		{
			name:           "commit_collision_still_matches",
			localLines:     []string{"x hash1"},
			forgeLines:     []string{"closed 1 a hash1", "merged 2 b hash1"},
			expectedOutput: "x\n",
		},
		{
			name:           "empty_local_list",
			localLines:     nil,
			forgeLines:     []string{"merged 1 feature def456"},
			expectedOutput: "",
		},
		{
			name:            "open_pull_request_never_matches",
			localLines:      []string{"wip xyz789"},
			forgeLines:      []string{"open 2 wip xyz789"},
			expectedOutput:  "",
			expectedNotices: []string{"Can't find wip (xyz789)"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			diagnostics := &recordingDiagnosticSink{}

			service, creationError := branches.NewService(branches.ServiceDependencies{
				LocalSource:       &stubLocalSource{branches: toBranches(testInstance, testCase.localLines)},
				PullRequestSource: &stubPullRequestSource{branches: toLandedBranches(testCase.forgeLines)},
				Diagnostics:       diagnostics,
				Output:            outputBuffer,
			})
			require.NoError(testInstance, creationError)

			runError := service.Run(context.Background(), branches.Options{PullRequestLimit: 20})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
			require.Equal(testInstance, testCase.expectedNotices, diagnostics.messages(diagnosticKindNotice))
		})
	}
}

func TestServiceRunLogsCollectionSummary(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)

	service, creationError := branches.NewService(branches.ServiceDependencies{
		Logger:            zap.New(observerCore),
		LocalSource:       &stubLocalSource{branches: []branches.Branch{{Name: "feature", CommitIdentity: "def456"}}},
		PullRequestSource: &stubPullRequestSource{branches: []branches.Branch{{Name: "feature", CommitIdentity: "def456"}}},
		Output:            &bytes.Buffer{},
	})
	require.NoError(testInstance, creationError)

	require.NoError(testInstance, service.Run(context.Background(), branches.Options{WorkingDirectory: testRepositoryPathConstant}))

	collectedEntries := observedLogs.FilterMessage("Collected branches").All()
	require.Len(testInstance, collectedEntries, 1)
	fields := collectedEntries[0].ContextMap()
	require.Equal(testInstance, testRepositoryPathConstant, fields["working_directory"])
	require.EqualValues(testInstance, 1, fields["local_branches"])
	require.EqualValues(testInstance, 1, fields["landed_branches"])

	reportedEntries := observedLogs.FilterMessage("Reported landed branches").All()
	require.Len(testInstance, reportedEntries, 1)
	require.EqualValues(testInstance, 1, reportedEntries[0].ContextMap()["matched_branches"])
}

func TestServiceRunPropagatesCollectionFailure(testInstance *testing.T) {
	collectionFailure := errors.New("hub could not be executed")
	outputBuffer := &bytes.Buffer{}

	service, creationError := branches.NewService(branches.ServiceDependencies{
		LocalSource:       &stubLocalSource{branches: []branches.Branch{{Name: "main", CommitIdentity: "abc123"}}},
		PullRequestSource: &stubPullRequestSource{err: collectionFailure},
		Output:            outputBuffer,
	})
	require.NoError(testInstance, creationError)

	runError := service.Run(context.Background(), branches.Options{})
	require.ErrorIs(testInstance, runError, collectionFailure)
	require.Empty(testInstance, outputBuffer.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestReporterSurfacesWriteFailure(testInstance *testing.T) {
	reporter, creationError := branches.NewReporter(failingWriter{}, nil)
	require.NoError(testInstance, creationError)

	reportError := reporter.Report([]branches.MatchResult{{Local: branches.Branch{Name: "feature", CommitIdentity: "def456"}, Found: true}})
	require.Error(testInstance, reportError)
	require.Contains(testInstance, reportError.Error(), "feature")
}

func TestNewServiceValidation(testInstance *testing.T) {
	_, creationError := branches.NewService(branches.ServiceDependencies{
		LocalSource:       &stubLocalSource{},
		PullRequestSource: &stubPullRequestSource{},
	})
	require.ErrorIs(testInstance, creationError, branches.ErrOutputNotConfigured)
}
