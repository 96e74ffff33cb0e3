package branches_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/landed/internal/branches"
)

func TestParseLocalBranchLine(testInstance *testing.T) {
	testCases := []struct {
		name           string
		line           string
		expectedBranch branches.Branch
		expectParsed   bool
	}{
		{
			name:           "two_tokens",
			line:           "main abc123",
			expectedBranch: branches.Branch{Name: "main", CommitIdentity: "abc123"},
			expectParsed:   true,
		},
		{
			name:           "slashes_in_name",
			line:           "feature/login 0f1e2d3c",
			expectedBranch: branches.Branch{Name: "feature/login", CommitIdentity: "0f1e2d3c"},
			expectParsed:   true,
		},
		{name: "empty_line", line: ""},
		{name: "single_token", line: "main"},
		{name: "three_tokens", line: "main abc123 extra"},
		{name: "double_separator", line: "main  abc123"},
		{name: "tab_separator", line: "main\tabc123"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			branch, parsed := branches.ParseLocalBranchLine(testCase.line)
			require.Equal(testInstance, testCase.expectParsed, parsed)
			require.Equal(testInstance, testCase.expectedBranch, branch)
		})
	}
}

func TestLocalBranchLineRoundTrip(testInstance *testing.T) {
	fixtures := []branches.Branch{
		{Name: "main", CommitIdentity: "abc123"},
		{Name: "release/1.2", CommitIdentity: "4b825dc642cb6eb9a060e54bf8d69288fbee4904"},
		{Name: "x", CommitIdentity: "hash1"},
	}

	for _, fixture := range fixtures {
		parsedBranch, parsed := branches.ParseLocalBranchLine(fixture.FormatLocalLine())
		require.True(testInstance, parsed)
		require.Equal(testInstance, fixture, parsedBranch)
	}
}

func TestParsePullRequestLine(testInstance *testing.T) {
	testCases := []struct {
		name           string
		line           string
		expectedRecord branches.PullRequestRecord
		expectParsed   bool
	}{
		{
			name: "four_tokens",
			line: "merged 1 feature def456",
			expectedRecord: branches.PullRequestRecord{
				State:          "merged",
				Identifier:     "1",
				BranchName:     "feature",
				CommitIdentity: "def456",
			},
			expectParsed: true,
		},
		{name: "three_tokens", line: "merged 1 feature"},
		{name: "five_tokens", line: "merged 1 feature def456 extra"},
		{name: "empty_line", line: ""},
		{name: "trailing_space", line: "merged 1 feature def456 "},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			record, parsed := branches.ParsePullRequestLine(testCase.line)
			require.Equal(testInstance, testCase.expectParsed, parsed)
			require.Equal(testInstance, testCase.expectedRecord, record)
		})
	}
}

func TestPullRequestRecordIsOpen(testInstance *testing.T) {
	testCases := []struct {
		state        string
		expectedOpen bool
	}{
		{state: "open", expectedOpen: true},
		{state: "merged", expectedOpen: false},
		{state: "closed", expectedOpen: false},
		{state: "OPEN", expectedOpen: false},
		{state: "draft", expectedOpen: false},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.state, func(testInstance *testing.T) {
			record := branches.PullRequestRecord{State: testCase.state, Identifier: "9", BranchName: "topic", CommitIdentity: "c0ffee"}
			require.Equal(testInstance, testCase.expectedOpen, record.IsOpen())
			require.Equal(testInstance, branches.Branch{Name: "topic", CommitIdentity: "c0ffee"}, record.Branch())
		})
	}
}
