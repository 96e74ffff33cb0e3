package githubcli_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/landed/internal/execshell"
	"github.com/temirov/landed/internal/githubcli"
)

const (
	testWorkingDirectoryConstant            = "/tmp/repository"
	testListGitHubCaseNameConstant          = "github_cli_lists_all_states"
	testListHubCaseNameConstant             = "hub_lists_all_states"
	testListCommandFailureCaseNameConstant  = "list_command_failure"
	testListStateValidationCaseNameConstant = "list_state_validation"
	testListLimitValidationCaseNameConstant = "list_limit_validation"
)

type stubForgeExecutor struct {
	result          execshell.ExecutionResult
	executionError  error
	recordedTools   []execshell.CommandName
	recordedDetails []execshell.CommandDetails
}

func (executor *stubForgeExecutor) ExecuteGitHubCLI(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.record(execshell.CommandGitHub, details)
}

func (executor *stubForgeExecutor) ExecuteHub(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	return executor.record(execshell.CommandHub, details)
}

func (executor *stubForgeExecutor) record(tool execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedTools = append(executor.recordedTools, tool)
	executor.recordedDetails = append(executor.recordedDetails, details)
	return executor.result, executor.executionError
}

func TestNewClientValidation(testInstance *testing.T) {
	testInstance.Run("nil_executor", func(testInstance *testing.T) {
		client, creationError := githubcli.NewClient(nil, githubcli.ProviderGitHubCLI)
		require.ErrorIs(testInstance, creationError, githubcli.ErrExecutorNotConfigured)
		require.Nil(testInstance, client)
	})

	testInstance.Run("unknown_provider", func(testInstance *testing.T) {
		client, creationError := githubcli.NewClient(&stubForgeExecutor{}, githubcli.Provider("gitlab"))
		require.Error(testInstance, creationError)
		require.IsType(testInstance, githubcli.InvalidInputError{}, creationError)
		require.Nil(testInstance, client)
	})

	testInstance.Run("empty_provider_defaults_to_gh", func(testInstance *testing.T) {
		client, creationError := githubcli.NewClient(&stubForgeExecutor{}, githubcli.Provider(""))
		require.NoError(testInstance, creationError)
		require.Equal(testInstance, githubcli.ProviderGitHubCLI, client.Provider())
	})
}

func TestParseProvider(testInstance *testing.T) {
	provider, parseError := githubcli.ParseProvider("  HUB ")
	require.NoError(testInstance, parseError)
	require.Equal(testInstance, githubcli.ProviderHub, provider)

	_, parseError = githubcli.ParseProvider("svn")
	require.Error(testInstance, parseError)
}

func TestListPullRequestLines(testInstance *testing.T) {
	testCases := []struct {
		name              string
		provider          githubcli.Provider
		options           githubcli.PullRequestListOptions
		executor          *stubForgeExecutor
		expectedTool      execshell.CommandName
		expectedArguments []string
		expectedLines     []string
		expectErrorType   any
	}{
		{
			name:     testListGitHubCaseNameConstant,
			provider: githubcli.ProviderGitHubCLI,
			options: githubcli.PullRequestListOptions{
				State:            githubcli.PullRequestStateAll,
				ResultLimit:      githubcli.DefaultPullRequestLimit,
				WorkingDirectory: testWorkingDirectoryConstant,
			},
			executor:     &stubForgeExecutor{result: execshell.ExecutionResult{StandardOutput: "merged 1 feature def456\nopen 2 other xyz789\n"}},
			expectedTool: execshell.CommandGitHub,
			expectedArguments: []string{
				"pr", "list",
				"--state", "all",
				"--limit", "20",
				"--json", "state,number,headRefName,headRefOid",
				"--jq", `.[] | "\(.state | ascii_downcase) \(.number) \(.headRefName) \(.headRefOid)"`,
			},
			expectedLines: []string{"merged 1 feature def456", "open 2 other xyz789"},
		},
		{
			name:     testListHubCaseNameConstant,
			provider: githubcli.ProviderHub,
			options: githubcli.PullRequestListOptions{
				State:       githubcli.PullRequestStateAll,
				ResultLimit: 5,
			},
			executor:          &stubForgeExecutor{result: execshell.ExecutionResult{StandardOutput: "closed 7 fix abc\r\n"}},
			expectedTool:      execshell.CommandHub,
			expectedArguments: []string{"pr", "list", "-s", "all", "-f", "%S %i %H %sH%n", "--limit", "5"},
			expectedLines:     []string{"closed 7 fix abc"},
		},
		{
			name:     testListCommandFailureCaseNameConstant,
			provider: githubcli.ProviderGitHubCLI,
			options: githubcli.PullRequestListOptions{
				State:       githubcli.PullRequestStateAll,
				ResultLimit: 20,
			},
			executor:        &stubForgeExecutor{executionError: errors.New("gh: not found")},
			expectedTool:    execshell.CommandGitHub,
			expectErrorType: githubcli.OperationError{},
		},
		{
			name:            testListStateValidationCaseNameConstant,
			provider:        githubcli.ProviderGitHubCLI,
			options:         githubcli.PullRequestListOptions{ResultLimit: 20},
			executor:        &stubForgeExecutor{},
			expectErrorType: githubcli.InvalidInputError{},
		},
		{
			name:            testListLimitValidationCaseNameConstant,
			provider:        githubcli.ProviderHub,
			options:         githubcli.PullRequestListOptions{State: githubcli.PullRequestStateAll},
			executor:        &stubForgeExecutor{},
			expectErrorType: githubcli.InvalidInputError{},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			client, creationError := githubcli.NewClient(testCase.executor, testCase.provider)
			require.NoError(testInstance, creationError)

			lines, listError := client.ListPullRequestLines(context.Background(), testCase.options)
			if testCase.expectErrorType != nil {
				require.Error(testInstance, listError)
				require.IsType(testInstance, testCase.expectErrorType, listError)
				require.Nil(testInstance, lines)
				if len(testCase.expectedTool) == 0 {
					require.Empty(testInstance, testCase.executor.recordedDetails)
				}
				return
			}

			require.NoError(testInstance, listError)
			require.Equal(testInstance, testCase.expectedLines, lines)
			require.Equal(testInstance, []execshell.CommandName{testCase.expectedTool}, testCase.executor.recordedTools)
			require.Equal(testInstance, testCase.expectedArguments, testCase.executor.recordedDetails[0].Arguments)
			require.Equal(testInstance, testCase.options.WorkingDirectory, testCase.executor.recordedDetails[0].WorkingDirectory)
		})
	}
}

func TestListPullRequestLinesKeepsOutputOfFailedExit(testInstance *testing.T) {
	result := execshell.ExecutionResult{
		StandardOutput: "merged 1 feature def456\n",
		StandardError:  "rate limit exceeded\n",
		ExitCode:       1,
	}
	executor := &stubForgeExecutor{
		result:         result,
		executionError: execshell.CommandFailedError{Command: execshell.ShellCommand{Name: execshell.CommandGitHub}, Result: result},
	}

	client, creationError := githubcli.NewClient(executor, githubcli.ProviderGitHubCLI)
	require.NoError(testInstance, creationError)

	lines, listError := client.ListPullRequestLines(context.Background(), githubcli.PullRequestListOptions{
		State:       githubcli.PullRequestStateAll,
		ResultLimit: 20,
	})

	require.IsType(testInstance, githubcli.OperationError{}, listError)
	var failedError execshell.CommandFailedError
	require.ErrorAs(testInstance, listError, &failedError)
	require.Equal(testInstance, 1, failedError.Result.ExitCode)
	require.Equal(testInstance, []string{"merged 1 feature def456"}, lines)
}
