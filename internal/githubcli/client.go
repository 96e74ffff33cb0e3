package githubcli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/temirov/landed/internal/execshell"
)

const (
	pullRequestSubcommandConstant           = "pr"
	listSubcommandConstant                  = "list"
	githubStateFlagConstant                 = "--state"
	githubJSONFlagConstant                  = "--json"
	githubJQFlagConstant                    = "--jq"
	hubStateFlagConstant                    = "-s"
	hubFormatFlagConstant                   = "-f"
	limitFlagConstant                       = "--limit"
	githubPullRequestJSONFieldsConstant     = "state,number,headRefName,headRefOid"
	githubPullRequestLineExpressionConstant = `.[] | "\(.state | ascii_downcase) \(.number) \(.headRefName) \(.headRefOid)"`
	hubPullRequestLineFormatConstant        = "%S %i %H %sH%n"
	providerFieldNameConstant               = "provider"
	limitFieldNameConstant                  = "limit"
	stateFieldNameConstant                  = "state"
	requiredValueMessageConstant            = "value required"
	positiveValueMessageConstant            = "must be positive"
	unsupportedProviderMessageTemplate      = "unsupported forge provider %q"
	executorNotConfiguredMessageConstant    = "forge cli executor not configured"
	operationErrorMessageTemplateConstant   = "%s operation failed"
	operationErrorWithCauseTemplateConstant = "%s operation failed: %s"
	invalidInputErrorTemplateConstant       = "%s: %s"
	outputReadErrorTemplateConstant         = "unable to read %s output: %w"
	listPullRequestsOperationNameConstant   = OperationName("ListPullRequestLines")
)

// DefaultPullRequestLimit caps the number of pull requests requested from the forge.
const DefaultPullRequestLimit = 20

// OperationName describes a named forge CLI workflow supported by the client.
type OperationName string

// Provider names a supported forge command-line tool.
type Provider string

// Supported providers.
const (
	ProviderGitHubCLI Provider = Provider("gh")
	ProviderHub       Provider = Provider("hub")
)

// PullRequestState describes the state filter passed to the forge.
type PullRequestState string

// PullRequestStateAll requests pull requests in every state.
const PullRequestStateAll PullRequestState = PullRequestState("all")

// PullRequestListOptions configures ListPullRequestLines queries.
type PullRequestListOptions struct {
	State            PullRequestState
	ResultLimit      int
	WorkingDirectory string
}

// ForgeCommandExecutor is the subset of execshell.ShellExecutor the client needs.
type ForgeCommandExecutor interface {
	ExecuteGitHubCLI(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteHub(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// Client lists pull requests through gh or hub, normalising both to the
// "<state> <number> <head branch> <head commit>" line format.
type Client struct {
	executor ForgeCommandExecutor
	provider Provider
}

var (
	// ErrExecutorNotConfigured indicates the client was constructed without an executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// InvalidInputError surfaces validation issues for operation inputs.
type InvalidInputError struct {
	FieldName string
	Message   string
}

// Error describes the invalid input.
func (inputError InvalidInputError) Error() string {
	return fmt.Sprintf(invalidInputErrorTemplateConstant, inputError.FieldName, inputError.Message)
}

// OperationError wraps execution issues for forge CLI operations.
type OperationError struct {
	Operation OperationName
	Cause     error
}

// Error describes the operation failure.
func (operationError OperationError) Error() string {
	if operationError.Cause == nil {
		return fmt.Sprintf(operationErrorMessageTemplateConstant, operationError.Operation)
	}
	return fmt.Sprintf(operationErrorWithCauseTemplateConstant, operationError.Operation, operationError.Cause)
}

// Unwrap exposes the underlying cause.
func (operationError OperationError) Unwrap() error {
	return operationError.Cause
}

// ParseProvider validates a provider name, treating an empty value as gh.
func ParseProvider(value string) (Provider, error) {
	normalized := Provider(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case "":
		return ProviderGitHubCLI, nil
	case ProviderGitHubCLI, ProviderHub:
		return normalized, nil
	default:
		return "", InvalidInputError{FieldName: providerFieldNameConstant, Message: fmt.Sprintf(unsupportedProviderMessageTemplate, value)}
	}
}

// NewClient constructs a forge client for the given provider.
func NewClient(executor ForgeCommandExecutor, provider Provider) (*Client, error) {
	if executor == nil {
		return nil, ErrExecutorNotConfigured
	}
	resolvedProvider, providerError := ParseProvider(string(provider))
	if providerError != nil {
		return nil, providerError
	}
	return &Client{executor: executor, provider: resolvedProvider}, nil
}

// Provider reports the forge tool the client invokes.
func (client *Client) Provider() Provider {
	return client.provider
}

// ListPullRequestLines runs the forge pull request listing and returns its output lines in order.
// When the tool runs but exits non-zero, the lines it printed are returned together with an
// OperationError wrapping execshell.CommandFailedError.
func (client *Client) ListPullRequestLines(executionContext context.Context, options PullRequestListOptions) ([]string, error) {
	if len(strings.TrimSpace(string(options.State))) == 0 {
		return nil, InvalidInputError{FieldName: stateFieldNameConstant, Message: requiredValueMessageConstant}
	}
	if options.ResultLimit <= 0 {
		return nil, InvalidInputError{FieldName: limitFieldNameConstant, Message: positiveValueMessageConstant}
	}

	commandDetails := execshell.CommandDetails{
		Arguments:        client.buildListArguments(options),
		WorkingDirectory: options.WorkingDirectory,
	}

	var executionResult execshell.ExecutionResult
	var executionError error
	switch client.provider {
	case ProviderHub:
		executionResult, executionError = client.executor.ExecuteHub(executionContext, commandDetails)
	default:
		executionResult, executionError = client.executor.ExecuteGitHubCLI(executionContext, commandDetails)
	}
	if executionError != nil {
		operationError := OperationError{Operation: listPullRequestsOperationNameConstant, Cause: executionError}
		var failedError execshell.CommandFailedError
		if !errors.As(executionError, &failedError) {
			return nil, operationError
		}
		partialLines, _ := splitLines(executionResult.StandardOutput)
		return partialLines, operationError
	}

	lines, readError := splitLines(executionResult.StandardOutput)
	if readError != nil {
		return nil, OperationError{Operation: listPullRequestsOperationNameConstant, Cause: fmt.Errorf(outputReadErrorTemplateConstant, client.provider, readError)}
	}
	return lines, nil
}

func (client *Client) buildListArguments(options PullRequestListOptions) []string {
	limitValue := strconv.Itoa(options.ResultLimit)
	if client.provider == ProviderHub {
		return []string{
			pullRequestSubcommandConstant,
			listSubcommandConstant,
			hubStateFlagConstant,
			string(options.State),
			hubFormatFlagConstant,
			hubPullRequestLineFormatConstant,
			limitFlagConstant,
			limitValue,
		}
	}
	return []string{
		pullRequestSubcommandConstant,
		listSubcommandConstant,
		githubStateFlagConstant,
		string(options.State),
		limitFlagConstant,
		limitValue,
		githubJSONFlagConstant,
		githubPullRequestJSONFieldsConstant,
		githubJQFlagConstant,
		githubPullRequestLineExpressionConstant,
	}
}

func splitLines(output string) ([]string, error) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return lines, nil
}
