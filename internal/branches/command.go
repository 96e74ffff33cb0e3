package branches

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/landed/internal/execshell"
	"github.com/temirov/landed/internal/githubcli"
	"github.com/temirov/landed/internal/utils/flags"
	pathutils "github.com/temirov/landed/internal/utils/path"
)

const (
	commandUseConstant                     = "landed"
	commandShortDescriptionConstant        = "List local branches whose pull requests are no longer open"
	commandLongDescriptionConstant         = "landed prints every local branch whose tip commit matches the head commit of a closed or merged pull request. Pipe the output into git branch -D to prune them."
	commandExecutionErrorTemplateConstant  = "landed branch lookup failed: %w"
	ignoredArgumentsMessageConstant        = "Ignoring positional arguments"
	ignoredArgumentsFieldConstant          = "arguments"
	negativeLimitMessageTemplateConstant   = "--limit must not be negative, got %d"
	negativeTimeoutMessageTemplateConstant = "--timeout must not be negative, got %s"
	flagLimitNameConstant                  = "limit"
	flagLimitDescriptionConstant           = "Maximum number of pull requests to examine"
	flagForgeNameConstant                  = "forge"
	flagForgeDescriptionConstant           = "Forge command-line tool used to list pull requests"
	flagRepositoryNameConstant             = "repository"
	flagRepositoryDescriptionConstant      = "Repository directory to inspect (defaults to the current directory)"
	flagTimeoutNameConstant                = "timeout"
	flagTimeoutDescriptionConstant         = "Abort collection after this duration (0 waits indefinitely)"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// DiagnosticsProvider supplies the sink for verbose-only messages.
type DiagnosticsProvider func() DiagnosticSink

// ConfigurationProvider supplies the loaded command configuration.
type ConfigurationProvider func() CommandConfiguration

// CommandExecutor runs the external tools the command depends on.
type CommandExecutor interface {
	GitCommandExecutor
	githubcli.ForgeCommandExecutor
}

// CommandBuilder assembles the landed Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	DiagnosticsProvider   DiagnosticsProvider
	ConfigurationProvider ConfigurationProvider
	Executor              CommandExecutor
	RepositoryPaths       pathutils.RepositoryPathResolver
}

// commandOptions holds the resolved flag and configuration values.
type commandOptions struct {
	Provider githubcli.Provider
	Service  Options
}

// Build constructs the landed command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          builder.run,
	}

	defaults := DefaultCommandConfiguration()
	command.Flags().Int(flagLimitNameConstant, defaults.Forge.PullRequestLimit, flagLimitDescriptionConstant)
	flags.AddChoiceFlag(command.Flags(), flagForgeNameConstant, defaults.Forge.Provider, []string{string(githubcli.ProviderGitHubCLI), string(githubcli.ProviderHub)}, flagForgeDescriptionConstant)
	command.Flags().String(flagRepositoryNameConstant, defaults.Collection.Repository, flagRepositoryDescriptionConstant)
	command.Flags().Duration(flagTimeoutNameConstant, defaults.Collection.Timeout, flagTimeoutDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := builder.resolveLogger()
	if len(arguments) > 0 {
		logger.Debug(ignoredArgumentsMessageConstant, zap.Strings(ignoredArgumentsFieldConstant, arguments))
	}

	options, optionsError := builder.parseOptions(command)
	if optionsError != nil {
		return optionsError
	}

	executor, executorError := builder.resolveExecutor(logger)
	if executorError != nil {
		return executorError
	}

	localSource, localSourceError := NewGitLocalBranchSource(executor)
	if localSourceError != nil {
		return localSourceError
	}

	forgeClient, forgeClientError := githubcli.NewClient(executor, options.Provider)
	if forgeClientError != nil {
		return forgeClientError
	}

	pullRequestSource, pullRequestSourceError := NewForgePullRequestSource(forgeClient)
	if pullRequestSourceError != nil {
		return pullRequestSourceError
	}

	service, serviceError := NewService(ServiceDependencies{
		Logger:            logger,
		LocalSource:       localSource,
		PullRequestSource: pullRequestSource,
		Diagnostics:       builder.resolveDiagnostics(),
		Output:            command.OutOrStdout(),
	})
	if serviceError != nil {
		return serviceError
	}

	if runError := service.Run(command.Context(), options.Service); runError != nil {
		return fmt.Errorf(commandExecutionErrorTemplateConstant, runError)
	}

	return nil
}

func (builder *CommandBuilder) parseOptions(command *cobra.Command) (commandOptions, error) {
	configuration := builder.resolveConfiguration()

	providerValue := configuration.Forge.Provider
	if command.Flags().Changed(flagForgeNameConstant) {
		providerValue, _ = command.Flags().GetString(flagForgeNameConstant)
	}
	provider, providerError := githubcli.ParseProvider(providerValue)
	if providerError != nil {
		return commandOptions{}, providerError
	}

	limitValue := configuration.Forge.PullRequestLimit
	if command.Flags().Changed(flagLimitNameConstant) {
		limitValue, _ = command.Flags().GetInt(flagLimitNameConstant)
	}
	if limitValue < 0 {
		return commandOptions{}, fmt.Errorf(negativeLimitMessageTemplateConstant, limitValue)
	}
	if limitValue == 0 {
		limitValue = githubcli.DefaultPullRequestLimit
	}

	repositoryValue := configuration.Collection.Repository
	if command.Flags().Changed(flagRepositoryNameConstant) {
		repositoryValue, _ = command.Flags().GetString(flagRepositoryNameConstant)
	}
	repositoryValue = builder.RepositoryPaths.Resolve(repositoryValue)

	timeoutValue := configuration.Collection.Timeout
	if command.Flags().Changed(flagTimeoutNameConstant) {
		timeoutValue, _ = command.Flags().GetDuration(flagTimeoutNameConstant)
	}
	if timeoutValue < 0 {
		return commandOptions{}, fmt.Errorf(negativeTimeoutMessageTemplateConstant, timeoutValue)
	}

	return commandOptions{
		Provider: provider,
		Service: Options{
			WorkingDirectory: repositoryValue,
			PullRequestLimit: limitValue,
			Timeout:          timeoutValue,
		},
	}, nil
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}

	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}

	return logger
}

func (builder *CommandBuilder) resolveDiagnostics() DiagnosticSink {
	if builder.DiagnosticsProvider == nil {
		return NopDiagnosticSink{}
	}

	diagnostics := builder.DiagnosticsProvider()
	if diagnostics == nil {
		return NopDiagnosticSink{}
	}

	return diagnostics
}

func (builder *CommandBuilder) resolveExecutor(logger *zap.Logger) (CommandExecutor, error) {
	if builder.Executor != nil {
		return builder.Executor, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}

	return shellExecutor, nil
}
