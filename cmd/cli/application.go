package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/landed/internal/branches"
	"github.com/temirov/landed/internal/ui"
	"github.com/temirov/landed/internal/utils"
	"github.com/temirov/landed/internal/utils/flags"
)

const (
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagUsageConstant                = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagUsageConstant               = "Override the configured log format."
	verboseFlagNameConstant                  = "verbose"
	verboseFlagUsageConstant                 = "Print progress and unmatched branches to standard error."
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationVerboseFieldConstant        = "verbose"
	configurationFileFieldConstant           = "config_file"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	rootCommandBuildErrorTemplateConstant    = "unable to build landed command: %w"
	applicationNotInitializedMessageConstant = "application not initialized"
)

var errApplicationNotInitialized = errors.New(applicationNotInitializedMessageConstant)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common                        ApplicationCommonConfiguration `mapstructure:"common"`
	branches.CommandConfiguration `mapstructure:",squash"`
}

// ApplicationCommonConfiguration stores logging configuration shared across the command.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
	Verbose   bool   `mapstructure:"verbose"`
}

// Application wires the Cobra root command, configuration loader, and loggers.
type Application struct {
	rootCommand           *cobra.Command
	rootCommandError      error
	configurationLoader   *utils.ConfigurationLoader
	loggerFactory         *utils.LoggerFactory
	logger                *zap.Logger
	consoleLogger         *zap.Logger
	diagnostics           branches.DiagnosticSink
	configuration         ApplicationConfiguration
	configurationMetadata utils.LoadedConfiguration
	configurationFilePath string
	logLevelFlagValue     string
	logFormatFlagValue    string
	verboseFlagValue      bool
	executor              branches.CommandExecutor
}

// ApplicationOption customizes an Application during construction.
type ApplicationOption func(*Application)

// WithCommandExecutor replaces the process-backed executor, mainly for tests.
func WithCommandExecutor(executor branches.CommandExecutor) ApplicationOption {
	return func(application *Application) {
		application.executor = executor
	}
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication(options ...ApplicationOption) *Application {
	application := &Application{
		configurationLoader: utils.NewConfigurationLoader(configurationSources()),
		loggerFactory: utils.NewLoggerFactory(),
		logger:        zap.NewNop(),
		consoleLogger: zap.NewNop(),
		diagnostics:   branches.NopDiagnosticSink{},
	}
	for _, option := range options {
		option(application)
	}

	commandBuilder := branches.CommandBuilder{
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		DiagnosticsProvider: func() branches.DiagnosticSink {
			return application.diagnostics
		},
		ConfigurationProvider: func() branches.CommandConfiguration {
			return application.configuration.CommandConfiguration
		},
		Executor: application.executor,
	}

	rootCommand, buildError := commandBuilder.Build()
	if buildError != nil {
		application.rootCommandError = fmt.Errorf(rootCommandBuildErrorTemplateConstant, buildError)
		return application
	}

	rootCommand.PersistentPreRunE = func(command *cobra.Command, arguments []string) error {
		return application.initializeConfiguration(command)
	}
	rootCommand.SetContext(context.Background())

	persistentFlags := rootCommand.PersistentFlags()
	persistentFlags.StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	flags.AddChoiceFlag(persistentFlags, logLevelFlagNameConstant, string(utils.LogLevelError), []string{
		string(utils.LogLevelDebug),
		string(utils.LogLevelInfo),
		string(utils.LogLevelWarn),
		string(utils.LogLevelError),
	}, logLevelFlagUsageConstant)
	flags.AddChoiceFlag(persistentFlags, logFormatFlagNameConstant, string(utils.LogFormatConsole), []string{
		string(utils.LogFormatStructured),
		string(utils.LogFormatConsole),
	}, logFormatFlagUsageConstant)
	flags.AddToggleFlag(persistentFlags, &application.verboseFlagValue, verboseFlagNameConstant, false, verboseFlagUsageConstant)

	application.rootCommand = rootCommand

	return application
}

// SetOutputs redirects standard output and standard error of the root command.
func (application *Application) SetOutputs(standardOutput io.Writer, standardError io.Writer) {
	if application.rootCommand == nil {
		return
	}
	application.rootCommand.SetOut(standardOutput)
	application.rootCommand.SetErr(standardError)
}

// Execute runs the root command with the process arguments.
func (application *Application) Execute() error {
	return application.ExecuteWithArguments(os.Args[1:])
}

// ExecuteWithArguments runs the root command with arguments and flushes the loggers.
func (application *Application) ExecuteWithArguments(arguments []string) error {
	if application.rootCommandError != nil {
		return application.rootCommandError
	}
	if application.rootCommand == nil {
		return errApplicationNotInitialized
	}

	normalizedArguments := flags.NormalizeToggleArguments(arguments)
	if normalizedArguments == nil {
		normalizedArguments = []string{}
	}
	application.rootCommand.SetArgs(normalizedArguments)

	executionError := application.rootCommand.Execute()
	if syncError := application.flushLoggers(); syncError != nil && executionError == nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// Execute builds a fresh application instance and runs it with the process arguments.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}
	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.logLevelFlagValue, _ = command.Root().PersistentFlags().GetString(logLevelFlagNameConstant)
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.logFormatFlagValue, _ = command.Root().PersistentFlags().GetString(logFormatFlagNameConstant)
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	if application.persistentFlagChanged(command, verboseFlagNameConstant) {
		application.configuration.Common.Verbose = application.verboseFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
		application.configuration.Common.Verbose,
		command.ErrOrStderr(),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger
	application.diagnostics = ui.NewDiagnosticConsole(application.consoleLogger, command.ErrOrStderr())

	application.logger.Debug(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.Bool(configurationVerboseFieldConstant, application.configuration.Common.Verbose),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
	)

	return nil
}

func (application *Application) flushLoggers() error {
	if syncError := syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	return syncLoggerInstance(application.consoleLogger)
}

func syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}
