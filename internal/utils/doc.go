// Package utils holds the configuration and logging plumbing shared by the CLI.
//
// ConfigurationLoader layers embedded defaults, config files and LANDED_*
// environment variables through Viper. LoggerFactory builds the structured
// diagnostic logger and the message-only console logger used in verbose mode.
package utils
