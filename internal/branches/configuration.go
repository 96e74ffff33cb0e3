package branches

import (
	"strings"
	"time"

	"github.com/temirov/landed/internal/githubcli"
)

// ForgeConfiguration selects the forge tool and how many pull requests it lists.
type ForgeConfiguration struct {
	Provider         string `mapstructure:"provider"`
	PullRequestLimit int    `mapstructure:"limit"`
}

// CollectionConfiguration controls where and how long branches are collected.
type CollectionConfiguration struct {
	Repository string        `mapstructure:"repository"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CommandConfiguration captures configuration values for the landed command.
type CommandConfiguration struct {
	Forge      ForgeConfiguration      `mapstructure:"forge"`
	Collection CollectionConfiguration `mapstructure:"collection"`
}

// DefaultCommandConfiguration provides baseline configuration values.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		Forge: ForgeConfiguration{
			Provider:         string(githubcli.ProviderGitHubCLI),
			PullRequestLimit: githubcli.DefaultPullRequestLimit,
		},
		Collection: CollectionConfiguration{
			Repository: "",
			Timeout:    0,
		},
	}
}

// sanitize trims configuration values without applying implicit defaults.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	sanitized := configuration
	sanitized.Forge.Provider = strings.TrimSpace(configuration.Forge.Provider)
	sanitized.Collection.Repository = strings.TrimSpace(configuration.Collection.Repository)
	return sanitized
}
