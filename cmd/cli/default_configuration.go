package cli

import (
	"bytes"
	_ "embed"
	"os"
	"path/filepath"

	"github.com/temirov/landed/internal/utils"
)

const (
	environmentPrefixConstant              = "LANDED"
	userConfigurationDirectoryNameConstant = ".landed"
	workingDirectorySearchPathConstant     = "."
)

//go:embed default_config.yaml
var defaultConfigurationContent []byte

// EmbeddedDefaultConfiguration returns a copy of the YAML defaults compiled into landed.
func EmbeddedDefaultConfiguration() []byte {
	return bytes.Clone(defaultConfigurationContent)
}

// configurationSources layers the embedded defaults under ./config.yaml,
// $HOME/.landed/config.yaml and LANDED_* environment variables.
func configurationSources() utils.ConfigurationSources {
	searchPaths := []string{workingDirectorySearchPathConstant}
	if homeDirectory, homeDirectoryError := os.UserHomeDir(); homeDirectoryError == nil && len(homeDirectory) > 0 {
		searchPaths = append(searchPaths, filepath.Join(homeDirectory, userConfigurationDirectoryNameConstant))
	}

	return utils.ConfigurationSources{
		EmbeddedDefaults:  EmbeddedDefaultConfiguration(),
		SearchPaths:       searchPaths,
		EnvironmentPrefix: environmentPrefixConstant,
	}
}
