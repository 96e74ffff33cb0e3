package utils

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const (
	configurationFileNameConstant               = "config"
	configurationFileTypeConstant               = "yaml"
	environmentKeySeparatorOldConstant          = "."
	environmentKeySeparatorNewConstant          = "_"
	listValueSeparatorConstant                  = ","
	configurationReadErrorTemplateConstant      = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant = "failed to parse configuration: %w"
	embeddedDefaultsErrorTemplateConstant       = "failed to read embedded defaults: %w"
)

// ConfigurationSources lists where configuration is read from. Later sources win:
// embedded defaults, then the first config.yaml found on SearchPaths (or an explicit file),
// then environment variables named <EnvironmentPrefix>_<SECTION>_<KEY>.
type ConfigurationSources struct {
	EmbeddedDefaults  []byte
	SearchPaths       []string
	EnvironmentPrefix string
}

// ConfigurationLoader resolves ConfigurationSources into a typed configuration through Viper.
type ConfigurationLoader struct {
	sources ConfigurationSources
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	// ConfigFileUsed is empty when only embedded defaults and the environment applied.
	ConfigFileUsed string
}

// NewConfigurationLoader creates a loader over the given sources.
func NewConfigurationLoader(sources ConfigurationSources) *ConfigurationLoader {
	return &ConfigurationLoader{sources: ConfigurationSources{
		EmbeddedDefaults:  bytes.Clone(sources.EmbeddedDefaults),
		SearchPaths:       append([]string(nil), sources.SearchPaths...),
		EnvironmentPrefix: sources.EnvironmentPrefix,
	}}
}

// LoadConfiguration decodes every source into targetConfiguration. A non-empty
// configurationFilePath replaces the search and must exist.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(configurationFileNameConstant)
	viperInstance.SetConfigType(configurationFileTypeConstant)

	if len(loader.sources.EmbeddedDefaults) > 0 {
		if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.sources.EmbeddedDefaults)); mergeError != nil {
			return LoadedConfiguration{}, fmt.Errorf(embeddedDefaultsErrorTemplateConstant, mergeError)
		}
	}

	for _, searchPath := range loader.sources.SearchPaths {
		viperInstance.AddConfigPath(searchPath)
	}
	if len(configurationFilePath) > 0 {
		viperInstance.SetConfigFile(configurationFilePath)
	}

	viperInstance.SetEnvPrefix(loader.sources.EnvironmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant))
	viperInstance.AutomaticEnv()

	if readError := viperInstance.MergeInConfig(); readError != nil {
		var notFoundError viper.ConfigFileNotFoundError
		if len(configurationFilePath) > 0 || !errors.As(readError, &notFoundError) {
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration, viper.DecodeHook(configurationDecodeHook())); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	return LoadedConfiguration{ConfigFileUsed: viperInstance.ConfigFileUsed()}, nil
}

// configurationDecodeHook converts textual durations and comma-separated lists coming from
// environment variables into their typed counterparts.
func configurationDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(listValueSeparatorConstant),
		mapstructure.TextUnmarshallerHookFunc(),
	)
}
