package utils

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	environmentKeySeparatorOldConstant              = "."
	environmentKeySeparatorNewConstant              = "_"
	configurationFileExtensionSeparatorConstant     = "."
	fallbackConfigurationDirectoryConstant          = "."
	configurationReadErrorTemplateConstant          = "failed to read configuration: %w"
	configurationUnmarshalErrorTemplateConstant     = "failed to parse configuration: %w"
	embeddedConfigurationMergeErrorTemplateConstant = "failed to merge embedded configuration: %w"
)

// ConfigurationLoader layers gahcheck configuration sources in Viper: embedded
// defaults first, then the configuration file, then GAHCHECK_* style
// environment variables.
type ConfigurationLoader struct {
	configurationName         string
	configurationType         string
	environmentPrefix         string
	searchPaths               []string
	embeddedConfiguration     []byte
	embeddedConfigurationType string
}

// LoadedConfiguration surfaces metadata about the resolved configuration.
type LoadedConfiguration struct {
	// ConfigFileUsed is empty when only embedded defaults and the environment contributed.
	ConfigFileUsed string
	SearchPaths    []string
	// WritableFilePath is the file configuration updates should target.
	WritableFilePath string
	// ExplicitFileMissing reports a requested configuration file that does not exist yet.
	ExplicitFileMissing bool
}

// NewConfigurationLoader creates a loader that searches the provided directories and respects an environment prefix.
func NewConfigurationLoader(configurationName string, configurationType string, environmentPrefix string, searchPaths []string) *ConfigurationLoader {
	return &ConfigurationLoader{
		configurationName: configurationName,
		configurationType: configurationType,
		environmentPrefix: environmentPrefix,
		searchPaths:       append([]string{}, searchPaths...),
	}
}

// SetEmbeddedConfiguration stores configuration data merged before any configuration file.
func (loader *ConfigurationLoader) SetEmbeddedConfiguration(configurationData []byte, configurationType string) {
	if loader == nil {
		return
	}
	loader.embeddedConfiguration = bytes.Clone(configurationData)
	loader.embeddedConfigurationType = strings.TrimSpace(configurationType)
}

// OverrideSearchPathsFromEnvironment replaces the search paths with the path list held by the variable, when it is set.
func (loader *ConfigurationLoader) OverrideSearchPathsFromEnvironment(variableName string) {
	if loader == nil {
		return
	}

	var overridePaths []string
	for _, candidatePath := range filepath.SplitList(os.Getenv(variableName)) {
		if trimmedPath := strings.TrimSpace(candidatePath); len(trimmedPath) > 0 {
			overridePaths = append(overridePaths, trimmedPath)
		}
	}
	if len(overridePaths) > 0 {
		loader.searchPaths = overridePaths
	}
}

// SearchPaths returns the directories consulted when no explicit file is requested.
func (loader *ConfigurationLoader) SearchPaths() []string {
	return append([]string{}, loader.searchPaths...)
}

// LoadConfiguration populates targetConfiguration from every configuration layer.
// An explicit configurationFilePath that does not exist is reported through ExplicitFileMissing rather than as an error.
func (loader *ConfigurationLoader) LoadConfiguration(configurationFilePath string, defaultValues map[string]any, targetConfiguration any) (LoadedConfiguration, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigName(loader.configurationName)
	viperInstance.SetConfigType(loader.configurationType)

	if mergeError := loader.mergeEmbeddedConfiguration(viperInstance); mergeError != nil {
		return LoadedConfiguration{}, mergeError
	}

	viperInstance.SetEnvPrefix(loader.environmentPrefix)
	viperInstance.SetEnvKeyReplacer(strings.NewReplacer(environmentKeySeparatorOldConstant, environmentKeySeparatorNewConstant))
	viperInstance.AutomaticEnv()
	for defaultKey, defaultValue := range defaultValues {
		viperInstance.SetDefault(defaultKey, defaultValue)
	}

	loadedConfiguration := LoadedConfiguration{SearchPaths: loader.SearchPaths()}
	trimmedFilePath := strings.TrimSpace(configurationFilePath)

	readConfigurationFile := true
	if len(trimmedFilePath) > 0 {
		loadedConfiguration.WritableFilePath = trimmedFilePath
		if _, statError := os.Stat(trimmedFilePath); errors.Is(statError, fs.ErrNotExist) {
			loadedConfiguration.ExplicitFileMissing = true
			readConfigurationFile = false
		}
		viperInstance.SetConfigFile(trimmedFilePath)
	} else {
		for _, searchPath := range loader.searchPaths {
			viperInstance.AddConfigPath(searchPath)
		}
	}

	if readConfigurationFile {
		readError := viperInstance.MergeInConfig()
		var notFoundError viper.ConfigFileNotFoundError
		switch {
		case readError == nil:
			loadedConfiguration.ConfigFileUsed = viperInstance.ConfigFileUsed()
		case errors.As(readError, &notFoundError):
		default:
			return LoadedConfiguration{}, fmt.Errorf(configurationReadErrorTemplateConstant, readError)
		}
	}

	if unmarshalError := viperInstance.Unmarshal(targetConfiguration); unmarshalError != nil {
		return LoadedConfiguration{}, fmt.Errorf(configurationUnmarshalErrorTemplateConstant, unmarshalError)
	}

	if len(loadedConfiguration.WritableFilePath) == 0 {
		loadedConfiguration.WritableFilePath = loader.writableFilePath(loadedConfiguration.ConfigFileUsed)
	}
	return loadedConfiguration, nil
}

func (loader *ConfigurationLoader) mergeEmbeddedConfiguration(viperInstance *viper.Viper) error {
	if len(loader.embeddedConfiguration) == 0 {
		return nil
	}

	if len(loader.embeddedConfigurationType) > 0 {
		viperInstance.SetConfigType(loader.embeddedConfigurationType)
		defer viperInstance.SetConfigType(loader.configurationType)
	}
	if mergeError := viperInstance.MergeConfig(bytes.NewReader(loader.embeddedConfiguration)); mergeError != nil {
		return fmt.Errorf(embeddedConfigurationMergeErrorTemplateConstant, mergeError)
	}
	return nil
}

func (loader *ConfigurationLoader) writableFilePath(configurationFileUsed string) string {
	if len(configurationFileUsed) > 0 {
		return configurationFileUsed
	}

	targetDirectory := fallbackConfigurationDirectoryConstant
	if len(loader.searchPaths) > 0 {
		targetDirectory = os.ExpandEnv(loader.searchPaths[0])
	}
	return filepath.Join(targetDirectory, loader.configurationName+configurationFileExtensionSeparatorConstant+loader.configurationType)
}
