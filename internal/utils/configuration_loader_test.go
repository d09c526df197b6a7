package utils_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gahcheck/internal/utils"
)

const (
	testEnvironmentPrefixConstant     = "TESTGAHCHECK"
	testLogLevelEnvironmentConstant   = testEnvironmentPrefixConstant + "_COMMON_LOG_LEVEL"
	testSearchPathEnvironmentConstant = "TESTGAHCHECK_CONFIG_SEARCH_PATH"
	testLogLevelKeyConstant           = "common.log_level"
	testConfigurationNameConstant     = "config"
	testConfigurationTypeConstant     = "yaml"
	testConfigFileNameConstant        = "config.yaml"
	testEmbeddedContentConstant       = "common:\n  log_level: debug\nplugins:\n  enabled:\n    - formatting\n"
	testFileContentConstant           = "common:\n  log_level: warn\nplugins:\n  enabled:\n    - eslint\n"
)

type configurationFixture struct {
	Common  configurationCommonFixture  `mapstructure:"common"`
	Plugins configurationPluginsFixture `mapstructure:"plugins"`
}

type configurationCommonFixture struct {
	LogLevel string `mapstructure:"log_level"`
}

type configurationPluginsFixture struct {
	Enabled []string `mapstructure:"enabled"`
}

func writeConfigurationFile(testInstance *testing.T, directoryPath string, content string) string {
	testInstance.Helper()
	configurationPath := filepath.Join(directoryPath, testConfigFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, []byte(content), 0o600))
	return configurationPath
}

func TestConfigurationLoaderLayersSources(testInstance *testing.T) {
	testCases := []struct {
		name                string
		embeddedContent     string
		fileContent         string
		environmentLogLevel string
		expectedLogLevel    string
		expectedEnabled     []string
	}{
		{
			name:             "defaults_only",
			expectedLogLevel: "info",
		},
		{
			name:             "embedded_overrides_defaults",
			embeddedContent:  testEmbeddedContentConstant,
			expectedLogLevel: "debug",
			expectedEnabled:  []string{"formatting"},
		},
		{
			name:             "file_overrides_embedded",
			embeddedContent:  testEmbeddedContentConstant,
			fileContent:      testFileContentConstant,
			expectedLogLevel: "warn",
			expectedEnabled:  []string{"eslint"},
		},
		{
			name:                "environment_overrides_file",
			embeddedContent:     testEmbeddedContentConstant,
			fileContent:         testFileContentConstant,
			environmentLogLevel: "error",
			expectedLogLevel:    "error",
			expectedEnabled:     []string{"eslint"},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			searchDirectory := testInstance.TempDir()
			expectedFileUsed := ""
			if len(testCase.fileContent) > 0 {
				expectedFileUsed = writeConfigurationFile(testInstance, searchDirectory, testCase.fileContent)
			}
			if len(testCase.environmentLogLevel) > 0 {
				testInstance.Setenv(testLogLevelEnvironmentConstant, testCase.environmentLogLevel)
			}

			loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{searchDirectory})
			loader.SetEmbeddedConfiguration([]byte(testCase.embeddedContent), testConfigurationTypeConstant)

			var configuration configurationFixture
			metadata, loadError := loader.LoadConfiguration("", map[string]any{testLogLevelKeyConstant: "info"}, &configuration)
			require.NoError(testInstance, loadError)

			require.Equal(testInstance, testCase.expectedLogLevel, configuration.Common.LogLevel)
			require.Equal(testInstance, testCase.expectedEnabled, configuration.Plugins.Enabled)
			require.Equal(testInstance, expectedFileUsed, metadata.ConfigFileUsed)
			require.Equal(testInstance, filepath.Join(searchDirectory, testConfigFileNameConstant), metadata.WritableFilePath)
			require.False(testInstance, metadata.ExplicitFileMissing)
		})
	}
}

func TestConfigurationLoaderExplicitFile(testInstance *testing.T) {
	searchDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, searchDirectory, "common:\n  log_level: debug\n")

	explicitDirectory := testInstance.TempDir()
	explicitPath := writeConfigurationFile(testInstance, explicitDirectory, testFileContentConstant)

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{searchDirectory})

	var configuration configurationFixture
	metadata, loadError := loader.LoadConfiguration(explicitPath, nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
	require.Equal(testInstance, explicitPath, metadata.ConfigFileUsed)
	require.Equal(testInstance, explicitPath, metadata.WritableFilePath)

	missingPath := filepath.Join(explicitDirectory, "missing.yaml")
	var defaultsOnly configurationFixture
	missingMetadata, missingError := loader.LoadConfiguration(missingPath, map[string]any{testLogLevelKeyConstant: "info"}, &defaultsOnly)
	require.NoError(testInstance, missingError)
	require.True(testInstance, missingMetadata.ExplicitFileMissing)
	require.Empty(testInstance, missingMetadata.ConfigFileUsed)
	require.Equal(testInstance, missingPath, missingMetadata.WritableFilePath)
	require.Equal(testInstance, "info", defaultsOnly.Common.LogLevel)
}

func TestConfigurationLoaderRejectsMalformedFile(testInstance *testing.T) {
	searchDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, searchDirectory, "common: [unterminated\n")

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{searchDirectory})

	var configuration configurationFixture
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.Error(testInstance, loadError)
	require.True(testInstance, strings.HasPrefix(loadError.Error(), "failed to read configuration"))
}

func TestConfigurationLoaderSearchPathOverride(testInstance *testing.T) {
	defaultDirectory := testInstance.TempDir()
	writeConfigurationFile(testInstance, defaultDirectory, "common:\n  log_level: debug\n")

	firstOverride := testInstance.TempDir()
	secondOverride := testInstance.TempDir()
	overridePath := writeConfigurationFile(testInstance, secondOverride, testFileContentConstant)

	testInstance.Setenv(testSearchPathEnvironmentConstant, " "+firstOverride+string(os.PathListSeparator)+secondOverride+string(os.PathListSeparator))

	loader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{defaultDirectory})
	loader.OverrideSearchPathsFromEnvironment(testSearchPathEnvironmentConstant)
	require.Equal(testInstance, []string{firstOverride, secondOverride}, loader.SearchPaths())

	var configuration configurationFixture
	metadata, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, "warn", configuration.Common.LogLevel)
	require.Equal(testInstance, overridePath, metadata.ConfigFileUsed)
	require.Equal(testInstance, overridePath, metadata.WritableFilePath)

	testInstance.Setenv(testSearchPathEnvironmentConstant, "")
	unchangedLoader := utils.NewConfigurationLoader(testConfigurationNameConstant, testConfigurationTypeConstant, testEnvironmentPrefixConstant, []string{defaultDirectory})
	unchangedLoader.OverrideSearchPathsFromEnvironment(testSearchPathEnvironmentConstant)
	require.Equal(testInstance, []string{defaultDirectory}, unchangedLoader.SearchPaths())
}
