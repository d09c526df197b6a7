package eslint_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/gahcheck/internal/batch"
	"github.com/temirov/gahcheck/internal/modules"
	"github.com/temirov/gahcheck/internal/plugins"
	"github.com/temirov/gahcheck/internal/plugins/eslint"
)

type recordingRunner struct {
	result         bool
	specifications []batch.CommandSpecification
	moduleSets     [][]modules.Descriptor
}

func (runner *recordingRunner) Run(_ context.Context, moduleSet []modules.Descriptor, specification batch.CommandSpecification) bool {
	runner.specifications = append(runner.specifications, specification)
	runner.moduleSets = append(runner.moduleSets, moduleSet)
	return runner.result
}

func (runner *recordingRunner) RunOnce(context.Context, batch.CommandSpecification) bool {
	return true
}

func TestNewPluginRequiresRunner(testInstance *testing.T) {
	_, creationError := eslint.NewPlugin(eslint.DefaultConfiguration(), plugins.Services{})
	require.ErrorIs(testInstance, creationError, eslint.ErrRunnerNotConfigured)
}

func TestPluginLintStreamsAcrossAllModules(testInstance *testing.T) {
	moduleSet := []modules.Descriptor{
		{ModuleName: "cart", BasePath: "/workspace/shop/modules/cart"},
		{ModuleName: "cart-ui", BasePath: "/workspace/shop/modules/cart"},
	}

	testCases := []struct {
		name            string
		configuration   eslint.Configuration
		runnerResult    bool
		expectedCommand string
	}{
		{
			name:            "default_command_passes",
			configuration:   eslint.Configuration{},
			runnerResult:    true,
			expectedCommand: eslint.DefaultLintCommand,
		},
		{
			name:            "configured_command_fails",
			configuration:   eslint.Configuration{LintCommand: "eslint ."},
			runnerResult:    false,
			expectedCommand: "eslint .",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			runner := &recordingRunner{result: testCase.runnerResult}
			plugin, creationError := eslint.NewPlugin(testCase.configuration, plugins.Services{Runner: runner})
			require.NoError(testInstance, creationError)

			result, lintError := plugin.Lint(context.Background(), []string{"ci"}, moduleSet)
			require.NoError(testInstance, lintError)
			require.Equal(testInstance, testCase.runnerResult, result)

			require.Len(testInstance, runner.specifications, 1)
			specification := runner.specifications[0]
			require.Equal(testInstance, testCase.expectedCommand, specification.Command)
			require.True(testInstance, specification.StreamOutput)
			require.False(testInstance, specification.DeduplicateByBasePath)
			require.Equal(testInstance, batch.PresentationLog, specification.Presentation)
			require.Equal(testInstance, "Linting %s", specification.Labels.Started)
			require.Equal(testInstance, moduleSet, runner.moduleSets[0])
		})
	}
}

func TestOnInstallKeepsExistingConfiguration(testInstance *testing.T) {
	existingConfiguration := eslint.Configuration{LintCommand: "eslint ."}
	require.Equal(testInstance, existingConfiguration, eslint.OnInstall(existingConfiguration, true))
	require.Equal(testInstance, eslint.DefaultConfiguration(), eslint.OnInstall(eslint.Configuration{}, false))
}

func TestDefinitionRegistersLintCommand(testInstance *testing.T) {
	definition := eslint.Definition()
	builtPlugin, buildError := definition.Build(nil, plugins.Services{Runner: &recordingRunner{result: true}})
	require.NoError(testInstance, buildError)
	require.Equal(testInstance, eslint.PluginName, builtPlugin.Name())

	registry := plugins.NewRegistry()
	require.NoError(testInstance, builtPlugin.OnInit(registry))
	require.True(testInstance, registry.Has(eslint.LintCommandName))
}
