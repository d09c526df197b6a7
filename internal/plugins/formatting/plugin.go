package formatting

import (
	"context"
	"errors"

	"github.com/temirov/gahcheck/internal/batch"
	"github.com/temirov/gahcheck/internal/modules"
	"github.com/temirov/gahcheck/internal/plugins"
)

const (
	// PluginName identifies the plugin in configuration and on the command line.
	PluginName = "formatting"
	// LintCommandName runs the linter in every module.
	LintCommandName = "lint"
	// PrettierCommandName runs the formatting check in every module.
	PrettierCommandName = "prettier"

	lintStartedLabelConstant           = "Linting %s"
	lintSucceededLabelConstant         = "Linting successfull for %s"
	lintFailedLabelConstant            = "Linting failed for %s"
	installStartedLabelConstant        = "Installing prettier globally"
	installSucceededLabelConstant      = "Prettier installed successfully"
	installFailedLabelConstant         = "Failed to install prettier"
	checkStartedLabelConstant          = "Checking %s"
	checkSucceededLabelConstant        = "Prettier check successfull for %s"
	checkFailedLabelConstant           = "Prettier check failed for %s"
	runnerNotConfiguredMessageConstant = "formatting plugin batch runner not configured"
	linkerNotConfiguredMessageConstant = "formatting plugin environment linker not configured"
)

// ErrRunnerNotConfigured indicates the plugin was built without a batch runner.
var ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// ErrLinkerNotConfigured indicates the plugin was built without an environment linker.
var ErrLinkerNotConfigured = errors.New(linkerNotConfiguredMessageConstant)

// Plugin runs lint and formatting checks once per distinct module directory.
type Plugin struct {
	configuration Configuration
	runner        plugins.BatchRunner
	linker        plugins.EnvironmentLinker
}

// NewPlugin constructs the plugin with its configuration and collaborators.
func NewPlugin(configuration Configuration, services plugins.Services) (*Plugin, error) {
	if services.Runner == nil {
		return nil, ErrRunnerNotConfigured
	}
	if services.Linker == nil {
		return nil, ErrLinkerNotConfigured
	}
	return &Plugin{configuration: configuration, runner: services.Runner, linker: services.Linker}, nil
}

// Definition describes the plugin for the catalog.
func Definition() plugins.Definition {
	return plugins.Definition{
		Name:     PluginName,
		Commands: []string{LintCommandName, PrettierCommandName},
		Install: func(section any, configured bool) (any, error) {
			return plugins.InstallSection(section, configured, OnInstall)
		},
		Build: func(section any, services plugins.Services) (plugins.Plugin, error) {
			configuration := DefaultConfiguration()
			if decodeError := plugins.DecodeConfiguration(section, &configuration); decodeError != nil {
				return nil, decodeError
			}
			return NewPlugin(configuration, services)
		},
	}
}

// Name returns the plugin name.
func (plugin *Plugin) Name() string {
	return PluginName
}

// OnInit registers the lint and prettier commands.
func (plugin *Plugin) OnInit(registry *plugins.Registry) error {
	if registrationError := registry.Register(PluginName, LintCommandName, plugin.Lint); registrationError != nil {
		return registrationError
	}
	return registry.Register(PluginName, PrettierCommandName, plugin.Prettier)
}

// Lint runs the linter in every distinct non-host module directory.
func (plugin *Plugin) Lint(executionContext context.Context, arguments []string, moduleSet []modules.Descriptor) (bool, error) {
	if linkError := plugin.prepareEnvironment(executionContext, arguments, moduleSet); linkError != nil {
		return false, linkError
	}

	return plugin.runner.Run(executionContext, moduleSet, batch.CommandSpecification{
		Command:               plugin.configuration.lintCommand(),
		DeduplicateByBasePath: true,
		Labels: batch.ActivityLabels{
			Started:   lintStartedLabelConstant,
			Succeeded: lintSucceededLabelConstant,
			Failed:    lintFailedLabelConstant,
		},
	}), nil
}

// Prettier installs the formatter globally, then checks every distinct non-host module directory.
// A failed installation ends the command before any module is checked.
func (plugin *Plugin) Prettier(executionContext context.Context, arguments []string, moduleSet []modules.Descriptor) (bool, error) {
	if linkError := plugin.prepareEnvironment(executionContext, arguments, moduleSet); linkError != nil {
		return false, linkError
	}

	installed := plugin.runner.RunOnce(executionContext, batch.CommandSpecification{
		Command: plugin.configuration.prettierInstallCommand(),
		Labels: batch.ActivityLabels{
			Started:   installStartedLabelConstant,
			Succeeded: installSucceededLabelConstant,
			Failed:    installFailedLabelConstant,
		},
	})
	if !installed {
		return false, nil
	}

	return plugin.runner.Run(executionContext, moduleSet, batch.CommandSpecification{
		Command:               plugin.configuration.prettierCommand(),
		DeduplicateByBasePath: true,
		Labels: batch.ActivityLabels{
			Started:   checkStartedLabelConstant,
			Succeeded: checkSucceededLabelConstant,
			Failed:    checkFailedLabelConstant,
		},
	}), nil
}

func (plugin *Plugin) prepareEnvironment(executionContext context.Context, arguments []string, moduleSet []modules.Descriptor) error {
	if !plugins.HasCIArgument(arguments) {
		return nil
	}
	return plugin.linker.Link(executionContext, moduleSet)
}
