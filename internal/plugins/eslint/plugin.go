// Package eslint provides the lint plugin, which runs the configured linter in
// every non-host module and streams the tool output to the operator.
package eslint

import (
	"context"
	"errors"
	"strings"

	"github.com/temirov/gahcheck/internal/batch"
	"github.com/temirov/gahcheck/internal/modules"
	"github.com/temirov/gahcheck/internal/plugins"
)

const (
	// PluginName identifies the plugin in configuration and on the command line.
	PluginName = "eslint"
	// LintCommandName is the command registered by the plugin.
	LintCommandName = "lint"
	// DefaultLintCommand is the linter invocation used when none is configured.
	DefaultLintCommand = "ng lint"

	lintStartedLabelConstant           = "Linting %s"
	runnerNotConfiguredMessageConstant = "eslint plugin batch runner not configured"
)

// ErrRunnerNotConfigured indicates the plugin was built without a batch runner.
var ErrRunnerNotConfigured = errors.New(runnerNotConfiguredMessageConstant)

// Configuration is the persisted plugin section.
type Configuration struct {
	LintCommand string `mapstructure:"lint_command" yaml:"lint_command"`
}

// DefaultConfiguration returns the configuration written for a fresh install.
func DefaultConfiguration() Configuration {
	return Configuration{LintCommand: DefaultLintCommand}
}

// OnInstall returns the configuration to persist. It never mutates its input.
func OnInstall(existing Configuration, configured bool) Configuration {
	if configured {
		return existing
	}
	return DefaultConfiguration()
}

func (configuration Configuration) lintCommand() string {
	if trimmedCommand := strings.TrimSpace(configuration.LintCommand); len(trimmedCommand) > 0 {
		return trimmedCommand
	}
	return DefaultLintCommand
}

// Plugin runs the linter across modules.
type Plugin struct {
	configuration Configuration
	runner        plugins.BatchRunner
}

// NewPlugin constructs the plugin with its configuration and collaborators.
func NewPlugin(configuration Configuration, services plugins.Services) (*Plugin, error) {
	if services.Runner == nil {
		return nil, ErrRunnerNotConfigured
	}
	return &Plugin{configuration: configuration, runner: services.Runner}, nil
}

// Definition describes the plugin for the catalog.
func Definition() plugins.Definition {
	return plugins.Definition{
		Name:     PluginName,
		Commands: []string{LintCommandName},
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

// OnInit registers the lint command.
func (plugin *Plugin) OnInit(registry *plugins.Registry) error {
	return registry.Register(PluginName, LintCommandName, plugin.Lint)
}

// Lint runs the linter in every non-host module, streaming its output. Modules sharing a base path are each linted.
func (plugin *Plugin) Lint(executionContext context.Context, _ []string, moduleSet []modules.Descriptor) (bool, error) {
	return plugin.runner.Run(executionContext, moduleSet, batch.CommandSpecification{
		Command:      plugin.configuration.lintCommand(),
		StreamOutput: true,
		Presentation: batch.PresentationLog,
		Labels:       batch.ActivityLabels{Started: lintStartedLabelConstant},
	}), nil
}
