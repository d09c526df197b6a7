package plugins

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/temirov/gahcheck/internal/batch"
	"github.com/temirov/gahcheck/internal/modules"
)

const (
	unknownPluginErrorTemplateConstant   = "unknown plugin %q"
	definitionIncompleteMessageConstant  = "plugin definition incomplete"
	pluginBuildErrorTemplateConstant     = "unable to build plugin %q: %w"
	pluginInitializationTemplateConstant = "unable to initialize plugin %q: %w"
	pluginInstallErrorTemplateConstant   = "unable to install plugin %q: %w"
)

// ErrDefinitionIncomplete indicates a catalog entry without a name, installer, or builder.
var ErrDefinitionIncomplete = errors.New(definitionIncompleteMessageConstant)

// UnknownPluginError reports a plugin name absent from the catalog.
type UnknownPluginError struct {
	PluginName string
}

// Error describes the unknown plugin.
func (unknownError UnknownPluginError) Error() string {
	return fmt.Sprintf(unknownPluginErrorTemplateConstant, unknownError.PluginName)
}

// BatchRunner executes commands across module sets.
type BatchRunner interface {
	Run(executionContext context.Context, moduleSet []modules.Descriptor, specification batch.CommandSpecification) bool
	RunOnce(executionContext context.Context, specification batch.CommandSpecification) bool
}

// EnvironmentLinker applies the continuous-integration dependency workaround.
type EnvironmentLinker interface {
	Link(executionContext context.Context, moduleSet []modules.Descriptor) error
}

// Services are the collaborators handed to plugins when they are built.
type Services struct {
	Runner BatchRunner
	Linker EnvironmentLinker
}

// Plugin registers its command handlers during initialization.
type Plugin interface {
	Name() string
	OnInit(registry *Registry) error
}

// Definition describes an installable plugin.
type Definition struct {
	Name string
	// Commands lists the command names the plugin registers, for help output before initialization.
	Commands []string
	// Install returns the configuration section to persist given the existing one.
	Install func(section any, configured bool) (any, error)
	// Build decodes the configuration section and constructs the plugin.
	Build func(section any, services Services) (Plugin, error)
}

// Catalog holds the plugin definitions known to the binary.
type Catalog struct {
	definitions map[string]Definition
}

// NewCatalog validates and indexes the provided definitions.
func NewCatalog(definitions ...Definition) (*Catalog, error) {
	catalog := &Catalog{definitions: make(map[string]Definition, len(definitions))}
	for _, definition := range definitions {
		if len(strings.TrimSpace(definition.Name)) == 0 || definition.Install == nil || definition.Build == nil {
			return nil, ErrDefinitionIncomplete
		}
		catalog.definitions[definition.Name] = definition
	}
	return catalog, nil
}

// Lookup returns the definition registered under pluginName.
func (catalog *Catalog) Lookup(pluginName string) (Definition, error) {
	definition, exists := catalog.definitions[strings.TrimSpace(pluginName)]
	if !exists {
		return Definition{}, UnknownPluginError{PluginName: pluginName}
	}
	return definition, nil
}

// Names lists plugin names alphabetically.
func (catalog *Catalog) Names() []string {
	pluginNames := make([]string, 0, len(catalog.definitions))
	for pluginName := range catalog.definitions {
		pluginNames = append(pluginNames, pluginName)
	}
	sort.Strings(pluginNames)
	return pluginNames
}

// CommandNames lists every command any catalog plugin can register, alphabetically and without repeats.
func (catalog *Catalog) CommandNames() []string {
	seenCommands := make(map[string]struct{})
	commandNames := make([]string, 0)
	for _, pluginName := range catalog.Names() {
		for _, commandName := range catalog.definitions[pluginName].Commands {
			if _, seen := seenCommands[commandName]; seen {
				continue
			}
			seenCommands[commandName] = struct{}{}
			commandNames = append(commandNames, commandName)
		}
	}
	sort.Strings(commandNames)
	return commandNames
}

// Install runs the named plugin's install hook.
func (catalog *Catalog) Install(pluginName string, section any, configured bool) (any, error) {
	definition, lookupError := catalog.Lookup(pluginName)
	if lookupError != nil {
		return nil, lookupError
	}
	installedSection, installError := definition.Install(section, configured)
	if installError != nil {
		return nil, fmt.Errorf(pluginInstallErrorTemplateConstant, definition.Name, installError)
	}
	return installedSection, nil
}

// SectionProvider returns the raw configuration section of a plugin, or nil when absent.
type SectionProvider func(pluginName string) any

// BuildRegistry builds every enabled plugin in order and lets each register its commands.
func (catalog *Catalog) BuildRegistry(enabledPlugins []string, sectionProvider SectionProvider, services Services) (*Registry, error) {
	registry := NewRegistry()
	for _, pluginName := range enabledPlugins {
		definition, lookupError := catalog.Lookup(pluginName)
		if lookupError != nil {
			return nil, lookupError
		}

		var section any
		if sectionProvider != nil {
			section = sectionProvider(definition.Name)
		}
		plugin, buildError := definition.Build(section, services)
		if buildError != nil {
			return nil, fmt.Errorf(pluginBuildErrorTemplateConstant, definition.Name, buildError)
		}
		if initError := plugin.OnInit(registry); initError != nil {
			return nil, fmt.Errorf(pluginInitializationTemplateConstant, definition.Name, initError)
		}
	}
	return registry, nil
}

// Conflicts lists the enabled plugins, other than candidate, that declare a command also declared by candidate.
func (catalog *Catalog) Conflicts(enabledPlugins []string, candidate string) ([]string, error) {
	candidateDefinition, lookupError := catalog.Lookup(candidate)
	if lookupError != nil {
		return nil, lookupError
	}

	candidateCommands := make(map[string]struct{}, len(candidateDefinition.Commands))
	for _, commandName := range candidateDefinition.Commands {
		candidateCommands[commandName] = struct{}{}
	}

	var conflictingPlugins []string
	for _, enabledPlugin := range enabledPlugins {
		if enabledPlugin == candidateDefinition.Name {
			continue
		}
		enabledDefinition, enabledLookupError := catalog.Lookup(enabledPlugin)
		if enabledLookupError != nil {
			continue
		}
		for _, commandName := range enabledDefinition.Commands {
			if _, shared := candidateCommands[commandName]; shared {
				conflictingPlugins = append(conflictingPlugins, enabledDefinition.Name)
				break
			}
		}
	}
	return conflictingPlugins, nil
}
