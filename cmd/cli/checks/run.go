package checks

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gahcheck/internal/plugins"
)

const (
	runUseTemplateConstant            = "%s [ci]"
	runShortTemplateConstant          = "Run the %s check across workspace modules"
	runLongTemplateConstant           = "%s runs the command contributed by the enabled plugin in every discovered module. Pass ci to link the host dependencies into the repository root first."
	checksFailedErrorTemplateConstant = "%s: %w"
	dispatchStartedMessageConstant    = "dispatching plugin command"
	dispatchResultMessageConstant     = "plugin command finished"
	logFieldCommandConstant           = "command"
	logFieldModuleCountConstant       = "module_count"
	logFieldRootsConstant             = "roots"
	logFieldArgumentsConstant         = "arguments"
	logFieldSucceededConstant         = "succeeded"
)

// CommandBuilder assembles a Cobra command dispatching one plugin command name.
type CommandBuilder struct {
	CommandName      string
	LoggerProvider   LoggerProvider
	RegistryProvider RegistryProvider
	Discoverer       ModuleDiscoverer
	RootsProvider    RootsProvider
}

// Build constructs the check command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	if builder.RegistryProvider == nil {
		return nil, ErrRegistryNotConfigured
	}
	if builder.Discoverer == nil {
		return nil, ErrDiscovererNotConfigured
	}

	command := &cobra.Command{
		Use:   fmt.Sprintf(runUseTemplateConstant, builder.CommandName),
		Short: fmt.Sprintf(runShortTemplateConstant, builder.CommandName),
		Long:  fmt.Sprintf(runLongTemplateConstant, builder.CommandName),
		Args:  cobra.ArbitraryArgs,
		RunE:  builder.run,
	}

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)

	roots, rootsError := requireWorkspaceRoots(command, builder.RootsProvider)
	if rootsError != nil {
		return rootsError
	}

	registry, registryError := builder.RegistryProvider(command.Context())
	if registryError != nil {
		return registryError
	}
	if !registry.Has(builder.CommandName) {
		return plugins.UnregisteredCommandError{CommandName: builder.CommandName}
	}

	moduleSet, discoveryError := builder.Discoverer.DiscoverModules(roots)
	if discoveryError != nil {
		return discoveryError
	}

	logger.Debug(
		dispatchStartedMessageConstant,
		zap.String(logFieldCommandConstant, builder.CommandName),
		zap.Strings(logFieldRootsConstant, roots),
		zap.Strings(logFieldArgumentsConstant, arguments),
		zap.Int(logFieldModuleCountConstant, len(moduleSet)),
	)

	succeeded, dispatchError := registry.Dispatch(command.Context(), builder.CommandName, arguments, moduleSet)
	if dispatchError != nil {
		return dispatchError
	}

	logger.Debug(
		dispatchResultMessageConstant,
		zap.String(logFieldCommandConstant, builder.CommandName),
		zap.Bool(logFieldSucceededConstant, succeeded),
	)

	if !succeeded {
		return fmt.Errorf(checksFailedErrorTemplateConstant, builder.CommandName, ErrChecksFailed)
	}
	return nil
}
