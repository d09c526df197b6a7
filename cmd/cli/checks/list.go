package checks

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/gahcheck/internal/plugins"
)

const (
	listUseConstant              = "plugins"
	listShortDescriptionConstant = "List available plugins and the commands they provide"
	listEntryTemplateConstant    = "%s\t%s\t%s\n"
	listEnabledStateConstant     = "enabled"
	listDisabledStateConstant    = "disabled"
	listCommandSeparatorConstant = ", "
)

// ListCommandBuilder assembles the plugins listing command.
type ListCommandBuilder struct {
	Catalog                *plugins.Catalog
	EnabledPluginsProvider EnabledPluginsProvider
}

// Build constructs the plugins command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	if builder.Catalog == nil {
		return nil, ErrCatalogNotConfigured
	}

	command := &cobra.Command{
		Use:   listUseConstant,
		Short: listShortDescriptionConstant,
		Args:  cobra.NoArgs,
		RunE:  builder.run,
	}
	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, _ []string) error {
	enabledPlugins := resolveEnabledPlugins(builder.EnabledPluginsProvider)
	for _, pluginName := range builder.Catalog.Names() {
		definition, lookupError := builder.Catalog.Lookup(pluginName)
		if lookupError != nil {
			return lookupError
		}

		state := listDisabledStateConstant
		if slices.Contains(enabledPlugins, pluginName) {
			state = listEnabledStateConstant
		}
		fmt.Fprintf(command.OutOrStdout(), listEntryTemplateConstant, pluginName, state, strings.Join(definition.Commands, listCommandSeparatorConstant))
	}
	return nil
}
