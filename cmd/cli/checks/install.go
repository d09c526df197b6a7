package checks

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gahcheck/internal/plugins"
	"github.com/temirov/gahcheck/internal/utils"
)

const (
	installUseConstant                      = "install <plugin>"
	installShortDescriptionConstant         = "Install a plugin into the configuration file"
	installLongDescriptionConstant          = "install writes the plugin's configuration section, keeping any existing values, and enables the plugin."
	installReplaceFlagNameConstant          = "replace"
	installReplaceFlagUsageConstant         = "Disable enabled plugins that provide the same commands"
	pluginsConfigurationKeyConstant         = "plugins"
	pluginsEnabledConfigurationKeyConstant  = pluginsConfigurationKeyConstant + ".enabled"
	configurationPathMissingMessageConstant = "configuration file path could not be resolved"
	pluginConflictErrorTemplateConstant     = "plugin %q shares commands with enabled plugins %s; rerun with --replace to disable them"
	installCompletedTemplateConstant        = "Installed %s into %s\n"
	installCompletedLogMessageConstant      = "plugin installed"
	logFieldPluginConstant                  = "plugin"
	logFieldConfigurationFileConstant       = "config_file"
	logFieldDisabledPluginsConstant         = "disabled_plugins"
)

// ErrConfigurationPathMissing indicates the install command could not determine which file to update.
var ErrConfigurationPathMissing = errors.New(configurationPathMissingMessageConstant)

// PluginConflictError reports enabled plugins that would register the same commands as the installed plugin.
type PluginConflictError struct {
	PluginName         string
	ConflictingPlugins []string
}

// Error describes the conflict.
func (conflictError PluginConflictError) Error() string {
	return fmt.Sprintf(pluginConflictErrorTemplateConstant, conflictError.PluginName, strings.Join(conflictError.ConflictingPlugins, ", "))
}

// ConfigurationFileUpdater rewrites a configuration document on disk.
type ConfigurationFileUpdater interface {
	UpdateFile(configurationFilePath string, mutator utils.ConfigurationDocumentMutator) error
}

// ConfigurationPathProvider resolves the configuration file the install command updates.
type ConfigurationPathProvider func(command *cobra.Command) string

// InstallCommandBuilder assembles the install command.
type InstallCommandBuilder struct {
	Catalog                *plugins.Catalog
	LoggerProvider         LoggerProvider
	EnabledPluginsProvider EnabledPluginsProvider
	ConfigurationPath      ConfigurationPathProvider
	Updater                ConfigurationFileUpdater
}

// Build constructs the install command.
func (builder *InstallCommandBuilder) Build() (*cobra.Command, error) {
	if builder.Catalog == nil {
		return nil, ErrCatalogNotConfigured
	}

	command := &cobra.Command{
		Use:       installUseConstant,
		Short:     installShortDescriptionConstant,
		Long:      installLongDescriptionConstant,
		Args:      cobra.ExactArgs(1),
		ValidArgs: builder.Catalog.Names(),
		RunE:      builder.run,
	}
	command.Flags().Bool(installReplaceFlagNameConstant, false, installReplaceFlagUsageConstant)

	return command, nil
}

func (builder *InstallCommandBuilder) run(command *cobra.Command, arguments []string) error {
	logger := resolveLogger(builder.LoggerProvider)

	definition, lookupError := builder.Catalog.Lookup(arguments[0])
	if lookupError != nil {
		return lookupError
	}

	replaceConflicts, flagError := command.Flags().GetBool(installReplaceFlagNameConstant)
	if flagError != nil {
		return flagError
	}

	enabledPlugins := resolveEnabledPlugins(builder.EnabledPluginsProvider)
	conflictingPlugins, conflictError := builder.Catalog.Conflicts(enabledPlugins, definition.Name)
	if conflictError != nil {
		return conflictError
	}
	if len(conflictingPlugins) > 0 && !replaceConflicts {
		return PluginConflictError{PluginName: definition.Name, ConflictingPlugins: conflictingPlugins}
	}

	configurationPath := ""
	if builder.ConfigurationPath != nil {
		configurationPath = strings.TrimSpace(builder.ConfigurationPath(command))
	}
	if len(configurationPath) == 0 {
		return ErrConfigurationPathMissing
	}

	updater := builder.Updater
	if updater == nil {
		updater = utils.NewConfigurationWriter()
	}

	updatedEnabledPlugins := enablePlugin(enabledPlugins, definition.Name, conflictingPlugins)
	updateError := updater.UpdateFile(configurationPath, func(document map[string]any) error {
		sectionKey := pluginsConfigurationKeyConstant + "." + definition.Name
		existingSection, configured := utils.LookupNestedValue(document, sectionKey)

		installedSection, installError := builder.Catalog.Install(definition.Name, existingSection, configured)
		if installError != nil {
			return installError
		}
		if setError := utils.SetNestedValue(document, sectionKey, installedSection); setError != nil {
			return setError
		}
		return utils.SetNestedValue(document, pluginsEnabledConfigurationKeyConstant, updatedEnabledPlugins)
	})
	if updateError != nil {
		return updateError
	}

	logger.Info(
		installCompletedLogMessageConstant,
		zap.String(logFieldPluginConstant, definition.Name),
		zap.String(logFieldConfigurationFileConstant, configurationPath),
		zap.Strings(logFieldDisabledPluginsConstant, conflictingPlugins),
	)
	fmt.Fprintf(command.OutOrStdout(), installCompletedTemplateConstant, definition.Name, configurationPath)
	return nil
}

func enablePlugin(enabledPlugins []string, pluginName string, disabledPlugins []string) []string {
	updatedPlugins := make([]string, 0, len(enabledPlugins)+1)
	for _, enabledPlugin := range enabledPlugins {
		trimmedPlugin := strings.TrimSpace(enabledPlugin)
		if len(trimmedPlugin) == 0 || slices.Contains(disabledPlugins, trimmedPlugin) || slices.Contains(updatedPlugins, trimmedPlugin) {
			continue
		}
		updatedPlugins = append(updatedPlugins, trimmedPlugin)
	}
	if !slices.Contains(updatedPlugins, pluginName) {
		updatedPlugins = append(updatedPlugins, pluginName)
	}
	return updatedPlugins
}
