package cli

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/gahcheck/cmd/cli/checks"
	"github.com/temirov/gahcheck/internal/batch"
	"github.com/temirov/gahcheck/internal/execshell"
	"github.com/temirov/gahcheck/internal/gitrepo"
	"github.com/temirov/gahcheck/internal/linkage"
	"github.com/temirov/gahcheck/internal/modules"
	"github.com/temirov/gahcheck/internal/modules/discovery"
	"github.com/temirov/gahcheck/internal/plugins"
	"github.com/temirov/gahcheck/internal/plugins/eslint"
	"github.com/temirov/gahcheck/internal/plugins/formatting"
	"github.com/temirov/gahcheck/internal/ui"
	"github.com/temirov/gahcheck/internal/utils"
	flagutils "github.com/temirov/gahcheck/internal/utils/flags"
	"github.com/temirov/gahcheck/internal/workspace"
)

const (
	applicationNameConstant                  = "gahcheck"
	applicationShortDescriptionConstant      = "Run lint and formatting checks across workspace modules"
	applicationLongDescriptionConstant       = "gahcheck discovers modules beneath workspace roots and runs the checks contributed by the enabled plugins in each of them."
	configFileFlagNameConstant               = "config"
	configFileFlagUsageConstant              = "Optional path to a configuration file (YAML or JSON)."
	logLevelFlagNameConstant                 = "log-level"
	logLevelFlagDescriptionConstant          = "Override the configured log level."
	logFormatFlagNameConstant                = "log-format"
	logFormatFlagDescriptionConstant         = "Override the configured log format."
	commonConfigurationKeyConstant           = "common"
	commonLogLevelConfigKeyConstant          = commonConfigurationKeyConstant + ".log_level"
	commonLogFormatConfigKeyConstant         = commonConfigurationKeyConstant + ".log_format"
	workspaceDependencyDirectoryKeyConstant  = "workspace.dependency_directory"
	environmentPrefixConstant                = "GAHCHECK"
	configurationSearchPathEnvironmentName   = "GAHCHECK_CONFIG_SEARCH_PATH"
	configurationNameConstant                = "config"
	configurationTypeConstant                = "yaml"
	configurationInitializedMessageConstant  = "configuration initialized"
	configurationLogLevelFieldConstant       = "log_level"
	configurationLogFormatFieldConstant      = "log_format"
	configurationFileFieldConstant           = "config_file"
	configurationFileMissingMessageConstant  = "configuration file not found; using defaults"
	configurationEnabledPluginsFieldConstant = "enabled_plugins"
	pluginCommandRegisteredMessageConstant   = "plugin command registered"
	pluginFieldConstant                      = "plugin"
	commandFieldConstant                     = "command"
	configurationLoadErrorTemplateConstant   = "unable to load configuration: %w"
	loggerCreationErrorTemplateConstant      = "unable to create logger: %w"
	loggerSyncErrorTemplateConstant          = "unable to flush logger: %w"
	serviceConstructionErrorTemplateConstant = "unable to prepare check services: %w"
	commandNotFoundErrorTemplateConstant     = "unknown command %q"
	rootCommandInfoMessageConstant           = "gahcheck CLI executed"
	rootCommandDebugMessageConstant          = "gahcheck CLI diagnostics"
	logFieldCommandNameConstant              = "command_name"
	logFieldArgumentCountConstant            = "argument_count"
	logFieldArgumentsConstant                = "arguments"
	loggerNotInitializedMessageConstant      = "logger not initialized"
	defaultConfigurationSearchPathConstant   = "."
	userConfigurationSearchPathConstant      = "$HOME/.gahcheck"
	pluginCommandGroupIdentifierConstant     = "checks"
	pluginCommandGroupTitleConstant          = "Checks:"
	defaultDependencyDirectoryNameConstant   = linkage.DefaultDependencyDirectoryName
	defaultWorkspaceRootConstant             = "."
	versionTemplateConstant                  = "gahcheck version: {{.Version}}\n"
	developmentVersionConstant               = "(devel)"
)

// ApplicationConfiguration describes the persisted configuration for the CLI entrypoint.
type ApplicationConfiguration struct {
	Common    ApplicationCommonConfiguration    `mapstructure:"common"`
	Workspace ApplicationWorkspaceConfiguration `mapstructure:"workspace"`
	Execution ApplicationExecutionConfiguration `mapstructure:"execution"`
	Plugins   ApplicationPluginsConfiguration   `mapstructure:"plugins"`
}

// ApplicationCommonConfiguration stores logging configuration shared across commands.
type ApplicationCommonConfiguration struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"`
}

// ApplicationWorkspaceConfiguration describes where modules are discovered.
type ApplicationWorkspaceConfiguration struct {
	Roots               []string `mapstructure:"roots"`
	DependencyDirectory string   `mapstructure:"dependency_directory"`
}

// ApplicationExecutionConfiguration bounds external command execution.
type ApplicationExecutionConfiguration struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// ApplicationPluginsConfiguration lists the enabled plugins and keeps every plugin section undecoded.
type ApplicationPluginsConfiguration struct {
	Enabled  []string       `mapstructure:"enabled"`
	Sections map[string]any `mapstructure:",remain"`
}

// Application wires the Cobra root command, configuration loader, structured logger, and plugin registry.
type Application struct {
	rootCommand            *cobra.Command
	configurationLoader    *utils.ConfigurationLoader
	loggerFactory          *utils.LoggerFactory
	logger                 *zap.Logger
	consoleLogger          *zap.Logger
	configuration          ApplicationConfiguration
	configurationMetadata  utils.LoadedConfiguration
	configurationFilePath  string
	logLevelFlagValue      string
	logFormatFlagValue     string
	rootFlagValues         *flagutils.RootFlagValues
	commandContextAccessor utils.CommandContextAccessor
	catalog                *plugins.Catalog
	registry               *plugins.Registry
}

// NewApplication assembles a fully wired CLI application instance.
func NewApplication() *Application {
	configurationLoader := utils.NewConfigurationLoader(
		configurationNameConstant,
		configurationTypeConstant,
		environmentPrefixConstant,
		[]string{defaultConfigurationSearchPathConstant, userConfigurationSearchPathConstant},
	)
	configurationLoader.OverrideSearchPathsFromEnvironment(configurationSearchPathEnvironmentName)
	configurationLoader.SetEmbeddedConfiguration(EmbeddedDefaultConfiguration())

	application := &Application{
		configurationLoader:    configurationLoader,
		loggerFactory:          utils.NewLoggerFactory(),
		logger:                 zap.NewNop(),
		consoleLogger:          zap.NewNop(),
		commandContextAccessor: utils.NewCommandContextAccessor(),
	}

	cobraCommand := &cobra.Command{
		Use:           applicationNameConstant,
		Short:         applicationShortDescriptionConstant,
		Long:          applicationLongDescriptionConstant,
		Version:       resolveApplicationVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(command *cobra.Command, arguments []string) error {
			return application.initializeConfiguration(command)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			return application.runRootCommand(command, arguments)
		},
	}

	logLevelUsage := flagutils.ChoiceUsage(
		string(utils.LogLevelInfo),
		utils.SupportedLogLevels(),
		logLevelFlagDescriptionConstant,
	)
	logFormatUsage := flagutils.ChoiceUsage(
		string(utils.LogFormatStructured),
		utils.SupportedLogFormats(),
		logFormatFlagDescriptionConstant,
	)

	cobraCommand.SetVersionTemplate(versionTemplateConstant)
	cobraCommand.SetContext(context.Background())
	cobraCommand.PersistentFlags().StringVar(&application.configurationFilePath, configFileFlagNameConstant, "", configFileFlagUsageConstant)
	cobraCommand.PersistentFlags().StringVar(&application.logLevelFlagValue, logLevelFlagNameConstant, "", logLevelUsage)
	cobraCommand.PersistentFlags().StringVar(&application.logFormatFlagValue, logFormatFlagNameConstant, "", logFormatUsage)
	application.rootFlagValues = flagutils.BindRootFlags(cobraCommand, flagutils.RootFlagValues{})

	catalog, catalogError := plugins.NewCatalog(eslint.Definition(), formatting.Definition())
	if catalogError == nil {
		application.catalog = catalog
		application.registerPluginCommands(cobraCommand)
	}

	application.rootCommand = cobraCommand

	return application
}

func (application *Application) registerPluginCommands(cobraCommand *cobra.Command) {
	cobraCommand.AddGroup(&cobra.Group{ID: pluginCommandGroupIdentifierConstant, Title: pluginCommandGroupTitleConstant})
	moduleDiscoverer := &configuredModuleDiscoverer{application: application}
	for _, commandName := range application.catalog.CommandNames() {
		checkBuilder := checks.CommandBuilder{
			CommandName: commandName,
			LoggerProvider: func() *zap.Logger {
				return application.logger
			},
			RegistryProvider: application.pluginRegistry,
			Discoverer:       moduleDiscoverer,
			RootsProvider:    application.workspaceRoots,
		}
		checkCommand, checkBuildError := checkBuilder.Build()
		if checkBuildError == nil {
			checkCommand.GroupID = pluginCommandGroupIdentifierConstant
			cobraCommand.AddCommand(checkCommand)
		}
	}

	installBuilder := checks.InstallCommandBuilder{
		Catalog: application.catalog,
		LoggerProvider: func() *zap.Logger {
			return application.logger
		},
		EnabledPluginsProvider: application.enabledPlugins,
		ConfigurationPath:      application.installConfigurationPath,
		Updater:                utils.NewConfigurationWriter(),
	}
	installCommand, installBuildError := installBuilder.Build()
	if installBuildError == nil {
		cobraCommand.AddCommand(installCommand)
	}

	listBuilder := checks.ListCommandBuilder{
		Catalog:                application.catalog,
		EnabledPluginsProvider: application.enabledPlugins,
	}
	listCommand, listBuildError := listBuilder.Build()
	if listBuildError == nil {
		cobraCommand.AddCommand(listCommand)
	}
}

// Execute runs the configured Cobra command hierarchy and ensures logger flushing.
func (application *Application) Execute() error {
	executionError := application.rootCommand.Execute()
	if syncError := application.flushLogger(); syncError != nil {
		return fmt.Errorf(loggerSyncErrorTemplateConstant, syncError)
	}
	return executionError
}

// InitializeForCommand loads configuration and loggers as if the named subcommand were about to run.
func (application *Application) InitializeForCommand(commandUse string) error {
	targetCommand := application.rootCommand
	if trimmedUse := strings.TrimSpace(commandUse); len(trimmedUse) > 0 {
		foundCommand, remainingArguments, findError := application.rootCommand.Find([]string{trimmedUse})
		if findError != nil || foundCommand == nil || len(remainingArguments) > 0 {
			return fmt.Errorf(commandNotFoundErrorTemplateConstant, trimmedUse)
		}
		targetCommand = foundCommand
	}
	if targetCommand.Context() == nil {
		targetCommand.SetContext(context.Background())
	}
	return application.initializeConfiguration(targetCommand)
}

// Execute builds a fresh application instance and executes the root command hierarchy.
func Execute() error {
	return NewApplication().Execute()
}

func (application *Application) initializeConfiguration(command *cobra.Command) error {
	defaultValues := map[string]any{
		commonLogLevelConfigKeyConstant:         string(utils.LogLevelInfo),
		commonLogFormatConfigKeyConstant:        string(utils.LogFormatStructured),
		workspaceDependencyDirectoryKeyConstant: defaultDependencyDirectoryNameConstant,
	}

	application.configuration = ApplicationConfiguration{}
	application.registry = nil
	loadedConfiguration, loadError := application.configurationLoader.LoadConfiguration(application.configurationFilePath, defaultValues, &application.configuration)
	if loadError != nil {
		return fmt.Errorf(configurationLoadErrorTemplateConstant, loadError)
	}

	application.configurationMetadata = loadedConfiguration

	if application.persistentFlagChanged(command, logLevelFlagNameConstant) {
		application.configuration.Common.LogLevel = application.logLevelFlagValue
	}

	if application.persistentFlagChanged(command, logFormatFlagNameConstant) {
		application.configuration.Common.LogFormat = application.logFormatFlagValue
	}

	loggerOutputs, loggerCreationError := application.loggerFactory.CreateLoggerOutputs(
		utils.LogLevel(application.configuration.Common.LogLevel),
		utils.LogFormat(application.configuration.Common.LogFormat),
	)
	if loggerCreationError != nil {
		return fmt.Errorf(loggerCreationErrorTemplateConstant, loggerCreationError)
	}

	application.logger = loggerOutputs.DiagnosticLogger
	application.consoleLogger = loggerOutputs.ConsoleLogger

	application.logger.Info(
		configurationInitializedMessageConstant,
		zap.String(configurationLogLevelFieldConstant, application.configuration.Common.LogLevel),
		zap.String(configurationLogFormatFieldConstant, application.configuration.Common.LogFormat),
		zap.String(configurationFileFieldConstant, application.configurationMetadata.ConfigFileUsed),
		zap.Strings(configurationEnabledPluginsFieldConstant, application.configuration.Plugins.Enabled),
	)

	if application.configurationMetadata.ExplicitFileMissing {
		application.logger.Warn(
			configurationFileMissingMessageConstant,
			zap.String(configurationFileFieldConstant, application.configurationMetadata.WritableFilePath),
		)
	}

	if command != nil {
		updatedContext := application.commandContextAccessor.WithConfigurationMetadata(
			command.Context(),
			application.configurationMetadata,
		)
		command.SetContext(updatedContext)
		if rootCommand := command.Root(); rootCommand != nil {
			rootCommand.SetContext(updatedContext)
		}
	}

	return nil
}

func (application *Application) humanReadableLoggingEnabled() bool {
	logFormatValue := strings.TrimSpace(application.configuration.Common.LogFormat)
	return strings.EqualFold(logFormatValue, string(utils.LogFormatConsole))
}

func (application *Application) enabledPlugins() []string {
	return append([]string{}, application.configuration.Plugins.Enabled...)
}

func (application *Application) pluginSection(pluginName string) any {
	if section, exists := application.configuration.Plugins.Sections[pluginName]; exists {
		return section
	}
	return nil
}

func (application *Application) dependencyDirectoryName() string {
	if trimmedName := strings.TrimSpace(application.configuration.Workspace.DependencyDirectory); len(trimmedName) > 0 {
		return trimmedName
	}
	return defaultDependencyDirectoryNameConstant
}

func (application *Application) workspaceRoots(command *cobra.Command) []string {
	if application.persistentFlagChanged(command, flagutils.RootFlagName) && application.rootFlagValues != nil {
		return append([]string{}, application.rootFlagValues.Roots...)
	}
	if len(application.configuration.Workspace.Roots) > 0 {
		return append([]string{}, application.configuration.Workspace.Roots...)
	}
	return []string{defaultWorkspaceRootConstant}
}

func (application *Application) installConfigurationPath(command *cobra.Command) string {
	if command != nil {
		if writablePath, available := application.commandContextAccessor.WritableConfigurationPath(command.Context()); available {
			return writablePath
		}
	}
	return application.configurationMetadata.WritableFilePath
}

// pluginRegistry builds the command registry on first use and caches it for the invocation.
func (application *Application) pluginRegistry(_ context.Context) (*plugins.Registry, error) {
	if application.registry != nil {
		return application.registry, nil
	}
	if application.catalog == nil {
		return nil, checks.ErrCatalogNotConfigured
	}

	services, servicesError := application.buildServices()
	if servicesError != nil {
		return nil, fmt.Errorf(serviceConstructionErrorTemplateConstant, servicesError)
	}

	registry, registryError := application.catalog.BuildRegistry(application.enabledPlugins(), application.pluginSection, services)
	if registryError != nil {
		return nil, registryError
	}
	for _, registration := range registry.Commands() {
		application.logger.Debug(
			pluginCommandRegisteredMessageConstant,
			zap.String(pluginFieldConstant, registration.PluginName),
			zap.String(commandFieldConstant, registration.CommandName),
		)
	}
	application.registry = registry
	return registry, nil
}

func (application *Application) buildServices() (plugins.Services, error) {
	executorOptions := []execshell.ShellExecutorOption{execshell.WithCommandTimeout(application.configuration.Execution.Timeout)}
	if application.humanReadableLoggingEnabled() {
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(ui.NewConsoleCommandEventLogger(application.logger)))
	}

	shellExecutor, executorError := execshell.NewShellExecutor(application.logger, execshell.NewOSCommandRunner(), executorOptions...)
	if executorError != nil {
		return plugins.Services{}, executorError
	}

	repositoryManager, managerError := gitrepo.NewRepositoryManager(shellExecutor)
	if managerError != nil {
		return plugins.Services{}, managerError
	}

	linker, linkerError := linkage.NewPackageImportLinker(
		workspace.NewAFSFileSystem(),
		repositoryManager,
		linkage.WithDependencyDirectoryName(application.dependencyDirectoryName()),
		linkage.WithLogger(application.logger),
	)
	if linkerError != nil {
		return plugins.Services{}, linkerError
	}

	runner, runnerError := batch.NewRunner(shellExecutor, ui.NewConsoleProgressReporter(application.consoleLogger))
	if runnerError != nil {
		return plugins.Services{}, runnerError
	}

	return plugins.Services{Runner: runner, Linker: linker}, nil
}

func (application *Application) runRootCommand(command *cobra.Command, arguments []string) error {
	if application.logger == nil {
		return errors.New(loggerNotInitializedMessageConstant)
	}

	application.logger.Info(
		rootCommandInfoMessageConstant,
		zap.String(logFieldCommandNameConstant, command.Name()),
		zap.Int(logFieldArgumentCountConstant, len(arguments)),
	)

	application.logger.Debug(
		rootCommandDebugMessageConstant,
		zap.Strings(logFieldArgumentsConstant, arguments),
	)

	if len(arguments) == 0 {
		return command.Help()
	}

	return nil
}

func (application *Application) flushLogger() error {
	if syncError := application.syncLoggerInstance(application.logger); syncError != nil {
		return syncError
	}
	if syncError := application.syncLoggerInstance(application.consoleLogger); syncError != nil {
		return syncError
	}
	return nil
}

func (application *Application) syncLoggerInstance(logger *zap.Logger) error {
	if logger == nil {
		return nil
	}

	syncError := logger.Sync()
	switch {
	case syncError == nil:
		return nil
	case errors.Is(syncError, syscall.ENOTSUP):
		return nil
	case errors.Is(syncError, syscall.EINVAL):
		return nil
	default:
		return syncError
	}
}

func (application *Application) persistentFlagChanged(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.PersistentFlags(),
		command.InheritedFlags(),
	}

	rootCommand := command.Root()
	if rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet == nil {
			continue
		}

		if flagSet.Changed(flagName) {
			return true
		}
	}

	return false
}

func resolveApplicationVersion() string {
	buildInformation, available := debug.ReadBuildInfo()
	if !available || len(strings.TrimSpace(buildInformation.Main.Version)) == 0 {
		return developmentVersionConstant
	}
	return buildInformation.Main.Version
}

// configuredModuleDiscoverer reads the dependency directory name at discovery time, after configuration has loaded.
type configuredModuleDiscoverer struct {
	application *Application
}

func (discoverer *configuredModuleDiscoverer) DiscoverModules(roots []string) ([]modules.Descriptor, error) {
	return discovery.NewFilesystemModuleDiscoverer(discoverer.application.dependencyDirectoryName()).DiscoverModules(roots)
}
