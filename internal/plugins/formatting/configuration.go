package formatting

import "strings"

const (
	// DefaultLintCommand is the linter invocation used when none is configured.
	DefaultLintCommand = "ng lint"
	// DefaultPrettierInstallCommand installs the formatter globally before checks run.
	DefaultPrettierInstallCommand = "yarn global add prettier@^2.8.8"
	// DefaultPrettierCommand is the per-module formatting check used when none is configured.
	DefaultPrettierCommand = `prettier --check "**/*.ts"`
)

// Configuration is the persisted plugin section.
type Configuration struct {
	LintCommand            string `mapstructure:"lint_command" yaml:"lint_command"`
	PrettierInstallCommand string `mapstructure:"prettier_install_command" yaml:"prettier_install_command"`
	PrettierCommand        string `mapstructure:"prettier_command" yaml:"prettier_command"`
}

// DefaultConfiguration returns the configuration written for a fresh install.
func DefaultConfiguration() Configuration {
	return Configuration{
		LintCommand:            DefaultLintCommand,
		PrettierInstallCommand: DefaultPrettierInstallCommand,
		PrettierCommand:        DefaultPrettierCommand,
	}
}

// OnInstall returns the existing configuration when one is present, otherwise the defaults.
func OnInstall(existing Configuration, configured bool) Configuration {
	if configured {
		return existing
	}
	return DefaultConfiguration()
}

func (configuration Configuration) lintCommand() string {
	return valueOrDefault(configuration.LintCommand, DefaultLintCommand)
}

func (configuration Configuration) prettierInstallCommand() string {
	return valueOrDefault(configuration.PrettierInstallCommand, DefaultPrettierInstallCommand)
}

func (configuration Configuration) prettierCommand() string {
	return valueOrDefault(configuration.PrettierCommand, DefaultPrettierCommand)
}

func valueOrDefault(value string, defaultValue string) string {
	if trimmedValue := strings.TrimSpace(value); len(trimmedValue) > 0 {
		return trimmedValue
	}
	return defaultValue
}
