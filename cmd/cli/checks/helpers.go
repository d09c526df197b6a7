package checks

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/gahcheck/internal/modules"
	"github.com/temirov/gahcheck/internal/plugins"
	pathutils "github.com/temirov/gahcheck/internal/utils/path"
)

const (
	missingWorkspaceRootsErrorMessageConstant = "no workspace roots provided; specify --root or configure workspace.roots"
	checksFailedMessageConstant               = "one or more checks failed"
	registryNotConfiguredMessageConstant      = "plugin registry provider not configured"
	discovererNotConfiguredMessageConstant    = "module discoverer not configured"
	catalogNotConfiguredMessageConstant       = "plugin catalog not configured"
)

// ErrChecksFailed reports a check command whose aggregated result was unsuccessful.
var ErrChecksFailed = errors.New(checksFailedMessageConstant)

// ErrMissingWorkspaceRoots indicates that neither flags nor configuration supplied a workspace root.
var ErrMissingWorkspaceRoots = errors.New(missingWorkspaceRootsErrorMessageConstant)

// ErrRegistryNotConfigured indicates a command builder without a registry provider.
var ErrRegistryNotConfigured = errors.New(registryNotConfiguredMessageConstant)

// ErrDiscovererNotConfigured indicates a command builder without a module discoverer.
var ErrDiscovererNotConfigured = errors.New(discovererNotConfiguredMessageConstant)

// ErrCatalogNotConfigured indicates a command builder without a plugin catalog.
var ErrCatalogNotConfigured = errors.New(catalogNotConfiguredMessageConstant)

// LoggerProvider yields a zap logger for command execution.
type LoggerProvider func() *zap.Logger

// RegistryProvider builds the registry of commands contributed by the enabled plugins.
type RegistryProvider func(executionContext context.Context) (*plugins.Registry, error)

// RootsProvider resolves the workspace roots requested for a command invocation.
type RootsProvider func(command *cobra.Command) []string

// EnabledPluginsProvider lists the plugins enabled by the effective configuration.
type EnabledPluginsProvider func() []string

// ModuleDiscoverer locates module descriptors beneath workspace roots.
type ModuleDiscoverer interface {
	DiscoverModules(roots []string) ([]modules.Descriptor, error)
}

var workspaceRootSanitizer = pathutils.NewRootSanitizer()

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	logger := provider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}

func resolveEnabledPlugins(provider EnabledPluginsProvider) []string {
	if provider == nil {
		return nil
	}
	return append([]string{}, provider()...)
}

func requireWorkspaceRoots(command *cobra.Command, provider RootsProvider) ([]string, error) {
	var requestedRoots []string
	if provider != nil {
		requestedRoots = provider(command)
	}

	sanitizedRoots := workspaceRootSanitizer.Sanitize(requestedRoots)
	if len(sanitizedRoots) == 0 {
		return nil, ErrMissingWorkspaceRoots
	}
	return sanitizedRoots, nil
}
