package plugins

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/gahcheck/internal/modules"
)

const (
	commandNameRequiredMessageConstant       = "command name required"
	handlerNotConfiguredMessageConstant      = "command handler not configured"
	duplicateCommandErrorTemplateConstant    = "command %q registered by plugin %q is already provided by plugin %q"
	unregisteredCommandErrorTemplateConstant = "command %q is not provided by any enabled plugin"
)

// ErrCommandNameRequired indicates an attempt to register a blank command name.
var ErrCommandNameRequired = errors.New(commandNameRequiredMessageConstant)

// ErrHandlerNotConfigured indicates an attempt to register a nil handler.
var ErrHandlerNotConfigured = errors.New(handlerNotConfiguredMessageConstant)

// Handler executes a plugin command. The boolean reports whether every check passed;
// the error is reserved for preconditions that abort the command.
type Handler func(executionContext context.Context, arguments []string, moduleSet []modules.Descriptor) (bool, error)

// DuplicateCommandError reports two plugins registering the same command name.
type DuplicateCommandError struct {
	CommandName    string
	PluginName     string
	ExistingPlugin string
}

// Error describes the conflicting registration.
func (duplicateError DuplicateCommandError) Error() string {
	return fmt.Sprintf(duplicateCommandErrorTemplateConstant, duplicateError.CommandName, duplicateError.PluginName, duplicateError.ExistingPlugin)
}

// UnregisteredCommandError reports a command that no enabled plugin provides.
type UnregisteredCommandError struct {
	CommandName string
}

// Error describes the missing command.
func (unregisteredError UnregisteredCommandError) Error() string {
	return fmt.Sprintf(unregisteredCommandErrorTemplateConstant, unregisteredError.CommandName)
}

// CommandRegistration describes one registered command.
type CommandRegistration struct {
	PluginName  string
	CommandName string
	handler     Handler
}

// Registry maps command names to plugin handlers. It is populated once at startup.
type Registry struct {
	registrations map[string]CommandRegistration
	order         []string
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{registrations: make(map[string]CommandRegistration)}
}

// Register binds commandName to handler on behalf of pluginName.
func (registry *Registry) Register(pluginName string, commandName string, handler Handler) error {
	trimmedCommandName := strings.TrimSpace(commandName)
	if len(trimmedCommandName) == 0 {
		return ErrCommandNameRequired
	}
	if handler == nil {
		return ErrHandlerNotConfigured
	}
	if existingRegistration, exists := registry.registrations[trimmedCommandName]; exists {
		return DuplicateCommandError{CommandName: trimmedCommandName, PluginName: pluginName, ExistingPlugin: existingRegistration.PluginName}
	}

	registry.registrations[trimmedCommandName] = CommandRegistration{PluginName: pluginName, CommandName: trimmedCommandName, handler: handler}
	registry.order = append(registry.order, trimmedCommandName)
	return nil
}

// Dispatch runs the handler registered for commandName.
func (registry *Registry) Dispatch(executionContext context.Context, commandName string, arguments []string, moduleSet []modules.Descriptor) (bool, error) {
	registration, exists := registry.registrations[strings.TrimSpace(commandName)]
	if !exists {
		return false, UnregisteredCommandError{CommandName: commandName}
	}
	return registration.handler(executionContext, arguments, moduleSet)
}

// Has reports whether commandName is registered.
func (registry *Registry) Has(commandName string) bool {
	_, exists := registry.registrations[strings.TrimSpace(commandName)]
	return exists
}

// Commands lists registrations in registration order.
func (registry *Registry) Commands() []CommandRegistration {
	commandRegistrations := make([]CommandRegistration, 0, len(registry.order))
	for _, commandName := range registry.order {
		commandRegistrations = append(commandRegistrations, registry.registrations[commandName])
	}
	return commandRegistrations
}
