package utils

import "context"

type commandContextKey string

const configurationMetadataContextKeyConstant = commandContextKey("configurationMetadata")

// CommandContextAccessor manages values stored in command execution contexts.
type CommandContextAccessor struct{}

// NewCommandContextAccessor constructs a CommandContextAccessor instance.
func NewCommandContextAccessor() CommandContextAccessor {
	return CommandContextAccessor{}
}

// WithConfigurationMetadata attaches the resolved configuration metadata to the provided context.
func (accessor CommandContextAccessor) WithConfigurationMetadata(parentContext context.Context, metadata LoadedConfiguration) context.Context {
	if parentContext == nil {
		parentContext = context.Background()
	}
	metadata.SearchPaths = append([]string{}, metadata.SearchPaths...)
	return context.WithValue(parentContext, configurationMetadataContextKeyConstant, metadata)
}

// ConfigurationMetadata extracts the configuration metadata from the provided context.
func (accessor CommandContextAccessor) ConfigurationMetadata(executionContext context.Context) (LoadedConfiguration, bool) {
	if executionContext == nil {
		return LoadedConfiguration{}, false
	}
	metadata, available := executionContext.Value(configurationMetadataContextKeyConstant).(LoadedConfiguration)
	return metadata, available
}

// WritableConfigurationPath returns the file configuration updates should target.
func (accessor CommandContextAccessor) WritableConfigurationPath(executionContext context.Context) (string, bool) {
	metadata, available := accessor.ConfigurationMetadata(executionContext)
	if !available || len(metadata.WritableFilePath) == 0 {
		return "", false
	}
	return metadata.WritableFilePath, true
}
