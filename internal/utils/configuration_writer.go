package utils

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationKeySeparatorConstant            = "."
	configurationFilePermissionsConstant         = 0o644
	configurationDirectoryPermissionsConstant    = 0o755
	configurationPathRequiredMessageConstant     = "configuration file path must be provided"
	configurationKeyRequiredMessageConstant      = "configuration key must be provided"
	configurationFileReadErrorTemplateConstant   = "failed to read configuration file %s: %w"
	configurationFileParseErrorTemplateConstant  = "failed to parse configuration file %s: %w"
	configurationFileEncodeErrorTemplateConstant = "failed to encode configuration file %s: %w"
	configurationFileWriteErrorTemplateConstant  = "failed to write configuration file %s: %w"
	configurationKeyConflictTemplateConstant     = "configuration key %s is not a mapping"
	configurationValueConversionTemplateConstant = "failed to convert configuration value for %s: %w"
)

// ConfigurationDocumentMutator edits a decoded configuration document in place.
type ConfigurationDocumentMutator func(document map[string]any) error

// ConfigurationWriter persists configuration documents as YAML.
type ConfigurationWriter struct{}

// NewConfigurationWriter constructs a ConfigurationWriter.
func NewConfigurationWriter() ConfigurationWriter {
	return ConfigurationWriter{}
}

// UpdateFile decodes the configuration file (treating a missing file as empty), applies the mutator, and writes the result back.
func (writer ConfigurationWriter) UpdateFile(configurationFilePath string, mutator ConfigurationDocumentMutator) error {
	trimmedPath := strings.TrimSpace(configurationFilePath)
	if len(trimmedPath) == 0 {
		return errors.New(configurationPathRequiredMessageConstant)
	}

	document := map[string]any{}
	existingContent, readError := os.ReadFile(trimmedPath)
	switch {
	case readError == nil:
		if unmarshalError := yaml.Unmarshal(existingContent, &document); unmarshalError != nil {
			return fmt.Errorf(configurationFileParseErrorTemplateConstant, trimmedPath, unmarshalError)
		}
		if document == nil {
			document = map[string]any{}
		}
	case errors.Is(readError, fs.ErrNotExist):
	default:
		return fmt.Errorf(configurationFileReadErrorTemplateConstant, trimmedPath, readError)
	}

	if mutator != nil {
		if mutationError := mutator(document); mutationError != nil {
			return mutationError
		}
	}

	encodedContent, marshalError := yaml.Marshal(document)
	if marshalError != nil {
		return fmt.Errorf(configurationFileEncodeErrorTemplateConstant, trimmedPath, marshalError)
	}

	if mkdirError := os.MkdirAll(filepath.Dir(trimmedPath), configurationDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(configurationFileWriteErrorTemplateConstant, trimmedPath, mkdirError)
	}
	if writeError := os.WriteFile(trimmedPath, encodedContent, configurationFilePermissionsConstant); writeError != nil {
		return fmt.Errorf(configurationFileWriteErrorTemplateConstant, trimmedPath, writeError)
	}

	return nil
}

// SetNestedValue stores value under a dotted key, creating intermediate mappings as needed.
// Struct values are round-tripped through YAML so they persist with their yaml tags.
func SetNestedValue(document map[string]any, dottedKey string, value any) error {
	keySegments := splitConfigurationKey(dottedKey)
	if len(keySegments) == 0 {
		return errors.New(configurationKeyRequiredMessageConstant)
	}

	normalizedValue, normalizeError := normalizeConfigurationValue(value)
	if normalizeError != nil {
		return fmt.Errorf(configurationValueConversionTemplateConstant, dottedKey, normalizeError)
	}

	currentMapping := document
	for segmentIndex, segment := range keySegments[:len(keySegments)-1] {
		nextValue, exists := currentMapping[segment]
		if !exists || nextValue == nil {
			nextMapping := map[string]any{}
			currentMapping[segment] = nextMapping
			currentMapping = nextMapping
			continue
		}
		nextMapping, isMapping := nextValue.(map[string]any)
		if !isMapping {
			return fmt.Errorf(configurationKeyConflictTemplateConstant, strings.Join(keySegments[:segmentIndex+1], configurationKeySeparatorConstant))
		}
		currentMapping = nextMapping
	}

	currentMapping[keySegments[len(keySegments)-1]] = normalizedValue
	return nil
}

// LookupNestedValue returns the value stored under a dotted key.
func LookupNestedValue(document map[string]any, dottedKey string) (any, bool) {
	keySegments := splitConfigurationKey(dottedKey)
	if len(keySegments) == 0 {
		return nil, false
	}

	var currentValue any = document
	for _, segment := range keySegments {
		currentMapping, isMapping := currentValue.(map[string]any)
		if !isMapping {
			return nil, false
		}
		nextValue, exists := currentMapping[segment]
		if !exists {
			return nil, false
		}
		currentValue = nextValue
	}
	return currentValue, true
}

func splitConfigurationKey(dottedKey string) []string {
	rawSegments := strings.Split(strings.TrimSpace(dottedKey), configurationKeySeparatorConstant)
	keySegments := make([]string, 0, len(rawSegments))
	for _, rawSegment := range rawSegments {
		trimmedSegment := strings.TrimSpace(rawSegment)
		if len(trimmedSegment) == 0 {
			continue
		}
		keySegments = append(keySegments, trimmedSegment)
	}
	return keySegments
}

func normalizeConfigurationValue(value any) (any, error) {
	switch value.(type) {
	case nil, string, bool, int, int64, float64, []string, []any, map[string]any:
		return value, nil
	}

	encodedValue, marshalError := yaml.Marshal(value)
	if marshalError != nil {
		return nil, marshalError
	}
	var normalizedValue any
	if unmarshalError := yaml.Unmarshal(encodedValue, &normalizedValue); unmarshalError != nil {
		return nil, unmarshalError
	}
	return normalizedValue, nil
}
