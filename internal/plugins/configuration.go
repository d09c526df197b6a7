package plugins

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"
)

const (
	decoderCreationErrorTemplateConstant = "unable to prepare plugin configuration decoder: %w"
	decodeErrorTemplateConstant          = "unable to decode plugin configuration: %w"
	configurationTagNameConstant         = "mapstructure"
)

// DecodeConfiguration decodes a raw configuration section, as produced by viper, into target.
// A nil section leaves target untouched.
func DecodeConfiguration(section any, target any) error {
	if section == nil {
		return nil
	}

	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          configurationTagNameConstant,
		WeaklyTypedInput: true,
	})
	if decoderError != nil {
		return fmt.Errorf(decoderCreationErrorTemplateConstant, decoderError)
	}
	if decodeError := decoder.Decode(section); decodeError != nil {
		return fmt.Errorf(decodeErrorTemplateConstant, decodeError)
	}
	return nil
}

// InstallSection decodes the existing section when one is configured and passes it to onInstall.
func InstallSection[Configuration any](section any, configured bool, onInstall func(existing Configuration, configured bool) Configuration) (Configuration, error) {
	var existingConfiguration Configuration
	if configured {
		if decodeError := DecodeConfiguration(section, &existingConfiguration); decodeError != nil {
			return existingConfiguration, decodeError
		}
	}
	return onInstall(existingConfiguration, configured), nil
}
