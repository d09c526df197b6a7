package flags

import (
	"fmt"
	"strings"
)

const (
	choiceListTemplateConstant  = "<%s>"
	choiceUsageTemplateConstant = "%s %s"
	choiceSeparatorConstant     = "|"
)

// ChoiceUsage renders usage text listing the accepted values, with the default in upper case.
// Blank and repeated choices are dropped.
func ChoiceUsage(defaultChoice string, choices []string, description string) string {
	normalizedDefault := strings.ToLower(strings.TrimSpace(defaultChoice))
	renderedChoices := make([]string, 0, len(choices))
	seenChoices := make(map[string]struct{}, len(choices))

	for _, choice := range choices {
		normalizedChoice := strings.ToLower(strings.TrimSpace(choice))
		if len(normalizedChoice) == 0 {
			continue
		}
		if _, seen := seenChoices[normalizedChoice]; seen {
			continue
		}
		seenChoices[normalizedChoice] = struct{}{}

		if normalizedChoice == normalizedDefault {
			renderedChoices = append(renderedChoices, strings.ToUpper(normalizedChoice))
			continue
		}
		renderedChoices = append(renderedChoices, normalizedChoice)
	}

	choiceList := fmt.Sprintf(choiceListTemplateConstant, strings.Join(renderedChoices, choiceSeparatorConstant))
	if trimmedDescription := strings.TrimSpace(description); len(trimmedDescription) > 0 {
		return fmt.Sprintf(choiceUsageTemplateConstant, choiceList, trimmedDescription)
	}
	return choiceList
}
