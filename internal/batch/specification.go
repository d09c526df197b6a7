package batch

import (
	"fmt"
	"strings"
)

// PresentationStyle selects how module progress is announced.
type PresentationStyle int

// Supported presentation styles.
const (
	// PresentationActivity wraps each module in a start and stop activity pair.
	PresentationActivity PresentationStyle = iota
	// PresentationLog prints a single plain line before each module and leaves output to the tool.
	PresentationLog
)

// ActivityLabels holds fmt templates receiving the module name.
type ActivityLabels struct {
	Started   string
	Succeeded string
	Failed    string
}

// CommandSpecification describes the command executed for each module.
type CommandSpecification struct {
	Command string
	// WorkingDirectoryOverride replaces the module base path as working directory when set.
	WorkingDirectoryOverride string
	StreamOutput             bool
	DeduplicateByBasePath    bool
	Presentation             PresentationStyle
	Labels                   ActivityLabels
}

func (specification CommandSpecification) workingDirectory(basePath string) string {
	if trimmedOverride := strings.TrimSpace(specification.WorkingDirectoryOverride); len(trimmedOverride) > 0 {
		return trimmedOverride
	}
	return basePath
}

func renderLabel(template string, moduleName string) string {
	if !strings.Contains(template, "%") {
		return template
	}
	return fmt.Sprintf(template, moduleName)
}
