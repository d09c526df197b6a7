package ui

import (
	"fmt"

	"go.uber.org/zap"
)

const (
	activityStartedTemplateConstant = "%s..."
)

// ConsoleProgressReporter prints operator-facing progress lines through a message-only zap logger.
type ConsoleProgressReporter struct {
	logger *zap.Logger
}

// NewConsoleProgressReporter constructs a reporter writing to the provided console logger.
func NewConsoleProgressReporter(logger *zap.Logger) *ConsoleProgressReporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleProgressReporter{logger: logger}
}

// Log prints a plain informational line.
func (reporter *ConsoleProgressReporter) Log(message string) {
	reporter.logger.Info(message)
}

// Success prints a line reporting a completed step.
func (reporter *ConsoleProgressReporter) Success(message string) {
	reporter.logger.Info(message)
}

// Error prints a line at error level, used for failures and captured tool output.
func (reporter *ConsoleProgressReporter) Error(message string) {
	reporter.logger.Error(message)
}

// StartActivity announces a long-running activity.
func (reporter *ConsoleProgressReporter) StartActivity(label string) {
	reporter.logger.Info(fmt.Sprintf(activityStartedTemplateConstant, label))
}

// StopActivity ends the current activity and prints its final label.
func (reporter *ConsoleProgressReporter) StopActivity(success bool, label string) {
	if success {
		reporter.Success(label)
		return
	}
	reporter.Error(label)
}
