package batch

import (
	"context"

	"github.com/temirov/gahcheck/internal/execshell"
)

// ShellExecutor runs a shell script and reports non-zero exits as execshell.CommandFailedError.
type ShellExecutor interface {
	ExecuteShell(executionContext context.Context, script string, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// ProgressReporter receives operator-facing progress notifications.
type ProgressReporter interface {
	Log(message string)
	Success(message string)
	Error(message string)
	StartActivity(label string)
	StopActivity(success bool, label string)
}
