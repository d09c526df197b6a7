package execshell

import (
	"context"
	"fmt"
	"strings"
)

const (
	commandGitNameConstant                 = "git"
	commandShellNameConstant               = "sh"
	commandFailedTemplateConstant          = "%s exited with code %d"
	commandFailedWithErrorTemplateConstant = "%s exited with code %d: %s"
	commandExecutionTemplateConstant       = "%s could not be executed: %v"
	commandDisplaySeparatorConstant        = " "
)

// CommandName identifies an executable invoked by the shell executor.
type CommandName string

// Supported executables.
const (
	CommandGit   CommandName = CommandName(commandGitNameConstant)
	CommandShell CommandName = CommandName(commandShellNameConstant)
)

// CommandDetails describes the arguments and working directory of a single invocation.
type CommandDetails struct {
	Arguments        []string
	WorkingDirectory string
	// StreamOutput mirrors standard output and error to the runner's live writers while still capturing them.
	StreamOutput bool
}

// ShellCommand pairs an executable with its invocation details.
type ShellCommand struct {
	Name    CommandName
	Details CommandDetails
}

// ExecutionResult captures the observable output of a finished process.
type ExecutionResult struct {
	StandardOutput string
	StandardError  string
	ExitCode       int
}

// CombinedOutput joins captured standard output and standard error for display.
func (result ExecutionResult) CombinedOutput() string {
	outputParts := make([]string, 0, 2)
	if trimmedOutput := strings.TrimSpace(result.StandardOutput); len(trimmedOutput) > 0 {
		outputParts = append(outputParts, trimmedOutput)
	}
	if trimmedError := strings.TrimSpace(result.StandardError); len(trimmedError) > 0 {
		outputParts = append(outputParts, trimmedError)
	}
	return strings.Join(outputParts, "\n")
}

// CommandRunner executes shell commands and reports their results.
type CommandRunner interface {
	Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error)
}

// CommandFailedError reports a process that exited with a non-zero code.
type CommandFailedError struct {
	Command ShellCommand
	Result  ExecutionResult
}

// Error describes the failed command and its exit code.
func (failure CommandFailedError) Error() string {
	commandLabel := describeCommand(failure.Command)
	trimmedStandardError := strings.TrimSpace(failure.Result.StandardError)
	if len(trimmedStandardError) == 0 {
		return fmt.Sprintf(commandFailedTemplateConstant, commandLabel, failure.Result.ExitCode)
	}
	return fmt.Sprintf(commandFailedWithErrorTemplateConstant, commandLabel, failure.Result.ExitCode, trimmedStandardError)
}

// CommandExecutionError reports a process that could not be started or waited on.
type CommandExecutionError struct {
	Command ShellCommand
	Cause   error
}

// Error describes the execution failure.
func (failure CommandExecutionError) Error() string {
	return fmt.Sprintf(commandExecutionTemplateConstant, describeCommand(failure.Command), failure.Cause)
}

// Unwrap exposes the underlying cause.
func (failure CommandExecutionError) Unwrap() error {
	return failure.Cause
}

func describeCommand(command ShellCommand) string {
	commandParts := append([]string{string(command.Name)}, command.Details.Arguments...)
	return strings.Join(commandParts, commandDisplaySeparatorConstant)
}
