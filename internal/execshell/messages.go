package execshell

import (
	"fmt"
	"strconv"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	gitRevParseSubcommandNameConstant = "rev-parse"
	gitShowTopLevelFlagConstant       = "--show-toplevel"
	shellScriptArgumentIndexConstant  = 1
	argumentSeparatorConstant         = " "
	workingDirectorySuffixConstant    = " (in %s)"
	standardErrorSuffixConstant       = ": %s"
	unknownFailureMessageConstant     = "unknown error"
	currentDirectoryLabelConstant     = "current directory"
)

// stageTemplates holds one format per lifecycle stage. The last verb always
// receives the stage detail, which is empty for most start and success messages.
type stageTemplates map[messageStage]string

var (
	repositoryRootTemplates = stageTemplates{
		messageStageStart:            "Resolving repository root for %s%s",
		messageStageSuccess:          "Repository root for %s is %s",
		messageStageFailure:          "Failed to resolve repository root for %s (exit code %s)",
		messageStageExecutionFailure: "Unable to resolve repository root for %s: %s",
	}
	scriptTemplates = stageTemplates{
		messageStageStart:            "Running `%s` in %s%s",
		messageStageSuccess:          "`%s` succeeded in %s%s",
		messageStageFailure:          "`%s` failed in %s (exit code %s)",
		messageStageExecutionFailure: "Unable to run `%s` in %s: %s",
	}
	genericTemplates = stageTemplates{
		messageStageStart:            "Running %s%s%s",
		messageStageSuccess:          "Completed %s%s%s",
		messageStageFailure:          "%s%s failed with exit code %s",
		messageStageExecutionFailure: "%s%s failed: %s",
	}
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.render(command, messageStageStart, "")
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	detail := ""
	if isRepositoryRootLookup(command) {
		detail = strings.TrimSpace(result.StandardOutput)
	}
	return formatter.render(command, messageStageSuccess, detail)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	detail := strconv.Itoa(result.ExitCode)
	if trimmedStandardError := strings.TrimSpace(result.StandardError); len(trimmedStandardError) > 0 {
		detail += fmt.Sprintf(standardErrorSuffixConstant, trimmedStandardError)
	}
	return formatter.render(command, messageStageFailure, detail)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	detail := unknownFailureMessageConstant
	if failure != nil {
		detail = failure.Error()
	}
	return formatter.render(command, messageStageExecutionFailure, detail)
}

func (formatter CommandMessageFormatter) render(command ShellCommand, stage messageStage, detail string) string {
	workingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)

	switch {
	case isRepositoryRootLookup(command):
		location := workingDirectory
		if len(location) == 0 {
			location = currentDirectoryLabelConstant
		}
		return fmt.Sprintf(repositoryRootTemplates[stage], location, detail)
	case isShellScript(command):
		location := workingDirectory
		if len(location) == 0 {
			location = currentDirectoryLabelConstant
		}
		script := strings.TrimSpace(command.Details.Arguments[shellScriptArgumentIndexConstant])
		return fmt.Sprintf(scriptTemplates[stage], script, location, detail)
	default:
		label := string(command.Name)
		if len(command.Details.Arguments) > 0 {
			label += argumentSeparatorConstant + strings.Join(command.Details.Arguments, argumentSeparatorConstant)
		}
		location := ""
		if len(workingDirectory) > 0 {
			location = fmt.Sprintf(workingDirectorySuffixConstant, workingDirectory)
		}
		return fmt.Sprintf(genericTemplates[stage], label, location, detail)
	}
}

func isRepositoryRootLookup(command ShellCommand) bool {
	arguments := command.Details.Arguments
	if command.Name != CommandGit || len(arguments) == 0 || strings.TrimSpace(arguments[0]) != gitRevParseSubcommandNameConstant {
		return false
	}
	for _, argument := range arguments[1:] {
		if strings.TrimSpace(argument) == gitShowTopLevelFlagConstant {
			return true
		}
	}
	return false
}

func isShellScript(command ShellCommand) bool {
	arguments := command.Details.Arguments
	return command.Name == CommandShell && len(arguments) > shellScriptArgumentIndexConstant && strings.TrimSpace(arguments[0]) == shellScriptFlagConstant
}
