package execshell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
)

// OSCommandRunner starts processes through os/exec, capturing their output and optionally mirroring it live.
type OSCommandRunner struct {
	liveStandardOutput io.Writer
	liveStandardError  io.Writer
}

// NewOSCommandRunner mirrors streamed commands to the process standard streams.
func NewOSCommandRunner() *OSCommandRunner {
	return NewOSCommandRunnerWithWriters(os.Stdout, os.Stderr)
}

// NewOSCommandRunnerWithWriters mirrors streamed commands to the provided writers; nil writers discard.
func NewOSCommandRunnerWithWriters(standardOutput io.Writer, standardError io.Writer) *OSCommandRunner {
	if standardOutput == nil {
		standardOutput = io.Discard
	}
	if standardError == nil {
		standardError = io.Discard
	}
	liveStandardOutput, liveStandardError := newStreamWriterPair(standardOutput, standardError)
	return &OSCommandRunner{liveStandardOutput: liveStandardOutput, liveStandardError: liveStandardError}
}

// Run starts the command and waits for it. A non-zero exit is reported through ExecutionResult.ExitCode, not as an error.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), command.Details.Arguments...)
	process.Dir = command.Details.WorkingDirectory

	var capturedOutput, capturedError bytes.Buffer
	process.Stdout = &capturedOutput
	process.Stderr = &capturedError
	if command.Details.StreamOutput {
		process.Stdout = io.MultiWriter(&capturedOutput, runner.liveStandardOutput)
		process.Stderr = io.MultiWriter(&capturedError, runner.liveStandardError)
	}

	exitCode := 0
	if runError := process.Run(); runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, runError
		}
		exitCode = exitError.ExitCode()
	}

	return ExecutionResult{
		StandardOutput: capturedOutput.String(),
		StandardError:  capturedError.String(),
		ExitCode:       exitCode,
	}, nil
}
