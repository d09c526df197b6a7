package execshell_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/gahcheck/internal/execshell"
)

const (
	testLintScriptConstant       = "ng lint"
	testWorkingDirectoryConstant = "/workspace/core"
)

type recordingCommandRunner struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.ShellCommand
	recordedDeadline bool
}

func (runner *recordingCommandRunner) Run(executionContext context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	runner.recordedCommands = append(runner.recordedCommands, command)
	_, runner.recordedDeadline = executionContext.Deadline()
	return runner.executionResult, runner.executionError
}

type recordingEventObserver struct {
	events []string
}

func (eventObserver *recordingEventObserver) CommandStarted(execshell.ShellCommand) {
	eventObserver.events = append(eventObserver.events, "started")
}

func (eventObserver *recordingEventObserver) CommandCompleted(_ execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode == 0 {
		eventObserver.events = append(eventObserver.events, "completed")
		return
	}
	eventObserver.events = append(eventObserver.events, "completed_with_failure")
}

func (eventObserver *recordingEventObserver) CommandExecutionFailed(execshell.ShellCommand, error) {
	eventObserver.events = append(eventObserver.events, "execution_failed")
}

func TestNewShellExecutorRequiresCollaborators(testInstance *testing.T) {
	_, loggerError := execshell.NewShellExecutor(nil, &recordingCommandRunner{})
	require.ErrorIs(testInstance, loggerError, execshell.ErrLoggerNotConfigured)

	_, runnerError := execshell.NewShellExecutor(zap.NewNop(), nil)
	require.ErrorIs(testInstance, runnerError, execshell.ErrCommandRunnerNotConfigured)

	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), &recordingCommandRunner{})
	require.NoError(testInstance, creationError)
	require.NotNil(testInstance, shellExecutor)
}

func TestShellExecutorExecuteShell(testInstance *testing.T) {
	testCases := []struct {
		name              string
		runnerResult      execshell.ExecutionResult
		runnerError       error
		expectFailure     bool
		expectUnstartable bool
		expectedEvents    []string
		expectedLevels    []zapcore.Level
	}{
		{
			name:           "zero_exit",
			runnerResult:   execshell.ExecutionResult{StandardOutput: "All files pass linting."},
			expectedEvents: []string{"started", "completed"},
			expectedLevels: []zapcore.Level{zapcore.DebugLevel, zapcore.DebugLevel},
		},
		{
			name:           "non_zero_exit",
			runnerResult:   execshell.ExecutionResult{StandardError: "Lint errors found", ExitCode: 2},
			expectFailure:  true,
			expectedEvents: []string{"started", "completed_with_failure"},
			expectedLevels: []zapcore.Level{zapcore.DebugLevel, zapcore.WarnLevel},
		},
		{
			name:              "process_not_started",
			runnerError:       errors.New("exec: \"sh\": executable file not found in $PATH"),
			expectUnstartable: true,
			expectedEvents:    []string{"started", "execution_failed"},
			expectedLevels:    []zapcore.Level{zapcore.DebugLevel, zapcore.ErrorLevel},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			observerCore, observedLogs := observer.New(zapcore.DebugLevel)
			recordingRunner := &recordingCommandRunner{executionResult: testCase.runnerResult, executionError: testCase.runnerError}
			eventObserver := &recordingEventObserver{}

			shellExecutor, creationError := execshell.NewShellExecutor(zap.New(observerCore), recordingRunner, execshell.WithCommandEventObserver(eventObserver))
			require.NoError(testInstance, creationError)

			executionResult, executionError := shellExecutor.ExecuteShell(
				context.Background(),
				testLintScriptConstant,
				execshell.CommandDetails{Arguments: []string{"--fix"}, WorkingDirectory: testWorkingDirectoryConstant},
			)

			var commandFailure execshell.CommandFailedError
			var executionFailure execshell.CommandExecutionError
			switch {
			case testCase.expectFailure:
				require.ErrorAs(testInstance, executionError, &commandFailure)
				require.Equal(testInstance, testCase.runnerResult.ExitCode, commandFailure.Result.ExitCode)
				require.Empty(testInstance, executionResult.StandardOutput)
			case testCase.expectUnstartable:
				require.ErrorAs(testInstance, executionError, &executionFailure)
				require.ErrorIs(testInstance, executionError, testCase.runnerError)
			default:
				require.NoError(testInstance, executionError)
				require.Equal(testInstance, testCase.runnerResult.StandardOutput, executionResult.StandardOutput)
			}

			require.Len(testInstance, recordingRunner.recordedCommands, 1)
			recordedCommand := recordingRunner.recordedCommands[0]
			require.Equal(testInstance, execshell.CommandShell, recordedCommand.Name)
			require.Equal(testInstance, []string{"-c", testLintScriptConstant}, recordedCommand.Details.Arguments)
			require.Equal(testInstance, testWorkingDirectoryConstant, recordedCommand.Details.WorkingDirectory)
			require.False(testInstance, recordingRunner.recordedDeadline)
			require.Equal(testInstance, testCase.expectedEvents, eventObserver.events)

			entries := observedLogs.All()
			require.Len(testInstance, entries, len(testCase.expectedLevels))
			for entryIndex, entry := range entries {
				require.Equal(testInstance, testCase.expectedLevels[entryIndex], entry.Level)
				require.Equal(testInstance, testWorkingDirectoryConstant, entry.ContextMap()["working_directory"])
			}
		})
	}
}

func TestCommandFailedErrorCarriesCapturedOutput(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{
		executionResult: execshell.ExecutionResult{StandardOutput: "src/app.ts: 3 problems", StandardError: "lint failed", ExitCode: 1},
	}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner)
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.ExecuteShell(context.Background(), testLintScriptConstant, execshell.CommandDetails{})

	var commandFailure execshell.CommandFailedError
	require.ErrorAs(testInstance, executionError, &commandFailure)
	require.Equal(testInstance, "src/app.ts: 3 problems\nlint failed", commandFailure.Result.CombinedOutput())
	require.Equal(testInstance, "sh -c ng lint exited with code 1: lint failed", commandFailure.Error())
}

func TestShellExecutorAppliesCommandTimeout(testInstance *testing.T) {
	recordingRunner := &recordingCommandRunner{}
	shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), recordingRunner, execshell.WithCommandTimeout(time.Minute))
	require.NoError(testInstance, creationError)

	_, executionError := shellExecutor.ExecuteGit(context.Background(), execshell.CommandDetails{Arguments: []string{"rev-parse", "--show-toplevel"}})
	require.NoError(testInstance, executionError)
	require.True(testInstance, recordingRunner.recordedDeadline)
	require.Equal(testInstance, execshell.CommandGit, recordingRunner.recordedCommands[0].Name)
}

func TestOSCommandRunnerRunsInWorkingDirectory(testInstance *testing.T) {
	moduleDirectory := testInstance.TempDir()
	runner := execshell.NewOSCommandRunnerWithWriters(nil, nil)

	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandShell,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "echo linted > report.txt"}, WorkingDirectory: moduleDirectory},
	})

	require.NoError(testInstance, runError)
	require.Zero(testInstance, executionResult.ExitCode)
	report, readError := os.ReadFile(filepath.Join(moduleDirectory, "report.txt"))
	require.NoError(testInstance, readError)
	require.Equal(testInstance, "linted\n", string(report))
}

func TestOSCommandRunnerReportsStartFailure(testInstance *testing.T) {
	runner := execshell.NewOSCommandRunnerWithWriters(nil, nil)

	_, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandShell,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "true"}, WorkingDirectory: "/nonexistent/gahcheck/module"},
	})

	require.Error(testInstance, runError)
}

func TestOSCommandRunnerCapturesWithoutStreaming(testInstance *testing.T) {
	var liveOutput bytes.Buffer
	runner := execshell.NewOSCommandRunnerWithWriters(&liveOutput, &liveOutput)

	executionResult, runError := runner.Run(context.Background(), execshell.ShellCommand{
		Name:    execshell.CommandShell,
		Details: execshell.CommandDetails{Arguments: []string{"-c", "echo captured"}, WorkingDirectory: testInstance.TempDir()},
	})

	require.NoError(testInstance, runError)
	require.Zero(testInstance, executionResult.ExitCode)
	require.Equal(testInstance, "captured\n", executionResult.StandardOutput)
	require.Empty(testInstance, liveOutput.String())
}
