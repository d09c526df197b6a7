package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandMessageFormatter(testInstance *testing.T) {
	formatter := CommandMessageFormatter{}
	lintCommand := ShellCommand{
		Name:    CommandShell,
		Details: CommandDetails{Arguments: []string{"-c", "ng lint"}, WorkingDirectory: "/workspace/core"},
	}
	installCommand := ShellCommand{
		Name:    CommandShell,
		Details: CommandDetails{Arguments: []string{"-c", "yarn global add prettier@^2.8.8"}},
	}
	rootLookupCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"rev-parse", "--show-toplevel"}, WorkingDirectory: "/workspace/host"},
	}
	statusCommand := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"status"}, WorkingDirectory: "/workspace"},
	}

	testCases := []struct {
		name     string
		message  string
		expected string
	}{
		{
			name:     "script_started",
			message:  formatter.BuildStartedMessage(lintCommand),
			expected: "Running `ng lint` in /workspace/core",
		},
		{
			name:     "script_failed_with_stderr",
			message:  formatter.BuildFailureMessage(lintCommand, ExecutionResult{ExitCode: 2, StandardError: "lint errors\n"}),
			expected: "`ng lint` failed in /workspace/core (exit code 2: lint errors)",
		},
		{
			name:     "script_without_directory_succeeded",
			message:  formatter.BuildSuccessMessage(installCommand, ExecutionResult{}),
			expected: "`yarn global add prettier@^2.8.8` succeeded in current directory",
		},
		{
			name:     "repository_root_resolved",
			message:  formatter.BuildSuccessMessage(rootLookupCommand, ExecutionResult{StandardOutput: "/workspace\n"}),
			expected: "Repository root for /workspace/host is /workspace",
		},
		{
			name:     "repository_root_failed",
			message:  formatter.BuildFailureMessage(rootLookupCommand, ExecutionResult{ExitCode: 128}),
			expected: "Failed to resolve repository root for /workspace/host (exit code 128)",
		},
		{
			name:     "generic_started_with_directory",
			message:  formatter.BuildStartedMessage(statusCommand),
			expected: "Running git status (in /workspace)",
		},
		{
			name:     "generic_execution_failure",
			message:  formatter.BuildExecutionFailureMessage(ShellCommand{Name: CommandGit, Details: CommandDetails{Arguments: []string{"status"}}}, errors.New("not found")),
			expected: "git status failed: not found",
		},
		{
			name:     "execution_failure_without_error",
			message:  formatter.BuildExecutionFailureMessage(lintCommand, nil),
			expected: "Unable to run `ng lint` in /workspace/core: unknown error",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expected, testCase.message)
		})
	}
}
