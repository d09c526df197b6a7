package flags_test

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/temirov/gahcheck/internal/utils/flags"
)

func TestChoiceUsage(testInstance *testing.T) {
	testCases := []struct {
		name           string
		defaultChoice  string
		choices        []string
		description    string
		expectedOutput string
	}{
		{
			name:           "default_log_format",
			defaultChoice:  "console",
			choices:        []string{"structured", "console"},
			description:    "Override the configured log format.",
			expectedOutput: "<structured|CONSOLE> Override the configured log format.",
		},
		{
			name:           "duplicates_and_blanks_dropped",
			defaultChoice:  " Info ",
			choices:        []string{"debug", "info", "INFO", " ", "warn"},
			description:    "",
			expectedOutput: "<debug|INFO|warn>",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectedOutput, flags.ChoiceUsage(testCase.defaultChoice, testCase.choices, testCase.description))
		})
	}
}

func TestBindRootFlagsParsesRepeatedValues(testInstance *testing.T) {
	command := &cobra.Command{}

	values := flags.BindRootFlags(command, flags.RootFlagValues{Roots: []string{"."}})
	require.Equal(testInstance, []string{"."}, values.Roots)

	require.NoError(testInstance, command.ParseFlags([]string{"--" + flags.RootFlagName, "/workspace/shop", "--" + flags.RootFlagName, "/workspace/admin"}))
	require.Equal(testInstance, []string{"/workspace/shop", "/workspace/admin"}, values.Roots)
	require.True(testInstance, command.PersistentFlags().Changed(flags.RootFlagName))
}
