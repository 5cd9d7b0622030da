package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestAddToggleFlagParsesValues(t *testing.T) {
	testCases := []struct {
		name            string
		arguments       []string
		expectedValue   bool
		expectedChanged bool
	}{
		{name: "DefaultFalse", arguments: []string{}, expectedValue: false, expectedChanged: false},
		{name: "ImplicitTrue", arguments: []string{"--dry-run"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitYes", arguments: []string{"--dry-run=yes"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitTrueUppercase", arguments: []string{"--dry-run=TRUE"}, expectedValue: true, expectedChanged: true},
		{name: "ExplicitNo", arguments: []string{"--dry-run=no"}, expectedValue: false, expectedChanged: true},
		{name: "ExplicitZero", arguments: []string{"--dry-run=0"}, expectedValue: false, expectedChanged: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			command := &cobra.Command{}

			var toggleValue bool
			AddToggleFlag(command.Flags(), &toggleValue, "dry-run", false, "Print the plan")

			require.NoError(t, command.ParseFlags(testCase.arguments))
			require.Equal(t, testCase.expectedValue, toggleValue)

			flag := command.Flags().Lookup("dry-run")
			require.NotNil(t, flag)
			require.Equal(t, testCase.expectedChanged, flag.Changed)
			require.Equal(t, "`<yes|NO>` Print the plan", flag.Usage)
		})
	}
}

func TestAddToggleFlagRejectsInvalidValues(t *testing.T) {
	command := &cobra.Command{}

	var toggleValue bool
	AddToggleFlag(command.Flags(), &toggleValue, "dry-run", false, "Print the plan")

	require.Error(t, command.ParseFlags([]string{"--dry-run=maybe"}))
	require.False(t, toggleValue)
}

func TestParseToggle(t *testing.T) {
	testCases := []struct {
		rawValue      string
		expectedValue bool
		expectError   bool
	}{
		{rawValue: "", expectedValue: true},
		{rawValue: " On ", expectedValue: true},
		{rawValue: "y", expectedValue: true},
		{rawValue: "off", expectedValue: false},
		{rawValue: "N", expectedValue: false},
		{rawValue: "sometimes", expectError: true},
	}

	for _, testCase := range testCases {
		t.Run(testCase.rawValue, func(t *testing.T) {
			parsedValue, parseError := ParseToggle(testCase.rawValue)
			if testCase.expectError {
				require.Error(t, parseError)
				return
			}
			require.NoError(t, parseError)
			require.Equal(t, testCase.expectedValue, parsedValue)
		})
	}
}
