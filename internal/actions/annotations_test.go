package actions_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/subsplit/internal/actions"
)

func TestFailureReporter(testInstance *testing.T) {
	testCases := []struct {
		name           string
		environment    map[string]string
		failure        error
		expectedOutput string
	}{
		{
			name:           "annotates_inside_actions",
			environment:    map[string]string{actions.ActionsEnvironmentVariableName: "true"},
			failure:        errors.New("push pkg-a to pkg-a: rejected"),
			expectedOutput: "::error::push pkg-a to pkg-a: rejected\n",
		},
		{
			name:           "escapes_multiline_messages",
			environment:    map[string]string{actions.ActionsEnvironmentVariableName: "true"},
			failure:        errors.New("split pkg-a failed\nsplit pkg-b failed at 100%"),
			expectedOutput: "::error::split pkg-a failed%0Asplit pkg-b failed at 100%25\n",
		},
		{
			name:           "silent_outside_actions",
			environment:    map[string]string{},
			failure:        errors.New("ignored"),
			expectedOutput: "",
		},
		{
			name:           "nil_failure",
			environment:    map[string]string{actions.ActionsEnvironmentVariableName: "true"},
			expectedOutput: "",
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			outputBuffer := &bytes.Buffer{}
			reporter := actions.NewFailureReporter(outputBuffer, func(key string) (string, bool) {
				value, present := testCase.environment[key]
				return value, present
			})

			reporter.ReportFailure(testCase.failure)
			require.Equal(testInstance, testCase.expectedOutput, outputBuffer.String())
		})
	}
}
