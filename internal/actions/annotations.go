package actions

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// ActionsEnvironmentVariableName is set to "true" by the GitHub Actions runner.
	ActionsEnvironmentVariableName = "GITHUB_ACTIONS"
	actionsEnabledValueConstant    = "true"
	errorCommandTemplateConstant   = "::error::%s\n"
)

var commandDataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

// FailureReporter marks a workflow step as failed with an error annotation.
type FailureReporter struct {
	writer  io.Writer
	enabled bool
}

// NewFailureReporter constructs a FailureReporter. Annotations are written only when
// lookupEnvironment reports GITHUB_ACTIONS=true; a nil lookup reads the process environment
// and a nil writer targets os.Stdout.
func NewFailureReporter(writer io.Writer, lookupEnvironment func(key string) (string, bool)) FailureReporter {
	if writer == nil {
		writer = os.Stdout
	}
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}
	value, _ := lookupEnvironment(ActionsEnvironmentVariableName)
	return FailureReporter{
		writer:  writer,
		enabled: strings.EqualFold(strings.TrimSpace(value), actionsEnabledValueConstant),
	}
}

// ReportFailure writes an ::error:: annotation carrying the error message.
func (reporter FailureReporter) ReportFailure(failure error) {
	if !reporter.enabled || failure == nil {
		return
	}
	fmt.Fprintf(reporter.writer, errorCommandTemplateConstant, EscapeCommandData(failure.Error()))
}

// EscapeCommandData encodes characters that would terminate a workflow command.
func EscapeCommandData(message string) string {
	return commandDataEscaper.Replace(message)
}
