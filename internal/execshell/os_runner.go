package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"
)

const (
	environmentAssignmentSeparatorConstant = "="
	environmentAssignmentTemplateConstant  = "%s%s%s"
	lineTerminatorConstant                 = '\n'
	// DefaultOutputWaitDelay bounds how long Run waits for output pipes to close after the process exits.
	DefaultOutputWaitDelay = 10 * time.Second
)

// OutputStream identifies which process stream produced a line.
type OutputStream string

// Process output streams.
const (
	OutputStreamStandardOutput OutputStream = "stdout"
	OutputStreamStandardError  OutputStream = "stderr"
)

// OutputListener receives complete output lines as the process produces them.
type OutputListener func(stream OutputStream, line string)

// OSCommandRunner executes commands using the operating system facilities.
type OSCommandRunner struct {
	outputListener OutputListener
}

// OSCommandRunnerOption customizes an OSCommandRunner.
type OSCommandRunnerOption func(*OSCommandRunner)

// WithOutputListener streams every output line to listener while the process runs.
func WithOutputListener(listener OutputListener) OSCommandRunnerOption {
	return func(runner *OSCommandRunner) {
		runner.outputListener = listener
	}
}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner(options ...OSCommandRunnerOption) *OSCommandRunner {
	runner := &OSCommandRunner{}
	for _, option := range options {
		if option != nil {
			option(runner)
		}
	}
	return runner
}

// Run executes the supplied command using os/exec. A non-zero exit is reported through
// ExecutionResult.ExitCode rather than an error; errors mean the process could not run.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	commandArguments := append([]string{}, command.Details.Arguments...)
	executable := exec.CommandContext(executionContext, string(command.Name), commandArguments...)
	executable.WaitDelay = DefaultOutputWaitDelay

	if len(command.Details.WorkingDirectory) > 0 {
		executable.Dir = command.Details.WorkingDirectory
	}

	if len(command.Details.EnvironmentVariables) > 0 {
		mergedEnvironment := append([]string{}, os.Environ()...)
		for environmentKey, environmentValue := range command.Details.EnvironmentVariables {
			mergedEnvironment = append(mergedEnvironment, fmt.Sprintf(environmentAssignmentTemplateConstant, environmentKey, environmentAssignmentSeparatorConstant, environmentValue))
		}
		executable.Env = mergedEnvironment
	}

	var standardOutputBuffer bytes.Buffer
	var standardErrorBuffer bytes.Buffer
	standardOutputWriter, standardOutputLines := runner.wrapStream(&standardOutputBuffer, OutputStreamStandardOutput)
	standardErrorWriter, standardErrorLines := runner.wrapStream(&standardErrorBuffer, OutputStreamStandardError)
	executable.Stdout = standardOutputWriter
	executable.Stderr = standardErrorWriter

	if len(command.Details.StandardInput) > 0 {
		executable.Stdin = bytes.NewReader(command.Details.StandardInput)
	}

	runError := executable.Run()
	standardOutputLines.Flush()
	standardErrorLines.Flush()
	if runError != nil {
		exitError := &exec.ExitError{}
		if errors.As(runError, &exitError) {
			return ExecutionResult{
				StandardOutput: standardOutputBuffer.String(),
				StandardError:  standardErrorBuffer.String(),
				ExitCode:       exitError.ExitCode(),
			}, nil
		}
		return ExecutionResult{}, runError
	}

	return ExecutionResult{
		StandardOutput: standardOutputBuffer.String(),
		StandardError:  standardErrorBuffer.String(),
		ExitCode:       0,
	}, nil
}

func (runner *OSCommandRunner) wrapStream(buffer *bytes.Buffer, stream OutputStream) (io.Writer, *lineWriter) {
	if runner.outputListener == nil {
		return buffer, nil
	}
	lines := &lineWriter{stream: stream, listener: runner.outputListener}
	return io.MultiWriter(buffer, lines), lines
}

// lineWriter splits written bytes into lines and forwards each complete line to a listener.
type lineWriter struct {
	mutex    sync.Mutex
	stream   OutputStream
	listener OutputListener
	pending  []byte
}

func (writer *lineWriter) Write(data []byte) (int, error) {
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	writer.pending = append(writer.pending, data...)
	for {
		newlineIndex := bytes.IndexByte(writer.pending, lineTerminatorConstant)
		if newlineIndex < 0 {
			break
		}
		writer.listener(writer.stream, string(bytes.TrimRight(writer.pending[:newlineIndex], "\r")))
		writer.pending = writer.pending[newlineIndex+1:]
	}
	return len(data), nil
}

// Flush forwards a trailing partial line, if any.
func (writer *lineWriter) Flush() {
	if writer == nil {
		return
	}
	writer.mutex.Lock()
	defer writer.mutex.Unlock()

	if len(writer.pending) == 0 {
		return
	}
	writer.listener(writer.stream, string(writer.pending))
	writer.pending = nil
}
