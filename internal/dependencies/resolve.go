// Package dependencies resolves default collaborators when callers leave them unset.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/temirov/subsplit/internal/execshell"
	"github.com/temirov/subsplit/internal/filesystem"
	"github.com/temirov/subsplit/internal/shared"
	"github.com/temirov/subsplit/internal/ui"
)

const (
	commandOutputMessageConstant = "command output"
	logFieldStreamConstant       = "stream"
	logFieldLineConstant         = "line"
)

// ResolveFileSystem returns the provided filesystem or an OS-backed default.
func ResolveFileSystem(existing shared.FileSystem) shared.FileSystem {
	if existing != nil {
		return existing
	}
	return filesystem.OSFileSystem{}
}

// ResolveLogger returns the provided logger or a no-op logger.
func ResolveLogger(existing *zap.Logger) *zap.Logger {
	if existing != nil {
		return existing
	}
	return zap.NewNop()
}

// ResolveCommandExecutor returns the provided executor or constructs a shell-backed default.
// Command output is streamed line by line to the logger at debug level. Human-readable
// logging instead routes lifecycle events and output lines through ui.ConsoleCommandEventLogger.
func ResolveCommandExecutor(existing shared.CommandExecutor, logger *zap.Logger, humanReadableLogging bool) (shared.CommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	resolvedLogger := ResolveLogger(logger)
	executorOptions := []execshell.ShellExecutorOption{}
	outputListener := func(stream execshell.OutputStream, line string) {
		resolvedLogger.Debug(commandOutputMessageConstant, zap.String(logFieldStreamConstant, string(stream)), zap.String(logFieldLineConstant, line))
	}
	if humanReadableLogging {
		consoleLogger := ui.NewConsoleCommandEventLogger(resolvedLogger)
		executorOptions = append(executorOptions, execshell.WithCommandEventObserver(consoleLogger))
		outputListener = consoleLogger.CommandOutput
	}

	commandRunner := execshell.NewOSCommandRunner(execshell.WithOutputListener(outputListener))
	shellExecutor, creationError := execshell.NewShellExecutor(resolvedLogger, commandRunner, executorOptions...)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}
