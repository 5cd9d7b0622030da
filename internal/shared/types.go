package shared

import (
	"context"
	"io/fs"

	"github.com/temirov/subsplit/internal/execshell"
)

// FileSystem exposes the filesystem operations required by subsplit services.
type FileSystem interface {
	Stat(path string) (fs.FileInfo, error)
	Abs(path string) (string, error)
	MkdirAll(path string, permissions fs.FileMode) error
	Remove(path string) error
	RemoveAll(path string) error
}

// CommandExecutor runs git and other external tools.
type CommandExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteCommand(executionContext context.Context, name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}
