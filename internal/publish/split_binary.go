package publish

import (
	"context"
	"fmt"
	"strings"

	"github.com/temirov/subsplit/internal/execshell"
	"github.com/temirov/subsplit/internal/shared"
)

const (
	prefixArgumentTemplateConstant = "--prefix=%s"
	originArgumentTemplateConstant = "--origin=%s"
	originSpecificationTemplate    = "%s/%s"
)

// SplitBinary computes the commit that holds the filtered history of a directory.
type SplitBinary interface {
	Split(executionContext context.Context, prefix string, originSpecification string) (string, error)
}

// ShellSplitBinary invokes a splitsh-lite executable through a command executor.
type ShellSplitBinary struct {
	executor         shared.CommandExecutor
	binaryPath       string
	workingDirectory string
}

// NewShellSplitBinary constructs a ShellSplitBinary for the executable at binaryPath.
func NewShellSplitBinary(executor shared.CommandExecutor, binaryPath string, workingDirectory string) *ShellSplitBinary {
	return &ShellSplitBinary{executor: executor, binaryPath: binaryPath, workingDirectory: workingDirectory}
}

// Split runs `<binary> --prefix=<prefix> --origin=<origin>` and returns the whole of
// standard output with surrounding whitespace removed.
func (binary *ShellSplitBinary) Split(executionContext context.Context, prefix string, originSpecification string) (string, error) {
	executionResult, executionError := binary.executor.ExecuteCommand(executionContext, execshell.CommandName(binary.binaryPath), execshell.CommandDetails{
		Arguments: []string{
			fmt.Sprintf(prefixArgumentTemplateConstant, prefix),
			fmt.Sprintf(originArgumentTemplateConstant, originSpecification),
		},
		WorkingDirectory: binary.workingDirectory,
	})
	if executionError != nil {
		return "", executionError
	}
	return strings.TrimSpace(executionResult.StandardOutput), nil
}

// OriginSpecification joins a remote and branch into "<remote>/<branch>".
func OriginSpecification(originRemote string, branch string) string {
	return fmt.Sprintf(originSpecificationTemplate, originRemote, branch)
}
