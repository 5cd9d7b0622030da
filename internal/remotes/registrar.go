// Package remotes registers the git remotes that sub-splits are pushed to.
package remotes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/subsplit/internal/execshell"
	"github.com/temirov/subsplit/internal/shared"
)

const (
	// RemoteExistsExitCodeConstant is the exit code git remote add returns when the remote is already configured.
	RemoteExistsExitCodeConstant = 3

	gitRemoteSubcommandConstant          = "remote"
	gitRemoteAddSubcommandConstant       = "add"
	remoteNameRequiredMessageConstant    = "remote name must be provided"
	remoteURLRequiredMessageConstant     = "remote url must be provided"
	executorNotConfiguredMessageConstant = "remote registrar command executor not configured"
	registrationErrorTemplateConstant    = "register remote %s: %w"
	remoteRegisteredMessageConstant      = "remote registered"
	remoteAlreadyExistsMessageConstant   = "remote already exists"
	logFieldRemoteNameConstant           = "remote"
	logFieldRemoteURLConstant            = "remote_url"
	logFieldRepositoryPathConstant       = "repository_path"
)

var (
	// ErrRemoteNameRequired indicates an empty remote name.
	ErrRemoteNameRequired = errors.New(remoteNameRequiredMessageConstant)
	// ErrRemoteURLRequired indicates an empty remote URL.
	ErrRemoteURLRequired = errors.New(remoteURLRequiredMessageConstant)
	// ErrExecutorNotConfigured indicates the registrar was built without a command executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// Dependencies captures collaborators required to register remotes.
type Dependencies struct {
	Executor shared.CommandExecutor
	Logger   *zap.Logger
}

// Registrar adds named remotes to a repository, treating an existing remote as success.
type Registrar struct {
	dependencies   Dependencies
	repositoryPath string
}

// NewRegistrar constructs a Registrar operating on repositoryPath; an empty path means the current directory.
func NewRegistrar(dependencies Dependencies, repositoryPath string) *Registrar {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Registrar{dependencies: dependencies, repositoryPath: strings.TrimSpace(repositoryPath)}
}

// EnsureRemote runs `git remote add <name> <url>`. The URL of an already existing remote is left untouched.
func (registrar *Registrar) EnsureRemote(executionContext context.Context, name string, remoteURL string) error {
	trimmedName := strings.TrimSpace(name)
	if len(trimmedName) == 0 {
		return ErrRemoteNameRequired
	}
	trimmedURL := strings.TrimSpace(remoteURL)
	if len(trimmedURL) == 0 {
		return ErrRemoteURLRequired
	}
	if registrar.dependencies.Executor == nil {
		return ErrExecutorNotConfigured
	}

	_, executionError := registrar.dependencies.Executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:        []string{gitRemoteSubcommandConstant, gitRemoteAddSubcommandConstant, trimmedName, trimmedURL},
		WorkingDirectory: registrar.repositoryPath,
	})

	logFields := []zap.Field{
		zap.String(logFieldRemoteNameConstant, trimmedName),
		zap.String(logFieldRemoteURLConstant, trimmedURL),
		zap.String(logFieldRepositoryPathConstant, registrar.repositoryPath),
	}

	if executionError == nil {
		registrar.dependencies.Logger.Debug(remoteRegisteredMessageConstant, logFields...)
		return nil
	}
	if IsRemoteExistsError(executionError) {
		registrar.dependencies.Logger.Debug(remoteAlreadyExistsMessageConstant, logFields...)
		return nil
	}

	return fmt.Errorf(registrationErrorTemplateConstant, trimmedName, executionError)
}

// IsRemoteExistsError reports whether err is git's "remote already exists" failure.
func IsRemoteExistsError(err error) bool {
	var failedError execshell.CommandFailedError
	if !errors.As(err, &failedError) {
		return false
	}
	return failedError.ExitCode() == RemoteExistsExitCodeConstant
}
