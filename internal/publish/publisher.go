package publish

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
	gitPushSubcommandConstant            = "push"
	gitForceFlagConstant                 = "-f"
	pushReferenceTemplateConstant        = "%s:%s"
	branchReferenceTemplateConstant      = "refs/heads/%s"
	emptyCommitMessageConstant           = "split produced no commit id"
	executorNotConfiguredMessageConstant = "publisher command executor not configured"
	splitErrorTemplateConstant           = "split %s (%s): %w"
	pushErrorTemplateConstant            = "push %s to %s: %w"
	splitCompletedMessageConstant        = "split computed"
	splitPushedMessageConstant           = "split pushed"
	logFieldSplitNameConstant            = "split"
	logFieldDirectoryConstant            = "directory"
	logFieldCommitConstant               = "commit"
	logFieldTargetRemoteConstant         = "target_remote"
	logFieldReferenceConstant            = "reference"
)

var (
	// ErrEmptyCommit indicates the split binary printed nothing, so there is nothing to push.
	ErrEmptyCommit = errors.New(emptyCommitMessageConstant)
	// ErrExecutorNotConfigured indicates the publisher was built without a command executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// Request describes one split to publish.
type Request struct {
	BinaryPath   string
	Origin       string
	TargetRemote string
	Branch       string
	SplitName    string
	Directory    string
}

// Result reports what was pushed.
type Result struct {
	SplitName string
	CommitID  string
	Reference string
}

// SplitBinaryFactory builds the SplitBinary used for a given executable path.
type SplitBinaryFactory func(binaryPath string) SplitBinary

// Dependencies captures collaborators required to publish splits.
type Dependencies struct {
	Executor shared.CommandExecutor
	Logger   *zap.Logger
	// SplitBinaryFactory defaults to a ShellSplitBinary running through Executor.
	SplitBinaryFactory SplitBinaryFactory
}

// Publisher splits a directory and force pushes the resulting commit.
type Publisher struct {
	dependencies     Dependencies
	workingDirectory string
}

// NewPublisher constructs a Publisher that runs git in workingDirectory.
func NewPublisher(dependencies Dependencies, workingDirectory string) *Publisher {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	publisher := &Publisher{dependencies: dependencies, workingDirectory: strings.TrimSpace(workingDirectory)}
	if publisher.dependencies.SplitBinaryFactory == nil {
		publisher.dependencies.SplitBinaryFactory = func(binaryPath string) SplitBinary {
			return NewShellSplitBinary(publisher.dependencies.Executor, binaryPath, publisher.workingDirectory)
		}
	}
	return publisher
}

// BranchReference returns "refs/heads/<branch>".
func BranchReference(branch string) string {
	return fmt.Sprintf(branchReferenceTemplateConstant, branch)
}

// Publish runs the split binary for request.Directory against <Origin>/<Branch> and then
// `git push <TargetRemote> <commit>:refs/heads/<Branch> -f`. Nothing is pushed when the split fails
// or yields an empty commit id.
func (publisher *Publisher) Publish(executionContext context.Context, request Request) (Result, error) {
	if publisher.dependencies.Executor == nil {
		return Result{}, ErrExecutorNotConfigured
	}

	logger := publisher.dependencies.Logger.With(
		zap.String(logFieldSplitNameConstant, request.SplitName),
		zap.String(logFieldDirectoryConstant, request.Directory),
	)

	splitBinary := publisher.dependencies.SplitBinaryFactory(request.BinaryPath)
	commitID, splitError := splitBinary.Split(executionContext, request.Directory, OriginSpecification(request.Origin, request.Branch))
	if splitError != nil {
		return Result{}, fmt.Errorf(splitErrorTemplateConstant, request.SplitName, request.Directory, splitError)
	}
	commitID = strings.TrimSpace(commitID)
	if len(commitID) == 0 {
		return Result{}, fmt.Errorf(splitErrorTemplateConstant, request.SplitName, request.Directory, ErrEmptyCommit)
	}
	logger.Debug(splitCompletedMessageConstant, zap.String(logFieldCommitConstant, commitID))

	reference := BranchReference(request.Branch)
	_, pushError := publisher.dependencies.Executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments: []string{
			gitPushSubcommandConstant,
			request.TargetRemote,
			fmt.Sprintf(pushReferenceTemplateConstant, commitID, reference),
			gitForceFlagConstant,
		},
		WorkingDirectory: publisher.workingDirectory,
	})
	if pushError != nil {
		return Result{}, fmt.Errorf(pushErrorTemplateConstant, request.SplitName, request.TargetRemote, pushError)
	}

	logger.Info(
		splitPushedMessageConstant,
		zap.String(logFieldCommitConstant, commitID),
		zap.String(logFieldTargetRemoteConstant, request.TargetRemote),
		zap.String(logFieldReferenceConstant, reference),
	)

	return Result{SplitName: request.SplitName, CommitID: commitID, Reference: reference}, nil
}
