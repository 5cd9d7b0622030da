package publish_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/subsplit/internal/execshell"
	"github.com/temirov/subsplit/internal/publish"
)

const (
	testBinaryPathConstant       = "/workspace/bin/splitsh-lite"
	testWorkingDirectoryConstant = "/workspace/monorepo"
)

type scriptedExecutor struct {
	splitOutput  string
	splitFailure error
	pushFailure  error
	commands     []string
	directories  []string
}

func (executor *scriptedExecutor) record(name execshell.CommandName, details execshell.CommandDetails) {
	executor.commands = append(executor.commands, strings.TrimSpace(string(name)+" "+strings.Join(details.Arguments, " ")))
	executor.directories = append(executor.directories, details.WorkingDirectory)
}

func (executor *scriptedExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.record(execshell.CommandGit, details)
	return execshell.ExecutionResult{}, executor.pushFailure
}

func (executor *scriptedExecutor) ExecuteCommand(_ context.Context, name execshell.CommandName, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.record(name, details)
	if executor.splitFailure != nil {
		return execshell.ExecutionResult{}, executor.splitFailure
	}
	return execshell.ExecutionResult{StandardOutput: executor.splitOutput}, nil
}

func testRequest() publish.Request {
	return publish.Request{
		BinaryPath:   testBinaryPathConstant,
		Origin:       "origin",
		TargetRemote: "pkg-a",
		Branch:       "main",
		SplitName:    "pkg-a",
		Directory:    "packages/a",
	}
}

func TestPublishSplitsThenForcePushes(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.DebugLevel)
	executor := &scriptedExecutor{splitOutput: "deadbeef\n"}
	publisher := publish.NewPublisher(publish.Dependencies{Executor: executor, Logger: zap.New(observerCore)}, testWorkingDirectoryConstant)

	result, publishError := publisher.Publish(context.Background(), testRequest())

	require.NoError(testInstance, publishError)
	require.Equal(testInstance, publish.Result{SplitName: "pkg-a", CommitID: "deadbeef", Reference: "refs/heads/main"}, result)
	require.Equal(testInstance, []string{
		"/workspace/bin/splitsh-lite --prefix=packages/a --origin=origin/main",
		"git push pkg-a deadbeef:refs/heads/main -f",
	}, executor.commands)
	require.Equal(testInstance, []string{testWorkingDirectoryConstant, testWorkingDirectoryConstant}, executor.directories)

	pushedEntries := observedLogs.FilterMessage("split pushed").All()
	require.Len(testInstance, pushedEntries, 1)
	require.Equal(testInstance, "deadbeef", pushedEntries[0].ContextMap()["commit"])
}

func TestPublishFailures(testInstance *testing.T) {
	splitFailure := errors.New("fatal: ambiguous argument origin/main")
	pushFailure := errors.New("remote rejected")

	testCases := []struct {
		name             string
		executor         *scriptedExecutor
		expectedCause    error
		expectedText     string
		expectedCommands int
	}{
		{
			name:             "split_failure_skips_push",
			executor:         &scriptedExecutor{splitFailure: splitFailure},
			expectedCause:    splitFailure,
			expectedText:     "split pkg-a (packages/a)",
			expectedCommands: 1,
		},
		{
			name:             "empty_commit_skips_push",
			executor:         &scriptedExecutor{splitOutput: " \n"},
			expectedCause:    publish.ErrEmptyCommit,
			expectedText:     "split pkg-a (packages/a): split produced no commit id",
			expectedCommands: 1,
		},
		{
			name:             "push_failure",
			executor:         &scriptedExecutor{splitOutput: "deadbeef", pushFailure: pushFailure},
			expectedCause:    pushFailure,
			expectedText:     "push pkg-a to pkg-a",
			expectedCommands: 2,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			publisher := publish.NewPublisher(publish.Dependencies{Executor: testCase.executor}, "")

			result, publishError := publisher.Publish(context.Background(), testRequest())

			require.Error(testInstance, publishError)
			require.ErrorIs(testInstance, publishError, testCase.expectedCause)
			require.ErrorContains(testInstance, publishError, testCase.expectedText)
			require.Equal(testInstance, publish.Result{}, result)
			require.Len(testInstance, testCase.executor.commands, testCase.expectedCommands)
		})
	}
}

type stubSplitBinary struct {
	commitID    string
	prefixes    []string
	origins     []string
	binaryPaths []string
}

func (binary *stubSplitBinary) Split(_ context.Context, prefix string, originSpecification string) (string, error) {
	binary.prefixes = append(binary.prefixes, prefix)
	binary.origins = append(binary.origins, originSpecification)
	return binary.commitID, nil
}

func TestPublishUsesInjectedSplitBinary(testInstance *testing.T) {
	executor := &scriptedExecutor{}
	splitBinary := &stubSplitBinary{commitID: "cafebabe"}
	publisher := publish.NewPublisher(publish.Dependencies{
		Executor: executor,
		SplitBinaryFactory: func(binaryPath string) publish.SplitBinary {
			splitBinary.binaryPaths = append(splitBinary.binaryPaths, binaryPath)
			return splitBinary
		},
	}, "")

	request := testRequest()
	request.Origin = "upstream"
	request.Branch = "1.x"
	result, publishError := publisher.Publish(context.Background(), request)

	require.NoError(testInstance, publishError)
	require.Equal(testInstance, "cafebabe", result.CommitID)
	require.Equal(testInstance, []string{testBinaryPathConstant}, splitBinary.binaryPaths)
	require.Equal(testInstance, []string{"packages/a"}, splitBinary.prefixes)
	require.Equal(testInstance, []string{"upstream/1.x"}, splitBinary.origins)
	require.Equal(testInstance, []string{"git push pkg-a cafebabe:refs/heads/1.x -f"}, executor.commands)
}

func TestPublishRequiresExecutor(testInstance *testing.T) {
	publisher := publish.NewPublisher(publish.Dependencies{}, "")

	_, publishError := publisher.Publish(context.Background(), testRequest())

	require.ErrorIs(testInstance, publishError, publish.ErrExecutorNotConfigured)
}

func TestShellSplitBinaryTrimsOutput(testInstance *testing.T) {
	executor := &scriptedExecutor{splitOutput: "  0123abcd\r\n"}
	splitBinary := publish.NewShellSplitBinary(executor, testBinaryPathConstant, testWorkingDirectoryConstant)

	commitID, splitError := splitBinary.Split(context.Background(), "packages/b", publish.OriginSpecification("origin", "develop"))

	require.NoError(testInstance, splitError)
	require.Equal(testInstance, "0123abcd", commitID)
	require.Equal(testInstance, []string{"/workspace/bin/splitsh-lite --prefix=packages/b --origin=origin/develop"}, executor.commands)
}
