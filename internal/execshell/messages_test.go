package execshell

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuildStartedMessageForRemoteAddIncludesNameAndURL(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name: CommandGit,
		Details: CommandDetails{
			Arguments:        []string{"remote", "add", "pkg-a", "git@host:org/pkg-a.git"},
			WorkingDirectory: "/workspace/monorepo",
		},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Registering remote pkg-a for git@host:org/pkg-a.git in /workspace/monorepo", message)
}

func TestBuildFailureMessageForRemoteAddIncludesExitCodeAndStandardError(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"remote", "add", "pkg-a", "git@host:org/pkg-a.git"}},
	}

	message := formatter.BuildFailureMessage(command, ExecutionResult{ExitCode: 3, StandardError: "error: remote pkg-a already exists.\n"})

	require.Equal(t, "Failed to register remote pkg-a for git@host:org/pkg-a.git in current directory (exit code 3: error: remote pkg-a already exists.)", message)
}

func TestBuildStartedMessageForForcePushUsesDestinationReference(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandGit,
		Details: CommandDetails{Arguments: []string{"push", "pkg-a", "deadbeef:refs/heads/main", "-f"}},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Force pushing refs/heads/main to pkg-a from current directory", message)
}

func TestBuildSuccessMessageForSplitIncludesCommit(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandName("/opt/bin/splitsh-lite"),
		Details: CommandDetails{Arguments: []string{"--prefix=packages/a", "--origin=origin/main"}},
	}

	message := formatter.BuildSuccessMessage(command, ExecutionResult{StandardOutput: "deadbeef\n"})

	require.Equal(t, "Split packages/a from origin/main into deadbeef", message)
}

func TestBuildStartedMessageForDownloadDescribesSourceAndDestination(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandWget,
		Details: CommandDetails{Arguments: []string{"-O", "/tmp/splitsh-download/split-lite.tar.gz", "https://example.com/lite.tar.gz"}},
	}

	message := formatter.BuildStartedMessage(command)

	require.Equal(t, "Downloading https://example.com/lite.tar.gz to /tmp/splitsh-download/split-lite.tar.gz", message)
}

func TestBuildExecutionFailureMessageForGenericCommand(t *testing.T) {
	formatter := CommandMessageFormatter{}
	command := ShellCommand{
		Name:    CommandChmod,
		Details: CommandDetails{Arguments: []string{"+x", "/tmp/splitsh-download/splitsh-lite"}},
	}

	message := formatter.BuildExecutionFailureMessage(command, errors.New("executable file not found in $PATH"))

	require.Equal(t, "chmod +x /tmp/splitsh-download/splitsh-lite failed: executable file not found in $PATH", message)
}
