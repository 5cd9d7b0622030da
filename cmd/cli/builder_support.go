package cli

import (
	"errors"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/subsplit/internal/parameters"
)

const (
	unexpectedArgumentsMessageConstant = "command does not accept positional arguments"
	configPathFlagUsageConstant        = "Path to the JSON or YAML file listing sub-splits."
	splitshPathFlagUsageConstant       = "Location of the splitsh-lite binary; downloaded when missing."
	splitshVersionFlagUsageConstant    = "splitsh-lite release tag to download, e.g. v1.0.1."
	originRemoteFlagUsageConstant      = "Remote holding the source branch."
	sourceBranchFlagUsageConstant      = "Branch to split and publish."
	scratchDirFlagUsageConstant        = "Scratch directory for the splitsh-lite download."
	dryRunFlagUsageConstant            = "Print the plan without running any command."
)

var errUnexpectedArguments = errors.New(unexpectedArgumentsMessageConstant)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// EnvironmentLookup reads an environment variable.
type EnvironmentLookup func(key string) (string, bool)

func resolveLogger(provider LoggerProvider) *zap.Logger {
	if provider == nil {
		return zap.NewNop()
	}
	if logger := provider(); logger != nil {
		return logger
	}
	return zap.NewNop()
}

func resolveHumanReadableLogging(provider func() bool) bool {
	if provider == nil {
		return false
	}
	return provider()
}

func resolvePublishConfiguration(provider func() PublishConfiguration) PublishConfiguration {
	if provider == nil {
		return PublishConfiguration{}
	}
	return provider()
}

func newParameterRetriever(command *cobra.Command, lookupEnvironment EnvironmentLookup, configuration PublishConfiguration) parameters.Retriever {
	return parameters.NewRetriever(
		parameters.NewFlagSource(command),
		parameters.NewActionsInputSource(lookupEnvironment),
		configuration.parameterSource(),
	)
}

func resolveAgainst(workingDirectory string, path string) string {
	if len(path) == 0 || len(workingDirectory) == 0 || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(workingDirectory, path)
}
