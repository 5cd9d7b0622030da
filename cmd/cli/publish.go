package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/subsplit/internal/dependencies"
	"github.com/temirov/subsplit/internal/orchestration"
	"github.com/temirov/subsplit/internal/parameters"
	"github.com/temirov/subsplit/internal/shared"
	"github.com/temirov/subsplit/internal/utils"
	"github.com/temirov/subsplit/internal/utils/flags"
)

const (
	publishCommandUseConstant              = "publish"
	publishCommandShortDescriptionConstant = "Split configured subdirectories and force-push them to their remotes"
	publishCommandLongDescriptionConstant  = "publish provisions splitsh-lite when missing, registers one remote per sub-split and publishes every sub-split concurrently. Inputs come from flags, INPUT_<NAME> environment variables or the tools.publish configuration section."
)

// PublishCommandBuilder assembles the publish command.
type PublishCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() PublishConfiguration
	Executor                     shared.CommandExecutor
	FileSystem                   shared.FileSystem
	LookupEnvironment            EnvironmentLookup
	WorkingDirectory             string
}

// Build constructs the publish command.
func (builder *PublishCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   publishCommandUseConstant,
		Short: publishCommandShortDescriptionConstant,
		Long:  publishCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(parameters.ConfigPathParameterName, "", configPathFlagUsageConstant)
	command.Flags().String(parameters.SplitshPathParameterName, "", splitshPathFlagUsageConstant)
	command.Flags().String(parameters.SplitshVersionParameterName, "", splitshVersionFlagUsageConstant)
	command.Flags().String(parameters.OriginRemoteParameterName, "", originRemoteFlagUsageConstant)
	command.Flags().String(parameters.SourceBranchParameterName, "", sourceBranchFlagUsageConstant)
	command.Flags().String(parameters.ScratchDirParameterName, "", scratchDirFlagUsageConstant)
	flags.AddToggleFlag(command.Flags(), nil, parameters.DryRunParameterName, false, dryRunFlagUsageConstant)

	return command, nil
}

func (builder *PublishCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	retriever := newParameterRetriever(command, builder.LookupEnvironment, resolvePublishConfiguration(builder.ConfigurationProvider))
	runConfiguration, parameterError := builder.runConfiguration(retriever)
	if parameterError != nil {
		return parameterError
	}

	logger := resolveLogger(builder.LoggerProvider)
	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return executorError
	}

	outputWriter := utils.NewLineWriter(command.OutOrStdout())
	defer outputWriter.Close()

	orchestrator := orchestration.NewOrchestrator(orchestration.Dependencies{
		Executor:   executor,
		FileSystem: dependencies.ResolveFileSystem(builder.FileSystem),
		Logger:     logger,
		Reporter:   shared.NewWriterReporter(outputWriter),
	})

	_, runError := orchestrator.Run(command.Context(), runConfiguration)
	return runError
}

func (builder *PublishCommandBuilder) runConfiguration(retriever parameters.Retriever) (orchestration.RunConfiguration, error) {
	requiredValues := make(map[string]string)
	for _, parameterName := range []string{
		parameters.ConfigPathParameterName,
		parameters.SplitshPathParameterName,
		parameters.SplitshVersionParameterName,
		parameters.OriginRemoteParameterName,
		parameters.SourceBranchParameterName,
	} {
		value, requiredError := retriever.Required(parameterName)
		if requiredError != nil {
			return orchestration.RunConfiguration{}, requiredError
		}
		requiredValues[parameterName] = value
	}

	dryRun, toggleError := retriever.Toggle(parameters.DryRunParameterName, false)
	if toggleError != nil {
		return orchestration.RunConfiguration{}, toggleError
	}

	return orchestration.RunConfiguration{
		WorkingDirectory:  builder.WorkingDirectory,
		BinaryPath:        requiredValues[parameters.SplitshPathParameterName],
		BinaryVersion:     requiredValues[parameters.SplitshVersionParameterName],
		ConfigurationPath: requiredValues[parameters.ConfigPathParameterName],
		OriginRemote:      requiredValues[parameters.OriginRemoteParameterName],
		SourceBranch:      requiredValues[parameters.SourceBranchParameterName],
		ScratchDirectory:  resolveAgainst(builder.WorkingDirectory, retriever.Value(parameters.ScratchDirParameterName)),
		DryRun:            dryRun,
	}, nil
}
