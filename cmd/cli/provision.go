package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/subsplit/internal/dependencies"
	"github.com/temirov/subsplit/internal/parameters"
	"github.com/temirov/subsplit/internal/provision"
	"github.com/temirov/subsplit/internal/shared"
	"github.com/temirov/subsplit/internal/utils"
)

const (
	provisionCommandUseConstant              = "provision"
	provisionCommandShortDescriptionConstant = "Download splitsh-lite when it is missing"
	provisionCommandLongDescriptionConstant  = "provision ensures the splitsh-lite binary exists at --splitsh-path, downloading the requested release when it does not."
	provisionPresentMessageTemplate          = "PROVISION-SKIPPED: %s already present\n"
	provisionDoneMessageTemplate             = "PROVISION-DONE: %s %s → %s\n"
	provisionSkippedLogMessageConstant       = "splitsh-lite already present"
	logFieldBinaryPathConstant               = "binary_path"
)

// ProvisionCommandBuilder assembles the provision command.
type ProvisionCommandBuilder struct {
	LoggerProvider               LoggerProvider
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() PublishConfiguration
	Executor                     shared.CommandExecutor
	FileSystem                   shared.FileSystem
	LookupEnvironment            EnvironmentLookup
	WorkingDirectory             string
}

// Build constructs the provision command.
func (builder *ProvisionCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   provisionCommandUseConstant,
		Short: provisionCommandShortDescriptionConstant,
		Long:  provisionCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(parameters.SplitshPathParameterName, "", splitshPathFlagUsageConstant)
	command.Flags().String(parameters.SplitshVersionParameterName, "", splitshVersionFlagUsageConstant)
	command.Flags().String(parameters.ScratchDirParameterName, "", scratchDirFlagUsageConstant)

	return command, nil
}

func (builder *ProvisionCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	retriever := newParameterRetriever(command, builder.LookupEnvironment, resolvePublishConfiguration(builder.ConfigurationProvider))
	binaryPath, requiredError := retriever.Required(parameters.SplitshPathParameterName)
	if requiredError != nil {
		return requiredError
	}
	binaryPath = resolveAgainst(builder.WorkingDirectory, binaryPath)

	logger := resolveLogger(builder.LoggerProvider)
	executor, executorError := dependencies.ResolveCommandExecutor(builder.Executor, logger, resolveHumanReadableLogging(builder.HumanReadableLoggingProvider))
	if executorError != nil {
		return executorError
	}

	provisioner := provision.NewProvisioner(provision.Dependencies{
		Executor:   executor,
		FileSystem: dependencies.ResolveFileSystem(builder.FileSystem),
		Logger:     logger,
	})
	outputWriter := utils.NewLineWriter(command.OutOrStdout())
	defer outputWriter.Close()
	reporter := shared.NewWriterReporter(outputWriter)

	binaryPresent, presenceError := provisioner.BinaryPresent(binaryPath)
	if presenceError != nil {
		return presenceError
	}
	if binaryPresent {
		logger.Info(provisionSkippedLogMessageConstant, zap.String(logFieldBinaryPathConstant, binaryPath))
		reporter.Printf(provisionPresentMessageTemplate, binaryPath)
		return nil
	}

	options := provision.Options{
		BinaryPath:       binaryPath,
		Version:          retriever.Value(parameters.SplitshVersionParameterName),
		ScratchDirectory: resolveAgainst(builder.WorkingDirectory, retriever.Value(parameters.ScratchDirParameterName)),
	}
	if ensureError := provisioner.Ensure(command.Context(), options); ensureError != nil {
		return ensureError
	}

	reporter.Printf(provisionDoneMessageTemplate, options.Version, provision.AssetName(provision.ResolvePlatform("")), binaryPath)
	return nil
}
