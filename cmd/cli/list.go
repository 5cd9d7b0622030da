package cli

import (
	"github.com/spf13/cobra"

	"github.com/temirov/subsplit/internal/parameters"
	"github.com/temirov/subsplit/internal/shared"
	"github.com/temirov/subsplit/internal/splits"
	"github.com/temirov/subsplit/internal/utils"
)

const (
	listCommandUseConstant              = "list"
	listCommandShortDescriptionConstant = "Print the configured sub-splits"
	listCommandLongDescriptionConstant  = "list validates the sub-split configuration and prints one line per sub-split."
	listLineTemplateConstant            = "%s\n"
)

// ListCommandBuilder assembles the list command.
type ListCommandBuilder struct {
	ConfigurationProvider func() PublishConfiguration
	LookupEnvironment     EnvironmentLookup
	WorkingDirectory      string
}

// Build constructs the list command.
func (builder *ListCommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:   listCommandUseConstant,
		Short: listCommandShortDescriptionConstant,
		Long:  listCommandLongDescriptionConstant,
		RunE:  builder.run,
	}

	command.Flags().String(parameters.ConfigPathParameterName, "", configPathFlagUsageConstant)

	return command, nil
}

func (builder *ListCommandBuilder) run(command *cobra.Command, arguments []string) error {
	if len(arguments) > 0 {
		return errUnexpectedArguments
	}

	retriever := newParameterRetriever(command, builder.LookupEnvironment, resolvePublishConfiguration(builder.ConfigurationProvider))
	configurationPath, requiredError := retriever.Required(parameters.ConfigPathParameterName)
	if requiredError != nil {
		return requiredError
	}

	splitConfiguration, loadError := splits.LoadConfiguration(resolveAgainst(builder.WorkingDirectory, configurationPath))
	if loadError != nil {
		return loadError
	}

	outputWriter := utils.NewLineWriter(command.OutOrStdout())
	defer outputWriter.Close()
	reporter := shared.NewWriterReporter(outputWriter)
	for _, split := range splitConfiguration.SubSplits {
		reporter.Printf(listLineTemplateConstant, split.String())
	}
	return nil
}
