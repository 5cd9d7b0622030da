package flags

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Changed reports whether flagName was set explicitly on the command line, looking at the
// command's local, persistent and inherited flags as well as the root's persistent flags.
func Changed(command *cobra.Command, flagName string) bool {
	if command == nil {
		return false
	}

	flagSetsToInspect := []*pflag.FlagSet{
		command.Flags(),
		command.PersistentFlags(),
		command.InheritedFlags(),
	}
	if rootCommand := command.Root(); rootCommand != nil {
		flagSetsToInspect = append(flagSetsToInspect, rootCommand.PersistentFlags())
	}

	for _, flagSet := range flagSetsToInspect {
		if flagSet != nil && flagSet.Changed(flagName) {
			return true
		}
	}
	return false
}
