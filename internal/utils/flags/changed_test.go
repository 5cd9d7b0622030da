package flags

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestChangedInspectsLocalAndRootPersistentFlags(t *testing.T) {
	rootCommand := &cobra.Command{Use: "subsplit"}
	rootCommand.PersistentFlags().String("log-level", "", "")

	publishCommand := &cobra.Command{Use: "publish", RunE: func(*cobra.Command, []string) error { return nil }}
	publishCommand.Flags().String("source-branch", "", "")
	publishCommand.Flags().String("origin-remote", "", "")
	rootCommand.AddCommand(publishCommand)

	rootCommand.SetArgs([]string{"publish", "--log-level=debug", "--source-branch=main"})
	require.NoError(t, rootCommand.Execute())

	require.True(t, Changed(publishCommand, "log-level"))
	require.True(t, Changed(publishCommand, "source-branch"))
	require.False(t, Changed(publishCommand, "origin-remote"))
	require.False(t, Changed(nil, "source-branch"))
}
