package cli

import (
	"strconv"

	"github.com/temirov/subsplit/internal/parameters"
)

// PublishConfiguration stores fallback values for run parameters under tools.publish.
// Flags and GitHub Actions inputs take precedence over these values.
type PublishConfiguration struct {
	ConfigPath       string `mapstructure:"config_path"`
	SplitshPath      string `mapstructure:"splitsh_path"`
	SplitshVersion   string `mapstructure:"splitsh_version"`
	OriginRemote     string `mapstructure:"origin_remote"`
	SourceBranch     string `mapstructure:"source_branch"`
	ScratchDirectory string `mapstructure:"scratch_dir"`
	DryRun           bool   `mapstructure:"dry_run"`
}

func (configuration PublishConfiguration) parameterSource() parameters.MapSource {
	return parameters.MapSource{
		parameters.ConfigPathParameterName:     configuration.ConfigPath,
		parameters.SplitshPathParameterName:    configuration.SplitshPath,
		parameters.SplitshVersionParameterName: configuration.SplitshVersion,
		parameters.OriginRemoteParameterName:   configuration.OriginRemote,
		parameters.SourceBranchParameterName:   configuration.SourceBranch,
		parameters.ScratchDirParameterName:     configuration.ScratchDirectory,
		parameters.DryRunParameterName:         strconv.FormatBool(configuration.DryRun),
	}
}
