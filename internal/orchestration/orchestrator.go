package orchestration

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/subsplit/internal/filesystem"
	"github.com/temirov/subsplit/internal/provision"
	"github.com/temirov/subsplit/internal/publish"
	"github.com/temirov/subsplit/internal/remotes"
	"github.com/temirov/subsplit/internal/shared"
	"github.com/temirov/subsplit/internal/splits"
)

const (
	planProvisionMessageTemplate         = "PLAN-PROVISION: %s %s → %s\n"
	planSubSplitMessageTemplate          = "PLAN-SUBSPLIT: %s %s → %s %s\n"
	doneSubSplitMessageTemplate          = "SUBSPLIT-DONE: %s %s → %s %s\n"
	failedSubSplitMessageTemplate        = "SUBSPLIT-FAILED: %s (error: %v)\n"
	requiredValueMissingTemplateConstant = "%s must be provided"
	resolvePathErrorTemplateConstant     = "resolve %s: %w"
	binaryPathLabelConstant              = "splitsh path"
	binaryVersionLabelConstant           = "splitsh version"
	configurationPathLabelConstant       = "config path"
	originRemoteLabelConstant            = "origin remote"
	sourceBranchLabelConstant            = "source branch"
	runStartedMessageConstant            = "sub-split run started"
	splitsLoadedMessageConstant          = "sub-splits loaded"
	runCompletedMessageConstant          = "sub-split run completed"
	splitFailedMessageConstant           = "sub-split failed"
	logFieldBinaryPathConstant           = "binary_path"
	logFieldConfigurationPathConstant    = "config_path"
	logFieldOriginConstant               = "origin"
	logFieldBranchConstant               = "branch"
	logFieldDryRunConstant               = "dry_run"
	logFieldSplitsConstant               = "splits"
	logFieldSplitNameConstant            = "split"
	logFieldSucceededConstant            = "succeeded"
	logFieldFailedConstant               = "failed"
)

// ErrMissingValue marks a RunConfiguration lacking a required value.
var ErrMissingValue = errors.New("missing required value")

// RunConfiguration carries every input of a run.
type RunConfiguration struct {
	// WorkingDirectory anchors relative binary and configuration paths and is where git runs.
	// Empty means the process working directory.
	WorkingDirectory  string
	BinaryPath        string
	BinaryVersion     string
	ConfigurationPath string
	OriginRemote      string
	SourceBranch      string
	ScratchDirectory  string
	Platform          string
	DryRun            bool
}

// PublishResult is the outcome of one split.
type PublishResult struct {
	Split    splits.SplitConfig
	CommitID string
	Err      error
}

// Report summarizes a run. Results follow configuration order.
type Report struct {
	BinaryPath  string
	Provisioned bool
	DryRun      bool
	Results     []PublishResult
}

// Failed returns the results that carry an error.
func (report Report) Failed() []PublishResult {
	failed := []PublishResult{}
	for _, result := range report.Results {
		if result.Err != nil {
			failed = append(failed, result)
		}
	}
	return failed
}

// BinaryProvisioner ensures the split binary is installed.
type BinaryProvisioner interface {
	BinaryPresent(binaryPath string) (bool, error)
	Ensure(executionContext context.Context, options provision.Options) error
}

// RemoteRegistrar registers a split's remote.
type RemoteRegistrar interface {
	EnsureRemote(executionContext context.Context, name string, remoteURL string) error
}

// SplitPublisher splits and pushes one directory.
type SplitPublisher interface {
	Publish(executionContext context.Context, request publish.Request) (publish.Result, error)
}

// ConfigurationLoader reads the split configuration.
type ConfigurationLoader func(configurationPath string) (splits.Configuration, error)

// Dependencies captures collaborators of a run. Unset services are built on Executor and FileSystem.
type Dependencies struct {
	Executor            shared.CommandExecutor
	FileSystem          shared.FileSystem
	Logger              *zap.Logger
	Reporter            shared.Reporter
	Provisioner         BinaryProvisioner
	Registrar           RemoteRegistrar
	Publisher           SplitPublisher
	ConfigurationLoader ConfigurationLoader
}

// Orchestrator runs sub-split publications.
type Orchestrator struct {
	dependencies Dependencies
	// registrationMutex serializes remote registration; concurrent `git remote add`
	// calls in one checkout race for the .git/config lock.
	registrationMutex sync.Mutex
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(dependencies Dependencies) *Orchestrator {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = filesystem.OSFileSystem{}
	}
	if dependencies.Reporter == nil {
		dependencies.Reporter = shared.NewWriterReporter(nil)
	}
	if dependencies.ConfigurationLoader == nil {
		dependencies.ConfigurationLoader = splits.LoadConfiguration
	}
	if dependencies.Provisioner == nil {
		dependencies.Provisioner = provision.NewProvisioner(provision.Dependencies{
			Executor:   dependencies.Executor,
			FileSystem: dependencies.FileSystem,
			Logger:     dependencies.Logger,
		})
	}
	return &Orchestrator{dependencies: dependencies}
}

// Run provisions the binary, loads the split configuration and publishes every split
// concurrently. The returned error combines every split failure in configuration order;
// provisioning and configuration errors abort before any split starts. In dry-run mode
// the plan is printed and no command runs.
func (orchestrator *Orchestrator) Run(executionContext context.Context, configuration RunConfiguration) (Report, error) {
	normalized, validationError := orchestrator.normalize(configuration)
	if validationError != nil {
		return Report{}, validationError
	}

	logger := orchestrator.dependencies.Logger
	logger.Info(
		runStartedMessageConstant,
		zap.String(logFieldBinaryPathConstant, normalized.BinaryPath),
		zap.String(logFieldConfigurationPathConstant, normalized.ConfigurationPath),
		zap.String(logFieldOriginConstant, normalized.OriginRemote),
		zap.String(logFieldBranchConstant, normalized.SourceBranch),
		zap.Bool(logFieldDryRunConstant, normalized.DryRun),
	)

	report := Report{BinaryPath: normalized.BinaryPath, DryRun: normalized.DryRun}

	binaryPresent, presenceError := orchestrator.dependencies.Provisioner.BinaryPresent(normalized.BinaryPath)
	if presenceError != nil {
		return report, presenceError
	}
	if !binaryPresent {
		if len(normalized.BinaryVersion) == 0 {
			return report, fmt.Errorf("%w: "+requiredValueMissingTemplateConstant, ErrMissingValue, binaryVersionLabelConstant)
		}
		if normalized.DryRun {
			orchestrator.dependencies.Reporter.Printf(planProvisionMessageTemplate, normalized.BinaryVersion, provision.AssetName(provision.ResolvePlatform(normalized.Platform)), normalized.BinaryPath)
		} else {
			provisionError := orchestrator.dependencies.Provisioner.Ensure(executionContext, provision.Options{
				BinaryPath:       normalized.BinaryPath,
				Version:          normalized.BinaryVersion,
				ScratchDirectory: normalized.ScratchDirectory,
				Platform:         normalized.Platform,
			})
			if provisionError != nil {
				return report, provisionError
			}
			report.Provisioned = true
		}
	}

	splitConfiguration, loadError := orchestrator.dependencies.ConfigurationLoader(normalized.ConfigurationPath)
	if loadError != nil {
		return report, loadError
	}
	logger.Debug(splitsLoadedMessageConstant, zap.Strings(logFieldSplitsConstant, splitConfiguration.Names()))

	report.Results = make([]PublishResult, len(splitConfiguration.SubSplits))
	for splitIndex, split := range splitConfiguration.SubSplits {
		report.Results[splitIndex] = PublishResult{Split: split}
	}

	if normalized.DryRun {
		for _, split := range splitConfiguration.SubSplits {
			orchestrator.dependencies.Reporter.Printf(planSubSplitMessageTemplate, split.Name, split.Directory, split.Target, publish.BranchReference(normalized.SourceBranch))
		}
		return report, nil
	}

	registrar := orchestrator.resolveRegistrar(normalized.WorkingDirectory)
	publisher := orchestrator.resolvePublisher(normalized.WorkingDirectory)

	var splitGroup errgroup.Group
	for splitIndex, split := range splitConfiguration.SubSplits {
		splitGroup.Go(func() error {
			commitID, splitError := orchestrator.publishSplit(executionContext, registrar, publisher, normalized, split)
			report.Results[splitIndex].CommitID = commitID
			report.Results[splitIndex].Err = splitError
			return splitError
		})
	}
	_ = splitGroup.Wait()

	var combinedError error
	succeeded := 0
	for _, result := range report.Results {
		if result.Err != nil {
			logger.Warn(splitFailedMessageConstant, zap.String(logFieldSplitNameConstant, result.Split.Name), zap.Error(result.Err))
			orchestrator.dependencies.Reporter.Printf(failedSubSplitMessageTemplate, result.Split.Name, result.Err)
			combinedError = multierr.Append(combinedError, result.Err)
			continue
		}
		succeeded++
		orchestrator.dependencies.Reporter.Printf(doneSubSplitMessageTemplate, result.Split.Name, result.CommitID, result.Split.Name, publish.BranchReference(normalized.SourceBranch))
	}

	logger.Info(
		runCompletedMessageConstant,
		zap.Int(logFieldSucceededConstant, succeeded),
		zap.Int(logFieldFailedConstant, len(report.Results)-succeeded),
	)

	return report, combinedError
}

// publishSplit registers the split's remote and, only once that succeeds, publishes it.
// Registration is serialized across splits; splitting and pushing are not.
// The split name doubles as the push target remote.
func (orchestrator *Orchestrator) publishSplit(executionContext context.Context, registrar RemoteRegistrar, publisher SplitPublisher, configuration RunConfiguration, split splits.SplitConfig) (string, error) {
	if registrationError := orchestrator.registerRemote(executionContext, registrar, split); registrationError != nil {
		return "", registrationError
	}

	publishResult, publishError := publisher.Publish(executionContext, publish.Request{
		BinaryPath:   configuration.BinaryPath,
		Origin:       configuration.OriginRemote,
		TargetRemote: split.Name,
		Branch:       configuration.SourceBranch,
		SplitName:    split.Name,
		Directory:    split.Directory,
	})
	if publishError != nil {
		return "", publishError
	}
	return publishResult.CommitID, nil
}

func (orchestrator *Orchestrator) registerRemote(executionContext context.Context, registrar RemoteRegistrar, split splits.SplitConfig) error {
	orchestrator.registrationMutex.Lock()
	defer orchestrator.registrationMutex.Unlock()
	return registrar.EnsureRemote(executionContext, split.Name, split.Target)
}

func (orchestrator *Orchestrator) resolveRegistrar(workingDirectory string) RemoteRegistrar {
	if orchestrator.dependencies.Registrar != nil {
		return orchestrator.dependencies.Registrar
	}
	return remotes.NewRegistrar(remotes.Dependencies{Executor: orchestrator.dependencies.Executor, Logger: orchestrator.dependencies.Logger}, workingDirectory)
}

func (orchestrator *Orchestrator) resolvePublisher(workingDirectory string) SplitPublisher {
	if orchestrator.dependencies.Publisher != nil {
		return orchestrator.dependencies.Publisher
	}
	return publish.NewPublisher(publish.Dependencies{Executor: orchestrator.dependencies.Executor, Logger: orchestrator.dependencies.Logger}, workingDirectory)
}

func (orchestrator *Orchestrator) normalize(configuration RunConfiguration) (RunConfiguration, error) {
	normalized := RunConfiguration{
		WorkingDirectory:  strings.TrimSpace(configuration.WorkingDirectory),
		BinaryPath:        strings.TrimSpace(configuration.BinaryPath),
		BinaryVersion:     strings.TrimSpace(configuration.BinaryVersion),
		ConfigurationPath: strings.TrimSpace(configuration.ConfigurationPath),
		OriginRemote:      strings.TrimSpace(configuration.OriginRemote),
		SourceBranch:      strings.TrimSpace(configuration.SourceBranch),
		ScratchDirectory:  strings.TrimSpace(configuration.ScratchDirectory),
		Platform:          strings.TrimSpace(configuration.Platform),
		DryRun:            configuration.DryRun,
	}

	requiredValues := []struct {
		label string
		value string
	}{
		{label: binaryPathLabelConstant, value: normalized.BinaryPath},
		{label: configurationPathLabelConstant, value: normalized.ConfigurationPath},
		{label: originRemoteLabelConstant, value: normalized.OriginRemote},
		{label: sourceBranchLabelConstant, value: normalized.SourceBranch},
	}
	for _, requiredValue := range requiredValues {
		if len(requiredValue.value) == 0 {
			return RunConfiguration{}, fmt.Errorf("%w: "+requiredValueMissingTemplateConstant, ErrMissingValue, requiredValue.label)
		}
	}

	absoluteBinaryPath, binaryPathError := orchestrator.resolvePath(normalized.WorkingDirectory, normalized.BinaryPath)
	if binaryPathError != nil {
		return RunConfiguration{}, fmt.Errorf(resolvePathErrorTemplateConstant, binaryPathLabelConstant, binaryPathError)
	}
	normalized.BinaryPath = absoluteBinaryPath

	absoluteConfigurationPath, configurationPathError := orchestrator.resolvePath(normalized.WorkingDirectory, normalized.ConfigurationPath)
	if configurationPathError != nil {
		return RunConfiguration{}, fmt.Errorf(resolvePathErrorTemplateConstant, configurationPathLabelConstant, configurationPathError)
	}
	normalized.ConfigurationPath = absoluteConfigurationPath

	return normalized, nil
}

// resolvePath makes path absolute relative to workingDirectory, or to the process
// working directory when workingDirectory is empty.
func (orchestrator *Orchestrator) resolvePath(workingDirectory string, path string) (string, error) {
	if filepath.IsAbs(path) {
		return filepath.Clean(path), nil
	}
	if len(workingDirectory) > 0 {
		path = filepath.Join(workingDirectory, path)
		if filepath.IsAbs(path) {
			return path, nil
		}
	}
	return orchestrator.dependencies.FileSystem.Abs(path)
}
