package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"go.uber.org/zap"

	"github.com/temirov/subsplit/internal/execshell"
	"github.com/temirov/subsplit/internal/shared"
)

const (
	// DarwinPlatformConstant selects the macOS release asset.
	DarwinPlatformConstant = "darwin"
	// DarwinAssetNameConstant is the release asset used on macOS.
	DarwinAssetNameConstant = "lite_darwin_amd64"
	// LinuxAssetNameConstant is the release asset used on every other platform.
	LinuxAssetNameConstant = "lite_linux_amd64"
	// ArchiveFileNameConstant is the name the downloaded archive is saved under.
	ArchiveFileNameConstant = "split-lite.tar.gz"
	// ExtractedBinaryNameConstant is the executable name inside the release archive.
	ExtractedBinaryNameConstant = "splitsh-lite"
	// ScratchDirectoryNameConstant names the download directory created under the system temp directory.
	ScratchDirectoryNameConstant = "splitsh-download"

	releaseURLTemplateConstant           = "https://github.com/splitsh/lite/releases/download/%s/%s.tar.gz"
	binaryPathRequiredMessageConstant    = "splitsh binary path must be provided"
	versionRequiredMessageConstant       = "splitsh version must be provided"
	executorNotConfiguredMessageConstant = "provisioner command executor not configured"
	stepErrorTemplateConstant            = "provision splitsh-lite: %s: %w"
	stepInspectBinaryConstant            = "inspect binary path"
	stepCreateBinaryDirectoryConstant    = "create binary directory"
	stepRemoveStaleBinaryConstant        = "remove stale binary"
	stepResetScratchDirectoryConstant    = "reset scratch directory"
	stepDownloadArchiveConstant          = "download archive"
	stepExtractArchiveConstant           = "extract archive"
	stepMarkExecutableConstant           = "mark binary executable"
	stepMoveBinaryConstant               = "move binary into place"
	stepCleanScratchDirectoryConstant    = "clean scratch directory"
	wgetOutputFlagConstant               = "-O"
	tarExtractFlagsConstant              = "-zxpf"
	tarDirectoryFlagConstant             = "--directory"
	chmodExecutableModeConstant          = "+x"
	binaryPresentMessageConstant         = "splitsh binary already present"
	binaryMissingMessageConstant         = "splitsh binary missing, downloading"
	staleBinaryRemovedMessageConstant    = "path was removed"
	staleBinaryAbsentMessageConstant     = "path did not exist"
	binaryProvisionedMessageConstant     = "splitsh binary provisioned"
	logFieldBinaryPathConstant           = "binary_path"
	logFieldVersionConstant              = "version"
	logFieldAssetConstant                = "asset"
	logFieldReleaseURLConstant           = "release_url"
	logFieldScratchDirectoryConstant     = "scratch_directory"
	logFieldPathConstant                 = "path"
	binaryDirectoryPermissionsConstant   = fs.FileMode(0o755)
	scratchDirectoryPermissionsConstant  = fs.FileMode(0o755)
)

var (
	// ErrBinaryPathRequired indicates Options.BinaryPath was empty.
	ErrBinaryPathRequired = errors.New(binaryPathRequiredMessageConstant)
	// ErrVersionRequired indicates a download was needed but Options.Version was empty.
	ErrVersionRequired = errors.New(versionRequiredMessageConstant)
	// ErrExecutorNotConfigured indicates the provisioner was built without a command executor.
	ErrExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// Options describes where the binary lives and which release provides it.
type Options struct {
	BinaryPath       string
	Version          string
	ScratchDirectory string
	// Platform overrides runtime.GOOS when selecting the release asset.
	Platform string
}

// Dependencies captures collaborators required to provision the binary.
type Dependencies struct {
	Executor   shared.CommandExecutor
	FileSystem shared.FileSystem
	Logger     *zap.Logger
}

// Provisioner ensures the splitsh-lite binary exists.
type Provisioner struct {
	dependencies Dependencies
}

// NewProvisioner constructs a Provisioner. A nil logger is replaced with a no-op logger.
func NewProvisioner(dependencies Dependencies) *Provisioner {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	return &Provisioner{dependencies: dependencies}
}

// AssetName returns the release asset for platform.
func AssetName(platform string) string {
	if strings.EqualFold(strings.TrimSpace(platform), DarwinPlatformConstant) {
		return DarwinAssetNameConstant
	}
	return LinuxAssetNameConstant
}

// ReleaseURL returns the download URL of the given release asset.
func ReleaseURL(version string, assetName string) string {
	return fmt.Sprintf(releaseURLTemplateConstant, version, assetName)
}

// DefaultScratchDirectory returns the download directory used when Options.ScratchDirectory is empty.
func DefaultScratchDirectory() string {
	return filepath.Join(os.TempDir(), ScratchDirectoryNameConstant)
}

// ResolvePlatform returns platform, falling back to runtime.GOOS when it is empty.
func ResolvePlatform(platform string) string {
	trimmedPlatform := strings.TrimSpace(platform)
	if len(trimmedPlatform) == 0 {
		return runtime.GOOS
	}
	return trimmedPlatform
}

// BinaryPresent reports whether a file already exists at binaryPath.
func (provisioner *Provisioner) BinaryPresent(binaryPath string) (bool, error) {
	trimmedBinaryPath := strings.TrimSpace(binaryPath)
	if len(trimmedBinaryPath) == 0 {
		return false, ErrBinaryPathRequired
	}

	_, statError := provisioner.dependencies.FileSystem.Stat(trimmedBinaryPath)
	switch {
	case statError == nil:
		return true, nil
	case errors.Is(statError, fs.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf(stepErrorTemplateConstant, stepInspectBinaryConstant, statError)
	}
}

// Ensure downloads and installs the binary unless a file already exists at Options.BinaryPath.
// When the file exists nothing is written and no command runs.
func (provisioner *Provisioner) Ensure(executionContext context.Context, options Options) error {
	binaryPath := strings.TrimSpace(options.BinaryPath)
	present, presenceError := provisioner.BinaryPresent(binaryPath)
	if presenceError != nil {
		return presenceError
	}

	logger := provisioner.dependencies.Logger.With(zap.String(logFieldBinaryPathConstant, binaryPath))
	if present {
		logger.Debug(binaryPresentMessageConstant)
		return nil
	}

	version := strings.TrimSpace(options.Version)
	if len(version) == 0 {
		return ErrVersionRequired
	}
	if provisioner.dependencies.Executor == nil {
		return ErrExecutorNotConfigured
	}

	scratchDirectory := strings.TrimSpace(options.ScratchDirectory)
	if len(scratchDirectory) == 0 {
		scratchDirectory = DefaultScratchDirectory()
	}
	assetName := AssetName(ResolvePlatform(options.Platform))
	releaseURL := ReleaseURL(version, assetName)

	logger.Info(
		binaryMissingMessageConstant,
		zap.String(logFieldVersionConstant, version),
		zap.String(logFieldAssetConstant, assetName),
		zap.String(logFieldReleaseURLConstant, releaseURL),
		zap.String(logFieldScratchDirectoryConstant, scratchDirectory),
	)

	if prepareError := provisioner.prepareDirectories(logger, binaryPath, scratchDirectory); prepareError != nil {
		return prepareError
	}

	archivePath := filepath.Join(scratchDirectory, ArchiveFileNameConstant)
	extractedBinaryPath := filepath.Join(scratchDirectory, ExtractedBinaryNameConstant)
	installSteps := []struct {
		name    string
		command execshell.CommandName
		details execshell.CommandDetails
	}{
		{
			name:    stepDownloadArchiveConstant,
			command: execshell.CommandWget,
			details: execshell.CommandDetails{Arguments: []string{wgetOutputFlagConstant, archivePath, releaseURL}},
		},
		{
			name:    stepExtractArchiveConstant,
			command: execshell.CommandTar,
			details: execshell.CommandDetails{Arguments: []string{tarExtractFlagsConstant, archivePath, tarDirectoryFlagConstant, scratchDirectory}},
		},
		{
			name:    stepMarkExecutableConstant,
			command: execshell.CommandChmod,
			details: execshell.CommandDetails{Arguments: []string{chmodExecutableModeConstant, extractedBinaryPath}},
		},
		{
			name:    stepMoveBinaryConstant,
			command: execshell.CommandMove,
			details: execshell.CommandDetails{Arguments: []string{extractedBinaryPath, binaryPath}},
		},
	}
	for _, installStep := range installSteps {
		if _, executionError := provisioner.dependencies.Executor.ExecuteCommand(executionContext, installStep.command, installStep.details); executionError != nil {
			return fmt.Errorf(stepErrorTemplateConstant, installStep.name, executionError)
		}
	}

	if cleanError := provisioner.dependencies.FileSystem.RemoveAll(scratchDirectory); cleanError != nil {
		return fmt.Errorf(stepErrorTemplateConstant, stepCleanScratchDirectoryConstant, cleanError)
	}

	logger.Info(binaryProvisionedMessageConstant, zap.String(logFieldVersionConstant, version), zap.String(logFieldAssetConstant, assetName))
	return nil
}

func (provisioner *Provisioner) prepareDirectories(logger *zap.Logger, binaryPath string, scratchDirectory string) error {
	fileSystem := provisioner.dependencies.FileSystem

	if mkdirError := fileSystem.MkdirAll(filepath.Dir(binaryPath), binaryDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(stepErrorTemplateConstant, stepCreateBinaryDirectoryConstant, mkdirError)
	}

	removeError := fileSystem.Remove(binaryPath)
	switch {
	case removeError == nil:
		logger.Debug(staleBinaryRemovedMessageConstant, zap.String(logFieldPathConstant, binaryPath))
	case errors.Is(removeError, fs.ErrNotExist):
		logger.Debug(staleBinaryAbsentMessageConstant, zap.String(logFieldPathConstant, binaryPath))
	default:
		return fmt.Errorf(stepErrorTemplateConstant, stepRemoveStaleBinaryConstant, removeError)
	}

	if removeAllError := fileSystem.RemoveAll(scratchDirectory); removeAllError != nil {
		return fmt.Errorf(stepErrorTemplateConstant, stepResetScratchDirectoryConstant, removeAllError)
	}
	if mkdirError := fileSystem.MkdirAll(scratchDirectory, scratchDirectoryPermissionsConstant); mkdirError != nil {
		return fmt.Errorf(stepErrorTemplateConstant, stepResetScratchDirectoryConstant, mkdirError)
	}

	return nil
}
