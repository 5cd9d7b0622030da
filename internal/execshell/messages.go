package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandLabelTemplateConstant            = "%s%s"
	workingDirectorySuffixTemplateConstant  = " (in %s)"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	defaultWorkingDirectoryLabelConstant    = "current directory"
	fallbackUnknownValueLabelConstant       = "unknown"
	flagPrefixConstant                      = "-"
	refspecSeparatorConstant                = ":"
)

const (
	gitRemoteSubcommandNameConstant    = "remote"
	gitRemoteAddSubcommandNameConstant = "add"
	gitPushSubcommandNameConstant      = "push"
	gitForceShortFlagConstant          = "-f"
	gitForceLongFlagConstant           = "--force"
	splitPrefixFlagConstant            = "--prefix="
	splitOriginFlagConstant            = "--origin="
	wgetOutputFlagConstant             = "-O"
	tarDirectoryFlagConstant           = "--directory"
)

const (
	gitRemoteAddStartTemplateConstant            = "Registering remote %s for %s in %s"
	gitRemoteAddSuccessTemplateConstant          = "Registered remote %s for %s in %s"
	gitRemoteAddFailureTemplateConstant          = "Failed to register remote %s for %s in %s (exit code %d%s)"
	gitRemoteAddExecutionFailureTemplateConstant = "Unable to register remote %s for %s in %s: %s"
	gitPushStartTemplateConstant                 = "Pushing %s to %s from %s"
	gitForcePushStartTemplateConstant            = "Force pushing %s to %s from %s"
	gitPushSuccessTemplateConstant               = "Pushed %s to %s from %s"
	gitPushFailureTemplateConstant               = "Failed to push %s to %s from %s (exit code %d%s)"
	gitPushExecutionFailureTemplateConstant      = "Unable to push %s to %s from %s: %s"
	splitStartTemplateConstant                   = "Splitting %s from %s"
	splitSuccessTemplateConstant                 = "Split %s from %s into %s"
	splitFailureTemplateConstant                 = "Failed to split %s from %s (exit code %d%s)"
	splitExecutionFailureTemplateConstant        = "Unable to split %s from %s: %s"
	downloadStartTemplateConstant                = "Downloading %s to %s"
	downloadSuccessTemplateConstant              = "Downloaded %s to %s"
	downloadFailureTemplateConstant              = "Failed to download %s (exit code %d%s)"
	downloadExecutionFailureTemplateConstant     = "Unable to download %s: %s"
	extractStartTemplateConstant                 = "Extracting %s into %s"
	extractSuccessTemplateConstant               = "Extracted %s into %s"
	extractFailureTemplateConstant               = "Failed to extract %s (exit code %d%s)"
	extractExecutionFailureTemplateConstant      = "Unable to extract %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandGit:
		return formatter.describeGitMessage(command, result, failure, stage)
	case CommandWget:
		return formatter.describeDownloadMessage(command, result, failure, stage)
	case CommandTar:
		return formatter.describeExtractMessage(command, result, failure, stage)
	default:
		if len(findFlagValue(command.Details.Arguments, splitPrefixFlagConstant)) > 0 {
			return formatter.describeSplitMessage(command, result, failure, stage)
		}
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if len(arguments) == 0 {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	switch strings.TrimSpace(arguments[0]) {
	case gitRemoteSubcommandNameConstant:
		if strings.TrimSpace(formatter.argumentAtIndex(arguments, 1)) == gitRemoteAddSubcommandNameConstant {
			return formatter.describeGitRemoteAddMessage(command, result, failure, stage)
		}
	case gitPushSubcommandNameConstant:
		return formatter.describeGitPushMessage(command, result, failure, stage)
	}

	return formatter.buildGenericMessage(command, result, failure, stage)
}

func (formatter CommandMessageFormatter) describeGitRemoteAddMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName := formatter.ensureValue(formatter.argumentAtIndex(arguments, 2))
	remoteURL := formatter.ensureValue(formatter.argumentAtIndex(arguments, 3))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(gitRemoteAddStartTemplateConstant, remoteName, remoteURL, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitRemoteAddSuccessTemplateConstant, remoteName, remoteURL, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitRemoteAddFailureTemplateConstant, remoteName, remoteURL, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitRemoteAddExecutionFailureTemplateConstant, remoteName, remoteURL, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGitPushMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	workingDirectory := formatter.describeWorkingDirectory(command)
	remoteName, references := formatter.extractRemoteAndReferences(command.Details.Arguments[1:])
	trimmedRemote := formatter.ensureValue(remoteName)
	destination := formatter.ensureValue(formatter.joinDestinations(references))
	forced := containsArgument(command.Details.Arguments, gitForceShortFlagConstant) || containsArgument(command.Details.Arguments, gitForceLongFlagConstant)

	switch stage {
	case messageStageStart:
		if forced {
			return fmt.Sprintf(gitForcePushStartTemplateConstant, destination, trimmedRemote, workingDirectory)
		}
		return fmt.Sprintf(gitPushStartTemplateConstant, destination, trimmedRemote, workingDirectory)
	case messageStageSuccess:
		return fmt.Sprintf(gitPushSuccessTemplateConstant, destination, trimmedRemote, workingDirectory)
	case messageStageFailure:
		return fmt.Sprintf(gitPushFailureTemplateConstant, destination, trimmedRemote, workingDirectory, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(gitPushExecutionFailureTemplateConstant, destination, trimmedRemote, workingDirectory, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeSplitMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	prefix := formatter.ensureValue(findFlagValue(arguments, splitPrefixFlagConstant))
	origin := formatter.ensureValue(findFlagValue(arguments, splitOriginFlagConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(splitStartTemplateConstant, prefix, origin)
	case messageStageSuccess:
		return fmt.Sprintf(splitSuccessTemplateConstant, prefix, origin, formatter.ensureValue(result.StandardOutput))
	case messageStageFailure:
		return fmt.Sprintf(splitFailureTemplateConstant, prefix, origin, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(splitExecutionFailureTemplateConstant, prefix, origin, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeDownloadMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	destination := formatter.ensureValue(formatter.argumentFollowing(arguments, wgetOutputFlagConstant))
	source := formatter.ensureValue(formatter.argumentAtIndex(arguments, len(arguments)-1))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(downloadStartTemplateConstant, source, destination)
	case messageStageSuccess:
		return fmt.Sprintf(downloadSuccessTemplateConstant, source, destination)
	case messageStageFailure:
		return fmt.Sprintf(downloadFailureTemplateConstant, source, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(downloadExecutionFailureTemplateConstant, source, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeExtractMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	archive := formatter.ensureValue(formatter.argumentAtIndex(arguments, 1))
	directory := formatter.ensureValue(formatter.argumentFollowing(arguments, tarDirectoryFlagConstant))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(extractStartTemplateConstant, archive, directory)
	case messageStageSuccess:
		return fmt.Sprintf(extractSuccessTemplateConstant, archive, directory)
	case messageStageFailure:
		return fmt.Sprintf(extractFailureTemplateConstant, archive, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(extractExecutionFailureTemplateConstant, archive, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandLabel := string(command.Name)
	if len(command.Details.Arguments) > 0 {
		commandLabel = fmt.Sprintf("%s %s", commandLabel, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return fmt.Sprintf(commandLabelTemplateConstant, commandLabel, formatter.formatWorkingDirectorySuffix(command))
}

func (formatter CommandMessageFormatter) formatWorkingDirectorySuffix(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(workingDirectorySuffixTemplateConstant, trimmedWorkingDirectory)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeWorkingDirectory(command ShellCommand) string {
	trimmedWorkingDirectory := strings.TrimSpace(command.Details.WorkingDirectory)
	if len(trimmedWorkingDirectory) == 0 {
		return defaultWorkingDirectoryLabelConstant
	}
	return trimmedWorkingDirectory
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) argumentAtIndex(arguments []string, index int) string {
	if index >= 0 && index < len(arguments) {
		return arguments[index]
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) argumentFollowing(arguments []string, flag string) string {
	for index := 0; index+1 < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func (formatter CommandMessageFormatter) extractRemoteAndReferences(arguments []string) (string, []string) {
	remoteName := emptyStringConstant
	references := []string{}
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if len(trimmed) == 0 || strings.HasPrefix(trimmed, flagPrefixConstant) {
			continue
		}
		if len(remoteName) == 0 {
			remoteName = trimmed
			continue
		}
		references = append(references, trimmed)
	}
	return remoteName, references
}

// joinDestinations renders refspecs by their destination side, e.g. "abc:refs/heads/main" as "refs/heads/main".
func (formatter CommandMessageFormatter) joinDestinations(references []string) string {
	destinations := make([]string, 0, len(references))
	for _, reference := range references {
		separatorIndex := strings.LastIndex(reference, refspecSeparatorConstant)
		if separatorIndex >= 0 {
			reference = reference[separatorIndex+1:]
		}
		if len(reference) == 0 {
			continue
		}
		destinations = append(destinations, reference)
	}
	return strings.Join(destinations, ", ")
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}

func findFlagValue(arguments []string, flagWithSeparator string) string {
	for _, argument := range arguments {
		trimmed := strings.TrimSpace(argument)
		if strings.HasPrefix(trimmed, flagWithSeparator) {
			return strings.TrimPrefix(trimmed, flagWithSeparator)
		}
	}
	return emptyStringConstant
}
