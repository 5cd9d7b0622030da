package parameters

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/temirov/subsplit/internal/utils/flags"
)

const (
	actionsInputPrefixConstant           = "INPUT_"
	actionsInputSpaceConstant            = " "
	actionsInputSpaceReplacementConstant = "_"
	parameterRequiredTemplateConstant    = "%w: %s"
)

// Input names shared by the CLI flags and GitHub Actions inputs.
const (
	ConfigPathParameterName     = "config-path"
	SplitshPathParameterName    = "splitsh-path"
	SplitshVersionParameterName = "splitsh-version"
	OriginRemoteParameterName   = "origin-remote"
	SourceBranchParameterName   = "source-branch"
	ScratchDirParameterName     = "scratch-dir"
	DryRunParameterName         = "dry-run"
)

// ErrParameterRequired indicates a required parameter resolved to an empty value.
var ErrParameterRequired = errors.New("input required and not supplied")

// Source looks up a parameter by name. The boolean reports whether the source supplied a value.
type Source interface {
	Lookup(name string) (string, bool)
}

// FlagSource supplies values of flags explicitly set on a command.
type FlagSource struct {
	command *cobra.Command
}

// NewFlagSource constructs a FlagSource for command.
func NewFlagSource(command *cobra.Command) FlagSource {
	return FlagSource{command: command}
}

// Lookup implements Source. Flags left at their defaults are not reported.
func (source FlagSource) Lookup(name string) (string, bool) {
	if source.command == nil || !flags.Changed(source.command, name) {
		return "", false
	}
	flag := source.command.Flags().Lookup(name)
	if flag == nil {
		flag = source.command.InheritedFlags().Lookup(name)
	}
	if flag == nil {
		return "", false
	}
	return flag.Value.String(), true
}

// ActionsInputSource reads GitHub Actions inputs from INPUT_<NAME> environment variables,
// e.g. INPUT_CONFIG-PATH for "config-path". Empty variables are treated as unset.
type ActionsInputSource struct {
	lookupEnvironment func(key string) (string, bool)
}

// NewActionsInputSource constructs an ActionsInputSource; a nil lookup reads the process environment.
func NewActionsInputSource(lookupEnvironment func(key string) (string, bool)) ActionsInputSource {
	if lookupEnvironment == nil {
		lookupEnvironment = os.LookupEnv
	}
	return ActionsInputSource{lookupEnvironment: lookupEnvironment}
}

// ActionsInputVariable returns the environment variable carrying the named input.
func ActionsInputVariable(name string) string {
	return actionsInputPrefixConstant + strings.ToUpper(strings.ReplaceAll(name, actionsInputSpaceConstant, actionsInputSpaceReplacementConstant))
}

// Lookup implements Source.
func (source ActionsInputSource) Lookup(name string) (string, bool) {
	value, present := source.lookupEnvironment(ActionsInputVariable(name))
	if !present || len(strings.TrimSpace(value)) == 0 {
		return "", false
	}
	return value, true
}

// MapSource supplies values from a fixed map, typically application configuration.
// Empty values are treated as unset.
type MapSource map[string]string

// Lookup implements Source.
func (source MapSource) Lookup(name string) (string, bool) {
	value, present := source[name]
	if !present || len(strings.TrimSpace(value)) == 0 {
		return "", false
	}
	return value, true
}

// Retriever resolves parameters from sources in order; the first source supplying a value wins.
type Retriever struct {
	sources []Source
}

// NewRetriever constructs a Retriever consulting sources in the given order.
func NewRetriever(sources ...Source) Retriever {
	filteredSources := make([]Source, 0, len(sources))
	for _, source := range sources {
		if source != nil {
			filteredSources = append(filteredSources, source)
		}
	}
	return Retriever{sources: filteredSources}
}

// Value returns the trimmed value of name, or an empty string when no source supplies it.
func (retriever Retriever) Value(name string) string {
	for _, source := range retriever.sources {
		if value, present := source.Lookup(name); present {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// Required returns the trimmed value of name or an error wrapping ErrParameterRequired.
func (retriever Retriever) Required(name string) (string, error) {
	value := retriever.Value(name)
	if len(value) == 0 {
		return "", fmt.Errorf(parameterRequiredTemplateConstant, ErrParameterRequired, name)
	}
	return value, nil
}

// Toggle parses name as a yes/no value, returning defaultValue when no source supplies it.
func (retriever Retriever) Toggle(name string, defaultValue bool) (bool, error) {
	value := retriever.Value(name)
	if len(value) == 0 {
		return defaultValue, nil
	}
	parsedValue, parseError := flags.ParseToggle(value)
	if parseError != nil {
		return false, fmt.Errorf("%s: %w", name, parseError)
	}
	return parsedValue, nil
}
