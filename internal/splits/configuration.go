package splits

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configurationPathRequiredMessageConstant   = "split configuration path must be provided"
	configurationReadErrorTemplateConstant     = "failed to read split configuration %s: %w"
	configurationParseErrorTemplateConstant    = "failed to parse split configuration %s: %w"
	configurationMissingListTemplateConstant   = "split configuration %s does not define \"sub-splits\""
	configurationFieldMissingTemplateConstant  = "sub-split #%d is missing %q"
	configurationDuplicateNameTemplateConstant = "sub-split name %q is defined more than once"
	configurationFieldNameConstant             = "name"
	configurationFieldTargetConstant           = "target"
	configurationFieldDirectoryConstant        = "directory"
	splitDescriptionTemplateConstant           = "%s %s → %s"
)

// ErrInvalidConfiguration marks validation failures of an otherwise readable split configuration.
var ErrInvalidConfiguration = errors.New("invalid split configuration")

// SplitConfig describes one subdirectory published as a standalone branch.
type SplitConfig struct {
	Name      string `yaml:"name" json:"name"`
	Target    string `yaml:"target" json:"target"`
	Directory string `yaml:"directory" json:"directory"`
}

// String renders the split as "<name> <directory> → <target>".
func (split SplitConfig) String() string {
	return fmt.Sprintf(splitDescriptionTemplateConstant, split.Name, split.Directory, split.Target)
}

// Configuration is the ordered list of configured splits.
type Configuration struct {
	SubSplits []SplitConfig
}

type configurationDocument struct {
	SubSplits *[]SplitConfig `yaml:"sub-splits" json:"sub-splits"`
}

// Names returns split names in configuration order.
func (configuration Configuration) Names() []string {
	names := make([]string, 0, len(configuration.SubSplits))
	for _, split := range configuration.SubSplits {
		names = append(names, split.Name)
	}
	return names
}

// LoadConfiguration reads and validates the split configuration stored at filePath.
func LoadConfiguration(filePath string) (Configuration, error) {
	trimmedPath := strings.TrimSpace(filePath)
	if len(trimmedPath) == 0 {
		return Configuration{}, errors.New(configurationPathRequiredMessageConstant)
	}

	contentBytes, readError := os.ReadFile(trimmedPath)
	if readError != nil {
		return Configuration{}, fmt.Errorf(configurationReadErrorTemplateConstant, trimmedPath, readError)
	}

	return ParseConfiguration(trimmedPath, contentBytes)
}

// ParseConfiguration decodes and validates configuration content. sourceName only labels errors.
func ParseConfiguration(sourceName string, contentBytes []byte) (Configuration, error) {
	var document configurationDocument
	if unmarshalError := yaml.Unmarshal(contentBytes, &document); unmarshalError != nil {
		return Configuration{}, fmt.Errorf(configurationParseErrorTemplateConstant, sourceName, unmarshalError)
	}
	if document.SubSplits == nil {
		return Configuration{}, fmt.Errorf("%w: "+configurationMissingListTemplateConstant, ErrInvalidConfiguration, sourceName)
	}

	configuration := Configuration{SubSplits: make([]SplitConfig, 0, len(*document.SubSplits))}
	seenNames := make(map[string]struct{}, len(*document.SubSplits))
	for splitIndex, split := range *document.SubSplits {
		normalizedSplit := SplitConfig{
			Name:      strings.TrimSpace(split.Name),
			Target:    strings.TrimSpace(split.Target),
			Directory: strings.TrimSpace(split.Directory),
		}
		if validationError := validateSplit(splitIndex, normalizedSplit); validationError != nil {
			return Configuration{}, validationError
		}
		if _, duplicate := seenNames[normalizedSplit.Name]; duplicate {
			return Configuration{}, fmt.Errorf("%w: "+configurationDuplicateNameTemplateConstant, ErrInvalidConfiguration, normalizedSplit.Name)
		}
		seenNames[normalizedSplit.Name] = struct{}{}
		configuration.SubSplits = append(configuration.SubSplits, normalizedSplit)
	}

	return configuration, nil
}

func validateSplit(splitIndex int, split SplitConfig) error {
	requiredFields := []struct {
		name  string
		value string
	}{
		{name: configurationFieldNameConstant, value: split.Name},
		{name: configurationFieldTargetConstant, value: split.Target},
		{name: configurationFieldDirectoryConstant, value: split.Directory},
	}
	for _, requiredField := range requiredFields {
		if len(requiredField.value) == 0 {
			return fmt.Errorf("%w: "+configurationFieldMissingTemplateConstant, ErrInvalidConfiguration, splitIndex+1, requiredField.name)
		}
	}
	return nil
}
