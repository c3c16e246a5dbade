package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/temirov/filetree/internal/tokenizer"
	"github.com/temirov/filetree/internal/types"
)

const (
	defaultIndent = 1

	invalidIgnoredByMessage    = `Invalid option at "ignoredBy"`
	invalidSortOrderMessage    = `Invalid option at "sortOrder"`
	invalidOutputFormatMessage = "Invalid output format %q"
	invalidIgnoreFileMessage   = `Unable to read "ignoreFile": %v`
)

var (
	defaultIgnoredItems = []string{"node_modules", ".git", "*.log", ".DS_Store", "tmp"}

	localeEnvironmentVariables = []string{"LC_ALL", "LC_COLLATE", "LANG"}
)

// DefaultConfiguration returns a configuration with every setting at its default.
func DefaultConfiguration() ApplicationConfiguration {
	return ApplicationConfiguration{
		IgnoredItems:    append([]string{}, defaultIgnoredItems...),
		IgnoredBy:       types.IgnoredByPatternsText,
		ShowHiddenFiles: boolPointer(true),
		ShowFileSize:    boolPointer(false),
		MaxDepth:        intPointer(types.UnboundedDepth),
		SortOrder:       types.SortTypeFirstText,
		OutputFormat:    types.FormatASCIIText,
		Indent:          intPointer(defaultIndent),
		DirectoryOnly:   boolPointer(false),
		UseFileIcons:    boolPointer(false),
		IncludeGit:      boolPointer(false),
		Concurrency:     intPointer(0),
		Clipboard:       boolPointer(false),
		Tokens: TokenConfiguration{
			Enabled: boolPointer(false),
			Model:   tokenizer.DefaultModel,
		},
	}
}

// ToBuildConfig resolves the configuration into an immutable BuildConfig. Every violation
// is collected into a single ErrInvalidConfiguration error. Patterns from IgnoreFile are
// appended to IgnoredItems.
func (config ApplicationConfiguration) ToBuildConfig(fileSystem afero.Fs) (types.BuildConfig, error) {
	resolved := DefaultConfiguration().Merge(config)
	var violations []string

	ignoredBy, knownIgnoredBy := types.ParseIgnoredBy(resolved.IgnoredBy)
	if !knownIgnoredBy {
		violations = append(violations, invalidIgnoredByMessage)
	}
	sortOrder, knownSortOrder := types.ParseSortOrder(resolved.SortOrder)
	if !knownSortOrder {
		violations = append(violations, invalidSortOrderMessage)
	}
	outputFormat, knownOutputFormat := types.ParseOutputFormat(resolved.OutputFormat)
	if !knownOutputFormat {
		violations = append(violations, fmt.Sprintf(invalidOutputFormatMessage, resolved.OutputFormat))
	}

	ignoredItems := append([]string{}, resolved.IgnoredItems...)
	if resolved.IgnoreFile != "" {
		if fileSystem == nil {
			fileSystem = afero.NewOsFs()
		}
		filePatterns, loadError := LoadIgnoreFilePatterns(fileSystem, resolved.IgnoreFile)
		if loadError != nil {
			violations = append(violations, fmt.Sprintf(invalidIgnoreFileMessage, loadError))
		}
		ignoredItems = append(ignoredItems, filePatterns...)
	}

	locale := resolved.Locale
	if locale == "" {
		locale = LocaleFromEnvironment(os.LookupEnv)
	}

	buildConfig := types.BuildConfig{
		IgnoredBy:       ignoredBy,
		IgnoredItems:    ignoredItems,
		ShowHiddenFiles: *resolved.ShowHiddenFiles,
		ShowFileSize:    *resolved.ShowFileSize,
		MaxDepth:        *resolved.MaxDepth,
		SortOrder:       sortOrder,
		OutputFormat:    outputFormat,
		Indent:          *resolved.Indent,
		DirectoryOnly:   *resolved.DirectoryOnly,
		UseFileIcons:    *resolved.UseFileIcons,
		IncludeGit:      *resolved.IncludeGit,
		Locale:          locale,
		Concurrency:     *resolved.Concurrency,
	}

	if validationError := buildConfig.Validate(); validationError != nil {
		var typedError *types.Error
		if errors.As(validationError, &typedError) {
			violations = append(violations, typedError.Details...)
		}
	}
	if len(violations) > 0 {
		return types.BuildConfig{}, types.NewConfigurationError(violations)
	}
	return buildConfig, nil
}

// LocaleFromEnvironment returns the collation locale from LC_ALL, LC_COLLATE or LANG, in
// that order of precedence.
func LocaleFromEnvironment(lookup func(string) (string, bool)) string {
	for _, variableName := range localeEnvironmentVariables {
		if value, present := lookup(variableName); present && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

func boolPointer(value bool) *bool {
	return &value
}

func intPointer(value int) *int {
	return &value
}
