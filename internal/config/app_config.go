package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/temirov/filetree/internal/utils"
)

// LoadOptions controls how application configuration is discovered. Empty directories
// default to the process working directory and the user's home directory.
type LoadOptions struct {
	FileSystem       afero.Fs
	WorkingDirectory string
	HomeDirectory    string
	ExplicitFilePath string
}

// ApplicationConfiguration mirrors the configuration file. Pointer and empty values mean
// "not set" so that layered files and flags can be merged.
type ApplicationConfiguration struct {
	IgnoredItems    []string           `mapstructure:"ignored_items"`
	IgnoredBy       string             `mapstructure:"ignored_by"`
	IgnoreFile      string             `mapstructure:"ignore_file"`
	ShowHiddenFiles *bool              `mapstructure:"show_hidden_files"`
	ShowFileSize    *bool              `mapstructure:"show_file_size"`
	MaxDepth        *int               `mapstructure:"max_depth"`
	SortOrder       string             `mapstructure:"sort_order"`
	OutputFormat    string             `mapstructure:"output_format"`
	Indent          *int               `mapstructure:"indent"`
	DirectoryOnly   *bool              `mapstructure:"directory_only"`
	UseFileIcons    *bool              `mapstructure:"use_file_icons"`
	IncludeGit      *bool              `mapstructure:"include_git"`
	Locale          string             `mapstructure:"locale"`
	Concurrency     *int               `mapstructure:"concurrency"`
	Clipboard       *bool              `mapstructure:"clipboard"`
	Tokens          TokenConfiguration `mapstructure:"tokens"`
}

// TokenConfiguration controls token counting defaults.
type TokenConfiguration struct {
	Enabled *bool  `mapstructure:"enabled"`
	Model   string `mapstructure:"model"`
}

// LoadApplicationConfiguration merges the defaults, the global file and the local (or
// explicit) file, later sources overriding earlier ones.
func LoadApplicationConfiguration(options LoadOptions) (ApplicationConfiguration, error) {
	fileSystem := options.FileSystem
	if fileSystem == nil {
		fileSystem = afero.NewOsFs()
	}
	workingDirectory := options.WorkingDirectory
	if workingDirectory == "" {
		currentDirectory, err := os.Getwd()
		if err != nil {
			return ApplicationConfiguration{}, fmt.Errorf("determine working directory: %w", err)
		}
		workingDirectory = currentDirectory
	}
	homeDirectory := options.HomeDirectory
	if homeDirectory == "" {
		if resolvedHome, err := os.UserHomeDir(); err == nil {
			homeDirectory = resolvedHome
		}
	}

	merged := DefaultConfiguration()

	if homeDirectory != "" {
		globalPath := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
		globalConfig, loadErr := loadConfigurationFromPath(fileSystem, globalPath, false)
		if loadErr != nil {
			return ApplicationConfiguration{}, loadErr
		}
		merged = merged.Merge(globalConfig)
	}

	localPath, explicit := resolveLocalConfigPath(workingDirectory, options.ExplicitFilePath)
	localConfig, loadErr := loadConfigurationFromPath(fileSystem, localPath, explicit)
	if loadErr != nil {
		return ApplicationConfiguration{}, loadErr
	}
	merged = merged.Merge(localConfig)

	if merged.IgnoreFile != "" && !filepath.IsAbs(merged.IgnoreFile) {
		merged.IgnoreFile = filepath.Join(workingDirectory, merged.IgnoreFile)
	}
	return merged, nil
}

func resolveLocalConfigPath(workingDirectory, explicitPath string) (string, bool) {
	if explicitPath != "" {
		if filepath.IsAbs(explicitPath) {
			return explicitPath, true
		}
		return filepath.Join(workingDirectory, explicitPath), true
	}
	return filepath.Join(workingDirectory, utils.ConfigFileName), false
}

// loadConfigurationFromPath reads one YAML file. A missing file is only an error when the
// path was requested explicitly.
func loadConfigurationFromPath(fileSystem afero.Fs, path string, required bool) (ApplicationConfiguration, error) {
	info, statErr := fileSystem.Stat(path)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) && !required {
			return ApplicationConfiguration{}, nil
		}
		return ApplicationConfiguration{}, fmt.Errorf("stat configuration %s: %w", path, statErr)
	}
	if info.IsDir() {
		return ApplicationConfiguration{}, fmt.Errorf("configuration path %s is a directory", path)
	}

	reader := viper.New()
	reader.SetFs(fileSystem)
	reader.SetConfigFile(path)
	reader.SetConfigType("yaml")
	if readErr := reader.ReadInConfig(); readErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("read configuration from %s: %w", path, readErr)
	}
	var config ApplicationConfiguration
	if decodeErr := reader.Unmarshal(&config); decodeErr != nil {
		return ApplicationConfiguration{}, fmt.Errorf("decode configuration from %s: %w", path, decodeErr)
	}
	return config, nil
}

// Merge overlays override onto the receiver returning the combined configuration.
func (config ApplicationConfiguration) Merge(override ApplicationConfiguration) ApplicationConfiguration {
	result := config
	if override.IgnoredItems != nil {
		result.IgnoredItems = append([]string{}, override.IgnoredItems...)
	}
	if override.IgnoredBy != "" {
		result.IgnoredBy = override.IgnoredBy
	}
	if override.IgnoreFile != "" {
		result.IgnoreFile = override.IgnoreFile
	}
	if override.ShowHiddenFiles != nil {
		result.ShowHiddenFiles = cloneBool(override.ShowHiddenFiles)
	}
	if override.ShowFileSize != nil {
		result.ShowFileSize = cloneBool(override.ShowFileSize)
	}
	if override.MaxDepth != nil {
		result.MaxDepth = cloneInt(override.MaxDepth)
	}
	if override.SortOrder != "" {
		result.SortOrder = override.SortOrder
	}
	if override.OutputFormat != "" {
		result.OutputFormat = override.OutputFormat
	}
	if override.Indent != nil {
		result.Indent = cloneInt(override.Indent)
	}
	if override.DirectoryOnly != nil {
		result.DirectoryOnly = cloneBool(override.DirectoryOnly)
	}
	if override.UseFileIcons != nil {
		result.UseFileIcons = cloneBool(override.UseFileIcons)
	}
	if override.IncludeGit != nil {
		result.IncludeGit = cloneBool(override.IncludeGit)
	}
	if override.Locale != "" {
		result.Locale = override.Locale
	}
	if override.Concurrency != nil {
		result.Concurrency = cloneInt(override.Concurrency)
	}
	if override.Clipboard != nil {
		result.Clipboard = cloneBool(override.Clipboard)
	}
	result.Tokens = result.Tokens.merge(override.Tokens)
	return result
}

func (config TokenConfiguration) merge(override TokenConfiguration) TokenConfiguration {
	result := config
	if override.Enabled != nil {
		result.Enabled = cloneBool(override.Enabled)
	}
	if override.Model != "" {
		result.Model = override.Model
	}
	return result
}

func cloneBool(value *bool) *bool {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}

func cloneInt(value *int) *int {
	if value == nil {
		return nil
	}
	cloned := *value
	return &cloned
}
