package config

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"

	"github.com/temirov/filetree/internal/utils"
)

const (
	testHomeDirectory    = "/home/tester"
	testWorkingDirectory = "/work/project"
)

type configTestCase struct {
	name          string
	globalContent string
	localContent  string
	explicitPath  string
	explicitBody  string
	expectFormat  string
	expectDepth   int
	expectHidden  bool
	expectItems   []string
	expectTokens  bool
	expectModel   string
}

func writeMemoryFile(t *testing.T, fileSystem afero.Fs, path string, content string) {
	t.Helper()
	if content == "" {
		return
	}
	if err := afero.WriteFile(fileSystem, path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	globalPath := filepath.Join(testHomeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName)
	localPath := filepath.Join(testWorkingDirectory, utils.ConfigFileName)

	testCases := []configTestCase{
		{
			name:         "defaults only",
			expectFormat: "ascii",
			expectDepth:  -1,
			expectHidden: true,
			expectItems:  []string{"node_modules", ".git", "*.log", ".DS_Store", "tmp"},
			expectModel:  "gpt-4o",
		},
		{
			name:          "local overrides global",
			globalContent: "output_format: json\nmax_depth: 3\nshow_hidden_files: false\n",
			localContent:  "output_format: yaml\nignored_items:\n  - dist\ntokens:\n  enabled: true\n  model: gpt-4\n",
			expectFormat:  "yaml",
			expectDepth:   3,
			expectHidden:  false,
			expectItems:   []string{"dist"},
			expectTokens:  true,
			expectModel:   "gpt-4",
		},
		{
			name:          "explicit path replaces local",
			globalContent: "output_format: json\n",
			localContent:  "output_format: yaml\n",
			explicitPath:  "custom.yaml",
			explicitBody:  "output_format: xml\nignored_items:\n  - build\n",
			expectFormat:  "xml",
			expectDepth:   -1,
			expectHidden:  true,
			expectItems:   []string{"build"},
			expectModel:   "gpt-4o",
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			fileSystem := afero.NewMemMapFs()
			writeMemoryFile(t, fileSystem, globalPath, testCase.globalContent)
			writeMemoryFile(t, fileSystem, localPath, testCase.localContent)
			if testCase.explicitPath != "" {
				writeMemoryFile(t, fileSystem, filepath.Join(testWorkingDirectory, testCase.explicitPath), testCase.explicitBody)
			}

			loaded, err := LoadApplicationConfiguration(LoadOptions{
				FileSystem:       fileSystem,
				WorkingDirectory: testWorkingDirectory,
				HomeDirectory:    testHomeDirectory,
				ExplicitFilePath: testCase.explicitPath,
			})
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			if loaded.OutputFormat != testCase.expectFormat {
				t.Fatalf("expected format %q, got %q", testCase.expectFormat, loaded.OutputFormat)
			}
			if *loaded.MaxDepth != testCase.expectDepth {
				t.Fatalf("expected depth %d, got %d", testCase.expectDepth, *loaded.MaxDepth)
			}
			if *loaded.ShowHiddenFiles != testCase.expectHidden {
				t.Fatalf("expected hidden %t, got %t", testCase.expectHidden, *loaded.ShowHiddenFiles)
			}
			if len(loaded.IgnoredItems) != len(testCase.expectItems) {
				t.Fatalf("expected items %v, got %v", testCase.expectItems, loaded.IgnoredItems)
			}
			for index, item := range testCase.expectItems {
				if loaded.IgnoredItems[index] != item {
					t.Fatalf("expected items %v, got %v", testCase.expectItems, loaded.IgnoredItems)
				}
			}
			if *loaded.Tokens.Enabled != testCase.expectTokens || loaded.Tokens.Model != testCase.expectModel {
				t.Fatalf("unexpected token configuration %+v", loaded.Tokens)
			}
		})
	}
}

func TestLoadApplicationConfigurationMissingExplicitFile(t *testing.T) {
	_, err := LoadApplicationConfiguration(LoadOptions{
		FileSystem:       afero.NewMemMapFs(),
		WorkingDirectory: testWorkingDirectory,
		HomeDirectory:    testHomeDirectory,
		ExplicitFilePath: "absent.yaml",
	})
	if err == nil {
		t.Fatalf("expected an error for a missing explicit configuration file")
	}
}

func TestLoadApplicationConfigurationResolvesIgnoreFile(t *testing.T) {
	fileSystem := afero.NewMemMapFs()
	writeMemoryFile(t, fileSystem, filepath.Join(testWorkingDirectory, utils.ConfigFileName), "ignore_file: .treeignore\n")

	loaded, err := LoadApplicationConfiguration(LoadOptions{
		FileSystem:       fileSystem,
		WorkingDirectory: testWorkingDirectory,
		HomeDirectory:    testHomeDirectory,
	})
	if err != nil {
		t.Fatalf("LoadApplicationConfiguration error: %v", err)
	}
	expected := filepath.Join(testWorkingDirectory, ".treeignore")
	if loaded.IgnoreFile != expected {
		t.Fatalf("expected ignore file %s, got %s", expected, loaded.IgnoreFile)
	}
}
