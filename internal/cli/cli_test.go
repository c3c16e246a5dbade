package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/filetree/internal/tokenizer"
	"github.com/temirov/filetree/internal/types"
	"github.com/temirov/filetree/internal/utils"
)

const testHomeDirectory = "/home/tester"

type recordingCopier struct {
	copied []string
}

func (copier *recordingCopier) Copy(text string) error {
	copier.copied = append(copier.copied, text)
	return nil
}

type runeCounter struct{}

func (runeCounter) Name() string { return "runes" }

func (runeCounter) CountString(input string) (int, error) { return len([]rune(input)), nil }

type commandHarness struct {
	stdout     *bytes.Buffer
	fileSystem afero.Fs
	copier     *recordingCopier
	workingDir string
}

func newHarness(t *testing.T) *commandHarness {
	t.Helper()
	projectDirectory := filepath.Join(t.TempDir(), "project")
	require.NoError(t, os.MkdirAll(filepath.Join(projectDirectory, "b"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(projectDirectory, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDirectory, "c.log"), []byte("c"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(projectDirectory, ".gitignore"), []byte("*.log\n"), 0o644))

	return &commandHarness{
		stdout:     &bytes.Buffer{},
		fileSystem: afero.NewMemMapFs(),
		copier:     &recordingCopier{},
		workingDir: projectDirectory,
	}
}

func (harness *commandHarness) run(t *testing.T, observedCore zapcore.Core, arguments ...string) error {
	t.Helper()
	rootCommand := NewRootCommand(Dependencies{
		Logger:     zap.New(observedCore),
		Stdout:     harness.stdout,
		FileSystem: harness.fileSystem,
		Copier:     harness.copier,
		NewCounter: func(model string) (tokenizer.Counter, string, error) {
			return runeCounter{}, model, nil
		},
		WorkingDirectory: harness.workingDir,
		HomeDirectory:    testHomeDirectory,
	})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, arguments))
	return rootCommand.ExecuteContext(context.Background())
}

func newObservedCore() (zapcore.Core, *observer.ObservedLogs) {
	return observer.New(zapcore.InfoLevel)
}

func TestTreeCommandGitignoreScenario(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()

	require.NoError(t, harness.run(t, core, "tree", "--ignored-by", "gitignore", "--hidden", "false"))
	assert.Equal(t, "project/\n├─ b/\n└─ a.txt\n", harness.stdout.String())
}

func TestTreeCommandDefaultsUseIgnoredItems(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()

	require.NoError(t, harness.run(t, core, "t", harness.workingDir, "--hidden=false"))
	assert.Equal(t, "project/\n├─ b/\n└─ a.txt\n", harness.stdout.String())
}

func TestTreeCommandFlagsOverrideConfiguration(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()
	localConfig := filepath.Join(harness.workingDir, utils.ConfigFileName)
	require.NoError(t, afero.WriteFile(harness.fileSystem, localConfig, []byte("output_format: json\nindent: 4\nshow_hidden_files: false\n"), 0o644))

	require.NoError(t, harness.run(t, core, "tree", "--dirs-only", "--indent", "2"))
	assert.Equal(t, "{\n  \"name\": \"project\",\n  \"type\": \"directory\",\n  \"children\": [\n    {\n      \"name\": \"b\",\n      \"type\": \"directory\",\n      \"children\": []\n    }\n  ]\n}\n", harness.stdout.String())
}

func TestTreeCommandRepeatableIgnoreFlag(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()

	require.NoError(t, harness.run(t, core, "tree", "-e", "b", "-e", ".*", "--format", "yaml"))
	rendered := harness.stdout.String()
	assert.Contains(t, rendered, "name: a.txt")
	assert.Contains(t, rendered, "name: c.log")
	assert.NotContains(t, rendered, "name: b\n")
	assert.NotContains(t, rendered, ".gitignore")
}

func TestTreeCommandCopiesAndCountsTokens(t *testing.T) {
	harness := newHarness(t)
	core, logs := newObservedCore()

	require.NoError(t, harness.run(t, core, "tree", "--copy", "--tokens", "--ignored-by", "both"))
	require.Len(t, harness.copier.copied, 1)
	assert.Equal(t, strings.TrimSuffix(harness.stdout.String(), "\n"), harness.copier.copied[0])
	assert.Equal(t, 1, logs.FilterMessage("Copied file tree to clipboard").Len())

	tokenLogs := logs.FilterMessage("token estimate").All()
	require.Len(t, tokenLogs, 1)
	assert.Equal(t, int64(len([]rune(harness.copier.copied[0]))), tokenLogs[0].ContextMap()["tokens"])
}

func TestTreeCommandErrors(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()

	formatError := harness.run(t, core, "tree", "--format", "html")
	assert.ErrorIs(t, formatError, types.ErrInvalidConfiguration)
	assert.Contains(t, formatError.Error(), `Invalid output format "html"`)

	missingError := harness.run(t, core, "tree", filepath.Join(harness.workingDir, "absent"))
	assert.ErrorIs(t, missingError, types.ErrPathNotFound)

	booleanError := harness.run(t, core, "tree", "--size=maybe")
	assert.Error(t, booleanError)
}

func TestInitCommandWritesConfiguration(t *testing.T) {
	harness := newHarness(t)
	core, logs := newObservedCore()

	require.NoError(t, harness.run(t, core, "init"))
	exists, existsError := afero.Exists(harness.fileSystem, filepath.Join(harness.workingDir, utils.ConfigFileName))
	require.NoError(t, existsError)
	assert.True(t, exists)
	assert.Equal(t, 1, logs.FilterMessage("configuration written").Len())

	assert.Error(t, harness.run(t, core, "init"))
	require.NoError(t, harness.run(t, core, "init", "--force"))

	require.NoError(t, harness.run(t, core, "init", "--global"))
	globalExists, _ := afero.Exists(harness.fileSystem, filepath.Join(testHomeDirectory, utils.GlobalConfigDirectoryName, utils.ConfigFileName))
	assert.True(t, globalExists)
}

func TestVersionFlag(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()

	require.NoError(t, harness.run(t, core, "--version"))
	assert.True(t, strings.HasPrefix(harness.stdout.String(), "filetree version: "))
}

func TestIgnoredByHelpMentionsGitDirectory(t *testing.T) {
	treeCommand := createTreeCommand(Dependencies{})
	usage := treeCommand.Flags().Lookup(ignoredByFlagName).Usage
	assert.Contains(t, usage, ".git")
	assert.Contains(t, usage, "--"+includeGitFlagName)
}

func TestTreeCommandGitFlagShowsGitDirectory(t *testing.T) {
	harness := newHarness(t)
	core, _ := newObservedCore()
	require.NoError(t, os.MkdirAll(filepath.Join(harness.workingDir, ".git"), 0o755))

	require.NoError(t, harness.run(t, core, "tree", "--ignored-by", "gitignore", "--dirs-only"))
	assert.NotContains(t, harness.stdout.String(), ".git/")

	harness.stdout.Reset()
	require.NoError(t, harness.run(t, core, "tree", "--ignored-by", "gitignore", "--dirs-only", "--git"))
	assert.Contains(t, harness.stdout.String(), ".git/")
}
