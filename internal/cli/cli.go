// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/filetree/internal/config"
	"github.com/temirov/filetree/internal/services/clipboard"
	"github.com/temirov/filetree/internal/services/extract"
	"github.com/temirov/filetree/internal/services/watch"
	"github.com/temirov/filetree/internal/tokenizer"
	"github.com/temirov/filetree/internal/utils"
)

const (
	ignoredByFlagName     = "ignored-by"
	ignoreFlagName        = "ignore"
	ignoreFlagShorthand   = "e"
	ignoreFileFlagName    = "ignore-file"
	hiddenFlagName        = "hidden"
	sizeFlagName          = "size"
	depthFlagName         = "depth"
	sortFlagName          = "sort"
	formatFlagName        = "format"
	indentFlagName        = "indent"
	directoryOnlyFlagName = "dirs-only"
	iconsFlagName         = "icons"
	includeGitFlagName    = "git"
	localeFlagName        = "locale"
	copyFlagName          = "copy"
	tokensFlagName        = "tokens"
	modelFlagName         = "model"
	watchFlagName         = "watch"
	configFlagName        = "config"
	globalFlagName        = "global"
	forceFlagName         = "force"
	versionFlagName       = "version"

	ignoredByFlagDescription     = "ignore rule source: ignoredItems, gitignore or both; gitignore modes also hide .git unless --git is set"
	ignoreFlagDescription        = "ignore pattern in gitignore syntax (repeatable, replaces configured patterns)"
	ignoreFileFlagDescription    = "file with additional ignore patterns, one per line"
	hiddenFlagDescription        = "show entries whose names start with a dot"
	sizeFlagDescription          = "show file sizes"
	depthFlagDescription         = "maximum depth below the root, -1 for unlimited"
	sortFlagDescription          = "sort order: type or alphabetical"
	formatFlagDescription        = "output format: ascii, json, yaml or xml"
	indentFlagDescription        = "indentation width"
	directoryOnlyFlagDescription = "list directories only"
	iconsFlagDescription         = "prefix entries with icons"
	includeGitFlagDescription    = "include the .git directory in gitignore modes"
	localeFlagDescription        = "collation locale such as en_US or de-DE"
	copyFlagDescription          = "copy the rendered tree to the clipboard"
	tokensFlagDescription        = "log a token estimate of the rendered tree"
	modelFlagDescription         = "tokenizer model used by --tokens"
	watchFlagDescription         = "regenerate whenever files under the root change"
	configFlagDescription        = "configuration file used instead of ./" + utils.ConfigFileName
	globalFlagDescription        = "write the global configuration under the home directory"
	forceFlagDescription         = "overwrite an existing configuration file"
	versionFlagDescription       = "display application version"

	rootUse              = utils.ApplicationName
	rootShortDescription = "filetree renders directory trees"
	rootLongDescription  = `filetree walks a directory and renders its structure as ASCII art, JSON, YAML or XML.
Entries can be filtered with ignore patterns, .gitignore files, depth limits and hidden-file rules.
Settings are read from ~/` + utils.GlobalConfigDirectoryName + `/` + utils.ConfigFileName + ` and ./` + utils.ConfigFileName + `; flags override both.`
	treeUse              = "tree [path]"
	treeAlias            = "t"
	treeShortDescription = "render a directory tree (" + treeAlias + ")"
	treeUsageExample     = `  # Render the current directory honoring .gitignore files
  filetree tree --ignored-by gitignore

  # Two levels of directories as YAML
  filetree tree ./internal --dirs-only --depth 2 --format yaml

  # Copy an icon tree with sizes to the clipboard
  filetree tree --icons --size --copy`
	initUse              = "init"
	initShortDescription = "write a default configuration file"

	versionTemplate         = "filetree version: %s\n"
	defaultPath             = "."
	copiedToClipboardLog    = "Copied file tree to clipboard"
	tokenEstimateLog        = "token estimate"
	configurationWrittenLog = "configuration written"
	watchingLog             = "watching for changes, press Ctrl+C to stop"

	errorWorkingDirectoryFormat = "unable to determine working directory: %w"
	errorWriteOutputFormat      = "writing output: %w"
	errorTokenizerFormat        = "initializing tokenizer for %s: %w"
)

// Dependencies are the collaborators of the command tree. Zero values are replaced with
// the real implementations.
type Dependencies struct {
	Logger           *zap.Logger
	Stdout           io.Writer
	FileSystem       afero.Fs
	Copier           clipboard.Copier
	NewCounter       func(model string) (tokenizer.Counter, string, error)
	WorkingDirectory string
	HomeDirectory    string
}

func (dependencies Dependencies) withDefaults() (Dependencies, error) {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Stdout == nil {
		dependencies.Stdout = os.Stdout
	}
	if dependencies.FileSystem == nil {
		dependencies.FileSystem = afero.NewOsFs()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.NewCounter == nil {
		dependencies.NewCounter = tokenizer.NewCounter
	}
	if dependencies.WorkingDirectory == "" {
		workingDirectory, workingDirectoryError := os.Getwd()
		if workingDirectoryError != nil {
			return Dependencies{}, fmt.Errorf(errorWorkingDirectoryFormat, workingDirectoryError)
		}
		dependencies.WorkingDirectory = workingDirectory
	}
	return dependencies, nil
}

// Execute runs the filetree application with the process arguments.
func Execute(ctx context.Context, logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.ExecuteContext(ctx)
}

// NewRootCommand builds the root Cobra command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			if showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, utils.GetApplicationVersion())
				return printError
			}
			return command.Help()
		},
	}
	if dependencies.Stdout != nil {
		rootCommand.SetOut(dependencies.Stdout)
	}
	rootCommand.Flags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.PersistentFlags().String(configFlagName, "", configFlagDescription)
	rootCommand.AddCommand(
		createTreeCommand(dependencies),
		createInitCommand(dependencies),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// treeOptions holds the raw flag values of the tree command.
type treeOptions struct {
	ignoredBy     string
	ignorePattern []string
	ignoreFile    string
	hidden        bool
	size          bool
	depth         int
	sortOrder     string
	format        string
	indent        int
	directoryOnly bool
	icons         bool
	includeGit    bool
	locale        string
	copyOutput    bool
	tokens        bool
	model         string
	watch         bool
}

// overrides converts the flags the user actually set into a configuration layer.
func (options treeOptions) overrides(command *cobra.Command) config.ApplicationConfiguration {
	flags := command.Flags()
	var layer config.ApplicationConfiguration
	if flags.Changed(ignoredByFlagName) {
		layer.IgnoredBy = options.ignoredBy
	}
	if flags.Changed(ignoreFlagName) {
		layer.IgnoredItems = append([]string{}, options.ignorePattern...)
	}
	if flags.Changed(ignoreFileFlagName) {
		layer.IgnoreFile = options.ignoreFile
	}
	if flags.Changed(hiddenFlagName) {
		layer.ShowHiddenFiles = &options.hidden
	}
	if flags.Changed(sizeFlagName) {
		layer.ShowFileSize = &options.size
	}
	if flags.Changed(depthFlagName) {
		layer.MaxDepth = &options.depth
	}
	if flags.Changed(sortFlagName) {
		layer.SortOrder = options.sortOrder
	}
	if flags.Changed(formatFlagName) {
		layer.OutputFormat = options.format
	}
	if flags.Changed(indentFlagName) {
		layer.Indent = &options.indent
	}
	if flags.Changed(directoryOnlyFlagName) {
		layer.DirectoryOnly = &options.directoryOnly
	}
	if flags.Changed(iconsFlagName) {
		layer.UseFileIcons = &options.icons
	}
	if flags.Changed(includeGitFlagName) {
		layer.IncludeGit = &options.includeGit
	}
	if flags.Changed(localeFlagName) {
		layer.Locale = options.locale
	}
	if flags.Changed(copyFlagName) {
		layer.Clipboard = &options.copyOutput
	}
	if flags.Changed(tokensFlagName) {
		layer.Tokens.Enabled = &options.tokens
	}
	if flags.Changed(modelFlagName) {
		layer.Tokens.Model = options.model
	}
	return layer
}

// createTreeCommand returns the tree subcommand.
func createTreeCommand(dependencies Dependencies) *cobra.Command {
	var options treeOptions

	treeCommand := &cobra.Command{
		Use:     treeUse,
		Aliases: []string{treeAlias},
		Short:   treeShortDescription,
		Example: treeUsageExample,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(command *cobra.Command, arguments []string) error {
			resolved, dependenciesError := dependencies.withDefaults()
			if dependenciesError != nil {
				return dependenciesError
			}
			rootPath := defaultPath
			if len(arguments) == 1 {
				rootPath = arguments[0]
			}
			if !filepath.IsAbs(rootPath) {
				rootPath = filepath.Join(resolved.WorkingDirectory, rootPath)
			}
			configPath, _ := command.Flags().GetString(configFlagName)
			return runTree(command.Context(), resolved, rootPath, configPath, options.overrides(command), options.watch)
		},
	}

	flags := treeCommand.Flags()
	flags.StringVar(&options.ignoredBy, ignoredByFlagName, "", ignoredByFlagDescription)
	flags.StringArrayVarP(&options.ignorePattern, ignoreFlagName, ignoreFlagShorthand, nil, ignoreFlagDescription)
	flags.StringVar(&options.ignoreFile, ignoreFileFlagName, "", ignoreFileFlagDescription)
	registerBooleanFlag(flags, &options.hidden, hiddenFlagName, true, hiddenFlagDescription)
	registerBooleanFlag(flags, &options.size, sizeFlagName, false, sizeFlagDescription)
	flags.IntVar(&options.depth, depthFlagName, -1, depthFlagDescription)
	flags.StringVar(&options.sortOrder, sortFlagName, "", sortFlagDescription)
	flags.StringVar(&options.format, formatFlagName, "", formatFlagDescription)
	flags.IntVar(&options.indent, indentFlagName, 1, indentFlagDescription)
	registerBooleanFlag(flags, &options.directoryOnly, directoryOnlyFlagName, false, directoryOnlyFlagDescription)
	registerBooleanFlag(flags, &options.icons, iconsFlagName, false, iconsFlagDescription)
	registerBooleanFlag(flags, &options.includeGit, includeGitFlagName, false, includeGitFlagDescription)
	flags.StringVar(&options.locale, localeFlagName, "", localeFlagDescription)
	registerBooleanFlag(flags, &options.copyOutput, copyFlagName, false, copyFlagDescription)
	registerBooleanFlag(flags, &options.tokens, tokensFlagName, false, tokensFlagDescription)
	flags.StringVar(&options.model, modelFlagName, tokenizer.DefaultModel, modelFlagDescription)
	registerBooleanFlag(flags, &options.watch, watchFlagName, false, watchFlagDescription)
	return treeCommand
}

// runTree resolves the layered configuration, renders once and, when watching, again
// after every debounced change.
func runTree(ctx context.Context, dependencies Dependencies, rootPath string, configPath string, flagLayer config.ApplicationConfiguration, watchChanges bool) error {
	loaded, loadError := config.LoadApplicationConfiguration(config.LoadOptions{
		FileSystem:       dependencies.FileSystem,
		WorkingDirectory: dependencies.WorkingDirectory,
		HomeDirectory:    dependencies.HomeDirectory,
		ExplicitFilePath: configPath,
	})
	if loadError != nil {
		return loadError
	}
	settings := loaded.Merge(flagLayer)
	buildConfig, buildConfigError := settings.ToBuildConfig(dependencies.FileSystem)
	if buildConfigError != nil {
		return buildConfigError
	}

	var counter tokenizer.Counter
	if settings.Tokens.Enabled != nil && *settings.Tokens.Enabled {
		createdCounter, _, counterError := dependencies.NewCounter(settings.Tokens.Model)
		if counterError != nil {
			return fmt.Errorf(errorTokenizerFormat, settings.Tokens.Model, counterError)
		}
		counter = createdCounter
	}
	copyOutput := settings.Clipboard != nil && *settings.Clipboard

	generator := extract.NewGenerator(dependencies.Logger)
	render := func(renderContext context.Context) error {
		rendered, generateError := generator.Generate(renderContext, rootPath, buildConfig)
		if generateError != nil {
			return generateError
		}
		if _, writeError := fmt.Fprintln(dependencies.Stdout, rendered); writeError != nil {
			return fmt.Errorf(errorWriteOutputFormat, writeError)
		}
		if counter != nil {
			tokens, countError := tokenizer.CountRendered(counter, rendered)
			if countError != nil {
				dependencies.Logger.Warn(tokenEstimateLog, zap.Error(countError))
			} else {
				dependencies.Logger.Info(tokenEstimateLog, zap.Int("tokens", tokens), zap.String("encoding", counter.Name()))
			}
		}
		if copyOutput {
			if copyError := dependencies.Copier.Copy(rendered); copyError != nil {
				return copyError
			}
			dependencies.Logger.Info(copiedToClipboardLog)
		}
		return nil
	}

	if renderError := render(ctx); renderError != nil {
		return renderError
	}
	if !watchChanges {
		return nil
	}

	watcher, watcherError := watch.New(rootPath, watch.DefaultDebounce, generator, render, dependencies.Logger)
	if watcherError != nil {
		return watcherError
	}
	dependencies.Logger.Info(watchingLog, zap.String("root", rootPath))
	return watcher.Run(ctx)
}

// createInitCommand returns the init subcommand.
func createInitCommand(dependencies Dependencies) *cobra.Command {
	var global bool
	var force bool

	initCommand := &cobra.Command{
		Use:   initUse,
		Short: initShortDescription,
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			resolved, dependenciesError := dependencies.withDefaults()
			if dependenciesError != nil {
				return dependenciesError
			}
			target := config.InitTargetLocal
			if global {
				target = config.InitTargetGlobal
			}
			path, initError := config.InitializeConfiguration(config.InitOptions{
				FileSystem:       resolved.FileSystem,
				Target:           target,
				Force:            force,
				WorkingDirectory: resolved.WorkingDirectory,
				HomeDirectory:    resolved.HomeDirectory,
			})
			if initError != nil {
				return initError
			}
			resolved.Logger.Info(configurationWrittenLog, zap.String("path", path))
			return nil
		},
	}
	registerBooleanFlag(initCommand.Flags(), &global, globalFlagName, false, globalFlagDescription)
	registerBooleanFlag(initCommand.Flags(), &force, forceFlagName, false, forceFlagDescription)
	return initCommand
}
