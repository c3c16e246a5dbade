package ignore

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/filetree/internal/types"
)

const (
	warningReadGitignoreMessage = "unable to read .gitignore, skipping its rules"

	// gitDirectoryPattern keeps the repository marker out of gitignore-driven trees,
	// matching both a .git directory and a worktree .git file.
	gitDirectoryPattern = GitDirectoryName
)

// Resolver answers inclusion questions for one configuration.
type Resolver struct {
	cache      *RuleCache
	mode       types.IgnoredBy
	patterns   []string
	includeGit bool
	variant    string
	logger     *zap.Logger

	patternRulesOnce sync.Once
	patternRules     *RuleSet
}

// NewResolver builds a resolver backed by cache. A nil cache gets a private one and a
// nil logger discards warnings.
func NewResolver(cache *RuleCache, mode types.IgnoredBy, patterns []string, includeGit bool, logger *zap.Logger) *Resolver {
	if cache == nil {
		cache = NewRuleCache()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	copiedPatterns := append([]string(nil), patterns...)
	return &Resolver{
		cache:      cache,
		mode:       mode,
		patterns:   copiedPatterns,
		includeGit: includeGit,
		variant:    resolverVariant(mode, copiedPatterns, includeGit),
		logger:     logger,
	}
}

// NewResolverForConfig builds a resolver from the ignore settings of config.
func NewResolverForConfig(cache *RuleCache, config types.BuildConfig, logger *zap.Logger) *Resolver {
	return NewResolver(cache, config.IgnoredBy, config.IgnoredItems, config.IncludeGit, logger)
}

// Cache returns the cache the resolver reads through.
func (resolver *Resolver) Cache() *RuleCache {
	return resolver.cache
}

// ShouldIgnore reports whether itemPath is excluded from the tree rooted at rootPath.
// The root itself is never excluded; an entry that cannot be inspected is.
func (resolver *Resolver) ShouldIgnore(itemPath string, rootPath string) bool {
	cleanItemPath := filepath.Clean(itemPath)
	cleanRootPath := filepath.Clean(rootPath)

	relativeToRoot, relativeError := filepath.Rel(cleanRootPath, cleanItemPath)
	if relativeError != nil {
		return true
	}
	if relativeToRoot == "." || relativeToRoot == "" {
		return false
	}

	itemInfo, statError := os.Lstat(cleanItemPath)
	if statError != nil {
		return true
	}
	isDirectory := itemInfo.IsDir()

	if resolver.mode == types.IgnoredByPatterns {
		return resolver.patternRuleSet().Matches(relativeToRoot, isDirectory)
	}

	basePath := resolver.cache.repositoryRoot(cleanRootPath)
	if basePath == "" {
		basePath = cleanRootPath
	}
	parentDirectory := filepath.Dir(cleanItemPath)
	key := ruleCacheKey{directory: parentDirectory, rootPath: cleanRootPath, variant: resolver.variant}
	ruleSet := resolver.cache.ruleSet(key, func() *RuleSet {
		return resolver.compileLayers(basePath, parentDirectory)
	})

	relativeToBase, baseError := filepath.Rel(basePath, cleanItemPath)
	if baseError != nil {
		return true
	}
	return ruleSet.Matches(relativeToBase, isDirectory)
}

func (resolver *Resolver) patternRuleSet() *RuleSet {
	resolver.patternRulesOnce.Do(func() {
		resolver.patternRules = CompileRuleSet(resolver.patterns)
	})
	return resolver.patternRules
}

// compileLayers folds the .gitignore files from basePath down to directoryPath into one
// ordered rule set, so deeper files override shallower ones, then appends the explicit
// patterns in Both mode.
func (resolver *Resolver) compileLayers(basePath string, directoryPath string) *RuleSet {
	var lines []string
	if !resolver.includeGit {
		lines = append(lines, gitDirectoryPattern)
	}
	for _, layerDirectory := range layerDirectories(basePath, directoryPath) {
		layerLines, readError := readGitignoreLines(layerDirectory)
		if readError != nil {
			resolver.logger.Warn(warningReadGitignoreMessage,
				zap.String("path", filepath.Join(layerDirectory, GitIgnoreFileName)),
				zap.Error(readError))
			continue
		}
		relativeDirectory, _ := filepath.Rel(basePath, layerDirectory)
		relativeDirectory = filepath.ToSlash(relativeDirectory)
		for _, line := range layerLines {
			lines = append(lines, scopePattern(line, relativeDirectory))
		}
	}
	if resolver.mode == types.IgnoredByBoth {
		lines = append(lines, resolver.patterns...)
	}
	return CompileRuleSet(lines)
}

func resolverVariant(mode types.IgnoredBy, patterns []string, includeGit bool) string {
	var builder strings.Builder
	builder.WriteString(mode.String())
	if includeGit {
		builder.WriteString("+git")
	}
	for _, pattern := range patterns {
		builder.WriteString("\x1f")
		builder.WriteString(pattern)
	}
	return builder.String()
}
