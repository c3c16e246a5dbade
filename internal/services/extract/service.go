// Package extract orchestrates one tree generation: validation, traversal and rendering.
package extract

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/temirov/filetree/internal/commands"
	"github.com/temirov/filetree/internal/ignore"
	"github.com/temirov/filetree/internal/output"
	"github.com/temirov/filetree/internal/types"
)

const (
	debugGenerationStartedMessage  = "generating file tree"
	debugGenerationFinishedMessage = "generated file tree"
	debugCacheInvalidatedMessage   = "ignore rule cache invalidated"
)

// Generator produces rendered trees. It owns the ignore rule cache shared by its
// generations, so calls to Generate are serialized.
type Generator struct {
	cache  *ignore.RuleCache
	logger *zap.Logger
	mutex  sync.Mutex
}

// NewGenerator returns a Generator with an empty rule cache. A nil logger discards output.
func NewGenerator(logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{cache: ignore.NewRuleCache(), logger: logger}
}

// Generate walks rootPath with config and returns the rendered tree. Configuration and
// root path problems are returned as *types.Error before any traversal starts.
func (generator *Generator) Generate(ctx context.Context, rootPath string, config types.BuildConfig) (string, error) {
	if validationError := config.Validate(); validationError != nil {
		return "", validationError
	}

	absoluteRootPath, absolutePathError := filepath.Abs(rootPath)
	if absolutePathError != nil {
		return "", types.NewUnexpectedError(rootPath, absolutePathError)
	}
	if _, statError := os.Stat(absoluteRootPath); statError != nil {
		return "", classifyRootError(absoluteRootPath, statError)
	}

	generator.mutex.Lock()
	defer generator.mutex.Unlock()

	generator.logger.Debug(debugGenerationStartedMessage,
		zap.String("root", absoluteRootPath),
		zap.Stringer("format", config.OutputFormat),
		zap.Stringer("ignoredBy", config.IgnoredBy),
	)
	generator.cache.Clear()
	resolver := ignore.NewResolverForConfig(generator.cache, config, generator.logger)
	treeBuilder := commands.NewTreeBuilder(config, resolver, generator.logger)

	tree, treeError := treeBuilder.GetTreeData(ctx, absoluteRootPath)
	if treeError != nil {
		if ctx.Err() != nil {
			return "", types.NewUnexpectedError(absoluteRootPath, treeError)
		}
		return "", classifyRootError(absoluteRootPath, treeError)
	}
	rendered, renderError := output.Render(tree, config)
	if renderError != nil {
		var typedError *types.Error
		if errors.As(renderError, &typedError) {
			return "", renderError
		}
		return "", types.NewUnexpectedError(absoluteRootPath, renderError)
	}
	generator.logger.Debug(debugGenerationFinishedMessage, zap.String("root", absoluteRootPath), zap.Int("bytes", len(rendered)))
	return rendered, nil
}

// InvalidateCache drops every cached rule set, for example after the filesystem under a
// watched root changed.
func (generator *Generator) InvalidateCache() {
	generator.cache.Clear()
	generator.logger.Debug(debugCacheInvalidatedMessage)
}

func classifyRootError(rootPath string, statError error) error {
	switch {
	case errors.Is(statError, fs.ErrNotExist):
		return types.NewPathNotFoundError(rootPath)
	case errors.Is(statError, fs.ErrPermission):
		return types.NewPermissionDeniedError(rootPath, statError)
	default:
		return types.NewUnexpectedError(rootPath, statError)
	}
}
