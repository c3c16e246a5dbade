package commands

import (
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/temirov/filetree/internal/types"
)

// Ignorer decides whether an entry is excluded from the tree rooted at rootPath.
type Ignorer interface {
	ShouldIgnore(itemPath string, rootPath string) bool
}

// TreeBuilder builds directory tree nodes using configured options.
type TreeBuilder struct {
	Config  types.BuildConfig
	Ignorer Ignorer
	Sorter  *Sorter
	Logger  *zap.Logger

	listingLimiter *semaphore.Weighted
}

// NewTreeBuilder wires a builder for one generation. A nil ignorer excludes nothing and
// a nil logger discards warnings.
func NewTreeBuilder(config types.BuildConfig, ignorer Ignorer, logger *zap.Logger) *TreeBuilder {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ignorer == nil {
		ignorer = includeEverything{}
	}
	concurrency := config.Concurrency
	if concurrency <= 0 {
		concurrency = defaultListingConcurrency()
	}
	return &TreeBuilder{
		Config:         config,
		Ignorer:        ignorer,
		Sorter:         NewSorter(LocaleTag(config.Locale)),
		Logger:         logger,
		listingLimiter: semaphore.NewWeighted(int64(concurrency)),
	}
}

func defaultListingConcurrency() int {
	return runtime.NumCPU() * 4
}

type includeEverything struct{}

func (includeEverything) ShouldIgnore(string, string) bool { return false }
