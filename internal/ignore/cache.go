package ignore

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

type ruleCacheKey struct {
	directory string
	rootPath  string
	variant   string
}

// RuleCache memoizes compiled rule sets per (directory, root) and repository roots per
// traversal root. It is safe for concurrent use; concurrent requests for the same key
// share one compilation. Clear must be called whenever .gitignore content may have changed.
type RuleCache struct {
	mutex        sync.RWMutex
	generation   uint64
	ruleSets     map[ruleCacheKey]*RuleSet
	repositories map[string]string
	flights      singleflight.Group
}

// NewRuleCache returns an empty cache.
func NewRuleCache() *RuleCache {
	return &RuleCache{
		ruleSets:     make(map[ruleCacheKey]*RuleSet),
		repositories: make(map[string]string),
	}
}

// Clear drops every cached rule set and repository root.
func (cache *RuleCache) Clear() {
	cache.mutex.Lock()
	defer cache.mutex.Unlock()
	cache.generation++
	cache.ruleSets = make(map[ruleCacheKey]*RuleSet)
	cache.repositories = make(map[string]string)
}

// Len returns the number of cached rule sets.
func (cache *RuleCache) Len() int {
	cache.mutex.RLock()
	defer cache.mutex.RUnlock()
	return len(cache.ruleSets)
}

func (cache *RuleCache) ruleSet(key ruleCacheKey, compile func() *RuleSet) *RuleSet {
	cache.mutex.RLock()
	cached, found := cache.ruleSets[key]
	generation := cache.generation
	cache.mutex.RUnlock()
	if found {
		return cached
	}

	flightKey := strconv.FormatUint(generation, 10) + "\x00" + key.variant + "\x00" + key.rootPath + "\x00" + key.directory
	compiled, _, _ := cache.flights.Do(flightKey, func() (interface{}, error) {
		ruleSet := compile()
		cache.mutex.Lock()
		if cache.generation == generation {
			cache.ruleSets[key] = ruleSet
		}
		cache.mutex.Unlock()
		return ruleSet, nil
	})
	return compiled.(*RuleSet)
}

// repositoryRoot returns the nearest ancestor of rootPath (inclusive) holding a .git
// marker, or "" when there is none.
func (cache *RuleCache) repositoryRoot(rootPath string) string {
	cache.mutex.RLock()
	repositoryPath, found := cache.repositories[rootPath]
	cache.mutex.RUnlock()
	if found {
		return repositoryPath
	}
	repositoryPath = findRepositoryRoot(rootPath)
	cache.mutex.Lock()
	cache.repositories[rootPath] = repositoryPath
	cache.mutex.Unlock()
	return repositoryPath
}

// findRepositoryRoot walks upward from startDirectory until it finds a directory containing
// a .git directory or file.
func findRepositoryRoot(startDirectory string) string {
	currentDirectory := filepath.Clean(startDirectory)
	for {
		if _, statError := os.Lstat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil {
			return currentDirectory
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			return ""
		}
		currentDirectory = parentDirectory
	}
}
