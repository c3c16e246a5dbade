// Package watch regenerates output when the filesystem under a root changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce coalesces bursts of events such as a checkout or a build.
const DefaultDebounce = 250 * time.Millisecond

const (
	errorCreateWatcherFormat = "creating filesystem watcher: %w"
	errorWatchRootFormat     = "watching %s: %w"

	warningWatchDirectoryMessage = "unable to watch directory"
	warningWatcherErrorMessage   = "filesystem watcher error"
	errorRegenerateMessage       = "regeneration after change failed"
	debugChangeDetectedMessage   = "filesystem change detected"
)

// CacheInvalidator drops state derived from the watched tree.
type CacheInvalidator interface {
	InvalidateCache()
}

// ChangeHandler is called once per debounced burst of changes.
type ChangeHandler func(ctx context.Context) error

// Watcher observes a root directory and its subdirectories.
type Watcher struct {
	rootPath    string
	debounce    time.Duration
	invalidator CacheInvalidator
	onChange    ChangeHandler
	logger      *zap.Logger
	notifier    *fsnotify.Watcher
}

// New registers rootPath and every directory below it. Directories created later are
// registered as their creation events arrive. A non-positive debounce uses DefaultDebounce.
func New(rootPath string, debounce time.Duration, invalidator CacheInvalidator, onChange ChangeHandler, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	notifier, notifierError := fsnotify.NewWatcher()
	if notifierError != nil {
		return nil, fmt.Errorf(errorCreateWatcherFormat, notifierError)
	}
	watcher := &Watcher{
		rootPath:    rootPath,
		debounce:    debounce,
		invalidator: invalidator,
		onChange:    onChange,
		logger:      logger,
		notifier:    notifier,
	}
	if addError := notifier.Add(rootPath); addError != nil {
		_ = notifier.Close()
		return nil, fmt.Errorf(errorWatchRootFormat, rootPath, addError)
	}
	watcher.addDirectoryTree(rootPath)
	return watcher, nil
}

// Run dispatches debounced changes until ctx is done, then releases the watcher.
func (watcher *Watcher) Run(ctx context.Context) error {
	defer watcher.notifier.Close()

	debounceTimer := time.NewTimer(watcher.debounce)
	debounceTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			debounceTimer.Stop()
			return nil
		case event, open := <-watcher.notifier.Events:
			if !open {
				return nil
			}
			watcher.logger.Debug(debugChangeDetectedMessage, zap.String("path", event.Name), zap.Stringer("op", event.Op))
			if event.Has(fsnotify.Create) {
				if info, statError := os.Lstat(event.Name); statError == nil && info.IsDir() {
					watcher.addDirectoryTree(event.Name)
				}
			}
			debounceTimer.Reset(watcher.debounce)
		case watchError, open := <-watcher.notifier.Errors:
			if !open {
				return nil
			}
			watcher.logger.Warn(warningWatcherErrorMessage, zap.Error(watchError))
		case <-debounceTimer.C:
			watcher.dispatch(ctx)
		}
	}
}

func (watcher *Watcher) dispatch(ctx context.Context) {
	if watcher.invalidator != nil {
		watcher.invalidator.InvalidateCache()
	}
	if watcher.onChange == nil {
		return
	}
	if changeError := watcher.onChange(ctx); changeError != nil && !errors.Is(changeError, context.Canceled) {
		watcher.logger.Error(errorRegenerateMessage, zap.Error(changeError))
	}
}

// addDirectoryTree registers directoryPath's subdirectories. Symlinked directories are
// not followed.
func (watcher *Watcher) addDirectoryTree(directoryPath string) {
	_ = filepath.WalkDir(directoryPath, func(walkedPath string, entry fs.DirEntry, walkError error) error {
		if walkError != nil {
			watcher.logger.Warn(warningWatchDirectoryMessage, zap.String("path", walkedPath), zap.Error(walkError))
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() || walkedPath == watcher.rootPath {
			return nil
		}
		if addError := watcher.notifier.Add(walkedPath); addError != nil {
			watcher.logger.Warn(warningWatchDirectoryMessage, zap.String("path", walkedPath), zap.Error(addError))
			return filepath.SkipDir
		}
		return nil
	})
}
