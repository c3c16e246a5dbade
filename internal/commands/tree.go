// Package commands contains the core logic for building directory trees.
package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/temirov/filetree/internal/types"
	"github.com/temirov/filetree/internal/utils"
)

const (
	// warningSkipSubdirMessage is used when a subdirectory cannot be listed.
	warningSkipSubdirMessage = "skipping contents of unreadable directory"
	// warningStatPathMessage is used when an entry disappears or cannot be inspected mid-walk.
	warningStatPathMessage = "skipping entry that cannot be inspected"

	// errorAbsolutePathFormat is used when the absolute path cannot be determined.
	errorAbsolutePathFormat = "getting absolute path for %s: %w"
	// errorStatRootFormat is used when the root cannot be inspected.
	errorStatRootFormat = "inspecting root %s: %w"
	// errorListRootFormat is used when the root directory cannot be listed.
	errorListRootFormat = "listing root %s: %w"
	// errorEmptyRootFormat is used when every filter removed the root.
	errorEmptyRootFormat = "no tree produced for %s"

	hiddenEntryPrefix = "."
)

// GetTreeData builds the tree rooted at rootDirectoryPath. The returned node has IsRoot
// set. The root is never removed by the depth, hidden, ignore or directory-only filters.
func (treeBuilder *TreeBuilder) GetTreeData(ctx context.Context, rootDirectoryPath string) (*types.Node, error) {
	absoluteRootDirPath, absolutePathError := filepath.Abs(rootDirectoryPath)
	if absolutePathError != nil {
		return nil, fmt.Errorf(errorAbsolutePathFormat, rootDirectoryPath, absolutePathError)
	}

	rootNode, buildError := treeBuilder.Build(ctx, absoluteRootDirPath, absoluteRootDirPath, 0, nil)
	if buildError != nil {
		return nil, buildError
	}
	if rootNode == nil {
		return nil, fmt.Errorf(errorEmptyRootFormat, absoluteRootDirPath)
	}
	rootNode.IsRoot = true
	return rootNode, nil
}

// Build returns the node for itemPath at the given path depth below rootPath, or nil
// when the entry is filtered out. visited holds the canonical paths of the directories
// on the current branch. Only context cancellation and failures to inspect or list the
// root are returned as errors; per-entry problems degrade to a nil or marker node.
func (treeBuilder *TreeBuilder) Build(ctx context.Context, itemPath string, rootPath string, depth int, visited *VisitedPaths) (*types.Node, error) {
	if contextError := ctx.Err(); contextError != nil {
		return nil, contextError
	}
	isRoot := depth == 0
	if !isRoot && treeBuilder.beyondMaxDepth(depth) {
		return nil, nil
	}

	entryName := filepath.Base(itemPath)
	if !isRoot && !treeBuilder.Config.ShowHiddenFiles && strings.HasPrefix(entryName, hiddenEntryPrefix) {
		return nil, nil
	}
	if !isRoot && treeBuilder.Ignorer.ShouldIgnore(itemPath, rootPath) {
		return nil, nil
	}

	inspect := os.Lstat
	if isRoot {
		inspect = os.Stat
	}
	entryInfo, statError := inspect(itemPath)
	if statError != nil {
		if isRoot {
			return nil, fmt.Errorf(errorStatRootFormat, itemPath, statError)
		}
		treeBuilder.Logger.Warn(warningStatPathMessage, zap.String("path", itemPath), zap.Error(statError))
		return nil, nil
	}

	if entryInfo.Mode()&os.ModeSymlink != 0 {
		return treeBuilder.symlinkNode(itemPath, entryName, entryInfo, visited), nil
	}

	if !entryInfo.IsDir() {
		if !isRoot && treeBuilder.Config.DirectoryOnly {
			return nil, nil
		}
		return treeBuilder.fileNode(entryName, entryInfo), nil
	}

	canonicalPath := treeBuilder.canonicalPath(itemPath, entryName, visited)
	return treeBuilder.directoryNode(ctx, itemPath, rootPath, entryName, depth, visited.With(canonicalPath))
}

func (treeBuilder *TreeBuilder) beyondMaxDepth(depth int) bool {
	return treeBuilder.Config.MaxDepth != types.UnboundedDepth && depth > treeBuilder.Config.MaxDepth
}

// canonicalPath derives a directory identity from the parent's canonical path, resolving
// symlinks only once at the root. Directories are never entered through symlinks, so a
// revisit can only come from a link and is caught in symlinkNode.
func (treeBuilder *TreeBuilder) canonicalPath(itemPath string, entryName string, visited *VisitedPaths) string {
	if parentPath := visited.Head(); parentPath != "" {
		return filepath.Join(parentPath, entryName)
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(itemPath)
	if resolveError != nil {
		return filepath.Clean(itemPath)
	}
	return resolvedPath
}

func (treeBuilder *TreeBuilder) fileNode(entryName string, entryInfo os.FileInfo) *types.Node {
	node := &types.Node{Name: entryName, Kind: types.KindFile}
	if treeBuilder.Config.ShowFileSize {
		node.Size = utils.FormatFileSize(entryInfo.Size())
	}
	return node
}

// symlinkNode describes a link without following it. A link resolving to a directory on
// the current branch is reported as a loop; an unreadable or dangling link as broken.
func (treeBuilder *TreeBuilder) symlinkNode(itemPath string, entryName string, entryInfo os.FileInfo, visited *VisitedPaths) *types.Node {
	linkTarget, readLinkError := os.Readlink(itemPath)
	if readLinkError != nil {
		return brokenSymlinkNode(entryName)
	}
	resolvedTarget, resolveError := filepath.EvalSymlinks(itemPath)
	if resolveError != nil {
		return brokenSymlinkNode(entryName)
	}
	if visited.Contains(resolvedTarget) {
		return loopNode(entryName, resolvedTarget)
	}
	node := &types.Node{Name: entryName, Kind: types.KindSymlink, Target: linkTarget}
	if treeBuilder.Config.ShowFileSize {
		node.Size = utils.FormatFileSize(entryInfo.Size())
	}
	return node
}

func brokenSymlinkNode(entryName string) *types.Node {
	return &types.Node{
		Name:   types.MarkedName(entryName, types.BrokenSymlinkMarker),
		Kind:   types.KindSymlink,
		Target: types.UnknownSymlinkTarget,
	}
}

func loopNode(entryName string, canonicalPath string) *types.Node {
	return &types.Node{
		Name:   types.MarkedName(entryName, types.SymlinkLoopMarker),
		Kind:   types.KindSymlink,
		Target: canonicalPath,
	}
}

// directoryNode lists the directory and builds every child concurrently. Children are
// ordered by the Sorter once all of them are finished.
func (treeBuilder *TreeBuilder) directoryNode(ctx context.Context, directoryPath string, rootPath string, entryName string, depth int, branch *VisitedPaths) (*types.Node, error) {
	if treeBuilder.beyondMaxDepth(depth + 1) {
		return types.NewDirectoryNode(entryName, nil), nil
	}

	directoryEntries, readDirectoryError := treeBuilder.readDirectory(ctx, directoryPath)
	if readDirectoryError != nil {
		if contextError := ctx.Err(); contextError != nil {
			return nil, contextError
		}
		if depth == 0 {
			return nil, fmt.Errorf(errorListRootFormat, directoryPath, readDirectoryError)
		}
		treeBuilder.Logger.Warn(warningSkipSubdirMessage, zap.String("path", directoryPath), zap.Error(readDirectoryError))
		return types.NewDirectoryNode(entryName, nil), nil
	}

	childNodes := make([]*types.Node, len(directoryEntries))
	group, groupContext := errgroup.WithContext(ctx)
	for entryIndex, directoryEntry := range directoryEntries {
		childPath := filepath.Join(directoryPath, directoryEntry.Name())
		group.Go(func() error {
			childNode, childError := treeBuilder.Build(groupContext, childPath, rootPath, depth+1, branch)
			if childError != nil {
				return childError
			}
			childNodes[entryIndex] = childNode
			return nil
		})
	}
	if waitError := group.Wait(); waitError != nil {
		return nil, waitError
	}

	survivors := make([]*types.Node, 0, len(childNodes))
	for _, childNode := range childNodes {
		if childNode != nil {
			survivors = append(survivors, childNode)
		}
	}
	return types.NewDirectoryNode(entryName, treeBuilder.Sorter.Sort(survivors, treeBuilder.Config.SortOrder)), nil
}

// readDirectory lists a directory while holding a listing slot. The slot is released
// before children are built so nested listings cannot starve each other.
func (treeBuilder *TreeBuilder) readDirectory(ctx context.Context, directoryPath string) ([]os.DirEntry, error) {
	if acquireError := treeBuilder.listingLimiter.Acquire(ctx, 1); acquireError != nil {
		return nil, acquireError
	}
	defer treeBuilder.listingLimiter.Release(1)
	return os.ReadDir(directoryPath)
}
