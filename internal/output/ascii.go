package output

import (
	"strings"

	"github.com/temirov/filetree/internal/types"
)

const (
	treeBranchConnector = "├"
	treeLastConnector   = "└"
	treeHorizontalBar   = "─"
	treeVerticalPadding = "│"
	treeLastPadding     = " "
	directorySuffix     = "/"
	symlinkArrow        = " -> "
	rootIcon            = "📦 "
	directoryIcon       = "📁 "
	fileIcon            = "📄 "
	symlinkIcon         = "🔗 "
	lineSeparator       = "\n"
)

// RenderASCII draws the tree with box-drawing connectors whose horizontal run and
// continuation padding are config.Indent characters wide.
func RenderASCII(tree *types.Node, config types.BuildConfig) (string, error) {
	var lines []string
	horizontalRun := strings.Repeat(treeHorizontalBar, max(config.Indent, 0))
	continuationPadding := indentation(config) + " "

	var renderNode func(node *types.Node, prefix string, isRoot bool, isLast bool)
	renderNode = func(node *types.Node, prefix string, isRoot bool, isLast bool) {
		linePrefix := ""
		childPrefix := prefix
		if !isRoot {
			connector, padding := treeBranchConnector, treeVerticalPadding
			if isLast {
				connector, padding = treeLastConnector, treeLastPadding
			}
			linePrefix = prefix + connector + horizontalRun + " "
			childPrefix = prefix + padding + continuationPadding
		}
		lines = append(lines, linePrefix+asciiLabel(node, isRoot, config.UseFileIcons))
		for childIndex, child := range node.Children {
			renderNode(child, childPrefix, false, childIndex == len(node.Children)-1)
		}
	}
	renderNode(tree, "", true, true)

	return strings.Join(lines, lineSeparator), nil
}

func asciiLabel(node *types.Node, isRoot bool, useFileIcons bool) string {
	var builder strings.Builder
	if useFileIcons {
		builder.WriteString(iconFor(node, isRoot))
	}
	builder.WriteString(node.Name)
	if node.Kind == types.KindDirectory {
		builder.WriteString(directorySuffix)
	}
	if node.Size != "" {
		builder.WriteString(" (" + node.Size + ")")
	}
	if node.Kind == types.KindSymlink && node.Target != "" {
		builder.WriteString(symlinkArrow + node.Target)
	}
	return builder.String()
}

func iconFor(node *types.Node, isRoot bool) string {
	if isRoot {
		return rootIcon
	}
	switch node.Kind {
	case types.KindDirectory:
		return directoryIcon
	case types.KindSymlink:
		return symlinkIcon
	default:
		return fileIcon
	}
}
