// Package types defines every cross‑package data structure used by the filetree CLI.
package types

import (
	"fmt"
	"strings"
)

// Kind identifies the filesystem entry a Node represents.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
	KindSymlink
)

const (
	kindFileText      = "file"
	kindDirectoryText = "directory"
	kindSymlinkText   = "symlink"

	// BrokenSymlinkMarker is appended to the name of a symlink whose target cannot be read.
	BrokenSymlinkMarker = "broken symlink"
	// SymlinkLoopMarker is appended to the name of an entry that revisits one of its ancestors.
	SymlinkLoopMarker = "symlink loop"
	// UnknownSymlinkTarget is the target recorded for broken symlinks.
	UnknownSymlinkTarget = "unknown"
)

// String returns the lower-case name used by every serializer.
func (kind Kind) String() string {
	switch kind {
	case KindFile:
		return kindFileText
	case KindDirectory:
		return kindDirectoryText
	case KindSymlink:
		return kindSymlinkText
	default:
		return fmt.Sprintf("kind(%d)", int(kind))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (kind Kind) MarshalText() ([]byte, error) {
	switch kind {
	case KindFile, KindDirectory, KindSymlink:
		return []byte(kind.String()), nil
	default:
		return nil, fmt.Errorf("unknown node kind %d", int(kind))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (kind *Kind) UnmarshalText(text []byte) error {
	switch string(text) {
	case kindFileText:
		*kind = KindFile
	case kindDirectoryText:
		*kind = KindDirectory
	case kindSymlinkText:
		*kind = KindSymlink
	default:
		return fmt.Errorf("unknown node kind %q", string(text))
	}
	return nil
}

// Node represents one filesystem entry of a generated tree.
// Children is non-nil exactly when Kind is KindDirectory.
type Node struct {
	Name     string  `json:"name" yaml:"name"`
	Kind     Kind    `json:"type" yaml:"type"`
	Size     string  `json:"size,omitempty" yaml:"size,omitempty"`
	Target   string  `json:"target,omitempty" yaml:"target,omitempty"`
	Children []*Node `json:"children,omitzero" yaml:"children,omitempty"`
	IsRoot   bool    `json:"-" yaml:"-"`
}

// NewDirectoryNode returns a directory node owning the provided children.
func NewDirectoryNode(name string, children []*Node) *Node {
	if children == nil {
		children = []*Node{}
	}
	return &Node{Name: name, Kind: KindDirectory, Children: children}
}

// MarkedName decorates an entry name with a marker such as SymlinkLoopMarker.
func MarkedName(name string, marker string) string {
	return name + " (" + marker + ")"
}

// IgnoredBy selects the sources of ignore rules.
type IgnoredBy int

const (
	IgnoredByPatterns IgnoredBy = iota
	IgnoredByGitignore
	IgnoredByBoth
)

// SortOrder selects how siblings are ordered.
type SortOrder int

const (
	SortTypeFirst SortOrder = iota
	SortAlphabetical
)

// OutputFormat selects the serializer.
type OutputFormat int

const (
	FormatASCII OutputFormat = iota
	FormatJSON
	FormatYAML
	FormatXML
)

const (
	IgnoredByGitignoreText = "gitignore"
	IgnoredByPatternsText  = "ignoredItems"
	IgnoredByBothText      = "both"

	SortTypeFirstText    = "type"
	SortAlphabeticalText = "alphabetical"

	FormatASCIIText = "ascii"
	FormatJSONText  = "json"
	FormatYAMLText  = "yaml"
	FormatXMLText   = "xml"
)

var (
	ignoredByNames = map[IgnoredBy]string{
		IgnoredByGitignore: IgnoredByGitignoreText,
		IgnoredByPatterns:  IgnoredByPatternsText,
		IgnoredByBoth:      IgnoredByBothText,
	}
	sortOrderNames = map[SortOrder]string{
		SortTypeFirst:    SortTypeFirstText,
		SortAlphabetical: SortAlphabeticalText,
	}
	outputFormatNames = map[OutputFormat]string{
		FormatASCII: FormatASCIIText,
		FormatJSON:  FormatJSONText,
		FormatYAML:  FormatYAMLText,
		FormatXML:   FormatXMLText,
	}
)

func (mode IgnoredBy) String() string {
	if name, known := ignoredByNames[mode]; known {
		return name
	}
	return fmt.Sprintf("ignoredBy(%d)", int(mode))
}

func (order SortOrder) String() string {
	if name, known := sortOrderNames[order]; known {
		return name
	}
	return fmt.Sprintf("sortOrder(%d)", int(order))
}

func (format OutputFormat) String() string {
	if name, known := outputFormatNames[format]; known {
		return name
	}
	return fmt.Sprintf("outputFormat(%d)", int(format))
}

// ParseIgnoredBy converts a configuration value into an IgnoredBy mode.
func ParseIgnoredBy(value string) (IgnoredBy, bool) {
	for mode, name := range ignoredByNames {
		if strings.EqualFold(name, strings.TrimSpace(value)) {
			return mode, true
		}
	}
	return 0, false
}

// ParseSortOrder converts a configuration value into a SortOrder.
func ParseSortOrder(value string) (SortOrder, bool) {
	for order, name := range sortOrderNames {
		if strings.EqualFold(name, strings.TrimSpace(value)) {
			return order, true
		}
	}
	return 0, false
}

// ParseOutputFormat converts a configuration value into an OutputFormat.
func ParseOutputFormat(value string) (OutputFormat, bool) {
	for format, name := range outputFormatNames {
		if strings.EqualFold(name, strings.TrimSpace(value)) {
			return format, true
		}
	}
	return 0, false
}

// UnboundedDepth disables the depth limit.
const UnboundedDepth = -1

// BuildConfig is the fully resolved, immutable configuration of one generation.
type BuildConfig struct {
	IgnoredBy       IgnoredBy
	IgnoredItems    []string
	ShowHiddenFiles bool
	ShowFileSize    bool
	MaxDepth        int
	SortOrder       SortOrder
	OutputFormat    OutputFormat
	Indent          int
	DirectoryOnly   bool
	UseFileIcons    bool
	IncludeGit      bool
	Locale          string
	Concurrency     int
}

// Validate reports every configuration-shape violation as a single ErrInvalidConfiguration error.
func (config BuildConfig) Validate() error {
	var violations []string
	if _, known := ignoredByNames[config.IgnoredBy]; !known {
		violations = append(violations, `Invalid option at "ignoredBy"`)
	}
	if _, known := sortOrderNames[config.SortOrder]; !known {
		violations = append(violations, `Invalid option at "sortOrder"`)
	}
	if _, known := outputFormatNames[config.OutputFormat]; !known {
		violations = append(violations, fmt.Sprintf("Invalid output format %q", config.OutputFormat.String()))
	}
	if config.Indent < 0 {
		violations = append(violations, `"indent" must be a positive number`)
	}
	if config.MaxDepth < UnboundedDepth {
		violations = append(violations, `"maxDepth" must be -1 or a positive number`)
	}
	if len(violations) == 0 {
		return nil
	}
	return NewConfigurationError(violations)
}
