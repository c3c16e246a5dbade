package commands

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/temirov/filetree/internal/types"
)

// Sorter orders sibling nodes with the collation rules of one locale.
type Sorter struct {
	tag       language.Tag
	collators sync.Pool
}

// NewSorter returns a Sorter collating names for tag.
func NewSorter(tag language.Tag) *Sorter {
	sorter := &Sorter{tag: tag}
	sorter.collators.New = func() interface{} {
		return collate.New(tag)
	}
	return sorter
}

// Sort returns a stably ordered copy of nodes. With SortTypeFirst directories precede
// files and symlinks; names are compared with locale collation in both orders.
func (sorter *Sorter) Sort(nodes []*types.Node, order types.SortOrder) []*types.Node {
	sorted := slices.Clone(nodes)
	collator := sorter.collators.Get().(*collate.Collator)
	defer sorter.collators.Put(collator)

	slices.SortStableFunc(sorted, func(left, right *types.Node) int {
		if order == types.SortTypeFirst {
			leftIsDirectory := left.Kind == types.KindDirectory
			rightIsDirectory := right.Kind == types.KindDirectory
			if leftIsDirectory != rightIsDirectory {
				if leftIsDirectory {
					return -1
				}
				return 1
			}
		}
		return collator.CompareString(left.Name, right.Name)
	})
	return sorted
}

// LocaleTag converts a POSIX locale ("en_US.UTF-8") or BCP 47 tag into a language tag.
// Unknown values and the C/POSIX locales map to the root collation.
func LocaleTag(locale string) language.Tag {
	trimmed := strings.TrimSpace(locale)
	if index := strings.IndexAny(trimmed, ".@"); index >= 0 {
		trimmed = trimmed[:index]
	}
	if trimmed == "" || trimmed == "C" || trimmed == "POSIX" {
		return language.Und
	}
	tag, parseError := language.Parse(strings.ReplaceAll(trimmed, "_", "-"))
	if parseError != nil {
		return language.Und
	}
	return tag
}
