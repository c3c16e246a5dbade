package commands_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/temirov/filetree/internal/commands"
	"github.com/temirov/filetree/internal/types"
)

func namedNodes() []*types.Node {
	return []*types.Node{
		{Name: "zeta.txt", Kind: types.KindFile},
		{Name: "beta", Kind: types.KindDirectory, Children: []*types.Node{}},
		{Name: "Alpha.txt", Kind: types.KindFile},
		{Name: "link", Kind: types.KindSymlink, Target: "zeta.txt"},
		{Name: "alpha", Kind: types.KindDirectory, Children: []*types.Node{}},
	}
}

func TestSorterTypeFirst(testingHandle *testing.T) {
	sorter := commands.NewSorter(language.English)
	input := namedNodes()
	sorted := sorter.Sort(input, types.SortTypeFirst)

	names := make([]string, 0, len(sorted))
	seenNonDirectory := false
	for _, node := range sorted {
		names = append(names, node.Name)
		if node.Kind != types.KindDirectory {
			seenNonDirectory = true
		} else {
			assert.False(testingHandle, seenNonDirectory, "directory %s sorted after a non-directory", node.Name)
		}
	}
	assert.Equal(testingHandle, []string{"alpha", "beta", "Alpha.txt", "link", "zeta.txt"}, names)
	assert.Equal(testingHandle, "zeta.txt", input[0].Name, "input must not be reordered")
}

func TestSorterAlphabetical(testingHandle *testing.T) {
	sorter := commands.NewSorter(language.English)
	sorted := sorter.Sort(namedNodes(), types.SortAlphabetical)

	names := make([]string, 0, len(sorted))
	for _, node := range sorted {
		names = append(names, node.Name)
	}
	assert.Equal(testingHandle, []string{"alpha", "Alpha.txt", "beta", "link", "zeta.txt"}, names)
}

func TestSorterStableForEqualNames(testingHandle *testing.T) {
	first := &types.Node{Name: "same", Kind: types.KindFile}
	second := &types.Node{Name: "same", Kind: types.KindSymlink}
	sorted := commands.NewSorter(language.Und).Sort([]*types.Node{first, second}, types.SortAlphabetical)
	assert.Same(testingHandle, first, sorted[0])
	assert.Same(testingHandle, second, sorted[1])
}

func TestLocaleTag(testingHandle *testing.T) {
	testCases := []struct {
		name     string
		locale   string
		expected language.Tag
	}{
		{name: "posix with encoding", locale: "en_US.UTF-8", expected: language.AmericanEnglish},
		{name: "bcp47", locale: "de-DE", expected: language.MustParse("de-DE")},
		{name: "modifier", locale: "sv_SE@euro", expected: language.MustParse("sv-SE")},
		{name: "c locale", locale: "C", expected: language.Und},
		{name: "empty", locale: "", expected: language.Und},
		{name: "garbage", locale: "%%%", expected: language.Und},
	}
	for _, testCase := range testCases {
		testingHandle.Run(testCase.name, func(testingHandle *testing.T) {
			assert.Equal(testingHandle, testCase.expected, commands.LocaleTag(testCase.locale))
		})
	}
}
