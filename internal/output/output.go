// Package output renders generated trees in the supported textual formats.
package output

import (
	"errors"
	"fmt"
	"strings"

	"github.com/temirov/filetree/internal/types"
)

const (
	errorNilTreeMessage       = "no tree to render"
	invalidOutputFormatFormat = "Invalid output format %q"
)

type renderFunction func(tree *types.Node, config types.BuildConfig) (string, error)

var renderers = map[types.OutputFormat]renderFunction{
	types.FormatASCII: RenderASCII,
	types.FormatJSON:  RenderJSON,
	types.FormatYAML:  RenderYAML,
	types.FormatXML:   RenderXML,
}

// Render serializes tree in config.OutputFormat. An unknown format is reported as an
// ErrInvalidConfiguration error rather than falling back to a default.
func Render(tree *types.Node, config types.BuildConfig) (string, error) {
	renderer, known := renderers[config.OutputFormat]
	if !known {
		return "", types.NewConfigurationError([]string{fmt.Sprintf(invalidOutputFormatFormat, config.OutputFormat.String())})
	}
	if tree == nil {
		return "", errors.New(errorNilTreeMessage)
	}
	return renderer(tree, config)
}

func indentation(config types.BuildConfig) string {
	if config.Indent <= 0 {
		return ""
	}
	return strings.Repeat(" ", config.Indent)
}
