package output

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/temirov/filetree/internal/types"
)

// RenderJSON encodes the tree with config.Indent spaces per level. Only directories carry
// a children key.
func RenderJSON(tree *types.Node, config types.BuildConfig) (string, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", indentation(config))
	if encodeError := encoder.Encode(tree); encodeError != nil {
		return "", encodeError
	}
	return strings.TrimSuffix(buffer.String(), lineSeparator), nil
}
