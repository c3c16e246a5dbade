package output

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/temirov/filetree/internal/types"
)

const (
	yamlStringTag   = "!!str"
	yamlNameKey     = "name"
	yamlTypeKey     = "type"
	yamlSizeKey     = "size"
	yamlTargetKey   = "target"
	yamlChildrenKey = "children"

	// go-yaml emits between 2 and 9 spaces per level and resets anything else to 2.
	minimumYAMLIndent = 2
	maximumYAMLIndent = 9
)

// RenderYAML emits a block-style document with the same keys as the JSON rendering.
// Empty directories render their children as []. config.Indent is clamped to 2..9.
func RenderYAML(tree *types.Node, config types.BuildConfig) (string, error) {
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(min(max(config.Indent, minimumYAMLIndent), maximumYAMLIndent))
	if encodeError := encoder.Encode(yamlNode(tree)); encodeError != nil {
		return "", encodeError
	}
	if closeError := encoder.Close(); closeError != nil {
		return "", closeError
	}
	return strings.TrimSuffix(buffer.String(), lineSeparator), nil
}

func yamlNode(node *types.Node) *yaml.Node {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	appendScalar := func(key string, value string) {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTag, Value: key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTag, Value: value},
		)
	}
	appendScalar(yamlNameKey, node.Name)
	appendScalar(yamlTypeKey, node.Kind.String())
	if node.Size != "" {
		appendScalar(yamlSizeKey, node.Size)
	}
	if node.Target != "" {
		appendScalar(yamlTargetKey, node.Target)
	}
	if node.Kind == types.KindDirectory {
		sequence := &yaml.Node{Kind: yaml.SequenceNode}
		if len(node.Children) == 0 {
			sequence.Style = yaml.FlowStyle
		}
		for _, child := range node.Children {
			sequence.Content = append(sequence.Content, yamlNode(child))
		}
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: yamlStringTag, Value: yamlChildrenKey},
			sequence,
		)
	}
	return mapping
}
