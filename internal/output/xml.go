package output

import (
	"bytes"
	"encoding/xml"

	"github.com/temirov/filetree/internal/types"
)

const (
	xmlNameElement     = "name"
	xmlSizeElement     = "size"
	xmlTargetElement   = "target"
	xmlChildrenElement = "children"
)

// RenderXML writes one element per node named after its kind. A directory's children
// are wrapped in a children element, grouped by kind in order of first appearance.
func RenderXML(tree *types.Node, config types.BuildConfig) (string, error) {
	var buffer bytes.Buffer
	buffer.WriteString(xml.Header)
	encoder := xml.NewEncoder(&buffer)
	encoder.Indent("", indentation(config))
	if encodeError := encodeXMLNode(encoder, tree); encodeError != nil {
		return "", encodeError
	}
	if flushError := encoder.Flush(); flushError != nil {
		return "", flushError
	}
	return buffer.String(), nil
}

func encodeXMLNode(encoder *xml.Encoder, node *types.Node) error {
	start := xml.StartElement{Name: xml.Name{Local: node.Kind.String()}}
	if tokenError := encoder.EncodeToken(start); tokenError != nil {
		return tokenError
	}
	if elementError := encoder.EncodeElement(node.Name, xml.StartElement{Name: xml.Name{Local: xmlNameElement}}); elementError != nil {
		return elementError
	}
	if node.Size != "" {
		if elementError := encoder.EncodeElement(node.Size, xml.StartElement{Name: xml.Name{Local: xmlSizeElement}}); elementError != nil {
			return elementError
		}
	}
	if node.Target != "" {
		if elementError := encoder.EncodeElement(node.Target, xml.StartElement{Name: xml.Name{Local: xmlTargetElement}}); elementError != nil {
			return elementError
		}
	}
	if len(node.Children) > 0 {
		childrenStart := xml.StartElement{Name: xml.Name{Local: xmlChildrenElement}}
		if tokenError := encoder.EncodeToken(childrenStart); tokenError != nil {
			return tokenError
		}
		for _, child := range groupByKind(node.Children) {
			if childError := encodeXMLNode(encoder, child); childError != nil {
				return childError
			}
		}
		if tokenError := encoder.EncodeToken(childrenStart.End()); tokenError != nil {
			return tokenError
		}
	}
	return encoder.EncodeToken(start.End())
}

// groupByKind reorders children so same-kind siblings are adjacent, keeping kinds in order
// of first appearance and siblings in their sorted order.
func groupByKind(children []*types.Node) []*types.Node {
	var kindOrder []types.Kind
	groups := make(map[types.Kind][]*types.Node)
	for _, child := range children {
		if _, seen := groups[child.Kind]; !seen {
			kindOrder = append(kindOrder, child.Kind)
		}
		groups[child.Kind] = append(groups[child.Kind], child)
	}
	grouped := make([]*types.Node, 0, len(children))
	for _, kind := range kindOrder {
		grouped = append(grouped, groups[kind]...)
	}
	return grouped
}
