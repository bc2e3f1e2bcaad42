package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shibukawa/indentml/parser"
)

// TreeFormatter dumps the document structure as data.
type TreeFormatter struct {
	indent int
}

// NewTreeFormatter creates a tree formatter using indent spaces per level.
func NewTreeFormatter(indent int) *TreeFormatter {
	if indent <= 0 {
		indent = 2
	}
	return &TreeFormatter{indent: indent}
}

// YAML renders the document as a YAML sequence. A node is a single-key
// mapping from its name to its content; text is a string.
func (f *TreeFormatter) YAML(doc *parser.Document) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(f.indent)

	if err := enc.Encode(yamlContent(doc.Content)); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("failed to encode YAML: %w", err)
	}

	return buf.String(), nil
}

func yamlContent(items []parser.Content) *yaml.Node {
	seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
	for _, c := range items {
		switch v := c.(type) {
		case parser.Text:
			seq.Content = append(seq.Content, yamlText(string(v)))
		case *parser.Node:
			seq.Content = append(seq.Content, &yaml.Node{
				Kind: yaml.MappingNode,
				Tag:  "!!map",
				Content: []*yaml.Node{
					{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.Name},
					yamlContent(v.Content),
				},
			})
		}
	}
	if len(seq.Content) == 0 {
		seq.Style = yaml.FlowStyle
	}
	return seq
}

func yamlText(s string) *yaml.Node {
	n := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
	if strings.Contains(s, "\n") {
		n.Style = yaml.LiteralStyle
	}
	return n
}

// JSON renders the nested list form of the document, indented.
func (f *TreeFormatter) JSON(doc *parser.Document) (string, error) {
	data, err := json.MarshalIndent(doc.AsList(), "", strings.Repeat(" ", f.indent))
	if err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}
	return string(data) + "\n", nil
}

// List renders the nested list form on one line.
func (f *TreeFormatter) List(doc *parser.Document) (string, error) {
	data, err := json.Marshal(doc.AsList())
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(data) + "\n", nil
}
