package formatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/beevik/etree"

	"github.com/shibukawa/indentml/parser"
)

// ErrInvalidXML is returned by ReadXML for documents without a root element.
var ErrInvalidXML = errors.New("invalid XML document")

// fallbackElement holds nodes whose name is not a usable XML name. The tag
// name goes to the name attribute.
const fallbackElement = "tag"

// XMLFormatter renders a document as XML, one element per node.
type XMLFormatter struct {
	root      string
	indent    int
	positions bool
}

// XMLOption configures an XMLFormatter
type XMLOption func(*XMLFormatter)

// WithXMLIndent indents nested elements. Indentation inserts whitespace into
// mixed content, so ReadXML only reproduces unindented output.
func WithXMLIndent(spaces int) XMLOption {
	return func(f *XMLFormatter) {
		f.indent = spaces
	}
}

// WithPositions adds line and column attributes to every element.
func WithPositions() XMLOption {
	return func(f *XMLFormatter) {
		f.positions = true
	}
}

// NewXMLFormatter creates an XML formatter whose document element is root.
func NewXMLFormatter(root string, options ...XMLOption) *XMLFormatter {
	if root == "" {
		root = "document"
	}
	f := &XMLFormatter{root: root}
	for _, o := range options {
		o(f)
	}
	return f
}

// Format renders doc as an XML document
func (f *XMLFormatter) Format(doc *parser.Document) (string, error) {
	xdoc := etree.NewDocument()
	xdoc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := xdoc.CreateElement(f.root)
	f.appendContent(root, doc.Content)

	if f.indent > 0 {
		xdoc.Indent(f.indent)
	}

	out, err := xdoc.WriteToString()
	if err != nil {
		return "", fmt.Errorf("failed to write XML: %w", err)
	}

	return out, nil
}

func (f *XMLFormatter) appendContent(el *etree.Element, items []parser.Content) {
	for _, c := range items {
		switch v := c.(type) {
		case parser.Text:
			el.CreateText(string(v))
		case *parser.Node:
			var child *etree.Element
			if isXMLName(v.Name) {
				child = el.CreateElement(v.Name)
			} else {
				child = el.CreateElement(fallbackElement)
				child.CreateAttr("name", v.Name)
			}
			if f.positions && v.Pos.Line > 0 {
				child.CreateAttr("line", strconv.Itoa(v.Pos.Line))
				child.CreateAttr("column", strconv.Itoa(v.Pos.Column))
			}
			f.appendContent(child, v.Content)
		}
	}
}

// ReadXML converts XML written by XMLFormatter back into a document. The
// name of the document element is ignored.
func ReadXML(data string) (*parser.Document, error) {
	xdoc := etree.NewDocument()
	if err := xdoc.ReadFromString(data); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidXML, err)
	}

	root := xdoc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrInvalidXML)
	}

	doc := &parser.Document{}
	readElement(&doc.Node, root)

	return doc, nil
}

func readElement(n *parser.Node, el *etree.Element) {
	for _, tok := range el.Child {
		switch v := tok.(type) {
		case *etree.CharData:
			n.Append(parser.Text(v.Data))
		case *etree.Element:
			name := v.Tag
			if attr := v.SelectAttr("name"); v.Tag == fallbackElement && attr != nil {
				name = attr.Value
			}
			child := &parser.Node{Name: name}
			readElement(child, v)
			n.Append(child)
		}
	}
}

func isXMLName(name string) bool {
	if name == "" || strings.HasPrefix(strings.ToLower(name), "xml") {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (unicode.IsDigit(r) || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}
