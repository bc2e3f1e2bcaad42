package formatter

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/util"

	"github.com/shibukawa/indentml/parser"
)

// HTMLHandler renders one node. Handlers call Content or Node to render
// what is below it.
type HTMLHandler func(f *HTMLFormatter, n *parser.Node) (string, error)

// HTMLFormatter renders documents as HTML fragments. A node is rendered by
// its handler if one is registered, then by its element mapping, and finally
// as <div class="name">.
type HTMLFormatter struct {
	handlers map[string]HTMLHandler
	elements map[string]string
	markdown goldmark.Markdown
}

// HTMLOption configures an HTMLFormatter
type HTMLOption func(*HTMLFormatter)

// WithHandler registers h for the tag name
func WithHandler(name string, h HTMLHandler) HTMLOption {
	return func(f *HTMLFormatter) {
		f.handlers[name] = h
	}
}

// WithElements maps tag names to HTML element names
func WithElements(elements map[string]string) HTMLOption {
	return func(f *HTMLFormatter) {
		maps.Copy(f.elements, elements)
	}
}

// WithMarkdown renders every text run as GitHub flavored Markdown.
func WithMarkdown() HTMLOption {
	return func(f *HTMLFormatter) {
		f.markdown = goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
			),
		)
	}
}

// NewHTMLFormatter creates an HTML formatter. _item nodes are rendered as
// list items unless configured otherwise.
func NewHTMLFormatter(options ...HTMLOption) *HTMLFormatter {
	f := &HTMLFormatter{
		handlers: map[string]HTMLHandler{},
		elements: map[string]string{parser.ItemTag: "li"},
	}
	for _, o := range options {
		o(f)
	}
	return f
}

// UsesTags returns the tag names the formatter has a handler or an element
// for. They are the tags worth allowing when parsing for this formatter.
func (f *HTMLFormatter) UsesTags() []string {
	names := map[string]struct{}{}
	for name := range f.handlers {
		names[name] = struct{}{}
	}
	for name := range f.elements {
		if name != parser.ItemTag {
			names[name] = struct{}{}
		}
	}
	return slices.Sorted(maps.Keys(names))
}

// Format renders the document content
func (f *HTMLFormatter) Format(doc *parser.Document) (string, error) {
	return f.Content(doc.Content)
}

// Content renders mixed content in order.
func (f *HTMLFormatter) Content(items []parser.Content) (string, error) {
	var sb bytes.Buffer
	for _, c := range items {
		switch v := c.(type) {
		case parser.Text:
			s, err := f.text(string(v))
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		case *parser.Node:
			s, err := f.Node(v)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// Node renders a single node
func (f *HTMLFormatter) Node(n *parser.Node) (string, error) {
	if h, ok := f.handlers[n.Name]; ok {
		return h(f, n)
	}

	inner, err := f.Content(n.Content)
	if err != nil {
		return "", fmt.Errorf("failed to render %s: %w", n.Name, err)
	}

	if el, ok := f.elements[n.Name]; ok {
		return "<" + el + ">" + inner + "</" + el + ">", nil
	}

	return `<div class="` + string(util.EscapeHTML([]byte(n.Name))) + `">` + inner + "</div>", nil
}

func (f *HTMLFormatter) text(s string) (string, error) {
	if f.markdown == nil {
		return string(util.EscapeHTML([]byte(s))), nil
	}

	var buf bytes.Buffer
	if err := f.markdown.Convert([]byte(s), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return buf.String(), nil
}
