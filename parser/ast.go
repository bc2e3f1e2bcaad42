package parser

import (
	"strings"

	"github.com/shibukawa/indentml/tokenizer"
)

// ItemTag is the reserved name of the nodes produced by separator splitting.
const ItemTag = "_item"

// Content is one item of a node's mixed content. It is either Text or *Node.
type Content interface {
	isContent()
}

// Text is a run of character data
type Text string

func (Text) isContent() {}

// Node is a named element with ordered mixed content.
type Node struct {
	Name    string
	Content []Content
	// Pos is where the tag was introduced. It is not part of node equality.
	Pos tokenizer.Position
}

func (*Node) isContent() {}

// Document is the anonymous root returned by Parse.
type Document struct {
	Node
}

// NewNode creates a node with the given content. Strings are converted to
// Text, *Node and Text are used as is.
func NewNode(name string, content ...any) *Node {
	n := &Node{Name: name}
	for _, c := range content {
		switch v := c.(type) {
		case string:
			n.Append(Text(v))
		case Text:
			n.Append(v)
		case *Node:
			n.Append(v)
		default:
			panic("indentml: unsupported node content")
		}
	}
	return n
}

// Append adds content at the end, merging adjacent text. Empty text is
// ignored.
func (n *Node) Append(c Content) {
	if t, ok := c.(Text); ok {
		if t == "" {
			return
		}
		if last := len(n.Content) - 1; last >= 0 {
			if prev, ok := n.Content[last].(Text); ok {
				n.Content[last] = prev + t
				return
			}
		}
	}
	n.Content = append(n.Content, c)
}

// String renders the node in a compact debugging form like
// name["text", child[...]].
func (n *Node) String() string {
	var sb strings.Builder
	n.writeDebug(&sb)
	return sb.String()
}

func (n *Node) writeDebug(sb *strings.Builder) {
	sb.WriteString(n.Name)
	sb.WriteByte('[')
	for i, c := range n.Content {
		if i > 0 {
			sb.WriteString(", ")
		}
		switch v := c.(type) {
		case Text:
			sb.WriteString(quote(string(v)))
		case *Node:
			v.writeDebug(sb)
		}
	}
	sb.WriteByte(']')
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}
