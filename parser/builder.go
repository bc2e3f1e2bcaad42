package parser

import (
	"strings"

	"github.com/shibukawa/indentml/tokenizer"
)

// builder owns node allocation and the tag stack. Every structural change of
// the tree goes through it.
type builder struct {
	doc   *Document
	stack *tagStack
}

func newBuilder() *builder {
	doc := &Document{}
	return &builder{
		doc:   doc,
		stack: newTagStack(&doc.Node),
	}
}

// target returns the innermost open tag.
func (b *builder) target() *tagEntry {
	return b.stack.top()
}

// newNode allocates a detached node; it is attached when appended.
func (b *builder) newNode(name string, pos tokenizer.Position) *Node {
	return &Node{Name: name, Pos: pos}
}

// open creates a node as the last child of parent.
func (b *builder) open(parent *Node, name string, pos tokenizer.Position) *Node {
	n := b.newNode(name, pos)
	parent.Append(n)
	return n
}

// openBlock opens a block tag under the current target and pushes it.
func (b *builder) openBlock(name string, pos tokenizer.Position, indent int) *tagEntry {
	parent := b.target()
	parent.continued = false
	return b.stack.push(b.open(parent.node, name, pos), indent)
}

// appendTextLine adds the pieces of a text line to the target, joining it to
// the previous text line of the same node.
func (b *builder) appendTextLine(pieces []piece, blanks int) {
	t := b.target()
	if t.continued {
		t.node.Append(Text(strings.Repeat("\n", blanks+1)))
	}
	b.appendPieces(t.node, pieces)
	t.continued = true
}

func (b *builder) appendPieces(n *Node, pieces []piece) {
	for _, p := range pieces {
		switch p.kind {
		case pieceText:
			n.Append(Text(p.text))
		case pieceNode:
			n.Append(p.node)
		}
	}
}

// finalize closes every open tag and returns the document.
func (b *builder) finalize() *Document {
	b.stack.closeAll()
	return b.doc
}

// keepOpen pushes an already attached node so it receives the indented lines
// that follow.
func (b *builder) keepOpen(n *Node, indent int) *tagEntry {
	return b.stack.push(n, indent)
}
