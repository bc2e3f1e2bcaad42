package parser

import (
	"errors"
	"fmt"
)

var (
	errAmbiguousDedent = errors.New("ambiguous dedent")
	errUnderIndented   = errors.New("line is indented less than the document")
)

// tagEntry is one open tag. base is only meaningful once resolved; until
// then the entry waits for the first line indented deeper than openIndent.
type tagEntry struct {
	node       *Node
	base       int
	resolved   bool
	openIndent int
	// continued is set when the last content came from a text line, so the
	// next text line joins it with a line break.
	continued bool
}

// tagStack is the chain of open tags from the document to the innermost one.
type tagStack struct {
	entries []*tagEntry
	blanks  int
}

func newTagStack(root *Node) *tagStack {
	return &tagStack{
		entries: []*tagEntry{{node: root, openIndent: -1}},
	}
}

func (s *tagStack) top() *tagEntry {
	return s.entries[len(s.entries)-1]
}

func (s *tagStack) depth() int {
	return len(s.entries)
}

func (s *tagStack) push(n *Node, openIndent int) *tagEntry {
	e := &tagEntry{node: n, openIndent: openIndent}
	s.entries = append(s.entries, e)
	return e
}

func (s *tagStack) pop() {
	if len(s.entries) > 1 {
		s.entries = s.entries[:len(s.entries)-1]
	}
}

// blank records a blank line; it only matters if the next text line
// continues the same node.
func (s *tagStack) blank() {
	s.blanks++
}

func (s *tagStack) takeBlanks() int {
	n := s.blanks
	s.blanks = 0
	return n
}

// align prepares the stack for a non-blank line with the given indentation:
// it resolves or closes tags waiting for content and closes tags on dedent.
func (s *tagStack) align(indent int) error {
	for !s.top().resolved {
		if indent > s.top().openIndent {
			s.resolve(indent)
			break
		}
		s.pop()
	}

	dedented := false
	for len(s.entries) > 1 && s.top().base > indent {
		s.pop()
		dedented = true
	}

	top := s.top()

	switch {
	case top.base > indent:
		return fmt.Errorf("%w: expected at least %d spaces, got %d", errUnderIndented, top.base, indent)
	case dedented && top.base != indent:
		return fmt.Errorf("%w: indentation %d does not match any open tag (nearest is %d)", errAmbiguousDedent, indent, top.base)
	}

	return nil
}

// resolve binds the top entry and the unresolved entries directly beneath it
// (opened on the same line) to indent.
func (s *tagStack) resolve(indent int) {
	for i := len(s.entries) - 1; i >= 0 && !s.entries[i].resolved; i-- {
		s.entries[i].base = indent
		s.entries[i].resolved = true
	}
}

func (s *tagStack) closeAll() {
	s.entries = s.entries[:1]
	s.blanks = 0
}
