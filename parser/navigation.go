package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSkipChildren is returned from a WalkFunc to skip the children of the
// visited node.
var ErrSkipChildren = errors.New("skip children")

// WalkFunc is called for every node visited by Walk. path holds the ancestors
// of n, outermost first.
type WalkFunc func(path []*Node, n *Node) error

// Children returns the child nodes, skipping text.
func (n *Node) Children() []*Node {
	var result []*Node
	for _, c := range n.Content {
		if child, ok := c.(*Node); ok {
			result = append(result, child)
		}
	}
	return result
}

// Find returns the first child named name, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Content {
		if child, ok := c.(*Node); ok && child.Name == name {
			return child
		}
	}
	return nil
}

// FindAll returns every child named name.
func (n *Node) FindAll(name string) []*Node {
	var result []*Node
	for _, c := range n.Content {
		if child, ok := c.(*Node); ok && child.Name == name {
			result = append(result, child)
		}
	}
	return result
}

// Exists reports whether a child named name exists.
func (n *Node) Exists(name string) bool {
	return n.Find(name) != nil
}

// IsSimple reports whether the content is exactly one text item.
func (n *Node) IsSimple() bool {
	if len(n.Content) != 1 {
		return false
	}
	_, ok := n.Content[0].(Text)
	return ok
}

// Value returns the text of a simple node.
func (n *Node) Value() (string, error) {
	if !n.IsSimple() {
		return "", fmt.Errorf("%w: %s", ErrNotSimple, n.Name)
	}
	return string(n.Content[0].(Text)), nil
}

// Get returns the value of the first child named name, or def when the child
// is missing or not simple.
func (n *Node) Get(name, def string) string {
	child := n.Find(name)
	if child == nil {
		return def
	}
	v, err := child.Value()
	if err != nil {
		return def
	}
	return v
}

// TextContent concatenates the direct text items.
func (n *Node) TextContent() string {
	var sb strings.Builder
	for _, c := range n.Content {
		if t, ok := c.(Text); ok {
			sb.WriteString(string(t))
		}
	}
	return sb.String()
}

// DeepText concatenates all text of the subtree in document order.
func (n *Node) DeepText() string {
	var sb strings.Builder
	n.writeDeepText(&sb)
	return sb.String()
}

func (n *Node) writeDeepText(sb *strings.Builder) {
	for _, c := range n.Content {
		switch v := c.(type) {
		case Text:
			sb.WriteString(string(v))
		case *Node:
			v.writeDeepText(sb)
		}
	}
}

// ChildrenValues returns the values of all child nodes. Whitespace-only text
// between children is ignored; other text or a non-simple child is an error.
func (n *Node) ChildrenValues() ([]string, error) {
	var result []string
	for _, c := range n.Content {
		switch v := c.(type) {
		case Text:
			if strings.TrimSpace(string(v)) != "" {
				return nil, fmt.Errorf("%w: %s has text between children", ErrNotSimple, n.Name)
			}
		case *Node:
			value, err := v.Value()
			if err != nil {
				return nil, err
			}
			result = append(result, value)
		}
	}
	return result, nil
}

// Itemized reports whether every content item is an _item node.
func (n *Node) Itemized() bool {
	for _, c := range n.Content {
		child, ok := c.(*Node)
		if !ok || child.Name != ItemTag {
			return false
		}
	}
	return true
}

// Itemize returns n when it is itemized, otherwise a copy whose whole content
// is wrapped into a single _item.
func (n *Node) Itemize() *Node {
	if n.Itemized() {
		return n
	}
	item := &Node{Name: ItemTag, Content: n.Content, Pos: n.Pos}
	return &Node{Name: n.Name, Content: []Content{item}, Pos: n.Pos}
}

// Unitemize returns the content of the single _item of n, renamed to n's
// name. A node without _item children is returned unchanged.
func (n *Node) Unitemize() (*Node, error) {
	items := n.FindAll(ItemTag)
	switch {
	case len(items) == 0:
		return n, nil
	case len(items) == 1 && len(n.Content) == 1:
		return &Node{Name: n.Name, Content: items[0].Content, Pos: n.Pos}, nil
	default:
		return nil, fmt.Errorf("%w: %s has %d items", ErrCannotUnitemize, n.Name, len(items))
	}
}

// AsList converts the subtree into nested slices: the first element is the
// name, followed by strings and nested slices.
func (n *Node) AsList() []any {
	result := make([]any, 0, len(n.Content)+1)
	result = append(result, n.Name)
	for _, c := range n.Content {
		switch v := c.(type) {
		case Text:
			result = append(result, string(v))
		case *Node:
			result = append(result, v.AsList())
		}
	}
	return result
}

// Equal compares names and content recursively. Positions are ignored.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == other
	}
	if n.Name != other.Name || len(n.Content) != len(other.Content) {
		return false
	}
	for i, c := range n.Content {
		switch v := c.(type) {
		case Text:
			o, ok := other.Content[i].(Text)
			if !ok || o != v {
				return false
			}
		case *Node:
			o, ok := other.Content[i].(*Node)
			if !ok || !v.Equal(o) {
				return false
			}
		}
	}
	return true
}

// Walk visits n and its descendants depth-first in document order.
func (n *Node) Walk(fn WalkFunc) error {
	return n.walk(nil, fn)
}

func (n *Node) walk(path []*Node, fn WalkFunc) error {
	err := fn(path, n)
	if errors.Is(err, ErrSkipChildren) {
		return nil
	}
	if err != nil {
		return err
	}

	path = append(path, n)
	for _, child := range n.Children() {
		if err := child.walk(path[:len(path):len(path)], fn); err != nil {
			return err
		}
	}
	return nil
}

// Sibling returns the child node offset positions away from child among the
// child nodes of n (negative offsets look backwards), or nil.
func (n *Node) Sibling(child *Node, offset int) *Node {
	children := n.Children()
	for i, c := range children {
		if c == child {
			j := i + offset
			if j < 0 || j >= len(children) {
				return nil
			}
			return children[j]
		}
	}
	return nil
}
