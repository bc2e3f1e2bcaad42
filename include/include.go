// Package include replaces include tags with the parsed content of the files
// they name.
package include

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"github.com/shibukawa/indentml/parser"
)

// DefaultTag is the tag name recognized when no other is configured
const DefaultTag = "_include"

// ParseFunc parses the text of an included file
type ParseFunc func(text string) (*parser.Document, error)

// Expander expands include tags from a file system
type Expander struct {
	fsys   fs.FS
	parse  ParseFunc
	tag    string
	follow bool
}

// Option configures an Expander
type Option func(*Expander)

// WithTag sets the include tag name
func WithTag(tag string) Option {
	return func(e *Expander) {
		e.tag = tag
	}
}

// WithFollow enables expansion of include tags found in included files.
// Their paths are relative to the including file.
func WithFollow(follow bool) Option {
	return func(e *Expander) {
		e.follow = follow
	}
}

// NewExpander creates an Expander reading files from fsys
func NewExpander(fsys fs.FS, parse ParseFunc, options ...Option) *Expander {
	e := &Expander{
		fsys:  fsys,
		parse: parse,
		tag:   DefaultTag,
	}
	for _, o := range options {
		o(e)
	}
	return e
}

// Expand replaces every include node of doc, at any depth, with the top-level
// content of the file it names.
func (e *Expander) Expand(doc *parser.Document) error {
	return e.expand(&doc.Node, "", nil)
}

// Files returns the cleaned paths of the include tags of doc without reading
// them.
func (e *Expander) Files(doc *parser.Document) ([]string, error) {
	var files []string

	err := doc.Walk(func(_ []*parser.Node, n *parser.Node) error {
		if n.Name != e.tag {
			return nil
		}
		p, err := e.target(n, "")
		if err != nil {
			return err
		}
		files = append(files, p)
		return parser.ErrSkipChildren
	})

	return files, err
}

func (e *Expander) expand(n *parser.Node, dir string, chain []string) error {
	result := &parser.Node{Name: n.Name, Pos: n.Pos}
	// Text meeting included text is separated by a line break, as if the
	// file had been pasted in.
	afterIncludedText := false

	for _, c := range n.Content {
		child, ok := c.(*parser.Node)
		if !ok {
			if afterIncludedText {
				result.Append(parser.Text("\n"))
			}
			result.Append(c)
			afterIncludedText = false
			continue
		}

		afterIncludedText = false

		if child.Name != e.tag {
			if err := e.expand(child, dir, chain); err != nil {
				return err
			}
			result.Append(child)
			continue
		}

		included, err := e.load(child, dir, chain)
		if err != nil {
			return err
		}
		if len(included) == 0 {
			continue
		}
		if isText(included[0]) && len(result.Content) > 0 && isText(result.Content[len(result.Content)-1]) {
			result.Append(parser.Text("\n"))
		}
		for _, ic := range included {
			result.Append(ic)
		}
		afterIncludedText = isText(included[len(included)-1])
	}

	n.Content = result.Content

	return nil
}

func (e *Expander) load(n *parser.Node, dir string, chain []string) ([]parser.Content, error) {
	p, err := e.target(n, dir)
	if err != nil {
		return nil, err
	}

	if slices.Contains(chain, p) {
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(append(chain, p), " -> "))
	}

	data, err := fs.ReadFile(e.fsys, p)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIncludeRead, p, err)
	}

	doc, err := e.parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrIncludeParse, p, err)
	}

	if e.follow {
		if err := e.expand(&doc.Node, path.Dir(p), append(chain[:len(chain):len(chain)], p)); err != nil {
			return nil, err
		}
	}

	return doc.Content, nil
}

// target resolves the file named by an include node. The result never
// leaves the root of the file system.
func (e *Expander) target(n *parser.Node, dir string) (string, error) {
	name, err := n.Value()
	if err != nil {
		return "", fmt.Errorf("%w: %s at %s must contain only a file name", ErrIncludePath, e.tag, n.Pos)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: empty file name at %s", ErrIncludePath, n.Pos)
	}

	p := strings.TrimPrefix(path.Clean("/"+path.Join(dir, name)), "/")
	if p == "" {
		return "", fmt.Errorf("%w: %s", ErrIncludePath, name)
	}

	return p, nil
}

func isText(c parser.Content) bool {
	_, ok := c.(parser.Text)
	return ok
}
