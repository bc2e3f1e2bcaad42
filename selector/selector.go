// Package selector finds nodes in a parsed document with path expressions
// and optional CEL predicates.
//
// A path is a list of steps separated by "/": a tag name selects the
// children with that name, "*" selects all children and "**" selects the
// current nodes together with all their descendants. Steps start from the
// node passed to Select, so "**/li" finds every li element below it.
//
// The where expression sees these variables for each candidate:
//
//	name     string        tag name
//	text     string        all text below the node
//	value    string        text of a simple node, "" otherwise
//	depth    int           levels below the node passed to Select
//	children list(string)  names of the child nodes
//	simple   bool          whether the node only holds text
package selector

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/shibukawa/indentml/parser"
)

// Selector is a compiled path and predicate. It is safe for concurrent use.
type Selector struct {
	path  string
	steps []step
	where cel.Program
}

// Compile parses path and, when where is not empty, compiles it as a CEL
// expression.
func Compile(path, where string) (*Selector, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	s := &Selector{path: path, steps: steps}

	if strings.TrimSpace(where) != "" {
		prg, err := compileWhere(where)
		if err != nil {
			return nil, err
		}
		s.where = prg
	}

	return s, nil
}

// MustCompile is like Compile but panics on error
func MustCompile(path, where string) *Selector {
	s, err := Compile(path, where)
	if err != nil {
		panic(err)
	}
	return s
}

func compileWhere(where string) (cel.Program, error) {
	env, err := cel.NewEnv(
		cel.Variable("name", cel.StringType),
		cel.Variable("text", cel.StringType),
		cel.Variable("value", cel.StringType),
		cel.Variable("depth", cel.IntType),
		cel.Variable("children", cel.ListType(cel.StringType)),
		cel.Variable("simple", cel.BoolType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	ast, issues := env.Compile(where)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWhere, issues.Err())
	}

	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidWhere, err)
	}

	return prg, nil
}

// String returns the source path
func (s *Selector) String() string {
	return s.path
}

// Select returns the matching nodes below root in document order. Each node
// appears once.
func (s *Selector) Select(root *parser.Node) ([]*parser.Node, error) {
	depth := map[*parser.Node]int{}
	_ = root.Walk(func(path []*parser.Node, n *parser.Node) error {
		depth[n] = len(path)
		return nil
	})

	current := []*parser.Node{root}
	for _, st := range s.steps {
		current = apply(st, current)
	}

	matched := make(map[*parser.Node]bool, len(current))
	for _, n := range current {
		matched[n] = true
	}

	var result []*parser.Node
	err := root.Walk(func(_ []*parser.Node, n *parser.Node) error {
		if !matched[n] {
			return nil
		}
		delete(matched, n)

		ok, err := s.accept(n, depth[n])
		if err != nil {
			return err
		}
		if ok {
			result = append(result, n)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func apply(st step, nodes []*parser.Node) []*parser.Node {
	var next []*parser.Node
	for _, n := range nodes {
		switch st.kind {
		case stepName:
			next = append(next, n.FindAll(st.name)...)
		case stepAny:
			next = append(next, n.Children()...)
		case stepDescendants:
			_ = n.Walk(func(_ []*parser.Node, d *parser.Node) error {
				next = append(next, d)
				return nil
			})
		}
	}
	return next
}

func (s *Selector) accept(n *parser.Node, depth int) (bool, error) {
	if s.where == nil {
		return true, nil
	}

	children := make([]string, 0, len(n.Content))
	for _, c := range n.Children() {
		children = append(children, c.Name)
	}

	value := ""
	simple := n.IsSimple()
	if simple {
		value, _ = n.Value()
	}

	out, _, err := s.where.Eval(map[string]any{
		"name":     n.Name,
		"text":     n.DeepText(),
		"value":    value,
		"depth":    depth,
		"children": children,
		"simple":   simple,
	})
	if err != nil {
		return false, fmt.Errorf("CEL evaluation error at %s: %w", n.Pos, err)
	}

	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("%w: got %v", ErrWhereNotBool, out.Value())
	}

	return ok, nil
}
