package parser

import (
	"fmt"

	"github.com/shibukawa/indentml/tokenizer"
)

// Parse parses text into a document tree.
//
// Lines indented deeper than a block tag belong to it; a dedent closes tags
// until the indentation matches an open one. Any error aborts the parse and
// no partial tree is returned.
func Parse(text string, opts Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	opts = opts.withDefaults()

	p := &parser{
		sc:   tokenizer.NewScanner(text, opts.Syntax),
		opts: opts,
		tree: newBuilder(),
	}

	return p.run()
}

// MustParse is like Parse but panics on error. It is intended for fixtures.
func MustParse(text string, opts Options) *Document {
	doc, err := Parse(text, opts)
	if err != nil {
		panic(err)
	}
	return doc
}

type parser struct {
	sc    *tokenizer.Scanner
	opts  Options
	tree  *builder
	depth int // current inline nesting
}

func (p *parser) run() (*Document, error) {
	if err := p.checkTabs(); err != nil {
		return nil, err
	}

	stack := p.tree.stack

	for i := 0; i < p.sc.LineCount(); {
		line := p.sc.Line(i)
		if line.Blank {
			stack.blank()
			i++
			continue
		}

		if err := stack.align(line.Indent); err != nil {
			return nil, p.errorAt(IndentError, p.sc.Cursor(i, line.Indent), "%s", err)
		}

		next, err := p.parseLine(i)
		if err != nil {
			return nil, err
		}
		i = next
	}

	return p.tree.finalize(), nil
}

func (p *parser) checkTabs() error {
	for i, line := range p.sc.Lines() {
		if !line.Blank && line.LeadingTab >= 0 {
			return p.errorAt(IndentError, p.sc.Cursor(i, line.LeadingTab), "tab character in indentation")
		}
	}
	return nil
}

func (p *parser) errorAt(kind ErrorKind, c tokenizer.Cursor, format string, args ...any) *ParseError {
	pos := p.sc.Position(c)
	e := &ParseError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
	if pos.Line-1 < p.sc.LineCount() {
		e.SourceLine = p.sc.Line(pos.Line - 1).Text()
	}
	return e
}
