package formatter

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shibukawa/indentml/parser"
	"github.com/shibukawa/indentml/tokenizer"
)

// IndentMLFormatter writes documents back as indentml markup.
//
// Nodes whose tag is allowed as a block tag are written on their own line
// when that reproduces the same tree; the rest use the inline form
// \name{...}. Separator lists are written back with the separator.
type IndentMLFormatter struct {
	opts   parser.Options
	indent string
}

// NewIndentMLFormatter creates a formatter producing markup readable with
// opts.
func NewIndentMLFormatter(opts parser.Options) *IndentMLFormatter {
	if opts.Syntax.IsZero() {
		opts.Syntax = tokenizer.DefaultSyntax()
	}
	return &IndentMLFormatter{
		opts:   opts,
		indent: "    ",
	}
}

// Options returns the parser options the output is written for.
func (f *IndentMLFormatter) Options() parser.Options {
	return f.opts
}

// Format renders doc. Parsing the result with Options() yields a document
// equal to doc, otherwise ErrUnrepresentable is returned.
func (f *IndentMLFormatter) Format(doc *parser.Document) (string, error) {
	r := &render{f: f, verified: map[*parser.Node]bool{}}

	var w lineWriter
	if err := r.content(&w, doc.Content, ""); err != nil {
		return "", err
	}
	out := w.String()

	back, err := parser.Parse(out, f.opts)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUnrepresentable, err)
	}
	if !back.Node.Equal(&doc.Node) {
		return "", fmt.Errorf("%w: output does not reproduce the document", ErrUnrepresentable)
	}

	return out, nil
}

// render holds the state of one Format call.
type render struct {
	f *IndentMLFormatter
	// verified caches whether a node survives being written in block form.
	verified map[*parser.Node]bool
}

func (r *render) syntax() tokenizer.Syntax {
	return r.f.opts.Syntax
}

func (r *render) tag(name string) string {
	return string(r.syntax().TagBegin) + name
}

func (r *render) escape(s string) string {
	syn := r.syntax()
	var sb strings.Builder
	for _, ch := range s {
		if syn.Escapable(ch) {
			sb.WriteRune(syn.TagBegin)
		}
		sb.WriteRune(ch)
	}
	return sb.String()
}

// content writes mixed content whose new lines start at ind.
func (r *render) content(w *lineWriter, items []parser.Content, ind string) error {
	for i, c := range items {
		switch v := c.(type) {
		case parser.Text:
			w.text(ind, r.escape(string(v)))
		case *parser.Node:
			if r.blockable(w, items, i) {
				if err := r.block(w, v, ind); err != nil {
					return err
				}
				w.flush()
				continue
			}
			s, err := r.inline(v, w.prefix(ind))
			if err != nil {
				return err
			}
			w.write(ind, s)
		}
	}
	return nil
}

// blockable reports whether items[i] can be written as a block line at the
// current position.
func (r *render) blockable(w *lineWriter, items []parser.Content, i int) bool {
	n := items[i].(*parser.Node)
	if !r.f.opts.IsBlock(n.Name) || w.blankLine() {
		return false
	}

	var prevText, prevSpace, nextText bool

	// The line break before a block line is not content.
	if i > 0 {
		if t, ok := items[i-1].(parser.Text); ok {
			s := string(t)
			if k := strings.LastIndexByte(s, '\n'); k >= 0 && strings.TrimSpace(s[k+1:]) == "" {
				return false
			}
			prevText = true
			prevSpace = endsWithSpace(s)
		}
	}
	// Text after the block starts a line at the parent's indentation.
	if i+1 < len(items) {
		if t, ok := items[i+1].(parser.Text); ok {
			if startsWithSpace(string(t)) {
				return false
			}
			nextText = true
		}
	}

	// Inside a run of text, or after "word ", a short node stays on the line.
	if prevText && (nextText || (prevSpace && len(n.Children()) == 0)) &&
		r.f.opts.IsInline(n.Name) && !strings.Contains(n.DeepText(), "\n") {
		return false
	}

	return r.verify(n)
}

// verify writes n alone in block form and checks that it parses back.
func (r *render) verify(n *parser.Node) bool {
	if ok, done := r.verified[n]; done {
		return ok
	}

	var w lineWriter
	ok := r.block(&w, n, "") == nil
	if ok {
		doc, err := parser.Parse(w.String(), r.f.opts)
		ok = err == nil && len(doc.Content) == 1
		if ok {
			back, isNode := doc.Content[0].(*parser.Node)
			ok = isNode && back.Equal(n)
		}
	}

	r.verified[n] = ok
	return ok
}

// block writes n as a block tag line followed by its indented content.
func (r *render) block(w *lineWriter, n *parser.Node, ind string) error {
	w.flush()
	w.write(ind, r.tag(n.Name))

	items := n.Content
	k := itemRun(items)
	list, listed := "", false
	if k >= 2 {
		list, listed = r.list(items[:k], ind)
	}

	switch {
	case listed:
		w.write(ind, " "+list)
		items = items[k:]
		w.flush()
	case startsTagLine(items):
		w.write(ind, " ")
	default:
		w.flush()
	}

	return r.content(w, items, ind+r.f.indent)
}

// inline renders n as \name followed by bracket groups. Continuation lines
// inside curly brackets are prefixed so that the parser strips exactly
// prefix.
func (r *render) inline(n *parser.Node, prefix string) (string, error) {
	if !r.f.opts.IsInline(n.Name) {
		return "", fmt.Errorf("%w: tag %q is not allowed inline", ErrUnrepresentable, n.Name)
	}

	syn := r.syntax()
	var sb strings.Builder
	sb.WriteString(r.tag(n.Name))

	items := n.Content
	if len(items) == 0 {
		sb.WriteRune(syn.CurlyOpen)
		sb.WriteRune(syn.CurlyClose)
	}

	for len(items) > 0 {
		if k := itemRun(items); k >= 2 {
			if list, ok := r.list(items[:k], prefix); ok {
				sb.WriteRune(syn.SquareOpen)
				sb.WriteString(list)
				sb.WriteRune(syn.SquareClose)
				items = items[k:]
				continue
			}
		}

		j := 1
		for ; j < len(items); j++ {
			if k := itemRun(items[j:]); k >= 2 {
				if _, ok := r.list(items[j:j+k], prefix); ok {
					break
				}
			}
		}

		s, err := r.curly(items[:j], prefix)
		if err != nil {
			return "", err
		}
		sb.WriteRune(syn.CurlyOpen)
		sb.WriteString(s)
		sb.WriteRune(syn.CurlyClose)
		items = items[j:]
	}

	return sb.String(), nil
}

func (r *render) curly(items []parser.Content, prefix string) (string, error) {
	var sb strings.Builder
	for _, c := range items {
		switch v := c.(type) {
		case parser.Text:
			for k, seg := range strings.Split(r.escape(string(v)), "\n") {
				if k > 0 {
					sb.WriteByte('\n')
					if seg != "" {
						sb.WriteString(prefix)
					}
				}
				sb.WriteString(seg)
			}
		case *parser.Node:
			s, err := r.inline(v, prefix)
			if err != nil {
				return "", err
			}
			sb.WriteString(s)
		}
	}
	return sb.String(), nil
}

// list renders _item nodes joined by the separator. It fails when an item
// would not survive the trimming applied to separated parts.
func (r *render) list(items []parser.Content, prefix string) (string, bool) {
	parts := make([]string, 0, len(items))
	for _, c := range items {
		item := c.(*parser.Node)

		var sb strings.Builder
		for i, ic := range item.Content {
			switch v := ic.(type) {
			case parser.Text:
				s := string(v)
				if strings.Contains(s, "\n") ||
					(i == 0 && startsWithSpace(s)) ||
					(i == len(item.Content)-1 && endsWithSpace(s)) {
					return "", false
				}
				sb.WriteString(r.escape(s))
			case *parser.Node:
				s, err := r.inline(v, prefix)
				if err != nil {
					return "", false
				}
				sb.WriteString(s)
			}
		}
		parts = append(parts, sb.String())
	}

	return strings.Join(parts, " "+string(r.syntax().Separator)+" "), true
}

// itemRun counts the leading _item nodes of items.
func itemRun(items []parser.Content) int {
	for i, c := range items {
		if n, ok := c.(*parser.Node); !ok || n.Name != parser.ItemTag {
			return i
		}
	}
	return len(items)
}

// startsTagLine reports whether the first line of items can follow the tag
// name on the block line.
func startsTagLine(items []parser.Content) bool {
	if len(items) == 0 {
		return false
	}
	t, ok := items[0].(parser.Text)
	if !ok {
		return false
	}
	first, _, _ := strings.Cut(string(t), "\n")
	return first != "" && !startsWithSpace(first)
}

func startsWithSpace(s string) bool {
	for _, r := range s {
		return unicode.IsSpace(r)
	}
	return false
}

func endsWithSpace(s string) bool {
	return s != "" && strings.TrimRightFunc(s, unicode.IsSpace) != s
}

// lineWriter collects output lines. A line's indentation is fixed by the
// first write to it.
type lineWriter struct {
	lines   []string
	cur     strings.Builder
	indent  string
	started bool
}

func (w *lineWriter) write(ind, s string) {
	if !w.started {
		w.indent = ind
		w.started = true
	}
	w.cur.WriteString(s)
}

// text writes s, ending the current line at every newline.
func (w *lineWriter) text(ind, s string) {
	for k, seg := range strings.Split(s, "\n") {
		if k > 0 {
			w.endLine()
		}
		if seg != "" {
			w.write(ind, seg)
		}
	}
}

func (w *lineWriter) endLine() {
	if w.cur.Len() == 0 {
		w.lines = append(w.lines, "")
	} else {
		w.lines = append(w.lines, w.indent+w.cur.String())
	}
	w.cur.Reset()
	w.started = false
}

func (w *lineWriter) flush() {
	if w.started {
		w.endLine()
	}
}

// prefix returns the indentation of the line being written.
func (w *lineWriter) prefix(ind string) string {
	if w.started {
		return w.indent
	}
	return ind
}

// blankLine reports whether the current line holds only spaces.
func (w *lineWriter) blankLine() bool {
	return w.started && strings.TrimSpace(w.cur.String()) == ""
}

func (w *lineWriter) String() string {
	w.flush()
	if len(w.lines) == 0 {
		return ""
	}
	return strings.Join(w.lines, "\n") + "\n"
}
