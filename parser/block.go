package parser

import "github.com/shibukawa/indentml/tokenizer"

// parseLine parses the non-blank line i, already aligned on the tag stack,
// and returns the index of the next unparsed line. Inline content may span
// several physical lines.
func (p *parser) parseLine(i int) (int, error) {
	blanks := p.tree.stack.takeBlanks()
	base := p.tree.target().base
	c := p.sc.Cursor(i, base)

	if name, after, ok := p.blockIntro(c); ok {
		return p.parseBlockLine(name, c, after, p.sc.Line(i).Indent, base)
	}

	pieces, end, err := p.scanSegment(c, segment{mode: lineMode, strip: base})
	if err != nil {
		return 0, err
	}
	p.tree.appendTextLine(pieces, blanks)

	return end.Line(), nil
}

// blockIntro checks for an allowed block tag at c.
func (p *parser) blockIntro(c tokenizer.Cursor) (string, tokenizer.Cursor, bool) {
	ch, next := p.sc.Next(c)
	if ch.Role != tokenizer.TAG_BEGIN {
		return "", c, false
	}

	name, after := p.sc.TagName(next)
	if name == "" {
		return "", c, false
	}

	canonical := p.opts.Canonical(name)
	if !p.opts.BlockTags.Has(canonical) || !isDelimiter(p.sc.Peek(after)) {
		return "", c, false
	}

	return canonical, after, true
}

// parseBlockLine opens the tag at the start of the line and distributes the
// rest of the line. A remainder with separators is split into _item parts
// first. Otherwise text before the first same-line tag goes to the opened
// tag and each same-line tag becomes its child.
func (p *parser) parseBlockLine(name string, tag, after tokenizer.Cursor, indent, strip int) (int, error) {
	entry := p.tree.openBlock(name, p.sc.Position(tag), indent)

	pieces, end, err := p.scanSegment(p.sc.SkipSpaces(after), segment{mode: remainderMode, strip: strip})
	if err != nil {
		return 0, err
	}

	if hasSeparator(pieces) {
		p.arrangeRemainder(entry.node, pieces)
		return end.Line(), nil
	}

	leading, groups := groupTags(pieces)
	p.tree.appendPieces(entry.node, leading)
	entry.continued = len(groups) == 0 && len(leading) > 0

	for k, g := range groups {
		child := p.tree.open(entry.node, g.name, g.pos)
		p.tree.appendPieces(child, g.pieces)

		// A trailing tag without text receives the indented lines below.
		if k == len(groups)-1 && len(g.pieces) == 0 {
			p.tree.keepOpen(child, indent)
		}
	}

	return end.Line(), nil
}
