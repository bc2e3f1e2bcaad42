package parser

import (
	"strings"
	"unicode"

	"github.com/shibukawa/indentml/tokenizer"
)

type pieceKind int

const (
	pieceText      pieceKind = iota
	pieceNode                // complete inline tag
	pieceTag                 // same-line block tag introduction
	pieceSeparator           // unescaped separator
)

// piece is an intermediate unit of a scanned segment. Tags and separators
// are arranged into nodes once the whole segment is known.
type piece struct {
	kind pieceKind
	text string
	node *Node
	name string
	pos  tokenizer.Position
}

type segmentMode int

const (
	lineMode      segmentMode = iota // text line
	remainderMode                    // rest of a block tag line
	curlyMode
	squareMode
)

func (m segmentMode) bracketed() bool {
	return m == curlyMode || m == squareMode
}

// structural modes recognize block tag introductions and separators.
func (m segmentMode) structural() bool {
	return m == remainderMode || m == squareMode
}

func (m segmentMode) opens(role tokenizer.CharRole) bool {
	return (m == curlyMode && role == tokenizer.CURLY_OPEN) || (m == squareMode && role == tokenizer.SQUARE_OPEN)
}

func (m segmentMode) closes(role tokenizer.CharRole) bool {
	return (m == curlyMode && role == tokenizer.CURLY_CLOSE) || (m == squareMode && role == tokenizer.SQUARE_CLOSE)
}

type segment struct {
	mode  segmentMode
	strip int              // spaces removed from continuation lines
	open  tokenizer.Cursor // opening bracket of a bracketed segment
}

// scanSegment scans from c until the segment ends: the end of the physical
// line for line and remainder segments, the matching close bracket
// otherwise. The returned cursor is just past the end.
func (p *parser) scanSegment(c tokenizer.Cursor, seg segment) ([]piece, tokenizer.Cursor, error) {
	var (
		pieces []piece
		text   strings.Builder
		nested int
	)

	flush := func() {
		if text.Len() > 0 {
			pieces = append(pieces, piece{kind: pieceText, text: text.String()})
			text.Reset()
		}
	}

	for {
		ch, next := p.sc.Next(c)

		switch ch.Role {
		case tokenizer.EOF:
			if seg.mode.bracketed() {
				return nil, c, p.errorAt(BracketError, seg.open, "unterminated %q", p.sc.Peek(seg.open).Value)
			}
			flush()
			return pieces, next, nil

		case tokenizer.NEWLINE:
			if !seg.mode.bracketed() {
				flush()
				return pieces, next, nil
			}
			text.WriteByte('\n')
			c = p.sc.SkipIndent(next, seg.strip)
			continue

		case tokenizer.CURLY_OPEN, tokenizer.SQUARE_OPEN:
			if seg.mode.opens(ch.Role) {
				nested++
			}
			text.WriteRune(ch.Value)

		case tokenizer.CURLY_CLOSE, tokenizer.SQUARE_CLOSE:
			if seg.mode.closes(ch.Role) {
				if nested == 0 {
					flush()
					return pieces, next, nil
				}
				nested--
			}
			text.WriteRune(ch.Value)

		case tokenizer.SEPARATOR:
			if seg.mode.structural() {
				flush()
				pieces = append(pieces, piece{kind: pieceSeparator, pos: ch.Position})
			} else {
				text.WriteRune(ch.Value)
			}

		case tokenizer.TAG_BEGIN:
			name, afterName := p.sc.TagName(next)
			if name != "" {
				canonical := p.opts.Canonical(name)
				follow := p.sc.Peek(afterName)

				switch {
				case p.opts.InlineTags.Has(canonical) && isOpenBracket(follow):
					flush()
					node, after, err := p.parseInline(canonical, c, afterName, seg.strip)
					if err != nil {
						return nil, c, err
					}
					pieces = append(pieces, piece{kind: pieceNode, node: node})
					c = after
					continue

				case seg.mode.structural() && p.opts.BlockTags.Has(canonical) && isDelimiter(follow):
					flush()
					pieces = append(pieces, piece{kind: pieceTag, name: canonical, pos: ch.Position})
					c = p.sc.SkipSpaces(afterName)
					continue
				}
			}
			// Not a tag we know: keep it as written.
			text.WriteRune(ch.Value)
			text.WriteString(name)
			c = afterName
			continue

		default:
			text.WriteRune(ch.Value)
		}

		c = next
	}
}

// parseInline parses the bracket groups following an inline tag name. tag
// points at the tag-begin character, c at the first bracket.
func (p *parser) parseInline(name string, tag, c tokenizer.Cursor, strip int) (*Node, tokenizer.Cursor, error) {
	p.depth++
	defer func() { p.depth-- }()

	if p.depth > p.opts.MaxInlineDepth {
		return nil, c, p.errorAt(BracketError, tag, "inline tags nested deeper than %d", p.opts.MaxInlineDepth)
	}

	node := p.tree.newNode(name, p.sc.Position(tag))

	for {
		open, inner := p.sc.Next(c)

		switch open.Role {
		case tokenizer.CURLY_OPEN:
			pieces, after, err := p.scanSegment(inner, segment{mode: curlyMode, strip: strip, open: c})
			if err != nil {
				return nil, c, err
			}
			p.tree.appendPieces(node, pieces)
			c = after

		case tokenizer.SQUARE_OPEN:
			pieces, after, err := p.scanSegment(inner, segment{mode: squareMode, strip: strip, open: c})
			if err != nil {
				return nil, c, err
			}
			p.arrangeRemainder(node, pieces)
			c = after

		default:
			return node, c, nil
		}
	}
}

// arrangeRemainder arranges square content and the separated remainder of a
// block tag line: it splits on separators first, trims each part and then
// opens the same-line tags inside it.
func (p *parser) arrangeRemainder(n *Node, pieces []piece) {
	if !hasSeparator(pieces) {
		p.arrangeTags(n, pieces)
		return
	}
	for _, part := range splitSeparators(pieces) {
		item := p.tree.open(n, ItemTag, n.Pos)
		p.arrangeTags(item, trimPieces(part))
	}
}

// arrangeTags appends the leading pieces to n and opens one child per
// same-line tag introduction, each taking the pieces up to the next one.
func (p *parser) arrangeTags(n *Node, pieces []piece) {
	leading, groups := groupTags(pieces)
	p.tree.appendPieces(n, leading)
	for _, g := range groups {
		child := p.tree.open(n, g.name, g.pos)
		p.tree.appendPieces(child, g.pieces)
	}
}

type tagGroup struct {
	name   string
	pos    tokenizer.Position
	pieces []piece
}

func groupTags(pieces []piece) ([]piece, []tagGroup) {
	var (
		leading []piece
		groups  []tagGroup
	)
	for _, pc := range pieces {
		switch {
		case pc.kind == pieceTag:
			groups = append(groups, tagGroup{name: pc.name, pos: pc.pos})
		case len(groups) == 0:
			leading = append(leading, pc)
		default:
			last := &groups[len(groups)-1]
			last.pieces = append(last.pieces, pc)
		}
	}
	return leading, groups
}

func hasSeparator(pieces []piece) bool {
	for _, pc := range pieces {
		if pc.kind == pieceSeparator {
			return true
		}
	}
	return false
}

func splitSeparators(pieces []piece) [][]piece {
	parts := [][]piece{nil}
	for _, pc := range pieces {
		if pc.kind == pieceSeparator {
			parts = append(parts, nil)
			continue
		}
		parts[len(parts)-1] = append(parts[len(parts)-1], pc)
	}
	return parts
}

// trimPieces removes whitespace at both ends of a part.
func trimPieces(pieces []piece) []piece {
	result := make([]piece, len(pieces))
	copy(result, pieces)

	if len(result) > 0 && result[0].kind == pieceText {
		result[0].text = strings.TrimLeftFunc(result[0].text, unicode.IsSpace)
	}
	if last := len(result) - 1; last >= 0 && result[last].kind == pieceText {
		result[last].text = strings.TrimRightFunc(result[last].text, unicode.IsSpace)
	}

	trimmed := result[:0]
	for _, pc := range result {
		if pc.kind == pieceText && pc.text == "" {
			continue
		}
		trimmed = append(trimmed, pc)
	}
	return trimmed
}

func isOpenBracket(ch tokenizer.Char) bool {
	return ch.Role == tokenizer.CURLY_OPEN || ch.Role == tokenizer.SQUARE_OPEN
}

// isDelimiter reports whether ch may follow a block tag name.
func isDelimiter(ch tokenizer.Char) bool {
	switch ch.Role {
	case tokenizer.EOF, tokenizer.NEWLINE, tokenizer.SEPARATOR, tokenizer.TAG_BEGIN,
		tokenizer.CURLY_CLOSE, tokenizer.SQUARE_CLOSE:
		return true
	case tokenizer.LITERAL:
		return ch.Escaped || unicode.IsSpace(ch.Value)
	default:
		return false
	}
}
