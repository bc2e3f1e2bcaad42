package selector

import (
	"fmt"
	"unicode"

	pc "github.com/shibukawa/parsercombinator"
)

type tokenKind int

const (
	tokenName tokenKind = iota
	tokenSlash
	tokenStar
	tokenDoubleStar
	tokenInvalid
)

type pathToken struct {
	Kind  tokenKind
	Value string
}

// stepKind is how one path step selects from the current nodes.
type stepKind int

const (
	stepName        stepKind = iota // children with the name
	stepAny                         // all children
	stepDescendants                 // the nodes and all their descendants
)

type step struct {
	kind stepKind
	name string
}

func (s step) String() string {
	switch s.kind {
	case stepAny:
		return "*"
	case stepDescendants:
		return "**"
	default:
		return s.name
	}
}

// lexPath splits a path into tokens. Whitespace is not part of any name.
func lexPath(path string) []pc.Token[pathToken] {
	var (
		tokens []pc.Token[pathToken]
		runes  = []rune(path)
	)

	add := func(kind tokenKind, start, end int) {
		raw := string(runes[start:end])
		tokens = append(tokens, pc.Token[pathToken]{
			Type: "raw",
			Pos:  &pc.Pos{Line: 1, Col: start + 1, Index: start},
			Val:  pathToken{Kind: kind, Value: raw},
			Raw:  raw,
		})
	}

	for i := 0; i < len(runes); {
		switch r := runes[i]; {
		case r == '/':
			add(tokenSlash, i, i+1)
			i++
		case r == '*' && i+1 < len(runes) && runes[i+1] == '*':
			add(tokenDoubleStar, i, i+2)
			i += 2
		case r == '*':
			add(tokenStar, i, i+1)
			i++
		case unicode.IsSpace(r):
			add(tokenInvalid, i, i+1)
			i++
		default:
			start := i
			for i < len(runes) && runes[i] != '/' && runes[i] != '*' && !unicode.IsSpace(runes[i]) {
				i++
			}
			add(tokenName, start, i)
		}
	}

	return tokens
}

func kind(typeName string, k tokenKind) pc.Parser[pathToken] {
	return func(pctx *pc.ParseContext[pathToken], tokens []pc.Token[pathToken]) (int, []pc.Token[pathToken], error) {
		if len(tokens) > 0 && tokens[0].Val.Kind == k {
			return 1, tokens[:1], nil
		}
		return 0, nil, pc.ErrNotMatch
	}
}

var (
	slash    = kind("slash", tokenSlash)
	stepTok  = pc.Or(kind("name", tokenName), kind("doubleStar", tokenDoubleStar), kind("star", tokenStar))
	pathRule = pc.Seq(
		pc.Optional(pc.Drop(slash)),
		stepTok,
		pc.ZeroOrMore("steps", pc.Seq(pc.Drop(slash), stepTok)),
		pc.EOS[pathToken](),
	)
)

// parsePath parses "step/step/..." where a step is a name, * or **.
// A leading slash is allowed.
func parsePath(path string) ([]step, error) {
	tokens := lexPath(path)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}

	pctx := pc.NewParseContext[pathToken]()
	consumed, matched, err := pathRule(pctx, tokens)
	if err != nil || consumed != len(tokens) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}

	steps := make([]step, 0, len(matched))
	for _, t := range matched {
		switch t.Val.Kind {
		case tokenName:
			steps = append(steps, step{kind: stepName, name: t.Val.Value})
		case tokenStar:
			steps = append(steps, step{kind: stepAny})
		case tokenDoubleStar:
			steps = append(steps, step{kind: stepDescendants})
		}
	}

	return steps, nil
}
