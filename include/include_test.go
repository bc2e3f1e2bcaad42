package include

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/indentml/parser"
)

type L = []any

var opts = parser.NewOptions("_include", "section", "b")

func parse(text string) (*parser.Document, error) {
	return parser.Parse(text, opts)
}

func TestExpand(t *testing.T) {
	fsys := fstest.MapFS{
		"intro.iml":         {Data: []byte("Hello \\b{world}!\n")},
		"chapters/one.iml":  {Data: []byte("\\section One\n\\_include two.iml\n")},
		"chapters/two.iml":  {Data: []byte("\\section Two\n")},
		"chapters/loop.iml": {Data: []byte("\\_include loop.iml\n")},
	}

	tests := []struct {
		name     string
		src      string
		follow   bool
		expected []any
		err      error
	}{
		{
			name:     "top level include",
			src:      "before\n\\_include intro.iml\nafter",
			expected: L{"", "before\nHello ", L{"b", "world"}, "!\nafter"},
		},
		{
			name:     "nested include tag",
			src:      "\\section S\n    \\_include intro.iml",
			expected: L{"", L{"section", "S\nHello ", L{"b", "world"}, "!"}},
		},
		{
			name:     "without follow",
			src:      "\\_include chapters/one.iml",
			expected: L{"", L{"section", "One"}, L{"_include", "two.iml"}},
		},
		{
			name:     "follow relative to including file",
			src:      "\\_include chapters/one.iml",
			follow:   true,
			expected: L{"", L{"section", "One"}, L{"section", "Two"}},
		},
		{
			name:     "path cannot escape the root",
			src:      "\\_include ../../intro.iml",
			expected: L{"", "Hello ", L{"b", "world"}, "!"},
		},
		{
			name:   "cycle",
			src:    "\\_include chapters/loop.iml",
			follow: true,
			err:    ErrIncludeCycle,
		},
		{
			name: "missing file",
			src:  "\\_include missing.iml",
			err:  ErrIncludeRead,
		},
		{
			name: "not a file name",
			src:  "\\_include \\b{x}",
			err:  ErrIncludePath,
		},
		{
			name: "empty file name",
			src:  "\\_include   ",
			err:  ErrIncludePath,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parse(tt.src)
			assert.NoError(t, err)

			e := NewExpander(fsys, parse, WithFollow(tt.follow))
			err = e.Expand(doc)

			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, doc.AsList())
		})
	}
}

func TestExpandParseError(t *testing.T) {
	fsys := fstest.MapFS{
		"broken.iml": {Data: []byte("\\b{unterminated\n")},
	}

	doc, err := parse("\\_include broken.iml")
	assert.NoError(t, err)

	err = NewExpander(fsys, parse).Expand(doc)
	assert.True(t, errors.Is(err, ErrIncludeParse))
	assert.True(t, errors.Is(err, parser.ErrBracket))
}

func TestCustomTag(t *testing.T) {
	fsys := fstest.MapFS{
		"a.iml": {Data: []byte("included")},
	}
	custom := parser.NewOptions("input")
	parseCustom := func(text string) (*parser.Document, error) {
		return parser.Parse(text, custom)
	}

	doc, err := parseCustom("\\input a.iml")
	assert.NoError(t, err)

	assert.NoError(t, NewExpander(fsys, parseCustom, WithTag("input")).Expand(doc))
	assert.Equal(t, L{"", "included"}, doc.AsList())
}

func TestFiles(t *testing.T) {
	doc, err := parse("\\_include a.iml\n\\section x\n    \\_include sub/../b.iml")
	assert.NoError(t, err)

	files, err := NewExpander(fstest.MapFS{}, parse).Files(doc)
	assert.NoError(t, err)
	assert.Equal(t, []string{"a.iml", "b.iml"}, files)
}
