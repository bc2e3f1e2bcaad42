package selector

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/indentml/parser"
	"github.com/shibukawa/indentml/testhelper"
)

func sampleDocument(t *testing.T) *parser.Document {
	t.Helper()

	src := testhelper.TrimIndent(t, `
		\section
		    \title Intro
		    \list
		        \li one
		        \li two \b{bold}
		\section
		    \title Usage
		    \li loose
	`)

	return parser.MustParse(src, parser.NewOptions("section", "title", "list", "li", "b"))
}

func names(nodes []*parser.Node) []string {
	result := make([]string, 0, len(nodes))
	for _, n := range nodes {
		result = append(result, n.Name+":"+n.DeepText())
	}
	return result
}

func TestSelect(t *testing.T) {
	doc := sampleDocument(t)

	tests := []struct {
		name     string
		path     string
		where    string
		expected []string
	}{
		{
			name:     "child path",
			path:     "section/title",
			expected: []string{"title:Intro", "title:Usage"},
		},
		{
			name:     "leading slash",
			path:     "/section/list/li",
			expected: []string{"li:one", "li:two bold"},
		},
		{
			name:     "wildcard",
			path:     "section/*/li",
			expected: []string{"li:one", "li:two bold"},
		},
		{
			name:     "descendants",
			path:     "**/li",
			expected: []string{"li:one", "li:two bold", "li:loose"},
		},
		{
			name:     "descendants listed once",
			path:     "**/**/b",
			expected: []string{"b:bold"},
		},
		{
			name:     "no match",
			path:     "list",
			expected: []string{},
		},
		{
			name:     "where on value",
			path:     "**/li",
			where:    `simple && value.startsWith("o")`,
			expected: []string{"li:one"},
		},
		{
			name:     "where on children and depth",
			path:     "**",
			where:    `"li" in children && depth == 1`,
			expected: []string{"section:Usageloose"},
		},
		{
			name:     "where on text",
			path:     "**/title",
			where:    `text.contains("Us")`,
			expected: []string{"title:Usage"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Compile(tt.path, tt.where)
			assert.NoError(t, err)

			nodes, err := s.Select(&doc.Node)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, names(nodes))
		})
	}
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		where string
		err   error
	}{
		{name: "empty path", path: "", err: ErrInvalidPath},
		{name: "double slash", path: "a//b", err: ErrInvalidPath},
		{name: "trailing slash", path: "a/", err: ErrInvalidPath},
		{name: "space in path", path: "a b", err: ErrInvalidPath},
		{name: "star in name", path: "a*", err: ErrInvalidPath},
		{name: "syntax error", path: "a", where: "name ==", err: ErrInvalidWhere},
		{name: "unknown variable", path: "a", where: "color == 'red'", err: ErrInvalidWhere},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.path, tt.where)
			assert.IsError(t, err, tt.err)
		})
	}
}

func TestWhereNotBool(t *testing.T) {
	doc := sampleDocument(t)

	s := MustCompile("**/title", "name")
	_, err := s.Select(&doc.Node)
	assert.IsError(t, err, ErrWhereNotBool)
}

func TestMustCompilePanics(t *testing.T) {
	assert.Panics(t, func() {
		MustCompile("a//", "")
	})
}
