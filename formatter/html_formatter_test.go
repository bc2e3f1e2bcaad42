package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/shibukawa/indentml/parser"
)

func TestHTMLFormatter_Format(t *testing.T) {
	opts := parser.NewOptions("em", "sec", "row", "link")

	tests := []struct {
		name     string
		input    string
		options  []HTMLOption
		expected string
	}{
		{
			name:     "fallback div and escaping",
			input:    "a < b \\em{x}\n\\sec body\n",
			options:  []HTMLOption{WithElements(map[string]string{"em": "em"})},
			expected: `a &lt; b <em>x</em><div class="sec">body</div>`,
		},
		{
			name:     "items become list items",
			input:    "\\row a|b\n",
			options:  []HTMLOption{WithElements(map[string]string{"row": "ul"})},
			expected: "<ul><li>a</li><li>b</li></ul>",
		},
		{
			name:  "handler",
			input: "see \\link{docs \\em{now}}\n",
			options: []HTMLOption{
				WithElements(map[string]string{"em": "strong"}),
				WithHandler("link", func(f *HTMLFormatter, n *parser.Node) (string, error) {
					inner, err := f.Content(n.Content)
					if err != nil {
						return "", err
					}
					return `<a href="#">` + inner + "</a>", nil
				}),
			},
			expected: `see <a href="#">docs <strong>now</strong></a>`,
		},
		{
			name:     "markdown text",
			input:    "Some *text*\n",
			options:  []HTMLOption{WithMarkdown()},
			expected: "<p>Some <em>text</em></p>\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parser.Parse(tt.input, opts)
			assert.NoError(t, err)

			out, err := NewHTMLFormatter(tt.options...).Format(doc)
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestHTMLFormatter_UsesTags(t *testing.T) {
	f := NewHTMLFormatter(
		WithElements(map[string]string{"em": "em", "b": "strong"}),
		WithHandler("link", func(*HTMLFormatter, *parser.Node) (string, error) { return "", nil }),
	)
	assert.Equal(t, []string{"b", "em", "link"}, f.UsesTags())
}
