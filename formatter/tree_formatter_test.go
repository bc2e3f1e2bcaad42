package formatter

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"gopkg.in/yaml.v3"

	"github.com/shibukawa/indentml/parser"
)

func TestTreeFormatter_List(t *testing.T) {
	doc := parser.MustParse("\\b{x} y\n", parser.NewOptions("b"))
	f := NewTreeFormatter(2)

	out, err := f.List(doc)
	assert.NoError(t, err)
	assert.Equal(t, "[\"\",[\"b\",\"x\"],\" y\"]\n", out)

	out, err = f.JSON(doc)
	assert.NoError(t, err)
	assert.Equal(t, "[\n  \"\",\n  [\n    \"b\",\n    \"x\"\n  ],\n  \" y\"\n]\n", out)
}

func TestTreeFormatter_YAML(t *testing.T) {
	doc := parser.MustParse("true\n\\b x\n    y\n\\e\n", parser.NewOptions("b", "e"))

	out, err := NewTreeFormatter(2).YAML(doc)
	assert.NoError(t, err)

	var decoded []any
	assert.NoError(t, yaml.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, []any{
		"true",
		map[string]any{"b": []any{"x\ny"}},
		map[string]any{"e": []any{}},
	}, decoded)
}
