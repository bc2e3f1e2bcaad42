package indentml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/indentml/parser"
	"github.com/shibukawa/indentml/tokenizer"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, `\`, config.Syntax.TagBegin)
	assert.Equal(t, "|", config.Syntax.Separator)
	assert.Equal(t, "{}", config.Syntax.Curly)
	assert.Equal(t, "[]", config.Syntax.Square)
	assert.Equal(t, parser.DefaultMaxInlineDepth, config.MaxInlineDepth)
	assert.Equal(t, DefaultIncludeTag, config.Include.Tag)
	assert.Equal(t, FormatYAML, config.Output.Format)
	assert.Equal(t, "document", config.Output.XMLRoot)
	assert.Equal(t, 2, config.Output.Indent)
	assert.NoError(t, validateConfig(config))
}

func TestParseConfig(t *testing.T) {
	config, err := ParseConfig([]byte(`
syntax:
  tag_begin: "@"
  separator: ";"
  curly: "()"
  square: "<>"
block_tags: [h1, equation, label]
inline_tags: [ref]
aliases:
  eq: equation
max_inline_depth: 8
normalize: nfc
include:
  enabled: true
  dir: includes
  follow: true
output:
  format: xml
  xml_root: article
  indent: 4
  markdown: true
  html_tags:
    h1: h1
`))
	assert.NoError(t, err)

	assert.Equal(t, []string{"h1", "equation", "label", "_include"}, config.BlockTags)
	assert.Equal(t, []string{"ref"}, config.InlineTags)
	assert.Equal(t, "article", config.Output.XMLRoot)
	assert.True(t, config.Output.Markdown)
	assert.Equal(t, "h1", config.Output.HTMLTags["h1"])

	opts := config.Options()
	assert.Equal(t, tokenizer.Syntax{
		TagBegin:    '@',
		Separator:   ';',
		CurlyOpen:   '(',
		CurlyClose:  ')',
		SquareOpen:  '<',
		SquareClose: '>',
	}, opts.Syntax)
	assert.True(t, opts.IsBlock("eq"))
	assert.True(t, opts.IsInline("ref"))
	assert.False(t, opts.IsInline("h1"))
	assert.Equal(t, 8, opts.MaxInlineDepth)
}

func TestInlineTagsDefaultToBlockTags(t *testing.T) {
	config, err := ParseConfig([]byte("block_tags: [a, b]\n"))
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, config.InlineTags)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		err  error
	}{
		{name: "unknown field", yaml: "unknown: 1\n"},
		{name: "multi character tag begin", yaml: "syntax:\n  tag_begin: ab\n", err: ErrConfigValidation},
		{name: "curly is not a pair", yaml: "syntax:\n  curly: \"{\"\n", err: ErrConfigValidation},
		{name: "duplicate special characters", yaml: "syntax:\n  separator: \"{\"\n", err: tokenizer.ErrDuplicateSpecialChar},
		{name: "bad normalization", yaml: "normalize: nfkc\n", err: ErrUnknownNormalization},
		{name: "bad format", yaml: "output:\n  format: pdf\n", err: ErrUnknownOutputFormat},
		{name: "negative depth", yaml: "max_inline_depth: -1\n", err: ErrConfigValidation},
		{name: "bad tag name", yaml: "block_tags: [\"a b\"]\n", err: parser.ErrTagName},
		{name: "bad alias", yaml: "aliases:\n  \"x|\": y\n", err: parser.ErrTagName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.yaml))
			assert.Error(t, err)
			if tt.err != nil {
				assert.True(t, errors.Is(err, tt.err), "got %v", err)
			}
		})
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("missing file gives defaults", func(t *testing.T) {
		config, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
		assert.NoError(t, err)
		assert.Equal(t, DefaultConfig(), config)
	})

	t.Run("environment expansion", func(t *testing.T) {
		t.Setenv("INDENTML_TEST_DIR", "shared")

		path := filepath.Join(dir, "indentml.yaml")
		err := os.WriteFile(path, []byte("include:\n  dir: ${INDENTML_TEST_DIR}/parts\n"), 0o644)
		assert.NoError(t, err)

		config, err := LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, "shared/parts", config.Include.Dir)
	})

	t.Run("dotenv file", func(t *testing.T) {
		t.Setenv("INDENTML_ROOT", "")
		os.Unsetenv("INDENTML_ROOT")

		err := os.WriteFile(filepath.Join(dir, ".env"), []byte("INDENTML_ROOT=fromdotenv\n"), 0o644)
		assert.NoError(t, err)

		path := filepath.Join(dir, "root.yaml")
		err = os.WriteFile(path, []byte("output:\n  xml_root: $INDENTML_ROOT\n"), 0o644)
		assert.NoError(t, err)

		config, err := LoadConfig(path)
		assert.NoError(t, err)
		assert.Equal(t, "fromdotenv", config.Output.XMLRoot)
	})
}

func TestNormalizeText(t *testing.T) {
	decomposed := "e\u0301"
	composed := "\u00e9"

	assert.Equal(t, composed, (&Config{Normalize: "nfc"}).NormalizeText(decomposed))
	assert.Equal(t, decomposed, (&Config{Normalize: "nfd"}).NormalizeText(composed))
	assert.Equal(t, decomposed, (&Config{}).NormalizeText(decomposed))
}
