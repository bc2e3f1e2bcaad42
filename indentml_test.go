package indentml

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/indentml/include"
	"github.com/shibukawa/indentml/parser"
)

func TestParse(t *testing.T) {
	config, err := ParseConfig([]byte("block_tags: [h1]\ninline_tags: [b]\nnormalize: nfc\n"))
	assert.NoError(t, err)

	doc, err := Parse("\\h1 Cafe\u0301\nsome \\b{bold} text", config)
	assert.NoError(t, err)
	assert.Equal(t, []any{"", []any{"h1", "Caf\u00e9"}, "some ", []any{"b", "bold"}, " text"}, doc.AsList())
}

func TestParseNilConfig(t *testing.T) {
	doc, err := Parse("\\x plain", nil)
	assert.NoError(t, err)
	assert.Equal(t, []any{"", `\x plain`}, doc.AsList())
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		assert.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	main := write("main.iml", "\\section Intro\n\\_include parts/body.iml\n")
	write("parts/body.iml", "\\section Body\n\\_include more.iml\n")
	write("parts/more.iml", "\\section More\n")

	t.Run("without includes", func(t *testing.T) {
		config, err := ParseConfig([]byte("block_tags: [section]\n"))
		assert.NoError(t, err)

		doc, err := ParseFile(main, config)
		assert.NoError(t, err)
		assert.Equal(t, []any{"", []any{"section", "Intro"}, `\_include parts/body.iml`}, doc.AsList())
	})

	t.Run("with includes", func(t *testing.T) {
		config, err := ParseConfig([]byte("block_tags: [section]\ninclude:\n  enabled: true\n  follow: true\n"))
		assert.NoError(t, err)

		doc, err := ParseFile(main, config)
		assert.NoError(t, err)
		assert.Equal(t, []any{"",
			[]any{"section", "Intro"},
			[]any{"section", "Body"},
			[]any{"section", "More"},
		}, doc.AsList())
	})

	t.Run("missing include", func(t *testing.T) {
		bad := write("bad.iml", "\\_include nowhere.iml\n")

		config, err := ParseConfig([]byte("include:\n  enabled: true\n"))
		assert.NoError(t, err)

		_, err = ParseFile(bad, config)
		assert.True(t, errors.Is(err, include.ErrIncludeRead))
	})

	t.Run("parse error", func(t *testing.T) {
		bad := write("tab.iml", "x\n\ty\n")

		_, err := ParseFile(bad, nil)
		assert.True(t, errors.Is(err, parser.ErrIndent))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ParseFile(filepath.Join(dir, "none.iml"), nil)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})
}
