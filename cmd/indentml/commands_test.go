package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/indentml/selector"
)

const testConfig = `block_tags: [h1, row, section, title]
output:
  format: list
`

func setup(t *testing.T, files map[string]string) (string, *Context, *bytes.Buffer) {
	t.Helper()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "indentml.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0o644))

	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}

	var out bytes.Buffer

	return dir, &Context{Config: configPath, Quiet: true, Stdout: &out}, &out
}

func TestParseCmd(t *testing.T) {
	dir, ctx, out := setup(t, map[string]string{
		"a.iml": "\\h1 Title\n",
	})

	t.Run("configured format", func(t *testing.T) {
		out.Reset()
		cmd := &ParseCmd{Files: []string{filepath.Join(dir, "a.iml")}}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "[\"\",[\"h1\",\"Title\"]]\n", out.String())
	})

	t.Run("format flag", func(t *testing.T) {
		out.Reset()
		cmd := &ParseCmd{Files: []string{filepath.Join(dir, "a.iml")}, Format: "indentml"}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "\\h1 Title\n", out.String())
	})

	t.Run("missing file", func(t *testing.T) {
		cmd := &ParseCmd{Files: []string{filepath.Join(dir, "none.iml")}}
		require.Error(t, cmd.Run(ctx))
	})

	t.Run("no files", func(t *testing.T) {
		cmd := &ParseCmd{}
		require.ErrorIs(t, cmd.Run(ctx), ErrNoInput)
	})
}

func TestFormatCmd(t *testing.T) {
	const (
		messy     = "\\row a|b |  c\n"
		formatted = "\\row a | b | c\n"
	)

	t.Run("stdin to stdout", func(t *testing.T) {
		_, ctx, out := setup(t, nil)
		ctx.Stdin = strings.NewReader(messy)

		require.NoError(t, (&FormatCmd{}).Run(ctx))
		assert.Equal(t, formatted, out.String())
	})

	t.Run("check", func(t *testing.T) {
		dir, ctx, _ := setup(t, map[string]string{
			"messy.iml": messy,
			"clean.iml": formatted,
		})

		err := (&FormatCmd{Input: filepath.Join(dir, "messy.iml"), Check: true}).Run(ctx)
		require.ErrorIs(t, err, ErrFileNotFormatted)

		err = (&FormatCmd{Input: filepath.Join(dir, "clean.iml"), Check: true}).Run(ctx)
		require.NoError(t, err)
	})

	t.Run("write in place", func(t *testing.T) {
		dir, ctx, out := setup(t, map[string]string{"messy.iml": messy})
		path := filepath.Join(dir, "messy.iml")

		require.NoError(t, (&FormatCmd{Input: path, Write: true}).Run(ctx))
		assert.Empty(t, out.String())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, formatted, string(data))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2) // config and the formatted file
	})

	t.Run("diff", func(t *testing.T) {
		dir, ctx, out := setup(t, map[string]string{"messy.iml": messy})

		require.NoError(t, (&FormatCmd{Input: filepath.Join(dir, "messy.iml"), Diff: true}).Run(ctx))
		assert.Contains(t, out.String(), "-\\row a|b |  c")
		assert.Contains(t, out.String(), "+\\row a | b | c")
	})

	t.Run("parse error", func(t *testing.T) {
		_, ctx, _ := setup(t, nil)
		ctx.Stdin = strings.NewReader("\\row\n\tbody\n")

		require.Error(t, (&FormatCmd{}).Run(ctx))
	})
}

func TestValidateCmd(t *testing.T) {
	dir, ctx, out := setup(t, map[string]string{
		"good.iml": "\\section\n    \\title Intro\n",
		"bad.iml":  "\\section\n\tbody\n",
	})
	ctx.Quiet = false

	t.Run("all valid", func(t *testing.T) {
		out.Reset()
		cmd := &ValidateCmd{Files: []string{filepath.Join(dir, "good.iml")}, Parallel: 2}
		require.NoError(t, cmd.Run(ctx))
		assert.Contains(t, out.String(), "1 file(s)")
	})

	t.Run("reports failures", func(t *testing.T) {
		out.Reset()
		cmd := &ValidateCmd{Files: []string{
			filepath.Join(dir, "good.iml"),
			filepath.Join(dir, "bad.iml"),
		}}
		err := cmd.Run(ctx)
		require.ErrorIs(t, err, ErrValidationFailed)
		assert.Contains(t, err.Error(), "1 of 2")
		assert.Contains(t, out.String(), "bad.iml")
		assert.NotContains(t, out.String(), "good.iml")
	})
}

func TestQueryCmd(t *testing.T) {
	dir, ctx, out := setup(t, map[string]string{
		"doc.iml": "\\section\n    \\title Intro\n\\section\n    \\title Usage\n",
	})
	file := filepath.Join(dir, "doc.iml")

	t.Run("summary lines", func(t *testing.T) {
		out.Reset()
		cmd := &QueryCmd{File: file, Path: "**/title"}
		require.NoError(t, cmd.Run(ctx))

		lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasSuffix(lines[0], "\ttitle\tIntro"))
		assert.True(t, strings.HasSuffix(lines[1], "\ttitle\tUsage"))
	})

	t.Run("where and format", func(t *testing.T) {
		out.Reset()
		cmd := &QueryCmd{File: file, Path: "section/title", Where: `text == "Usage"`, Format: "list"}
		require.NoError(t, cmd.Run(ctx))
		assert.Equal(t, "[\"\",[\"title\",\"Usage\"]]\n", out.String())
	})

	t.Run("invalid path", func(t *testing.T) {
		cmd := &QueryCmd{File: file, Path: "a//b"}
		require.ErrorIs(t, cmd.Run(ctx), selector.ErrInvalidPath)
	})
}

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&VersionCmd{}).Run(&Context{Stdout: &out}))
	assert.Contains(t, out.String(), "indentml")
}
