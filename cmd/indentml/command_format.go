package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"

	"github.com/shibukawa/indentml"
	"github.com/shibukawa/indentml/formatter"
)

// FormatCmd represents the format command
type FormatCmd struct {
	Input string `arg:"" optional:"" help:"Input file (default: stdin)"`
	Write bool   `short:"w" help:"Write result to input file instead of stdout"`
	Check bool   `short:"c" help:"Check if the file is formatted (exit 1 if not)"`
	Diff  bool   `short:"d" help:"Show diff instead of rewriting the file"`
}

// Run executes the format command
func (cmd *FormatCmd) Run(ctx *Context) error {
	config, err := indentml.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	name := cmd.Input
	var input []byte

	if name == "" {
		name = "<stdin>"

		input, err = io.ReadAll(ctx.stdin())
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}
	} else {
		input, err = os.ReadFile(name)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", name, err)
		}
	}

	doc, err := indentml.Parse(string(input), config)
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}

	formatted, err := formatter.NewIndentMLFormatter(config.Options()).Format(doc)
	if err != nil {
		return fmt.Errorf("failed to format %s: %w", name, err)
	}

	original := string(input)

	switch {
	case cmd.Check:
		if original != formatted {
			if !ctx.Quiet {
				color.Yellow("%s is not formatted", name)
			}
			return fmt.Errorf("%w: %s", ErrFileNotFormatted, name)
		}
		return nil

	case cmd.Diff:
		if original == formatted {
			return nil
		}
		edits := myers.ComputeEdits(span.URIFromPath(name), original, formatted)
		fmt.Fprint(ctx.stdout(), gotextdiff.ToUnified(name+" (original)", name+" (formatted)", original, edits))
		return nil

	case cmd.Write && cmd.Input != "":
		if original == formatted {
			return nil
		}
		if err := writeFileAtomic(cmd.Input, formatted); err != nil {
			return err
		}
		if ctx.Verbose {
			color.Green("Formatted: %s", cmd.Input)
		}
		return nil
	}

	_, err = io.WriteString(ctx.stdout(), formatted)

	return err
}

// writeFileAtomic replaces filename through a temporary file in the same
// directory, keeping the original permissions.
func writeFileAtomic(filename, content string) error {
	info, err := os.Stat(filename)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", filename, err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(filename), ".indentml-format-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempName := tempFile.Name()

	_, err = tempFile.WriteString(content)
	if closeErr := tempFile.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tempName, info.Mode().Perm())
	}
	if err == nil {
		err = os.Rename(tempName, filename)
	}
	if err != nil {
		os.Remove(tempName)
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}

	return nil
}

// Help returns help text for the format command
func (cmd *FormatCmd) Help() string {
	return `Rewrite a markup file in canonical form.

Block tags are written on their own lines with four space indentation.
Inline tags use curly brackets, or square brackets for separator lists.
Characters with a special meaning are escaped. The result always parses
back to the same tree.

Examples:
  # Format a file and print to stdout
  indentml format notes.iml

  # Format a file in place
  indentml format -w notes.iml

  # Check if a file is formatted
  indentml format -c notes.iml

  # Show diff of what would be changed
  indentml format -d notes.iml

  # Format from stdin
  cat notes.iml | indentml format`
}
