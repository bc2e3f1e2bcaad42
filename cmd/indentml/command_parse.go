package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/indentml"
)

// ParseCmd represents the parse command
type ParseCmd struct {
	Files  []string `arg:"" help:"Markup files to parse" type:"path"`
	Format string   `short:"f" help:"Output format (yaml, json, xml, html, list, indentml). Defaults to output.format in the configuration"`
}

// Run executes the parse command
func (cmd *ParseCmd) Run(ctx *Context) error {
	if len(cmd.Files) == 0 {
		return ErrNoInput
	}

	config, err := indentml.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	out := ctx.stdout()

	for _, file := range cmd.Files {
		if ctx.Verbose {
			color.Blue("Parsing %s", file)
		}

		doc, err := indentml.ParseFile(file, config)
		if err != nil {
			return err
		}

		rendered, err := config.Render(doc, cmd.Format)
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", file, err)
		}

		fmt.Fprint(out, rendered)
		if !strings.HasSuffix(rendered, "\n") {
			fmt.Fprintln(out)
		}
	}

	return nil
}
