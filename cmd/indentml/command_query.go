package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/shibukawa/indentml"
	"github.com/shibukawa/indentml/parser"
	"github.com/shibukawa/indentml/selector"
)

// QueryCmd represents the query command
type QueryCmd struct {
	File   string `arg:"" help:"Markup file to query" type:"path"`
	Path   string `short:"p" required:"" help:"Node path such as section/title or **/li"`
	Where  string `short:"w" help:"CEL predicate evaluated for each node"`
	Format string `short:"f" help:"Render each match in this output format instead of one summary line"`
}

// Run executes the query command
func (cmd *QueryCmd) Run(ctx *Context) error {
	sel, err := selector.Compile(cmd.Path, cmd.Where)
	if err != nil {
		return err
	}

	config, err := indentml.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	doc, err := indentml.ParseFile(cmd.File, config)
	if err != nil {
		return err
	}

	nodes, err := sel.Select(&doc.Node)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("%d node(s) matched %s", len(nodes), sel)
	}

	out := ctx.stdout()

	for _, n := range nodes {
		if cmd.Format == "" {
			fmt.Fprintf(out, "%s\t%s\t%s\n", n.Pos, n.Name, summary(n))
			continue
		}

		rendered, err := config.Render(&parser.Document{Node: parser.Node{Content: []parser.Content{n}}}, cmd.Format)
		if err != nil {
			return err
		}
		fmt.Fprint(out, rendered)
		if !strings.HasSuffix(rendered, "\n") {
			fmt.Fprintln(out)
		}
	}

	return nil
}

// summary is the text of n on a single line
func summary(n *parser.Node) string {
	return strings.Join(strings.Fields(n.DeepText()), " ")
}
