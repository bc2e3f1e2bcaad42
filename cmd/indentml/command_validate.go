package main

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/fatih/color"
	"golang.org/x/sync/errgroup"

	"github.com/shibukawa/indentml"
	"github.com/shibukawa/indentml/parser"
)

// ValidateCmd represents the validate command
type ValidateCmd struct {
	Files    []string `arg:"" help:"Markup files to validate" type:"path"`
	Parallel int      `help:"Number of parallel workers" default:"0"` // 0 means use CPU count
}

// Run executes the validate command
func (cmd *ValidateCmd) Run(ctx *Context) error {
	if len(cmd.Files) == 0 {
		return ErrNoInput
	}

	config, err := indentml.LoadConfig(ctx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	parallel := cmd.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	if ctx.Verbose {
		color.Blue("Validating %d file(s) with %d worker(s)", len(cmd.Files), parallel)
	}

	results := make([]error, len(cmd.Files))

	var g errgroup.Group
	g.SetLimit(parallel)

	// Workers record failures in results and never fail the group.
	for i, file := range cmd.Files {
		g.Go(func() error {
			_, results[i] = indentml.ParseFile(file, config)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := ctx.stdout()
	failed := 0

	for i, file := range cmd.Files {
		err := results[i]
		if err == nil {
			if ctx.Verbose {
				fmt.Fprintf(out, "%s: %s\n", color.GreenString("ok"), file)
			}
			continue
		}

		failed++

		if ctx.Quiet {
			continue
		}

		message := err.Error()
		var pe *parser.ParseError
		if errors.As(err, &pe) {
			message = pe.DetailedError()
		}
		fmt.Fprintf(out, "%s: %s\n%s\n", color.RedString("error"), file, message)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d file(s)", ErrValidationFailed, failed, len(cmd.Files))
	}

	if !ctx.Quiet {
		fmt.Fprintf(out, "%s %d file(s)\n", color.GreenString("Validated"), len(cmd.Files))
	}

	return nil
}
