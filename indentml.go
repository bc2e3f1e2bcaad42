// Package indentml parses an indentation-sensitive markup language into a
// tree of tagged nodes with mixed content.
//
// The parsing core lives in the parser and tokenizer packages. This package
// adds configuration files, unicode normalization and include expansion.
package indentml

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/shibukawa/indentml/include"
	"github.com/shibukawa/indentml/parser"
)

// Parse parses text with the tags and syntax of cfg. A nil cfg uses
// DefaultConfig.
func Parse(text string, cfg *Config) (*parser.Document, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	return parser.Parse(cfg.NormalizeText(text), cfg.Options())
}

// ParseFile reads and parses the file at path. When includes are enabled the
// include tags are expanded from the configured directory, or from the
// directory of path.
func ParseFile(path string, cfg *Config) (*parser.Document, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(string(data), cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Include.Enabled {
		if err := cfg.Expander(filepath.Dir(path)).Expand(doc); err != nil {
			return nil, err
		}
	}

	return doc, nil
}

// Expander returns an include expander that parses included files with the
// same configuration. dir is used when no include directory is configured.
func (c *Config) Expander(dir string) *include.Expander {
	if c.Include.Dir != "" {
		dir = c.Include.Dir
	}

	return include.NewExpander(os.DirFS(dir), func(text string) (*parser.Document, error) {
		return Parse(text, c)
	}, include.WithTag(c.Include.Tag), include.WithFollow(c.Include.Follow))
}
