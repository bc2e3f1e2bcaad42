package parser

import (
	"fmt"
	"slices"

	"github.com/shibukawa/indentml/tokenizer"
)

// DefaultMaxInlineDepth limits nesting of inline tags when Options does not
// set a limit.
const DefaultMaxInlineDepth = 64

// TagSet is a set of tag names
type TagSet map[string]struct{}

// NewTagSet creates a TagSet from names
func NewTagSet(names ...string) TagSet {
	s := make(TagSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set
func (s TagSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the names in sorted order
func (s TagSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// Options controls which tags are recognized and how the markup is spelled.
// It is never modified by Parse, so one value can be shared between
// goroutines.
type Options struct {
	Syntax     tokenizer.Syntax
	BlockTags  TagSet
	InlineTags TagSet
	// Aliases maps an alternative spelling to a canonical tag name. The
	// lookup happens before the allowed-set check.
	Aliases        map[string]string
	MaxInlineDepth int
}

// DefaultOptions returns options with the default syntax and no tags.
func DefaultOptions() Options {
	return Options{
		Syntax:         tokenizer.DefaultSyntax(),
		BlockTags:      TagSet{},
		InlineTags:     TagSet{},
		MaxInlineDepth: DefaultMaxInlineDepth,
	}
}

// NewOptions returns default options allowing tags both as block and as
// inline tags.
func NewOptions(tags ...string) Options {
	o := DefaultOptions()
	o.BlockTags = NewTagSet(tags...)
	o.InlineTags = NewTagSet(tags...)
	return o
}

// WithInlineTags returns a copy whose inline tags are replaced by tags.
func (o Options) WithInlineTags(tags ...string) Options {
	o.InlineTags = NewTagSet(tags...)
	return o
}

// WithAliases returns a copy using aliases.
func (o Options) WithAliases(aliases map[string]string) Options {
	o.Aliases = aliases
	return o
}

// withDefaults fills the zero syntax and depth.
func (o Options) withDefaults() Options {
	if o.Syntax.IsZero() {
		o.Syntax = tokenizer.DefaultSyntax()
	}
	if o.MaxInlineDepth <= 0 {
		o.MaxInlineDepth = DefaultMaxInlineDepth
	}
	return o
}

// Validate checks the syntax and every configured name. A name that could not
// be written in the markup is a TagNameError.
func (o Options) Validate() error {
	o = o.withDefaults()

	if err := o.Syntax.Validate(); err != nil {
		return fmt.Errorf("invalid syntax: %w", err)
	}

	check := func(kind, name string) error {
		if !o.Syntax.IsValidName(name) {
			return &ParseError{Kind: TagNameError, Message: fmt.Sprintf("invalid %s name %q", kind, name)}
		}
		return nil
	}

	for _, name := range o.BlockTags.Names() {
		if err := check("block tag", name); err != nil {
			return err
		}
	}
	for _, name := range o.InlineTags.Names() {
		if err := check("inline tag", name); err != nil {
			return err
		}
	}

	aliases := make([]string, 0, len(o.Aliases))
	for alias := range o.Aliases {
		aliases = append(aliases, alias)
	}
	slices.Sort(aliases)

	for _, alias := range aliases {
		if err := check("alias", alias); err != nil {
			return err
		}
		if err := check("alias target", o.Aliases[alias]); err != nil {
			return err
		}
	}

	return nil
}

// Canonical resolves an alias to its tag name.
func (o Options) Canonical(name string) string {
	if target, ok := o.Aliases[name]; ok {
		return target
	}
	return name
}

// IsBlock reports whether name (after alias resolution) is a block tag.
func (o Options) IsBlock(name string) bool {
	return o.BlockTags.Has(o.Canonical(name))
}

// IsInline reports whether name (after alias resolution) is an inline tag.
func (o Options) IsInline(name string) bool {
	return o.InlineTags.Has(o.Canonical(name))
}
