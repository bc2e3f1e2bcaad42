package indentml

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"golang.org/x/text/unicode/norm"

	"github.com/shibukawa/indentml/parser"
	"github.com/shibukawa/indentml/tokenizer"
)

// Config represents the indentml.yaml configuration
type Config struct {
	Syntax         SyntaxConfig      `yaml:"syntax"`
	BlockTags      []string          `yaml:"block_tags"`
	InlineTags     []string          `yaml:"inline_tags"`
	Aliases        map[string]string `yaml:"aliases"`
	MaxInlineDepth int               `yaml:"max_inline_depth"`
	Normalize      string            `yaml:"normalize"`
	Include        IncludeConfig     `yaml:"include"`
	Output         OutputConfig      `yaml:"output"`
}

// SyntaxConfig holds the special characters. Curly and Square are given as
// an open/close pair such as "{}".
type SyntaxConfig struct {
	TagBegin  string `yaml:"tag_begin"`
	Separator string `yaml:"separator"`
	Curly     string `yaml:"curly"`
	Square    string `yaml:"square"`
}

// IncludeConfig controls expansion of include tags
type IncludeConfig struct {
	Enabled bool   `yaml:"enabled"`
	Tag     string `yaml:"tag"`
	Dir     string `yaml:"dir"`
	Follow  bool   `yaml:"follow"`
}

// OutputConfig controls the default rendering of the command line tool
type OutputConfig struct {
	Format   string            `yaml:"format"`
	XMLRoot  string            `yaml:"xml_root"`
	Indent   int               `yaml:"indent"`
	Markdown bool              `yaml:"markdown"`
	HTMLTags map[string]string `yaml:"html_tags"`
}

// Output formats
const (
	FormatYAML     = "yaml"
	FormatJSON     = "json"
	FormatXML      = "xml"
	FormatHTML     = "html"
	FormatList     = "list"
	FormatIndentML = "indentml"
)

var outputFormats = []string{FormatYAML, FormatJSON, FormatXML, FormatHTML, FormatList, FormatIndentML}

// DefaultIncludeTag is the tag replaced by the content of an included file
const DefaultIncludeTag = "_include"

// LoadConfig loads configuration from the specified file. A missing file
// yields the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	// Load .env files first
	err := loadEnvFiles()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment files: %w", err)
	}

	_, err = os.Stat(configPath)
	if os.IsNotExist(err) {
		config := DefaultConfig()
		expandConfigEnvVars(config)

		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return ParseConfig(data)
}

// ParseConfig decodes, validates and completes a configuration document.
// Unknown fields are rejected.
func ParseConfig(data []byte) (*Config, error) {
	var config Config

	err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	expandConfigEnvVars(&config)
	applyDefaults(&config)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns the configuration used when no file exists
func DefaultConfig() *Config {
	config := &Config{}
	applyDefaults(config)

	return config
}

func applyDefaults(config *Config) {
	def := tokenizer.DefaultSyntax()

	if config.Syntax.TagBegin == "" {
		config.Syntax.TagBegin = string(def.TagBegin)
	}
	if config.Syntax.Separator == "" {
		config.Syntax.Separator = string(def.Separator)
	}
	if config.Syntax.Curly == "" {
		config.Syntax.Curly = string([]rune{def.CurlyOpen, def.CurlyClose})
	}
	if config.Syntax.Square == "" {
		config.Syntax.Square = string([]rune{def.SquareOpen, def.SquareClose})
	}

	// Without an explicit list every block tag may be used inline.
	if config.InlineTags == nil {
		config.InlineTags = slices.Clone(config.BlockTags)
	}

	if config.MaxInlineDepth == 0 {
		config.MaxInlineDepth = parser.DefaultMaxInlineDepth
	}

	if config.Include.Tag == "" {
		config.Include.Tag = DefaultIncludeTag
	}
	if config.Include.Enabled && !slices.Contains(config.BlockTags, config.Include.Tag) {
		config.BlockTags = append(config.BlockTags, config.Include.Tag)
	}

	if config.Output.Format == "" {
		config.Output.Format = FormatYAML
	}
	if config.Output.XMLRoot == "" {
		config.Output.XMLRoot = "document"
	}
	if config.Output.Indent == 0 {
		config.Output.Indent = 2
	}
}

// validateConfig validates the configuration for common errors and inconsistencies
func validateConfig(config *Config) error {
	if _, err := config.syntax(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	if config.MaxInlineDepth < 0 {
		return fmt.Errorf("%w: max_inline_depth must not be negative, got %d", ErrConfigValidation, config.MaxInlineDepth)
	}

	switch config.Normalize {
	case "", "nfc", "nfd":
	default:
		return fmt.Errorf("%w: %w '%s': must be nfc or nfd", ErrConfigValidation, ErrUnknownNormalization, config.Normalize)
	}

	if !slices.Contains(outputFormats, config.Output.Format) {
		return fmt.Errorf("%w: %w '%s'", ErrConfigValidation, ErrUnknownOutputFormat, config.Output.Format)
	}

	if config.Output.Indent < 0 {
		return fmt.Errorf("%w: output indent must not be negative", ErrConfigValidation)
	}

	if err := config.Options().Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfigValidation, err)
	}

	return nil
}

func singleRune(field, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("syntax.%s must be a single character, got '%s'", field, s)
	}
	r, _ := utf8.DecodeRuneInString(s)

	return r, nil
}

func runePair(field, s string) (rune, rune, error) {
	runes := []rune(s)
	if len(runes) != 2 {
		return 0, 0, fmt.Errorf("syntax.%s must be an open/close pair, got '%s'", field, s)
	}

	return runes[0], runes[1], nil
}

func (c *Config) syntax() (tokenizer.Syntax, error) {
	var (
		s   tokenizer.Syntax
		err error
	)

	if s.TagBegin, err = singleRune("tag_begin", c.Syntax.TagBegin); err != nil {
		return s, err
	}
	if s.Separator, err = singleRune("separator", c.Syntax.Separator); err != nil {
		return s, err
	}
	if s.CurlyOpen, s.CurlyClose, err = runePair("curly", c.Syntax.Curly); err != nil {
		return s, err
	}
	if s.SquareOpen, s.SquareClose, err = runePair("square", c.Syntax.Square); err != nil {
		return s, err
	}

	return s, s.Validate()
}

// Options builds parser options from the configuration. The configuration
// must have been validated.
func (c *Config) Options() parser.Options {
	opts := parser.NewOptions(c.BlockTags...).WithInlineTags(c.InlineTags...)
	opts.Aliases = c.Aliases
	opts.MaxInlineDepth = c.MaxInlineDepth

	if s, err := c.syntax(); err == nil {
		opts.Syntax = s
	}

	return opts
}

// NormalizeText applies the configured unicode normalization.
func (c *Config) NormalizeText(text string) string {
	switch c.Normalize {
	case "nfc":
		return norm.NFC.String(text)
	case "nfd":
		return norm.NFD.String(text)
	default:
		return text
	}
}

// loadEnvFiles loads .env and .env.local from the current directory
func loadEnvFiles() error {
	for _, name := range []string{".env", ".env.local"} {
		if !fileExists(name) {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			return fmt.Errorf("failed to load %s file: %w", name, err)
		}
	}

	return nil
}

var (
	bracedEnvVar = regexp.MustCompile(`\$\{([^}]+)\}`)
	bareEnvVar   = regexp.MustCompile(`\$([A-Za-z_][A-Za-z0-9_]*)`)
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(s string) string {
	s = bracedEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[2 : len(match)-1])
	})

	return bareEnvVar.ReplaceAllStringFunc(s, func(match string) string {
		return os.Getenv(match[1:])
	})
}

// expandConfigEnvVars expands environment variables in path-like fields
func expandConfigEnvVars(config *Config) {
	config.Include.Dir = expandEnvVars(config.Include.Dir)
	config.Output.XMLRoot = expandEnvVars(config.Output.XMLRoot)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
