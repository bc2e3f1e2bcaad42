package indentml

import (
	"fmt"

	"github.com/shibukawa/indentml/formatter"
	"github.com/shibukawa/indentml/parser"
)

// Render writes doc in the given output format. An empty format uses
// output.format of the configuration.
func (c *Config) Render(doc *parser.Document, format string) (string, error) {
	if format == "" {
		format = c.Output.Format
	}

	switch format {
	case FormatYAML:
		return formatter.NewTreeFormatter(c.Output.Indent).YAML(doc)
	case FormatJSON:
		return formatter.NewTreeFormatter(c.Output.Indent).JSON(doc)
	case FormatList:
		return formatter.NewTreeFormatter(c.Output.Indent).List(doc)
	case FormatXML:
		var options []formatter.XMLOption
		if c.Output.Indent > 0 {
			options = append(options, formatter.WithXMLIndent(c.Output.Indent))
		}
		return formatter.NewXMLFormatter(c.Output.XMLRoot, options...).Format(doc)
	case FormatHTML:
		options := []formatter.HTMLOption{formatter.WithElements(c.Output.HTMLTags)}
		if c.Output.Markdown {
			options = append(options, formatter.WithMarkdown())
		}
		return formatter.NewHTMLFormatter(options...).Format(doc)
	case FormatIndentML:
		return formatter.NewIndentMLFormatter(c.Options()).Format(doc)
	default:
		return "", fmt.Errorf("%w '%s'", ErrUnknownOutputFormat, format)
	}
}
