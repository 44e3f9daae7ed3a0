package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/KaramelBytes/nutriscan-cli/internal/utils"
	"gopkg.in/yaml.v3"
)

// Format names an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatYAML     Format = "yaml"
	FormatJSON     Format = "json"
)

// ParseFormat accepts a format name; "md" and "yml" are aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text", "txt":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "json":
		return FormatJSON, nil
	}
	return "", fmt.Errorf("unsupported format %q (use text, markdown, yaml or json)", s)
}

// Options control rendering.
type Options struct {
	Format Format
	// Color styles the text format when the writer is a terminal.
	Color bool
}

// Render writes doc to w in the requested format.
func Render(w io.Writer, doc Document, opt Options) error {
	switch opt.Format {
	case "", FormatText:
		return writeText(w, doc, opt.Color)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(doc))
		return err
	case FormatYAML:
		b, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		_, err = w.Write(b)
		return err
	case FormatJSON:
		b, err := utils.PrettyJSON(doc)
		if err != nil {
			return err
		}
		_, err = w.Write(append(b, '\n'))
		return err
	}
	return fmt.Errorf("unsupported format %q", opt.Format)
}

// formatPercent renders a percent with one decimal, or n/a when undefined.
func formatPercent(p *float64) string {
	if p == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", *p)
}
