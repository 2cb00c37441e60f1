// Package ui renders buildtiming results for people and for tools.
// It supports terminal (rich), text (plain), markdown, JSON and YAML output.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/buildtiming/pkg/errors"
)

// Renderer writes reports and status messages in one format
type Renderer struct {
	out    io.Writer
	format Format
}

// NewRenderer creates a new renderer based on the specified format.
// It automatically detects terminal capabilities when format is Auto.
func NewRenderer(format Format, out io.Writer) *Renderer {
	if format == FormatAuto {
		format = FormatText
		if file, ok := out.(*os.File); ok {
			format = DetectFormat(file)
		}
	}
	return &Renderer{out: out, format: format}
}

// Format returns the effective output format
func (r *Renderer) Format() Format {
	return r.format
}

// RenderReport writes rep in the renderer's format
func (r *Renderer) RenderReport(rep Report) error {
	switch r.format {
	case FormatJSON:
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, errors.ErrSerialization, "failed to encode report as JSON")
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(rep); err != nil {
			return errors.Wrap(err, errors.ErrSerialization, "failed to encode report as YAML")
		}
		return enc.Close()
	case FormatMarkdown:
		_, err := io.WriteString(r.out, Markdown(rep))
		return err
	case FormatTerminal:
		return r.renderTerminal(rep)
	default:
		_, err := io.WriteString(r.out, r.text(rep, false))
		return err
	}
}

// renderTerminal renders the markdown form through glamour, falling back
// to styled text when glamour cannot render
func (r *Renderer) renderTerminal(rep Report) error {
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
	if err == nil {
		if rendered, rerr := renderer.Render(Markdown(rep)); rerr == nil {
			_, err = io.WriteString(r.out, rendered)
			return err
		}
	}
	_, err = io.WriteString(r.out, r.text(rep, true))
	return err
}

func (r *Renderer) text(rep Report, styled bool) string {
	style := func(s string, render func(...string) string) string {
		if styled {
			return render(s)
		}
		return s
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", style("package", titleStyle.Render), rep.Package)
	fmt.Fprintf(&b, "%s %s\n\n", style("output", titleStyle.Render), style(rep.Output, pathStyle.Render))

	for _, c := range rep.Constants {
		fmt.Fprintf(&b, "%s %s = %s\n",
			style(c.Name, nameStyle.Render),
			style(c.Type, kindStyle.Render),
			c.Literal)
		if c.Template != "" {
			fmt.Fprintf(&b, "%s\n", style("    from "+c.Template, mutedStyle.Render))
		}
		if c.Description != "" {
			for _, line := range strings.Split(c.Description, "\n") {
				if styled {
					line = indentStyle.Render(mutedStyle.Render(line))
				} else {
					line = "    " + line
				}
				fmt.Fprintf(&b, "%s\n", line)
			}
		}
	}

	if len(rep.Collisions) > 0 {
		fmt.Fprintf(&b, "\n%s %s\n",
			style("replaced:", warningStyle.Render),
			strings.Join(rep.Collisions, ", "))
	}

	if len(rep.Triggers) > 0 {
		fmt.Fprintf(&b, "\n%s\n", style("triggers", titleStyle.Render))
		for _, t := range rep.Triggers {
			fmt.Fprintf(&b, "  %s\n", t)
		}
	}
	return b.String()
}

// Markdown renders rep as a markdown document
func Markdown(rep Report) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Build constants\n\n")
	fmt.Fprintf(&b, "Package `%s`, written to `%s`.\n\n", rep.Package, rep.Output)

	for _, c := range rep.Constants {
		fmt.Fprintf(&b, "## `%s`\n\n", c.Name)
		if c.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", c.Description)
		}
		fmt.Fprintf(&b, "- type: `%s`\n", c.Type)
		fmt.Fprintf(&b, "- value: `%s`\n", c.Literal)
		if c.Template != "" {
			fmt.Fprintf(&b, "- template: `%s`\n", c.Template)
		}
		b.WriteString("\n")
	}

	if len(rep.Collisions) > 0 {
		fmt.Fprintf(&b, "> Registered more than once, last registration kept: %s\n\n", strings.Join(rep.Collisions, ", "))
	}

	if len(rep.Triggers) > 0 {
		b.WriteString("## Rebuild triggers\n\n")
		for _, t := range rep.Triggers {
			fmt.Fprintf(&b, "- `%s`\n", t)
		}
	}
	return b.String()
}

// Success prints a success status line
func (r *Renderer) Success(format string, args ...interface{}) {
	r.status(pterm.Success, "ok", format, args...)
}

// Warning prints a warning status line
func (r *Renderer) Warning(format string, args ...interface{}) {
	r.status(pterm.Warning, "warning", format, args...)
}

// Info prints an informational status line
func (r *Renderer) Info(format string, args ...interface{}) {
	r.status(pterm.Info, "info", format, args...)
}

// Error prints an error status line
func (r *Renderer) Error(format string, args ...interface{}) {
	r.status(pterm.Error, "error", format, args...)
}

func (r *Renderer) status(printer pterm.PrefixPrinter, label, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if r.format != FormatTerminal {
		_, _ = fmt.Fprintf(r.out, "%s: %s\n", label, msg)
		return
	}
	printer.WithWriter(r.out).Println(msg)
}
