package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// rendererKey is used to store the renderer in context.
type rendererKey struct{}

// RendererKey returns the context key used for storing the renderer built
// by the root command.
func RendererKey() any {
	return rendererKey{}
}

// GetRenderer retrieves the renderer from ctx, or nil when none is stored.
func GetRenderer(ctx context.Context) *Renderer {
	if ctx != nil {
		if r, ok := ctx.Value(rendererKey{}).(*Renderer); ok {
			return r
		}
	}
	return nil
}

// Renderer writes command output in the selected mode.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	tty    bool
	styles *Styles
}

// NewRenderer creates a renderer writing results to out and diagnostics to
// errOut.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	return NewRendererWithTTY(out, errOut, isTerminal(out), mode)
}

// NewRendererWithTTY creates a renderer with an explicit terminal state.
func NewRendererWithTTY(out, errOut io.Writer, tty bool, mode Mode) *Renderer {
	if mode == "" {
		mode = ModeAuto
	}
	return &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		tty:    tty,
		styles: newStyles(out, tty && mode != ModeMarkdown && mode != ModeJSON),
	}
}

// EffectiveMode resolves ModeAuto against the output device.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.tty {
		return ModeText
	}
	return ModeMarkdown
}

// Println writes a line to the result writer.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted output to the result writer.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a section header.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeText {
		style := r.styles.Subtitle
		if level <= 1 {
			style = r.styles.Header
		}
		r.Println(style.Render(text))
		return
	}
	r.Println(FormatHeader(level, text))
}

// StatusLine writes one item with a status marker: "success", "warning",
// "error" or "skipped".
func (r *Renderer) StatusLine(name, status, detail string) {
	var marker string
	if r.EffectiveMode() == ModeText {
		switch status {
		case "success":
			marker = r.styles.Success.Render("✓")
		case "warning", "skipped":
			marker = r.styles.Warning.Render("!")
		case "error":
			marker = r.styles.Error.Render("✗")
		default:
			marker = r.styles.Muted.Render("·")
		}
		name = r.styles.Path.Render(name)
	} else {
		marker = "-"
	}

	if detail != "" {
		r.Printf("  %s %s %s\n", marker, name, r.styles.Muted.Render("("+detail+")"))
		return
	}
	r.Printf("  %s %s\n", marker, name)
}

// Success writes a success notice.
func (r *Renderer) Success(msg string) {
	r.Println(r.styles.Success.Render(msg))
}

// Warning writes a warning to the diagnostic writer.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("Warning: "+msg))
}

// Error writes an error to the diagnostic writer.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("Error: "+msg))
}

// Muted writes de-emphasized text.
func (r *Renderer) Muted(msg string) {
	r.Println(r.styles.Muted.Render(msg))
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Table writes rows under headers: a box table in text mode and a markdown
// table otherwise.
func (r *Renderer) Table(headers []string, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		tr := make(table.Row, len(row))
		for i, v := range row {
			tr[i] = v
		}
		t.AppendRow(tr)
	}

	if r.EffectiveMode() != ModeText {
		t.RenderMarkdown()
		return
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

// FormatHeader formats a markdown header.
func FormatHeader(level int, text string) string {
	if level < 1 {
		level = 1
	}
	return strings.Repeat("#", level) + " " + text
}
