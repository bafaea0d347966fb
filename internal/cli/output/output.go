// Package output renders command results for terminals, pipes and scripts.
//
// A Renderer picks its effective mode from the requested one: "auto" becomes
// styled text on a terminal and Markdown when piped. JSON is always
// explicit.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Mode selects the output format.
type Mode string

// Output modes.
const (
	ModeAuto     Mode = "auto"
	ModeText     Mode = "text"
	ModeMarkdown Mode = "markdown"
	ModeJSON     Mode = "json"
)

// Modes lists every accepted mode, for flag completion and validation.
var Modes = []string{string(ModeAuto), string(ModeText), string(ModeMarkdown), string(ModeJSON)}

// Renderer writes results to an output and an error stream.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	mode   Mode
	tty    bool
	styles *Styles
	title  cases.Caser
}

// NewRenderer creates a renderer. An empty or unknown mode means auto.
func NewRenderer(out, errOut io.Writer, mode Mode) *Renderer {
	switch mode {
	case ModeText, ModeMarkdown, ModeJSON:
	default:
		mode = ModeAuto
	}

	r := &Renderer{
		out:    out,
		errOut: errOut,
		mode:   mode,
		tty:    isTerminal(out),
		title:  cases.Title(language.English),
	}

	lr := lipgloss.NewRenderer(out)
	if !r.tty {
		lr.SetColorProfile(termenv.Ascii)
	}
	r.styles = NewStyles(lr)
	return r
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}

// IsTTY reports whether the output stream is a terminal.
func (r *Renderer) IsTTY() bool {
	return r.tty
}

// Mode returns the requested mode.
func (r *Renderer) Mode() Mode {
	return r.mode
}

// EffectiveMode resolves auto to text or markdown.
func (r *Renderer) EffectiveMode() Mode {
	if r.mode != ModeAuto {
		return r.mode
	}
	if r.tty {
		return ModeText
	}
	return ModeMarkdown
}

// Styles returns the styles bound to the output stream.
func (r *Renderer) Styles() *Styles {
	return r.styles
}

// Writer returns the output stream.
func (r *Renderer) Writer() io.Writer {
	return r.out
}

// ErrWriter returns the error stream.
func (r *Renderer) ErrWriter() io.Writer {
	return r.errOut
}

// Title title-cases s, e.g. a rule group name.
func (r *Renderer) Title(s string) string {
	return r.title.String(s)
}

// Println writes a line to the output stream.
func (r *Renderer) Println(a ...any) {
	_, _ = fmt.Fprintln(r.out, a...)
}

// Printf writes formatted text to the output stream.
func (r *Renderer) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(r.out, format, a...)
}

// Header writes a level 1 or 2 heading.
func (r *Renderer) Header(level int, text string) {
	if r.EffectiveMode() == ModeMarkdown {
		prefix := "#"
		if level > 1 {
			prefix = "##"
		}
		r.Printf("%s %s\n\n", prefix, text)
		return
	}
	style := r.styles.Header1
	if level > 1 {
		style = r.styles.Header2
	}
	r.Println(style.Render(text))
}

// Success writes a success message.
func (r *Renderer) Success(msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("**" + msg + "**")
		return
	}
	r.Println(r.styles.Success.Render("✓ " + msg))
}

// Warning writes a warning to the error stream.
func (r *Renderer) Warning(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Warning.Render("warning: "+msg))
}

// Error writes an error to the error stream.
func (r *Renderer) Error(msg string) {
	_, _ = fmt.Fprintln(r.errOut, r.styles.Error.Render("error: "+msg))
}

// Muted writes de-emphasized text to the output stream.
func (r *Renderer) Muted(msg string) {
	if r.EffectiveMode() == ModeMarkdown {
		r.Println("_" + msg + "_")
		return
	}
	r.Println(r.styles.Muted.Render(msg))
}

// StatusLine writes "<icon> name detail" where status is success, warning
// or error.
func (r *Renderer) StatusLine(name, status, detail string) {
	icon, style := "•", r.styles.Muted
	switch status {
	case "success":
		icon, style = "✓", r.styles.Success
	case "warning":
		icon, style = "!", r.styles.Warning
	case "error":
		icon, style = "✗", r.styles.Error
	}
	line := style.Render(icon) + " " + name
	if detail != "" {
		line += " " + r.styles.Muted.Render(detail)
	}
	r.Println(line)
}

// JSON writes v as indented JSON.
func (r *Renderer) JSON(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
