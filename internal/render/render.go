package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/five82/assemble-logs/internal/record"
)

// StampLayout is how record timestamps are printed.
const StampLayout = "Jan 02 15:04:05.000"

// Color modes accepted by Options.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Transformer rewrites a raw line in no-format mode.
type Transformer interface {
	Evaluate(text string) (string, error)
}

// Options select the output mode for a run.
type Options struct {
	Compact      bool
	ErrorDetails bool
	NoFormat     bool
	// Transform only applies with NoFormat.
	Transform Transformer
	// Color is one of auto, always or never; empty means always.
	Color string
}

// Counters report per-run rendering statistics.
type Counters struct {
	FormatErrors int
}

// Renderer turns included lines into output text.
type Renderer struct {
	opts     Options
	styles   styles
	counters Counters
}

type styles struct {
	tag   lipgloss.Style
	msg   lipgloss.Style
	key   lipgloss.Style
	level map[string]lipgloss.Style
	other lipgloss.Style
}

// New builds a Renderer whose colour profile is chosen for w.
func New(w io.Writer, opts Options) (*Renderer, error) {
	r := lipgloss.NewRenderer(w)
	switch opts.Color {
	case ColorAuto:
	case "", ColorAlways:
		r.SetColorProfile(termenv.TrueColor)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	default:
		return nil, fmt.Errorf("unknown color mode %q", opts.Color)
	}
	return &Renderer{opts: opts, styles: newStyles(r)}, nil
}

func newStyles(r *lipgloss.Renderer) styles {
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	bold := base.Bold(true)
	red := bold.Foreground(lipgloss.Color("1"))
	return styles{
		tag: base.Foreground(lipgloss.Color("#808080")),
		msg: bold,
		key: bold,
		level: map[string]lipgloss.Style{
			"CRIT": red,
			"ERRO": red,
			"WARN": bold.Foreground(lipgloss.Color("3")),
			"INFO": bold.Foreground(lipgloss.Color("2")),
			"DEBG": bold.Foreground(lipgloss.Color("6")),
			"TRCE": bold.Foreground(lipgloss.Color("5")),
		},
		other: red,
	}
}

// Counters returns the statistics gathered so far.
func (r *Renderer) Counters() Counters {
	return r.counters
}

// Render formats one included line. The result always ends in a newline
// unless a transform produced no output.
func (r *Renderer) Render(line string) string {
	if r.opts.NoFormat {
		return r.raw(line)
	}

	rec, err := record.Parse(line)
	if err != nil {
		r.counters.FormatErrors++
		if r.opts.ErrorDetails {
			return fmt.Sprintf("Format error: %v, line: %s\n", err, line)
		}
		return fmt.Sprintf("<error; %v>\n", err)
	}
	return r.structured(rec)
}

func (r *Renderer) raw(line string) string {
	if r.opts.Transform == nil {
		return line + "\n"
	}
	out, err := r.opts.Transform.Evaluate(line)
	if err != nil {
		return err.Error() + "\n"
	}
	return out
}

func (r *Renderer) structured(rec record.Record) string {
	var b strings.Builder
	b.WriteString(rec.TS.Format(StampLayout))
	b.WriteByte(' ')
	b.WriteString(paint(r.levelStyle(rec.Level), rec.Level))
	b.WriteString(" [")
	b.WriteString(paint(r.styles.tag, rec.Tag))
	b.WriteString("] ")
	b.WriteString(paint(r.styles.msg, rec.Msg))
	for _, f := range rec.Fields {
		b.WriteByte(' ')
		if !r.opts.Compact {
			b.WriteString("\n\t")
		}
		b.WriteString(paint(r.styles.key, f.Key))
		b.WriteString(": ")
		b.WriteString(f.Value)
	}
	b.WriteByte('\n')
	return b.String()
}

func (r *Renderer) levelStyle(level string) lipgloss.Style {
	if s, ok := r.styles.level[level]; ok {
		return s
	}
	return r.styles.other
}

// paint styles each line of s on its own so lipgloss never pads a
// multi-line value into a block.
func paint(style lipgloss.Style, s string) string {
	if s == "" {
		return s
	}
	if !strings.Contains(s, "\n") {
		return style.Render(s)
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = style.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
