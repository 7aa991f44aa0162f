package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/five82/assemble-logs/internal/assemble"
	"github.com/five82/assemble-logs/internal/filter"
	"github.com/five82/assemble-logs/internal/metrics"
	"github.com/five82/assemble-logs/internal/prefs"
	"github.com/five82/assemble-logs/internal/query"
	"github.com/five82/assemble-logs/internal/render"
	"github.com/five82/assemble-logs/internal/rotation"
	"github.com/five82/assemble-logs/internal/timestamp"
	"github.com/five82/assemble-logs/internal/ui"
)

// Options configure one assemble run.
type Options struct {
	LogPath string
	// Filter is an optional jq predicate over each record.
	Filter string
	// Transform is an optional jq program applied in no-format mode.
	Transform string
	// After is a timestamp prefix such as "2021-09-02 22"; empty disables it.
	After string

	Compact      bool
	ErrorDetails bool
	NoFormat     bool
	Color        string
	Pager        bool

	MaxAge   time.Duration
	MaxFiles int

	MetricsFile string
	PrefsPath   string
	Logger      *slog.Logger

	// Now overrides the clock used for segment retention.
	Now func() time.Time
}

// Result summarises a completed run.
type Result struct {
	Assembly assemble.Stats
	Lines    filter.Counters
	Render   render.Counters
	Elapsed  time.Duration
}

// Run assembles the rotated log at opts.LogPath, filters and renders every
// line to stdout (or the pager), then prints the run summary.
func Run(ctx context.Context, opts Options, stdout io.Writer) (Result, error) {
	start := time.Now()
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var result Result
	if strings.TrimSpace(opts.LogPath) == "" {
		return result, fmt.Errorf("log path is required")
	}

	f, transform, err := compile(opts, logger)
	if err != nil {
		return result, err
	}

	policy := rotation.Policy{MaxAge: opts.MaxAge, MaxFiles: opts.MaxFiles, Now: opts.Now}
	segments, err := rotation.Discover(opts.LogPath, policy, opts.After)
	if err != nil {
		return result, fmt.Errorf("discover segments: %w", err)
	}
	rotated := make([]string, 0, len(segments))
	for _, seg := range segments {
		if !seg.IsBase() {
			rotated = append(rotated, seg.Name())
		}
	}
	logger.Debug("segments discovered", "base", opts.LogPath, "count", len(segments), "rotated", rotated)

	buf, stats, err := assemble.New(logger).Assemble(ctx, segments)
	result.Assembly = stats
	if err != nil {
		return result, fmt.Errorf("assemble %s: %w", opts.LogPath, err)
	}

	usePager := opts.Pager && isTerminal(stdout)
	if opts.Pager && !usePager {
		logger.Debug("stdout is not a terminal, pager disabled")
	}

	renderer, err := render.New(stdout, render.Options{
		Compact:      opts.Compact,
		ErrorDetails: opts.ErrorDetails,
		NoFormat:     opts.NoFormat,
		Transform:    transform,
		Color:        opts.Color,
	})
	if err != nil {
		return result, err
	}

	var paged bytes.Buffer
	out := bufio.NewWriter(stdout)
	sink := io.Writer(out)
	if usePager {
		sink = &paged
	}

	result.Lines, err = f.Run(ctx, buf, func(line string) error {
		_, err := io.WriteString(sink, renderer.Render(line))
		return err
	})
	result.Render = renderer.Counters()
	if err != nil {
		return result, fmt.Errorf("filter records: %w", err)
	}

	if usePager {
		if err := showPager(ctx, opts, paged.String(), logger); err != nil {
			return result, err
		}
	}

	result.Elapsed = time.Since(start)
	fmt.Fprintf(out, "END OUTPUT - n_lines=%d evaluated=%d\n", result.Lines.Included, result.Lines.Evaluated)
	fmt.Fprintf(out, "Duration: %s\n", result.Elapsed)
	if err := out.Flush(); err != nil {
		return result, fmt.Errorf("write output: %w", err)
	}

	if opts.MetricsFile != "" {
		if err := writeMetrics(opts.MetricsFile, result); err != nil {
			return result, err
		}
	}
	return result, nil
}

// compile builds the line filter and the optional transform. Every query is
// compiled before any file is touched so syntax errors fail fast.
func compile(opts Options, logger *slog.Logger) (*filter.Filter, render.Transformer, error) {
	f := &filter.Filter{}

	if strings.TrimSpace(opts.After) != "" {
		bound, err := timestamp.Parse(opts.After)
		if err != nil {
			return nil, nil, fmt.Errorf("parse after %q: %w", opts.After, err)
		}
		prog, err := query.Compile(query.AfterQuery(bound))
		if err != nil {
			return nil, nil, fmt.Errorf("compile after filter: %w", err)
		}
		f.After = prog
	}

	if strings.TrimSpace(opts.Filter) != "" {
		prog, err := query.Compile(opts.Filter)
		if err != nil {
			return nil, nil, fmt.Errorf("compile filter: %w", err)
		}
		f.User = prog
		logger.Debug("filter compiled", "query", prog.String())
	}

	var transform render.Transformer
	if strings.TrimSpace(opts.Transform) != "" {
		prog, err := query.Compile(opts.Transform)
		if err != nil {
			return nil, nil, fmt.Errorf("compile transformation: %w", err)
		}
		if opts.NoFormat {
			transform = prog
		} else {
			logger.Warn("transformation ignored without no-format", "query", prog.String())
		}
	}
	return f, transform, nil
}

func showPager(ctx context.Context, opts Options, rendered string, logger *slog.Logger) error {
	p, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.Warn("load prefs failed, using defaults", "path", opts.PrefsPath, "error", err)
	}

	var lines []string
	if rendered != "" {
		lines = strings.Split(strings.TrimSuffix(rendered, "\n"), "\n")
	}
	return ui.Run(ctx, ui.Options{
		Title:     opts.LogPath,
		Lines:     lines,
		ThemeName: p.Theme,
		Wrap:      p.Wrap,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	})
}

func writeMetrics(path string, result Result) error {
	m := metrics.NewRunMetrics()
	m.Observe(metrics.Summary{
		Segments:       result.Assembly.Segments,
		Compressed:     result.Assembly.Compressed,
		Bytes:          result.Assembly.Bytes,
		LinesEvaluated: result.Lines.Evaluated,
		LinesIncluded:  result.Lines.Included,
		FormatErrors:   result.Render.FormatErrors,
		Elapsed:        result.Elapsed,
	})
	return m.WriteFile(path)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
