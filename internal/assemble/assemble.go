package assemble

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/klauspost/compress/gzip"

	"github.com/five82/assemble-logs/internal/rotation"
)

// ErrDecompression reports a compressed segment whose stream is corrupt.
var ErrDecompression = errors.New("decompress segment")

// Stats summarises an assembly run.
type Stats struct {
	Segments   int
	Compressed int
	Bytes      int64
}

// Assembler concatenates segments into one timeline.
type Assembler struct {
	Logger *slog.Logger
}

// New returns an Assembler that reports diagnostics to logger. A nil logger
// discards them.
func New(logger *slog.Logger) *Assembler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Assembler{Logger: logger.With("component", "assembler")}
}

// Assemble reads every segment in order, decompressing where flagged, and
// returns the concatenated bytes. Any unreadable segment aborts the whole run.
func (a *Assembler) Assemble(ctx context.Context, segments []rotation.Segment) ([]byte, Stats, error) {
	var (
		buf   bytes.Buffer
		stats Stats
	)
	for _, seg := range segments {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}
		n, err := a.appendSegment(&buf, seg)
		if err != nil {
			return nil, stats, err
		}
		stats.Segments++
		stats.Bytes += n
		if seg.Compressed {
			stats.Compressed++
		}
	}
	return buf.Bytes(), stats, nil
}

// appendSegment copies one decoded segment onto buf. The file is closed before
// returning.
func (a *Assembler) appendSegment(buf *bytes.Buffer, seg rotation.Segment) (int64, error) {
	file, err := os.Open(seg.Path)
	if err != nil {
		return 0, fmt.Errorf("open segment: %w", err)
	}
	defer func() { _ = file.Close() }()

	if !seg.Compressed {
		n, err := buf.ReadFrom(file)
		if err != nil {
			return 0, fmt.Errorf("read segment %s: %w", seg.Path, err)
		}
		return n, nil
	}

	start := time.Now()
	zr, err := gzip.NewReader(file)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrDecompression, seg.Path, err)
	}
	defer func() { _ = zr.Close() }()

	n, err := buf.ReadFrom(zr)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrDecompression, seg.Path, err)
	}
	a.Logger.Info("segment decoded",
		"path", seg.Path,
		"elapsed", time.Since(start),
		"size", humanize.Bytes(uint64(n)),
	)
	return n, nil
}
