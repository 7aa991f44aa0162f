package assemble

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/five82/assemble-logs/internal/rotation"
)

func writePlain(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func writeGzip(t *testing.T, path, content string) {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(content)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func TestAssemble_ConcatenatesInOrder(t *testing.T) {
	dir := t.TempDir()
	oldest := filepath.Join(dir, "app.log.20210901T080000.gz")
	middle := filepath.Join(dir, "app.log.20210902T080000")
	base := filepath.Join(dir, "app.log")

	writeGzip(t, oldest, "one\ntwo\n")
	writePlain(t, middle, "three\n")
	writePlain(t, base, "four\nfive")

	segments := []rotation.Segment{
		{Path: oldest, Key: "20210901080000", Compressed: true},
		{Path: middle, Key: "20210902080000"},
		{Path: base},
	}

	var logs bytes.Buffer
	a := New(slog.New(slog.NewTextHandler(&logs, nil)))
	got, stats, err := a.Assemble(context.Background(), segments)
	if err != nil {
		t.Fatalf("Assemble returned error: %v", err)
	}
	if want := "one\ntwo\nthree\nfour\nfive"; string(got) != want {
		t.Fatalf("Assemble = %q, want %q", got, want)
	}
	if stats.Segments != 3 || stats.Compressed != 1 || stats.Bytes != int64(len(got)) {
		t.Fatalf("stats = %+v, want 3 segments, 1 compressed, %d bytes", stats, len(got))
	}
	if !strings.Contains(logs.String(), "segment decoded") || !strings.Contains(logs.String(), oldest) {
		t.Fatalf("missing decode diagnostic for %s in %q", oldest, logs.String())
	}
	if strings.Contains(logs.String(), middle) {
		t.Fatalf("plain segment %s should not log a decode diagnostic: %q", middle, logs.String())
	}
}

func TestAssemble_MissingBaseIsIOError(t *testing.T) {
	base := filepath.Join(t.TempDir(), "app.log")
	_, _, err := New(nil).Assemble(context.Background(), []rotation.Segment{{Path: base}})
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("Assemble error = %v, want fs.ErrNotExist", err)
	}
}

func TestAssemble_CorruptCompressedSegment(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "app.log.20210901T080000.gz")
	writePlain(t, bad, "definitely not gzip")
	base := filepath.Join(dir, "app.log")
	writePlain(t, base, "ok\n")

	got, _, err := New(nil).Assemble(context.Background(), []rotation.Segment{
		{Path: bad, Key: "20210901080000", Compressed: true},
		{Path: base},
	})
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("Assemble error = %v, want ErrDecompression", err)
	}
	if got != nil {
		t.Fatalf("Assemble returned partial output %q", got)
	}
}

func TestAssemble_TruncatedCompressedSegment(t *testing.T) {
	dir := t.TempDir()
	full := filepath.Join(dir, "full.gz")
	writeGzip(t, full, strings.Repeat("a line of log text\n", 200))
	data, err := os.ReadFile(full)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	truncated := filepath.Join(dir, "app.log.20210901T080000.gz")
	writePlain(t, truncated, string(data[:len(data)/2]))

	_, _, err = New(nil).Assemble(context.Background(), []rotation.Segment{{Path: truncated, Compressed: true, Key: "20210901080000"}})
	if !errors.Is(err, ErrDecompression) {
		t.Fatalf("Assemble error = %v, want ErrDecompression", err)
	}
}

func TestAssemble_CancelledContext(t *testing.T) {
	base := filepath.Join(t.TempDir(), "app.log")
	writePlain(t, base, "x\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := New(nil).Assemble(ctx, []rotation.Segment{{Path: base}}); !errors.Is(err, context.Canceled) {
		t.Fatalf("Assemble error = %v, want context.Canceled", err)
	}
}
