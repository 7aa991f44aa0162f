// Package filter decides which lines of an assembled log are kept.
package filter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrEncoding reports a line that is not valid UTF-8.
var ErrEncoding = errors.New("invalid UTF-8")

// Predicate is a compiled query evaluated against one record.
type Predicate interface {
	Evaluate(text string) (string, error)
}

// Counters accumulate per-run line statistics.
type Counters struct {
	// Evaluated counts lines examined, once per line no matter how many
	// predicates ran on it.
	Evaluated int
	// Included counts lines passed to the emitter.
	Included int
}

// Filter holds up to two predicates; a line is kept only when every
// configured one returns true.
type Filter struct {
	After Predicate
	User  Predicate
}

// Run splits buf into newline-delimited lines and calls emit for each one that
// passes. A "\r\n" ending counts as a newline, and a final line without a
// trailing newline is still processed. Invalid
// UTF-8 aborts the run with ErrEncoding; a failing predicate only excludes its
// line. An error from emit stops the run and is returned.
func (f *Filter) Run(ctx context.Context, buf []byte, emit func(line string) error) (Counters, error) {
	var counters Counters
	lineNo := 0
	for len(buf) > 0 {
		if err := ctx.Err(); err != nil {
			return counters, err
		}

		var raw []byte
		if i := bytes.IndexByte(buf, '\n'); i >= 0 {
			raw, buf = buf[:i], buf[i+1:]
		} else {
			raw, buf = buf, nil
		}
		raw = bytes.TrimSuffix(raw, []byte{'\r'})
		lineNo++

		if !utf8.Valid(raw) {
			return counters, fmt.Errorf("line %d: %w", lineNo, ErrEncoding)
		}
		line := string(raw)

		counters.Evaluated++
		if !f.Include(line) {
			continue
		}
		counters.Included++
		if err := emit(line); err != nil {
			return counters, err
		}
	}
	return counters, nil
}

// Include reports whether line passes every configured predicate. The after
// predicate runs first and short-circuits.
func (f *Filter) Include(line string) bool {
	for _, p := range []Predicate{f.After, f.User} {
		if p == nil {
			continue
		}
		if !matches(p, line) {
			return false
		}
	}
	return true
}

// matches treats evaluation failures as a non-match.
func matches(p Predicate, line string) bool {
	out, err := p.Evaluate(line)
	if err != nil {
		return false
	}
	return strings.TrimSpace(out) == "true"
}
