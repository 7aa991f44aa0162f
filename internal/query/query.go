// Package query compiles jq programs once and evaluates them against single
// JSON records.
package query

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/itchyny/gojq"
)

// CompileError reports a query that could not be parsed or compiled.
type CompileError struct {
	Query string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("compile jq program %q: %v", e.Query, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

// Program is a compiled jq query. It holds no per-record state and may be
// evaluated any number of times.
type Program struct {
	src  string
	code *gojq.Code
}

// Compile parses and compiles src.
func Compile(src string) (*Program, error) {
	parsed, err := gojq.Parse(src)
	if err != nil {
		return nil, &CompileError{Query: src, Err: err}
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, &CompileError{Query: src, Err: err}
	}
	return &Program{src: src, code: code}, nil
}

// String returns the query source.
func (p *Program) String() string {
	return p.src
}

// Evaluate runs the program with text decoded as its input and returns every
// emitted value JSON-encoded on its own line, the way the jq CLI prints them.
// Input that is not JSON, and runtime errors, are returned as errors.
func (p *Program) Evaluate(text string) (string, error) {
	var input any
	if err := json.Unmarshal([]byte(text), &input); err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}

	var out strings.Builder
	iter := p.code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			var halt *gojq.HaltError
			if errors.As(err, &halt) && halt.Value() == nil {
				break
			}
			return "", err
		}
		encoded, err := gojq.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("encode result: %w", err)
		}
		out.Write(encoded)
		out.WriteByte('\n')
	}
	return out.String(), nil
}

// boundLayout stops at whole seconds. A ts at the bound's second, with or
// without a fraction, never sorts below it.
const boundLayout = "2006-01-02T15:04:05"

// AfterQuery returns a predicate selecting records whose ts is at or after
// bound. Record timestamps share one layout, so string comparison is
// chronological.
func AfterQuery(bound time.Time) string {
	return ".ts >= " + strconv.Quote(bound.Truncate(time.Second).Format(boundLayout))
}
