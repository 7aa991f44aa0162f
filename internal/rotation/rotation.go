package rotation

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/five82/assemble-logs/internal/timestamp"
)

const (
	// suffixLayout is the timestamp embedded in a rotated file name.
	suffixLayout     = "20060102T150405"
	compressedSuffix = ".gz"

	// DefaultMaxAge is how far back rotated segments are considered.
	DefaultMaxAge = 7 * 24 * time.Hour
)

// Segment is one physical file holding a contiguous slice of the log timeline.
type Segment struct {
	Path string
	// Key is the 14-digit numeric form of the rotation timestamp. Keys have a
	// fixed width so lexical order equals chronological order. Empty for the
	// live base file.
	Key string
	// Seq is the collision counter appended when several rotations happened
	// within the same second; a higher counter is newer.
	Seq        int
	Compressed bool
	// Time is the rotation timestamp in local time. Zero for the base file.
	Time time.Time
}

// IsBase reports whether s is the live (never rotated) log file.
func (s Segment) IsBase() bool {
	return s.Key == ""
}

// Name renders the file name suffix for a rotated segment, e.g.
// "20210902T220000.1.gz". It returns "" for the base file.
func (s Segment) Name() string {
	if s.IsBase() {
		return ""
	}
	name := s.Time.Format(suffixLayout)
	if s.Seq > 0 {
		name += "." + strconv.Itoa(s.Seq)
	}
	if s.Compressed {
		name += compressedSuffix
	}
	return name
}

// Policy limits which rotated segments are still part of the timeline.
type Policy struct {
	// MaxAge drops segments rotated longer ago than this. Zero disables the
	// age limit.
	MaxAge time.Duration
	// MaxFiles keeps only the newest MaxFiles segments. Zero is unlimited.
	MaxFiles int
	// Now is used for age calculations; nil means time.Now.
	Now func() time.Time
}

// DefaultPolicy keeps one week of rotated segments.
func DefaultPolicy() Policy {
	return Policy{MaxAge: DefaultMaxAge}
}

func (p Policy) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

// Discover lists the rotated siblings of base, applies the retention policy and
// the optional after bound, and returns them oldest first with base appended
// last. base itself does not need to exist.
//
// after is a free-form time prefix such as "2021-09-02 22"; its digits form a
// lower bound and every segment whose Key sorts below it is dropped.
func Discover(base string, policy Policy, after string) ([]Segment, error) {
	segments, err := scan(base)
	if err != nil {
		return nil, err
	}

	segments = policy.apply(segments)

	if bound := timestamp.Digits(after); bound != "" {
		kept := segments[:0]
		for _, seg := range segments {
			if seg.Key >= bound {
				kept = append(kept, seg)
			}
		}
		segments = kept
	}

	return append(segments, Segment{Path: base}), nil
}

// scan returns every rotated sibling of base sorted oldest first.
func scan(base string) ([]Segment, error) {
	dir := filepath.Dir(base)
	prefix := filepath.Base(base) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan segments: %w", err)
	}

	var segments []Segment
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		suffix, ok := strings.CutPrefix(entry.Name(), prefix)
		if !ok {
			continue
		}
		seg, err := ParseSuffix(suffix)
		if err != nil {
			continue // Not one of ours
		}
		seg.Path = filepath.Join(dir, entry.Name())
		segments = append(segments, seg)
	}

	sort.Slice(segments, func(i, j int) bool {
		if segments[i].Key != segments[j].Key {
			return segments[i].Key < segments[j].Key
		}
		return segments[i].Seq < segments[j].Seq
	})
	return segments, nil
}

// ParseSuffix decodes the part of a rotated file name that follows the base
// name and its dot: "<YYYYMMDDTHHMMSS>[.<N>][.gz]".
func ParseSuffix(suffix string) (Segment, error) {
	var seg Segment

	rest, compressed := strings.CutSuffix(suffix, compressedSuffix)
	seg.Compressed = compressed

	stamp, counter, hasCounter := strings.Cut(rest, ".")
	if len(stamp) != len(suffixLayout) || stamp[8] != 'T' {
		return Segment{}, fmt.Errorf("malformed rotation suffix %q", suffix)
	}
	key := timestamp.Digits(stamp)
	if len(key) != len(stamp)-1 {
		return Segment{}, fmt.Errorf("malformed rotation suffix %q", suffix)
	}
	naive, err := timestamp.Parse(key)
	if err != nil {
		return Segment{}, fmt.Errorf("rotation suffix %q: %w", suffix, err)
	}
	if hasCounter {
		n, err := strconv.Atoi(counter)
		if err != nil || n < 0 {
			return Segment{}, fmt.Errorf("malformed rotation counter in %q", suffix)
		}
		seg.Seq = n
	}

	seg.Key = key
	// Rotation timestamps are written in the writer's local zone.
	seg.Time = time.Date(naive.Year(), naive.Month(), naive.Day(),
		naive.Hour(), naive.Minute(), naive.Second(), 0, time.Local)
	return seg, nil
}

// apply drops segments outside the policy. segments must be sorted oldest first.
func (p Policy) apply(segments []Segment) []Segment {
	if p.MaxAge > 0 {
		cutoff := p.now().Add(-p.MaxAge)
		kept := segments[:0]
		for _, seg := range segments {
			if !seg.Time.Before(cutoff) {
				kept = append(kept, seg)
			}
		}
		segments = kept
	}
	if p.MaxFiles > 0 && len(segments) > p.MaxFiles {
		segments = segments[len(segments)-p.MaxFiles:]
	}
	return segments
}
