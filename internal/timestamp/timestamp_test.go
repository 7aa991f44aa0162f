package timestamp

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func date(year, month, day, hour, minute, second int) time.Time {
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC)
}

func TestParse(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"", date(0, 1, 1, 0, 0, 0)},
		{"200", date(2000, 1, 1, 0, 0, 0)},
		{"2022", date(2022, 1, 1, 0, 0, 0)},
		{"2022-02", date(2022, 2, 1, 0, 0, 0)},
		{"2022-03-3", date(2022, 3, 30, 0, 0, 0)},
		{"2022-03-30 16", date(2022, 3, 30, 16, 0, 0)},
		{"2022-03-30 16:30:5", date(2022, 3, 30, 16, 30, 50)},
		{"2022-03-30 16:30:51", date(2022, 3, 30, 16, 30, 51)},
		{"20220330T163051", date(2022, 3, 30, 16, 30, 51)},
		{"2022-03-30 16:30:51 trailing 999", date(2022, 3, 30, 16, 30, 51)},
		{"year 2021, month 09", date(2021, 9, 1, 0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := Parse(tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("Parse(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParse_InvalidCalendarDate(t *testing.T) {
	tests := []struct {
		input   string
		wantMsg string
	}{
		{"2022-2", "invalid YMD 2022-20-1"},
		{"2022-02-30", "invalid YMD 2022-2-30"},
		{"2021-13-01", "invalid YMD 2021-13-1"},
		{"2022-04-4", "invalid YMD 2022-4-40"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if !errors.Is(err, ErrInvalidCalendarDate) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalidCalendarDate", tt.input, err)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Parse(%q) error = %q, want it to contain %q", tt.input, err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_InvalidTimeOfDay(t *testing.T) {
	for _, input := range []string{"2022-03-30 24", "2022-03-30 16:6", "2022-03-30 16:30:6"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			if !errors.Is(err, ErrInvalidTimeOfDay) {
				t.Fatalf("Parse(%q) error = %v, want ErrInvalidTimeOfDay", input, err)
			}
		})
	}
}

func TestParse_LeapDay(t *testing.T) {
	if _, err := Parse("2024-02-29"); err != nil {
		t.Fatalf("Parse(2024-02-29) error = %v", err)
	}
	if _, err := Parse("2023-02-29"); !errors.Is(err, ErrInvalidCalendarDate) {
		t.Fatalf("Parse(2023-02-29) error = %v, want ErrInvalidCalendarDate", err)
	}
}

func TestDigits(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"2021-09-02T22":       "2021090222",
		"20210902T220000.gz":  "20210902220000",
		"no digits here":      "",
		"٣ arabic-indic 3":    "3",
		" 2022 / 03 / 30 16 ": "2022033016",
	}
	for input, want := range tests {
		if got := Digits(input); got != want {
			t.Errorf("Digits(%q) = %q, want %q", input, got, want)
		}
	}
}
