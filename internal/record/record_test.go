package record

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	line := `{"tag":"svc","msg":"started","level":"INFO","ts":"2021-09-02T22:15:00.123","pid":42,"peer":"10.0.0.1","ok":true,"nested":{"a":[1,2]}}`
	rec, err := Parse(line)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if rec.Tag != "svc" || rec.Msg != "started" || rec.Level != "INFO" {
		t.Fatalf("core fields = %+v", rec)
	}
	wantTS := time.Date(2021, 9, 2, 22, 15, 0, 123_000_000, time.UTC)
	if !rec.TS.Equal(wantTS) {
		t.Fatalf("TS = %v, want %v", rec.TS, wantTS)
	}

	wantFields := []Field{
		{Key: "pid", Value: "42"},
		{Key: "peer", Value: `"10.0.0.1"`},
		{Key: "ok", Value: "true"},
		{Key: "nested", Value: `{"a":[1,2]}`},
	}
	if !reflect.DeepEqual(rec.Fields, wantFields) {
		t.Fatalf("Fields = %#v, want %#v", rec.Fields, wantFields)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantMsg string
	}{
		{"not json", `hello world`, "decode record"},
		{"array", `[1,2]`, "decode record"},
		{"missing tag", `{"msg":"m","level":"INFO","ts":"2021-09-02T22:15:00.123"}`, "missing field tag"},
		{"missing ts", `{"tag":"t","msg":"m","level":"INFO"}`, "missing field ts"},
		{"level not string", `{"tag":"t","msg":"m","level":3,"ts":"2021-09-02T22:15:00.123"}`, "field level"},
		{"bad ts", `{"tag":"t","msg":"m","level":"INFO","ts":"yesterday"}`, "field ts"},
		{"ts wrong layout", `{"tag":"t","msg":"m","level":"INFO","ts":"2021-09-02 22:15:00.123"}`, "field ts"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.line)
			if err == nil {
				t.Fatalf("Parse(%q) returned nil error", tt.line)
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Parse error = %q, want it to mention %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestParse_TimestampWithoutFraction(t *testing.T) {
	rec, err := Parse(`{"tag":"t","msg":"m","level":"INFO","ts":"2021-09-02T22:15:00"}`)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if got := rec.TS.Format(TimeLayout); got != "2021-09-02T22:15:00.000" {
		t.Fatalf("TS = %q", got)
	}
}

func TestMarshalJSON_RoundTrip(t *testing.T) {
	original := Record{
		Tag:   "svc",
		Msg:   "quoted \"msg\" with\nnewline",
		Level: "WARN",
		TS:    time.Date(2021, 9, 2, 22, 15, 0, 7_000_000, time.UTC),
		Fields: []Field{
			{Key: "pid", Value: "42"},
			{Key: "user", Value: `"ada"`},
			{Key: "tags", Value: `["a","b"]`},
		},
	}

	encoded, err := original.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON returned error: %v", err)
	}
	if !strings.HasPrefix(string(encoded), `{"tag":"svc","msg":`) {
		t.Fatalf("encoded = %s, want tag and msg first", encoded)
	}
	if !strings.Contains(string(encoded), `"ts":"2021-09-02T22:15:00.007"`) {
		t.Fatalf("encoded = %s, want fixed-format ts", encoded)
	}

	decoded, err := Parse(string(encoded))
	if err != nil {
		t.Fatalf("Parse(%s) returned error: %v", encoded, err)
	}
	if !reflect.DeepEqual(decoded, original) {
		t.Fatalf("round trip = %#v, want %#v", decoded, original)
	}
	if decoded.TS.Format(TimeLayout) != original.TS.Format(TimeLayout) {
		t.Fatalf("timestamp text changed: %s vs %s", decoded.TS.Format(TimeLayout), original.TS.Format(TimeLayout))
	}
}

func TestMarshalJSON_InvalidFieldValue(t *testing.T) {
	rec := Record{Fields: []Field{{Key: "bad", Value: "{not json"}}}
	if _, err := rec.MarshalJSON(); err == nil {
		t.Fatalf("MarshalJSON returned nil error for invalid field value")
	}
}
