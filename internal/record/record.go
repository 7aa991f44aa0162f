// Package record decodes and encodes the structured JSON log records that make
// up each line of an assembled log.
package record

import (
	"fmt"
	"time"

	"github.com/valyala/fastjson"
)

// TimeLayout is the fixed textual form of the ts field.
const TimeLayout = "2006-01-02T15:04:05.000"

// parseLayout accepts any fractional precision (or none) after the seconds.
const parseLayout = "2006-01-02T15:04:05"

var parserPool fastjson.ParserPool

// Field is one extra key/value pair. Value holds the compact JSON encoding of
// the original value, so strings keep their quotes.
type Field struct {
	Key   string
	Value string
}

// Record is one structured log entry.
type Record struct {
	Tag   string
	Msg   string
	Level string
	TS    time.Time
	// Fields holds every key other than tag, msg, level and ts, in document
	// order.
	Fields []Field
}

// Parse decodes one JSON object line into a Record.
func Parse(line string) (Record, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.Parse(line)
	if err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}
	obj, err := v.Object()
	if err != nil {
		return Record{}, fmt.Errorf("decode record: %w", err)
	}

	var rec Record
	if rec.Tag, err = stringField(obj, "tag"); err != nil {
		return Record{}, err
	}
	if rec.Msg, err = stringField(obj, "msg"); err != nil {
		return Record{}, err
	}
	if rec.Level, err = stringField(obj, "level"); err != nil {
		return Record{}, err
	}
	ts, err := stringField(obj, "ts")
	if err != nil {
		return Record{}, err
	}
	if rec.TS, err = time.Parse(parseLayout, ts); err != nil {
		return Record{}, fmt.Errorf("field ts: %w", err)
	}

	obj.Visit(func(key []byte, v *fastjson.Value) {
		switch string(key) {
		case "tag", "msg", "level", "ts":
			return
		}
		rec.Fields = append(rec.Fields, Field{
			Key:   string(key),
			Value: string(v.MarshalTo(nil)),
		})
	})
	return rec, nil
}

func stringField(obj *fastjson.Object, key string) (string, error) {
	v := obj.Get(key)
	if v == nil {
		return "", fmt.Errorf("missing field %s", key)
	}
	b, err := v.StringBytes()
	if err != nil {
		return "", fmt.Errorf("field %s: %w", key, err)
	}
	return string(b), nil
}

// MarshalJSON encodes the record in the wire format: tag, msg, level and ts
// followed by the extra fields in order.
func (r Record) MarshalJSON() ([]byte, error) {
	var a fastjson.Arena
	obj := a.NewObject()
	obj.Set("tag", a.NewString(r.Tag))
	obj.Set("msg", a.NewString(r.Msg))
	obj.Set("level", a.NewString(r.Level))
	obj.Set("ts", a.NewString(r.TS.Format(TimeLayout)))
	for _, f := range r.Fields {
		v, err := fastjson.Parse(f.Value)
		if err != nil {
			return nil, fmt.Errorf("encode record: field %s: %w", f.Key, err)
		}
		obj.Set(f.Key, v)
	}
	return obj.MarshalTo(nil), nil
}
