package model

import (
	"bytes"
	"math"

	json "github.com/goccy/go-json"
)

// Record is a row returned by a Model.
//
// Value holds the declared attributes. Extra holds columns that are not part
// of the declared schema, such as aliased aggregates. Plain is set instead of
// Value when the query asked for raw or plain rows.
type Record[T any] struct {
	Value T
	Extra map[string]any
	Plain map[string]any
}

// Get returns a non-schema or plain column by name.
func (r *Record[T]) Get(name string) (any, bool) {
	if r == nil {
		return nil, false
	}
	if r.Plain != nil {
		v, ok := r.Plain[name]
		return v, ok
	}
	v, ok := r.Extra[name]
	return v, ok
}

// IsPlain reports whether the record carries a plain row.
func (r *Record[T]) IsPlain() bool {
	return r != nil && r.Plain != nil
}

// MarshalJSON renders the materialized attribute set: the plain row, or the
// JSON fields of Value merged with Extra. Extra never overrides a field that
// Value already rendered.
func (r Record[T]) MarshalJSON() ([]byte, error) {
	if r.Plain != nil {
		return json.Marshal(r.Plain)
	}

	data, err := json.Marshal(r.Value)
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return data, nil
	}

	fields := map[string]json.RawMessage{}
	if string(data) != "null" {
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
	}

	for k, v := range r.Extra {
		if _, ok := fields[k]; ok {
			continue
		}
		raw, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		fields[k] = raw
	}

	return json.Marshal(fields)
}

// Values returns the materialized attribute set as a map.
func (r Record[T]) Values() (map[string]any, error) {
	data, err := r.MarshalJSON()
	if err != nil {
		return nil, err
	}

	values := map[string]any{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&values); err != nil {
		return nil, err
	}
	for k, v := range values {
		values[k] = Normalize(v)
	}
	return values, nil
}

// Normalize converts decoded JSON numbers to int64 when integral and float64
// otherwise, recursing into maps and slices.
func Normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case float64:
		if t == math.Trunc(t) && math.Abs(t) < 1<<53 {
			return int64(t)
		}
		return t
	case map[string]any:
		for k, inner := range t {
			t[k] = Normalize(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = Normalize(inner)
		}
		return t
	default:
		return v
	}
}
