package modelcache

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-model-cache/model"
)

// rehydrator rebuilds records from stored JSON objects. Declared attributes
// populate Value; any other key is copied to Extra.
type rehydrator[T any] struct {
	declared map[string]struct{}
}

func newRehydrator[T any](attributes []string) rehydrator[T] {
	declared := make(map[string]struct{}, len(attributes))
	for _, name := range attributes {
		declared[name] = struct{}{}
	}
	return rehydrator[T]{declared: declared}
}

func (r rehydrator[T]) one(obj []byte, plain bool) (*model.Record[T], error) {
	fields, err := decodeObject(obj)
	if err != nil {
		return nil, err
	}

	if plain {
		return &model.Record[T]{Plain: fields}, nil
	}

	rec := &model.Record[T]{}
	if err := json.Unmarshal(obj, &rec.Value); err != nil {
		return nil, fmt.Errorf("rehydrate record: %w", err)
	}

	for name, value := range fields {
		if _, ok := r.declared[name]; ok {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = map[string]any{}
		}
		rec.Extra[name] = value
	}
	return rec, nil
}

// decodeObject parses a JSON object with integral numbers as int64.
func decodeObject(obj []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(obj))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("decode object: %w", err)
	}
	if fields == nil {
		return nil, fmt.Errorf("decode object: expected an object, got %s", bytes.TrimSpace(obj))
	}

	for k, v := range fields {
		fields[k] = model.Normalize(v)
	}
	return fields, nil
}
