package modelcache

import (
	"bytes"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-model-cache/model"
)

var (
	nullPayload       = []byte("null")
	emptyArrayPayload = []byte("[]")
)

// isSentinel reports whether text stands for "no result".
func isSentinel(text []byte) bool {
	switch strings.TrimSpace(string(text)) {
	case "", "null", "undefined":
		return true
	}
	return false
}

func encodeCount(n int) ([]byte, error) {
	return []byte(strconv.Itoa(n)), nil
}

// decodeCount parses a stored count. Sentinels and unparsable payloads
// decode to zero; ok is false for the latter.
func decodeCount(text []byte) (n int, ok bool) {
	if isSentinel(text) {
		return 0, true
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(text)))
	if err != nil {
		return 0, false
	}
	return n, true
}

func encodeRecord[T any](rec *model.Record[T]) ([]byte, error) {
	if rec == nil {
		return nullPayload, nil
	}
	return json.Marshal(rec)
}

func encodeRecords[T any](recs []*model.Record[T]) ([]byte, error) {
	if len(recs) == 0 {
		return emptyArrayPayload, nil
	}
	return json.Marshal(recs)
}

func decodeRecord[T any](r rehydrator[T], text []byte, plain bool) (*model.Record[T], error) {
	if isSentinel(text) {
		return nil, nil
	}
	return r.one(text, plain)
}

func decodeRecords[T any](r rehydrator[T], text []byte, plain bool) ([]*model.Record[T], error) {
	if isSentinel(text) {
		return []*model.Record[T]{}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(text, &items); err != nil {
		return nil, err
	}

	recs := make([]*model.Record[T], 0, len(items))
	for _, item := range items {
		if bytes.Equal(bytes.TrimSpace(item), nullPayload) {
			recs = append(recs, nil)
			continue
		}
		rec, err := r.one(item, plain)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, nil
}
