package cache

import (
	"encoding"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-model-cache/query"
)

// isoMillis matches the ISO-8601 form with millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// EncodeCanonical renders v as a deterministic string.
//
// Strings are quoted, numbers and booleans render literally, nil renders
// null. query.Map keeps insertion order while Go maps are sorted by key.
// Entities render as their quoted table name. Values that have no canonical
// form (functions, channels, complex or non-finite numbers, arbitrary
// structs) yield an *EncodingError.
func EncodeCanonical(v any) (string, error) {
	var b strings.Builder
	if err := encodeValue(&b, v, "$"); err != nil {
		return "", err
	}
	return b.String(), nil
}

func encodeValue(b *strings.Builder, v any, path string) error {
	if v == nil {
		b.WriteString("null")
		return nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		if rv.IsNil() {
			b.WriteString("null")
			return nil
		}
	case reflect.Func:
		return &EncodingError{Path: path, Reason: "functions have no canonical form"}
	}

	switch t := v.(type) {
	case query.Entity:
		b.WriteString(strconv.Quote(t.TableName()))
		return nil
	case query.Map:
		return encodeOrdered(b, t, path)
	case query.KeyMarshaler:
		return encodeValue(b, t.MarshalKey(), path)
	case time.Time:
		b.WriteString(strconv.Quote(t.UTC().Format(isoMillis)))
		return nil
	case string:
		b.WriteString(strconv.Quote(t))
		return nil
	case bool:
		b.WriteString(strconv.FormatBool(t))
		return nil
	case encoding.TextMarshaler:
		text, err := t.MarshalText()
		if err != nil {
			return &EncodingError{Path: path, Reason: err.Error()}
		}
		b.WriteString(strconv.Quote(string(text)))
		return nil
	}

	switch rv.Kind() {
	case reflect.String:
		b.WriteString(strconv.Quote(rv.String()))
	case reflect.Bool:
		b.WriteString(strconv.FormatBool(rv.Bool()))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		b.WriteString(strconv.FormatInt(rv.Int(), 10))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		b.WriteString(strconv.FormatUint(rv.Uint(), 10))
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return &EncodingError{Path: path, Reason: "number is not finite"}
		}
		bits := 64
		if rv.Kind() == reflect.Float32 {
			bits = 32
		}
		b.WriteString(strconv.FormatFloat(f, 'f', -1, bits))
	case reflect.Slice, reflect.Array:
		return encodeList(b, rv, path)
	case reflect.Map:
		return encodeMap(b, rv, path)
	case reflect.Ptr, reflect.Interface:
		return encodeValue(b, rv.Elem().Interface(), path)
	default:
		return &EncodingError{Path: path, Reason: "unsupported type " + rv.Type().String()}
	}
	return nil
}

func encodeOrdered(b *strings.Builder, m query.Map, path string) error {
	b.WriteByte('{')
	for i, p := range m {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(p.Key))
		b.WriteByte(':')
		if err := encodeValue(b, p.Value, path+"."+p.Key); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}

func encodeList(b *strings.Builder, rv reflect.Value, path string) error {
	b.WriteByte('[')
	for i := 0; i < rv.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		if err := encodeValue(b, rv.Index(i).Interface(), path+"["+strconv.Itoa(i)+"]"); err != nil {
			return err
		}
	}
	b.WriteByte(']')
	return nil
}

func encodeMap(b *strings.Builder, rv reflect.Value, path string) error {
	if rv.Type().Key().Kind() != reflect.String {
		return &EncodingError{Path: path, Reason: "map keys must be strings"}
	}

	keys := make([]string, 0, rv.Len())
	values := make(map[string]reflect.Value, rv.Len())
	for _, k := range rv.MapKeys() {
		keys = append(keys, k.String())
		values[k.String()] = rv.MapIndex(k)
	}
	sort.Strings(keys)

	b.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Quote(k))
		b.WriteByte(':')
		if err := encodeValue(b, values[k].Interface(), path+"."+k); err != nil {
			return err
		}
	}
	b.WriteByte('}')
	return nil
}
