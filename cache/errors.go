package cache

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-model-cache/query"
)

var (
	// ErrNotCacheable is returned when a cached call passes options outside
	// the recognized set.
	ErrNotCacheable = errors.New("model cache: query options are not cacheable")
	// ErrEncoding marks values that have no canonical form.
	ErrEncoding = errors.New("model cache: value cannot be canonically encoded")
	// ErrDeserialization marks cached payloads that could not be decoded.
	ErrDeserialization = errors.New("model cache: cached payload cannot be decoded")
	// ErrBackend marks failures reported by a cache backend.
	ErrBackend = errors.New("model cache: backend failure")
)

// PolicyError reports a call rejected by the cacheability policy.
type PolicyError struct {
	Operation query.Operation
	Table     string
	Keys      []string
}

func (e *PolicyError) Error() string {
	return fmt.Sprintf("model cache: %s on %s passes unsupported options [%s]",
		e.Operation, e.Table, strings.Join(e.Keys, ", "))
}

func (e *PolicyError) Unwrap() error {
	return ErrNotCacheable
}

// EncodingError reports the location of a value that has no canonical form.
type EncodingError struct {
	Path   string
	Reason string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("model cache: cannot encode %s: %s", e.Path, e.Reason)
}

func (e *EncodingError) Unwrap() error {
	return ErrEncoding
}

// DeserializationError reports a cached payload that could not be turned
// back into a result.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("model cache: decode %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() []error {
	return []error{ErrDeserialization, e.Err}
}

// BackendError wraps a failure reported by a cache backend.
type BackendError struct {
	Op        string
	Namespace string
	Key       string
	Err       error
}

func (e *BackendError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("model cache: backend %s %s: %v", e.Op, e.Namespace, e.Err)
	}
	return fmt.Sprintf("model cache: backend %s %s/%s: %v", e.Op, e.Namespace, e.Key, e.Err)
}

func (e *BackendError) Unwrap() []error {
	return []error{ErrBackend, e.Err}
}
