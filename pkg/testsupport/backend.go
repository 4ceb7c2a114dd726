package testsupport

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-model-cache/cache"
)

// StoredEntry is a payload held by a RecordingBackend.
type StoredEntry struct {
	Payload []byte
	TTL     time.Duration
}

// RecordingBackend is an in-memory cache.Backend that records every call.
// GetErr, SetErr and CreateErr force the matching call to fail.
type RecordingBackend struct {
	mu         sync.Mutex
	entries    map[string]StoredEntry
	namespaces map[string]bool
	calls      []string

	GetErr    error
	SetErr    error
	CreateErr error
}

// NewRecordingBackend creates an empty RecordingBackend.
func NewRecordingBackend() *RecordingBackend {
	return &RecordingBackend{
		entries:    map[string]StoredEntry{},
		namespaces: map[string]bool{},
	}
}

func entryKey(namespace, key string) string {
	return namespace + "/" + key
}

func (b *RecordingBackend) record(op, namespace, key string) {
	b.calls = append(b.calls, fmt.Sprintf("%s %s", op, entryKey(namespace, key)))
}

// Get implements cache.Backend.
func (b *RecordingBackend) Get(_ context.Context, namespace, key string) cache.GetResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("get", namespace, key)

	if b.GetErr != nil {
		return cache.GetFailed(&cache.BackendError{Op: "get", Namespace: namespace, Key: key, Err: b.GetErr})
	}
	e, ok := b.entries[entryKey(namespace, key)]
	if !ok {
		return cache.Miss()
	}
	return cache.Hit(append([]byte(nil), e.Payload...))
}

// Set implements cache.Backend.
func (b *RecordingBackend) Set(_ context.Context, namespace, key string, payload []byte, ttl time.Duration) cache.SetResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record("set", namespace, key)

	if b.SetErr != nil {
		return cache.SetFailed(&cache.BackendError{Op: "set", Namespace: namespace, Key: key, Err: b.SetErr})
	}
	b.entries[entryKey(namespace, key)] = StoredEntry{Payload: append([]byte(nil), payload...), TTL: ttl}
	return cache.Stored()
}

// CreateCache implements cache.Backend.
func (b *RecordingBackend) CreateCache(_ context.Context, namespace string) cache.CreateResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = append(b.calls, "create "+namespace)

	if b.CreateErr != nil {
		return cache.CreateFailed(&cache.BackendError{Op: "create", Namespace: namespace, Err: b.CreateErr})
	}
	if b.namespaces[namespace] {
		return cache.AlreadyExists()
	}
	b.namespaces[namespace] = true
	return cache.Created()
}

// Put stores a raw payload, bypassing the cache layer.
func (b *RecordingBackend) Put(namespace, key string, payload []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[entryKey(namespace, key)] = StoredEntry{Payload: append([]byte(nil), payload...)}
}

// Entry returns the stored entry for key.
func (b *RecordingBackend) Entry(namespace, key string) (StoredEntry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[entryKey(namespace, key)]
	return e, ok
}

// Keys returns the keys stored in namespace.
func (b *RecordingBackend) Keys(namespace string) []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	prefix := namespace + "/"
	var keys []string
	for k := range b.entries {
		if rest, ok := strings.CutPrefix(k, prefix); ok {
			keys = append(keys, rest)
		}
	}
	sort.Strings(keys)
	return keys
}

// Calls returns the recorded calls as "<op> <namespace>/<key>".
func (b *RecordingBackend) Calls() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

// CountCalls returns how many calls of op were recorded.
func (b *RecordingBackend) CountCalls(op string) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for _, c := range b.calls {
		if strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

// Reset clears recorded calls, keeping stored entries.
func (b *RecordingBackend) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls = nil
}

var _ cache.Backend = (*RecordingBackend)(nil)
