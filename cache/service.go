package cache

import (
	"context"
	"time"

	"github.com/goliatone/go-model-cache/query"
)

// KeyBuilder derives a cache key for a model read. It returns false when the
// call must not be cached, in which case no backend interaction happens.
type KeyBuilder interface {
	BuildKey(op query.Operation, entity query.Entity, opts *query.FindOptions) (string, bool)
}

// Backend is the namespaced byte store behind the model cache.
// Implementations report outcomes as tagged results rather than errors.
type Backend interface {
	Get(ctx context.Context, namespace, key string) GetResult
	Set(ctx context.Context, namespace, key string, payload []byte, ttl time.Duration) SetResult
	CreateCache(ctx context.Context, namespace string) CreateResult
}

// LookupStatus tags a GetResult.
type LookupStatus uint8

const (
	LookupMiss LookupStatus = iota
	LookupHit
	LookupError
)

func (s LookupStatus) String() string {
	switch s {
	case LookupHit:
		return "hit"
	case LookupError:
		return "error"
	default:
		return "miss"
	}
}

// GetResult is the outcome of a backend lookup.
type GetResult struct {
	Status LookupStatus
	Value  []byte
	Err    error
}

// Hit builds a GetResult carrying a stored payload.
func Hit(value []byte) GetResult {
	return GetResult{Status: LookupHit, Value: value}
}

// Miss builds a GetResult for an absent entry.
func Miss() GetResult {
	return GetResult{Status: LookupMiss}
}

// GetFailed builds a GetResult for a failed lookup.
func GetFailed(err error) GetResult {
	return GetResult{Status: LookupError, Err: err}
}

// StoreStatus tags a SetResult.
type StoreStatus uint8

const (
	StoreSuccess StoreStatus = iota
	StoreError
)

// SetResult is the outcome of a backend write.
type SetResult struct {
	Status StoreStatus
	Err    error
}

// Stored builds a successful SetResult.
func Stored() SetResult {
	return SetResult{Status: StoreSuccess}
}

// SetFailed builds a SetResult for a failed write.
func SetFailed(err error) SetResult {
	return SetResult{Status: StoreError, Err: err}
}

// CreateStatus tags a CreateResult.
type CreateStatus uint8

const (
	CreateSuccess CreateStatus = iota
	CreateAlreadyExists
	CreateError
)

// CreateResult is the outcome of a namespace creation.
type CreateResult struct {
	Status CreateStatus
	Err    error
}

// Created builds a CreateResult for a new namespace.
func Created() CreateResult {
	return CreateResult{Status: CreateSuccess}
}

// AlreadyExists builds a CreateResult for an existing namespace.
func AlreadyExists() CreateResult {
	return CreateResult{Status: CreateAlreadyExists}
}

// CreateFailed builds a CreateResult for a failed creation.
func CreateFailed(err error) CreateResult {
	return CreateResult{Status: CreateError, Err: err}
}
