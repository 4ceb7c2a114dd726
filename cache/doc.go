// Package cache holds the building blocks of the model cache: canonical
// encoding of query options, the cacheability policy, key derivation, the
// backend contract and configuration.
//
// # Overview
//
// The package exports two interfaces and their default implementations:
//
//   - Backend: a namespaced byte store reporting tagged results
//   - KeyBuilder: derives a stable key from an operation, an entity and its options
//
// Keys have the form
//
//	<prefix>:<operation>:<table>:<canonical options>
//
// for example
//
//	model-cache:findAll:users:{"where":{"name":"alice"}}
//
// # Canonical Encoding
//
// EncodeCanonical renders option values deterministically:
//
//   - Strings are quoted, numbers and booleans render literally, nil renders null
//   - Slices keep element order
//   - query.Map keeps insertion order; Go maps are sorted by key
//   - Entities render as their quoted table name
//   - time.Time renders as ISO-8601 UTC with milliseconds
//
// Options built with different key orders produce different keys. Callers
// that need equal keys for equal filters must build them in a stable order.
//
// Functions, channels, complex and non-finite numbers and arbitrary structs
// have no canonical form. The key builder logs the *EncodingError and the
// call runs uncached.
//
// # Cacheability
//
// Only the where, attributes, raw, plain, include and transaction options may
// be passed to a cached call. IsCacheable rejects anything else. Options with
// a transaction are cacheable but never keyed, so transactional reads always
// reach the database.
//
// # Errors
//
// PolicyError, EncodingError, DeserializationError and BackendError wrap the
// sentinels ErrNotCacheable, ErrEncoding, ErrDeserialization and ErrBackend
// for use with errors.Is.
//
// # See Also
//
// The read-through orchestration lives in the modelcache package. Backend
// implementations live in internal/cacheinfra and are assembled by pkg/di.
package cache
