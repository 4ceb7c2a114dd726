// Package modelcache provides read-through caching for model queries.
//
// # Overview
//
// Wrap decorates a model.Model[T] so that FindByPk, FindOne, FindAll and
// Count are answered from a cache backend when possible:
//
//	backend, _ := cacheinfra.NewSturdycBackend(cacheinfra.DefaultConfig())
//	c, _ := modelcache.New(backend, cache.DefaultConfig())
//
//	users := modelcache.Wrap[User](c, userModel, modelcache.Params{TTL: time.Minute})
//	all, err := users.FindAll(ctx, &query.FindOptions{
//		Where: query.M("active", true),
//	})
//
// pkg/di assembles the backend, logger and metrics from configuration.
//
// # Read Path
//
// Every call goes through the same steps:
//
//  1. Options outside where, attributes, raw, plain, include and
//     transaction abort the call with a *cache.PolicyError.
//  2. A key is derived from the operation, table and options. Calls with a
//     transaction, or options without a canonical form, run uncached and
//     never touch the backend.
//  3. On a hit the payload is decompressed and decoded. A payload that
//     cannot be decoded fails the call with a *cache.DeserializationError.
//  4. On a miss, or when the lookup fails, the query runs once and its
//     result is stored. Store failures are logged; the result is returned
//     either way.
//
// Concurrent misses on the same key each run the query and each write the
// entry. Entries are equal, so the last write wins.
//
// # Payloads
//
// Counts are stored as decimal text. Absent records are stored as null and
// empty lists as []. Records are stored as the JSON of their attributes,
// including columns outside the declared schema such as aliased aggregates.
// Raw and plain results are stored as the rows themselves.
//
// On read, null, undefined and empty payloads decode to nil, an empty slice
// or zero. A count payload that is not a number decodes to zero.
//
// # Invalidation
//
// Entries expire by TTL only. Writes through the underlying model do not
// evict cached reads.
package modelcache
