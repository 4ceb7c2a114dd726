package modelcache

import (
	"context"
	"time"

	"github.com/goliatone/go-model-cache/cache"
	"github.com/goliatone/go-model-cache/pkg/logging"
	"github.com/goliatone/go-model-cache/pkg/metrics"
	"github.com/goliatone/go-model-cache/query"
)

// call describes one cached read: how to run it against the model and how
// to turn its result into a payload and back.
type call[R any] struct {
	op      query.Operation
	entity  query.Entity
	opts    *query.FindOptions
	ttl     time.Duration
	execute func(context.Context) (R, error)
	encode  func(R) ([]byte, error)
	decode  func([]byte) (R, error)
}

// readThrough runs the policy check, key derivation, lookup and, on a miss,
// the query followed by a best-effort store.
//
// Rejected options abort the call. Calls without a key run uncached. Lookup
// and store failures are logged and never returned; the query result is
// authoritative. A hit that cannot be decoded is returned as a
// *cache.DeserializationError.
func readThrough[R any](ctx context.Context, c *Cache, cl call[R]) (R, error) {
	var zero R
	op := cl.op.String()
	table := cl.entity.TableName()
	logger := c.logger.With("operation", op, "table", table)

	if unsupported := cache.UnsupportedKeys(cl.opts); len(unsupported) > 0 {
		c.metrics.Observe(op, table, metrics.OutcomeRejected)
		logger.Warn("query options are not cacheable",
			"unsupported", unsupported,
			"options", cache.DescribeOptions(cl.opts),
		)
		return zero, &cache.PolicyError{Operation: cl.op, Table: table, Keys: unsupported}
	}

	key, ok := c.keys.BuildKey(cl.op, cl.entity, cl.opts)
	if !ok {
		c.metrics.Observe(op, table, metrics.OutcomeBypass)
		logger.Debug("running query uncached", "options", cache.DescribeOptions(cl.opts))
		return cl.execute(ctx)
	}

	lookup := c.backend.Get(ctx, c.namespace, key)
	switch lookup.Status {
	case cache.LookupHit:
		result, err := decodeHit(c, key, lookup.Value, cl.decode)
		if err != nil {
			c.metrics.Observe(op, table, metrics.OutcomeDecodeError)
			logger.Error("cached payload cannot be decoded", "key", key, "error", err)
			return zero, err
		}
		c.metrics.Observe(op, table, metrics.OutcomeHit)
		logger.Debug("cache hit", "key", key)
		return result, nil
	case cache.LookupError:
		c.metrics.Observe(op, table, metrics.OutcomeLookupError)
		logger.Warn("cache lookup failed, treating as miss", "key", key, "error", lookup.Err)
	default:
		c.metrics.Observe(op, table, metrics.OutcomeMiss)
		logger.Debug("cache miss", "key", key)
	}

	result, err := cl.execute(ctx)
	if err != nil {
		return zero, err
	}

	store(ctx, c, logger, cl, key, result)
	return result, nil
}

func decodeHit[R any](c *Cache, key string, value []byte, decode func([]byte) (R, error)) (R, error) {
	var zero R

	text, err := c.codec.Decompress(value)
	if err != nil {
		return zero, &cache.DeserializationError{Key: key, Err: err}
	}

	result, err := decode(text)
	if err != nil {
		return zero, &cache.DeserializationError{Key: key, Err: err}
	}
	return result, nil
}

// store writes the payload for result. Encode and store failures leave the
// already computed result untouched.
func store[R any](ctx context.Context, c *Cache, logger logging.Logger, cl call[R], key string, result R) {
	op := cl.op.String()
	table := cl.entity.TableName()

	payload, err := cl.encode(result)
	if err != nil {
		c.metrics.Observe(op, table, metrics.OutcomeEncodeError)
		logger.Warn("unable to encode result, skipping store", "key", key, "error", err)
		return
	}

	packed, err := c.codec.Compress(payload)
	if err != nil {
		c.metrics.Observe(op, table, metrics.OutcomeEncodeError)
		logger.Warn("unable to compress payload, skipping store", "key", key, "error", err)
		return
	}

	ttl := cl.ttl
	if ttl <= 0 {
		ttl = c.defaultTTL
	}

	res := c.backend.Set(ctx, c.namespace, key, packed, ttl)
	if res.Status == cache.StoreError {
		c.metrics.Observe(op, table, metrics.OutcomeStoreError)
		logger.Error("cache store failed", "key", key, "error", res.Err)
		return
	}
	c.metrics.ObservePayload(op, table, len(packed))
}
