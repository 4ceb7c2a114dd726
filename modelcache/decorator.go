package modelcache

import (
	"context"
	"time"

	"github.com/goliatone/go-model-cache/model"
	"github.com/goliatone/go-model-cache/query"
)

// Interface assertion to ensure CachedModel implements model.Model[T]
var _ model.Model[any] = (*CachedModel[any])(nil)

// Params configures a wrapped model.
type Params struct {
	// TTL applies to every entry written for the model. Zero uses the
	// configured default.
	TTL time.Duration
}

// CachedModel decorates a model with read-through caching of FindByPk,
// FindOne, FindAll and Count.
type CachedModel[T any] struct {
	base      model.Model[T]
	cache     *Cache
	ttl       time.Duration
	rehydrate rehydrator[T]
}

// Wrap returns m with its reads served through c.
func Wrap[T any](c *Cache, m model.Model[T], params Params) *CachedModel[T] {
	attributes := m.Attributes()
	if attributes == nil {
		attributes = model.AttributesOf[T]()
	}
	return &CachedModel[T]{
		base:      m,
		cache:     c,
		ttl:       params.TTL,
		rehydrate: newRehydrator[T](attributes),
	}
}

// TableName delegates to the wrapped model.
func (c *CachedModel[T]) TableName() string {
	return c.base.TableName()
}

// PrimaryKey delegates to the wrapped model.
func (c *CachedModel[T]) PrimaryKey() string {
	return c.base.PrimaryKey()
}

// Attributes delegates to the wrapped model.
func (c *CachedModel[T]) Attributes() []string {
	return c.base.Attributes()
}

// FindByPk returns the record with primary key pk, or nil. The cache key
// filters on the primary key first, followed by any caller where clause,
// matching the filter the model applies.
func (c *CachedModel[T]) FindByPk(ctx context.Context, pk any, opts *query.FindOptions) (*model.Record[T], error) {
	keyed := opts.Clone()
	keyed.Where = append(query.Map{{Key: c.base.PrimaryKey(), Value: pk}}, keyed.Where...)

	return readThrough(ctx, c.cache, c.recordCall(query.OpFindByPk, &keyed, opts,
		func(ctx context.Context) (*model.Record[T], error) {
			return c.base.FindByPk(ctx, pk, opts)
		}))
}

// FindOne returns the first matching record, or nil.
func (c *CachedModel[T]) FindOne(ctx context.Context, opts *query.FindOptions) (*model.Record[T], error) {
	return readThrough(ctx, c.cache, c.recordCall(query.OpFindOne, opts, opts,
		func(ctx context.Context) (*model.Record[T], error) {
			return c.base.FindOne(ctx, opts)
		}))
}

// FindAll returns every matching record. A cached empty result is an empty,
// non-nil slice.
func (c *CachedModel[T]) FindAll(ctx context.Context, opts *query.FindOptions) ([]*model.Record[T], error) {
	plain := opts.WantsPlain()
	return readThrough(ctx, c.cache, call[[]*model.Record[T]]{
		op:     query.OpFindAll,
		entity: c.base,
		opts:   opts,
		ttl:    c.ttl,
		execute: func(ctx context.Context) ([]*model.Record[T], error) {
			return c.base.FindAll(ctx, opts)
		},
		encode: encodeRecords[T],
		decode: func(text []byte) ([]*model.Record[T], error) {
			return decodeRecords(c.rehydrate, text, plain)
		},
	})
}

// Count returns the number of matching rows. A stored count that cannot be
// parsed reads as zero.
func (c *CachedModel[T]) Count(ctx context.Context, opts *query.FindOptions) (int, error) {
	return readThrough(ctx, c.cache, call[int]{
		op:     query.OpCount,
		entity: c.base,
		opts:   opts,
		ttl:    c.ttl,
		execute: func(ctx context.Context) (int, error) {
			return c.base.Count(ctx, opts)
		},
		encode: encodeCount,
		decode: func(text []byte) (int, error) {
			n, ok := decodeCount(text)
			if !ok {
				c.cache.logger.Warn("stored count is not a number, using 0",
					"operation", query.OpCount.String(),
					"table", c.base.TableName(),
				)
			}
			return n, nil
		},
	})
}

// recordCall builds the call for a single-record operation. keyed drives
// policy and key derivation, opts is handed to the model.
func (c *CachedModel[T]) recordCall(
	op query.Operation,
	keyed, opts *query.FindOptions,
	execute func(context.Context) (*model.Record[T], error),
) call[*model.Record[T]] {
	plain := opts.WantsPlain()
	return call[*model.Record[T]]{
		op:      op,
		entity:  c.base,
		opts:    keyed,
		ttl:     c.ttl,
		execute: execute,
		encode:  encodeRecord[T],
		decode: func(text []byte) (*model.Record[T], error) {
			return decodeRecord(c.rehydrate, text, plain)
		},
	}
}
