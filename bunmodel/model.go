// Package bunmodel adapts a go-repository-bun repository to model.Model so
// it can be wrapped by modelcache.
//
// Typed reads go through the repository: Get for FindByPk and FindOne, List
// for FindAll and Count for Count. Options are translated to bun select
// criteria by Apply. Raw or plain reads, and projections that add aliased
// columns, are scanned into maps with the same criteria.
//
// Calls carrying a transaction run on the matching *Tx repository method.
package bunmodel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"

	json "github.com/goccy/go-json"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-model-cache/model"
	"github.com/goliatone/go-model-cache/query"
)

var _ model.Model[struct{}] = (*Model[struct{}])(nil)

// Option configures a Model.
type Option func(*config)

type config struct {
	table    string
	pk       string
	notFound func(error) bool
}

// WithTable sets the table name used in cache keys. It defaults to the plural
// snake_case form of the model type name.
func WithTable(name string) Option {
	return func(c *config) {
		c.table = name
	}
}

// WithPrimaryKey sets the primary key column. It defaults to "id".
func WithPrimaryKey(column string) Option {
	return func(c *config) {
		c.pk = column
	}
}

// WithNotFound sets the predicate recognizing "no row" errors from the
// repository. It defaults to errors.Is(err, sql.ErrNoRows).
func WithNotFound(fn func(error) bool) Option {
	return func(c *config) {
		if fn != nil {
			c.notFound = fn
		}
	}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

// Model implements model.Model[T] over a bun database and repository.
type Model[T any] struct {
	db    bun.IDB
	repo  repository.Repository[T]
	cfg   config
	attrs []string
}

// New creates a Model. db runs raw and projected reads; repo runs typed ones.
func New[T any](db bun.IDB, repo repository.Repository[T], opts ...Option) *Model[T] {
	cfg := config{
		table:    defaultTableName(reflect.TypeOf((*T)(nil)).Elem()),
		pk:       "id",
		notFound: isNoRows,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Model[T]{
		db:    db,
		repo:  repo,
		cfg:   cfg,
		attrs: model.AttributesOf[T](),
	}
}

// TableName implements query.Entity.
func (m *Model[T]) TableName() string {
	return m.cfg.table
}

// PrimaryKey implements model.Model.
func (m *Model[T]) PrimaryKey() string {
	return m.cfg.pk
}

// Attributes implements model.Model.
func (m *Model[T]) Attributes() []string {
	return append([]string(nil), m.attrs...)
}

// FindByPk implements model.Model.
func (m *Model[T]) FindByPk(ctx context.Context, pk any, opts *query.FindOptions) (*model.Record[T], error) {
	keyed := opts.Clone()
	keyed.Where = append(query.Map{{Key: m.cfg.pk, Value: pk}}, keyed.Where...)
	return m.findOne(ctx, &keyed)
}

// FindOne implements model.Model.
func (m *Model[T]) FindOne(ctx context.Context, opts *query.FindOptions) (*model.Record[T], error) {
	return m.findOne(ctx, opts)
}

func (m *Model[T]) findOne(ctx context.Context, opts *query.FindOptions) (*model.Record[T], error) {
	if m.scansMaps(opts) {
		limited := opts.Clone()
		limited.Limit = 1
		recs, err := m.scanRows(ctx, &limited)
		if err != nil || len(recs) == 0 {
			return nil, err
		}
		return recs[0], nil
	}

	var (
		value T
		err   error
	)
	if tx := opts.Clone().Transaction; tx != nil {
		value, err = m.repo.GetTx(ctx, tx, Criteria(opts)...)
	} else {
		value, err = m.repo.Get(ctx, Criteria(opts)...)
	}
	if err != nil {
		if m.cfg.notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("bunmodel: find one in %s: %w", m.cfg.table, err)
	}
	return &model.Record[T]{Value: value}, nil
}

// FindAll implements model.Model.
func (m *Model[T]) FindAll(ctx context.Context, opts *query.FindOptions) ([]*model.Record[T], error) {
	if m.scansMaps(opts) {
		return m.scanRows(ctx, opts)
	}

	var (
		values []T
		err    error
	)
	if tx := opts.Clone().Transaction; tx != nil {
		values, _, err = m.repo.ListTx(ctx, tx, Criteria(opts)...)
	} else {
		values, _, err = m.repo.List(ctx, Criteria(opts)...)
	}
	if err != nil {
		return nil, fmt.Errorf("bunmodel: find all in %s: %w", m.cfg.table, err)
	}

	recs := make([]*model.Record[T], len(values))
	for i, v := range values {
		recs[i] = &model.Record[T]{Value: v}
	}
	return recs, nil
}

// Count implements model.Model.
func (m *Model[T]) Count(ctx context.Context, opts *query.FindOptions) (int, error) {
	var (
		n   int
		err error
	)
	if tx := opts.Clone().Transaction; tx != nil {
		n, err = m.repo.CountTx(ctx, tx, CountCriteria(opts)...)
	} else {
		n, err = m.repo.Count(ctx, CountCriteria(opts)...)
	}
	if err != nil {
		return 0, fmt.Errorf("bunmodel: count %s: %w", m.cfg.table, err)
	}
	return n, nil
}

// scansMaps reports whether the rows must be read as maps: raw or plain
// output, or projected columns that T cannot hold.
func (m *Model[T]) scansMaps(opts *query.FindOptions) bool {
	if opts.WantsPlain() {
		return true
	}
	for _, a := range opts.Clone().Attributes {
		switch a.(type) {
		case query.As, query.Fn:
			return true
		}
	}
	return false
}

func (m *Model[T]) scanRows(ctx context.Context, opts *query.FindOptions) ([]*model.Record[T], error) {
	db := m.db
	if tx := opts.Clone().Transaction; tx != nil {
		db = tx
	}

	var rows []map[string]any
	q := Apply(db.NewSelect().Model((*T)(nil)), opts)
	if err := q.Scan(ctx, &rows); err != nil {
		return nil, fmt.Errorf("bunmodel: scan %s: %w", m.cfg.table, err)
	}

	recs := make([]*model.Record[T], len(rows))
	for i, row := range rows {
		normalizeRow(row)
		if opts.WantsPlain() {
			recs[i] = &model.Record[T]{Plain: row}
			continue
		}
		rec, err := m.fromRow(row)
		if err != nil {
			return nil, err
		}
		recs[i] = rec
	}
	return recs, nil
}

// fromRow fills Value from the declared columns of row and keeps the rest
// in Extra.
func (m *Model[T]) fromRow(row map[string]any) (*model.Record[T], error) {
	data, err := json.Marshal(row)
	if err != nil {
		return nil, fmt.Errorf("bunmodel: encode row: %w", err)
	}

	rec := &model.Record[T]{}
	if err := json.Unmarshal(data, &rec.Value); err != nil {
		return nil, fmt.Errorf("bunmodel: decode row into %T: %w", rec.Value, err)
	}

	declared := make(map[string]struct{}, len(m.attrs))
	for _, name := range m.attrs {
		declared[name] = struct{}{}
	}
	for k, v := range row {
		if _, ok := declared[k]; ok {
			continue
		}
		if rec.Extra == nil {
			rec.Extra = map[string]any{}
		}
		rec.Extra[k] = v
	}
	return rec, nil
}

// normalizeRow converts driver byte slices to strings and numbers to the
// int64/float64 forms used by cached records.
func normalizeRow(row map[string]any) {
	for k, v := range row {
		switch t := v.(type) {
		case []byte:
			row[k] = string(t)
		case int:
			row[k] = int64(t)
		case int32:
			row[k] = int64(t)
		case float32:
			row[k] = float64(t)
		default:
			row[k] = model.Normalize(v)
		}
	}
}
