// Package model defines the query engine contract consumed by the model
// cache and the typed record shape shared by live and cached results.
package model

import (
	"context"

	"github.com/goliatone/go-model-cache/query"
)

// Model is a queryable entity backed by a system of record.
//
// FindByPk and FindOne return a nil record when no row matches. When the
// options ask for raw or plain rows, records carry the row in Plain instead
// of a typed Value.
type Model[T any] interface {
	query.Entity

	// PrimaryKey returns the primary key attribute name.
	PrimaryKey() string

	// Attributes returns the declared attribute names of T.
	Attributes() []string

	FindByPk(ctx context.Context, pk any, opts *query.FindOptions) (*Record[T], error)
	FindOne(ctx context.Context, opts *query.FindOptions) (*Record[T], error)
	FindAll(ctx context.Context, opts *query.FindOptions) ([]*Record[T], error)
	Count(ctx context.Context, opts *query.FindOptions) (int, error)
}
