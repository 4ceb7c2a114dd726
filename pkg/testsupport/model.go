package testsupport

import (
	"context"
	"fmt"
	"sync"

	"github.com/goliatone/go-model-cache/model"
	"github.com/goliatone/go-model-cache/query"
)

// FakeModel is an in-memory model.Model[T] that counts executed queries.
//
// Rows are matched with Match, or all rows match when Match is nil.
// FindByPk compares KeyOf(row) with the requested key by their printed form.
// Plain or raw options return rows as Plain maps.
type FakeModel[T any] struct {
	Table string
	PK    string
	Rows  []*model.Record[T]
	KeyOf func(T) any
	Match func(rec *model.Record[T], where query.Map) bool
	// Err, when set, is returned by every query.
	Err error

	mu    sync.Mutex
	calls map[query.Operation]int
	opts  []*query.FindOptions
}

// TableName implements query.Entity.
func (f *FakeModel[T]) TableName() string {
	return f.Table
}

// PrimaryKey implements model.Model.
func (f *FakeModel[T]) PrimaryKey() string {
	if f.PK == "" {
		return "id"
	}
	return f.PK
}

// Attributes implements model.Model.
func (f *FakeModel[T]) Attributes() []string {
	return model.AttributesOf[T]()
}

func (f *FakeModel[T]) track(op query.Operation, opts *query.FindOptions) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.calls == nil {
		f.calls = map[query.Operation]int{}
	}
	f.calls[op]++
	f.opts = append(f.opts, opts)
}

// Calls returns how many times op reached the model.
func (f *FakeModel[T]) Calls(op query.Operation) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// TotalCalls returns how many queries reached the model.
func (f *FakeModel[T]) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// LastOptions returns the options passed to the most recent query.
func (f *FakeModel[T]) LastOptions() *query.FindOptions {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.opts) == 0 {
		return nil
	}
	return f.opts[len(f.opts)-1]
}

func (f *FakeModel[T]) matching(opts *query.FindOptions) []*model.Record[T] {
	var where query.Map
	if opts != nil {
		where = opts.Where
	}
	var out []*model.Record[T]
	for _, rec := range f.Rows {
		if f.Match == nil || f.Match(rec, where) {
			out = append(out, rec)
		}
	}
	return out
}

func (f *FakeModel[T]) shape(rec *model.Record[T], opts *query.FindOptions) (*model.Record[T], error) {
	if rec == nil {
		return nil, nil
	}
	if !opts.WantsPlain() {
		out := &model.Record[T]{Value: rec.Value}
		if len(rec.Extra) > 0 {
			out.Extra = make(map[string]any, len(rec.Extra))
			for k, v := range rec.Extra {
				out.Extra[k] = v
			}
		}
		return out, nil
	}

	values, err := rec.Values()
	if err != nil {
		return nil, err
	}
	return &model.Record[T]{Plain: values}, nil
}

// FindByPk implements model.Model.
func (f *FakeModel[T]) FindByPk(_ context.Context, pk any, opts *query.FindOptions) (*model.Record[T], error) {
	f.track(query.OpFindByPk, opts)
	if f.Err != nil {
		return nil, f.Err
	}
	if f.KeyOf == nil {
		return nil, fmt.Errorf("testsupport: FakeModel.KeyOf is not set")
	}

	var where query.Map
	if opts != nil {
		where = opts.Where
	}

	for _, rec := range f.Rows {
		if fmt.Sprint(f.KeyOf(rec.Value)) != fmt.Sprint(pk) {
			continue
		}
		if f.Match != nil && !f.Match(rec, where) {
			return nil, nil
		}
		return f.shape(rec, opts)
	}
	return nil, nil
}

// FindOne implements model.Model.
func (f *FakeModel[T]) FindOne(_ context.Context, opts *query.FindOptions) (*model.Record[T], error) {
	f.track(query.OpFindOne, opts)
	if f.Err != nil {
		return nil, f.Err
	}

	rows := f.matching(opts)
	if len(rows) == 0 {
		return nil, nil
	}
	return f.shape(rows[0], opts)
}

// FindAll implements model.Model.
func (f *FakeModel[T]) FindAll(_ context.Context, opts *query.FindOptions) ([]*model.Record[T], error) {
	f.track(query.OpFindAll, opts)
	if f.Err != nil {
		return nil, f.Err
	}

	rows := f.matching(opts)
	out := make([]*model.Record[T], 0, len(rows))
	for _, rec := range rows {
		shaped, err := f.shape(rec, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, shaped)
	}
	return out, nil
}

// Count implements model.Model.
func (f *FakeModel[T]) Count(_ context.Context, opts *query.FindOptions) (int, error) {
	f.track(query.OpCount, opts)
	if f.Err != nil {
		return 0, f.Err
	}
	return len(f.matching(opts)), nil
}

var _ model.Model[struct{}] = (*FakeModel[struct{}])(nil)
