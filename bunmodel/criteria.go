package bunmodel

import (
	"reflect"
	"strings"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-model-cache/query"
)

var comparisons = map[string]string{
	query.OpEq:      "=",
	query.OpNe:      "<>",
	query.OpGt:      ">",
	query.OpGte:     ">=",
	query.OpLt:      "<",
	query.OpLte:     "<=",
	query.OpLike:    "LIKE",
	query.OpNotLike: "NOT LIKE",
}

// Criteria returns the select criteria for opts, for use with
// repository.Repository read methods.
func Criteria(opts *query.FindOptions) []repository.SelectCriteria {
	if opts.IsEmpty() {
		return nil
	}
	return []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery { return Apply(q, opts) },
	}
}

// CountCriteria is Criteria restricted to the options that change which rows
// match: where and include.
func CountCriteria(opts *query.FindOptions) []repository.SelectCriteria {
	if opts == nil {
		return nil
	}
	filter := &query.FindOptions{Where: opts.Where, Include: opts.Include}
	if filter.IsEmpty() {
		return nil
	}
	return []repository.SelectCriteria{
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = applyWhere(q, filter.Where)
			return applyIncludes(q, filter.Include, false)
		},
	}
}

// Apply adds opts to q. Transaction and the raw/plain flags select how the
// query runs and are ignored here.
func Apply(q *bun.SelectQuery, opts *query.FindOptions) *bun.SelectQuery {
	if opts == nil {
		return q
	}

	q = applyWhere(q, opts.Where)
	q = applyAttributes(q, opts.Attributes)
	q = applyIncludes(q, opts.Include, true)

	for _, o := range opts.Order {
		switch v := o.(type) {
		case string:
			q = q.Order(v)
		case query.Col:
			q = q.OrderExpr("? ASC", column(string(v)))
		case query.Fn:
			q = q.OrderExpr("?", fnExpr(v))
		}
	}
	if len(opts.Group) > 0 {
		q = q.Group(opts.Group...)
	}
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		q = q.Offset(opts.Offset)
	}
	if opts.Lock != "" {
		q = q.For(opts.Lock)
	}
	return q
}

func applyWhere(q *bun.SelectQuery, where query.Map) *bun.SelectQuery {
	for _, p := range where {
		switch p.Key {
		case query.OpAnd:
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				for _, sub := range subMaps(p.Value) {
					q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
						return applyWhere(q, sub)
					})
				}
				return q
			})
		case query.OpOr:
			q = q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
				for _, sub := range subMaps(p.Value) {
					q = q.WhereGroup(" OR ", func(q *bun.SelectQuery) *bun.SelectQuery {
						return applyWhere(q, sub)
					})
				}
				return q
			})
		default:
			q = applyPredicate(q, p.Key, p.Value)
		}
	}
	return q
}

func subMaps(v any) []query.Map {
	switch t := v.(type) {
	case query.Map:
		out := make([]query.Map, len(t))
		for i, p := range t {
			out[i] = query.Map{p}
		}
		return out
	case []query.Map:
		return t
	case []any:
		var out []query.Map
		for _, item := range t {
			if m, ok := item.(query.Map); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

func applyPredicate(q *bun.SelectQuery, col string, value any) *bun.SelectQuery {
	ops, ok := value.(query.Map)
	if !ok || !isOperatorMap(ops) {
		return compare(q, col, query.OpEq, value)
	}
	for _, op := range ops {
		q = compare(q, col, op.Key, op.Value)
	}
	return q
}

func isOperatorMap(m query.Map) bool {
	for _, p := range m {
		if !strings.HasPrefix(p.Key, "$") {
			return false
		}
	}
	return len(m) > 0
}

func compare(q *bun.SelectQuery, col, op string, value any) *bun.SelectQuery {
	ident := column(col)

	switch op {
	case query.OpIn:
		return q.Where("? IN (?)", ident, bun.In(value))
	case query.OpNotIn:
		return q.Where("? NOT IN (?)", ident, bun.In(value))
	case query.OpIs:
		if value == nil {
			return q.Where("? IS NULL", ident)
		}
		return q.Where("? IS ?", ident, value)
	case query.OpEq:
		if value == nil {
			return q.Where("? IS NULL", ident)
		}
		if isList(value) {
			return q.Where("? IN (?)", ident, bun.In(value))
		}
	case query.OpNe:
		if value == nil {
			return q.Where("? IS NOT NULL", ident)
		}
	}

	sqlOp, ok := comparisons[op]
	if !ok {
		sqlOp = "="
	}
	return q.Where("? "+sqlOp+" ?", ident, value)
}

func isList(v any) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}

// column qualifies bare names with the model alias. Dotted names are used as
// given.
func column(name string) any {
	if strings.Contains(name, ".") {
		return bun.Ident(name)
	}
	return bun.SafeQuery("?TableAlias.?", bun.Ident(name))
}

func applyAttributes(q *bun.SelectQuery, attrs []any) *bun.SelectQuery {
	for _, a := range attrs {
		switch v := a.(type) {
		case string:
			q = q.Column(v)
		case query.Col:
			q = q.Column(string(v))
		case query.Fn:
			q = q.ColumnExpr("?", fnExpr(v))
		case query.As:
			q = q.ColumnExpr("? AS ?", expr(v.Expr), bun.Ident(v.Name))
		}
	}
	return q
}

func applyIncludes(q *bun.SelectQuery, includes []query.Include, project bool) *bun.SelectQuery {
	for _, inc := range includes {
		name := inc.Relation()
		if name == "" {
			continue
		}
		q = q.Relation(name, func(q *bun.SelectQuery) *bun.SelectQuery {
			if project {
				q = applyAttributes(q, inc.Attributes)
			}
			return applyWhere(q, inc.Where)
		})
	}
	return q
}

func expr(v any) any {
	switch t := v.(type) {
	case string:
		if t == "*" {
			return bun.Safe("*")
		}
		return column(t)
	case query.Col:
		return column(string(t))
	case query.Fn:
		return fnExpr(t)
	}
	return v
}

func fnExpr(f query.Fn) any {
	placeholders := make([]string, len(f.Args))
	args := make([]any, len(f.Args))
	for i, a := range f.Args {
		placeholders[i] = "?"
		args[i] = expr(a)
	}
	return bun.SafeQuery(sanitizeFn(f.Name)+"("+strings.Join(placeholders, ", ")+")", args...)
}

// sanitizeFn keeps letters, digits and underscores of a function name.
func sanitizeFn(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return -1
	}, name)
}
