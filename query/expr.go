package query

// Entity is a reference to a model, rendered by its table name.
type Entity interface {
	TableName() string
}

// KeyMarshaler is implemented by option values that provide their own
// canonical form. The returned value is encoded in their place.
type KeyMarshaler interface {
	MarshalKey() any
}

// Fn is a SQL function call such as COUNT(id).
type Fn struct {
	Name string
	Args []any
}

// MarshalKey implements KeyMarshaler.
func (f Fn) MarshalKey() any {
	args := f.Args
	if args == nil {
		args = []any{}
	}
	return Map{{"fn", f.Name}, {"args", args}}
}

// Col references a column by name.
type Col string

// MarshalKey implements KeyMarshaler.
func (c Col) MarshalKey() any {
	return Map{{"col", string(c)}}
}

// As aliases a projected expression. Expr is a column name, Col or Fn.
type As struct {
	Expr any
	Name string
}

// MarshalKey implements KeyMarshaler.
func (a As) MarshalKey() any {
	return []any{a.Expr, a.Name}
}

// Count is shorthand for COUNT(col) AS name.
func Count(col, name string) As {
	return As{Expr: Fn{Name: "COUNT", Args: []any{Col(col)}}, Name: name}
}

// Include joins a related model into the query.
type Include struct {
	Model      Entity
	As         string
	Required   bool
	Attributes []any
	Where      Map
}

// MarshalKey implements KeyMarshaler.
func (i Include) MarshalKey() any {
	m := Map{}
	if i.Required {
		m = append(m, Pair{"required", true})
	}
	if i.Attributes != nil {
		m = append(m, Pair{"attributes", i.Attributes})
	}
	if i.Model != nil {
		m = append(m, Pair{"model", i.Model})
	}
	if i.As != "" {
		m = append(m, Pair{"as", i.As})
	}
	if i.Where != nil {
		m = append(m, Pair{"where", i.Where})
	}
	return m
}

// Relation returns the relation name used to join the include.
func (i Include) Relation() string {
	if i.As != "" {
		return i.As
	}
	if i.Model != nil {
		return i.Model.TableName()
	}
	return ""
}
