// Package query describes model read queries: the operation kind, the
// target entity and the options that shape the query.
package query

// Operation identifies a model read operation.
type Operation string

const (
	OpFindByPk Operation = "findByPk"
	OpFindOne  Operation = "findOne"
	OpFindAll  Operation = "findAll"
	OpCount    Operation = "count"
)

func (o Operation) String() string {
	return string(o)
}

// Many reports whether the operation returns a collection.
func (o Operation) Many() bool {
	return o == OpFindAll
}
