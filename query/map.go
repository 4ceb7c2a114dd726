package query

// Pair is a single key/value entry of a Map.
type Pair struct {
	Key   string
	Value any
}

// Map is an ordered mapping used for filter predicates and nested option
// values. Iteration follows insertion order, so two maps with the same
// entries in a different order are different values for key derivation.
type Map []Pair

// Where operators. They are ordinary keys inside a column's Map value, or at
// the top level for $and / $or groups.
const (
	OpEq      = "$eq"
	OpNe      = "$ne"
	OpGt      = "$gt"
	OpGte     = "$gte"
	OpLt      = "$lt"
	OpLte     = "$lte"
	OpIn      = "$in"
	OpNotIn   = "$notIn"
	OpLike    = "$like"
	OpNotLike = "$notLike"
	OpIs      = "$is"
	OpAnd     = "$and"
	OpOr      = "$or"
)

// M builds a Map from alternating keys and values. A trailing key without a
// value is paired with nil.
func M(kv ...any) Map {
	m := make(Map, 0, (len(kv)+1)/2)
	for i := 0; i < len(kv); i += 2 {
		key, _ := kv[i].(string)
		var value any
		if i+1 < len(kv) {
			value = kv[i+1]
		}
		m = append(m, Pair{Key: key, Value: value})
	}
	return m
}

// Get returns the value stored under key.
func (m Map) Get(key string) (any, bool) {
	for _, p := range m {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Set returns a Map with key set to value, replacing an existing entry in
// place or appending a new one. The receiver is not modified.
func (m Map) Set(key string, value any) Map {
	out := make(Map, len(m), len(m)+1)
	copy(out, m)
	for i := range out {
		if out[i].Key == key {
			out[i].Value = value
			return out
		}
	}
	return append(out, Pair{Key: key, Value: value})
}

// Keys returns the keys in insertion order.
func (m Map) Keys() []string {
	keys := make([]string, len(m))
	for i, p := range m {
		keys[i] = p.Key
	}
	return keys
}
