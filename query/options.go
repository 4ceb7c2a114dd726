package query

import (
	"github.com/uptrace/bun"
)

// Option key names as they appear in cache keys and policy decisions.
const (
	KeyWhere       = "where"
	KeyAttributes  = "attributes"
	KeyRaw         = "raw"
	KeyPlain       = "plain"
	KeyInclude     = "include"
	KeyTransaction = "transaction"
	KeyOrder       = "order"
	KeyGroup       = "group"
	KeyLimit       = "limit"
	KeyOffset      = "offset"
	KeyLock        = "lock"
)

// RecognizedKeys lists the option keys a cached call may carry.
var RecognizedKeys = []string{
	KeyWhere,
	KeyAttributes,
	KeyRaw,
	KeyPlain,
	KeyInclude,
	KeyTransaction,
}

// FindOptions enumerates the options accepted by model read operations.
//
// A zero field is treated as absent. Where, Attributes, Raw, Plain, Include
// and Transaction are the recognized options; Order, Group, Limit, Offset and
// Lock are understood by query engines but make a query impossible to cache.
type FindOptions struct {
	Where       Map
	Attributes  []any
	Raw         bool
	Plain       bool
	Include     []Include
	Transaction bun.IDB

	Order  []any
	Group  []string
	Limit  int
	Offset int
	Lock   string
}

// Keys returns the names of the options that are set, in declaration order.
func (o *FindOptions) Keys() []string {
	if o == nil {
		return nil
	}

	var keys []string
	if o.Where != nil {
		keys = append(keys, KeyWhere)
	}
	if o.Attributes != nil {
		keys = append(keys, KeyAttributes)
	}
	if o.Raw {
		keys = append(keys, KeyRaw)
	}
	if o.Plain {
		keys = append(keys, KeyPlain)
	}
	if o.Include != nil {
		keys = append(keys, KeyInclude)
	}
	if o.Transaction != nil {
		keys = append(keys, KeyTransaction)
	}
	if o.Order != nil {
		keys = append(keys, KeyOrder)
	}
	if o.Group != nil {
		keys = append(keys, KeyGroup)
	}
	if o.Limit != 0 {
		keys = append(keys, KeyLimit)
	}
	if o.Offset != 0 {
		keys = append(keys, KeyOffset)
	}
	if o.Lock != "" {
		keys = append(keys, KeyLock)
	}
	return keys
}

// IsEmpty reports whether no option is set.
func (o *FindOptions) IsEmpty() bool {
	return len(o.Keys()) == 0
}

// WantsPlain reports whether the caller asked for plain rows instead of records.
func (o *FindOptions) WantsPlain() bool {
	return o != nil && (o.Raw || o.Plain)
}

// Clone returns a shallow copy that is safe to modify at the top level.
// A nil receiver yields an empty FindOptions.
func (o *FindOptions) Clone() FindOptions {
	if o == nil {
		return FindOptions{}
	}
	return *o
}

// MarshalKey renders the set options as an ordered Map for key derivation.
func (o FindOptions) MarshalKey() any {
	m := Map{}
	if o.Where != nil {
		m = append(m, Pair{KeyWhere, o.Where})
	}
	if o.Attributes != nil {
		m = append(m, Pair{KeyAttributes, o.Attributes})
	}
	if o.Raw {
		m = append(m, Pair{KeyRaw, true})
	}
	if o.Plain {
		m = append(m, Pair{KeyPlain, true})
	}
	if o.Include != nil {
		m = append(m, Pair{KeyInclude, o.Include})
	}
	if o.Transaction != nil {
		m = append(m, Pair{KeyTransaction, o.Transaction})
	}
	if o.Order != nil {
		m = append(m, Pair{KeyOrder, o.Order})
	}
	if o.Group != nil {
		m = append(m, Pair{KeyGroup, o.Group})
	}
	if o.Limit != 0 {
		m = append(m, Pair{KeyLimit, o.Limit})
	}
	if o.Offset != 0 {
		m = append(m, Pair{KeyOffset, o.Offset})
	}
	if o.Lock != "" {
		m = append(m, Pair{KeyLock, o.Lock})
	}
	return m
}
