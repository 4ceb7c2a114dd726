package cache

import (
	"slices"

	"github.com/goliatone/go-model-cache/query"
)

// IsCacheable reports whether every option set on opts is a recognized key.
// Absent options are cacheable.
func IsCacheable(opts *query.FindOptions) bool {
	return len(UnsupportedKeys(opts)) == 0
}

// UnsupportedKeys returns the option keys set on opts that are outside
// query.RecognizedKeys.
func UnsupportedKeys(opts *query.FindOptions) []string {
	var unsupported []string
	for _, key := range opts.Keys() {
		if !slices.Contains(query.RecognizedKeys, key) {
			unsupported = append(unsupported, key)
		}
	}
	return unsupported
}
