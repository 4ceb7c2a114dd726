package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/goliatone/go-model-cache/pkg/logging"
	"github.com/goliatone/go-model-cache/query"
)

const (
	// KeySeparator defines the delimiter used between cache key segments.
	KeySeparator = ":"
	// DefaultKeyPrefix is the first key segment unless configured otherwise.
	DefaultKeyPrefix = "model-cache"

	hashedSegmentPrefix = "xxh64:"
)

// defaultKeyBuilder derives keys of the form
// <prefix>:<operation>:<table>:<canonical options>.
type defaultKeyBuilder struct {
	prefix       string
	maxKeyLength int
	logger       logging.Logger
}

// KeyBuilderOption customizes the default key builder.
type KeyBuilderOption func(*defaultKeyBuilder)

// WithMaxKeyLength hashes the options segment of keys longer than n bytes.
// Zero disables hashing.
func WithMaxKeyLength(n int) KeyBuilderOption {
	return func(k *defaultKeyBuilder) {
		k.maxKeyLength = n
	}
}

// WithKeyLogger sets the logger used to report encoding failures.
func WithKeyLogger(logger logging.Logger) KeyBuilderOption {
	return func(k *defaultKeyBuilder) {
		if logger != nil {
			k.logger = logger
		}
	}
}

// NewDefaultKeyBuilder creates the default key builder. An empty prefix falls
// back to DefaultKeyPrefix.
func NewDefaultKeyBuilder(prefix string, opts ...KeyBuilderOption) KeyBuilder {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	k := &defaultKeyBuilder{
		prefix: prefix,
		logger: logging.NopLogger{},
	}
	for _, opt := range opts {
		opt(k)
	}
	return k
}

// BuildKey implements KeyBuilder. Calls bound to a transaction and options
// without a canonical form yield no key.
func (k *defaultKeyBuilder) BuildKey(op query.Operation, entity query.Entity, opts *query.FindOptions) (string, bool) {
	if opts != nil && opts.Transaction != nil {
		return "", false
	}

	table := entity.TableName()

	var keyed any = query.Map{}
	if opts != nil {
		keyed = opts.MarshalKey()
	}

	encoded, err := EncodeCanonical(keyed)
	if err != nil {
		k.logger.Warn("unable to derive cache key",
			"operation", op.String(),
			"table", table,
			"options", DescribeOptions(opts),
			"error", err,
		)
		return "", false
	}

	key := strings.Join([]string{k.prefix, op.String(), table, encoded}, KeySeparator)
	if k.maxKeyLength > 0 && len(key) > k.maxKeyLength {
		hashed := hashedSegmentPrefix + strconv.FormatUint(xxhash.Sum64String(encoded), 16)
		key = strings.Join([]string{k.prefix, op.String(), table, hashed}, KeySeparator)
	}
	return key, true
}

// DescribeOptions renders opts for log output: the canonical encoding when
// one exists, otherwise a best-effort dump. A transaction is reported as a
// suffix rather than encoded.
func DescribeOptions(opts *query.FindOptions) string {
	if opts == nil {
		return "{}"
	}

	shown := opts.Clone()
	inTx := shown.Transaction != nil
	shown.Transaction = nil

	keyed := shown.MarshalKey()
	text, err := EncodeCanonical(keyed)
	if err != nil {
		text = fmt.Sprintf("%v", keyed)
	}
	if inTx {
		text += " in transaction"
	}
	return text
}
