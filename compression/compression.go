// Package compression compresses cached payloads. The set of algorithms is
// closed; adding one means adding a case here.
package compression

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
)

// Algorithm names a payload compression algorithm.
type Algorithm string

const (
	None Algorithm = "none"
	Zlib Algorithm = "zlib"
	Zstd Algorithm = "zstd"
)

// Codec compresses and decompresses payloads with a single algorithm.
// Payloads do not record the algorithm that produced them.
type Codec interface {
	Algorithm() Algorithm
	Compress(src []byte) ([]byte, error)
	Decompress(src []byte) ([]byte, error)
}

// New returns the codec for alg. The empty algorithm is None.
func New(alg Algorithm) (Codec, error) {
	switch alg {
	case None, "":
		return noneCodec{}, nil
	case Zlib:
		return zlibCodec{}, nil
	case Zstd:
		return newZstdCodec()
	default:
		return nil, fmt.Errorf("compression: unknown algorithm %q", alg)
	}
}

type noneCodec struct{}

func (noneCodec) Algorithm() Algorithm { return None }

func (noneCodec) Compress(src []byte) ([]byte, error) { return src, nil }

func (noneCodec) Decompress(src []byte) ([]byte, error) { return src, nil }

type zlibCodec struct{}

func (zlibCodec) Algorithm() Algorithm { return Zlib }

func (zlibCodec) Compress(src []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(src); err != nil {
		return nil, fmt.Errorf("compression: zlib write: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("compression: zlib close: %w", err)
	}
	return buf.Bytes(), nil
}

func (zlibCodec) Decompress(src []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(src))
	if err != nil {
		return nil, fmt.Errorf("compression: zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("compression: zlib read: %w", err)
	}
	return out, nil
}

// zstdCodec shares one encoder and decoder; EncodeAll and DecodeAll are safe
// for concurrent use.
type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() (*zstdCodec, error) {
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("compression: zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("compression: zstd decoder: %w", err)
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (*zstdCodec) Algorithm() Algorithm { return Zstd }

func (c *zstdCodec) Compress(src []byte) ([]byte, error) {
	return c.enc.EncodeAll(src, nil), nil
}

func (c *zstdCodec) Decompress(src []byte) ([]byte, error) {
	out, err := c.dec.DecodeAll(src, nil)
	if err != nil {
		return nil, fmt.Errorf("compression: zstd decode: %w", err)
	}
	return out, nil
}
