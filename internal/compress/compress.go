// Package compress wraps the transforms applied to region chunk payloads.
package compress

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"github.com/samcharles93/regiontrim/pkg/anvil"
)

var (
	// ErrEmptyResult is returned when a payload decompresses to zero bytes.
	ErrEmptyResult = errors.New("compress: empty result")
	// ErrResultTooLarge is returned when a payload inflates past the limit.
	ErrResultTooLarge = errors.New("compress: result too large")
	// ErrUnsupportedType is returned for compression type codes Inflate
	// cannot decode.
	ErrUnsupportedType = errors.New("compress: unsupported compression type")
)

// MaxInflatedSize caps Decompress output. A chunk that fits back into a
// region inflates to about 1 MiB.
const MaxInflatedSize = 256 << 20

// Decompress inflates a zlib stream of at most MaxInflatedSize bytes.
func Decompress(payload []byte) ([]byte, error) {
	return DecompressLimit(payload, MaxInflatedSize)
}

// DecompressLimit inflates a zlib stream, failing with ErrResultTooLarge
// once the output passes limit bytes.
func DecompressLimit(payload []byte, limit int64) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("compress: open zlib stream: %w", err)
	}
	defer zr.Close()
	return drain(zr, len(payload), limit)
}

// Inflate decodes a payload stored with the given chunk compression type.
// Chunks kept in external files are reported as unsupported.
func Inflate(code byte, payload []byte) ([]byte, error) {
	switch code {
	case anvil.CompressionZlib:
		return Decompress(payload)
	case anvil.CompressionGzip:
		gr, err := gzip.NewReader(bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("compress: open gzip stream: %w", err)
		}
		defer gr.Close()
		return drain(gr, len(payload), MaxInflatedSize)
	case anvil.CompressionUncompressed:
		if len(payload) == 0 {
			return nil, ErrEmptyResult
		}
		return bytes.Clone(payload), nil
	}
	if code&anvil.CompressionExternal != 0 {
		return nil, fmt.Errorf("%w %d: payload stored in an external file", ErrUnsupportedType, code)
	}
	return nil, fmt.Errorf("%w %d", ErrUnsupportedType, code)
}

func drain(r io.Reader, compressed int, limit int64) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(int(min(int64(compressed)*4, limit)))
	n, err := io.Copy(&out, io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("compress: inflate: %w", err)
	}
	if n > limit {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrResultTooLarge, limit)
	}
	if out.Len() == 0 {
		return nil, ErrEmptyResult
	}
	return out.Bytes(), nil
}

// Compress deflates data into a zlib stream at the default level.
func Compress(data []byte) ([]byte, error) {
	var out bytes.Buffer
	zw := zlib.NewWriter(&out)
	if _, err := zw.Write(data); err != nil {
		zw.Close()
		return nil, fmt.Errorf("compress: deflate: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("compress: deflate: %w", err)
	}
	return out.Bytes(), nil
}
