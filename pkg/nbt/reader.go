package nbt

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
)

// maxUnsizedRead bounds single allocations when the input length is unknown,
// so a corrupt length prefix cannot force a huge allocation up front.
const maxUnsizedRead = 64 << 10

// MaxDepth is the deepest list or compound nesting Decode accepts. The
// root container counts as depth 1.
const MaxDepth = 512

// reader is a sequential big-endian cursor. When size is positive it is the
// total input length and reads past it fail before touching the stream.
type reader struct {
	r    io.Reader
	off  int64
	size int64
	// depth is the number of lists and compounds currently open.
	depth int
	buf   [8]byte
}

func newReader(rd io.Reader, size int64) *reader {
	if _, ok := rd.(io.ByteReader); !ok {
		rd = bufio.NewReader(rd)
	}
	return &reader{r: rd, size: size}
}

func newBytesReader(b []byte) *reader {
	return &reader{r: bytes.NewReader(b), size: int64(len(b))}
}

// remaining reports the unread byte count, or -1 when the size is unknown.
func (r *reader) remaining() int64 {
	if r.size <= 0 {
		return -1
	}
	return r.size - r.off
}

func (r *reader) fill(p []byte) error {
	if r.size > 0 && r.off+int64(len(p)) > r.size {
		return fmt.Errorf("%w: need %d bytes at offset %d of %d", ErrTruncatedDocument, len(p), r.off, r.size)
	}
	n, err := io.ReadFull(r.r, p)
	r.off += int64(n)
	if err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncatedDocument, len(p), r.off-int64(n))
		}
		return err
	}
	return nil
}

func (r *reader) readN(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: invalid read length %d", ErrTruncatedDocument, n)
	}
	if r.size > 0 || n <= maxUnsizedRead {
		buf := make([]byte, n)
		if err := r.fill(buf); err != nil {
			return nil, err
		}
		return buf, nil
	}
	buf := make([]byte, 0, maxUnsizedRead)
	for len(buf) < n {
		step := min(n-len(buf), maxUnsizedRead)
		buf = append(buf, make([]byte, step)...)
		if err := r.fill(buf[len(buf)-step:]); err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (r *reader) enter() error {
	r.depth++
	if r.depth > MaxDepth {
		return fmt.Errorf("%w: more than %d levels at offset %d", ErrDocumentTooDeep, MaxDepth, r.off)
	}
	return nil
}

func (r *reader) leave() {
	r.depth--
}

func (r *reader) readU8() (uint8, error) {
	if err := r.fill(r.buf[:1]); err != nil {
		return 0, err
	}
	return r.buf[0], nil
}

func (r *reader) readI8() (int8, error) {
	v, err := r.readU8()
	return int8(v), err
}

func (r *reader) readU16() (uint16, error) {
	if err := r.fill(r.buf[:2]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(r.buf[:2]), nil
}

func (r *reader) readI16() (int16, error) {
	v, err := r.readU16()
	return int16(v), err
}

func (r *reader) readU32() (uint32, error) {
	if err := r.fill(r.buf[:4]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(r.buf[:4]), nil
}

func (r *reader) readI32() (int32, error) {
	v, err := r.readU32()
	return int32(v), err
}

func (r *reader) readU64() (uint64, error) {
	if err := r.fill(r.buf[:8]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(r.buf[:8]), nil
}

func (r *reader) readI64() (int64, error) {
	v, err := r.readU64()
	return int64(v), err
}

func (r *reader) readF32() (float32, error) {
	u, err := r.readU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(u), nil
}

func (r *reader) readF64() (float64, error) {
	u, err := r.readU64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(u), nil
}

// readString reads a 2-byte length-prefixed string. Invalid UTF-8 sequences
// are replaced with U+FFFD.
func (r *reader) readString() (string, error) {
	n, err := r.readU16()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	b, err := r.readN(int(n))
	if err != nil {
		return "", err
	}
	return strings.ToValidUTF8(string(b), "\uFFFD"), nil
}

// readCount reads a 4-byte element count and checks that count elements of
// width bytes can still be present in the input.
func (r *reader) readCount(width int) (int, error) {
	u, err := r.readU32()
	if err != nil {
		return 0, err
	}
	n := int64(u)
	if rem := r.remaining(); rem >= 0 && width > 0 && n*int64(width) > rem {
		return 0, fmt.Errorf("%w: %d elements of %d bytes at offset %d, %d bytes left",
			ErrTruncatedDocument, n, width, r.off, rem)
	}
	return int(n), nil
}
