package anvil

import (
	"encoding/binary"
	"fmt"
	"iter"
	"math"
)

// OverrunPolicy selects what ReadChunk does when a payload's declared length
// runs to or past the end of the region buffer.
type OverrunPolicy uint8

const (
	// OverrunLegacy clamps the payload end to len(buffer)-1. A payload that
	// ends exactly on the buffer end therefore loses its final byte. This
	// matches the behaviour of the tool that produced the existing trimmed
	// worlds and stays the default.
	OverrunLegacy OverrunPolicy = iota

	// OverrunStrict accepts payloads ending exactly on the buffer end and
	// fails with ErrChunkOverrun when the declared length runs past it.
	OverrunStrict
)

func (p OverrunPolicy) String() string {
	switch p {
	case OverrunLegacy:
		return "legacy"
	case OverrunStrict:
		return "strict"
	default:
		return fmt.Sprintf("policy(%d)", uint8(p))
	}
}

// Region owns the bytes of one region file. Its length is at least
// HeaderSize; WriteChunk keeps it a multiple of SectorSize.
type Region struct {
	data    []byte
	overrun OverrunPolicy
}

// Open wraps buf as a region. The region takes ownership of buf.
func Open(buf []byte) (*Region, error) {
	if len(buf) < HeaderSize {
		return nil, ErrContainerTooSmall
	}
	return &Region{data: buf}, nil
}

// Empty returns a region with a zeroed header and no chunks.
func Empty() *Region {
	return &Region{data: make([]byte, HeaderSize)}
}

// SetOverrunPolicy changes how ReadChunk treats overrunning payloads.
func (r *Region) SetOverrunPolicy(p OverrunPolicy) {
	r.overrun = p
}

// Bytes returns the region's backing buffer. The slice is invalidated by
// the next WriteChunk.
func (r *Region) Bytes() []byte {
	return r.data
}

// Len is the size of the region buffer in bytes.
func (r *Region) Len() int {
	return len(r.data)
}

// Slot reads the slot table entry for (x, z).
func (r *Region) Slot(x, z int) Slot {
	off := SlotIndex(x, z) * slotEntrySize
	e := r.data[off : off+slotEntrySize]
	return Slot{
		Sector: uint32(e[0])<<16 | uint32(e[1])<<8 | uint32(e[2]),
		Count:  e[3],
	}
}

// SetSlot writes the slot table entry for (x, z). Sector indexes above the
// 3-byte range are truncated to their low 24 bits.
func (r *Region) SetSlot(x, z int, s Slot) {
	off := SlotIndex(x, z) * slotEntrySize
	e := r.data[off : off+slotEntrySize]
	e[0] = byte(s.Sector >> 16)
	e[1] = byte(s.Sector >> 8)
	e[2] = byte(s.Sector)
	e[3] = s.Count
}

// Timestamp reads the timestamp table entry for (x, z).
func (r *Region) Timestamp(x, z int) uint32 {
	off := timestampOffset + SlotIndex(x, z)*slotEntrySize
	return binary.BigEndian.Uint32(r.data[off:])
}

func (r *Region) setTimestamp(x, z int, v uint32) {
	off := timestampOffset + SlotIndex(x, z)*slotEntrySize
	binary.BigEndian.PutUint32(r.data[off:], v)
}

// Present lists the coordinates of every non-empty slot in slot index order.
func (r *Region) Present() []Coord {
	var out []Coord
	for c := range r.Chunks() {
		out = append(out, c)
	}
	return out
}

// Chunks yields the coordinates and slot of every non-empty slot in slot
// index order.
func (r *Region) Chunks() iter.Seq2[Coord, Slot] {
	return func(yield func(Coord, Slot) bool) {
		for i := range SlotCount {
			c := CoordOf(i)
			s := r.Slot(c.X, c.Z)
			if s.Absent() {
				continue
			}
			if !yield(c, s) {
				return
			}
		}
	}
}

// ChunkInfo describes a present chunk's sub-header.
type ChunkInfo struct {
	Slot        Slot
	Length      uint32
	Compression byte
}

// Info reads the slot and sub-header for (x, z) without touching the payload.
func (r *Region) Info(x, z int) (ChunkInfo, error) {
	s := r.Slot(x, z)
	if s.Absent() {
		return ChunkInfo{}, ErrChunkAbsent
	}
	off := s.Offset()
	if off+chunkHeaderSize > len(r.data) {
		return ChunkInfo{}, fmt.Errorf("%w: chunk (%d,%d) header at %d, region is %d bytes",
			ErrChunkOutOfBounds, x&31, z&31, off, len(r.data))
	}
	return ChunkInfo{
		Slot:        s,
		Length:      binary.BigEndian.Uint32(r.data[off:]),
		Compression: r.data[off+chunkLengthBytes],
	}, nil
}

// ReadChunk returns the still-compressed payload stored for (x, z).
// Coordinates are wrapped into [0,32). The returned slice aliases the region
// buffer and must be copied if kept past the next WriteChunk.
func (r *Region) ReadChunk(x, z int) ([]byte, error) {
	s := r.Slot(x, z)
	if s.Absent() {
		return nil, ErrChunkAbsent
	}

	off := s.Offset()
	if off+chunkLengthBytes > len(r.data) {
		return nil, fmt.Errorf("%w: chunk (%d,%d) at sector %d, region is %d bytes",
			ErrChunkOutOfBounds, x&31, z&31, s.Sector, len(r.data))
	}
	length := binary.BigEndian.Uint32(r.data[off:])

	start := off + chunkHeaderSize
	if start >= len(r.data) {
		return nil, fmt.Errorf("%w: chunk (%d,%d) payload starts at %d, region is %d bytes",
			ErrChunkOutOfBounds, x&31, z&31, start, len(r.data))
	}
	end, err := r.payloadEnd(start, length)
	if err != nil {
		return nil, fmt.Errorf("%w: chunk (%d,%d)", err, x&31, z&31)
	}
	return r.data[start:end], nil
}

// payloadEnd applies the overrun policy to a payload starting at start.
func (r *Region) payloadEnd(start int, length uint32) (int, error) {
	end := start + int(length)
	if end < len(r.data) {
		return end, nil
	}
	switch r.overrun {
	case OverrunStrict:
		if end > len(r.data) {
			return 0, ErrChunkOverrun
		}
		return end, nil
	default:
		return clampLegacy(len(r.data)), nil
	}
}

// clampLegacy is the end offset used for payloads reaching the buffer end
// under OverrunLegacy.
func clampLegacy(bufLen int) int {
	return bufLen - 1
}

// WriteChunk appends payload as the chunk for (x, z) and points the slot at
// it. The slot's sector count is derived from uncompressedSize (the size of
// the decoded document, not of payload) shifted down to whole sectors; a
// count above MaxChunkSectors fails with ErrSectorLimitExceeded. A count of
// exactly MaxChunkSectors is stored in the 1-byte field as 0.
//
// Space previously used by the slot is never reclaimed.
func (r *Region) WriteChunk(x, z int, payload []byte, uncompressedSize uint32) error {
	sectors := uncompressedSize >> 12
	if sectors > MaxChunkSectors {
		return fmt.Errorf("%w: %d sectors for chunk (%d,%d)", ErrSectorLimitExceeded, sectors, x&31, z&31)
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return fmt.Errorf("%w: payload of %d bytes", ErrSectorLimitExceeded, len(payload))
	}

	// Regions opened from disk are not guaranteed to end on a sector boundary.
	r.data = padToSector(r.data)
	sector := len(r.data) / SectorSize
	if sector > maxSectorIndex {
		return ErrRegionFull
	}

	var hdr [chunkHeaderSize]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))
	hdr[chunkLengthBytes] = CompressionZlib

	r.data = append(r.data, hdr[:]...)
	r.data = append(r.data, payload...)
	r.data = padToSector(r.data)

	r.SetSlot(x, z, Slot{Sector: uint32(sector), Count: uint8(sectors)})
	r.setTimestamp(x, z, TimestampMarker)
	return nil
}

func padToSector(b []byte) []byte {
	rem := len(b) % SectorSize
	if rem == 0 {
		return b
	}
	return append(b, make([]byte, SectorSize-rem)...)
}
