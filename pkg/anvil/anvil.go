// Package anvil implements the region container format used by world saves.
//
// A region holds up to 1024 chunks arranged in a 32x32 grid. The first
// sector is a table of 1024 slot entries (3-byte big-endian sector index and
// a 1-byte sector count), the second sector holds one timestamp per slot and
// every following 4096-byte sector carries chunk payloads. Each payload is
// prefixed by a 4-byte big-endian length and a 1-byte compression type.
package anvil

// Layout constants must never change.
const (
	// SectorSize is the allocation unit of a region file.
	SectorSize = 4096

	// HeaderSize covers the slot table and the timestamp table.
	HeaderSize = 2 * SectorSize

	// ChunksPerSide is the width of a region in chunks.
	ChunksPerSide = 32

	// SlotCount is the number of chunk slots in a region.
	SlotCount = ChunksPerSide * ChunksPerSide

	// MaxChunkSectors is the largest sector count a single chunk may claim.
	MaxChunkSectors = 256

	// maxSectorIndex is the largest value a 3-byte slot index can hold.
	maxSectorIndex = 1<<24 - 1

	slotEntrySize    = 4
	chunkHeaderSize  = 5
	timestampOffset  = SectorSize
	chunkLengthBytes = 4
)

// Compression type codes stored after the payload length.
const (
	CompressionGzip         byte = 1
	CompressionZlib         byte = 2
	CompressionUncompressed byte = 3

	// CompressionExternal is set on top of the type code when the payload
	// lives in a separate .mcc file.
	CompressionExternal byte = 0x80
)

// TimestampMarker is written into the timestamp table for every chunk added
// with WriteChunk. Readers never interpret it.
const TimestampMarker uint32 = 1

// Slot is a decoded slot table entry.
type Slot struct {
	Sector uint32
	Count  uint8
}

// Absent reports whether the slot points at no chunk.
func (s Slot) Absent() bool {
	return s.Sector == 0 && s.Count == 0
}

// Offset is the byte offset of the slot's first sector.
func (s Slot) Offset() int {
	return int(s.Sector) * SectorSize
}

// Coord is a chunk position inside a region, both components in [0,32).
type Coord struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// SlotIndex maps chunk coordinates to a slot table index. Coordinates are
// wrapped into [0,32), so out-of-range values alias an in-range slot.
func SlotIndex(x, z int) int {
	return (x & (ChunksPerSide - 1)) | ((z & (ChunksPerSide - 1)) << 5)
}

// CoordOf is the inverse of SlotIndex for indexes in [0,SlotCount).
func CoordOf(index int) Coord {
	return Coord{X: index & (ChunksPerSide - 1), Z: (index >> 5) & (ChunksPerSide - 1)}
}
