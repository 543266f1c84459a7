// Package toy builds small synthetic region files for tests and
// benchmarks. Chunk documents carry a realistic handful of fields around
// InhabitedTime in either the current flat layout or the legacy layout that
// nests everything under a Level compound.
package toy

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/samcharles93/regiontrim/internal/compress"
	"github.com/samcharles93/regiontrim/pkg/anvil"
)

// Layout selects where InhabitedTime lives in a chunk document.
type Layout int

const (
	// Flat puts InhabitedTime directly in the root compound.
	Flat Layout = iota
	// Legacy nests it under a Level compound next to DataVersion.
	Legacy
)

const dataVersion = 3700

// tag ids, duplicated here so the package does not need an encoder in nbt.
const (
	tagEnd      = 0
	tagByte     = 1
	tagInt      = 3
	tagLong     = 4
	tagString   = 8
	tagList     = 9
	tagCompound = 10
)

type doc []byte

func (d doc) header(id byte, name string) doc {
	d = append(d, id)
	d = binary.BigEndian.AppendUint16(d, uint16(len(name)))
	return append(d, name...)
}

func (d doc) long(name string, v int64) doc {
	return binary.BigEndian.AppendUint64(d.header(tagLong, name), uint64(v))
}

func (d doc) int(name string, v int32) doc {
	return binary.BigEndian.AppendUint32(d.header(tagInt, name), uint32(v))
}

func (d doc) str(name, v string) doc {
	d = binary.BigEndian.AppendUint16(d.header(tagString, name), uint16(len(v)))
	return append(d, v...)
}

// sections writes a list of n compounds, each holding a byte Y.
func (d doc) sections(name string, n int) doc {
	d = append(d.header(tagList, name), tagCompound)
	d = binary.BigEndian.AppendUint32(d, uint32(n))
	for y := range n {
		d = append(d.header(tagByte, "Y"), byte(int8(y-4)))
		d = append(d, tagEnd)
	}
	return d
}

// ChunkDoc returns the encoded document of chunk (x, z) with the given
// InhabitedTime.
func ChunkDoc(x, z int, inhabited int64, layout Layout) []byte {
	d := doc(nil).header(tagCompound, "")
	switch layout {
	case Legacy:
		d = d.int("DataVersion", 1343)
		d = d.header(tagCompound, "Level")
		d = d.int("xPos", int32(x))
		d = d.int("zPos", int32(z))
		d = d.long("LastUpdate", 100)
		d = d.long("InhabitedTime", inhabited)
		d = d.sections("Sections", 2)
		d = append(d, tagEnd)
	default:
		d = d.int("DataVersion", dataVersion)
		d = d.int("xPos", int32(x))
		d = d.int("zPos", int32(z))
		d = d.str("Status", "minecraft:full")
		d = d.long("InhabitedTime", inhabited)
		d = d.sections("sections", 3)
	}
	return append(d, tagEnd)
}

// Region builds region bytes holding one zlib-compressed chunk per entry
// of chunks, keyed by coordinate with the chunk's InhabitedTime as value.
func Region(chunks map[anvil.Coord]int64, layout Layout) ([]byte, error) {
	r := anvil.Empty()
	for i := range anvil.SlotCount {
		c := anvil.CoordOf(i)
		t, ok := chunks[c]
		if !ok {
			continue
		}
		raw := ChunkDoc(c.X, c.Z, t, layout)
		payload, err := compress.Compress(raw)
		if err != nil {
			return nil, err
		}
		if len(raw) > math.MaxUint32 {
			return nil, fmt.Errorf("toy: chunk (%d,%d) too large", c.X, c.Z)
		}
		if err := r.WriteChunk(c.X, c.Z, payload, uint32(len(raw))); err != nil {
			return nil, err
		}
	}
	return r.Bytes(), nil
}

// WriteRegion writes Region(chunks, layout) to path.
func WriteRegion(path string, chunks map[anvil.Coord]int64, layout Layout) error {
	b, err := Region(chunks, layout)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// RawChunk writes payload verbatim as chunk (x, z) of a fresh region and
// returns the region bytes. It is used to plant undecodable chunks.
func RawChunk(x, z int, payload []byte) ([]byte, error) {
	r := anvil.Empty()
	if err := r.WriteChunk(x, z, payload, 0); err != nil {
		return nil, err
	}
	return r.Bytes(), nil
}
