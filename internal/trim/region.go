package trim

import (
	"errors"
	"fmt"
	"math"

	"github.com/samcharles93/regiontrim/internal/compress"
	"github.com/samcharles93/regiontrim/pkg/anvil"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

// RegionStats counts the chunks seen and kept by TrimRegion.
type RegionStats struct {
	Chunks int `json:"chunks"`
	Kept   int `json:"kept"`
}

// TrimRegion builds a new region holding the chunks of src whose
// InhabitedTime exceeds minTime, at their original coordinates and with
// their original compressed bytes. Any chunk that cannot be read, inflated
// or decoded fails the whole region.
func TrimRegion(src *anvil.Region, minTime int64) (*anvil.Region, RegionStats, error) {
	dst := anvil.Empty()
	var stats RegionStats

	for x := range anvil.ChunksPerSide {
		for z := range anvil.ChunksPerSide {
			payload, err := src.ReadChunk(x, z)
			if errors.Is(err, anvil.ErrChunkAbsent) {
				continue
			}
			if err != nil {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
			}
			stats.Chunks++

			// Kept payloads are stored again under the zlib type code.
			info, err := src.Info(x, z)
			if err != nil {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
			}
			if info.Compression != anvil.CompressionZlib {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w %d", x, z, compress.ErrUnsupportedType, info.Compression)
			}
			raw, err := compress.Decompress(payload)
			if err != nil {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
			}
			root, err := nbt.DecodeBytes(raw)
			if err != nil {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
			}
			t, err := InhabitedTime(root)
			if err != nil {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
			}
			if t <= minTime {
				continue
			}

			if len(raw) > math.MaxUint32 {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w: %d bytes inflated", x, z, anvil.ErrSectorLimitExceeded, len(raw))
			}
			if err := dst.WriteChunk(x, z, payload, uint32(len(raw))); err != nil {
				return nil, stats, fmt.Errorf("chunk (%d,%d): %w", x, z, err)
			}
			stats.Kept++
		}
	}
	return dst, stats, nil
}
