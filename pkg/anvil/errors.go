package anvil

import "errors"

var (
	ErrContainerTooSmall   = errors.New("anvil: region must be at least 8192 bytes")
	ErrChunkAbsent         = errors.New("anvil: chunk not present")
	ErrChunkOutOfBounds    = errors.New("anvil: chunk offset out of bounds")
	ErrChunkOverrun        = errors.New("anvil: chunk payload overruns region")
	ErrSectorLimitExceeded = errors.New("anvil: chunk exceeds sector limit")
	ErrRegionFull          = errors.New("anvil: sector index exceeds slot table range")
)
