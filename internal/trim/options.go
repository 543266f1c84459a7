// Package trim drops rarely visited chunks from region files.
//
// A chunk survives a trim when its InhabitedTime is strictly greater than
// Options.MinInhabitedTime. Region files keeping at least one chunk are
// rewritten from scratch; files keeping none are deleted.
package trim

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/samcharles93/regiontrim/internal/logger"
)

var (
	ErrFieldNotFound  = errors.New("trim: InhabitedTime not found")
	ErrInvalidOptions = errors.New("trim: invalid options")
	ErrWorldLocked    = errors.New("trim: world is locked by another run")
)

type Options struct {
	// MinInhabitedTime is the exclusive lower bound, in ticks, for keeping a
	// chunk.
	MinInhabitedTime int64
	// Workers is the number of files trimmed concurrently per region
	// directory. Zero selects runtime.NumCPU().
	Workers int
	// DryRun computes outcomes without writing or deleting anything.
	DryRun bool
	// StrictBounds fails on chunks whose declared length runs to the end of
	// the file instead of clamping them.
	StrictBounds bool
	Logger       logger.Logger
}

// Validate reports option values that can never work.
func (o Options) Validate() error {
	if o.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidOptions, o.Workers)
	}
	return nil
}

func (o Options) withDefaults() Options {
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = logger.Discard()
	}
	return o
}
