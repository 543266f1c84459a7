package trim

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"github.com/samcharles93/regiontrim/internal/regionfs"
)

// LockName is the lock file World holds inside the world directory.
const LockName = ".regiontrim.lock"

// Report describes a whole-world trim run.
type Report struct {
	Run              string        `json:"run"`
	World            string        `json:"world"`
	MinInhabitedTime int64         `json:"min_inhabited_time"`
	Workers          int           `json:"workers"`
	DryRun           bool          `json:"dry_run"`
	Dirs             []DirResult   `json:"dirs"`
	SizeBefore       int64         `json:"size_before"`
	SizeAfter        int64         `json:"size_after"`
	Elapsed          time.Duration `json:"elapsed_ns"`
}

// TrimmedPercent is the share of the world's size removed by the run.
func (r Report) TrimmedPercent() float64 {
	if r.SizeBefore <= 0 {
		return 0
	}
	return 100 - float64(r.SizeAfter)/float64(r.SizeBefore)*100
}

// World trims the overworld, end and nether region directories of world,
// one directory at a time. Missing directories are skipped. The world is
// locked for the duration of the run; a concurrent run fails with
// ErrWorldLocked.
func World(ctx context.Context, world string, opts Options) (Report, error) {
	if err := opts.Validate(); err != nil {
		return Report{}, err
	}
	opts = opts.withDefaults()

	rep := Report{
		Run:              uuid.NewString(),
		World:            world,
		MinInhabitedTime: opts.MinInhabitedTime,
		Workers:          opts.Workers,
		DryRun:           opts.DryRun,
	}
	log := opts.Logger.With("run", rep.Run)
	opts.Logger = log

	st, err := os.Stat(world)
	if err != nil {
		return rep, fmt.Errorf("open world: %w", err)
	}
	if !st.IsDir() {
		return rep, fmt.Errorf("open world: %s is not a directory", world)
	}

	lock := flock.New(filepath.Join(world, LockName))
	locked, err := lock.TryLock()
	if err != nil {
		return rep, fmt.Errorf("lock world: %w", err)
	}
	if !locked {
		return rep, fmt.Errorf("%w: %s", ErrWorldLocked, world)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			log.Warn("unlock world failed", "err", err)
		}
	}()

	start := time.Now()
	log.Info("processing world", "world", world, "workers", opts.Workers,
		"min_inhabited_time", opts.MinInhabitedTime, "dry_run", opts.DryRun)

	if rep.SizeBefore, err = regionfs.DirSize(world); err != nil {
		return rep, err
	}

	for _, dim := range regionfs.Dimensions {
		dir := dim.Dir(world)
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			log.Debug("skipping missing region directory", "dimension", dim.Name, "dir", dir)
			continue
		}
		log.Info("processing region directory", "dimension", dim.Name, "dir", dir)

		res, err := RunDir(ctx, dir, opts)
		rep.Dirs = append(rep.Dirs, res)
		if err != nil {
			rep.Elapsed = time.Since(start)
			return rep, fmt.Errorf("trim %s: %w", dim.Name, err)
		}
		log.Info("region directory done", "dimension", dim.Name,
			"replaced", res.Replaced, "deleted", res.Deleted)
	}

	if opts.DryRun {
		rep.SizeAfter = rep.SizeBefore - rep.saved()
	} else if rep.SizeAfter, err = regionfs.DirSize(world); err != nil {
		return rep, err
	}
	rep.Elapsed = time.Since(start)

	log.Info("trim complete",
		"before_gb", fmt.Sprintf("%.2f", bytesToGB(rep.SizeBefore)),
		"after_gb", fmt.Sprintf("%.2f", bytesToGB(rep.SizeAfter)),
		"trimmed_pct", fmt.Sprintf("%.0f", rep.TrimmedPercent()),
		"elapsed", rep.Elapsed)
	return rep, nil
}

// saved is the number of bytes the trimmed files shrank by.
func (r Report) saved() int64 {
	var n int64
	for _, d := range r.Dirs {
		for _, f := range d.Files {
			n += f.SizeBefore - f.SizeAfter
		}
	}
	return n
}

func bytesToGB(n int64) float64 {
	return float64(n) / 1e9
}
