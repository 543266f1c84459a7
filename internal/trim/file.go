package trim

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/samcharles93/regiontrim/pkg/anvil"
)

// Outcome is the terminal state of a trimmed file.
type Outcome string

const (
	OutcomeReplaced Outcome = "replaced"
	OutcomeDeleted  Outcome = "deleted"
)

type FileResult struct {
	Path       string  `json:"path"`
	Outcome    Outcome `json:"outcome"`
	Chunks     int     `json:"chunks"`
	Kept       int     `json:"kept"`
	SizeBefore int64   `json:"size_before"`
	SizeAfter  int64   `json:"size_after"`
}

// TrimFile trims the region file at path. The file is either replaced as a
// whole by the trimmed region or, when no chunk survives, deleted. On error
// the file is left untouched.
func TrimFile(path string, opts Options) (FileResult, error) {
	res := FileResult{Path: path}

	f, err := anvil.OpenFile(path)
	if err != nil {
		return res, err
	}
	if opts.StrictBounds {
		f.SetOverrunPolicy(anvil.OverrunStrict)
	}
	res.SizeBefore = int64(f.Len())

	dst, stats, err := TrimRegion(f.Region, opts.MinInhabitedTime)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return res, err
	}
	res.Chunks, res.Kept = stats.Chunks, stats.Kept

	if stats.Kept == 0 {
		res.Outcome = OutcomeDeleted
		if !opts.DryRun {
			if err := os.Remove(path); err != nil {
				return res, fmt.Errorf("delete region: %w", err)
			}
		}
		return res, nil
	}

	res.Outcome = OutcomeReplaced
	res.SizeAfter = int64(dst.Len())
	if !opts.DryRun {
		if err := replaceFile(path, dst.Bytes()); err != nil {
			return res, err
		}
	}
	return res, nil
}

// replaceFile swaps data in for the contents of path through a temporary
// file in the same directory, keeping path's permission bits.
func replaceFile(path string, data []byte) (err error) {
	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat region: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp region: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write temp region: %w", err)
	}
	if err = tmp.Chmod(mode); err != nil {
		return fmt.Errorf("chmod temp region: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp region: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp region: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace region: %w", err)
	}
	return nil
}
