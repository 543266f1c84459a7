package trim

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/samcharles93/regiontrim/internal/regionfs"
)

// Partition splits items round-robin into exactly n groups: item i goes to
// group i mod n. Groups keep the relative order of their items.
func Partition[T any](items []T, n int) [][]T {
	if n < 1 {
		n = 1
	}
	groups := make([][]T, n)
	for i, it := range items {
		groups[i%n] = append(groups[i%n], it)
	}
	return groups
}

// DirResult summarizes one region directory.
type DirResult struct {
	Dir   string       `json:"dir"`
	Files []FileResult `json:"files"`
	// Pending counts files never started because the run was cancelled.
	Pending  int `json:"pending"`
	Replaced int `json:"replaced"`
	Deleted  int `json:"deleted"`
}

type job struct {
	index int
	path  string
}

// RunDir trims every region file in dir with opts.Workers workers, each
// taking its round-robin share of the listing in order. A failing file
// stops its worker and cancels the others once they finish the file in
// hand. Files already replaced or deleted stay that way.
func RunDir(ctx context.Context, dir string, opts Options) (DirResult, error) {
	if err := opts.Validate(); err != nil {
		return DirResult{Dir: dir}, err
	}
	opts = opts.withDefaults()
	log := opts.Logger.With("dir", dir)

	entries, err := regionfs.List(dir)
	if err != nil {
		return DirResult{Dir: dir}, err
	}
	paths := regionfs.Paths(entries)
	jobs := make([]job, len(paths))
	for i, p := range paths {
		jobs[i] = job{index: i, path: p}
	}
	groups := Partition(jobs, opts.Workers)
	log.Debug("partitioned region files", "files", len(jobs), "workers", len(groups))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make([]*FileResult, len(jobs))
	errs := make([]error, len(groups))
	var wg sync.WaitGroup
	for w, group := range groups {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, j := range group {
				if runCtx.Err() != nil {
					return
				}
				res, err := TrimFile(j.path, opts)
				if err != nil {
					errs[w] = fmt.Errorf("%s: %w", j.path, err)
					log.Error("trim failed", "worker", w, "file", j.path, "err", err)
					cancel()
					return
				}
				results[j.index] = &res
				log.Debug("trimmed region file", "worker", w, "file", j.path,
					"outcome", res.Outcome, "kept", res.Kept, "chunks", res.Chunks,
					"size_before", res.SizeBefore, "size_after", res.SizeAfter)
			}
		}()
	}
	wg.Wait()

	out := DirResult{Dir: dir, Files: make([]FileResult, 0, len(jobs))}
	for _, r := range results {
		if r == nil {
			continue
		}
		out.Files = append(out.Files, *r)
		switch r.Outcome {
		case OutcomeReplaced:
			out.Replaced++
		case OutcomeDeleted:
			out.Deleted++
		}
	}
	failed := 0
	for _, e := range errs {
		if e != nil {
			failed++
		}
	}
	out.Pending = len(jobs) - len(out.Files) - failed

	if err := errors.Join(errs...); err != nil {
		return out, err
	}
	return out, ctx.Err()
}
