package api

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/samcharles93/regiontrim/pkg/anvil"
)

type regionRecord struct {
	region  *anvil.Region
	size    int64
	modTime time.Time
	used    uint64
}

// RegionStore keeps recently read regions in memory. An entry is reloaded
// when the file's size or modification time changes, and the least
// recently used entry is dropped once more than limit regions are held.
// Regions handed out are shared and must only be read.
type RegionStore struct {
	mu      sync.Mutex
	limit   int
	tick    uint64
	overrun anvil.OverrunPolicy
	regions map[string]*regionRecord
}

func NewRegionStore(limit int, overrun anvil.OverrunPolicy) *RegionStore {
	if limit < 1 {
		limit = 1
	}
	return &RegionStore{
		limit:   limit,
		overrun: overrun,
		regions: make(map[string]*regionRecord),
	}
}

// Get returns the region stored at path, loading it if needed.
func (s *RegionStore) Get(path string) (*anvil.Region, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	rec, ok := s.regions[path]
	if ok && rec.size == st.Size() && rec.modTime.Equal(st.ModTime()) {
		s.tick++
		rec.used = s.tick
		s.mu.Unlock()
		return rec.region, nil
	}
	s.mu.Unlock()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := anvil.Open(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	r.SetOverrunPolicy(s.overrun)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tick++
	s.regions[path] = &regionRecord{region: r, size: st.Size(), modTime: st.ModTime(), used: s.tick}
	for len(s.regions) > s.limit {
		s.evictLocked()
	}
	return r, nil
}

// Len reports how many regions are held.
func (s *RegionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.regions)
}

func (s *RegionStore) evictLocked() {
	var (
		oldest string
		used   uint64
		found  bool
	)
	for path, rec := range s.regions {
		if !found || rec.used < used {
			oldest, used, found = path, rec.used, true
		}
	}
	delete(s.regions, oldest)
}
