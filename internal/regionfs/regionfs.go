// Package regionfs locates region files inside a world directory.
package regionfs

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/btree"
)

// Ext is the file extension of region files.
const Ext = ".mca"

// Dimension is one world root that holds region files.
type Dimension struct {
	Name string `json:"name"`
	// Rel is the region directory relative to the world directory.
	Rel string `json:"path"`
}

// Dimensions lists the world roots in processing order.
var Dimensions = []Dimension{
	{Name: "overworld", Rel: "region"},
	{Name: "the_end", Rel: filepath.Join("DIM1", "region")},
	{Name: "the_nether", Rel: filepath.Join("DIM-1", "region")},
}

// LookupDimension finds a dimension by name. An empty name selects the
// overworld.
func LookupDimension(name string) (Dimension, bool) {
	if name == "" {
		return Dimensions[0], true
	}
	for _, d := range Dimensions {
		if d.Name == name {
			return d, true
		}
	}
	return Dimension{}, false
}

// Dir is the absolute region directory of d inside world.
func (d Dimension) Dir(world string) string {
	return filepath.Join(world, d.Rel)
}

// Entry is one region file found by List.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"-"`
	Size int64  `json:"size"`
	// X and Z are the region coordinates parsed from Name, valid when
	// Parsed is set.
	X      int  `json:"x"`
	Z      int  `json:"z"`
	Parsed bool `json:"parsed"`
}

func entryLess(a, b Entry) bool {
	if a.Parsed != b.Parsed {
		return a.Parsed
	}
	if !a.Parsed {
		return a.Name < b.Name
	}
	if c := cmp.Compare(a.X, b.X); c != 0 {
		return c < 0
	}
	if c := cmp.Compare(a.Z, b.Z); c != 0 {
		return c < 0
	}
	return a.Name < b.Name
}

// List returns the region files directly inside dir, ordered by region
// coordinates. Files whose names do not parse as r.<x>.<z>.mca sort after
// the rest, by name. Subdirectories are not descended into.
func List(dir string) ([]Entry, error) {
	des, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}

	tree := btree.NewG[Entry](8, entryLess)
	for _, de := range des {
		if !de.Type().IsRegular() || !strings.HasSuffix(de.Name(), Ext) {
			continue
		}
		info, err := de.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("stat %s: %w", de.Name(), err)
		}
		e := Entry{Name: de.Name(), Path: filepath.Join(dir, de.Name()), Size: info.Size()}
		e.X, e.Z, e.Parsed = ParseName(de.Name())
		tree.ReplaceOrInsert(e)
	}

	out := make([]Entry, 0, tree.Len())
	tree.Ascend(func(e Entry) bool {
		out = append(out, e)
		return true
	})
	return out, nil
}

// Paths returns the Path of each entry.
func Paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Path
	}
	return out
}

// ParseName extracts the region coordinates from a file name of the form
// r.<x>.<z>.mca.
func ParseName(name string) (x, z int, ok bool) {
	rest, found := strings.CutPrefix(name, "r.")
	if !found {
		return 0, 0, false
	}
	rest, found = strings.CutSuffix(rest, Ext)
	if !found {
		return 0, 0, false
	}
	xs, zs, found := strings.Cut(rest, ".")
	if !found {
		return 0, 0, false
	}
	x, err := strconv.Atoi(xs)
	if err != nil {
		return 0, 0, false
	}
	z, err = strconv.Atoi(zs)
	if err != nil {
		return 0, 0, false
	}
	return x, z, true
}

// ValidName reports whether name is a bare region file name with no path
// components.
func ValidName(name string) bool {
	if name == "" || name != filepath.Base(name) || strings.ContainsAny(name, `/\`) {
		return false
	}
	return strings.HasSuffix(name, Ext) && !strings.HasPrefix(name, ".")
}

// DirSize sums the sizes of all regular files under root. A missing root
// has size zero.
func DirSize(root string) (int64, error) {
	var total int64
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("size of %s: %w", root, err)
	}
	return total, nil
}
