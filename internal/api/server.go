// Package api serves a read-only JSON view of a world's region files.
package api

import (
	"errors"
	"io/fs"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/regiontrim/internal/compress"
	"github.com/samcharles93/regiontrim/internal/logger"
	"github.com/samcharles93/regiontrim/internal/regionfs"
	"github.com/samcharles93/regiontrim/internal/trim"
	"github.com/samcharles93/regiontrim/pkg/anvil"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

const defaultCacheSize = 64

type Config struct {
	World        string
	StrictBounds bool
	// CacheSize bounds the number of regions kept in memory. Zero selects
	// the default of 64.
	CacheSize int
	Logger    logger.Logger
}

type Server struct {
	world string
	store *RegionStore
	log   logger.Logger
}

func NewServer(cfg Config) *Server {
	size := cfg.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	policy := anvil.OverrunLegacy
	if cfg.StrictBounds {
		policy = anvil.OverrunStrict
	}
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	return &Server{
		world: cfg.World,
		store: NewRegionStore(size, policy),
		log:   log,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/api/dimensions", s.handleDimensions)
	e.GET("/api/regions", s.handleRegions)
	e.GET("/api/regions/:name/chunks", s.handleChunks)
	e.GET("/api/regions/:name/chunks/:x/:z", s.handleChunk)
	e.GET("/api/regions/:name/chunks/:x/:z/inhabited", s.handleInhabited)
}

func (s *Server) handleDimensions(c *echo.Context) error {
	out := DimensionList{World: s.world, Dimensions: make([]DimensionInfo, 0, len(regionfs.Dimensions))}
	for _, d := range regionfs.Dimensions {
		info := DimensionInfo{Name: d.Name, Path: filepath.ToSlash(d.Rel)}
		entries, err := regionfs.List(d.Dir(s.world))
		switch {
		case err == nil:
			info.Present = true
			info.Regions = len(entries)
		case !errors.Is(err, fs.ErrNotExist):
			return writeFailure(c, err)
		}
		out.Dimensions = append(out.Dimensions, info)
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) handleRegions(c *echo.Context) error {
	d, err := dimensionParam(c)
	if err != nil {
		return writeFailure(c, err)
	}
	entries, err := regionfs.List(d.Dir(s.world))
	if err != nil {
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, RegionList{Dimension: d.Name, Regions: entries})
}

func (s *Server) region(c *echo.Context) (regionfs.Dimension, string, *anvil.Region, error) {
	d, err := dimensionParam(c)
	if err != nil {
		return d, "", nil, err
	}
	name, err := regionParam(c)
	if err != nil {
		return d, "", nil, err
	}
	r, err := s.store.Get(filepath.Join(d.Dir(s.world), name))
	return d, name, r, err
}

func (s *Server) handleChunks(c *echo.Context) error {
	d, name, r, err := s.region(c)
	if err != nil {
		return writeFailure(c, err)
	}
	out := ChunkList{Dimension: d.Name, Region: name, Chunks: []ChunkSummary{}}
	for coord, slot := range r.Chunks() {
		sum := ChunkSummary{
			X:         coord.X,
			Z:         coord.Z,
			Sector:    slot.Sector,
			Sectors:   slot.Count,
			Timestamp: r.Timestamp(coord.X, coord.Z),
		}
		if info, err := r.Info(coord.X, coord.Z); err == nil {
			sum.Length = info.Length
			sum.Compression = info.Compression
		}
		out.Chunks = append(out.Chunks, sum)
	}
	return writeJSON(c, http.StatusOK, out)
}

func (s *Server) document(c *echo.Context) (anvil.Coord, nbt.Node, error) {
	coord, err := coordParams(c)
	if err != nil {
		return coord, nbt.Node{}, err
	}
	_, _, r, err := s.region(c)
	if err != nil {
		return coord, nbt.Node{}, err
	}
	payload, err := r.ReadChunk(coord.X, coord.Z)
	if err != nil {
		return coord, nbt.Node{}, err
	}
	info, err := r.Info(coord.X, coord.Z)
	if err != nil {
		return coord, nbt.Node{}, err
	}
	raw, err := compress.Inflate(info.Compression, payload)
	if err != nil {
		return coord, nbt.Node{}, err
	}
	root, err := nbt.DecodeBytes(raw)
	return coord, root, err
}

func (s *Server) handleChunk(c *echo.Context) error {
	coord, root, err := s.document(c)
	if err != nil {
		s.log.Debug("chunk request failed", "path", c.Request().URL.Path, "err", err)
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, ChunkDocument{X: coord.X, Z: coord.Z, Document: root})
}

func (s *Server) handleInhabited(c *echo.Context) error {
	coord, root, err := s.document(c)
	if err != nil {
		return writeFailure(c, err)
	}
	t, err := trim.InhabitedTime(root)
	if err != nil {
		if errors.Is(err, trim.ErrFieldNotFound) {
			return writeNotFound(c, err.Error())
		}
		return writeFailure(c, err)
	}
	return writeJSON(c, http.StatusOK, InhabitedTime{X: coord.X, Z: coord.Z, InhabitedTime: t})
}
