package api

import (
	"github.com/samcharles93/regiontrim/internal/regionfs"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

type DimensionInfo struct {
	Name    string `json:"name"`
	Path    string `json:"path"`
	Present bool   `json:"present"`
	Regions int    `json:"regions"`
}

type DimensionList struct {
	World      string          `json:"world"`
	Dimensions []DimensionInfo `json:"dimensions"`
}

type RegionList struct {
	Dimension string           `json:"dimension"`
	Regions   []regionfs.Entry `json:"regions"`
}

type ChunkSummary struct {
	X           int    `json:"x"`
	Z           int    `json:"z"`
	Sector      uint32 `json:"sector"`
	Sectors     uint8  `json:"sectors"`
	Length      uint32 `json:"length"`
	Compression byte   `json:"compression"`
	Timestamp   uint32 `json:"timestamp"`
}

type ChunkList struct {
	Dimension string         `json:"dimension"`
	Region    string         `json:"region"`
	Chunks    []ChunkSummary `json:"chunks"`
}

type ChunkDocument struct {
	X        int      `json:"x"`
	Z        int      `json:"z"`
	Document nbt.Node `json:"document"`
}

type InhabitedTime struct {
	X             int   `json:"x"`
	Z             int   `json:"z"`
	InhabitedTime int64 `json:"inhabited_time"`
}
