package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/compress"
	"github.com/samcharles93/regiontrim/internal/logger"
	"github.com/samcharles93/regiontrim/pkg/anvil"
)

func extractCmd() *cli.Command {
	var (
		regionPath   string
		x, z         int
		outPath      string
		raw          bool
		strictBounds bool
	)

	return &cli.Command{
		Name:  "extract",
		Usage: "Write one chunk's decompressed document to a file",
		Flags: []cli.Flag{
			regionFlag(&regionPath),
			&cli.IntFlag{Name: "x", Usage: "chunk x inside the region (0-31)", Destination: &x, Required: true},
			&cli.IntFlag{Name: "z", Usage: "chunk z inside the region (0-31)", Destination: &z, Required: true},
			&cli.StringFlag{
				Name:        "out",
				Aliases:     []string{"o"},
				Usage:       "output file (default c.<x>.<z>.dat)",
				Destination: &outPath,
			},
			&cli.BoolFlag{Name: "raw", Usage: "write the payload as stored, without decompressing", Destination: &raw},
			strictBoundsFlag(&strictBounds),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			if err := checkCoord(x, z); err != nil {
				return err
			}
			if outPath == "" {
				outPath = fmt.Sprintf("c.%d.%d.dat", x, z)
			}

			data, err := readChunk(regionPath, x, z, strictBounds, !raw)
			if err != nil {
				return err
			}
			if err := os.WriteFile(outPath, data, 0o644); err != nil {
				return fmt.Errorf("write chunk: %w", err)
			}
			log.Info("extracted chunk", "region", regionPath, "x", x, "z", z, "out", outPath, "bytes", len(data))
			return nil
		},
	}
}

func checkCoord(x, z int) error {
	if x < 0 || x >= anvil.ChunksPerSide || z < 0 || z >= anvil.ChunksPerSide {
		return fmt.Errorf("chunk coordinates (%d,%d) outside [0,%d)", x, z, anvil.ChunksPerSide)
	}
	return nil
}

// readChunk loads chunk (x, z) from the region at path, inflating it when
// inflate is set.
func readChunk(path string, x, z int, strict, inflate bool) ([]byte, error) {
	f, err := anvil.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if strict {
		f.SetOverrunPolicy(anvil.OverrunStrict)
	}

	payload, err := f.ReadChunk(x, z)
	if err != nil {
		return nil, fmt.Errorf("chunk (%d,%d) of %s: %w", x, z, path, err)
	}
	if !inflate {
		return append([]byte(nil), payload...), nil
	}
	info, err := f.Info(x, z)
	if err != nil {
		return nil, err
	}
	raw, err := compress.Inflate(info.Compression, payload)
	if err != nil {
		return nil, fmt.Errorf("chunk (%d,%d) of %s: %w", x, z, path, err)
	}
	return raw, nil
}
