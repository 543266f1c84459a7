package main

import (
	"context"
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/api"
	"github.com/samcharles93/regiontrim/pkg/anvil"
	"github.com/samcharles93/regiontrim/pkg/nbt"
)

func inspectCmd(out io.Writer) *cli.Command {
	var (
		regionPath   string
		x, z         int
		asJSON       bool
		strictBounds bool
	)

	return &cli.Command{
		Name:  "inspect",
		Usage: "List a region's chunks, or print one chunk's document with --x and --z",
		Flags: []cli.Flag{
			regionFlag(&regionPath),
			&cli.IntFlag{Name: "x", Usage: "chunk x inside the region (0-31)", Destination: &x},
			&cli.IntFlag{Name: "z", Usage: "chunk z inside the region (0-31)", Destination: &z},
			&cli.BoolFlag{Name: "json", Usage: "print JSON instead of text", Destination: &asJSON},
			strictBoundsFlag(&strictBounds),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.IsSet("x") != cmd.IsSet("z") {
				return cli.Exit("inspect: --x and --z must be given together", 1)
			}
			if cmd.IsSet("x") {
				if err := checkCoord(x, z); err != nil {
					return err
				}
				return inspectChunk(out, regionPath, x, z, strictBounds, asJSON)
			}
			return inspectRegion(out, regionPath, asJSON)
		},
	}
}

func inspectRegion(out io.Writer, path string, asJSON bool) error {
	f, err := anvil.OpenFile(path)
	if err != nil {
		return err
	}
	defer f.Close()

	chunks := []api.ChunkSummary{}
	for c, s := range f.Chunks() {
		sum := api.ChunkSummary{X: c.X, Z: c.Z, Sector: s.Sector, Sectors: s.Count, Timestamp: f.Timestamp(c.X, c.Z)}
		if info, err := f.Info(c.X, c.Z); err == nil {
			sum.Length, sum.Compression = info.Length, info.Compression
		}
		chunks = append(chunks, sum)
	}

	if asJSON {
		return printJSON(out, api.ChunkList{Region: path, Chunks: chunks})
	}
	if _, err := fmt.Fprintf(out, "%s: %d bytes, %d chunks\n", path, f.Len(), len(chunks)); err != nil {
		return err
	}
	if len(chunks) == 0 {
		return nil
	}
	if _, err := fmt.Fprintf(out, "%3s %3s %8s %7s %8s %4s\n", "x", "z", "sector", "sectors", "length", "comp"); err != nil {
		return err
	}
	for _, c := range chunks {
		if _, err := fmt.Fprintf(out, "%3d %3d %8d %7d %8d %4d\n", c.X, c.Z, c.Sector, c.Sectors, c.Length, c.Compression); err != nil {
			return err
		}
	}
	return nil
}

func inspectChunk(out io.Writer, path string, x, z int, strict, asJSON bool) error {
	raw, err := readChunk(path, x, z, strict, true)
	if err != nil {
		return err
	}
	root, err := nbt.DecodeBytes(raw)
	if err != nil {
		return fmt.Errorf("decode chunk (%d,%d): %w", x, z, err)
	}
	if asJSON {
		return printJSON(out, root)
	}
	return nbt.Format(out, root)
}

func printJSON(out io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = out.Write(append(b, '\n'))
	return err
}
