package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/logger"
	"github.com/samcharles93/regiontrim/internal/trim"
)

func trimCmd(out io.Writer) *cli.Command {
	var (
		world        string
		minTime      int64
		workers      int
		dryRun       bool
		strictBounds bool
		reportPath   string
	)

	return &cli.Command{
		Name:      "trim",
		Usage:     "Delete chunks whose InhabitedTime is at or below a threshold",
		ArgsUsage: "[world]",
		Flags: []cli.Flag{
			worldFlag(&world),
			&cli.Int64Flag{
				Name:        "min-inhabited-time",
				Aliases:     []string{"t"},
				Usage:       "keep chunks inhabited for more than this many ticks",
				Destination: &minTime,
			},
			&cli.IntFlag{
				Name:        "workers",
				Aliases:     []string{"j"},
				Usage:       "region files trimmed in parallel (0 = one per CPU)",
				Destination: &workers,
			},
			&cli.BoolFlag{
				Name:        "dry-run",
				Usage:       "report what would change without touching any file",
				Destination: &dryRun,
			},
			strictBoundsFlag(&strictBounds),
			&cli.StringFlag{
				Name:        "report",
				Usage:       "write a JSON report of the run to this file (- for stdout)",
				Destination: &reportPath,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyTrimConfig(cmd, configFrom(ctx), &world, &minTime, &workers, &strictBounds)
			if world == "" {
				world = cmd.Args().First()
			}
			if world == "" {
				return cli.Exit("trim: a world directory is required (--world)", 1)
			}

			rep, err := trim.World(ctx, world, trim.Options{
				MinInhabitedTime: minTime,
				Workers:          workers,
				DryRun:           dryRun,
				StrictBounds:     strictBounds,
				Logger:           logger.FromContext(ctx),
			})
			if reportPath != "" && rep.Run != "" {
				if werr := writeReport(out, reportPath, rep); werr != nil && err == nil {
					err = werr
				}
			}
			if err != nil {
				return err
			}

			verb := "Trimmed"
			if rep.DryRun {
				verb = "Would trim"
			}
			_, err = fmt.Fprintf(out, "%s %s from %.2f GB to %.2f GB (%.0f%%), took %s\n",
				verb, world, float64(rep.SizeBefore)/1e9, float64(rep.SizeAfter)/1e9,
				rep.TrimmedPercent(), rep.Elapsed.Round(time.Millisecond))
			return err
		},
	}
}

func writeReport(stdout io.Writer, path string, rep trim.Report) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	if path == "-" {
		_, err = stdout.Write(b)
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
