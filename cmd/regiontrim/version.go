package main

import (
	"context"
	"fmt"
	"io"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/version"
)

func versionCmd(out io.Writer) *cli.Command {
	var asJSON bool
	return &cli.Command{
		Name:  "version",
		Usage: "Print version information",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "json", Usage: "print JSON", Destination: &asJSON},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			info := version.Resolve()
			if asJSON {
				return printJSON(out, info)
			}
			fmt.Fprintf(out, "version:    %s\n", info.Version)
			if info.Commit != "" {
				fmt.Fprintf(out, "commit:     %s\n", info.Commit)
			}
			if info.BuildTime != "" {
				fmt.Fprintf(out, "build time: %s\n", info.BuildTime)
			}
			fmt.Fprintf(out, "go:         %s\n", info.GoVersion)
			return nil
		},
	}
}
