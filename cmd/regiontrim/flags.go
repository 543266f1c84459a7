package main

import "github.com/urfave/cli/v3"

var (
	configFile string
	logLevel   string
	logFormat  string
	debug      bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: $XDG_CONFIG_HOME/regiontrim/config.yaml)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

func worldFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "world",
		Aliases:     []string{"w"},
		Usage:       "world directory (the one holding level.dat)",
		Destination: dst,
	}
}

func strictBoundsFlag(dst *bool) cli.Flag {
	return &cli.BoolFlag{
		Name:        "strict-bounds",
		Usage:       "fail on chunks whose length runs to the end of the file instead of clamping them",
		Destination: dst,
	}
}

func regionFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "region",
		Aliases:     []string{"r"},
		Usage:       "path to a .mca region file",
		Destination: dst,
		Required:    true,
	}
}
