package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	var ec cli.ExitCoder
	if errors.As(err, &ec) && ec.ExitCode() != 0 {
		return ec.ExitCode()
	}
	return 1
}

// newApp builds the root command. Errors, including cli.Exit ones, are
// returned to the caller; main picks the exit code.
func newApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:           "regiontrim",
		Usage:          "Trim rarely visited chunks from Minecraft worlds",
		Writer:         stdout,
		ErrWriter:      stderr,
		Flags:          globalFlags(),
		ExitErrHandler: func(context.Context, *cli.Command, error) {},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			cfg, err := loadConfigFor(cmd)
			if err != nil {
				return ctx, err
			}
			applyLoggingConfig(cmd, cfg)

			level, err := logger.ParseLevel(logLevel)
			if err != nil {
				return ctx, err
			}
			if debug {
				level = slog.LevelDebug
			}
			format, err := logger.ParseFormat(logFormat)
			if err != nil {
				return ctx, err
			}
			ctx = logger.WithContext(ctx, logger.New(stderr, format, level))
			return withConfig(ctx, cfg), nil
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return cli.ShowAppHelp(cmd)
		},
		Commands: []*cli.Command{
			trimCmd(stdout),
			extractCmd(),
			inspectCmd(stdout),
			serveCmd(),
			versionCmd(stdout),
		},
	}
}
