package main

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/regiontrim/internal/api"
	"github.com/samcharles93/regiontrim/internal/logger"
)

func serveCmd() *cli.Command {
	var (
		world        string
		addr         string
		readTimeout  time.Duration
		cacheSize    int
		strictBounds bool
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve a read-only JSON API over a world's regions",
		Flags: []cli.Flag{
			worldFlag(&world),
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read header timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
			&cli.IntFlag{
				Name:        "cache",
				Usage:       "regions kept in memory",
				Value:       64,
				Destination: &cacheSize,
			},
			strictBoundsFlag(&strictBounds),
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			log := logger.FromContext(ctx)
			applyServeConfig(cmd, configFrom(ctx), &world, &addr, &strictBounds)
			if world == "" {
				return cli.Exit("serve: a world directory is required (--world)", 1)
			}

			server := api.NewServer(api.Config{
				World:        world,
				StrictBounds: strictBounds,
				CacheSize:    cacheSize,
				Logger:       log,
			})
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)
			log.Info("starting server", "address", addr, "world", world)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
