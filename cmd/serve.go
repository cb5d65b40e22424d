package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/spkr/internal/repositories"
	"github.com/desertthunder/spkr/internal/server"
	"github.com/desertthunder/spkr/internal/shared"
	"github.com/desertthunder/spkr/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve migrates the database and then serves the web pages until interrupted.
//
// A migration failure aborts startup before the listener opens.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	db, err := r.database(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	app, err := web.NewApp(web.AppOpts{
		Songs:     repositories.NewSongRepository(db),
		Playlists: repositories.NewPlaylistRepository(db),
		Logger:    shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return fmt.Errorf("failed to build web app: %w", err)
	}

	httpLogger := shared.WithLogger(r.logger, "component", "http")

	router := server.NewBasicRouter()
	router.Use(
		server.Recover(httpLogger),
		server.RequestID(),
		server.Logger(httpLogger),
		server.RateLimit(server.NewLimiter(r.config.Server.RateLimit, r.config.Server.Burst)),
	)
	app.Register(router)

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.ListenAndServe(ctx, addr, router, httpLogger)
}
