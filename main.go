package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/oaiiae/contacts-provider/cli/api"
	"github.com/oaiiae/contacts-provider/cli/logger"
)

const title = "Contacts Provider"

// set at build time with -ldflags "-X main.version=..."
var (
	version  = "dev"
	revision = "unknown"
	created  = "unknown"
)

// Options for the CLI. Pass flags (e.g. `--port`) or set env vars (e.g. `SERVICE_PORT`).
type Options struct {
	logger.Options
	api.ServerOptions
	api.RouterOptions
	api.StoreOptions
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, options *Options) {
		logger := logger.New(&options.Options)

		store, closeStore, err := api.NewContactsStore(context.Background(), &options.StoreOptions)
		if err != nil {
			logger.Error("could not open contacts store", "err", err)
			os.Exit(1)
		}

		srv := api.NewServer(&options.ServerOptions,
			api.NewRouter(&options.RouterOptions, title, version, revision, created, logger, store),
			logger,
		)

		hooks.OnStart(func() {
			err := api.SeedOrClose(context.Background(), &options.StoreOptions, store, closeStore, logger)
			if err != nil {
				logger.Error("could not seed contacts store", "err", err)
				os.Exit(1)
			}

			logger.Info("server listening", "addr", srv.Addr, "version", version)
			err = srv.ListenAndServe()
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error("failed to listen and serve", "err", err)
			} else {
				logger.Info("server closed")
			}
		})
		hooks.OnStop(func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			err := srv.Shutdown(ctx)
			if err != nil {
				logger.Warn("could not shutdown the server", "err", err)
			}
			err = closeStore()
			if err != nil {
				logger.Warn("could not close contacts store", "err", err)
			}
		})
	})
	cli.Run()
}
