package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskmanager/backend/config"
	"taskmanager/backend/global"
	"taskmanager/backend/initialize"
	"taskmanager/backend/server"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
)

func main() {
	flags := pflag.NewFlagSet("taskmanager", pflag.ExitOnError)
	cfgPath := flags.String("config", "config/config.yaml", "Path to configuration file")
	flags.String("addr", ":8001", "HTTP listen address")
	flags.String("store", "sqlite", "Store driver: sqlite, mysql, redis or mongo")
	_ = flags.Parse(os.Args[1:])

	v, err := config.New(*cfgPath, flags)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("load config")
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("load config")
	}
	logCloser, err := initialize.SetupLogger(cfg.Log)
	if err != nil {
		global.Logger.Fatal().Err(err).Msg("open log file")
	}
	defer logCloser.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := initialize.OpenStore(connectCtx, cfg.Store)
	cancel()
	if err != nil {
		global.Logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("open store")
	}
	defer store.Close()

	app := initialize.Build(cfg, store)
	if err := app.Seed(ctx); err != nil {
		global.Logger.Warn().Err(err).Msg("admin seed failed")
	}

	config.Watch(v, func(next *config.Config, e fsnotify.Event) {
		initialize.ApplyLogLevel(next.Log.Level)
		global.Logger.Info().Str("file", e.Name).Str("level", next.Log.Level).Msg("config reloaded")
	})

	srv := server.NewHTTPServer(cfg.HTTP, app.Router)
	if err := server.ListenAndServe(ctx, srv); err != nil {
		global.Logger.Error().Err(err).Msg("http server stopped")
	}
}
