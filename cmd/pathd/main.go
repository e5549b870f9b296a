package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/binpath/internal/config"
	"github.com/danmuck/binpath/internal/logging"
	"github.com/danmuck/binpath/internal/pathsvc"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "cmd/pathd/config.toml", "path to pathd config")
	addr := flag.String("addr", "", "override server.addr")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.ConfigureRuntime()
		log.Fatal().Err(err).Str("path", *configPath).Msg("failed to load pathd config")
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	logging.Configure(logging.ProfileRuntime, cfg.Log.Level)
	log.Info().Str("path", *configPath).Msg("loaded pathd config")

	server, err := pathsvc.New(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build pathd")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("name", server.Name).Str("addr", server.Addr).Msg("pathd started")
	if err := server.Serve(ctx); err != nil {
		log.Fatal().Err(err).Msg("pathd stopped")
	}
	log.Info().Msg("pathd stopped")
}
