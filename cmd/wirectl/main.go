package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/wirectl/internal/config"
	"github.com/danmuck/wirectl/internal/logging"
	"github.com/danmuck/wirectl/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to wirectl config.toml")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "wirectl: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	logging.SetLevel(cfg.LogLevel)

	srv, err := server.New(cfg.Addr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wirectl: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		srv.Stop()
	}()

	if cfg.AdminListenAddr != "" {
		go func() {
			if err := srv.ServeAdmin(cfg.AdminListenAddr); err != nil {
				log.Error().Err(err).Msg("admin endpoint failed")
			}
		}()
	}

	if err := srv.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "wirectl: %v\n", err)
		os.Exit(1)
	}
}
