package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/server/core"
	"github.com/automoto/doomerang-bosses/shared/protocol"
)

func main() {
	port := flag.Uint("port", uint(cfg.Server.Port), "Server port")
	tickRate := flag.Int("tickrate", cfg.Server.TickRate, "Server tick rate (updates per second)")
	level := flag.String("level", cfg.Server.LevelPath, "TMX arena to load")
	types := flag.String("bosses", cfg.Server.BossTypesPath, "Boss types YAML (empty = built-in stalker)")
	watch := flag.Bool("watch", true, "Reload the boss types file when it changes")
	seed := flag.Int64("seed", cfg.Server.Seed, "Seed for attack selection")
	version := flag.String("version", "", "Required client version (empty = accept any)")
	logLevel := flag.String("log-level", "info", "Log level: debug, info, warn, error")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          "bossd",
		ReportTimestamp: true,
	})
	if lvl, err := log.ParseLevel(*logLevel); err == nil {
		logger.SetLevel(lvl)
	} else {
		logger.Warn("unknown log level, using info", "level", *logLevel)
	}

	if err := protocol.RegisterComponents(); err != nil {
		logger.Fatal("failed to register components", "err", err)
	}

	server, err := core.NewServer(core.Options{
		TickRate:      *tickRate,
		LevelPath:     *level,
		BossTypesPath: *types,
		WatchTypes:    *watch,
		Seed:          *seed,
		Version:       *version,
		Logger:        logger,
	})
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down server")
		server.Stop()
		os.Exit(0)
	}()

	logger.Info("starting boss server", "port", *port, "tickRate", *tickRate, "level", *level, "bosses", *types)
	if err := server.Start(*port); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
