package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	cfg "github.com/automoto/doomerang-bosses/config"
	"github.com/automoto/doomerang-bosses/network"
	"github.com/automoto/doomerang-bosses/shared/protocol"
)

// The root binary is a headless bot client. The server lives in server/cmd/server.
func main() {
	address := flag.String("addr", fmt.Sprintf("localhost:%d", cfg.Server.Port), "Server address")
	name := flag.String("name", "bot", "Player name")
	version := flag.String("version", "", "Client version sent on join")
	rate := flag.Int("rate", 20, "Inputs per second")
	period := flag.Int("period", 80, "Inputs per walking circle")
	attackEvery := flag.Int("attack-every", 10, "Inputs between swings, 0 never swings")
	duration := flag.Duration("duration", 0, "Stop after this long (0 = until interrupted)")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "bot", ReportTimestamp: true})

	if err := protocol.RegisterComponents(); err != nil {
		logger.Fatal("failed to register components", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if *duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	client := network.NewClient(logger)
	client.Connect(*address, *version, *name)
	defer client.Disconnect()

	bot := &network.Bot{Sender: client, Period: *period, AttackEvery: *attackEvery}
	err := bot.Run(ctx, time.Second/time.Duration(max(1, *rate)))
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		logger.Fatal("bot stopped", "err", err)
	}
	logger.Info("bot finished", "snapshots", client.Snapshots(), "state", client.State())
}
