package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"xianshiji/internal/client/apiclient"
	"xianshiji/internal/client/barcode"
	"xianshiji/internal/client/cli"
	"xianshiji/internal/client/config"
	"xianshiji/internal/client/session"
	"xianshiji/internal/client/store"
	applog "xianshiji/internal/utils/logger"
	"xianshiji/pkg/inventory"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "xsj:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to xsj.yaml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	if err := applog.Init(applog.Config{Level: cfg.LogLevel, Format: "json", File: cfg.LogPath()}); err != nil {
		return err
	}
	defer func() { _ = applog.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.StorePath())
	if err != nil {
		return err
	}
	defer st.Close()

	applog.Get().Info("client starting",
		zap.String("api", cfg.APIBaseURL),
		zap.Int("near_expiry_days", cfg.NearExpiryDays))

	app := cli.NewApp(
		apiclient.New(cfg.APIBaseURL, cfg.Timeout),
		barcode.New(cfg.BarcodeBaseURL, cfg.Timeout),
		session.NewManager(st),
		inventory.NewClassifier(cfg.NearExpiryDays),
		os.Stdin,
		os.Stdout,
	).WithTerminal(int(os.Stdin.Fd()))

	return app.Run(ctx)
}
