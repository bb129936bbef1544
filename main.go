package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"go.uber.org/zap"

	"xianshiji/cmd/config"
	migration "xianshiji/cmd/database/migrate"
	"xianshiji/internal/utils"
	applog "xianshiji/internal/utils/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate", false, "run database migrations and exit")
	flag.Parse()

	utils.LoadConfig()
	if err := applog.Init(applog.Config{
		Level:  utils.GetConfig("LOG_LEVEL"),
		Format: utils.GetConfig("LOG_FORMAT"),
		File:   utils.GetConfig("LOG_FILE"),
	}); err != nil {
		log.Fatalf("error initializing logger: %v", err)
	}
	defer func() { _ = applog.Sync() }()

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatalf("error connecting database: %v", err)
	}
	if err := migration.Migrate(db); err != nil {
		log.Fatalf("error migrating database: %v", err)
	}
	if *migrateOnly {
		return
	}

	app, err := config.NewApp(db)
	if err != nil {
		log.Fatalf("error creating app: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if digest := config.NewDigest(db); digest != nil {
		interval := config.DigestInterval()
		applog.Get().Info("expiry digest scheduled", zap.Duration("interval", interval))
		go digest.Start(ctx, interval)
	}

	go func() {
		<-ctx.Done()
		applog.Get().Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			applog.Get().Error("shutdown failed", zap.Error(err))
		}
	}()

	port := utils.GetConfigOr("APP_PORT", "8080")
	applog.Get().Info("server starting", zap.String("port", port))
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
