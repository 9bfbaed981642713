package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"internlab/config"
	"internlab/database"
	"internlab/logger"
	"internlab/routers"
	"internlab/utils"
)

func main() {
	config.LoadConfig()
	if err := logger.Init(config.AppConfig.AppEnv); err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Log.Sync()

	if err := database.ConnectDb(); err != nil {
		logger.Log.Fatal("database connection failed", "error", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := database.ConnectCache(ctx); err != nil {
		logger.Log.Warn("redis unavailable, stats cache disabled", "error", err)
	}
	cancel()

	scheduler, err := utils.InitializeEnrollmentScheduler()
	if err != nil {
		logger.Log.Fatal("scheduler init failed", "error", err)
	}
	defer scheduler.Stop()

	app := routers.NewApp()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		logger.Log.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.Log.Error("shutdown failed", "error", err)
		}
	}()

	logger.Log.Info("server is running", "port", config.AppConfig.Port, "env", config.AppConfig.AppEnv)
	if err := app.Listen(":" + config.AppConfig.Port); err != nil {
		logger.Log.Fatal("server stopped", "error", err)
	}
}
