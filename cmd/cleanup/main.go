package main

import (
	"context"
	"os"

	"github.com/makpal80/avtoray/config"
	"github.com/makpal80/avtoray/internal/cleanup"
	"github.com/makpal80/avtoray/internal/pkg/database"
	"github.com/makpal80/avtoray/internal/pkg/logger"
	"github.com/makpal80/avtoray/internal/repository"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Разовая очистка загрузок, например из cron, когда фоновый планировщик отключён.
func main() {
	_ = godotenv.Load()

	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.L()
	cfg := config.Load(log)

	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)
	svc := cleanup.NewCleanupService(repos.Variants, cfg.UploadDir, cleanup.DefaultGrace, log)

	log.Info("running uploads cleanup", zap.String("dir", cfg.UploadDir))
	removed, err := svc.CleanupOrphanedUploads(context.Background())
	if err != nil {
		log.Fatal("failed to cleanup uploads", zap.Error(err))
	}
	log.Info("cleanup completed successfully", zap.Int("removed", removed))
}
