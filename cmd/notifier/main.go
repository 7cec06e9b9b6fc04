package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/makpal80/avtoray/config"
	"github.com/makpal80/avtoray/internal/consumer"
	"github.com/makpal80/avtoray/internal/pkg/logger"
	"github.com/makpal80/avtoray/internal/sender"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	cfg := config.LoadNotifier(log)

	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("no kafka brokers configured (KAFKA_BROKERS)")
	}

	emailSender := sender.NewEmailSender(cfg)
	cons := consumer.NewKafkaOrderConsumer(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaTopic, emailSender, cfg.AdminEmail, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := cons.Run(ctx); err != nil {
			log.Error("consumer stopped", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Info("shutdown signal received")
	cancel()
	_ = cons.Close()
	time.Sleep(200 * time.Millisecond)
}
