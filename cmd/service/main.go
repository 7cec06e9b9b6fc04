package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/makpal80/avtoray/config"
	_ "github.com/makpal80/avtoray/docs"
	"github.com/makpal80/avtoray/internal/cache"
	"github.com/makpal80/avtoray/internal/cleanup"
	"github.com/makpal80/avtoray/internal/handlers"
	"github.com/makpal80/avtoray/internal/hashing"
	"github.com/makpal80/avtoray/internal/pkg/database"
	"github.com/makpal80/avtoray/internal/pkg/logger"
	"github.com/makpal80/avtoray/internal/producer"
	"github.com/makpal80/avtoray/internal/report"
	"github.com/makpal80/avtoray/internal/repository"
	"github.com/makpal80/avtoray/internal/router"
	"github.com/makpal80/avtoray/internal/service"
	"github.com/makpal80/avtoray/internal/token"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// @Title Avtoray API
// @Version 1.0
// @Description API магазина автозапчастей: каталог, заказы, отчёты
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	_ = godotenv.Load()
	isDev := os.Getenv("ENV") == "development"
	if err := logger.Init(isDev); err != nil {
		panic(err)
	}

	defer logger.Sync()

	log := logger.L()

	if !isDev {
		gin.SetMode(gin.ReleaseMode)
	}

	cfg := config.Load(log)
	db := database.ConnectDB(&cfg.DB.Config, log)
	defer database.CloseDB(db, log)

	repos := repository.New(db)

	var (
		productCache service.ProductCache
		limiter      service.RateLimiter
	)
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second, log)
		if err != nil {
			log.Warn("Redis недоступен, кэш и лимиты отключены", zap.Error(err))
		} else {
			defer rc.Close()
			productCache, limiter = rc, rc
		}
	}

	// Шина событий опциональна: без KAFKA_BROKERS события не публикуются
	var events service.EventBus
	if len(cfg.Kafka.Brokers) > 0 {
		p := producer.NewOrderProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer p.Close()
		events = p
	}

	loyalty, err := service.ParseTiers(cfg.Loyalty)
	if err != nil {
		log.Fatal("Некорректное значение LOYALTY_TIERS", zap.Error(err))
	}

	tokens := token.NewHSProvider(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Audience)
	authSvc := service.NewAuthService(repos.Users, hashing.NewBcrypt(0), tokens, limiter, cfg.JWT.AccessExp, log)
	catalogSvc := service.NewCatalogService(repos, productCache, log)
	orderSvc := service.NewOrderService(repos, loyalty, events, log)
	reportSvc := service.NewReportService(repos.Orders, repos.Users, report.NewExcelWriter(), log)

	r := router.Router(router.Deps{
		Auth:      authSvc,
		Authn:     authSvc,
		Catalog:   catalogSvc,
		Orders:    handlers.NewOrderHandler(orderSvc, log),
		Reports:   reportSvc,
		UploadDir: cfg.UploadDir,
	}, log)

	if cfg.UploadCleanupInterval > 0 {
		sched := cleanup.NewScheduler(
			cleanup.NewCleanupService(repos.Variants, cfg.UploadDir, cleanup.DefaultGrace, log),
			cfg.UploadCleanupInterval, log)
		sched.Start(context.Background())
		defer sched.Stop()
	}

	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	<-quit
	log.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("HTTP server shutdown failed", zap.Error(err))
	}
	log.Info("HTTP server stopped gracefully")
}
