package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/makpal80/avtoray/internal/pkg/database"

	"go.uber.org/zap"
)

type Config struct {
	Port      string
	UploadDir string
	JWT       JWT
	DB        DB
	Redis     Redis
	Kafka     Kafka
	Loyalty   string // "5:3,10:5", заказов:процент

	// 0 отключает фоновую очистку загрузок
	UploadCleanupInterval time.Duration
}

type JWT struct {
	Secret    string
	Issuer    string
	Audience  string
	AccessExp time.Duration
}

type DB struct {
	database.Config
}

type Redis struct {
	Enabled    bool
	Addr       string
	Password   string
	DB         int
	TTLSeconds int
}

type Kafka struct {
	Brokers []string
	Topic   string
}

func Load(log *zap.Logger) *Config {
	cfg := &Config{
		Port:      getEnv("APP_PORT", log),
		UploadDir: getEnvDefault("UPLOAD_DIR", "./uploads"),
		JWT: JWT{
			Secret:    getEnv("JWT_SECRET", log),
			Issuer:    getEnvDefault("JWT_ISSUER", "avtoray"),
			Audience:  getEnvDefault("JWT_AUDIENCE", "avtoray-web"),
			AccessExp: parseDurationWithDays(getEnvDefault("ACCESS_EXP", "7d")),
		},
		DB: DB{
			Config: database.Config{
				Host:     getEnv("DB_HOST", log),
				Port:     getEnv("DB_PORT", log),
				User:     getEnv("DB_USER", log),
				Password: getEnv("DB_PASSWORD", log),
				Name:     getEnv("DB_NAME", log),
				SSLMode:  getEnvDefault("DB_SSLMODE", "disable"),
			},
		},
		Redis: Redis{
			Enabled:    getEnvDefault("REDIS_ENABLED", "false") == "true",
			Addr:       getEnvDefault("REDIS_ADDR", "localhost:6379"),
			Password:   os.Getenv("REDIS_PASSWORD"),
			DB:         atoiDefault(os.Getenv("REDIS_DB"), 0),
			TTLSeconds: atoiDefault(os.Getenv("CACHE_TTL_SECONDS"), 60),
		},
		Kafka: Kafka{
			Brokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnvDefault("KAFKA_TOPIC_ORDERS", "orders.events"),
		},
		Loyalty: os.Getenv("LOYALTY_TIERS"),
	}
	cfg.UploadCleanupInterval = parseDurationWithDays(getEnvDefault("UPLOAD_CLEANUP_INTERVAL", "6h"))
	if cfg.JWT.AccessExp <= 0 {
		log.Error("Некорректное значение ACCESS_EXP, используется 7d")
		cfg.JWT.AccessExp = 7 * 24 * time.Hour
	}
	return cfg
}

func getEnv(key string, log *zap.Logger) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	log.Error("Обязательная переменная окружения не установлена", zap.String("key", key))
	panic("missing required environment variable: " + key)
}

func getEnvDefault(key, def string) string {
	if val, exists := os.LookupEnv(key); exists && val != "" {
		return val
	}
	return def
}

func parseDurationWithDays(s string) time.Duration {
	if strings.HasSuffix(s, "d") {
		daysStr := strings.TrimSuffix(s, "d")
		days, err := time.ParseDuration(daysStr + "h")
		if err != nil {
			log.Printf("Ошибка парсинга TTL: %v", err)
			return 0
		}
		return time.Duration(24) * days
	}

	duration, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return duration
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	parts := []string{}
	for _, p := range strings.Split(s, ",") {
		pt := strings.TrimSpace(p)
		if pt != "" {
			parts = append(parts, pt)
		}
	}
	return parts
}
