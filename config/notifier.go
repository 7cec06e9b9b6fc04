package config

import (
	"os"
	"strconv"

	"go.uber.org/zap"
)

type Notifier struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	SMTPFrom     string
	AdminEmail   string

	TMPLDir string

	KafkaBrokers []string
	KafkaGroupID string
	KafkaTopic   string
}

func LoadNotifier(log *zap.Logger) *Notifier {
	return &Notifier{
		SMTPHost:     getEnv("SMTP_HOST", log),
		SMTPPort:     getEnvInt("SMTP_PORT", log),
		SMTPUser:     getEnv("SMTP_USER", log),
		SMTPPassword: getEnv("SMTP_PASSWORD", log),
		SMTPFrom:     getEnv("SMTP_FROM", log),
		AdminEmail:   getEnv("ADMIN_EMAIL", log),
		TMPLDir:      getEnvDefault("TMPL_DIR", "./templates"),
		KafkaBrokers: splitAndTrim(os.Getenv("KAFKA_BROKERS")),
		KafkaGroupID: getEnvDefault("KAFKA_GROUP_ID", "avtoray-notifier"),
		KafkaTopic:   getEnvDefault("KAFKA_TOPIC_ORDERS", "orders.events"),
	}
}

func getEnvInt(key string, log *zap.Logger) int {
	valStr := getEnv(key, log)
	val, err := strconv.Atoi(valStr)
	if err != nil {
		log.Error("Ошибка преобразования переменной окружения в int", zap.String("key", key), zap.Error(err))
		panic("invalid int value for environment variable: " + key)
	}
	return val
}
