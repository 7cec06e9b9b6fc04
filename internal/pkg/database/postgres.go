package database

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Config struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

func ConnectDB(cfg *Config, log *zap.Logger) *gorm.DB {
	return connect(cfg, log, gormlogger.Warn)
}

// ConnectDBForMigration logs every statement so migrations are traceable.
func ConnectDBForMigration(cfg *Config, log *zap.Logger) *gorm.DB {
	return connect(cfg, log, gormlogger.Info)
}

func connect(cfg *Config, log *zap.Logger, level gormlogger.LogLevel) *gorm.DB {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:  gormlogger.Default.LogMode(level),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		log.Fatal("Не удалось подключиться к базе данных", zap.String("host", cfg.Host), zap.Error(err))
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("Не удалось получить sql.DB", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Info("Подключение к базе данных установлено", zap.String("host", cfg.Host), zap.String("db", cfg.Name))
	return db
}

func CloseDB(db *gorm.DB, log *zap.Logger) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Error("Не удалось получить sql.DB для закрытия", zap.Error(err))
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("Ошибка при закрытии соединения с базой", zap.Error(err))
		return
	}
	log.Info("Соединение с базой данных закрыто")
}
