package repository

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
)

// InitDB opens the chat-recorder database. The schema is owned by the
// recorder bot and this service only reads from it, so there is no
// AutoMigrate here.
func InitDB(cfg config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsDevelopment() {
		level = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}
