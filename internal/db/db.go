package db

import (
	"fmt"
	"time"

	"github.com/pulsechat/pulse-backend/internal/channel"
	"github.com/pulsechat/pulse-backend/internal/config"
	"github.com/pulsechat/pulse-backend/internal/message"
	"github.com/pulsechat/pulse-backend/internal/reaction"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the process-wide connection pool. Handlers get "one logical
// handle per request" by scoping queries with WithContext; the pool bounds
// below replace per-request connection setup.
func Connect(cfg config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.DBDSN)
	case "mysql":
		dialector = mysql.Open(cfg.DBDSN)
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER=%q", cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.DBDriver, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.DBConnMaxLifetime) * time.Second)

	if err := gdb.AutoMigrate(&channel.Channel{}, &message.Message{}, &reaction.Reaction{}); err != nil {
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	return gdb, nil
}
