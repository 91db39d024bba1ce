package database

import (
	"fmt"
	"log"
	"sync"

	"github.com/vastsea/vastsea-api/internal/config"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	db      *gorm.DB
	once    sync.Once
	connErr error
)

// Connect establishes the process-wide database connection. The connection is
// created at most once; repeated calls return the result of the first attempt.
func Connect(cfg *config.Config) error {
	once.Do(func() {
		dialector, err := openDialector(cfg)
		if err != nil {
			connErr = err
			return
		}

		db, connErr = gorm.Open(dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(logger.Info),
			TranslateError: true,
		})
		if connErr != nil {
			connErr = fmt.Errorf("failed to connect to database: %w", connErr)
			return
		}

		log.Println("Database connection established")
	})

	return connErr
}

func openDialector(cfg *config.Config) (gorm.Dialector, error) {
	switch cfg.DBDriver {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBName,
		)
		return mysql.Open(dsn), nil
	case "postgres":
		dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.DBHost,
			cfg.DBPort,
			cfg.DBUser,
			cfg.DBPassword,
			cfg.DBName,
		)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", cfg.DBDriver)
	}
}

func GetDB() *gorm.DB {
	return db
}

// SetDB sets the database instance (used for testing)
func SetDB(d *gorm.DB) {
	db = d
}

// Close releases the underlying connection pool on shutdown.
func Close() error {
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
