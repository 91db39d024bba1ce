package database

import (
	"fmt"
	"log"

	"github.com/vastsea/vastsea-api/internal/models"
	"gorm.io/gorm"
)

func Migrate() error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Problem{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}

// AddIndexes adds performance-critical indexes to the database
func AddIndexes(d *gorm.DB) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Problem indexes for filtering, ordering and the leaderboard group-by
		{"problems", "idx_problems_author_id", "author_id"},
		{"problems", "idx_problems_created_at", "created_at"},

		// User lookup by email (login, uniqueness check)
		{"users", "idx_users_email", "email"},
	}

	for _, idx := range indexes {
		if d.Migrator().HasIndex(idx.table, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := d.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, idx.columns)
	}

	return nil
}
