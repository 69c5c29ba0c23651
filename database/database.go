// File: /database/database.go
package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"testbook-api/models"
)

// Initialize opens the database. A MySQL DSN (anything containing
// "@tcp(") selects the MySQL driver; everything else is treated as a
// SQLite path, which is what development and the test suite run on.
// TranslateError is on so unique-constraint violations surface as
// gorm.ErrDuplicatedKey on both drivers.
func Initialize(databaseURL string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	if strings.Contains(databaseURL, "@tcp(") {
		db, err = gorm.Open(mysql.Open(databaseURL), cfg)
	} else {
		db, err = gorm.Open(sqlite.Open(databaseURL), cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Block{},
		&models.Post{},
		&models.Comment{},
		&models.Reaction{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// The reaction upsert and the duplicate-repost check are
	// check-then-act at the application level; these indexes are what
	// actually closes the race.
	constraints := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS uk_reactions_post_user ON reactions(post_id, user_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS uk_posts_author_original ON posts(author_id, original_post_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS uk_follows_follower_following ON follows(follower_id, following_id)",
		"CREATE UNIQUE INDEX IF NOT EXISTS uk_blocks_blocker_blocked ON blocks(blocker_id, blocked_id)",
	}
	for _, stmt := range constraints {
		if err := db.Exec(stmt).Error; err != nil {
			fmt.Printf("Warning: could not create index: %v\n", err)
		}
	}

	return nil
}

// Reset drops every table and recreates the schema. Only the /dev
// endpoints call this, and only in test mode.
func Reset(db *gorm.DB) error {
	tables := []interface{}{
		&models.Reaction{},
		&models.Comment{},
		&models.Post{},
		&models.Block{},
		&models.Follow{},
		&models.User{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("failed to drop table: %w", err)
		}
	}
	return Migrate(db)
}
