package repositories

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GeonYul2/Recruitment-Auto/internal/entities"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

func NewDbContext(path string) (*DbContext, error) {

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create db directory: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {

	if err := c.DB.AutoMigrate(entities.Posting{}); err != nil {
		return fmt.Errorf("failed to migrate Posting entity: %w", err)
	}

	if err := c.DB.AutoMigrate(entities.Profile{}); err != nil {
		return fmt.Errorf("failed to migrate Profile entity: %w", err)
	}

	if err := c.DB.AutoMigrate(entities.MatchRecord{}); err != nil {
		return fmt.Errorf("failed to migrate MatchRecord entity: %w", err)
	}

	if err := c.DB.AutoMigrate(RunMetadata{}); err != nil {
		return fmt.Errorf("failed to migrate RunMetadata entity: %w", err)
	}

	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
