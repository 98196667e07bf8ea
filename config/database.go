package config

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hanzicards/hanzicards-api/models"
)

var Database *gorm.DB

// Connect opens the database named by DB_URL and migrates the schema. With
// no DB_URL set it falls back to an in-memory sqlite database for local runs.
func Connect() error {
	var err error
	dbURL := os.Getenv("DB_URL")
	if dbURL == "" {
		Database, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	} else {
		Database, err = gorm.Open(postgres.Open(dbURL), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("config: connect database: %w", err)
	}

	err = Database.AutoMigrate(&models.User{}, &models.Category{}, &models.FlashcardSet{}, &models.Flashcard{})
	if err != nil {
		return fmt.Errorf("config: auto migrate database: %w", err)
	}

	return nil
}
