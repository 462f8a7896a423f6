package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avolkau/biblio/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	// foreign_keys pragma keeps sqlite honest about dangling references;
	// cascades themselves are walked explicitly by the repositories.
	db, err := gorm.Open(sqlite.Open(dbPath+"?_foreign_keys=on"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Auto-migrate all entities
	err = db.AutoMigrate(
		&entities.Author{},
		&entities.AuthorProfile{},
		&entities.Category{},
		&entities.Publisher{},
		&entities.Book{},
		&entities.Publication{},
		&entities.LibraryBranch{},
		&entities.BookCopy{},
		&entities.BookLoan{},
		&entities.Reservation{},
		&entities.User{},
		&entities.ReadingList{},
		&entities.BookReview{},
		&entities.BookView{},
		&entities.CategoryAnalytics{},
		&entities.AuthorAnalytics{},
		&entities.RecommendationLog{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
