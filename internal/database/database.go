package database

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/mini-maxit/judge/internal/logger"
	"github.com/mini-maxit/judge/internal/models"
)

// NewPostgresDatabase opens the submission database and migrates the schema.
func NewPostgresDatabase(dsn string) (*gorm.DB, error) {
	logger := logger.NewNamedLogger("database")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		logger.Errorf("Failed to connect to database: %s", err)
		return nil, err
	}
	if err := Migrate(db); err != nil {
		logger.Errorf("Failed to migrate database: %s", err)
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.Submission{})
}
