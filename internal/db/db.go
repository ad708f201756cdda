package db

import (
	"fmt"
	"log"
	"os"

	"anonboard/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init connects using DATABASE_URL and DB_DRIVER ("postgres" by default,
// "sqlite" for the embedded variant) and runs migrations. Both backends go
// through the same store layer; the driver is the only difference.
func Init() {
	driver := os.Getenv("DB_DRIVER")
	if driver == "" {
		driver = "postgres"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		if driver == "sqlite" {
			dsn = "anonboard.db"
		} else {
			dsn = "host=localhost user=postgres password=postgres dbname=anonboard port=5432 sslmode=disable"
		}
	}

	var err error
	DB, err = Open(driver, dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err = Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")
}

// Open dials the requested backend without touching the package global.
func Open(driver, dsn string) (*gorm.DB, error) {
	switch driver {
	case "postgres":
		return gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "sqlite":
		g, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		// sqlite leaves referential actions off unless asked
		if err := g.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
		return g, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}
}

// Migrate creates or updates all tables.
func Migrate(g *gorm.DB) error {
	return g.AutoMigrate(
		&models.Topic{},
		&models.Reply{},
		&models.Report{},
		&models.Ban{},
		&models.UserStats{},
		&models.UserName{},
		&models.DailyLimit{},
		&models.NotificationPref{},
	)
}

// Ping verifies connectivity, used by the health endpoint.
func Ping() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
