package db

import (
	"course_catalog/internal/config" // Application configuration
	"fmt"                            // Error formatting

	"gorm.io/driver/mysql"    // MySQL driver for GORM
	"gorm.io/driver/postgres" // PostgreSQL driver for GORM
	"gorm.io/driver/sqlite"   // SQLite driver for GORM
	"gorm.io/gorm"            // GORM ORM library
)

// DSN builds the data source name for the configured driver
func DSN(cfg *config.Config) (string, error) {
	switch cfg.DBDriver {
	case "mysql":
		port := cfg.DBPort
		if port == "" {
			port = "3306"
		}
		return cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + port + ")/" + cfg.DBName + "?parseTime=true&charset=utf8mb4", nil
	case "postgres":
		port := cfg.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, port), nil
	case "sqlite":
		return cfg.DBPath + "?_foreign_keys=on", nil
	}
	return "", fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
}

// Open connects to the configured database. Driver errors are translated
// into gorm's portable errors (ErrDuplicatedKey, ErrForeignKeyViolated).
func Open(cfg *config.Config) (*gorm.DB, error) {
	dsn, err := DSN(cfg) // Resolve the DSN first
	if err != nil {
		return nil, err
	}
	var dialector gorm.Dialector // Driver-specific dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	}
	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.DBDriver, err)
	}
	return db, nil
}
