package db

import (
	"course_catalog/internal/domain" // Importing domain models
	"strings"                        // Case folding

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Models lists every table in dependency order
func Models() []any {
	return []any{&domain.User{}, &domain.Category{}, &domain.Image{}, &domain.Course{}, &domain.Review{}}
}

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	if err := db.AutoMigrate(Models()...); err != nil {
		return err
	}
	// Courses created before the search column existed
	filled, err := backfillNameLower(db)
	if err != nil {
		return err
	}
	if filled > 0 {
		logrus.WithField("courses", filled).Info("Search names backfilled") // Log backfilled rows
	}
	logrus.Info("Migration completed.") // Log successful migration
	return nil
}

// backfillNameLower fills name_lower for rows that still have it empty
func backfillNameLower(db *gorm.DB) (int, error) {
	var (
		batch  []domain.Course // Rows of the current batch
		filled int             // Rows updated so far
	)
	res := db.Select("id", "name").Where("name_lower = ? AND name <> ?", "", "").
		FindInBatches(&batch, 200, func(_ *gorm.DB, _ int) error {
			for _, c := range batch {
				// UpdateColumn skips hooks; the value is computed here
				if err := db.Model(&domain.Course{}).Where("id = ?", c.ID).
					UpdateColumn("name_lower", strings.ToLower(c.Name)).Error; err != nil {
					return err
				}
				filled++
			}
			return nil
		})
	return filled, res.Error
}
