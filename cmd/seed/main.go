package main

import (
	"course_catalog/internal/api"    // Password hashing
	"course_catalog/internal/config" // Custom import path (Config)
	"course_catalog/internal/db"     // Custom import path (Database)
	"course_catalog/internal/domain" // Importing domain models
	"fmt"                            // String formatting

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Demonstration categories
var categories = []string{"Economics", "Linguistics", "History", "Sport", "Mathematics", "Programming"}

// Main entry point for seeding demonstration data
func main() {
	cfg := config.LoadConfig() // Load configuration

	gdb, err := db.Open(cfg)
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	err = gdb.Transaction(func(tx *gorm.DB) error {
		// Regular users
		if err := seedUsers(tx, "user", "Ivan", "Ivanov", "Ivanovich", "pass123"); err != nil {
			return err
		}
		// Teachers are regular users with a different login
		if err := seedUsers(tx, "teacher", "Petr", "Petrov", "Petrovich", "teach123"); err != nil {
			return err
		}
		for _, name := range categories {
			if err := tx.FirstOrCreate(&domain.Category{}, domain.Category{Name: name}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.WithFields(logrus.Fields{
		"users":      10,
		"teachers":   10,
		"categories": len(categories),
	}).Info("Seed data ready")
}

// seedUsers creates login1..login10 unless they already exist
func seedUsers(tx *gorm.DB, login, first, last, middle, password string) error {
	hash, err := api.HashPassword(password) // One hash shared by the batch
	if err != nil {
		return err
	}
	for i := 1; i <= 10; i++ {
		middleName := fmt.Sprintf("%s%d", middle, i)
		user := domain.User{
			Login:        fmt.Sprintf("%s%d", login, i),
			PasswordHash: hash,
			FirstName:    fmt.Sprintf("%s%d", first, i),
			LastName:     fmt.Sprintf("%s%d", last, i),
			MiddleName:   &middleName,
		}
		if err := tx.Where(domain.User{Login: user.Login}).FirstOrCreate(&user).Error; err != nil {
			return err
		}
	}
	return nil
}
