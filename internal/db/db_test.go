package db

import (
	"testing"

	"course_catalog/internal/config"
	"course_catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	cfg := &config.Config{DBUser: "app", DBPassword: "secret", DBHost: "db", DBName: "courses", DBPath: "/tmp/c.db"}

	cfg.DBDriver = "mysql"
	dsn, err := DSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "app:secret@tcp(db:3306)/courses?parseTime=true&charset=utf8mb4", dsn)

	cfg.DBDriver = "postgres"
	cfg.DBPort = "6543"
	dsn, err = DSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "host=db user=app password=secret dbname=courses port=6543 sslmode=disable", dsn)

	cfg.DBDriver = "sqlite"
	dsn, err = DSN(cfg)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/c.db?_foreign_keys=on", dsn)

	cfg.DBDriver = "oracle"
	_, err = DSN(cfg)
	assert.Error(t, err)
}

func TestOpenAndMigrate_SQLite(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: t.TempDir() + "/courses.db"}

	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	for _, model := range Models() {
		assert.True(t, gdb.Migrator().HasTable(model))
	}
	assert.True(t, gdb.Migrator().HasIndex(&domain.Review{}, "idx_reviews_course_user"))
}

func TestMigrate_BackfillsSearchNames(t *testing.T) {
	cfg := &config.Config{DBDriver: "sqlite", DBPath: t.TempDir() + "/courses.db"}
	gdb, err := Open(cfg)
	require.NoError(t, err)
	require.NoError(t, Migrate(gdb))

	user := domain.User{Login: "user1", PasswordHash: "x", FirstName: "Ivan", LastName: "Ivanov"}
	require.NoError(t, gdb.Create(&user).Error)
	category := domain.Category{Name: "Economics"}
	require.NoError(t, gdb.Create(&category).Error)
	// Rows written before the column existed carry an empty search name
	require.NoError(t, gdb.Exec(
		"INSERT INTO courses (name, name_lower, short_desc, full_desc, category_id, author_id, created_at) VALUES (?, '', 's', 'f', ?, ?, CURRENT_TIMESTAMP)",
		"Экономика ДЛЯ Всех", category.ID, user.ID).Error)

	require.NoError(t, Migrate(gdb))

	var course domain.Course
	require.NoError(t, gdb.Where("name = ?", "Экономика ДЛЯ Всех").First(&course).Error)
	assert.Equal(t, "экономика для всех", course.NameLower)
}
