package catalog

import (
	"fmt"
	"testing"
	"time"

	catalogdb "course_catalog/internal/db"
	"course_catalog/internal/domain"
	"course_catalog/internal/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?_foreign_keys=on"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// One connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, catalogdb.Migrate(db))
	return db
}

type fixture struct {
	db         *gorm.DB
	users      []domain.User
	categories []domain.Category
}

// seedFixture creates n users and the named categories.
func seedFixture(t *testing.T, db *gorm.DB, n int, categories ...string) *fixture {
	t.Helper()
	f := &fixture{db: db}
	for i := 1; i <= n; i++ {
		u := domain.User{
			Login:        fmt.Sprintf("user%d", i),
			PasswordHash: "x",
			FirstName:    fmt.Sprintf("Ivan%d", i),
			LastName:     fmt.Sprintf("Ivanov%d", i),
		}
		require.NoError(t, db.Create(&u).Error)
		f.users = append(f.users, u)
	}
	for _, name := range categories {
		c := domain.Category{Name: name}
		require.NoError(t, db.Create(&c).Error)
		f.categories = append(f.categories, c)
	}
	return f
}

func (f *fixture) course(t *testing.T, name string, category domain.Category) domain.Course {
	t.Helper()
	c := domain.Course{
		Name:       name,
		ShortDesc:  "short",
		FullDesc:   "full",
		CategoryID: category.ID,
		AuthorID:   f.users[0].ID,
	}
	require.NoError(t, f.db.Omit("Category", "Author", "BackgroundImage").Create(&c).Error)
	return c
}

func (f *fixture) reload(t *testing.T, id uint) domain.Course {
	t.Helper()
	var c domain.Course
	require.NoError(t, f.db.First(&c, id).Error)
	return c
}

func (f *fixture) reviewCount(t *testing.T, courseID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(&domain.Review{}).Where("course_id = ?", courseID).Count(&n).Error)
	return n
}

// fixedClock returns successive instants one minute apart.
func fixedClock(start time.Time) func() time.Time {
	next := start
	return func() time.Time {
		now := next
		next = next.Add(time.Minute)
		return now
	}
}

func newTestImageSaver(t *testing.T, db *gorm.DB) (*ImageSaver, *storage.DiskStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewDiskStore(dir)
	require.NoError(t, err)
	return NewImageSaver(db, store), store, dir
}
