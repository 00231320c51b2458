package catalog

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"course_catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// pngHeader is enough for http.DetectContentType to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestSearch_Filters(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "History", "Mathematics", "Programming")
	history, maths, prog := f.categories[0], f.categories[1], f.categories[2]
	f.course(t, "Ancient History", history)
	f.course(t, "Modern History", history)
	f.course(t, "Calculus", maths)
	f.course(t, "History of Mathematics", maths)
	f.course(t, "Go Programming", prog)
	svc := NewCourseService(db, nil, nil)
	ctx := context.Background()

	names := func(p Page[domain.Course]) []string {
		out := make([]string, 0, len(p.Items))
		for _, c := range p.Items {
			out = append(out, c.Name)
		}
		return out
	}

	t.Run("no filter returns all in insertion order", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{}, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, int64(5), page.Total)
		assert.Equal(t, []string{"Ancient History", "Modern History", "Calculus", "History of Mathematics", "Go Programming"}, names(page))
	})

	t.Run("single category returns only that category", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{CategoryIDs: []uint{maths.ID}}, 1, 0)
		require.NoError(t, err)
		for _, c := range page.Items {
			assert.Equal(t, maths.ID, c.CategoryID)
		}
		assert.Equal(t, []string{"Calculus", "History of Mathematics"}, names(page))
	})

	t.Run("name is a case-insensitive substring", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{Name: "hIsToRy"}, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"Ancient History", "Modern History", "History of Mathematics"}, names(page))
	})

	t.Run("name and categories combine", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{Name: "history", CategoryIDs: []uint{maths.ID, prog.ID}}, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"History of Mathematics"}, names(page))
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{}, 2, 2)
		require.NoError(t, err)
		assert.Equal(t, []string{"Calculus", "History of Mathematics"}, names(page))
		assert.Equal(t, 3, page.TotalPages)
		assert.True(t, page.HasPrev())
		assert.True(t, page.HasNext())

		page, err = svc.Search(ctx, CourseFilter{}, 9, 2)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Equal(t, int64(5), page.Total)
	})

	t.Run("relations are loaded", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{Name: "calculus"}, 1, 0)
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		require.NotNil(t, page.Items[0].Category)
		require.NotNil(t, page.Items[0].Author)
		assert.Equal(t, "Mathematics", page.Items[0].Category.Name)
		assert.Equal(t, f.users[0].Login, page.Items[0].Author.Login)
	})

	t.Run("no match", func(t *testing.T) {
		page, err := svc.Search(ctx, CourseFilter{Name: "astronomy"}, 1, 0)
		require.NoError(t, err)
		assert.Empty(t, page.Items)
		assert.Zero(t, page.TotalPages)
	})

	t.Run("non-ASCII names match in any case", func(t *testing.T) {
		f.course(t, "Экономика для всех", history)
		for _, q := range []string{"Экономика", "экономика", "ЭКОНОМИКА", "для ВСЕХ"} {
			page, err := svc.Search(ctx, CourseFilter{Name: q}, 1, 0)
			require.NoError(t, err)
			assert.Equal(t, []string{"Экономика для всех"}, names(page), q)
		}
	})

	t.Run("wildcards in the name match literally", func(t *testing.T) {
		f.course(t, "100% Go_lang", prog)
		f.course(t, "Wow! Stats", maths)
		cases := map[string][]string{
			"_":      {"100% Go_lang"},
			"%":      {"100% Go_lang"},
			"0% go_": {"100% Go_lang"},
			"!":      {"Wow! Stats"},
			"c_l":    {},
		}
		for q, want := range cases {
			page, err := svc.Search(ctx, CourseFilter{Name: q}, 1, 0)
			require.NoError(t, err)
			assert.Equal(t, want, names(page), q)
		}
	})
}

func TestNormalizePage(t *testing.T) {
	page, per := normalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPerPage, per)

	page, per = normalizePage(-3, 1000)
	assert.Equal(t, 1, page)
	assert.Equal(t, MaxPerPage, per)
}

func validCourseInput(f *fixture) CreateCourseInput {
	return CreateCourseInput{
		AuthorID:   f.users[0].ID,
		Name:       "Statistics",
		CategoryID: f.categories[0].ID,
		ShortDesc:  "Probability and inference",
		FullDesc:   "A long description",
	}
}

func courseCount(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&domain.Course{}).Count(&n).Error)
	return n
}

func TestCreate_WithoutCategory(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	svc := NewCourseService(db, nil, nil)

	in := validCourseInput(f)
	in.CategoryID = 0
	res, course := svc.Create(context.Background(), in)

	assert.False(t, res.Success)
	assert.Nil(t, course)
	assert.ErrorIs(t, res.Err, ErrCategoryRequired)
	assert.ErrorIs(t, res.Err, ErrValidation)
	assert.Equal(t, LevelWarning, res.Level)
	assert.Empty(t, res.Redirect)
	assert.Zero(t, courseCount(t, db))
}

func TestCreate_FieldValidation(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	svc := NewCourseService(db, nil, nil)

	tests := []struct {
		name   string
		mutate func(*CreateCourseInput)
		want   string
	}{
		{"blank name", func(in *CreateCourseInput) { in.Name = "   " }, "Name is required"},
		{"long name", func(in *CreateCourseInput) { in.Name = strings.Repeat("a", 101) }, "Name must be at most 100 characters"},
		{"no short desc", func(in *CreateCourseInput) { in.ShortDesc = "" }, "Short description is required"},
		{"no author", func(in *CreateCourseInput) { in.AuthorID = 0 }, "Author is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validCourseInput(f)
			tt.mutate(&in)
			res, _ := svc.Create(context.Background(), in)
			assert.False(t, res.Success)
			assert.ErrorIs(t, res.Err, ErrValidation)
			assert.Equal(t, tt.want, res.Message)
		})
	}
	assert.Zero(t, courseCount(t, db))
}

func TestCreate_UnknownReferences(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	svc := NewCourseService(db, nil, nil)
	ctx := context.Background()

	in := validCourseInput(f)
	in.CategoryID = 999
	res, _ := svc.Create(ctx, in)
	assert.ErrorIs(t, res.Err, ErrUnknownCategory)
	assert.ErrorIs(t, res.Err, ErrIntegrity)

	in = validCourseInput(f)
	in.AuthorID = 999
	res, _ = svc.Create(ctx, in)
	assert.ErrorIs(t, res.Err, ErrUnknownAuthor)

	assert.Zero(t, courseCount(t, db))
}

func TestCreate_Success(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	svc := NewCourseService(db, nil, nil)

	res, course := svc.Create(context.Background(), validCourseInput(f))

	require.True(t, res.Success, res.Message)
	require.NotNil(t, course)
	assert.Equal(t, CoursesPath, res.Redirect)
	assert.Equal(t, "Course Statistics has been added", res.Message)
	assert.Nil(t, course.BackgroundImageID)
	assert.Zero(t, course.RatingSum)
	assert.Zero(t, course.RatingNum)
	assert.Equal(t, int64(1), courseCount(t, db))
}

func TestCreate_WithImage(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	images, _, dir := newTestImageSaver(t, db)
	svc := NewCourseService(db, nil, images)
	ctx := context.Background()

	in := validCourseInput(f)
	in.Image = &Upload{FileName: "cover.png", ContentType: "image/png", Body: bytes.NewReader(pngHeader)}
	res, course := svc.Create(ctx, in)
	require.True(t, res.Success, res.Message)
	require.NotNil(t, course.BackgroundImageID)

	img, rc, err := images.Open(ctx, *course.BackgroundImageID)
	require.NoError(t, err)
	defer rc.Close()
	assert.Equal(t, "cover.png", img.FileName)
	assert.Equal(t, "image/png", img.MimeType)
	assert.FileExists(t, dir+"/"+img.StorageKey())

	// Identical bytes reuse the stored image.
	in = validCourseInput(f)
	in.Name = "Statistics II"
	in.Image = &Upload{FileName: "copy.png", Body: bytes.NewReader(pngHeader)}
	res, second := svc.Create(ctx, in)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, *course.BackgroundImageID, *second.BackgroundImageID)

	var n int64
	require.NoError(t, db.Model(&domain.Image{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}

func TestCreate_RejectsBadImages(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	images, _, _ := newTestImageSaver(t, db)
	svc := NewCourseService(db, nil, images)
	ctx := context.Background()

	in := validCourseInput(f)
	in.Image = &Upload{FileName: "notes.txt", Body: strings.NewReader("plain text")}
	res, _ := svc.Create(ctx, in)
	assert.ErrorIs(t, res.Err, ErrNotAnImage)

	in = validCourseInput(f)
	in.Image = &Upload{FileName: "huge.png", ContentType: "image/png", Body: bytes.NewReader(make([]byte, MaxImageSize+1))}
	res, _ = svc.Create(ctx, in)
	assert.ErrorIs(t, res.Err, ErrImageTooLarge)

	assert.Zero(t, courseCount(t, db))
}

func TestCreate_RollbackRemovesImage(t *testing.T) {
	db := setupTestDB(t)
	f := seedFixture(t, db, 1, "Mathematics")
	images, _, dir := newTestImageSaver(t, db)
	svc := NewCourseService(db, nil, images)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail_course", func(tx *gorm.DB) {
		if tx.Statement.Table == "courses" {
			_ = tx.AddError(errors.New("constraint failed"))
		}
	}))

	in := validCourseInput(f)
	in.Image = &Upload{FileName: "cover.png", ContentType: "image/png", Body: bytes.NewReader(pngHeader)}
	res, course := svc.Create(context.Background(), in)

	assert.False(t, res.Success)
	assert.Nil(t, course)
	assert.ErrorIs(t, res.Err, ErrStorage)

	require.NoError(t, db.Callback().Create().Remove("test:fail_course"))
	assert.Zero(t, courseCount(t, db))
	var n int64
	require.NoError(t, db.Model(&domain.Image{}).Count(&n).Error)
	assert.Zero(t, n)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFormContext(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db, 3, "Sport", "Economics")
	svc := NewCourseService(db, nil, nil)

	form, err := svc.FormContext(context.Background())
	require.NoError(t, err)
	require.Len(t, form.Categories, 2)
	assert.Equal(t, "Economics", form.Categories[0].Name)
	assert.Len(t, form.Users, 3)
}

func TestImageOpen_Missing(t *testing.T) {
	db := setupTestDB(t)
	images, _, _ := newTestImageSaver(t, db)

	_, _, err := images.Open(context.Background(), "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrImageNotFound)
}
