package catalog

import (
	"context"                        // Request-scoped context
	"course_catalog/internal/domain" // Importing domain models
	"course_catalog/internal/utils"  // Cache helpers
	"errors"                         // Error matching
	"fmt"                            // Message formatting
	"strings"                        // String manipulation

	"github.com/go-playground/validator/v10" // Struct validation
	"github.com/redis/go-redis/v9"           // Redis client
	"github.com/sirupsen/logrus"             // Logging library
	"gorm.io/gorm"                           // GORM ORM library
	"gorm.io/gorm/clause"                    // Association omission
)

// CoursesPath is where a successful course creation sends the user
const CoursesPath = "/courses/"

// CreateCourseInput is the course creation form
type CreateCourseInput struct {
	AuthorID   uint    `json:"author_id" validate:"required"`           // Course author
	Name       string  `json:"name" validate:"required,max=100"`        // Course name
	CategoryID uint    `json:"category_id"`                             // Checked before the other fields
	ShortDesc  string  `json:"short_desc" validate:"required,max=1000"` // Short description
	FullDesc   string  `json:"full_desc" validate:"required"`           // Full description
	Image      *Upload `json:"-" validate:"-"`                          // Optional background image
}

// CourseForm is what the creation form needs to render its selects
type CourseForm struct {
	Categories []domain.Category `json:"categories"` // Category select
	Users      []domain.User     `json:"users"`      // Author select
}

// CourseService lists and creates courses
type CourseService struct {
	db       *gorm.DB            // Database handle
	rdb      *redis.Client       // Cache, nil when disabled
	images   *ImageSaver         // Background images
	validate *validator.Validate // Form validation
}

// NewCourseService wires the service; rdb may be nil to disable caching.
func NewCourseService(db *gorm.DB, rdb *redis.Client, images *ImageSaver) *CourseService {
	return &CourseService{db: db, rdb: rdb, images: images, validate: validator.New()}
}

// Search returns one page of courses matching the filter
func (s *CourseService) Search(ctx context.Context, f CourseFilter, page, perPage int) (Page[domain.Course], error) {
	base := f.Scope(s.db.WithContext(ctx).Model(&domain.Course{}))
	return paginate[domain.Course](base, page, perPage, courseOrder, withCourseRelations)
}

// Categories returns every category ordered by name
func (s *CourseService) Categories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if found, err := utils.GetCache(ctx, s.rdb, utils.CategoriesCacheKey, &categories); err == nil && found {
		return categories, nil // Served from cache
	}
	if err := s.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, classify(err)
	}
	_ = utils.SetCache(ctx, s.rdb, utils.CategoriesCacheKey, categories, utils.CategoriesCacheTTL) // Best effort
	return categories, nil
}

// FormContext loads the categories and candidate authors for the creation form
func (s *CourseService) FormContext(ctx context.Context) (*CourseForm, error) {
	categories, err := s.Categories(ctx)
	if err != nil {
		return nil, err
	}
	var users []domain.User
	if err := s.db.WithContext(ctx).Order("last_name, first_name").Find(&users).Error; err != nil {
		return nil, classify(err)
	}
	return &CourseForm{Categories: categories, Users: users}, nil
}

// Create validates the form and writes the course, and its background image
// if one was uploaded, in a single transaction
func (s *CourseService) Create(ctx context.Context, in CreateCourseInput) (Result, *domain.Course) {
	// Category first, without touching the database
	if in.CategoryID == 0 {
		return failed(ErrCategoryRequired, ""), nil
	}
	in.Name = strings.TrimSpace(in.Name)
	in.ShortDesc = strings.TrimSpace(in.ShortDesc)
	in.FullDesc = strings.TrimSpace(in.FullDesc)
	if err := s.validate.Struct(in); err != nil {
		return failed(describeValidation(err), ""), nil
	}

	var (
		course   domain.Course
		newImage *domain.Image
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &domain.Category{}, in.CategoryID, ErrUnknownCategory); err != nil {
			return err
		}
		if err := mustExist(tx, &domain.User{}, in.AuthorID, ErrUnknownAuthor); err != nil {
			return err
		}

		course = domain.Course{
			Name:       in.Name,
			ShortDesc:  in.ShortDesc,
			FullDesc:   in.FullDesc,
			CategoryID: in.CategoryID,
			AuthorID:   in.AuthorID,
		}
		if in.Image != nil {
			img, created, err := s.images.Save(ctx, tx, *in.Image)
			if err != nil {
				return err
			}
			if created {
				newImage = img
			}
			course.BackgroundImageID = &img.ID
		}
		return tx.Omit(clause.Associations).Create(&course).Error // Return error to rollback
	})
	if err != nil {
		// The row is gone with the rollback, the blob is not
		if newImage != nil {
			s.images.Discard(ctx, newImage)
		}
		err = classify(err)
		logrus.WithFields(logrus.Fields{
			"author_id":   in.AuthorID,
			"category_id": in.CategoryID,
			"error":       err.Error(),
		}).Error("Course creation failed")
		return failed(err, ""), nil
	}

	logrus.WithFields(logrus.Fields{
		"course_id":   course.ID,
		"author_id":   course.AuthorID,
		"category_id": course.CategoryID,
	}).Info("Course created")
	return succeeded(fmt.Sprintf("Course %s has been added", course.Name), CoursesPath), &course
}

// mustExist fails with missing unless a row of model with the id exists
func mustExist(tx *gorm.DB, model any, id uint, missing error) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}

// describeValidation turns the first validator failure into a message
func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return validationError("Invalid course data")
	}
	fe := verrs[0]
	field := map[string]string{
		"AuthorID":  "Author",
		"Name":      "Name",
		"ShortDesc": "Short description",
		"FullDesc":  "Full description",
	}[fe.Field()]
	if field == "" {
		field = fe.Field()
	}
	switch fe.Tag() {
	case "required":
		return validationError(field + " is required")
	case "max":
		return validationError(field + " must be at most " + fe.Param() + " characters")
	}
	return validationError(field + " is invalid")
}
