package catalog

import (
	"context"                        // Request-scoped context
	"course_catalog/internal/domain" // Importing domain models
	"course_catalog/internal/utils"  // Cache helpers
	"errors"                         // Error matching
	"fmt"                            // Path formatting
	"strings"                        // String manipulation
	"time"                           // Timestamps

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
	"gorm.io/gorm/clause"          // Association omission
)

// LatestReviewsLimit is how many reviews the course page shows
const LatestReviewsLimit = 5

// SortMode orders a course's reviews
type SortMode string

// Sort modes accepted in the sort query parameter
const (
	SortNewest   SortMode = "newest"
	SortPositive SortMode = "positive"
	SortNegative SortMode = "negative"
)

// ParseSortMode falls back to SortNewest for unknown values
func ParseSortMode(s string) SortMode {
	switch m := SortMode(s); m {
	case SortPositive, SortNegative:
		return m
	}
	return SortNewest
}

func (m SortMode) order(db *gorm.DB) *gorm.DB {
	// Ties break on id so pages stay stable
	switch m {
	case SortPositive:
		return db.Order("reviews.rating DESC").Order("reviews.id DESC")
	case SortNegative:
		return db.Order("reviews.rating ASC").Order("reviews.id DESC")
	}
	return db.Order("reviews.created_at DESC").Order("reviews.id DESC")
}

// Origin is the page a review was submitted from
type Origin int

// Review form locations

const (
	FromCourse Origin = iota
	FromReviews
)

// Redirect is the page to return to after submitting from o
func (o Origin) Redirect(courseID uint) string {
	if o == FromReviews {
		return fmt.Sprintf("/courses/%d/reviews", courseID)
	}
	return fmt.Sprintf("/courses/%d", courseID)
}

// AddReviewInput is a review submission by an authenticated user
type AddReviewInput struct {
	CourseID uint   // Reviewed course
	UserID   uint   // Acting user
	Rating   int    // 0..5
	Text     string // Non-blank body
	Origin   Origin // Redirect target selector
}

// CourseDetail is the course page: the course, its latest reviews and the
// viewer's own review, if any
type CourseDetail struct {
	Course        domain.Course   `json:"course"`         // Course with relations
	Rating        float64         `json:"rating"`         // Average rating
	LatestReviews []domain.Review `json:"latest_reviews"` // Newest first
	UserReview    *domain.Review  `json:"user_review"`    // Viewer's review or nil
}

// ReviewList is one page of a course's reviews
type ReviewList struct {
	Course     domain.Course       `json:"course"`      // Course with relations
	Reviews    Page[domain.Review] `json:"reviews"`     // Requested page
	Sort       SortMode            `json:"sort"`        // Applied order
	UserReview *domain.Review      `json:"user_review"` // Viewer's review or nil
}

// ReviewService owns reviews and the rating aggregates they feed
type ReviewService struct {
	db  *gorm.DB         // Database handle
	rdb *redis.Client    // Cache, nil when disabled
	now func() time.Time // Clock
}

// NewReviewService wires the service; rdb may be nil to disable caching.
func NewReviewService(db *gorm.DB, rdb *redis.Client) *ReviewService {
	return &ReviewService{db: db, rdb: rdb, now: time.Now}
}

// AddReview inserts the review and bumps the course's rating_sum and
// rating_num in one transaction. The increments are SQL expressions so
// concurrent submissions cannot overwrite each other
func (s *ReviewService) AddReview(ctx context.Context, in AddReviewInput) Result {
	redirect := in.Origin.Redirect(in.CourseID)
	review := domain.Review{
		Rating:   in.Rating,
		Text:     in.Text,
		CourseID: in.CourseID,
		UserID:   in.UserID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := mustExist(tx, &domain.Course{}, in.CourseID, ErrCourseNotFound); err != nil {
			return err
		}
		var existing int64
		if err := tx.Model(&domain.Review{}).
			Where("course_id = ? AND user_id = ?", in.CourseID, in.UserID).
			Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return ErrDuplicateReview // One review per user and course
		}
		if in.Rating < domain.MinRating || in.Rating > domain.MaxRating {
			return ErrInvalidRating
		}
		if strings.TrimSpace(in.Text) == "" {
			return ErrEmptyText
		}

		review.CreatedAt = s.now()
		if err := tx.Omit(clause.Associations).Create(&review).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateReview // Lost a race with a concurrent submission
			}
			return err
		}
		// Increment in SQL, never read-modify-write
		res := tx.Model(&domain.Course{}).Where("id = ?", in.CourseID).Updates(map[string]any{
			"rating_sum": gorm.Expr("rating_sum + ?", in.Rating),
			"rating_num": gorm.Expr("rating_num + ?", 1),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != 1 {
			return fmt.Errorf("rating update touched %d rows", res.RowsAffected)
		}
		return nil
	})

	fields := logrus.Fields{
		"course_id": in.CourseID,
		"user_id":   in.UserID,
		"rating":    in.Rating,
	}
	if err != nil {
		err = classify(err)
		fields["error"] = err.Error()
		if errors.Is(err, ErrStorage) {
			logrus.WithFields(fields).Error("Review submission failed")
		} else {
			logrus.WithFields(fields).Info("Review rejected")
		}
		if errors.Is(err, ErrNotFound) {
			redirect = CoursesPath
		}
		return failed(err, redirect)
	}

	fields["review_id"] = review.ID
	logrus.WithFields(fields).Info("Review added")
	_ = utils.DeleteCache(ctx, s.rdb, utils.CourseCacheKey(in.CourseID)) // Best effort, ratings are read from the row anyway
	return succeeded("Your review has been added", redirect)
}

// CourseDetail loads the course page for viewerID (0 for anonymous)
func (s *ReviewService) CourseDetail(ctx context.Context, courseID, viewerID uint) (*CourseDetail, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	latest := []domain.Review{}
	err = s.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ?", courseID).
		Scopes(SortNewest.order).
		Limit(LatestReviewsLimit).
		Find(&latest).Error
	if err != nil {
		return nil, classify(err)
	}
	own, err := s.UserReview(ctx, courseID, viewerID)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{Course: *course, Rating: course.Rating(), LatestReviews: latest, UserReview: own}, nil
}

// ListReviews returns one page of the course's reviews in the given order,
// ReviewsPerPage at a time
func (s *ReviewService) ListReviews(ctx context.Context, courseID uint, sort SortMode, page int, viewerID uint) (*ReviewList, error) {
	course, err := s.course(ctx, courseID)
	if err != nil {
		return nil, err
	}
	base := s.db.WithContext(ctx).Model(&domain.Review{}).Where("course_id = ?", courseID)
	reviews, err := paginate[domain.Review](base, page, ReviewsPerPage, sort.order, preloadReviewUser)
	if err != nil {
		return nil, err
	}
	own, err := s.UserReview(ctx, courseID, viewerID)
	if err != nil {
		return nil, err
	}
	return &ReviewList{Course: *course, Reviews: reviews, Sort: sort, UserReview: own}, nil
}

// UserReview returns viewerID's review of the course, or nil
func (s *ReviewService) UserReview(ctx context.Context, courseID, viewerID uint) (*domain.Review, error) {
	if viewerID == 0 {
		return nil, nil // Anonymous viewer
	}
	var review domain.Review
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("course_id = ? AND user_id = ?", courseID, viewerID).
		Take(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &review, nil
}

// course loads a course with its relations. The relations may come from the
// cache; rating_sum and rating_num are always read from the row, since a
// reader can re-cache a row loaded just before a review commits
func (s *ReviewService) course(ctx context.Context, id uint) (*domain.Course, error) {
	var course domain.Course // Course with relations
	key := utils.CourseCacheKey(id)
	found, err := utils.GetCache(ctx, s.rdb, key, &course)
	if err != nil {
		logrus.WithFields(logrus.Fields{"key": key, "error": err.Error()}).Warn("Course cache read failed")
	}
	if !found {
		err := withCourseRelations(s.db.WithContext(ctx)).First(&course, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		if err != nil {
			return nil, classify(err)
		}
		_ = utils.SetCache(ctx, s.rdb, key, course, utils.CourseCacheTTL) // Best effort
		return &course, nil
	}

	var agg struct {
		RatingSum int // Current sum
		RatingNum int // Current count
	}
	err = s.db.WithContext(ctx).Model(&domain.Course{}).
		Select("rating_sum", "rating_num").
		Where("id = ?", id).
		Take(&agg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		_ = utils.DeleteCache(ctx, s.rdb, key) // Course deleted since it was cached
		return nil, ErrCourseNotFound
	}
	if err != nil {
		return nil, classify(err)
	}
	course.RatingSum, course.RatingNum = agg.RatingSum, agg.RatingNum
	return &course, nil
}

func preloadReviewUser(db *gorm.DB) *gorm.DB { return db.Preload("User") }
