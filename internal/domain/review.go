package domain

import "time" // Timestamps

// Review ratings are bounded to this inclusive range
const (
	MinRating = 0
	MaxRating = 5
)

// Review Model, at most one per (course, user) pair
type Review struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                                        // Primary key
	Rating    int       `gorm:"not null;check:chk_reviews_rating,rating >= 0 AND rating <= 5" json:"rating"` // Rating in [0, 5]
	Text      string    `gorm:"type:text;not null" json:"text"`                                              // Review body
	CreatedAt time.Time `gorm:"index" json:"created_at"`                                                     // Creation time
	CourseID  uint      `gorm:"not null;uniqueIndex:idx_reviews_course_user" json:"course_id"`               // Foreign key to Course
	UserID    uint      `gorm:"not null;uniqueIndex:idx_reviews_course_user" json:"user_id"`                 // Foreign key to User
	Course    *Course   `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                                       // Belongs to Course
	User      *User     `gorm:"constraint:OnDelete:CASCADE;" json:"user,omitempty"`                          // Belongs to User
}
