package domain

import (
	"strings" // Case folding
	"time"    // Timestamps

	"gorm.io/gorm" // GORM ORM library
)

// Course Model
type Course struct {
	ID                uint      `gorm:"primaryKey" json:"id"`                                            // Primary key
	Name              string    `gorm:"size:100;not null" json:"name"`                                   // Course name
	NameLower         string    `gorm:"size:100;not null;default:'';index" json:"-"`                     // Unicode-lowercased name for case-insensitive search
	ShortDesc         string    `gorm:"type:text;not null" json:"short_desc"`                            // Short description
	FullDesc          string    `gorm:"type:text;not null" json:"full_desc"`                             // Full description
	RatingSum         int       `gorm:"not null;default:0" json:"rating_sum"`                            // Sum of all review ratings
	RatingNum         int       `gorm:"not null;default:0" json:"rating_num"`                            // Number of reviews
	CategoryID        uint      `gorm:"not null;index" json:"category_id"`                               // Foreign key to Category
	AuthorID          uint      `gorm:"not null;index" json:"author_id"`                                 // Foreign key to User
	BackgroundImageID *string   `gorm:"size:36" json:"background_image_id,omitempty"`                    // Optional foreign key to Image
	CreatedAt         time.Time `gorm:"index" json:"created_at"`                                         // Creation time
	Category          *Category `gorm:"constraint:OnDelete:RESTRICT;" json:"category,omitempty"`         // Belongs to Category
	Author            *User     `gorm:"constraint:OnDelete:RESTRICT;" json:"author,omitempty"`           // Belongs to User
	BackgroundImage   *Image    `gorm:"constraint:OnDelete:SET NULL;" json:"background_image,omitempty"` // Belongs to Image
}

// BeforeSave keeps NameLower in step with Name. Column updates that leave
// Name empty (such as the rating increments) do not touch it
func (c *Course) BeforeSave(tx *gorm.DB) error {
	if c.Name != "" {
		c.NameLower = strings.ToLower(c.Name) // SQL LOWER only folds ASCII on SQLite
	}
	return nil
}

// Rating returns the average review rating, or 0 when the course has no reviews
func (c Course) Rating() float64 {
	if c.RatingNum <= 0 {
		return 0
	}
	return float64(c.RatingSum) / float64(c.RatingNum)
}
