package domain

// Category Model
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`                 // Primary key
	Name string `gorm:"size:100;unique;not null" json:"name"` // Unique category name
}
