package domain

import (
	"strings" // String joining
	"time"    // Timestamps
)

// User Model
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`                  // Primary key
	Login        string    `gorm:"size:100;unique;not null" json:"login"` // Unique login
	PasswordHash string    `gorm:"size:200;not null" json:"-"`            // Bcrypt hash, never serialized
	FirstName    string    `gorm:"size:100;not null" json:"first_name"`   // First name
	LastName     string    `gorm:"size:100;not null" json:"last_name"`    // Last name
	MiddleName   *string   `gorm:"size:100" json:"middle_name,omitempty"` // Optional middle name
	CreatedAt    time.Time `json:"created_at"`                            // Registration time
}

// FullName joins last, first and middle names, skipping empty parts
func (u User) FullName() string {
	parts := []string{u.LastName, u.FirstName}
	if u.MiddleName != nil {
		parts = append(parts, *u.MiddleName)
	}
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
