package catalog

import (
	"strings" // String manipulation

	"gorm.io/gorm" // GORM ORM library
)

// likeEscape is the ESCAPE character of name patterns. Backslash would need
// different quoting on MySQL and PostgreSQL, '!' reads the same everywhere
const likeEscape = "!"

// likeEscaper makes LIKE wildcards in user input match literally
var likeEscaper = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

// CourseFilter narrows the course list by a case-insensitive name substring
// and a set of categories. Zero values disable the respective condition.
type CourseFilter struct {
	Name        string `json:"name"`         // Name substring
	CategoryIDs []uint `json:"category_ids"` // Allowed categories, empty for all
}

// Scope applies the filter's WHERE conditions
func (f CourseFilter) Scope(db *gorm.DB) *gorm.DB {
	if name := strings.TrimSpace(f.Name); name != "" {
		// name_lower is folded in Go, so non-ASCII names match on every driver
		pattern := "%" + likeEscaper.Replace(strings.ToLower(name)) + "%"
		db = db.Where("courses.name_lower LIKE ? ESCAPE '"+likeEscape+"'", pattern)
	}
	if len(f.CategoryIDs) > 0 {
		db = db.Where("courses.category_id IN ?", f.CategoryIDs) // Any of the selected categories
	}
	return db
}

// courseOrder is the listing order: insertion order
func courseOrder(db *gorm.DB) *gorm.DB {
	return db.Order("courses.id ASC")
}

// withCourseRelations preloads what a course card displays
func withCourseRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Category").Preload("Author").Preload("BackgroundImage")
}
