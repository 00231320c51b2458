package catalog

import (
	"errors" // Error matching
	"fmt"    // Error wrapping

	"gorm.io/gorm" // GORM ORM library
)

// Error kinds. Every error returned by this package matches exactly one of
// them with errors.Is
var (
	ErrValidation = errors.New("validation error") // Bad user input
	ErrDuplicate  = errors.New("duplicate")        // Record already exists
	ErrIntegrity  = errors.New("integrity error")  // Dangling reference or constraint
	ErrStorage    = errors.New("storage error")    // Database or blob store failure
	ErrNotFound   = errors.New("not found")        // Missing record
)

// User-facing failures, each wrapping one kind
var (
	ErrCourseNotFound   = kindError(ErrNotFound, "Course not found")
	ErrImageNotFound    = kindError(ErrNotFound, "Image not found")
	ErrDuplicateReview  = kindError(ErrDuplicate, "You have already reviewed this course")
	ErrInvalidRating    = kindError(ErrValidation, "Rating must be between 0 and 5")
	ErrEmptyText        = kindError(ErrValidation, "Review text cannot be empty")
	ErrCategoryRequired = kindError(ErrValidation, "Select a course category")
	ErrUnknownCategory  = kindError(ErrIntegrity, "Selected category does not exist")
	ErrUnknownAuthor    = kindError(ErrIntegrity, "Selected author does not exist")
	ErrImageTooLarge    = kindError(ErrValidation, "Background image is too large")
	ErrNotAnImage       = kindError(ErrValidation, "Background image must be an image file")
)

// catalogError carries a user-facing message and unwraps to its kind
type catalogError struct {
	kind error  // One of the kinds above
	msg  string // Shown to the user as is
}

func kindError(kind error, msg string) error { return &catalogError{kind: kind, msg: msg} }

func (e *catalogError) Error() string { return e.msg }
func (e *catalogError) Unwrap() error { return e.kind }

// validationError builds a one-off validation failure
func validationError(msg string) error { return kindError(ErrValidation, msg) }

// classify maps gorm and driver errors onto the error kinds. Errors that
// already carry a kind pass through untouched
func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrDuplicate), errors.Is(err, ErrIntegrity),
		errors.Is(err, ErrStorage), errors.Is(err, ErrNotFound):
		return err // Already classified
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: %w", ErrDuplicate, err)
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return fmt.Errorf("%w: %w", ErrStorage, err) // Anything else is infrastructure
}

// UserMessage returns text safe to show to an end user. Storage failures
// never leak driver details
func UserMessage(err error) string {
	var ce *catalogError
	switch {
	case errors.As(err, &ce):
		return ce.msg
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrDuplicate):
		return "Record already exists"
	case errors.Is(err, ErrIntegrity):
		return "The data could not be saved. Check that the entered values are correct"
	case errors.Is(err, ErrValidation):
		return err.Error()
	}
	return "An unexpected error occurred, please try again later"
}
