package catalog

import "errors" // Error kind matching

// Level is the flash category shown with a message
type Level string

// Flash levels
const (
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelDanger  Level = "danger"
)

// Result is the outcome of a mutating operation: what to tell the user and
// where to send them next
type Result struct {
	Success  bool   `json:"success"`            // Operation committed
	Message  string `json:"message"`            // User-facing text
	Level    Level  `json:"level"`              // Flash category
	Redirect string `json:"redirect,omitempty"` // Next page
	Err      error  `json:"-"`                  // Classified failure, nil on success
}

func succeeded(msg, redirect string) Result {
	return Result{Success: true, Message: msg, Level: LevelSuccess, Redirect: redirect}
}

func failed(err error, redirect string) Result {
	level := LevelDanger
	// Duplicates and a missing category are user slips, not errors
	if errors.Is(err, ErrDuplicate) || errors.Is(err, ErrCategoryRequired) {
		level = LevelWarning
	}
	return Result{Message: UserMessage(err), Level: level, Redirect: redirect, Err: err}
}
