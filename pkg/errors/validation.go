package errors

import (
	"strings"
	"unicode"
)

// MaxBudget bounds the time budget accepted from untrusted input. The search
// is exhaustive, so budgets far above the network's diameter only cost time.
const MaxBudget = 10_000

// ValidateValveID validates a valve identifier.
//
// Valve IDs are short tokens made of letters and digits. The parser accepts
// two upper-case letters, but JSON input and API requests may use any
// alphanumeric token up to 32 characters.
func ValidateValveID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidValveID, "valve id cannot be empty")
	}

	if len(id) > 32 {
		return New(ErrCodeInvalidValveID, "valve id too long (max 32 characters): %q", id)
	}

	for _, r := range id {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			return New(ErrCodeInvalidValveID, "valve id contains invalid character %q: %q", r, id)
		}
	}

	return nil
}

// ValidateBudget validates a search time budget in minutes.
func ValidateBudget(budget int) error {
	if budget < 0 {
		return New(ErrCodeInvalidBudget, "budget must not be negative: %d", budget)
	}
	if budget > MaxBudget {
		return New(ErrCodeInvalidBudget, "budget too large (max %d): %d", MaxBudget, budget)
	}
	return nil
}

// ValidateWorkers validates a worker count. Zero means "pick a default".
func ValidateWorkers(workers int) error {
	if workers < 0 {
		return New(ErrCodeInvalidInput, "workers must not be negative: %d", workers)
	}
	return nil
}

// ValidatePath validates an output file path for safety.
// It prevents path traversal and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	// Check for null bytes and control characters
	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' || r == '\\' }) {
		if part == ".." {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}
