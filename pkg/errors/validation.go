package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxDimension is the largest frame width or height accepted, in pixels.
const MaxDimension = 20000

// ValidatePath validates an input file path for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..) when relative is true
func ValidatePath(path string, relative bool) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if relative {
		if strings.HasPrefix(path, "/") {
			return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
		}
		if strings.Contains(path, "..") {
			return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
		}
	}

	return nil
}

// ValidateDimension checks a frame width or height.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidDimension, "%s must be a finite number", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidDimension, "%s cannot be negative: %g", name, v)
	}
	if v > MaxDimension {
		return New(ErrCodeInvalidDimension, "%s too large: %g (max %d)", name, v, MaxDimension)
	}
	return nil
}

// ValidateFraction checks a gap ratio. Values outside [0, 1] are clamped by
// the layout, so this is used only where clamping would hide a typo, such as
// CLI flags.
func ValidateFraction(name string, v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return New(ErrCodeInvalidInput, "%s must be between 0 and 1, got %g", name, v)
	}
	return nil
}
