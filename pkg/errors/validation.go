package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// aimIDRegex matches ids usable as file names inside .quiver/aims.
var aimIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]*$`)

// ValidateAimID validates an aim id before it is turned into a file path.
// It rejects anything that could escape the .quiver directory.
func ValidateAimID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidAimID, "aim id cannot be empty")
	}
	if len(id) > 128 {
		return New(ErrCodeInvalidAimID, "aim id too long (max 128 characters)")
	}
	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidAimID, "aim id cannot contain path traversal sequences (..)")
	}
	if !aimIDRegex.MatchString(id) {
		return New(ErrCodeInvalidAimID, "invalid aim id: %q", id)
	}
	return nil
}

// ValidateRepoPath validates a repository path supplied by a client.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
//   - Must be absolute
func ValidateRepoPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "Path is required")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if !filepath.IsAbs(path) {
		return New(ErrCodeInvalidPath, "path must be absolute")
	}

	return nil
}

// ValidateURL validates a repository URL. Empty is allowed.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return nil
	}
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}
	return nil
}
