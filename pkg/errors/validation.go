package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// extensionIDRegex matches marketplace identifiers of the form publisher.name.
// Publishers may not contain dots; names may.
var extensionIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9-_]*\.[A-Za-z0-9][A-Za-z0-9-_.]*$`)

// ValidateExtensionID validates a marketplace extension identifier.
//
// Validation rules:
//   - No empty identifiers
//   - Maximum length of 256 characters
//   - No control characters
//   - Exactly one publisher segment followed by a name (publisher.name)
func ValidateExtensionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidID, "extension identifier cannot be empty")
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidID, "extension identifier too long (max 256 characters)")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidID, "extension identifier contains invalid control characters")
		}
	}

	if !extensionIDRegex.MatchString(id) {
		return New(ErrCodeInvalidID, "invalid extension identifier %q (want publisher.name)", id)
	}

	return nil
}

// ValidatePath validates a file path within a repository for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidInput, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidInput, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidInput, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidInput, "path cannot contain backslashes")
	}

	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
