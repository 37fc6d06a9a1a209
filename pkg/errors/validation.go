package errors

import (
	"strings"
	"unicode"
)

// MaxGalleryNameLength bounds user-supplied gallery names.
const MaxGalleryNameLength = 120

// ValidateGalleryName validates a user-supplied name for a saved gallery.
// Saving without a name is an invalid user action and is rejected before any
// state mutation happens.
func ValidateGalleryName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return New(ErrCodeInvalidName, "gallery name cannot be empty")
	}
	if len(trimmed) > MaxGalleryNameLength {
		return New(ErrCodeInvalidName, "gallery name too long (max %d characters)", MaxGalleryNameLength)
	}
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidName, "gallery name contains control characters")
		}
	}
	return nil
}

// ValidateProductHandle validates a storefront product handle before it is
// interpolated into a catalog URL.
func ValidateProductHandle(handle string) error {
	if handle == "" {
		return New(ErrCodeInvalidInput, "product handle cannot be empty")
	}
	if len(handle) > 256 {
		return New(ErrCodeInvalidInput, "product handle too long (max 256 characters)")
	}
	if strings.ContainsAny(handle, "/\\?#%") {
		return New(ErrCodeInvalidInput, "product handle contains invalid characters")
	}
	for _, r := range handle {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "product handle contains control characters")
		}
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

// ValidateQuantity validates a cart line quantity.
func ValidateQuantity(qty int) error {
	if qty < 1 {
		return New(ErrCodeInvalidQuantity, "quantity must be at least 1, got %d", qty)
	}
	return nil
}
