package errors

import (
	"net/url"
	"strings"
	"unicode"
)

// ValidateSource validates a document source given on the command line or to
// the HTTP surface. A source is either an http(s) URL or a local file path.
//
// The validation rules are intentionally conservative:
//   - No empty sources
//   - No control characters or null bytes
//   - Maximum length of 4096 characters
//   - URLs must use http or https and name a host
func ValidateSource(src string) error {
	if src == "" {
		return New(ErrCodeInvalidSource, "source cannot be empty")
	}

	const maxSourceLength = 4096
	if len(src) > maxSourceLength {
		return New(ErrCodeInvalidSource, "source too long (max %d characters)", maxSourceLength)
	}

	for _, r := range src {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidSource, "source contains invalid control characters")
		}
	}

	if IsURL(src) {
		return ValidateURL(src)
	}
	return nil
}

// IsURL reports whether src looks like an http(s) URL rather than a file path.
func IsURL(src string) bool {
	return strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://")
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https) and a host.
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !IsURL(rawURL) {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "malformed URL")
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL must include a host")
	}

	return nil
}
