package errors

import (
	"net/url"
	"slices"
	"strings"
	"unicode"
)

// ValidateTopicmapName validates a topicmap name before it is sent to the store.
//
// Names may be empty (the store substitutes a default) but must not contain
// control characters or exceed 256 characters.
func ValidateTopicmapName(name string) error {
	if len(name) > 256 {
		return New(ErrCodeInvalidInput, "topicmap name too long (max 256 characters)")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "topicmap name contains invalid control characters")
		}
	}
	return nil
}

// ValidateURL validates a URL string and checks its scheme against schemes.
func ValidateURL(rawURL string, schemes ...string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid URL %q", rawURL)
	}
	if u.Host == "" {
		return New(ErrCodeInvalidInput, "URL %q has no host", rawURL)
	}
	if len(schemes) > 0 && !slices.Contains(schemes, strings.ToLower(u.Scheme)) {
		return New(ErrCodeInvalidInput, "URL must use one of %s", strings.Join(schemes, ", "))
	}
	return nil
}
