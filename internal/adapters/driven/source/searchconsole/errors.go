package searchconsole

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Search Console API errors.
var (
	// ErrUnauthorized indicates invalid or expired credentials.
	ErrUnauthorized = errors.New("searchconsole: unauthorised (invalid credentials)")

	// ErrForbidden indicates the credentials cannot read the property.
	ErrForbidden = errors.New("searchconsole: forbidden (no access to property)")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("searchconsole: rate limit exceeded")
)

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests
	}
	return false
}

// WrapError converts a Google API error to a more specific error.
func WrapError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return err
	}

	switch gerr.Code {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return err
	}
}

// retryAfter reads the Retry-After header of a rate limit error, in seconds.
func retryAfter(err error) int {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) || gerr.Header == nil {
		return 0
	}
	secs := 0
	for _, c := range gerr.Header.Get("Retry-After") {
		if c < '0' || c > '9' {
			return 0
		}
		secs = secs*10 + int(c-'0')
	}
	return secs
}
