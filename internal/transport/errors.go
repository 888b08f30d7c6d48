package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// Common errors returned by API clients built on this transport.
var (
	// ErrNotFound indicates the resource was not found (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrAuthError indicates missing or rejected credentials (HTTP 401/403).
	ErrAuthError = errors.New("authentication error")

	// ErrRateLimited indicates the provider's rate limit was exceeded.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrAPIError indicates any other non-success status.
	ErrAPIError = errors.New("API error")

	// ErrNetworkError indicates the request never produced a response.
	ErrNetworkError = errors.New("network error")

	// ErrInvalidResponse indicates a body that did not match the expected shape.
	ErrInvalidResponse = errors.New("invalid response")
)

// APIError represents a non-success HTTP status from a provider.
type APIError struct {
	Provider   string
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: HTTP %d (%s)", e.Provider, e.StatusCode, e.URL)
}

// Unwrap maps the status onto the package sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden:
		return ErrAuthError
	case e.StatusCode == http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return ErrAPIError
	}
}

// CheckStatus returns an *APIError for any status other than 200.
func CheckStatus(provider string, resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}
	apiErr := &APIError{Provider: provider, StatusCode: resp.StatusCode}
	if resp.Request != nil {
		apiErr.URL = RedactURL(resp.Request.URL)
	}
	return apiErr
}

// secretParams are query parameters that carry credentials.
var secretParams = []string{"apiKey", "key", "api_key"}

// RedactURL renders u with credential query parameters masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	masked := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "xxxxx")
			masked = true
		}
	}
	if !masked {
		return u.Redacted()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.Redacted()
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuthError)
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTransient reports whether err is a failure worth retrying later:
// network errors, rate limiting and 5xx responses.
func IsTransient(err error) bool {
	if errors.Is(err, ErrNetworkError) || errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 500
	}
	return false
}
