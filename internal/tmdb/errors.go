package tmdb

import "fmt"

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("TMDB API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("TMDB API returned status %d: %s", e.StatusCode, e.Body)
}

// DomainError is returned when a 2xx body carries a failure marker.
// Message is empty when the server gave no text.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	if e.Message == "" {
		return "TMDB API reported a failure"
	}
	return "TMDB API reported a failure: " + e.Message
}
