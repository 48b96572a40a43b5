package validation

import (
	"fmt"
	"net/url"
	"strings"
)

// BaseURLValidator checks the API and image base URLs taken from configuration.
type BaseURLValidator struct {
	// RequireHTTPS rejects plain http endpoints
	RequireHTTPS bool
	// MaxLength is the maximum allowed URL length
	MaxLength int
}

// NewBaseURLValidator allows http so local mirrors and test servers work.
func NewBaseURLValidator() *BaseURLValidator {
	return &BaseURLValidator{
		RequireHTTPS: false,
		MaxLength:    2048,
	}
}

// NewStrictBaseURLValidator only accepts https endpoints.
func NewStrictBaseURLValidator() *BaseURLValidator {
	return &BaseURLValidator{
		RequireHTTPS: true,
		MaxLength:    2048,
	}
}

// ValidateAndNormalize returns the URL without a trailing slash so that
// callers can append "/search/movie" and friends directly.
func (v *BaseURLValidator) ValidateAndNormalize(input string) (string, error) {
	input = strings.TrimSpace(input)

	if input == "" {
		return "", fmt.Errorf("URL cannot be empty")
	}
	if len(input) > v.MaxLength {
		return "", fmt.Errorf("URL too long (max %d characters)", v.MaxLength)
	}

	if strings.ContainsAny(input, "<>\"'` ") {
		return "", fmt.Errorf("URL contains invalid characters")
	}

	// Default to HTTPS when the scheme is missing
	if !strings.Contains(input, "://") {
		input = "https://" + input
	}

	parsedURL, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("invalid URL format: %w", err)
	}

	switch parsedURL.Scheme {
	case "https":
	case "http":
		if v.RequireHTTPS {
			return "", fmt.Errorf("URL must use https")
		}
	default:
		return "", fmt.Errorf("URL must use http or https protocol")
	}

	if parsedURL.Host == "" {
		return "", fmt.Errorf("URL must have a valid hostname")
	}

	if err := validatePath(parsedURL); err != nil {
		return "", err
	}

	parsedURL.Path = strings.TrimRight(parsedURL.Path, "/")
	return parsedURL.String(), nil
}

// validatePath rejects parts that cannot be combined with an endpoint suffix.
func validatePath(parsedURL *url.URL) error {
	if strings.Contains(parsedURL.Path, "..") {
		return fmt.Errorf("directory traversal patterns not allowed in URL path")
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("base URL must not contain a query string")
	}
	if parsedURL.Fragment != "" {
		return fmt.Errorf("base URL must not contain a fragment")
	}
	return nil
}
