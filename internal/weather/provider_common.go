package weather

import (
	"fmt"
	"time"

	"github.com/castnet/castnet-go/internal/errors"
)

const (
	RequestTimeout = 10 * time.Second
	UserAgent      = "castnet-go https://github.com/castnet/castnet-go"
	RetryDelay     = 2 * time.Second
	MaxRetries     = 3
)

// newWeatherError creates a standardized weather error with common fields
func newWeatherError(err error, category errors.ErrorCategory, operation, provider string) error {
	return errors.New(err).
		Component("weather").
		Category(category).
		Context("operation", operation).
		Context("provider", provider).
		Build()
}

// newWeatherErrorWithRetries creates a weather error that includes retry information
func newWeatherErrorWithRetries(err error, category errors.ErrorCategory, operation, provider string) error {
	return errors.New(err).
		Component("weather").
		Category(category).
		Context("operation", operation).
		Context("provider", provider).
		Context("max_retries", fmt.Sprintf("%d", MaxRetries)).
		Build()
}

// truncateBodyPreview truncates a response body for logging
const maxBodyPreviewSize = 200

func truncateBodyPreview(body string) string {
	if len(body) > maxBodyPreviewSize {
		return body[:maxBodyPreviewSize] + "... (truncated)"
	}
	return body
}
