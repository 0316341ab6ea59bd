package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError is a configuration error tied to a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the configuration before any worker starts. A non-nil
// result is fatal: the process prints usage and exits.
func (c *Config) Validate() error {
	errs := &ValidationErrors{}

	switch u, err := url.Parse(c.URL); {
	case c.URL == "":
		errs.Add("url", "a target URL is required")
	case err != nil:
		errs.Add("url", fmt.Sprintf("invalid URL: %v", err))
	case u.Scheme != "http" && u.Scheme != "https":
		errs.Add("url", fmt.Sprintf("unsupported scheme '%s', want http or https", u.Scheme))
	case u.Host == "":
		errs.Add("url", "URL has no host")
	}

	if c.Concurrency <= 0 {
		errs.Add("concurrency", "must be a positive integer")
	}
	if c.Timeout < 0 {
		errs.Add("timeout", "must be zero or more seconds")
	}
	if c.Interval <= 0 {
		errs.Add("interval", "must be a positive duration")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
