package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is wrapped by every lookup that misses.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited indicates the caller exceeded its request budget.
	ErrRateLimited = errors.New("too many requests")
)

// NotFound wraps ErrNotFound with the entity and id that missed.
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, ErrNotFound)
}

// FieldError is one itemized validation problem.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned when required input is missing or malformed.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add records a field problem.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// OrNil returns e when it holds problems and nil otherwise.
func (e *ValidationError) OrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// UpstreamError marks a failure of the record store or file storage.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// Upstream wraps err as an UpstreamError unless it is nil or already classified.
func Upstream(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		ve *ValidationError
		ue *UpstreamError
		se *SizeLimitError
	)
	if errors.Is(err, ErrNotFound) || errors.As(err, &ve) || errors.As(err, &ue) || errors.As(err, &se) {
		return err
	}
	return &UpstreamError{Op: op, Err: err}
}

// SizeLimitError rejects an upload larger than the configured ceiling.
type SizeLimitError struct {
	Limit int64
	Size  int64
}

func (e *SizeLimitError) Error() string {
	if e.Size > 0 {
		return fmt.Sprintf("file of %d bytes exceeds the %d byte limit", e.Size, e.Limit)
	}
	return fmt.Sprintf("upload exceeds the %d byte limit", e.Limit)
}
