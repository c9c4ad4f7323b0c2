package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrLastPage is returned when following a pagination link past the end.
var ErrLastPage = errors.New("no next page")

// APIError is a non-2xx backend response.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Body)
}

// ValidationError is a 400 rejection of an order submission, carrying the
// per-field messages the backend produced.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("api: validation failed: %v", e.Fields)
}

// asValidationError converts a 400 APIError with a decodable field map
// into a *ValidationError; any other error passes through unchanged.
func asValidationError(err error) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadRequest {
		return err
	}
	var fields map[string][]string
	if json.Unmarshal(apiErr.Body, &fields) != nil || len(fields) == 0 {
		return err
	}
	return &ValidationError{Fields: fields}
}
