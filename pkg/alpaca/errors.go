package alpaca

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrUnauthorized is matched by errors.Is when the API answers 401.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited is matched by errors.Is when the API answers 429.
	ErrRateLimited = errors.New("rate limited")
)

// APIError wraps the status, code and message supplied by Alpaca's API
// for any response with a status of 300 or above.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       int    `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("alpaca: %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Unwrap exposes ErrUnauthorized and ErrRateLimited to errors.Is.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusTooManyRequests:
		return ErrRateLimited
	default:
		return nil
	}
}

// verify turns a non-2xx response into an *APIError. The message comes from
// the body's "message" field, or the raw body when it is not JSON.
func verify(status int, body []byte) error {
	if status < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{}
	if err := json.Unmarshal(body, apiErr); err != nil {
		apiErr = &APIError{Message: strings.TrimSpace(string(body))}
	}
	apiErr.StatusCode = status

	return apiErr
}
