package ragclient

import (
	"errors"
	"fmt"
	"time"

	"github.com/xhad/ragask/internal/models"
)

var (
	ErrMissingQueryID = errors.New("submit response did not include a queryId")
	ErrEmptyQuestion  = errors.New("question cannot be empty")
)

// NetworkError is a connection-level failure; no HTTP response was received.
type NetworkError struct {
	Op  string
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError is a non-2xx response.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// DomainError means the server finished the query with status "error".
type DomainError struct {
	QueryID string
	Message string
}

func newDomainError(queryID string, result *models.QueryResult) *DomainError {
	msg := result.Message()
	if msg == "" {
		msg = "Unknown error"
	}
	return &DomainError{QueryID: queryID, Message: msg}
}

func (e *DomainError) Error() string {
	return e.Message
}

type TimeoutError struct {
	QueryID string
	Waited  time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query %s timed out after waiting %s", e.QueryID, e.Waited.Round(time.Millisecond))
}
