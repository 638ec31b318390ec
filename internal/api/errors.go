package api

import (
	stderrors "errors"
	"fmt"

	"github.com/felixgeelhaar/feedfort/internal/errors"
)

// FallbackMessage is shown when a rejected request carries no message
const FallbackMessage = "Erro na requisição"

// ErrUnauthorized is returned for any 401. The client has already run its
// OnUnauthorized hook by the time a caller sees it.
var ErrUnauthorized = errors.NewSessionExpiredError()

// APIError is a non-2xx response other than 401
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

// Error returns the server message, or FallbackMessage
func (e *APIError) Error() string {
	return e.Reason()
}

// Reason returns the server message, or FallbackMessage
func (e *APIError) Reason() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage
}

// HasServerMessage reports whether the backend explained the rejection
func (e *APIError) HasServerMessage() bool {
	return e.Message != ""
}

// String includes the status for logs
func (e *APIError) String() string {
	return fmt.Sprintf("HTTP %d: %s", e.Status, e.Reason())
}

// IsUnauthorized reports whether err came from a 401
func IsUnauthorized(err error) bool {
	return stderrors.Is(err, ErrUnauthorized)
}

// AsAPIError extracts an *APIError from err
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// ServerReason returns the backend's message for err when there is one
func ServerReason(err error) (string, bool) {
	if apiErr, ok := AsAPIError(err); ok && apiErr.HasServerMessage() {
		return apiErr.Message, true
	}
	return "", false
}

// IsTransport reports whether err is a connection-level failure
func IsTransport(err error) bool {
	return errors.HasCode(err, errors.ErrCodeTransport)
}
