package gateway

import (
	"errors"
	"fmt"
)

// GenericSaveMessage is shown when a failed save carries no server message.
const GenericSaveMessage = "Failed to save plan. Please try again."

// ErrNoCredential is returned without touching the network when the client
// has no bearer token. Callers send the user to login.
var ErrNoCredential = errors.New("no credential: login required")

// ValidationError is a request rejected before it reached the network.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// TransportError is a network failure or a non-2xx response.
type TransportError struct {
	StatusCode int // 0 for network failures
	Message    string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("transport: %s", e.Message)
	}
	return fmt.Sprintf("transport: status %d: %s", e.StatusCode, e.Message)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UserMessage returns the text to show the trainer for err.
func UserMessage(err error) string {
	var verr *ValidationError
	var terr *TransportError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoCredential):
		return "Please log in again."
	case errors.As(err, &verr):
		return verr.Message
	case errors.As(err, &terr):
		return terr.Message
	}
	return err.Error()
}

// IsNotFound reports whether err is a 404 from the gateway.
func IsNotFound(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr) && terr.StatusCode == 404
}
