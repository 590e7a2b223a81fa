package service

import (
	"errors"
	"fmt"
)

// Sentinel errors returned across the service boundary. Handlers render
// the message verbatim; nothing below this layer leaks raw database or
// transport faults to the caller.
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrDuplicateUsername  = errors.New("username already exists")
	ErrDuplicateName      = errors.New("an account with this name already exists")
	ErrAccountNotFound    = errors.New("account not found or access denied")
	ErrPostNotFound       = errors.New("post not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrNoChanges          = errors.New("no updates provided")
	ErrNoPageID           = errors.New("no page id associated with this account")
)

// ExternalAPIError wraps a non-2xx Graph API response or a transport
// failure; Body carries the raw provider response for diagnostics.
type ExternalAPIError struct {
	StatusCode int
	Body       string
}

func (e *ExternalAPIError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("error connecting to facebook: %s", e.Body)
	}
	return fmt.Sprintf("facebook api error (status %d): %s", e.StatusCode, e.Body)
}
