package proposals

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition means the proposal's status does not allow the action.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrActionInFlight means the same action is already running for the proposal.
	ErrActionInFlight = errors.New("action already in progress")
	ErrNotFound       = errors.New("proposal not found")
	ErrNotSignedIn    = errors.New("not signed in")
)

// ValidationError is user input rejected before any request was made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// GatewayError is a webhook call that came back unsuccessful.
type GatewayError struct {
	Op      string
	Message string
}

func (e *GatewayError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s failed", e.Op)
	}
	return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
}

func invalidTransition(from, to string) error {
	return fmt.Errorf("%w: proposal is %s, cannot become %s", ErrInvalidTransition, from, to)
}
