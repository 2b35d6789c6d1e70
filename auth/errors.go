// ABOUTME: Authentication error kinds surfaced by the session store
// ABOUTME: Lets callers tell bad credentials apart from provider failures
package auth

import "errors"

type ErrorKind string

const (
	KindInvalidCredentials ErrorKind = "invalid_credentials"
	KindProvider           ErrorKind = "provider"
	KindProfile            ErrorKind = "profile"
	KindNotSignedIn        ErrorKind = "not_signed_in"
)

// Error is an authentication failure surfaced to the user.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var authErr *Error
	return errors.As(err, &authErr) && authErr.Kind == kind
}
