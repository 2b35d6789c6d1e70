// ABOUTME: User-facing notices produced by view-model actions
// ABOUTME: Surfaces render these as toasts, status lines, or tool text
package proposals

import (
	"errors"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

func Success(msg string) Notice { return Notice{Level: LevelSuccess, Message: msg} }
func Info(msg string) Notice    { return Notice{Level: LevelInfo, Message: msg} }
func Failure(msg string) Notice { return Notice{Level: LevelError, Message: msg} }

// NoticeFor turns an action error into what the user sees. Unexpected
// failures show fallback rather than internal detail.
func NoticeFor(err error, fallback string) Notice {
	var validation *ValidationError
	switch {
	case err == nil:
		return Notice{}
	case errors.As(err, &validation):
		return Failure(validation.Message)
	case errors.Is(err, ErrNotSignedIn):
		return Failure("You must be logged in")
	case errors.Is(err, ErrActionInFlight):
		return Info("Still working on the previous request")
	case errors.Is(err, ErrInvalidTransition), errors.Is(err, ErrNotFound):
		return Failure(err.Error())
	default:
		return Failure(fallback)
	}
}

// GatewayNotice is NoticeFor, but prefers the webhook's own error message.
func GatewayNotice(err error, fallback string) Notice {
	var gw *GatewayError
	if errors.As(err, &gw) && gw.Message != "" {
		return Failure(gw.Message)
	}
	return NoticeFor(err, fallback)
}
