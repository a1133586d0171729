package transport

import (
	"fmt"
	"strings"
)

// Error is a classified transport failure surfaced to the caller. IsAuth
// flags credential problems so the host can invalidate cached credentials
// instead of blindly retrying.
type Error struct {
	Message string
	IsAuth  bool
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Cause }

// authPhrases are matched case-insensitively against error text to detect
// missing or invalid credentials (HTTP 401 and the provider phrasings for it).
var authPhrases = []string{
	"401",
	"unauthorized",
	"invalid api key",
	"authentication",
	"credential",
}

// Classify wraps a raw transport failure with its auth classification.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}
	if terr, ok := err.(*Error); ok {
		return terr
	}
	if IsAuthError(err) {
		return &Error{Message: "Invalid API key", IsAuth: true, Cause: err}
	}
	return &Error{Message: "transport error", Cause: err}
}

// IsAuthError reports whether the error text indicates a credential problem.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	if terr, ok := err.(*Error); ok {
		return terr.IsAuth
	}
	text := strings.ToLower(err.Error())
	for _, phrase := range authPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}
