package connector

import (
	"fmt"
	"strings"
)

// Kind is the closed error taxonomy every connector surfaces.
type Kind string

const (
	KindInvalidParams    Kind = "invalid_params"
	KindAuthentication   Kind = "authentication"
	KindToolNotFound     Kind = "tool_not_found"
	KindResourceNotFound Kind = "resource_not_found"
	KindHTTPRequest      Kind = "http_request"
	KindSerdeJSON        Kind = "serde_json"
	KindIO               Kind = "io"
	KindOther            Kind = "other"
)

// Error is the typed error every connector method returns. Status and Body
// are populated for Other errors representing a non-retryable HTTP response.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Body    string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Kind, e.Message, e.Status)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func InvalidParams(format string, args ...any) *Error {
	return NewError(KindInvalidParams, fmt.Sprintf(format, args...))
}

func Authentication(format string, args ...any) *Error {
	return NewError(KindAuthentication, fmt.Sprintf(format, args...))
}

func ToolNotFound(name string) *Error {
	return NewError(KindToolNotFound, fmt.Sprintf("unknown tool %q", name))
}

func ResourceNotFound(format string, args ...any) *Error {
	return NewError(KindResourceNotFound, fmt.Sprintf(format, args...))
}

func HTTPRequest(err error) *Error {
	return Wrap(KindHTTPRequest, "transport failure", err)
}

func SerdeJSON(err error) *Error {
	return Wrap(KindSerdeJSON, "failed to parse response JSON", err)
}

func IO(err error) *Error {
	return Wrap(KindIO, "local filesystem failure", err)
}

func Other(status int, body string) *Error {
	return &Error{Kind: KindOther, Message: "unexpected response", Status: status, Body: body}
}

// IsAuthAdjacent recognizes auth-related keywords in an error string so the
// CLI layer can suggest `arivu setup <connector>` without a typed check.
func IsAuthAdjacent(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range []string{"auth", "token", "credential"} {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
