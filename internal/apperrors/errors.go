// ABOUTME: Client-side error taxonomy for backend and validation failures
// ABOUTME: Maps HTTP statuses to kinds and kinds to user-facing messages

package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies a failure for display and session handling
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindConflict
	KindNotFound
	KindTransport
)

// Sentinel errors, one per kind, for errors.Is checks.
var (
	ErrValidation      = errors.New("validation failed")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrConflict        = errors.New("conflict")
	ErrNotFound        = errors.New("not found")
	ErrTransport       = errors.New("backend unreachable")
	ErrUnknown         = errors.New("unexpected backend error")
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindUnauthenticated:
		return "unauthenticated"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

func (k Kind) sentinel() error {
	switch k {
	case KindValidation:
		return ErrValidation
	case KindUnauthenticated:
		return ErrUnauthenticated
	case KindForbidden:
		return ErrForbidden
	case KindConflict:
		return ErrConflict
	case KindNotFound:
		return ErrNotFound
	case KindTransport:
		return ErrTransport
	default:
		return ErrUnknown
	}
}

// APIError is a classified failure from the backend or the transport
type APIError struct {
	Kind    Kind
	Status  int    // HTTP status, 0 for transport failures
	Message string // backend-provided message, may be empty
	Err     error  // underlying cause, may be nil
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = e.Kind.sentinel().Error()
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Is lets errors.Is match the kind sentinel
func (e *APIError) Is(target error) bool {
	return target == e.Kind.sentinel()
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// FromStatus classifies a non-2xx response.
// Bodies mentioning a foreign key are conflicts whatever the status.
func FromStatus(status int, message string) *APIError {
	kind := KindUnknown
	switch {
	case status == http.StatusUnauthorized:
		kind = KindUnauthenticated
	case status == http.StatusForbidden:
		kind = KindForbidden
	case status == http.StatusConflict:
		kind = KindConflict
	case status == http.StatusNotFound:
		kind = KindNotFound
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		kind = KindValidation
	}
	if isConstraintText(message) {
		kind = KindConflict
	}
	return &APIError{Kind: kind, Status: status, Message: message}
}

// Transport wraps a network-level failure
func Transport(err error) *APIError {
	return &APIError{Kind: KindTransport, Err: err}
}

// Validation builds a client-side validation failure; it never reaches the backend
func Validation(message string) *APIError {
	return &APIError{Kind: KindValidation, Message: message}
}

// KindOf returns the kind of err, or KindUnknown
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// Messages holds per-kind fallback text for one user action
type Messages struct {
	Default      string
	Forbidden    string
	Conflict     string
	NotFound     string
	Unauthorized string
}

// UserMessage picks the text to show for err.
// Conflicts show the backend's text verbatim unless it is empty or a raw
// constraint violation, in which case the action-specific text is used.
func UserMessage(err error, m Messages) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return orDefault(m.Default, "Something went wrong. Please try again.")
	}

	switch apiErr.Kind {
	case KindValidation:
		return orDefault(apiErr.Message, m.Default)
	case KindUnauthenticated:
		return orDefault(m.Unauthorized, orDefault(apiErr.Message, "Your session has expired. Please log in again."))
	case KindForbidden:
		return orDefault(m.Forbidden, orDefault(apiErr.Message, "You do not have permission to do that."))
	case KindConflict:
		if apiErr.Message == "" || isConstraintText(apiErr.Message) {
			return orDefault(m.Conflict, orDefault(apiErr.Message, m.Default))
		}
		return apiErr.Message
	case KindNotFound:
		return orDefault(m.NotFound, "Not found. It may have already been deleted.")
	case KindTransport:
		return "Cannot reach the store right now. Check your connection and try again."
	default:
		return orDefault(apiErr.Message, orDefault(m.Default, "Something went wrong. Please try again."))
	}
}

func orDefault(s, def string) string {
	if s != "" {
		return s
	}
	return def
}

func isConstraintText(message string) bool {
	return strings.Contains(strings.ToLower(message), "foreign key")
}
