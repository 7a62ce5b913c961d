package gridbase

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors returned by the SDK. These can be used with errors.Is()
// to check for specific conditions.
//
// Example:
//
//	client, err := gridbase.New(cfg)
//	if errors.Is(err, gridbase.ErrInvalidConfig) {
//	    // fix the configuration
//	}
var (
	// ErrInvalidConfig is returned when the client configuration is invalid,
	// e.g. a missing client key or a base URL that is not an absolute
	// http(s) URL. Configuration errors surface at construction time,
	// before any network call.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNoSession is returned by operations that require an active session
	// when none has been installed via sign-in or RestoreSession.
	ErrNoSession = errors.New("no active session")

	// ErrClientClosed is returned when a manager method is called after the
	// client has been closed.
	ErrClientClosed = errors.New("client is closed")
)

// Local error codes used for synthetic entries the SDK creates when no
// server-supplied error body is available.
const (
	codeNetworkError        = "network_error"
	codeTimeout             = "timeout"
	codeRequestCanceled     = "request_canceled"
	codeInvalidResponseBody = "invalid_response_body"
	codeServerError         = "server_error"
)

// ErrorEntry is a single normalized error reported for a failed call. For
// server-reported failures the fields are passed through verbatim from the
// response body; for transport and decode failures the SDK synthesizes an
// entry with a local code and a zero or response status.
type ErrorEntry struct {
	// Status is the HTTP status associated with the entry. Zero for
	// transport-level failures that produced no response.
	Status int `json:"status"`
	// Code identifies the error for programmatic handling.
	Code string `json:"code"`
	// Message is a human-readable description.
	Message string `json:"message"`
	// Details carries optional per-field validation details.
	Details map[string]interface{} `json:"details,omitempty"`
}

// ErrorList is the error half of every call result. It holds the ordered
// error entries for a failed call, with the first entry reflecting the most
// specific cause. ErrorList implements the error interface and supports
// errors.Is/errors.As against the wrapped transport error, if any.
//
// Example:
//
//	_, err := client.Storage().Bucket("img").File("a.png").GetInfo(ctx)
//	var list *gridbase.ErrorList
//	if errors.As(err, &list) {
//	    for _, e := range list.Items {
//	        log.Printf("%d %s: %s", e.Status, e.Code, e.Message)
//	    }
//	}
type ErrorList struct {
	// Status is the HTTP status of the failed response, zero when the
	// request never produced one.
	Status int `json:"status"`
	// RequestID is the correlation id the SDK attached to the request.
	RequestID string `json:"requestId,omitempty"`
	// Items holds the ordered error entries, most specific first.
	Items []ErrorEntry `json:"errors"`

	wrapped error
}

// Error implements the error interface.
func (e *ErrorList) Error() string {
	if len(e.Items) == 0 {
		return fmt.Sprintf("api error (status %d)", e.Status)
	}
	parts := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		parts = append(parts, fmt.Sprintf("%s: %s", item.Code, item.Message))
	}
	return fmt.Sprintf("api error (status %d): %s", e.Status, strings.Join(parts, "; "))
}

// Unwrap returns the underlying transport error, if any.
func (e *ErrorList) Unwrap() error {
	return e.wrapped
}

// First returns the first (most specific) error entry, or nil when the list
// is empty.
func (e *ErrorList) First() *ErrorEntry {
	if len(e.Items) == 0 {
		return nil
	}
	return &e.Items[0]
}

// HasCode reports whether any entry carries the given code.
func (e *ErrorList) HasCode(code string) bool {
	for _, item := range e.Items {
		if item.Code == code {
			return true
		}
	}
	return false
}

// newTransportError builds the synthetic error list for a request that
// failed before producing a response. The wrapped error is preserved so
// errors.Is(err, context.Canceled) and friends keep working.
func newTransportError(code, message string, wrapped error) *ErrorList {
	return &ErrorList{
		Items:   []ErrorEntry{{Code: code, Message: message}},
		wrapped: wrapped,
	}
}

// newDecodeError builds the synthetic error list for a response body that
// does not match the declared resolve type.
func newDecodeError(status int, wrapped error) *ErrorList {
	return &ErrorList{
		Status: status,
		Items: []ErrorEntry{{
			Status:  status,
			Code:    codeInvalidResponseBody,
			Message: fmt.Sprintf("response body does not match the declared resolve type: %v", wrapped),
		}},
		wrapped: wrapped,
	}
}

// parseErrorBody converts a non-2xx response body into an ErrorList. Server
// bodies are expected to carry an ordered errors array; a missing or
// malformed body is tolerated and replaced with a local entry built from the
// HTTP status.
func parseErrorBody(status int, body []byte) *ErrorList {
	var envelope struct {
		Errors []ErrorEntry `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && len(envelope.Errors) > 0 {
		for i := range envelope.Errors {
			if envelope.Errors[i].Status == 0 {
				envelope.Errors[i].Status = status
			}
		}
		return &ErrorList{Status: status, Items: envelope.Errors}
	}

	message := http.StatusText(status)
	if len(body) > 0 {
		if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
			message = trimmed
		}
	}
	return &ErrorList{
		Status: status,
		Items: []ErrorEntry{{
			Status:  status,
			Code:    codeServerError,
			Message: message,
		}},
	}
}

// AsErrorList extracts the *ErrorList from an error returned by any SDK
// call. The second return value is false for configuration and usage errors
// that never reached the dispatcher.
func AsErrorList(err error) (*ErrorList, bool) {
	var list *ErrorList
	if errors.As(err, &list) {
		return list, true
	}
	return nil, false
}

// IsNotFound reports whether the error represents a "not found" response.
//
// Example:
//
//	info, err := bucket.File("missing.png").GetInfo(ctx)
//	if gridbase.IsNotFound(err) {
//	    // file does not exist
//	}
func IsNotFound(err error) bool {
	list, ok := AsErrorList(err)
	return ok && list.Status == http.StatusNotFound
}

// IsUnauthorized reports whether the error represents a 401 response, which
// usually means the session is missing, expired or revoked.
func IsUnauthorized(err error) bool {
	list, ok := AsErrorList(err)
	return ok && list.Status == http.StatusUnauthorized
}

// IsNetworkError reports whether the error was synthesized from a transport
// failure (DNS, connection refused, broken connection) rather than an HTTP
// response.
func IsNetworkError(err error) bool {
	list, ok := AsErrorList(err)
	return ok && list.Status == 0 && list.HasCode(codeNetworkError)
}

// IsTimeout reports whether the error was synthesized from a request
// timeout or an exceeded context deadline.
func IsTimeout(err error) bool {
	list, ok := AsErrorList(err)
	return ok && list.HasCode(codeTimeout)
}
