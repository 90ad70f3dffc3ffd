package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// ErrorKind classifies why a backend call failed
type ErrorKind int

const (
	// KindValidation means the request was rejected locally and never sent
	KindValidation ErrorKind = iota + 1
	// KindNetwork means no response reached us (offline, DNS, refused)
	KindNetwork
	// KindTimeout means the call exceeded its deadline
	KindTimeout
	// KindHTTP means the server answered with a non-2xx status
	KindHTTP
	// KindDecode means a 2xx body could not be decoded
	KindDecode
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNetwork:
		return "network"
	case KindTimeout:
		return "timeout"
	case KindHTTP:
		return "http"
	case KindDecode:
		return "decode"
	}
	return "unknown"
}

// APIError is the single failure shape returned by every APIClient call
type APIError struct {
	Kind   ErrorKind
	Status int    // set when Kind == KindHTTP
	Detail string // server-supplied "detail", when present
	Body   []byte
	Err    error
}

func (e *APIError) Error() string {
	switch e.Kind {
	case KindValidation:
		return e.Detail
	case KindHTTP:
		if e.Detail != "" {
			return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
		}
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	}
	return e.Kind.String() + " error"
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// HasResponse reports whether the server answered at all
func (e *APIError) HasResponse() bool {
	return e.Kind == KindHTTP
}

// IsUnauthorized reports whether the server rejected the bearer token
func (e *APIError) IsUnauthorized() bool {
	return e.Kind == KindHTTP && e.Status == http.StatusUnauthorized
}

// AsAPIError unwraps err into an *APIError
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend
func IsUnauthorized(err error) bool {
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}

func validationError(msg string) *APIError {
	return &APIError{Kind: KindValidation, Detail: msg}
}

// transportError classifies an error returned by http.Client.Do
func transportError(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Kind: KindTimeout, Err: err}
	}
	return &APIError{Kind: KindNetwork, Err: err}
}

func httpError(status int, body []byte) *APIError {
	return &APIError{
		Kind:   KindHTTP,
		Status: status,
		Detail: extractDetail(body),
		Body:   body,
	}
}

// extractDetail reads the backend's "detail" field. FastAPI sends either a
// string or, for 422s, a list of {loc, msg, type} objects.
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var payload struct {
		Detail json.RawMessage `json:"detail"`
		Error  string          `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Detail) > 0 {
		var s string
		if err := json.Unmarshal(payload.Detail, &s); err == nil {
			return strings.TrimSpace(s)
		}
		var list []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(payload.Detail, &list); err == nil {
			for _, item := range list {
				if m := strings.TrimSpace(item.Msg); m != "" {
					return m
				}
			}
		}
	}
	return strings.TrimSpace(payload.Error)
}
