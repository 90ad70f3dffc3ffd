package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error represents an application error rendered by the shell server
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrForbidden       = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound        = New(http.StatusNotFound, "Not found", nil)
	ErrTooManyRequests = New(http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
	ErrInternalServer  = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Session error types
var (
	ErrSessionExpired = New(http.StatusUnauthorized, "Your session has expired. Please log in again.", nil)
	ErrNotLoggedIn    = New(http.StatusUnauthorized, "Please log in to continue.", nil)
)

// With returns a copy of base wrapping err, leaving the shared value untouched
func With(base *Error, err error) *Error {
	return New(base.Code, base.Message, err)
}

// As resolves err into an *Error, defaulting to an internal server error
func As(err error) *Error {
	var appErr *Error
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return With(ErrInternalServer, err)
}

// ErrorMiddleware renders the last error attached to the gin context
func ErrorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 && !c.Writer.Written() {
			appErr := As(c.Errors.Last().Err)
			c.AbortWithStatusJSON(appErr.Code, appErr)
		}
	}
}
