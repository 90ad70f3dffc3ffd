package services

import (
	"errors"
	"net/http"

	"storefront-client/clients"
)

// Sentinel errors carry the message shown to the user.
var (
	ErrNotAuthenticated = errors.New("Please log in to continue.")
	ErrSessionExpired   = errors.New("Your session has expired. Please log in again.")
	ErrForbiddenRole    = errors.New("This action is not available for your account type.")
	ErrInvalidQuantity  = errors.New("Quantity must be at least 1")
	ErrInvalidProduct   = errors.New("Product must have an id and a non-negative price")
	ErrEmptyCart        = errors.New("Your cart is empty")
	ErrMissingAddress   = errors.New("Please enter a delivery address")
)

const (
	msgLoginFailed        = "Login failed"
	msgServerError        = "Server error occurred. The backend service may be experiencing issues. Please try again later."
	msgInvalidRegister    = "Invalid registration data. Please check your information and try again."
	msgCannotConnect      = "Cannot connect to server. Please check your internet connection and try again."
	msgTimedOut           = "Request timed out. Please check your connection and try again."
	msgRegisterFailed     = "Registration failed. Please check your network connection."
	msgProfileFailed      = "Failed to update profile"
	msgOrderFailed        = "Failed to place order. Please try again."
	msgInvalidRequestData = "Invalid request. Please check your information and try again."
)

// Failure is a backend call outcome translated into a message fit for the user.
// Kind and Status are copied from the underlying APIError when there is one.
type Failure struct {
	Message string
	Kind    clients.ErrorKind
	Status  int
	Err     error
}

func (f *Failure) Error() string { return f.Message }

func (f *Failure) Unwrap() error { return f.Err }

func newFailure(err error, message string) *Failure {
	f := &Failure{Message: message, Err: err}
	if apiErr, ok := clients.AsAPIError(err); ok {
		f.Kind = apiErr.Kind
		f.Status = apiErr.Status
	}
	return f
}

// loginFailure uses the server detail when there is one and nothing else.
func loginFailure(err error) *Failure {
	if apiErr, ok := clients.AsAPIError(err); ok && apiErr.Detail != "" {
		return newFailure(err, apiErr.Detail)
	}
	return newFailure(err, msgLoginFailed)
}

// registerFailure maps every registration error onto exactly one non-empty message.
func registerFailure(err error) *Failure {
	apiErr, ok := clients.AsAPIError(err)
	if !ok {
		return newFailure(err, rawMessage(err, msgRegisterFailed))
	}

	switch {
	case apiErr.Kind == clients.KindValidation:
		return newFailure(err, orDefault(apiErr.Detail, msgInvalidRegister))
	case apiErr.Kind == clients.KindHTTP && apiErr.Status == http.StatusInternalServerError:
		return newFailure(err, msgServerError)
	case apiErr.Kind == clients.KindHTTP &&
		(apiErr.Status == http.StatusBadRequest || apiErr.Status == http.StatusUnprocessableEntity):
		return newFailure(err, orDefault(apiErr.Detail, msgInvalidRegister))
	case apiErr.Kind == clients.KindNetwork:
		return newFailure(err, msgCannotConnect)
	case apiErr.Kind == clients.KindTimeout:
		return newFailure(err, msgTimedOut)
	}
	return newFailure(err, rawMessage(err, msgRegisterFailed))
}

// requestFailure is the general mapping used by catalog, order and profile calls.
func requestFailure(err error, fallback string) *Failure {
	apiErr, ok := clients.AsAPIError(err)
	if !ok {
		return newFailure(err, fallback)
	}

	switch apiErr.Kind {
	case clients.KindValidation:
		return newFailure(err, orDefault(apiErr.Detail, msgInvalidRequestData))
	case clients.KindNetwork:
		return newFailure(err, msgCannotConnect)
	case clients.KindTimeout:
		return newFailure(err, msgTimedOut)
	case clients.KindHTTP:
		if apiErr.Detail != "" {
			return newFailure(err, apiErr.Detail)
		}
		if apiErr.Status >= http.StatusInternalServerError {
			return newFailure(err, msgServerError)
		}
	}
	return newFailure(err, fallback)
}

func rawMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	return orDefault(err.Error(), fallback)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
