package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"storefront-client/clients"
	apperrors "storefront-client/errors"
	"storefront-client/services"

	"github.com/gin-gonic/gin"
)

// fail attaches err to the context for ErrorMiddleware to render
func fail(c *gin.Context, err error) {
	_ = c.Error(toAppError(err))
}

func badRequest(c *gin.Context, message string, err error) {
	_ = c.Error(apperrors.New(http.StatusBadRequest, message, err))
}

func toAppError(err error) *apperrors.Error {
	switch {
	case errors.Is(err, services.ErrSessionExpired):
		return apperrors.With(apperrors.ErrSessionExpired, err)
	case errors.Is(err, services.ErrNotAuthenticated):
		return apperrors.With(apperrors.ErrNotLoggedIn, err)
	case errors.Is(err, services.ErrForbiddenRole):
		return apperrors.New(http.StatusForbidden, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrInvalidProduct),
		errors.Is(err, services.ErrEmptyCart),
		errors.Is(err, services.ErrMissingAddress):
		return apperrors.New(http.StatusBadRequest, err.Error(), nil)
	}

	var f *services.Failure
	if errors.As(err, &f) {
		return apperrors.New(failureStatus(f), f.Message, f.Err)
	}
	return apperrors.As(err)
}

// failureStatus picks the shell status for a backend failure. Client errors
// pass through; anything the backend could not answer is a gateway error.
func failureStatus(f *services.Failure) int {
	switch f.Kind {
	case clients.KindValidation:
		return http.StatusBadRequest
	case clients.KindTimeout:
		return http.StatusGatewayTimeout
	case clients.KindNetwork, clients.KindDecode:
		return http.StatusBadGateway
	case clients.KindHTTP:
		if f.Status >= 400 && f.Status < 500 {
			return f.Status
		}
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid "+name, err)
		return 0, false
	}
	return id, true
}
