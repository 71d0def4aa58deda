package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	bundledomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/bundle/domain"
	recdomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/recommendation/domain"
	subscriptiondomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/subscription/domain"
	usagedomain "github.com/ShreyamKeshri/subsavvyai-sub000/internal/usage/domain"
)

var ErrUnauthorized = errors.New("unauthorized")

type apiError struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

type validationError struct {
	apiError
}

func (e *validationError) Error() string { return e.Message }

func newValidationError(field, code, message string) error {
	return &validationError{apiError{Code: code, Field: field, Message: message}}
}

func invalidRequestError() error {
	return newValidationError("", "invalid_request", "request body could not be parsed")
}

// AbortWithError maps domain errors to HTTP responses.
func AbortWithError(c *gin.Context, err error) {
	var verr *validationError
	if errors.As(err, &verr) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": verr.apiError})
		return
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		abortJSON(c, http.StatusUnauthorized, "unauthorized", err)
	case errors.Is(err, recdomain.ErrNotFound),
		errors.Is(err, bundledomain.ErrNotFound),
		errors.Is(err, subscriptiondomain.ErrNotFound):
		abortJSON(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, recdomain.ErrAlreadyFinalized):
		abortJSON(c, http.StatusConflict, "already_finalized", err)
	case errors.Is(err, subscriptiondomain.ErrNotActive):
		abortJSON(c, http.StatusConflict, "subscription_not_active", err)
	case errors.Is(err, bundledomain.ErrCatalogUnavailable):
		abortJSON(c, http.StatusServiceUnavailable, "bundle_catalog_unavailable", err)
	case errors.Is(err, recdomain.ErrInvalidStatus),
		errors.Is(err, bundledomain.ErrInvalidStatus),
		errors.Is(err, recdomain.ErrInvalidID),
		errors.Is(err, bundledomain.ErrInvalidID),
		errors.Is(err, recdomain.ErrInvalidUser),
		errors.Is(err, bundledomain.ErrInvalidUser),
		errors.Is(err, subscriptiondomain.ErrInvalidUser),
		errors.Is(err, subscriptiondomain.ErrInvalidSubscription),
		errors.Is(err, usagedomain.ErrInvalidUser),
		errors.Is(err, usagedomain.ErrInvalidSubscription),
		errors.Is(err, usagedomain.ErrInvalidPeriod):
		abortJSON(c, http.StatusBadRequest, err.Error(), err)
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error": apiError{Code: "internal_error", Message: "something went wrong"},
		})
	}
}

func abortJSON(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": apiError{Code: code, Message: err.Error()},
	})
}
