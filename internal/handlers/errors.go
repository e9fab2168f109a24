package handlers

import (
	"errors"
	"net/http"

	"campuscanteen/internal/common"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// respondError writes the error envelope for err. Dependency failures and
// anything unrecognised are logged and reported generically.
func respondError(c echo.Context, err error) error {
	var (
		validationErr *errs.ValidationError
		notFoundErr   *errs.NotFoundError
		authnErr      *errs.AuthenticationError
		authzErr      *errs.AuthorizationError
		transitionErr *errs.StateTransitionError
		conflictErr   *errs.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		var details map[string]string
		if validationErr.Field != "" {
			details = map[string]string{validationErr.Field: validationErr.Message}
		}
		return common.SendError(c, http.StatusBadRequest, string(validationErr.Code), validationErr.Message, details)
	case errors.As(err, &notFoundErr):
		return common.SendError(c, http.StatusNotFound, "NOT_FOUND", notFoundErr.Error(), nil)
	case errors.As(err, &authnErr):
		return common.SendUnauthorizedError(c, authnErr.Error())
	case errors.As(err, &authzErr):
		return common.SendError(c, http.StatusForbidden, string(authzErr.Code), authzErr.Message, nil)
	case errors.As(err, &transitionErr):
		return common.SendError(c, http.StatusBadRequest, "INVALID_TRANSITION", transitionErr.Error(),
			map[string]string{"from": transitionErr.From, "to": transitionErr.To})
	case errors.As(err, &conflictErr):
		return common.SendError(c, http.StatusConflict, "CONFLICT", conflictErr.Error(), nil)
	}

	log.Errorf("%s %s failed: %v", c.Request().Method, c.Path(), err)
	return common.SendServerError(c, "Internal server error")
}

// currentCaller returns the authenticated caller, or nil. Services reject a
// nil caller with an authentication error.
func currentCaller(c echo.Context) *models.Caller {
	caller, _ := common.GetCallerFromContext(c.Request().Context())
	return caller
}
