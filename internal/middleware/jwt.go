package middleware

import (
	"errors"
	"net/http"

	"campuscanteen/internal/common"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/services"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

// JWTMiddleware verifies the bearer token with the auth service and leaves
// the token claims in the echo context under "user".
func JWTMiddleware(authSvc services.AuthService) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ParseTokenFunc: func(c echo.Context, auth string) (interface{}, error) {
			return authSvc.ValidateToken(c.Request().Context(), auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			if c.Request().Header.Get(echo.HeaderAuthorization) == "" {
				return common.SendUnauthorizedError(c, "No token provided")
			}
			return common.SendUnauthorizedError(c, "Invalid token")
		},
	})
}

// ResolveCaller loads the user named by the verified token and stores the
// caller in the request context. It must run after JWTMiddleware.
func ResolveCaller(authSvc services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*services.TokenClaims)
			if !ok {
				return common.SendUnauthorizedError(c, "No token provided")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return common.SendUnauthorizedError(c, "Invalid token")
			}

			caller, err := authSvc.GetCaller(c.Request().Context(), userID)
			if err != nil {
				if errors.Is(err, errs.ErrUnauthenticated) {
					return common.SendUnauthorizedError(c, err.Error())
				}
				log.Errorf("Failed to resolve caller %s: %v", userID, err)
				return common.SendError(c, http.StatusInternalServerError, "SERVER_ERROR", "Internal server error", nil)
			}

			ctx := common.WithCaller(c.Request().Context(), caller)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}
