package handlers

import (
	"net/http"
	"strings"

	"campuscanteen/internal/common"
	"campuscanteen/internal/models"
	"campuscanteen/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
	}
}

// SignupRequest represents the signup request payload
type SignupRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      string `json:"role"`
	CanteenID string `json:"canteenId"`
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Signup handles POST /api/auth/signup
func (h *AuthHandlers) Signup(c echo.Context) error {
	var req SignupRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	canteenID, err := common.ParseOptionalUUID(req.CanteenID, "canteenId")
	if err != nil {
		return common.SendValidationError(c, "canteenId", "Invalid canteen")
	}

	resp, err := h.authService.Signup(c.Request().Context(), services.SignupInput{
		Name:      req.Name,
		Email:     req.Email,
		Password:  req.Password,
		Role:      models.Role(strings.ToLower(strings.TrimSpace(req.Role))),
		CanteenID: canteenID,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, resp)
}

// Login handles POST /api/auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	resp, err := h.authService.Login(c.Request().Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     models.Role(strings.ToLower(strings.TrimSpace(req.Role))),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// Me handles GET /api/auth/me
func (h *AuthHandlers) Me(c echo.Context) error {
	user, err := h.authService.GetUser(c.Request().Context(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}
