package handlers

import (
	"net/http"

	"campuscanteen/internal/common"
	"campuscanteen/internal/services"

	"github.com/labstack/echo/v4"
)

type CanteenHandlers struct {
	canteenService services.CanteenService
}

func NewCanteenHandlers(canteenService services.CanteenService) *CanteenHandlers {
	return &CanteenHandlers{canteenService: canteenService}
}

type createCanteenRequest struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Active *bool  `json:"active"`
}

// ListCanteens handles GET /api/canteens
func (h *CanteenHandlers) ListCanteens(c echo.Context) error {
	canteens, err := h.canteenService.ListCanteens(c.Request().Context(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, canteens)
}

// GetCanteen handles GET /api/canteens/:id
func (h *CanteenHandlers) GetCanteen(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	canteen, err := h.canteenService.GetCanteen(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, canteen)
}

// CreateCanteen handles POST /api/canteens
func (h *CanteenHandlers) CreateCanteen(c echo.Context) error {
	var req createCanteenRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	canteen, err := h.canteenService.CreateCanteen(c.Request().Context(), currentCaller(c), services.CreateCanteenInput{
		Name:   req.Name,
		Code:   req.Code,
		Active: req.Active,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, canteen)
}
