package handlers

import (
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"campuscanteen/internal/common"
	"campuscanteen/internal/models"
	"campuscanteen/internal/services"

	"github.com/labstack/echo/v4"
)

const maxImageSize = 5 << 20

// MenuHandlers handles HTTP requests for the menu catalog
type MenuHandlers struct {
	menuService services.MenuService
}

func NewMenuHandlers(menuService services.MenuService) *MenuHandlers {
	return &MenuHandlers{menuService: menuService}
}

type createMenuItemRequest struct {
	CanteenID   string   `json:"canteenId"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Image       string   `json:"image"`
	Available   *bool    `json:"available"`
}

// ListMenu handles GET /api/menu?canteenId=
func (h *MenuHandlers) ListMenu(c echo.Context) error {
	canteenID, err := common.ValidateUUID(c.QueryParam("canteenId"), "canteenId")
	if err != nil {
		return common.SendValidationError(c, "canteenId", err.Error())
	}

	items, err := h.menuService.ListMenu(c.Request().Context(), currentCaller(c), canteenID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// CreateItem handles POST /api/menu
func (h *MenuHandlers) CreateItem(c echo.Context) error {
	var req createMenuItemRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	canteenID, err := common.ValidateUUID(req.CanteenID, "canteenId")
	if err != nil {
		return common.SendValidationError(c, "canteenId", err.Error())
	}

	item, err := h.menuService.CreateItem(c.Request().Context(), currentCaller(c), services.CreateMenuItemInput{
		CanteenID:   canteenID,
		Name:        req.Name,
		Category:    models.Category(strings.TrimSpace(req.Category)),
		Price:       req.Price,
		Description: req.Description,
		Image:       req.Image,
		Available:   req.Available,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, item)
}

// UpdateItem handles PUT /api/menu/:id
func (h *MenuHandlers) UpdateItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	var update models.MenuItemUpdate
	if err := c.Bind(&update); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	item, err := h.menuService.UpdateItem(c.Request().Context(), currentCaller(c), id, update)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, item)
}

// DeleteItem handles DELETE /api/menu/:id
func (h *MenuHandlers) DeleteItem(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.menuService.DeleteItem(c.Request().Context(), currentCaller(c), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "Menu item deleted"})
}

// UploadImage handles POST /api/menu/:id/image (multipart field "image")
func (h *MenuHandlers) UploadImage(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	file, err := c.FormFile("image")
	if err != nil {
		return common.SendValidationError(c, "image", "image is required")
	}
	if file.Size > maxImageSize {
		return common.SendValidationError(c, "image", "image must be 5MB or smaller")
	}

	src, err := file.Open()
	if err != nil {
		return common.SendClientError(c, "Failed to read uploaded image")
	}
	defer src.Close()

	contentType := file.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = mime.TypeByExtension(strings.ToLower(filepath.Ext(file.Filename)))
	}

	result, err := h.menuService.UploadImage(c.Request().Context(), currentCaller(c), id, services.ImageUpload{
		Filename:    file.Filename,
		ContentType: contentType,
		Size:        file.Size,
		Body:        src,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}
