package handlers

import (
	"context"
	"net/http"
	"strings"

	"campuscanteen/internal/common"
	"campuscanteen/internal/models"
	"campuscanteen/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// StatsReader serves the admin daily figures.
type StatsReader interface {
	TodayStats(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) (*models.DailyStats, error)
}

// OrderHandlers handles HTTP requests for orders
type OrderHandlers struct {
	orderService services.OrderServiceInterface
	stats        StatsReader
}

// NewOrderHandlers creates a new order handlers instance
func NewOrderHandlers(orderService services.OrderServiceInterface, stats StatsReader) *OrderHandlers {
	return &OrderHandlers{
		orderService: orderService,
		stats:        stats,
	}
}

type orderLineRequest struct {
	MenuItem   string `json:"menuItem"`
	MenuItemID string `json:"menuItemId"`
	Quantity   int    `json:"quantity"`
}

type createOrderRequest struct {
	CanteenID      string             `json:"canteenId"`
	Items          []orderLineRequest `json:"items"`
	Subtotal       *float64           `json:"subtotal"`
	Tax            *float64           `json:"tax"`
	Total          *float64           `json:"total"`
	PaymentMode    string             `json:"paymentMode"`
	PaymentOrderID *string            `json:"paymentOrderId"`
}

type updateStatusRequest struct {
	Status        string  `json:"status"`
	EstimatedTime *string `json:"estimatedTime"`
}

// CreateOrder handles POST /api/orders
func (h *OrderHandlers) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	input := services.CreateOrderInput{
		Subtotal:    req.Subtotal,
		Tax:         req.Tax,
		Total:       req.Total,
		PaymentMode: models.PaymentMode(strings.ToUpper(strings.TrimSpace(req.PaymentMode))),
	}
	if req.PaymentOrderID != nil && strings.TrimSpace(*req.PaymentOrderID) != "" {
		ref := strings.TrimSpace(*req.PaymentOrderID)
		input.PaymentOrderID = &ref
	}

	if strings.TrimSpace(req.CanteenID) != "" {
		canteenID, err := common.ValidateUUID(req.CanteenID, "canteenId")
		if err != nil {
			return common.SendValidationError(c, "canteenId", "Invalid canteen")
		}
		input.CanteenID = canteenID
	}

	// A malformed item id can never match a menu item, so it is passed on as
	// uuid.Nil and rejected with the other cart errors.
	for _, line := range req.Items {
		raw := line.MenuItemID
		if raw == "" {
			raw = line.MenuItem
		}
		id, err := common.ValidateUUID(raw, "menuItem")
		if err != nil {
			id = uuid.Nil
		}
		input.Items = append(input.Items, services.OrderLineInput{MenuItemID: id, Quantity: line.Quantity})
	}

	order, err := h.orderService.CreateOrder(c.Request().Context(), currentCaller(c), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, order)
}

// ListMyOrders handles GET /api/orders/my
func (h *OrderHandlers) ListMyOrders(c echo.Context) error {
	orders, err := h.orderService.ListMyOrders(c.Request().Context(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// KitchenQueue handles GET /api/orders/kitchen/queue
func (h *OrderHandlers) KitchenQueue(c echo.Context) error {
	orders, err := h.orderService.KitchenQueue(c.Request().Context(), currentCaller(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// KitchenHistory handles GET /api/orders/kitchen/history
func (h *OrderHandlers) KitchenHistory(c echo.Context) error {
	canteenID, err := common.ParseOptionalUUID(c.QueryParam("canteenId"), "canteenId")
	if err != nil {
		return common.SendValidationError(c, "canteenId", err.Error())
	}

	orders, err := h.orderService.KitchenHistory(c.Request().Context(), currentCaller(c), canteenID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// UpdateStatus handles PATCH /api/orders/:id/status
func (h *OrderHandlers) UpdateStatus(c echo.Context) error {
	orderID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendValidationError(c, "id", "Invalid order id")
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	eta, err := common.ParseOptionalTimestamp(req.EstimatedTime, "estimatedTime")
	if err != nil {
		return common.SendValidationError(c, "estimatedTime", err.Error())
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), currentCaller(c), orderID, services.UpdateStatusInput{
		Status:        models.OrderStatus(strings.TrimSpace(req.Status)),
		EstimatedTime: eta,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}

// TodayOrders handles GET /api/orders/admin/today
func (h *OrderHandlers) TodayOrders(c echo.Context) error {
	canteenID, err := common.ParseOptionalUUID(c.QueryParam("canteenId"), "canteenId")
	if err != nil {
		return common.SendValidationError(c, "canteenId", err.Error())
	}

	orders, err := h.orderService.TodayOrders(c.Request().Context(), currentCaller(c), canteenID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// DailyStats handles GET /api/orders/admin/stats
func (h *OrderHandlers) DailyStats(c echo.Context) error {
	canteenID, err := common.ParseOptionalUUID(c.QueryParam("canteenId"), "canteenId")
	if err != nil {
		return common.SendValidationError(c, "canteenId", err.Error())
	}

	stats, err := h.stats.TodayStats(c.Request().Context(), currentCaller(c), canteenID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
