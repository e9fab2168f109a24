package handlers

import (
	"errors"
	"net/http"

	"campuscanteen/internal/common"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
)

type PaymentHandlers struct {
	paymentService services.PaymentService
}

func NewPaymentHandlers(paymentService services.PaymentService) *PaymentHandlers {
	return &PaymentHandlers{paymentService: paymentService}
}

type createPaymentRequest struct {
	Amount        float64 `json:"amount"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
}

// CreatePaymentOrder handles POST /api/payments/create-order
func (h *PaymentHandlers) CreatePaymentOrder(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	order, err := h.paymentService.CreatePaymentOrder(c.Request().Context(), currentCaller(c), services.CreatePaymentInput{
		Amount:        req.Amount,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
	})
	if errors.Is(err, errs.ErrDependency) {
		log.Errorf("Payment order creation failed: %v", err)
		return common.SendServerError(c, "Cashfree order creation failed")
	}
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, order)
}
