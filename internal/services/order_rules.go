package services

import (
	"fmt"
	"math"
	"sort"

	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
)

// allowedNext is the order state machine. completed has no outgoing edge.
var allowedNext = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:   {models.OrderStatusPreparing},
	models.OrderStatusPreparing: {models.OrderStatusReady},
	models.OrderStatusReady:     {models.OrderStatusCompleted},
}

// ValidateTransition accepts next when it equals current or is the single
// step forward from it.
func ValidateTransition(current, next models.OrderStatus) error {
	if !next.IsValid() {
		return errs.NewValidationError(errs.CodeInvalidStatus, "status", "Invalid status: "+string(next))
	}
	if current == next {
		return nil
	}
	for _, s := range allowedNext[current] {
		if s == next {
			return nil
		}
	}
	return errs.NewStateTransitionError(string(current), string(next))
}

// DerivePriority is the only rule that sets order priority.
func DerivePriority(role models.Role) models.Priority {
	if role == models.RoleStaff {
		return models.PriorityHigh
	}
	return models.PriorityNormal
}

// InitialPaymentStatus marks UPI orders paid up front; cash is collected later.
func InitialPaymentStatus(mode models.PaymentMode) models.PaymentStatus {
	if mode == models.PaymentModeUPI {
		return models.PaymentStatusPaid
	}
	return models.PaymentStatusPending
}

// PaymentStatusAfter returns the payment status once the order moves to next.
func PaymentStatusAfter(order *models.Order, next models.OrderStatus) models.PaymentStatus {
	if next == models.OrderStatusCompleted && order.PaymentMode == models.PaymentModeCOD {
		return models.PaymentStatusPaid
	}
	return order.PaymentStatus
}

// Column limits of the orders and order_items tables: NUMERIC(10, 2) and INTEGER.
const (
	MaxAmount   = 99999999.99
	MaxQuantity = math.MaxInt32
)

// RoundCents rounds v to the two decimals the store keeps.
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// ValidateAmounts checks the caller supplied totals as they will be stored,
// that is after rounding to cents.
func ValidateAmounts(subtotal, tax, total *float64) error {
	if subtotal == nil || tax == nil || total == nil {
		return errs.NewValidationError(errs.CodeMissingAmounts, "total", "Subtotal, tax and total are required")
	}
	if RoundCents(*total) < 0.01 {
		return errs.NewValidationError(errs.CodeInvalidTotal, "total", "Total must be greater than zero")
	}
	if *subtotal < 0 || *tax < 0 {
		return errs.NewValidationError(errs.CodeInvalidValue, "subtotal", "Subtotal and tax cannot be negative")
	}
	for _, a := range []struct {
		field string
		value float64
	}{{"subtotal", *subtotal}, {"tax", *tax}, {"total", *total}} {
		if RoundCents(a.value) > MaxAmount {
			return errs.NewValidationError(errs.CodeInvalidValue, a.field, fmt.Sprintf("%s exceeds the maximum of %.2f", a.field, MaxAmount))
		}
	}
	return nil
}

// ResolvePaymentMode applies the COD default and rejects unknown modes.
func ResolvePaymentMode(mode models.PaymentMode) (models.PaymentMode, error) {
	if mode == "" {
		return models.PaymentModeCOD, nil
	}
	if !mode.IsValid() {
		return "", errs.NewValidationError(errs.CodeInvalidPaymentMode, "paymentMode", "paymentMode must be UPI or COD")
	}
	return mode, nil
}

// SortKitchenQueue orders by priority (high first), then createdAt, then
// updatedAt, all ascending. The sort is stable.
func SortKitchenQueue(orders []*models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.UpdatedAt.Before(b.UpdatedAt)
	})
}
