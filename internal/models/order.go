package models

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

// ActiveOrderStatuses are the statuses shown on the kitchen queue.
func ActiveOrderStatuses() []OrderStatus {
	return []OrderStatus{OrderStatusPending, OrderStatusPreparing, OrderStatusReady}
}

type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// Rank orders priorities for sorting; higher runs first.
func (p Priority) Rank() int {
	if p == PriorityHigh {
		return 1
	}
	return 0
}

type PaymentMode string

const (
	PaymentModeUPI PaymentMode = "UPI"
	PaymentModeCOD PaymentMode = "COD"
)

func (m PaymentMode) IsValid() bool {
	return m == PaymentModeUPI || m == PaymentModeCOD
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
)

type Order struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	CanteenID      uuid.UUID     `json:"canteenId" db:"canteen_id"`
	UserID         uuid.UUID     `json:"userId" db:"user_id"`
	UserName       string        `json:"userName" db:"user_name"`
	Items          []OrderLine   `json:"items" db:"-"`
	Subtotal       float64       `json:"subtotal" db:"subtotal"`
	Tax            float64       `json:"tax" db:"tax"`
	Total          float64       `json:"total" db:"total"`
	PaymentMode    PaymentMode   `json:"paymentMode" db:"payment_mode"`
	PaymentStatus  PaymentStatus `json:"paymentStatus" db:"payment_status"`
	PaymentOrderID *string       `json:"paymentOrderId,omitempty" db:"payment_order_id"`
	Status         OrderStatus   `json:"status" db:"status"`
	Priority       Priority      `json:"priority" db:"priority"`
	EstimatedTime  *time.Time    `json:"estimatedTime" db:"estimated_time"`
	Version        int           `json:"-" db:"version"`
	CreatedAt      time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time     `json:"updatedAt" db:"updated_at"`
}

// DailyStats is the admin dashboard summary for one day.
type DailyStats struct {
	TodayOrders  int     `json:"todayOrders"`
	TotalRevenue float64 `json:"totalRevenue"`
}
