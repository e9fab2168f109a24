package services

import (
	"testing"
	"time"

	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTransition(t *testing.T) {
	statuses := []models.OrderStatus{
		models.OrderStatusPending, models.OrderStatusPreparing, models.OrderStatusReady, models.OrderStatusCompleted,
	}
	legal := map[[2]models.OrderStatus]bool{
		{models.OrderStatusPending, models.OrderStatusPreparing}: true,
		{models.OrderStatusPreparing, models.OrderStatusReady}:   true,
		{models.OrderStatusReady, models.OrderStatusCompleted}:   true,
	}

	for _, from := range statuses {
		for _, to := range statuses {
			from, to := from, to
			t.Run(string(from)+"->"+string(to), func(t *testing.T) {
				err := ValidateTransition(from, to)
				if from == to || legal[[2]models.OrderStatus{from, to}] {
					assert.NoError(t, err)
					return
				}
				var stErr *errs.StateTransitionError
				require.ErrorAs(t, err, &stErr)
				assert.Equal(t, string(from), stErr.From)
				assert.Equal(t, string(to), stErr.To)
			})
		}
	}
}

func TestValidateTransition_MessageNamesBothStates(t *testing.T) {
	err := ValidateTransition(models.OrderStatusPending, models.OrderStatusReady)
	assert.EqualError(t, err, "Invalid transition from pending to ready")
}

func TestValidateTransition_UnknownStatus(t *testing.T) {
	err := ValidateTransition(models.OrderStatusPending, models.OrderStatus("cancelled"))
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestDerivePriority(t *testing.T) {
	assert.Equal(t, models.PriorityHigh, DerivePriority(models.RoleStaff))
	assert.Equal(t, models.PriorityNormal, DerivePriority(models.RoleStudent))
}

func TestPaymentStatus(t *testing.T) {
	assert.Equal(t, models.PaymentStatusPaid, InitialPaymentStatus(models.PaymentModeUPI))
	assert.Equal(t, models.PaymentStatusPending, InitialPaymentStatus(models.PaymentModeCOD))

	cod := &models.Order{PaymentMode: models.PaymentModeCOD, PaymentStatus: models.PaymentStatusPending}
	assert.Equal(t, models.PaymentStatusPending, PaymentStatusAfter(cod, models.OrderStatusReady))
	assert.Equal(t, models.PaymentStatusPaid, PaymentStatusAfter(cod, models.OrderStatusCompleted))

	upi := &models.Order{PaymentMode: models.PaymentModeUPI, PaymentStatus: models.PaymentStatusPaid}
	assert.Equal(t, models.PaymentStatusPaid, PaymentStatusAfter(upi, models.OrderStatusCompleted))
}

func TestValidateAmounts(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	assert.NoError(t, ValidateAmounts(f(100), f(5), f(105)))

	var vErr *errs.ValidationError
	require.ErrorAs(t, ValidateAmounts(nil, f(5), f(105)), &vErr)
	assert.Equal(t, errs.CodeMissingAmounts, vErr.Code)

	require.ErrorAs(t, ValidateAmounts(f(0), f(0), f(0)), &vErr)
	assert.Equal(t, errs.CodeInvalidTotal, vErr.Code)

	require.ErrorAs(t, ValidateAmounts(f(10), f(-1), f(9)), &vErr)
	assert.Equal(t, errs.CodeInvalidValue, vErr.Code)

	require.ErrorAs(t, ValidateAmounts(f(0), f(0), f(0.004)), &vErr)
	assert.Equal(t, errs.CodeInvalidTotal, vErr.Code)

	require.ErrorAs(t, ValidateAmounts(f(1e9), f(0), f(1e9)), &vErr)
	assert.Equal(t, errs.CodeInvalidValue, vErr.Code)
	assert.Equal(t, "subtotal", vErr.Field)

	assert.NoError(t, ValidateAmounts(f(MaxAmount), f(0), f(MaxAmount)))
}

func TestRoundCents(t *testing.T) {
	assert.Equal(t, 0.0, RoundCents(0.004))
	assert.Equal(t, 0.01, RoundCents(0.006))
	assert.Equal(t, 105.5, RoundCents(105.4999999))
	assert.Equal(t, 12.35, RoundCents(12.345000001))
}

func TestResolvePaymentMode(t *testing.T) {
	mode, err := ResolvePaymentMode("")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentModeCOD, mode)

	mode, err = ResolvePaymentMode(models.PaymentModeUPI)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentModeUPI, mode)

	_, err = ResolvePaymentMode("CARD")
	assert.ErrorIs(t, err, errs.ErrValidation)
}

func TestSortKitchenQueue(t *testing.T) {
	t1 := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	t3 := t2.Add(time.Minute)

	first := &models.Order{ID: uuid.New(), Priority: models.PriorityNormal, CreatedAt: t1, UpdatedAt: t1}
	second := &models.Order{ID: uuid.New(), Priority: models.PriorityHigh, CreatedAt: t2, UpdatedAt: t2}
	third := &models.Order{ID: uuid.New(), Priority: models.PriorityNormal, CreatedAt: t3, UpdatedAt: t3}

	orders := []*models.Order{first, second, third}
	SortKitchenQueue(orders)

	assert.Equal(t, []*models.Order{second, first, third}, orders)
}

func TestSortKitchenQueue_TieBreaksOnUpdatedAt(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	later := &models.Order{ID: uuid.New(), Priority: models.PriorityHigh, CreatedAt: created, UpdatedAt: created.Add(2 * time.Second)}
	earlier := &models.Order{ID: uuid.New(), Priority: models.PriorityHigh, CreatedAt: created, UpdatedAt: created.Add(time.Second)}

	orders := []*models.Order{later, earlier}
	SortKitchenQueue(orders)

	assert.Equal(t, earlier.ID, orders[0].ID)
	assert.Equal(t, later.ID, orders[1].ID)
}
