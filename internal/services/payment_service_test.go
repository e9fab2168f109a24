package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campuscanteen/internal/config"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPaymentService(baseURL string) *cashfreeService {
	svc := NewPaymentService(config.CashfreeConfig{
		ClientID:     "cf-id",
		ClientSecret: "cf-secret",
		BaseURL:      baseURL + "/",
		APIVersion:   "2022-09-01",
		ReturnURL:    "https://canteen.example/payment-return",
		Timeout:      time.Second,
	}, NewAccessPolicy()).(*cashfreeService)
	svc.now = func() time.Time { return time.UnixMilli(1700000000123) }
	return svc
}

func TestCreatePaymentOrder_SendsGatewayRequest(t *testing.T) {
	caller := &models.Caller{UserID: uuid.New(), Name: "Asha", Email: "asha@campus.edu", Role: models.RoleStudent}
	var received cashfreeOrderRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "cf-id", r.Header.Get("x-client-id"))
		assert.Equal(t, "cf-secret", r.Header.Get("x-client-secret"))
		assert.Equal(t, "2022-09-01", r.Header.Get("x-api-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cf_order_id": 2149460581, "order_id": "CC_1700000000123", "order_amount": 120.5,
			"order_currency": "INR", "order_status": "ACTIVE", "payment_session_id": "session_abc"}`))
	}))
	defer server.Close()

	order, err := newTestPaymentService(server.URL).CreatePaymentOrder(context.Background(), caller, CreatePaymentInput{Amount: 120.5})
	require.NoError(t, err)

	assert.Equal(t, "CC_1700000000123", received.OrderID)
	assert.Equal(t, 120.5, received.OrderAmount)
	assert.Equal(t, "INR", received.OrderCurrency)
	assert.Equal(t, caller.UserID.String(), received.CustomerDetails.CustomerID)
	assert.Equal(t, "Asha", received.CustomerDetails.CustomerName)
	assert.Equal(t, defaultCustomerPhone, received.CustomerDetails.CustomerPhone)
	assert.Equal(t, "https://canteen.example/payment-return", received.OrderMeta.ReturnURL)

	assert.Equal(t, "CC_1700000000123", order.OrderID)
	assert.Equal(t, "session_abc", order.PaymentSessionID)
	assert.Equal(t, "ACTIVE", order.OrderStatus)
}

func TestCreatePaymentOrder_GatewayFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"authentication Failed","code":"request_failed"}`))
	}))
	defer server.Close()

	caller := &models.Caller{UserID: uuid.New(), Role: models.RoleStaff}
	_, err := newTestPaymentService(server.URL).CreatePaymentOrder(context.Background(), caller, CreatePaymentInput{Amount: 10})
	assert.ErrorIs(t, err, errs.ErrDependency)
}

func TestCreatePaymentOrder_Validation(t *testing.T) {
	svc := newTestPaymentService("http://127.0.0.1:0")

	_, err := svc.CreatePaymentOrder(context.Background(), &models.Caller{Role: models.RoleStudent}, CreatePaymentInput{Amount: 0})
	assert.EqualError(t, err, "Invalid amount")

	_, err = svc.CreatePaymentOrder(context.Background(), &models.Caller{Role: models.RoleKitchen}, CreatePaymentInput{Amount: 10})
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
