package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"campuscanteen/internal/config"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"

	"github.com/labstack/gommon/log"
)

const defaultCustomerPhone = "9999999999"

// PaymentService creates hosted UPI checkout sessions with Cashfree
type PaymentService interface {
	CreatePaymentOrder(ctx context.Context, caller *models.Caller, input CreatePaymentInput) (*PaymentOrder, error)
}

type CreatePaymentInput struct {
	Amount        float64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

// PaymentOrder is what the client needs to open the checkout. OrderID is
// later sent back as paymentOrderId when the canteen order is placed.
type PaymentOrder struct {
	OrderID          string  `json:"orderId"`
	PaymentSessionID string  `json:"paymentSessionId"`
	OrderStatus      string  `json:"orderStatus,omitempty"`
	OrderAmount      float64 `json:"orderAmount"`
	OrderCurrency    string  `json:"orderCurrency"`
}

type cashfreeOrderRequest struct {
	OrderID         string                  `json:"order_id"`
	OrderAmount     float64                 `json:"order_amount"`
	OrderCurrency   string                  `json:"order_currency"`
	OrderNote       string                  `json:"order_note,omitempty"`
	CustomerDetails cashfreeCustomerDetails `json:"customer_details"`
	OrderMeta       cashfreeOrderMeta       `json:"order_meta"`
}

type cashfreeCustomerDetails struct {
	CustomerID    string `json:"customer_id"`
	CustomerName  string `json:"customer_name,omitempty"`
	CustomerEmail string `json:"customer_email,omitempty"`
	CustomerPhone string `json:"customer_phone"`
}

type cashfreeOrderMeta struct {
	ReturnURL string `json:"return_url,omitempty"`
}

type cashfreeOrderResponse struct {
	OrderID          string  `json:"order_id"`
	OrderAmount      float64 `json:"order_amount"`
	OrderCurrency    string  `json:"order_currency"`
	OrderStatus      string  `json:"order_status"`
	PaymentSessionID string  `json:"payment_session_id"`
}

type cashfreeService struct {
	clientID     string
	clientSecret string
	baseURL      string
	apiVersion   string
	returnURL    string
	policy       AccessPolicy
	http         *http.Client
	now          func() time.Time
}

// NewPaymentService creates a new Cashfree service instance
func NewPaymentService(cfg config.CashfreeConfig, policy AccessPolicy) PaymentService {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &cashfreeService{
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		apiVersion:   cfg.APIVersion,
		returnURL:    cfg.ReturnURL,
		policy:       policy,
		http:         &http.Client{Timeout: timeout},
		now:          time.Now,
	}
}

// CreatePaymentOrder registers an INR order with the gateway. Order ids are
// CC_<unix millis>.
func (s *cashfreeService) CreatePaymentOrder(ctx context.Context, caller *models.Caller, input CreatePaymentInput) (*PaymentOrder, error) {
	if err := s.policy.Authorize(caller, PermPaymentCreate); err != nil {
		return nil, err
	}
	if input.Amount <= 0 {
		return nil, errs.NewValidationError(errs.CodeInvalidValue, "amount", "Invalid amount")
	}

	req := cashfreeOrderRequest{
		OrderID:       fmt.Sprintf("CC_%d", s.now().UnixMilli()),
		OrderAmount:   input.Amount,
		OrderCurrency: "INR",
		OrderNote:     "Campus canteen order",
		CustomerDetails: cashfreeCustomerDetails{
			CustomerID:    caller.UserID.String(),
			CustomerName:  firstNonEmpty(input.CustomerName, caller.Name),
			CustomerEmail: firstNonEmpty(input.CustomerEmail, caller.Email),
			CustomerPhone: firstNonEmpty(input.CustomerPhone, defaultCustomerPhone),
		},
		OrderMeta: cashfreeOrderMeta{ReturnURL: s.returnURL},
	}

	body, status, err := s.makeRequest(ctx, http.MethodPost, "/orders", req)
	if err != nil {
		return nil, errs.NewDependencyError("create payment order", err)
	}
	if status < 200 || status >= 300 {
		log.Errorf("Cashfree order creation returned %d: %s", status, string(body))
		return nil, errs.NewDependencyError("create payment order", fmt.Errorf("gateway returned status %d", status))
	}

	var resp cashfreeOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errs.NewDependencyError("decode payment order", err)
	}
	if resp.PaymentSessionID == "" {
		return nil, errs.NewDependencyError("create payment order", fmt.Errorf("gateway response has no payment session"))
	}

	return &PaymentOrder{
		OrderID:          firstNonEmpty(resp.OrderID, req.OrderID),
		PaymentSessionID: resp.PaymentSessionID,
		OrderStatus:      resp.OrderStatus,
		OrderAmount:      resp.OrderAmount,
		OrderCurrency:    firstNonEmpty(resp.OrderCurrency, req.OrderCurrency),
	}, nil
}

func (s *cashfreeService) makeRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, int, error) {
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("x-client-id", s.clientID)
	req.Header.Set("x-client-secret", s.clientSecret)
	req.Header.Set("x-api-version", s.apiVersion)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return data, resp.StatusCode, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
