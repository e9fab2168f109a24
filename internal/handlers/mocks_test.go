package handlers

import (
	"context"

	"campuscanteen/internal/models"
	"campuscanteen/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) CreateOrder(ctx context.Context, caller *models.Caller, input services.CreateOrderInput) (*models.Order, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) ListMyOrders(ctx context.Context, caller *models.Caller) ([]*models.Order, error) {
	args := m.Called(ctx, caller)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) KitchenQueue(ctx context.Context, caller *models.Caller) ([]*models.Order, error) {
	args := m.Called(ctx, caller)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) KitchenHistory(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, caller, canteenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, caller *models.Caller, orderID uuid.UUID, input services.UpdateStatusInput) (*models.Order, error) {
	args := m.Called(ctx, caller, orderID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderService) TodayOrders(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, caller, canteenID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

type MockStatsReader struct {
	mock.Mock
}

func (m *MockStatsReader) TodayStats(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) (*models.DailyStats, error) {
	args := m.Called(ctx, caller, canteenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStats), args.Error(1)
}

type MockAuthService struct {
	mock.Mock
	services.AuthService
}

func (m *MockAuthService) Signup(ctx context.Context, input services.SignupInput) (*models.AuthResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, input services.LoginInput) (*models.AuthResponse, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AuthResponse), args.Error(1)
}

type MockMenuService struct {
	mock.Mock
	services.MenuService
}

func (m *MockMenuService) ListMenu(ctx context.Context, caller *models.Caller, canteenID uuid.UUID) ([]*models.MenuItem, error) {
	args := m.Called(ctx, caller, canteenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

func (m *MockMenuService) UploadImage(ctx context.Context, caller *models.Caller, id uuid.UUID, upload services.ImageUpload) (*services.MenuImage, error) {
	args := m.Called(ctx, caller, id, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.MenuImage), args.Error(1)
}

type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) CreatePaymentOrder(ctx context.Context, caller *models.Caller, input services.CreatePaymentInput) (*services.PaymentOrder, error) {
	args := m.Called(ctx, caller, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PaymentOrder), args.Error(1)
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error { return p.err }
