package services

import (
	"context"
	"io"
	"time"

	"campuscanteen/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock repositories and services
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListKitchenQueue(ctx context.Context, canteenID uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, canteenID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListCompleted(ctx context.Context, canteenID uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, canteenID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) ListCreatedBetween(ctx context.Context, start, end time.Time, canteenID *uuid.UUID) ([]*models.Order, error) {
	args := m.Called(ctx, start, end, canteenID)
	return args.Get(0).([]*models.Order), args.Error(1)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, order *models.Order, expectedVersion int) error {
	args := m.Called(ctx, order, expectedVersion)
	return args.Error(0)
}

func (m *MockOrderRepository) DailyStats(ctx context.Context, start, end time.Time, canteenID *uuid.UUID) (*models.DailyStats, error) {
	args := m.Called(ctx, start, end, canteenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStats), args.Error(1)
}

type MockCanteenRepository struct {
	mock.Mock
}

func (m *MockCanteenRepository) Create(ctx context.Context, canteen *models.Canteen) error {
	args := m.Called(ctx, canteen)
	return args.Error(0)
}

func (m *MockCanteenRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Canteen), args.Error(1)
}

func (m *MockCanteenRepository) GetByCode(ctx context.Context, code string) (*models.Canteen, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Canteen), args.Error(1)
}

func (m *MockCanteenRepository) List(ctx context.Context, activeOnly bool) ([]*models.Canteen, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]*models.Canteen), args.Error(1)
}

type MockMenuItemRepository struct {
	mock.Mock
}

func (m *MockMenuItemRepository) Create(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) GetByIDsAndCanteen(ctx context.Context, canteenID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.MenuItem, error) {
	args := m.Called(ctx, canteenID, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) ListByCanteen(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool) ([]*models.MenuItem, error) {
	args := m.Called(ctx, canteenID, includeUnavailable)
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

func (m *MockMenuItemRepository) Update(ctx context.Context, item *models.MenuItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockMenuItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetMenu(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool) ([]*models.MenuItem, error) {
	args := m.Called(ctx, canteenID, includeUnavailable)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.MenuItem), args.Error(1)
}

func (m *MockCacheService) SetMenu(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool, items []*models.MenuItem, ttl time.Duration) error {
	args := m.Called(ctx, canteenID, includeUnavailable, items, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateMenu(ctx context.Context, canteenID uuid.UUID) error {
	args := m.Called(ctx, canteenID)
	return args.Error(0)
}

func (m *MockCacheService) GetCanteens(ctx context.Context, activeOnly bool) ([]*models.Canteen, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Canteen), args.Error(1)
}

func (m *MockCacheService) SetCanteens(ctx context.Context, activeOnly bool, canteens []*models.Canteen, ttl time.Duration) error {
	args := m.Called(ctx, activeOnly, canteens, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateCanteens(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) GetDailyStats(ctx context.Context, day string, canteenID *uuid.UUID) (*models.DailyStats, error) {
	args := m.Called(ctx, day, canteenID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DailyStats), args.Error(1)
}

func (m *MockCacheService) SetDailyStats(ctx context.Context, day string, canteenID *uuid.UUID, stats *models.DailyStats, ttl time.Duration) error {
	args := m.Called(ctx, day, canteenID, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateDailyStats(ctx context.Context, day string, canteenID uuid.UUID) error {
	args := m.Called(ctx, day, canteenID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockCacheService) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, body, size, contentType)
	return args.Error(0)
}

func (m *MockImageStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockImageStore) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockImageStore) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockImageStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
