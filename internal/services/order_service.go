package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campuscanteen/internal/caching"
	"campuscanteen/internal/common"
	"campuscanteen/internal/models"
	"campuscanteen/internal/pkg/errs"
	"campuscanteen/internal/repositories"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
)

// OrderServiceInterface defines the order lifecycle operations
type OrderServiceInterface interface {
	CreateOrder(ctx context.Context, caller *models.Caller, input CreateOrderInput) (*models.Order, error)
	ListMyOrders(ctx context.Context, caller *models.Caller) ([]*models.Order, error)
	KitchenQueue(ctx context.Context, caller *models.Caller) ([]*models.Order, error)
	KitchenHistory(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, caller *models.Caller, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error)
	TodayOrders(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) ([]*models.Order, error)
}

// OrderLineInput is one raw cart entry. Any client price or name is ignored.
type OrderLineInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

type CreateOrderInput struct {
	CanteenID      uuid.UUID
	Items          []OrderLineInput
	Subtotal       *float64
	Tax            *float64
	Total          *float64
	PaymentMode    models.PaymentMode
	PaymentOrderID *string
}

type UpdateStatusInput struct {
	Status        models.OrderStatus
	EstimatedTime *time.Time
}

type orderService struct {
	orderRepo   repositories.OrderRepository
	canteenRepo repositories.CanteenRepository
	menuRepo    repositories.MenuItemRepository
	policy      AccessPolicy
	cacheSvc    caching.CacheService
	now         func() time.Time
}

// NewOrderService creates a new order service instance
func NewOrderService(orderRepo repositories.OrderRepository, canteenRepo repositories.CanteenRepository,
	menuRepo repositories.MenuItemRepository, policy AccessPolicy, cacheSvc caching.CacheService) OrderServiceInterface {
	return &orderService{
		orderRepo:   orderRepo,
		canteenRepo: canteenRepo,
		menuRepo:    menuRepo,
		policy:      policy,
		cacheSvc:    cacheSvc,
		now:         time.Now,
	}
}

// CreateOrder validates the cart against the canteen's menu, snapshots
// names and prices and persists the order atomically.
func (s *orderService) CreateOrder(ctx context.Context, caller *models.Caller, input CreateOrderInput) (*models.Order, error) {
	if err := s.policy.Authorize(caller, PermOrderCreate); err != nil {
		return nil, err
	}

	if input.CanteenID == uuid.Nil {
		return nil, errs.NewRequiredError("canteenId")
	}
	if err := s.requireActiveCanteen(ctx, input.CanteenID); err != nil {
		return nil, err
	}

	if len(input.Items) == 0 {
		return nil, errs.NewValidationError(errs.CodeEmptyCart, "items", "Cart is empty")
	}
	for _, in := range input.Items {
		if in.MenuItemID == uuid.Nil {
			return nil, errs.NewValidationError(errs.CodeInvalidMenuItem, "items", "Invalid menu item for selected canteen")
		}
		if in.Quantity < 1 {
			return nil, errs.NewValidationError(errs.CodeInvalidQuantity, "items", "Quantity must be at least 1")
		}
		if in.Quantity > MaxQuantity {
			return nil, errs.NewValidationError(errs.CodeInvalidQuantity, "items", "Quantity is too large")
		}
	}

	if err := ValidateAmounts(input.Subtotal, input.Tax, input.Total); err != nil {
		return nil, err
	}
	mode, err := ResolvePaymentMode(input.PaymentMode)
	if err != nil {
		return nil, err
	}

	lines, err := s.resolveLines(ctx, input.CanteenID, input.Items)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:             uuid.New(),
		CanteenID:      input.CanteenID,
		UserID:         caller.UserID,
		UserName:       caller.Name,
		Items:          lines,
		Subtotal:       RoundCents(*input.Subtotal),
		Tax:            RoundCents(*input.Tax),
		Total:          RoundCents(*input.Total),
		PaymentMode:    mode,
		PaymentStatus:  InitialPaymentStatus(mode),
		PaymentOrderID: input.PaymentOrderID,
		Status:         models.OrderStatusPending,
		Priority:       DerivePriority(caller.Role),
		Version:        1,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, errs.NewDependencyError("create order", err)
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.InvalidateDailyStats(ctx, common.DayKey(order.CreatedAt), order.CanteenID); err != nil {
			log.Warnf("Failed to invalidate daily stats cache for canteen %s: %v", order.CanteenID, err)
		}
	}

	return order, nil
}

func (s *orderService) requireActiveCanteen(ctx context.Context, canteenID uuid.UUID) error {
	canteen, err := s.canteenRepo.GetByID(ctx, canteenID)
	if errors.Is(err, repositories.ErrNotFound) {
		return errs.NewValidationError(errs.CodeInvalidCanteen, "canteenId", "Invalid canteen")
	}
	if err != nil {
		return errs.NewDependencyError("get canteen", err)
	}
	if !canteen.Active {
		return errs.NewValidationError(errs.CodeInvalidCanteen, "canteenId", "Invalid canteen")
	}
	return nil
}

// resolveLines looks every item up inside canteenID only, so an id that
// belongs to a different canteen is rejected like an unknown one.
func (s *orderService) resolveLines(ctx context.Context, canteenID uuid.UUID, inputs []OrderLineInput) ([]models.OrderLine, error) {
	ids := make([]uuid.UUID, 0, len(inputs))
	seen := make(map[uuid.UUID]bool, len(inputs))
	for _, in := range inputs {
		if !seen[in.MenuItemID] {
			seen[in.MenuItemID] = true
			ids = append(ids, in.MenuItemID)
		}
	}

	menu, err := s.menuRepo.GetByIDsAndCanteen(ctx, canteenID, ids)
	if err != nil {
		return nil, errs.NewDependencyError("resolve menu items", err)
	}

	lines := make([]models.OrderLine, 0, len(inputs))
	for _, in := range inputs {
		item, ok := menu[in.MenuItemID]
		if !ok {
			return nil, errs.NewValidationError(errs.CodeInvalidMenuItem, "items", "Invalid menu item for selected canteen")
		}
		if !item.Available {
			return nil, errs.NewValidationError(errs.CodeItemUnavailable, "items", fmt.Sprintf("%s is currently unavailable", item.Name))
		}
		lines = append(lines, models.OrderLine{
			MenuItemID: item.ID,
			Name:       item.Name,
			Price:      item.Price,
			Quantity:   in.Quantity,
			MenuItem:   item,
		})
	}
	return lines, nil
}

func (s *orderService) ListMyOrders(ctx context.Context, caller *models.Caller) ([]*models.Order, error) {
	if err := s.policy.Authorize(caller, PermOrderReadOwn); err != nil {
		return nil, err
	}
	orders, err := s.orderRepo.ListByUser(ctx, caller.UserID)
	if err != nil {
		return nil, errs.NewDependencyError("list user orders", err)
	}
	return orders, nil
}

// KitchenQueue returns the caller's canteen's unfinished orders, most
// urgent first. The canteen always comes from the caller, never the request.
func (s *orderService) KitchenQueue(ctx context.Context, caller *models.Caller) ([]*models.Order, error) {
	if err := s.policy.Authorize(caller, PermOrderQueue); err != nil {
		return nil, err
	}
	canteenID, err := s.policy.ScopeCanteen(caller, nil)
	if err != nil {
		return nil, err
	}

	orders, err := s.orderRepo.ListKitchenQueue(ctx, *canteenID)
	if err != nil {
		return nil, errs.NewDependencyError("list kitchen queue", err)
	}
	SortKitchenQueue(orders)
	return orders, nil
}

// KitchenHistory returns completed orders, most recently completed first.
// Kitchen callers see their own canteen; admins must name an existing one.
func (s *orderService) KitchenHistory(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) ([]*models.Order, error) {
	if err := s.policy.Authorize(caller, PermOrderHistory); err != nil {
		return nil, err
	}
	scoped, err := s.policy.ScopeCanteen(caller, canteenID)
	if err != nil {
		return nil, err
	}
	if scoped == nil {
		return nil, errs.NewRequiredError("canteenId")
	}

	if caller.Role != models.RoleKitchen {
		if _, err := s.canteenRepo.GetByID(ctx, *scoped); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, errs.NewNotFoundError("Canteen", *scoped)
			}
			return nil, errs.NewDependencyError("get canteen", err)
		}
	}

	orders, err := s.orderRepo.ListCompleted(ctx, *scoped)
	if err != nil {
		return nil, errs.NewDependencyError("list completed orders", err)
	}
	return orders, nil
}

// UpdateStatus moves an order one step through the state machine. The
// status, payment status and estimate are written together and only if no
// other transition landed first.
func (s *orderService) UpdateStatus(ctx context.Context, caller *models.Caller, orderID uuid.UUID, input UpdateStatusInput) (*models.Order, error) {
	if err := s.policy.Authorize(caller, PermOrderTransition); err != nil {
		return nil, err
	}
	if input.Status == "" {
		return nil, errs.NewRequiredError("status")
	}
	if !input.Status.IsValid() {
		return nil, errs.NewValidationError(errs.CodeInvalidStatus, "status", "Invalid status: "+string(input.Status))
	}

	order, err := s.orderRepo.GetByID(ctx, orderID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, errs.NewNotFoundError("Order", orderID)
	}
	if err != nil {
		return nil, errs.NewDependencyError("get order", err)
	}

	if err := s.policy.AuthorizeCanteen(caller, order.CanteenID); err != nil {
		return nil, err
	}
	if err := ValidateTransition(order.Status, input.Status); err != nil {
		return nil, err
	}

	expectedVersion := order.Version
	order.PaymentStatus = PaymentStatusAfter(order, input.Status)
	order.Status = input.Status
	if input.EstimatedTime != nil {
		order.EstimatedTime = input.EstimatedTime
	}

	if err := s.orderRepo.UpdateStatus(ctx, order, expectedVersion); err != nil {
		if errors.Is(err, repositories.ErrVersionConflict) {
			return nil, errs.NewConflictError("order", orderID, "Order was updated by another request, please retry")
		}
		return nil, errs.NewDependencyError("update order status", err)
	}

	return order, nil
}

// TodayOrders lists orders created since local midnight, newest first.
func (s *orderService) TodayOrders(ctx context.Context, caller *models.Caller, canteenID *uuid.UUID) ([]*models.Order, error) {
	if err := s.policy.Authorize(caller, PermOrderAdmin); err != nil {
		return nil, err
	}
	start, end := common.DayBounds(s.now())
	orders, err := s.orderRepo.ListCreatedBetween(ctx, start, end, canteenID)
	if err != nil {
		return nil, errs.NewDependencyError("list today's orders", err)
	}
	return orders, nil
}
