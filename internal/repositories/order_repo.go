package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"campuscanteen/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error)
	ListKitchenQueue(ctx context.Context, canteenID uuid.UUID) ([]*models.Order, error)
	ListCompleted(ctx context.Context, canteenID uuid.UUID) ([]*models.Order, error)
	ListCreatedBetween(ctx context.Context, start, end time.Time, canteenID *uuid.UUID) ([]*models.Order, error)
	UpdateStatus(ctx context.Context, order *models.Order, expectedVersion int) error
	DailyStats(ctx context.Context, start, end time.Time, canteenID *uuid.UUID) (*models.DailyStats, error)
}

type orderRepo struct {
	db Database
}

func NewOrderRepo(db Database) OrderRepository {
	return &orderRepo{db: db}
}

const orderColumns = `id, canteen_id, user_id, user_name, subtotal, tax, total, payment_mode, payment_status,
	payment_order_id, status, priority, estimated_time, version, created_at, updated_at`

// Create writes the order and its lines in a single transaction.
func (r *orderRepo) Create(ctx context.Context, order *models.Order) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO orders (id, canteen_id, user_id, user_name, subtotal, tax, total, payment_mode, payment_status,
			payment_order_id, status, priority, estimated_time, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err = tx.QueryRow(ctx, query, order.ID, order.CanteenID, order.UserID, order.UserName, order.Subtotal,
		order.Tax, order.Total, order.PaymentMode, order.PaymentStatus, order.PaymentOrderID, order.Status,
		order.Priority, order.EstimatedTime, order.Version).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	lineQuery := `
		INSERT INTO order_items (order_id, position, menu_item_id, name, price, quantity)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	for i, line := range order.Items {
		if _, err := tx.Exec(ctx, lineQuery, order.ID, i, line.MenuItemID, line.Name, line.Price, line.Quantity); err != nil {
			return fmt.Errorf("failed to insert order item %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit order: %w", err)
	}
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`
	order, err := scanOrder(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	if err := r.attachLines(ctx, []*models.Order{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE user_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, userID)
}

// ListKitchenQueue returns the unfinished orders of a canteen, most urgent
// first: high priority before normal, then oldest first.
func (r *orderRepo) ListKitchenQueue(ctx context.Context, canteenID uuid.UUID) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE canteen_id = $1 AND status = ANY($2)
		ORDER BY CASE priority WHEN 'high' THEN 1 ELSE 0 END DESC, created_at ASC, updated_at ASC
	`
	statuses := make([]string, 0, 3)
	for _, s := range models.ActiveOrderStatuses() {
		statuses = append(statuses, string(s))
	}
	return r.list(ctx, query, canteenID, statuses)
}

func (r *orderRepo) ListCompleted(ctx context.Context, canteenID uuid.UUID) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE canteen_id = $1 AND status = $2
		ORDER BY updated_at DESC
	`
	return r.list(ctx, query, canteenID, models.OrderStatusCompleted)
}

func (r *orderRepo) ListCreatedBetween(ctx context.Context, start, end time.Time, canteenID *uuid.UUID) ([]*models.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND ($3::uuid IS NULL OR canteen_id = $3)
		ORDER BY created_at DESC
	`
	return r.list(ctx, query, start, end, canteenID)
}

// UpdateStatus persists status, payment status and estimated time if the row
// still carries expectedVersion. On success order.Version and order.UpdatedAt
// are refreshed.
func (r *orderRepo) UpdateStatus(ctx context.Context, order *models.Order, expectedVersion int) error {
	query := `
		UPDATE orders
		SET status = $1, payment_status = $2, estimated_time = $3, version = version + 1, updated_at = NOW()
		WHERE id = $4 AND version = $5
		RETURNING version, updated_at
	`
	err := r.db.QueryRow(ctx, query, order.Status, order.PaymentStatus, order.EstimatedTime, order.ID, expectedVersion).
		Scan(&order.Version, &order.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrVersionConflict
	}
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	return nil
}

// DailyStats counts the orders created in [start, end) and sums their totals.
func (r *orderRepo) DailyStats(ctx context.Context, start, end time.Time, canteenID *uuid.UUID) (*models.DailyStats, error) {
	query := `
		SELECT COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE created_at >= $1 AND created_at < $2 AND ($3::uuid IS NULL OR canteen_id = $3)
	`
	stats := &models.DailyStats{}
	if err := r.db.QueryRow(ctx, query, start, end, canteenID).Scan(&stats.TodayOrders, &stats.TotalRevenue); err != nil {
		return nil, fmt.Errorf("failed to aggregate daily stats: %w", err)
	}
	return stats, nil
}

func (r *orderRepo) list(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []*models.Order{}
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLines(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// attachLines loads the lines of all given orders in one query and joins
// each line to its menu item when the item still exists.
func (r *orderRepo) attachLines(ctx context.Context, orders []*models.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	byID := make(map[uuid.UUID]*models.Order, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		byID[o.ID] = o
		o.Items = []models.OrderLine{}
	}

	query := `
		SELECT oi.order_id, oi.menu_item_id, oi.name, oi.price, oi.quantity,
			mi.id, mi.canteen_id, mi.name, mi.category, mi.price, mi.description, mi.image, mi.available,
			mi.created_at, mi.updated_at
		FROM order_items oi
		LEFT JOIN menu_items mi ON mi.id = oi.menu_item_id
		WHERE oi.order_id = ANY($1)
		ORDER BY oi.order_id, oi.position
	`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID     uuid.UUID
			line        models.OrderLine
			miID        *uuid.UUID
			miCanteenID *uuid.UUID
			miName      *string
			miCategory  *models.Category
			miPrice     *float64
			miDesc      *string
			miImage     *string
			miAvailable *bool
			miCreatedAt *time.Time
			miUpdatedAt *time.Time
		)
		if err := rows.Scan(&orderID, &line.MenuItemID, &line.Name, &line.Price, &line.Quantity,
			&miID, &miCanteenID, &miName, &miCategory, &miPrice, &miDesc, &miImage, &miAvailable,
			&miCreatedAt, &miUpdatedAt); err != nil {
			return err
		}
		if miID != nil {
			line.MenuItem = &models.MenuItem{
				ID:          *miID,
				CanteenID:   deref(miCanteenID),
				Name:        deref(miName),
				Category:    deref(miCategory),
				Price:       deref(miPrice),
				Description: deref(miDesc),
				Image:       deref(miImage),
				Available:   deref(miAvailable),
				CreatedAt:   deref(miCreatedAt),
				UpdatedAt:   deref(miUpdatedAt),
			}
		}
		if o, ok := byID[orderID]; ok {
			o.Items = append(o.Items, line)
		}
	}
	return rows.Err()
}

func scanOrder(row pgx.Row) (*models.Order, error) {
	o := &models.Order{}
	err := row.Scan(&o.ID, &o.CanteenID, &o.UserID, &o.UserName, &o.Subtotal, &o.Tax, &o.Total,
		&o.PaymentMode, &o.PaymentStatus, &o.PaymentOrderID, &o.Status, &o.Priority, &o.EstimatedTime,
		&o.Version, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
