package repositories

import (
	"context"
	"fmt"

	"campuscanteen/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MenuItemRepository interface {
	Create(ctx context.Context, item *models.MenuItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error)
	GetByIDsAndCanteen(ctx context.Context, canteenID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.MenuItem, error)
	ListByCanteen(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool) ([]*models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type menuItemRepo struct {
	db Database
}

func NewMenuItemRepo(db Database) MenuItemRepository {
	return &menuItemRepo{db: db}
}

const menuItemColumns = `id, canteen_id, name, category, price, description, image, available, created_at, updated_at`

func (r *menuItemRepo) Create(ctx context.Context, item *models.MenuItem) error {
	query := `
		INSERT INTO menu_items (id, canteen_id, name, category, price, description, image, available, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, item.ID, item.CanteenID, item.Name, item.Category, item.Price,
		item.Description, item.Image, item.Available).Scan(&item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert menu item: %w", err)
	}
	return nil
}

func (r *menuItemRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	return scanMenuItem(r.db.QueryRow(ctx, query, id))
}

// GetByIDsAndCanteen resolves the given ids inside one canteen. Ids that do
// not exist, or belong to another canteen, are absent from the result.
func (r *menuItemRepo) GetByIDsAndCanteen(ctx context.Context, canteenID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE canteen_id = $1 AND id = ANY($2)`
	rows, err := r.db.Query(ctx, query, canteenID, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make(map[uuid.UUID]*models.MenuItem, len(ids))
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	return items, rows.Err()
}

func (r *menuItemRepo) ListByCanteen(ctx context.Context, canteenID uuid.UUID, includeUnavailable bool) ([]*models.MenuItem, error) {
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE canteen_id = $1`
	if !includeUnavailable {
		query += ` AND available = TRUE`
	}
	query += ` ORDER BY category ASC, created_at DESC`

	rows, err := r.db.Query(ctx, query, canteenID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []*models.MenuItem{}
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *menuItemRepo) Update(ctx context.Context, item *models.MenuItem) error {
	query := `
		UPDATE menu_items
		SET name = $1, category = $2, price = $3, description = $4, image = $5, available = $6, updated_at = NOW()
		WHERE id = $7
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, item.Name, item.Category, item.Price, item.Description,
		item.Image, item.Available, item.ID).Scan(&item.UpdatedAt)
	return notFound(err)
}

func (r *menuItemRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.Row) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	err := row.Scan(&item.ID, &item.CanteenID, &item.Name, &item.Category, &item.Price,
		&item.Description, &item.Image, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return item, nil
}
