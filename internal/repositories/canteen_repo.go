package repositories

import (
	"context"
	"errors"
	"fmt"

	"campuscanteen/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CanteenRepository interface {
	Create(ctx context.Context, canteen *models.Canteen) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Canteen, error)
	GetByCode(ctx context.Context, code string) (*models.Canteen, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Canteen, error)
}

type canteenRepo struct {
	db Database
}

func NewCanteenRepo(db Database) CanteenRepository {
	return &canteenRepo{db: db}
}

const canteenColumns = `id, name, code, active, created_at, updated_at`

func (r *canteenRepo) Create(ctx context.Context, canteen *models.Canteen) error {
	query := `
		INSERT INTO canteens (id, name, code, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (code) DO NOTHING
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, canteen.ID, canteen.Name, canteen.Code, canteen.Active).
		Scan(&canteen.CreatedAt, &canteen.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to insert canteen: %w", err)
	}
	return nil
}

func (r *canteenRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Canteen, error) {
	query := `SELECT ` + canteenColumns + ` FROM canteens WHERE id = $1`
	return scanCanteen(r.db.QueryRow(ctx, query, id))
}

func (r *canteenRepo) GetByCode(ctx context.Context, code string) (*models.Canteen, error) {
	query := `SELECT ` + canteenColumns + ` FROM canteens WHERE code = $1`
	return scanCanteen(r.db.QueryRow(ctx, query, code))
}

func (r *canteenRepo) List(ctx context.Context, activeOnly bool) ([]*models.Canteen, error) {
	query := `SELECT ` + canteenColumns + ` FROM canteens`
	if activeOnly {
		query += ` WHERE active = TRUE`
	}
	query += ` ORDER BY name ASC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	canteens := []*models.Canteen{}
	for rows.Next() {
		canteen, err := scanCanteen(rows)
		if err != nil {
			return nil, err
		}
		canteens = append(canteens, canteen)
	}
	return canteens, rows.Err()
}

func scanCanteen(row pgx.Row) (*models.Canteen, error) {
	canteen := &models.Canteen{}
	err := row.Scan(&canteen.ID, &canteen.Name, &canteen.Code, &canteen.Active, &canteen.CreatedAt, &canteen.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return canteen, nil
}
