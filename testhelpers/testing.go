package testhelpers

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"campuscanteen/internal/models"
	"campuscanteen/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL when it is set and otherwise
// starts a throwaway postgres container. The schema is applied either way.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	ctx := context.Background()

	var (
		connString string
		container  *postgres.PostgresContainer
	)

	if connString = os.Getenv("TEST_DATABASE_URL"); connString == "" {
		var err error
		container, err = postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("campuscanteen_test"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(60*time.Second),
			),
		)
		if err != nil {
			t.Fatalf("Failed to start postgres container: %v", err)
		}

		connString, err = container.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = container.Terminate(ctx)
			t.Fatalf("Failed to get connection string: %v", err)
		}
	}

	pool, err := database.NewPool(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to apply schema: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			if container != nil {
				return container.Terminate(context.Background())
			}
			return nil
		},
	}
}

// Truncate empties every table between tests.
func (db *TestDB) Truncate(t *testing.T) {
	t.Helper()
	_, err := db.Pool.Exec(context.Background(), `TRUNCATE order_items, orders, menu_items, users, canteens CASCADE`)
	if err != nil {
		t.Fatalf("Failed to truncate tables: %v", err)
	}
}

// SetupTestCanteen creates an active canteen
func SetupTestCanteen(t *testing.T, db *TestDB, name string) *models.Canteen {
	t.Helper()

	canteen := &models.Canteen{
		ID:     uuid.New(),
		Name:   name,
		Code:   strings.ToUpper(strings.ReplaceAll(name, " ", "_")),
		Active: true,
	}
	query := `INSERT INTO canteens (id, name, code, active) VALUES ($1, $2, $3, $4)`
	if _, err := db.Pool.Exec(context.Background(), query, canteen.ID, canteen.Name, canteen.Code, canteen.Active); err != nil {
		t.Fatalf("Failed to create test canteen: %v", err)
	}
	return canteen
}

// SetupTestUser creates a user; canteenID must be set for kitchen users only.
func SetupTestUser(t *testing.T, db *TestDB, role models.Role, canteenID *uuid.UUID) *models.User {
	t.Helper()

	id := uuid.New()
	user := &models.User{
		ID:           id,
		Name:         fmt.Sprintf("Test %s", role),
		Email:        fmt.Sprintf("%s-%s@campus.test", role, id.String()[:8]),
		PasswordHash: "not-a-real-hash",
		Role:         role,
		CanteenID:    canteenID,
	}
	query := `INSERT INTO users (id, name, email, password_hash, role, canteen_id) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := db.Pool.Exec(context.Background(), query, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CanteenID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// SetupTestMenuItem creates an available menu item
func SetupTestMenuItem(t *testing.T, db *TestDB, canteenID uuid.UUID, name string, category models.Category, price float64) *models.MenuItem {
	t.Helper()

	item := &models.MenuItem{
		ID:        uuid.New(),
		CanteenID: canteenID,
		Name:      name,
		Category:  category,
		Price:     price,
		Available: true,
	}
	query := `INSERT INTO menu_items (id, canteen_id, name, category, price, available) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := db.Pool.Exec(context.Background(), query, item.ID, item.CanteenID, item.Name, item.Category, item.Price, item.Available)
	if err != nil {
		t.Fatalf("Failed to create test menu item: %v", err)
	}
	return item
}
