package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"feastly/internal/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, connects a pool, and
// applies the application schema.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	// Create PostgreSQL container
	postgresContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	// Get connection string
	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	// Create connection pool
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	// Apply the application schema
	if err := database.Migrate(ctx, pool, zerolog.Nop()); err != nil {
		t.Fatalf("failed to apply schema: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// Fixture holds the ids of the seeded reference rows.
type Fixture struct {
	AdminID         uuid.UUID
	MemberID        uuid.UUID
	RestaurantID    uuid.UUID
	ButterChickenID uuid.UUID
	MangoLassiID    uuid.UUID
}

// SeedCatalog inserts a restaurant with two menu items and two users.
func SeedCatalog(t *testing.T, pool *pgxpool.Pool) Fixture {
	t.Helper()

	ctx := context.Background()

	fx := Fixture{
		AdminID:         uuid.New(),
		MemberID:        uuid.New(),
		RestaurantID:    uuid.New(),
		ButterChickenID: uuid.New(),
		MangoLassiID:    uuid.New(),
	}

	users := []struct {
		id      uuid.UUID
		name    string
		email   string
		role    string
		country string
	}{
		{fx.AdminID, "Asha Patel", "asha@test.dev", "ADMIN", "INDIA"},
		{fx.MemberID, "Priya Nair", "priya@test.dev", "MEMBER", "INDIA"},
	}

	for _, u := range users {
		_, err := pool.Exec(ctx,
			"INSERT INTO users (id, name, email, role, country) VALUES ($1, $2, $3, $4, $5)",
			u.id, u.name, u.email, u.role, u.country,
		)
		if err != nil {
			t.Fatalf("failed to seed user %s: %v", u.email, err)
		}
	}

	_, err := pool.Exec(ctx,
		"INSERT INTO restaurants (id, name, country) VALUES ($1, $2, $3)",
		fx.RestaurantID, "Spice Garden", "INDIA",
	)
	if err != nil {
		t.Fatalf("failed to seed restaurant: %v", err)
	}

	items := []struct {
		id    uuid.UUID
		name  string
		price decimal.Decimal
	}{
		{fx.ButterChickenID, "Butter Chicken", decimal.RequireFromString("12.99")},
		{fx.MangoLassiID, "Mango Lassi", decimal.RequireFromString("3.99")},
	}

	for _, item := range items {
		_, err := pool.Exec(ctx,
			"INSERT INTO menu_items (id, restaurant_id, name, description, price) VALUES ($1, $2, $3, '', $4)",
			item.id, fx.RestaurantID, item.name, item.price,
		)
		if err != nil {
			t.Fatalf("failed to seed menu item %s: %v", item.name, err)
		}
	}

	return fx
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"payments", "payment_methods", "order_items", "orders", "menu_items", "restaurants", "users"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
