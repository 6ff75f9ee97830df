package catalog

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-coffee-orders.git/internal/postgres"
)

func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("COFFEE_POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("COFFEE_POSTGRES_TEST_DSN not set; skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := postgres.Connect(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	if err := postgres.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := pool.Exec(ctx,
		`TRUNCATE order_items, orders, items, users RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func TestItemCRUD(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	id, err := repo.CreateItem(ctx, Item{Name: "Gayo", Origin: "Aceh", Stock: 10, Price: 85000})
	require.NoError(t, err)

	it, err := repo.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Item{ID: id, Name: "Gayo", Origin: "Aceh", Stock: 10, Price: 85000}, it)

	it.Origin = "Aceh Tengah"
	it.Price = 88000
	require.NoError(t, repo.UpdateItem(ctx, it))

	all, err := repo.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Aceh Tengah", all[0].Origin)

	require.NoError(t, repo.DeleteItem(ctx, id))
	_, err = repo.GetItem(ctx, id)
	require.ErrorIs(t, err, ErrItemNotFound)
	require.ErrorIs(t, repo.UpdateItem(ctx, it), ErrItemNotFound)
	require.ErrorIs(t, repo.DeleteItem(ctx, id), ErrItemNotFound)
}

func TestAdjustStock(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	id, err := repo.CreateItem(ctx, Item{Name: "Gayo", Origin: "Aceh", Stock: 5, Price: 85000})
	require.NoError(t, err)

	// increment tanpa guard
	applied, err := repo.AdjustStock(ctx, id, 3, false)
	require.NoError(t, err)
	assert.True(t, applied)

	// decrement dengan guard, cukup
	applied, err = repo.AdjustStock(ctx, id, -8, true)
	require.NoError(t, err)
	assert.True(t, applied)

	it, err := repo.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, it.Stock)

	// guard gagal: tidak apply, stok tetap
	applied, err = repo.AdjustStock(ctx, id, -1, true)
	require.NoError(t, err)
	assert.False(t, applied)

	it, err = repo.GetItem(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 0, it.Stock)

	_, err = repo.AdjustStock(ctx, 9999, 1, false)
	require.ErrorIs(t, err, ErrItemNotFound)
}
