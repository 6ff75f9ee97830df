package orders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
)

func inputFor(lines ...LineInput) Input {
	return Input{
		CustomerName: "Budi",
		CreatedAt:    "2025-03-10T09:41:27Z",
		Status:       "pending",
		Lines:        lines,
	}
}

func TestCreateOrder_DebitsStock(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	itemID := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	o, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: itemID, Qty: 4}))
	require.NoError(t, err)
	assert.NotZero(t, o.ID)
	require.Len(t, o.Lines, 1)
	assert.Equal(t, "2025-03-10 09:41", o.CreatedAt.Format(TimeLayout))

	assert.Equal(t, 6, itemStock(t, pool, itemID))
}

func TestCreateOrder_BoundaryQty(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	itemID := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	// qty == stock: sukses, stok jadi 0
	_, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: itemID, Qty: 10}))
	require.NoError(t, err)
	assert.Equal(t, 0, itemStock(t, pool, itemID))

	// qty = stock+1: gagal InsufficientStock, stok tidak berubah
	_, err = repo.CreateOrder(ctx, inputFor(LineInput{ItemID: itemID, Qty: 1}))
	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, itemID, se.ItemID)
	assert.Equal(t, 1, se.Required)
	assert.Equal(t, 0, se.Available)
	assert.Equal(t, 0, itemStock(t, pool, itemID))
}

func TestCreateOrder_AtomicOnLineFailure(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	a := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)
	b := seedItem(t, pool, "Kintamani", "Bali", 2, 90000)

	// line kedua gagal stok -> tidak boleh ada header, line, atau debit line pertama
	_, err := repo.CreateOrder(ctx, inputFor(
		LineInput{ItemID: a, Qty: 5},
		LineInput{ItemID: b, Qty: 3},
	))
	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)

	assert.Equal(t, 0, countRows(t, pool, "orders"))
	assert.Equal(t, 0, countRows(t, pool, "order_items"))
	assert.Equal(t, 10, itemStock(t, pool, a))
	assert.Equal(t, 2, itemStock(t, pool, b))
}

func TestCreateOrder_UnknownItemAborts(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	a := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	_, err := repo.CreateOrder(ctx, inputFor(
		LineInput{ItemID: a, Qty: 1},
		LineInput{ItemID: 9999, Qty: 1},
	))
	require.ErrorIs(t, err, catalog.ErrItemNotFound)

	assert.Equal(t, 0, countRows(t, pool, "orders"))
	assert.Equal(t, 10, itemStock(t, pool, a))
}

func TestCreateOrder_DuplicateItemLines(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	itemID := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	// item sama dua baris: masing-masing didebit sendiri
	o, err := repo.CreateOrder(ctx, inputFor(
		LineInput{ItemID: itemID, Qty: 3},
		LineInput{ItemID: itemID, Qty: 4},
	))
	require.NoError(t, err)
	assert.Len(t, o.Lines, 2)
	assert.Equal(t, 3, itemStock(t, pool, itemID))
	assert.Equal(t, 2, countRows(t, pool, "order_items"))
}

func TestReplaceOrder_RestoresThenReapplies(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	itemID := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	o, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: itemID, Qty: 10}))
	require.NoError(t, err)
	require.Equal(t, 0, itemStock(t, pool, itemID))

	// replace ke qty lebih kecil: delta dikembalikan
	_, err = repo.ReplaceOrder(ctx, o.ID, inputFor(LineInput{ItemID: itemID, Qty: 3}))
	require.NoError(t, err)
	assert.Equal(t, 7, itemStock(t, pool, itemID))

	// replace ke qty lebih besar dari stok+reserved: gagal, semuanya utuh
	_, err = repo.ReplaceOrder(ctx, o.ID, inputFor(LineInput{ItemID: itemID, Qty: 11}))
	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 10, se.Available) // stok sempat pulih ke 10 di dalam tx
	assert.Equal(t, 7, itemStock(t, pool, itemID))

	lines, err := repoLines(ctx, repo, o.ID)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Qty) // lines lama selamat dari replace yang gagal
}

func TestReplaceOrder_DisjointItems(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	a := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)
	b := seedItem(t, pool, "Kintamani", "Bali", 5, 90000)

	o, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: a, Qty: 6}))
	require.NoError(t, err)

	_, err = repo.ReplaceOrder(ctx, o.ID, inputFor(LineInput{ItemID: b, Qty: 2}))
	require.NoError(t, err)

	assert.Equal(t, 10, itemStock(t, pool, a)) // dikembalikan penuh
	assert.Equal(t, 3, itemStock(t, pool, b))
}

func TestReplaceOrder_NotFound(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}

	itemID := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	_, err := repo.ReplaceOrder(context.Background(), 424242,
		inputFor(LineInput{ItemID: itemID, Qty: 1}))
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDeleteOrder_CascadesButKeepsStock(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	itemID := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	o, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: itemID, Qty: 3}))
	require.NoError(t, err)
	require.Equal(t, 7, itemStock(t, pool, itemID))

	require.NoError(t, repo.DeleteOrder(ctx, o.ID))

	assert.Equal(t, 0, countRows(t, pool, "orders"))
	assert.Equal(t, 0, countRows(t, pool, "order_items"))
	// stok sengaja TIDAK dikembalikan saat delete; lihat catatan di DeleteOrder
	assert.Equal(t, 7, itemStock(t, pool, itemID))

	require.ErrorIs(t, repo.DeleteOrder(ctx, o.ID), ErrOrderNotFound)
}

// Skenario utuh: conservation stok lintas create/replace/delete.
func TestStockConservationScenario(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	a := seedItem(t, pool, "Gayo", "Aceh", 10, 85000)

	first, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: a, Qty: 10}))
	require.NoError(t, err)
	assert.Equal(t, 0, itemStock(t, pool, a))

	_, err = repo.CreateOrder(ctx, inputFor(LineInput{ItemID: a, Qty: 1}))
	var se *InsufficientStockError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 0, itemStock(t, pool, a))

	_, err = repo.ReplaceOrder(ctx, first.ID, inputFor(LineInput{ItemID: a, Qty: 3}))
	require.NoError(t, err)
	assert.Equal(t, 7, itemStock(t, pool, a))

	require.NoError(t, repo.DeleteOrder(ctx, first.ID))
	assert.Equal(t, 7, itemStock(t, pool, a)) // gap yang terdokumentasi
}

func TestListOrders_NewestFirstAndGrouped(t *testing.T) {
	pool := openTestPool(t)
	repo := &Repo{DB: pool}
	ctx := context.Background()

	a := seedItem(t, pool, "Gayo", "Aceh", 20, 85000)
	b := seedItem(t, pool, "Kintamani", "Bali", 20, 90000)

	o1, err := repo.CreateOrder(ctx, inputFor(LineInput{ItemID: a, Qty: 1}))
	require.NoError(t, err)
	o2, err := repo.CreateOrder(ctx, inputFor(
		LineInput{ItemID: a, Qty: 2},
		LineInput{ItemID: b, Qty: 3},
	))
	require.NoError(t, err)

	got, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, o2.ID, got[0].OrderID)
	require.Len(t, got[0].Items, 2)
	assert.Equal(t, "Gayo", got[0].Items[0].Name)
	assert.Equal(t, "Kintamani", got[0].Items[1].Name)
	assert.Equal(t, o1.ID, got[1].OrderID)
	assert.Equal(t, "2025-03-10 09:41", got[1].CreatedAt)

	// read idempoten: dua kali tanpa write hasilnya identik
	again, err := repo.ListOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

// repoLines baca lines order lewat transaksi baca biasa (helper test).
func repoLines(ctx context.Context, r *Repo, orderID int64) ([]OrderLine, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()
	return currentLines(ctx, tx, orderID)
}
