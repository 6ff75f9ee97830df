package orders

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
)

type Repo struct{ DB *pgxpool.Pool }

// CreateOrder: header + semua lines + debit stok dalam satu transaksi.
// Gagal di line manapun -> rollback total, tidak ada sisa apa-apa.
func (r *Repo) CreateOrder(ctx context.Context, in Input) (Order, error) {
	createdAt, err := in.validate()
	if err != nil {
		return Order{}, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	orderID, err := insertHeader(ctx, tx, in.CustomerName, createdAt, in.Status)
	if err != nil {
		return Order{}, err
	}

	lines, err := applyLines(ctx, tx, orderID, in.Lines)
	if err != nil {
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return Order{
		ID:           orderID,
		CustomerName: in.CustomerName,
		CreatedAt:    createdAt,
		Status:       in.Status,
		Lines:        lines,
	}, nil
}

// ReplaceOrder: full replace, bukan patch. Stok lines lama dikembalikan dulu,
// baru lines baru di-apply terhadap stok yang sudah pulih — semuanya dalam
// transaksi yang sama, jadi gagal di tengah = stok & lines lama utuh.
func (r *Repo) ReplaceOrder(ctx context.Context, orderID int64, in Input) (Order, error) {
	createdAt, err := in.validate()
	if err != nil {
		return Order{}, err
	}

	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Order{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := orderExists(ctx, tx, orderID)
	if err != nil {
		return Order{}, err
	}
	if !ok {
		return Order{}, fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
	}

	old, err := currentLines(ctx, tx, orderID)
	if err != nil {
		return Order{}, err
	}
	for _, ln := range old {
		if err := creditStock(ctx, tx, ln.ItemID, ln.Qty); err != nil {
			return Order{}, err
		}
	}
	if err := deleteLines(ctx, tx, orderID); err != nil {
		return Order{}, err
	}

	if err := updateHeader(ctx, tx, orderID, in.CustomerName, createdAt, in.Status); err != nil {
		return Order{}, err
	}

	lines, err := applyLines(ctx, tx, orderID, in.Lines)
	if err != nil {
		return Order{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return Order{}, err
	}
	return Order{
		ID:           orderID,
		CustomerName: in.CustomerName,
		CreatedAt:    createdAt,
		Status:       in.Status,
		Lines:        lines,
	}, nil
}

// DeleteOrder: hapus order, lines ikut via ON DELETE CASCADE.
// Catatan: stok TIDAK dikembalikan di sini (beda dengan ReplaceOrder).
// Behavior lama yang sudah disepakati; jangan "dibetulkan" tanpa keputusan
// product — lihat DESIGN.md.
func (r *Repo) DeleteOrder(ctx context.Context, orderID int64) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := orderExists(ctx, tx, orderID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("order %d: %w", orderID, ErrOrderNotFound)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM orders WHERE id=$1`, orderID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// applyLines: validasi + cek stok + insert + debit per line, urut sesuai input.
func applyLines(ctx context.Context, tx pgx.Tx, orderID int64, lines []LineInput) ([]OrderLine, error) {
	out := make([]OrderLine, 0, len(lines))
	for _, ln := range lines {
		if ln.ItemID <= 0 {
			return nil, invalid("item_id", "is required")
		}
		if ln.Qty <= 0 {
			return nil, invalid("qty", "must be a positive integer")
		}

		stock, found, err := lockItemStock(ctx, tx, ln.ItemID)
		if err != nil {
			return nil, err
		}
		if !found {
			return nil, fmt.Errorf("item %d: %w", ln.ItemID, catalog.ErrItemNotFound)
		}
		if stock < ln.Qty {
			return nil, &InsufficientStockError{ItemID: ln.ItemID, Required: ln.Qty, Available: stock}
		}

		lineID, err := insertLine(ctx, tx, orderID, ln.ItemID, ln.Qty)
		if err != nil {
			return nil, err
		}

		applied, err := debitStock(ctx, tx, ln.ItemID, ln.Qty)
		if err != nil {
			return nil, err
		}
		if !applied {
			// row sudah ke-lock di atas, jadi praktis tidak kejadian; tetap
			// dianggap insufficient supaya transaksi batal, bukan skip diam-diam.
			return nil, &InsufficientStockError{ItemID: ln.ItemID, Required: ln.Qty, Available: stock}
		}

		out = append(out, OrderLine{ID: lineID, OrderID: orderID, ItemID: ln.ItemID, Qty: ln.Qty})
	}
	return out, nil
}
