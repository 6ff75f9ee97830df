package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// Helper store level baris/header; semua jalan di atas tx yang sama supaya
// satu mutation order = satu unit of work.

func insertHeader(ctx context.Context, tx pgx.Tx, customerName string, createdAt time.Time, status string) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO orders (customer_name, created_at, status) VALUES ($1,$2,$3) RETURNING id`,
		customerName, createdAt, status).Scan(&id)
	return id, err
}

func updateHeader(ctx context.Context, tx pgx.Tx, orderID int64, customerName string, createdAt time.Time, status string) error {
	_, err := tx.Exec(ctx,
		`UPDATE orders SET customer_name=$1, created_at=$2, status=$3 WHERE id=$4`,
		customerName, createdAt, status, orderID)
	return err
}

func orderExists(ctx context.Context, tx pgx.Tx, orderID int64) (bool, error) {
	var id int64
	err := tx.QueryRow(ctx, `SELECT id FROM orders WHERE id=$1`, orderID).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

func currentLines(ctx context.Context, tx pgx.Tx, orderID int64) ([]OrderLine, error) {
	rows, err := tx.Query(ctx,
		`SELECT id, item_id, qty FROM order_items WHERE order_id=$1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderLine
	for rows.Next() {
		ln := OrderLine{OrderID: orderID}
		if err := rows.Scan(&ln.ID, &ln.ItemID, &ln.Qty); err != nil {
			return nil, err
		}
		out = append(out, ln)
	}
	return out, rows.Err()
}

func deleteLines(ctx context.Context, tx pgx.Tx, orderID int64) error {
	_, err := tx.Exec(ctx, `DELETE FROM order_items WHERE order_id=$1`, orderID)
	return err
}

func insertLine(ctx context.Context, tx pgx.Tx, orderID, itemID int64, qty int) (int64, error) {
	var id int64
	err := tx.QueryRow(ctx,
		`INSERT INTO order_items (order_id, item_id, qty) VALUES ($1,$2,$3) RETURNING id`,
		orderID, itemID, qty).Scan(&id)
	return id, err
}

// creditStock: kembalikan stok tanpa guard (stok bertambah, tidak mungkin negatif).
func creditStock(ctx context.Context, tx pgx.Tx, itemID int64, qty int) error {
	_, err := tx.Exec(ctx, `UPDATE items SET stock = stock + $2 WHERE id=$1`, itemID, qty)
	return err
}

// lockItemStock: baca stok sambil lock row-nya (FOR UPDATE) supaya tidak ada
// decrement lain nyelip antara cek dan write.
func lockItemStock(ctx context.Context, tx pgx.Tx, itemID int64) (int, bool, error) {
	var stock int
	err := tx.QueryRow(ctx, `SELECT stock FROM items WHERE id=$1 FOR UPDATE`, itemID).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	return stock, err == nil, err
}

// debitStock dengan guard stock >= qty; false = guard gagal, tidak ada write.
func debitStock(ctx context.Context, tx pgx.Tx, itemID int64, qty int) (bool, error) {
	ct, err := tx.Exec(ctx,
		`UPDATE items SET stock = stock - $2 WHERE id=$1 AND stock >= $2`, itemID, qty)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
