package catalog

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) GetItem(ctx context.Context, id int64) (Item, error) {
	var it Item
	err := r.DB.QueryRow(ctx,
		`SELECT id, name, origin, stock, price FROM items WHERE id=$1`, id).
		Scan(&it.ID, &it.Name, &it.Origin, &it.Stock, &it.Price)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	return it, err
}

func (r *Repo) ListItems(ctx context.Context) ([]Item, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, name, origin, stock, price FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Origin, &it.Stock, &it.Price); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *Repo) CreateItem(ctx context.Context, it Item) (int64, error) {
	var id int64
	err := r.DB.QueryRow(ctx,
		`INSERT INTO items (name, origin, stock, price) VALUES ($1,$2,$3,$4) RETURNING id`,
		it.Name, it.Origin, it.Stock, it.Price).Scan(&id)
	return id, err
}

func (r *Repo) UpdateItem(ctx context.Context, it Item) error {
	ct, err := r.DB.Exec(ctx,
		`UPDATE items SET name=$1, origin=$2, stock=$3, price=$4 WHERE id=$5`,
		it.Name, it.Origin, it.Stock, it.Price, it.ID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

func (r *Repo) DeleteItem(ctx context.Context, id int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// AdjustStock: stock += delta. Kalau guarded, hanya apply jika hasilnya >= 0;
// return false artinya guard gagal (stok kurang) dan tidak ada perubahan.
func (r *Repo) AdjustStock(ctx context.Context, id int64, delta int, guarded bool) (bool, error) {
	if _, err := r.GetItem(ctx, id); err != nil {
		return false, err
	}

	q := `UPDATE items SET stock = stock + $2 WHERE id=$1`
	if guarded {
		q += ` AND stock + $2 >= 0`
	}
	ct, err := r.DB.Exec(ctx, q, id, delta)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() == 1, nil
}
