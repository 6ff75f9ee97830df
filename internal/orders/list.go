package orders

import (
	"context"
	"time"
)

// Bentuk hasil listing: order + detail item per line, nested.
type AssembledOrder struct {
	OrderID      int64           `json:"order_id"`
	CustomerName string          `json:"customer_name"`
	CreatedAt    string          `json:"created_at"`
	Status       string          `json:"status"`
	Items        []AssembledItem `json:"items"`
}

type AssembledItem struct {
	ItemID int64  `json:"item_id"`
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Qty    int    `json:"qty"`
	Price  int    `json:"price"`
}

type listRow struct {
	orderID      int64
	customerName string
	createdAt    time.Time
	status       string
	itemID       int64
	name         string
	origin       string
	qty          int
	price        int
}

// ListOrders: read-only join orders+order_items+items, terbaru dulu.
func (r *Repo) ListOrders(ctx context.Context) ([]AssembledOrder, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT o.id, o.customer_name, o.created_at, o.status,
		       i.id, i.name, i.origin, oi.qty, i.price
		FROM orders o
		JOIN order_items oi ON o.id = oi.order_id
		JOIN items i ON oi.item_id = i.id
		ORDER BY o.id DESC, oi.id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var flat []listRow
	for rows.Next() {
		var lr listRow
		if err := rows.Scan(&lr.orderID, &lr.customerName, &lr.createdAt, &lr.status,
			&lr.itemID, &lr.name, &lr.origin, &lr.qty, &lr.price); err != nil {
			return nil, err
		}
		flat = append(flat, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return groupRows(flat), nil
}

// groupRows kumpulkan baris join per order_id; urutan order mengikuti urutan
// kemunculan baris (query sudah ORDER BY o.id DESC).
func groupRows(flat []listRow) []AssembledOrder {
	out := make([]AssembledOrder, 0)
	idx := map[int64]int{}
	for _, lr := range flat {
		i, ok := idx[lr.orderID]
		if !ok {
			out = append(out, AssembledOrder{
				OrderID:      lr.orderID,
				CustomerName: lr.customerName,
				CreatedAt:    lr.createdAt.UTC().Format(TimeLayout),
				Status:       lr.status,
			})
			i = len(out) - 1
			idx[lr.orderID] = i
		}
		out[i].Items = append(out[i].Items, AssembledItem{
			ItemID: lr.itemID,
			Name:   lr.name,
			Origin: lr.origin,
			Qty:    lr.qty,
			Price:  lr.price,
		})
	}
	return out
}
