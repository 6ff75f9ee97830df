package orders

import "time"

// TimeLayout dipakai untuk render created_at keluar (menit, tanpa detik).
const TimeLayout = "2006-01-02 15:04"

type Order struct {
	ID           int64
	CustomerName string
	CreatedAt    time.Time
	Status       string
	Lines        []OrderLine
}

type OrderLine struct {
	ID      int64
	OrderID int64
	ItemID  int64
	Qty     int
}

// LineInput = satu baris pesanan dari client. Item yang sama boleh muncul
// lebih dari sekali; tiap baris didebit terpisah dari stok.
type LineInput struct {
	ItemID int64 `json:"item_id"`
	Qty    int   `json:"qty"`
}

// Input untuk create/replace order. CreatedAt masih raw ISO-8601 di sini,
// dinormalisasi oleh validate().
type Input struct {
	CustomerName string      `json:"customer_name"`
	CreatedAt    string      `json:"created_at"`
	Status       string      `json:"status"`
	Lines        []LineInput `json:"order_items"`
}
