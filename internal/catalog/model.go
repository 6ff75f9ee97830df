package catalog

import "errors"

var ErrItemNotFound = errors.New("item not found")

type Item struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Stock  int    `json:"stock"`
	Price  int    `json:"price"` // satuan terkecil (rupiah), bukan float
}
