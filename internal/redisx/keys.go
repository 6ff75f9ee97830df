package redisx

import "time"

const (
	// Cache hasil listing order (JSON array siap kirim). Di-invalidate tiap
	// mutation order supaya GET /orders tetap konsisten.
	KeyOrderList = "cache:orders:list"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLListCache = 5 * time.Minute
	TTLDedup     = 48 * time.Hour
)
