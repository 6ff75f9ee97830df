package orders

import "time"

// Layout yang diterima untuk created_at. time.RFC3339 meng-cover suffix Z
// maupun offset eksplisit; sisanya input tanpa zona (dianggap UTC).
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// normalizeCreatedAt: parse ISO-8601 lalu normalisasi ke UTC, presisi menit.
func normalizeCreatedAt(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range createdAtLayouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return t.UTC().Truncate(time.Minute), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// validate cek field header sebelum transaksi dibuka; cek per-line terjadi
// di dalam transaksi (applyLines).
func (in Input) validate() (time.Time, error) {
	if in.CustomerName == "" {
		return time.Time{}, invalid("customer_name", "is required")
	}
	if in.Status == "" {
		return time.Time{}, invalid("status", "is required")
	}
	if len(in.Lines) == 0 {
		return time.Time{}, invalid("order_items", "must not be empty")
	}
	createdAt, err := normalizeCreatedAt(in.CreatedAt)
	if err != nil {
		return time.Time{}, invalid("created_at", "is not a valid ISO-8601 timestamp")
	}
	return createdAt, nil
}
