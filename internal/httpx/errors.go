package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
	"github.com/ariefcatur/go-coffee-orders.git/internal/orders"
	"github.com/ariefcatur/go-coffee-orders.git/internal/users"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor memetakan taksonomi error domain ke status HTTP.
// 400 validasi, 404 resource hilang, 409 konflik (stok kurang / username bentrok).
func statusFor(err error) int {
	var ve *orders.ValidationError
	var se *orders.InsufficientStockError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.As(err, &se):
		return http.StatusConflict
	case errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, catalog.ErrItemNotFound),
		errors.Is(err, users.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, users.ErrUsernameTaken):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

func urlID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
