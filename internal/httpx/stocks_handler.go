package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
)

type StocksHandler struct {
	Repo *catalog.Repo
}

type ItemRequest struct {
	Name   string `json:"name"`
	Origin string `json:"origin"`
	Stock  int    `json:"stock"`
	Price  int    `json:"price"`
}

func (req ItemRequest) validate() string {
	switch {
	case req.Name == "":
		return "name is required"
	case req.Origin == "":
		return "origin is required"
	case req.Stock < 0:
		return "stock must not be negative"
	case req.Price < 0:
		return "price must not be negative"
	}
	return ""
}

type AdjustStockRequest struct {
	Delta   int  `json:"delta"`
	Guarded bool `json:"guarded"`
}

type AdjustStockResponse struct {
	Applied bool         `json:"applied"`
	Item    catalog.Item `json:"item"`
}

func (h *StocksHandler) Register(r *chi.Mux) {
	r.Get("/stocks", h.listItems)
	r.Post("/stocks", h.createItem)
	r.Get("/stocks/{id}", h.getItem)
	r.Put("/stocks/{id}", h.updateItem)
	r.Delete("/stocks/{id}", h.deleteItem)
	r.Post("/stocks/{id}/adjust", h.adjustStock)
}

func (h *StocksHandler) listItems(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	items, err := h.Repo.ListItems(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *StocksHandler) getItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it, err := h.Repo.GetItem(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *StocksHandler) createItem(w http.ResponseWriter, r *http.Request) {
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it := catalog.Item{Name: req.Name, Origin: req.Origin, Stock: req.Stock, Price: req.Price}
	id, err := h.Repo.CreateItem(ctx, it)
	if err != nil {
		writeError(w, err)
		return
	}
	it.ID = id
	writeJSON(w, http.StatusCreated, it)
}

func (h *StocksHandler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	var req ItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if msg := req.validate(); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	it := catalog.Item{ID: id, Name: req.Name, Origin: req.Origin, Stock: req.Stock, Price: req.Price}
	if err := h.Repo.UpdateItem(ctx, it); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *StocksHandler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.Repo.DeleteItem(ctx, id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "item deleted"})
}

func (h *StocksHandler) adjustStock(w http.ResponseWriter, r *http.Request) {
	id, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item id"})
		return
	}
	var req AdjustStockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	applied, err := h.Repo.AdjustStock(ctx, id, req.Delta, req.Guarded)
	if err != nil {
		writeError(w, err)
		return
	}
	it, err := h.Repo.GetItem(ctx, id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, AdjustStockResponse{Applied: applied, Item: it})
}
