package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/ariefcatur/go-coffee-orders.git/internal/kafka"
	"github.com/ariefcatur/go-coffee-orders.git/internal/metrics"
	"github.com/ariefcatur/go-coffee-orders.git/internal/orders"
	"github.com/ariefcatur/go-coffee-orders.git/internal/redisx"
)

type OrdersHandler struct {
	Repo            *orders.Repo
	Redis           *redis.Client
	ProducerCreated *kafkax.Producer
	ProducerUpdated *kafkax.Producer
	ProducerDeleted *kafkax.Producer
	Service         string
}

type OrderResponse struct {
	OrderID      int64              `json:"order_id"`
	CustomerName string             `json:"customer_name"`
	CreatedAt    string             `json:"created_at"`
	Status       string             `json:"status"`
	Items        []orders.LineInput `json:"order_items"`
}

func toOrderResponse(o orders.Order) OrderResponse {
	items := make([]orders.LineInput, 0, len(o.Lines))
	for _, ln := range o.Lines {
		items = append(items, orders.LineInput{ItemID: ln.ItemID, Qty: ln.Qty})
	}
	return OrderResponse{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		CreatedAt:    o.CreatedAt.Format(orders.TimeLayout),
		Status:       o.Status,
		Items:        items,
	}
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Get("/orders", h.listOrders)
	r.Post("/orders", h.createOrder)
	r.Put("/orders/{id}", h.replaceOrder)
	r.Delete("/orders/{id}", h.deleteOrder)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	// 1) coba cache
	if s, err := h.Redis.Get(ctx, redisx.KeyOrderList).Result(); err == nil && s != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(s))
		return
	}

	// 2) fallback DB
	out, err := h.Repo.ListOrders(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	b, err := json.Marshal(out)
	if err != nil {
		writeError(w, err)
		return
	}
	_ = h.Redis.Set(ctx, redisx.KeyOrderList, b, redisx.TTLListCache).Err()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b)
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var in orders.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.CreateOrder(ctx, in)
	if err != nil {
		h.countRejected(err)
		writeError(w, err)
		return
	}

	metrics.OrdersCreated.Inc()
	redisx.InvalidateOrderList(ctx, h.Redis)
	h.publishChanged(h.ProducerCreated, orders.EventOrderCreated, o, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusCreated, toOrderResponse(o))
}

func (h *OrdersHandler) replaceOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}
	var in orders.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	o, err := h.Repo.ReplaceOrder(ctx, orderID, in)
	if err != nil {
		h.countRejected(err)
		writeError(w, err)
		return
	}

	metrics.OrdersReplaced.Inc()
	redisx.InvalidateOrderList(ctx, h.Redis)
	h.publishChanged(h.ProducerUpdated, orders.EventOrderUpdated, o, r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusOK, toOrderResponse(o))
}

func (h *OrdersHandler) deleteOrder(w http.ResponseWriter, r *http.Request) {
	orderID, err := urlID(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order id"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := h.Repo.DeleteOrder(ctx, orderID); err != nil {
		writeError(w, err)
		return
	}

	metrics.OrdersDeleted.Inc()
	redisx.InvalidateOrderList(ctx, h.Redis)
	h.publish(h.ProducerDeleted, orders.EventOrderDeleted, orderID,
		kafkax.MustMarshal(orders.OrderDeletedPayload{OrderID: orderID}),
		r.Header.Get("X-Request-Id"))

	writeJSON(w, http.StatusOK, map[string]string{"message": "order deleted"})
}

func (h *OrdersHandler) countRejected(err error) {
	var se *orders.InsufficientStockError
	if errors.As(err, &se) {
		metrics.StockRejected.Inc()
	}
}

func (h *OrdersHandler) publishChanged(p *kafkax.Producer, eventType string, o orders.Order, trace string) {
	items := make([]orders.ItemQty, 0, len(o.Lines))
	for _, ln := range o.Lines {
		items = append(items, orders.ItemQty{ItemID: ln.ItemID, Qty: ln.Qty})
	}
	h.publish(p, eventType, o.ID, kafkax.MustMarshal(orders.OrderChangedPayload{
		OrderID:      o.ID,
		CustomerName: o.CustomerName,
		Status:       o.Status,
		Items:        items,
	}), trace)
}

func (h *OrdersHandler) publish(p *kafkax.Producer, eventType string, orderID int64, payload []byte, trace string) {
	if p == nil {
		return
	}
	ev := orders.Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      h.Service,
		TraceID:       trace,
		CorrelationID: string(orders.PartitionKey(orderID)),
		Payload:       payload,
	}
	p.Publish(orders.PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
