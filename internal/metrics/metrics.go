package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counter operasional order; diekspos lewat GET /metrics.
var (
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_orders_created_total",
		Help: "Total orders created successfully",
	})
	OrdersReplaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_orders_replaced_total",
		Help: "Total orders replaced (full update) successfully",
	})
	OrdersDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_orders_deleted_total",
		Help: "Total orders deleted",
	})
	StockRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_orders_stock_rejected_total",
		Help: "Total order mutations rejected for insufficient stock",
	})
	LowStockWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "coffee_stockwatch_low_stock_warnings_total",
		Help: "Total low stock warnings emitted by stockwatch",
	})
)
