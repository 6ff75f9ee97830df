package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
	"github.com/ariefcatur/go-coffee-orders.git/internal/config"
	kafkax "github.com/ariefcatur/go-coffee-orders.git/internal/kafka"
	"github.com/ariefcatur/go-coffee-orders.git/internal/orders"
	"github.com/ariefcatur/go-coffee-orders.git/internal/postgres"
	"github.com/ariefcatur/go-coffee-orders.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-orders.git/internal/stockwatch"
)

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.WithField("component", "stockwatch")

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.WithError(err).Fatal("db connect")
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Service
	svc := &stockwatch.Service{
		Items:       &catalog.Repo{DB: db},
		Redis:       rdb,
		Threshold:   cfg.LowStockThreshold,
		ServiceName: cfg.ServiceName + "-stockwatch",
	}

	// Consumers: created & updated (dua topic berbeda, handler sama)
	group := getenv("STOCKWATCH_GROUP", "stockwatch-svc")
	workers := mustAtoi(os.Getenv("STOCKWATCH_WORKERS"), "4")

	for _, topic := range []string{orders.TopicOrderCreated, orders.TopicOrderUpdated} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		go func(topic string) {
			logger.WithFields(log.Fields{
				"group": group, "topic": topic, "workers": workers,
			}).Info("stockwatch consumer started")
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				logger.WithError(err).WithField("topic", topic).Warn("consumer exit")
				cancel()
			}
		}(topic)
	}

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
		logger.Info("shutting down consumers...")
		cancel()
	case <-ctx.Done():
	}
}
