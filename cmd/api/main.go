package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
	"github.com/ariefcatur/go-coffee-orders.git/internal/config"
	"github.com/ariefcatur/go-coffee-orders.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-coffee-orders.git/internal/kafka"
	"github.com/ariefcatur/go-coffee-orders.git/internal/orders"
	"github.com/ariefcatur/go-coffee-orders.git/internal/postgres"
	"github.com/ariefcatur/go-coffee-orders.git/internal/redisx"
	"github.com/ariefcatur/go-coffee-orders.git/internal/users"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	logger := log.WithField("component", "api")

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		logger.WithError(err).Fatal("db connect")
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db); err != nil {
		logger.WithError(err).Fatal("db migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers (satu per topic)
	prodCreated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	prodCreated.Start(ctx)
	prodUpdated := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderUpdated, 1024)
	prodUpdated.Start(ctx)
	prodDeleted := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderDeleted, 1024)
	prodDeleted.Start(ctx)

	// Repos & handlers
	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Repo:            &orders.Repo{DB: db},
		Redis:           rdb,
		ProducerCreated: prodCreated,
		ProducerUpdated: prodUpdated,
		ProducerDeleted: prodDeleted,
		Service:         cfg.ServiceName,
	}
	oh.Register(router)
	sh := &httpx.StocksHandler{Repo: &catalog.Repo{DB: db}}
	sh.Register(router)
	uh := &httpx.UsersHandler{Repo: &users.Repo{DB: db}}
	uh.Register(router)

	// HTTP server
	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	// graceful shutdown
	go func() {
		logger.WithField("addr", cfg.HTTPAddr).Info("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Fatal("listen")
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prodCreated.Close() // tutup inbox -> flush & close writer
	prodUpdated.Close()
	prodDeleted.Close()
	cancel() // stop producer loop
	prodCreated.WaitClosed()
	prodUpdated.WaitClosed()
	prodDeleted.WaitClosed()
}
