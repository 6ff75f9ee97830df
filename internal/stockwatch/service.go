package stockwatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"

	"github.com/ariefcatur/go-coffee-orders.git/internal/catalog"
	kafkax "github.com/ariefcatur/go-coffee-orders.git/internal/kafka"
	"github.com/ariefcatur/go-coffee-orders.git/internal/metrics"
	"github.com/ariefcatur/go-coffee-orders.git/internal/orders"
	"github.com/ariefcatur/go-coffee-orders.git/internal/redisx"
)

// ItemReader cukup GetItem; dipenuhi *catalog.Repo, atau fake di test.
type ItemReader interface {
	GetItem(ctx context.Context, id int64) (catalog.Item, error)
}

// Service mengawasi stok setelah order masuk: tiap event created/updated,
// baca ulang stok item yang kena debit dan teriak kalau sudah tipis.
type Service struct {
	Items       ItemReader
	Redis       *redis.Client
	Threshold   int
	ServiceName string
}

// HandleOrderEvent dipasang sebagai handler consumer.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated && env.EventType != orders.EventOrderUpdated {
		return nil // ignore
	}

	// dedup via Redis (pakai event_id); tanpa Redis jalan terus saja
	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "stockwatch", env.EventID)
		exists, _ := redisx.Exists(ctx, s.Redis, dkey)
		if exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[orders.OrderChangedPayload](env.Payload)
	if err != nil {
		return err
	}
	return s.checkItems(ctx, p)
}

func (s *Service) checkItems(ctx context.Context, p orders.OrderChangedPayload) error {
	seen := map[int64]bool{}
	for _, it := range p.Items {
		if seen[it.ItemID] {
			continue
		}
		seen[it.ItemID] = true

		item, err := s.Items.GetItem(ctx, it.ItemID)
		if errors.Is(err, catalog.ErrItemNotFound) {
			// item bisa saja sudah dihapus setelah event terbit; bukan fatal
			log.WithField("item_id", it.ItemID).Warn("stockwatch: item sudah tidak ada")
			continue
		}
		if err != nil {
			return err
		}

		if item.Stock <= s.Threshold {
			metrics.LowStockWarnings.Inc()
			log.WithFields(log.Fields{
				"service":  s.ServiceName,
				"order_id": p.OrderID,
				"item_id":  item.ID,
				"name":     item.Name,
				"stock":    item.Stock,
			}).Warn("stok menipis, segera restock")
		}
	}
	return nil
}
