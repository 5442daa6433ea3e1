// Package events feeds sale requests from Kafka into the ledger.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/renantorres0/smartcommerce/internal/config"
	"github.com/renantorres0/smartcommerce/internal/domain"
	applog "github.com/renantorres0/smartcommerce/internal/log"
)

const EventSaleRequested = "SaleRequested"

// MessageReader is the part of *kafka.Reader the listener uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type Seller interface {
	Sell(ctx context.Context, productID string, qty int, total decimal.Decimal) (domain.Sale, error)
}

func NewReader(cfg config.KafkaConfig) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		Topic:    cfg.Topic,
		GroupID:  cfg.GroupID,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
}

type SaleListener struct {
	reader  MessageReader
	ledger  Seller
	backoff time.Duration
}

func NewSaleListener(reader MessageReader, ledger Seller) *SaleListener {
	return &SaleListener{reader: reader, ledger: ledger, backoff: time.Second}
}

type SaleRequestedEvent struct {
	EventID   string      `json:"event_id"`
	EventType string      `json:"event_type"`
	Payload   SalePayload `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

type SalePayload struct {
	ProductID   string          `json:"product_id"`
	Quantity    int             `json:"quantity"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Start reads until ctx is cancelled. Failed sales are logged and skipped.
func (l *SaleListener) Start(ctx context.Context) {
	log := applog.L()
	log.Info("events.listener_start")
	for {
		msg, err := l.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("events.listener_stop")
				return
			}
			log.Error("events.read_failed", zap.Error(err))
			select {
			case <-ctx.Done():
				log.Info("events.listener_stop")
				return
			case <-time.After(l.backoff):
			}
			continue
		}
		l.processMessage(ctx, msg.Value)
	}
}

func (l *SaleListener) processMessage(ctx context.Context, value []byte) {
	log := applog.L()

	var event SaleRequestedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		log.Error("events.decode_failed", zap.Error(err))
		return
	}
	if event.EventType != EventSaleRequested {
		return
	}

	p := event.Payload
	sale, err := l.ledger.Sell(ctx, p.ProductID, p.Quantity, p.TotalAmount)
	if err != nil {
		log.Warn("events.sale_rejected",
			zap.String("event_id", event.EventID),
			zap.String("product_id", p.ProductID),
			zap.String("code", domain.KindOf(err)),
			zap.Error(err),
		)
		return
	}
	log.Info("events.sale_recorded",
		zap.String("event_id", event.EventID),
		zap.String("sale_id", sale.ID),
		zap.String("product_id", sale.ProductID),
		zap.Int("qty", sale.Quantity),
	)
}
