// Package events carries domain events between services. Delivery is
// in-process through a watermill go channel, optionally mirrored to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/samyuktha-jana/SAP-hackathon/internal/config"
	"github.com/samyuktha-jana/SAP-hackathon/internal/logger"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
)

const (
	TopicSessionRequested = "session.requested"
	TopicSessionApproved  = "session.approved"
	TopicSessionRejected  = "session.rejected"
	TopicSessionCompleted = "session.completed"
	TopicTicketCreated    = "ticket.created"
)

// Publisher is what services need to emit events. A nil Publisher is
// allowed by callers and means "drop".
type Publisher interface {
	Publish(topic string, payload interface{}) error
}

// Handler processes one event payload (raw JSON).
type Handler func(ctx context.Context, payload []byte) error

type Bus struct {
	pubsub *gochannel.GoChannel
	nc     *nats.Conn
	log    logger.ILogger
}

// NewBus starts the in-process bus. When cfg.NatsURL is set every event is
// also forwarded to NATS under "mentormatch.<topic>"; a NATS connection
// failure only disables forwarding.
func NewBus(cfg config.EventsConfig, log logger.ILogger) *Bus {
	b := &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			newWatermillLogger(log),
		),
		log: log,
	}
	if cfg.NatsURL != "" {
		nc, err := nats.Connect(cfg.NatsURL,
			nats.RetryOnFailedConnect(true),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
		)
		if err != nil {
			log.Warn("events", "nats unavailable, forwarding disabled", map[string]interface{}{"error": err})
		} else {
			b.nc = nc
		}
	}
	return b
}

func (b *Bus) Publish(topic string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", topic, err)
	}

	msg := message.NewMessage(uuid.NewString(), data)
	msg.Metadata.Set("topic", topic)
	if err := b.pubsub.Publish(topic, msg); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}

	if b.nc != nil {
		if err := b.nc.Publish("mentormatch."+topic, data); err != nil {
			b.log.Warn("events", "nats forward failed", map[string]interface{}{"topic": topic, "error": err})
		}
	}
	return nil
}

// Subscribe runs h for every event on topic until ctx is done. Failed
// handlers are logged and the message is acked anyway; events are
// notifications, not work items.
func (b *Bus) Subscribe(ctx context.Context, topic string, h Handler) error {
	messages, err := b.pubsub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", topic, err)
	}

	go func() {
		for msg := range messages {
			if err := h(ctx, msg.Payload); err != nil {
				b.log.Error("events", "handler failed", map[string]interface{}{
					"topic":      topic,
					"message_id": msg.UUID,
					"error":      err,
				})
			}
			msg.Ack()
		}
	}()
	return nil
}

func (b *Bus) Close() error {
	if b.nc != nil {
		b.nc.Close()
	}
	return b.pubsub.Close()
}
