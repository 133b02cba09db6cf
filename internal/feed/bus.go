package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Bus carries "collection changed" notices between instances.
type Bus interface {
	Publish(ctx context.Context, collection string) error
	Subscribe(handler func(collection string)) error
	Close() error
}

// LocalBus is the single-instance bus: nothing leaves the process.
type LocalBus struct{}

func (LocalBus) Publish(ctx context.Context, collection string) error { return nil }
func (LocalBus) Subscribe(handler func(collection string)) error      { return nil }
func (LocalBus) Close() error                                         { return nil }

// ChangeMessage is the wire form of a change notice.
type ChangeMessage struct {
	Collection string    `json:"collection"`
	Origin     string    `json:"origin"`
	At         time.Time `json:"at"`
}

// natsConn is the part of *nats.Conn the bus uses.
type natsConn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
	Drain() error
}

// NATSBus publishes change notices on a NATS subject. Notices from this
// instance are ignored on receipt since the local feed already refreshed.
type NATSBus struct {
	conn    natsConn
	subject string
	origin  string
	logger  zerolog.Logger
}

// NewNATSBus connects to the NATS server at url.
func NewNATSBus(url, subject string, logger zerolog.Logger) (*NATSBus, error) {
	conn, err := nats.Connect(url, nats.Name("mechanical-burger"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return newNATSBus(conn, subject, logger), nil
}

func newNATSBus(conn natsConn, subject string, logger zerolog.Logger) *NATSBus {
	return &NATSBus{
		conn:    conn,
		subject: subject,
		origin:  uuid.NewString(),
		logger:  logger.With().Str("component", "nats-bus").Str("subject", subject).Logger(),
	}
}

// Publish announces a change to collection.
func (b *NATSBus) Publish(ctx context.Context, collection string) error {
	data, err := json.Marshal(ChangeMessage{Collection: collection, Origin: b.origin, At: time.Now()})
	if err != nil {
		return fmt.Errorf("failed to encode change message: %w", err)
	}
	if err := b.conn.Publish(b.subject, data); err != nil {
		return fmt.Errorf("failed to publish change message: %w", err)
	}
	return nil
}

// Subscribe calls handler for every change announced by another instance.
func (b *NATSBus) Subscribe(handler func(collection string)) error {
	_, err := b.conn.Subscribe(b.subject, func(msg *nats.Msg) {
		var change ChangeMessage
		if err := json.Unmarshal(msg.Data, &change); err != nil {
			b.logger.Warn().Err(err).Msg("dropping undecodable change message")
			return
		}
		if change.Origin == b.origin {
			return
		}
		b.logger.Debug().Str("collection", change.Collection).Str("origin", change.Origin).Msg("remote change received")
		handler(change.Collection)
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", b.subject, err)
	}
	return nil
}

// Close drains pending messages and closes the connection.
func (b *NATSBus) Close() error {
	return b.conn.Drain()
}
