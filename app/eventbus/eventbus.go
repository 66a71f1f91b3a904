// Package eventbus carries domain events between modules over NATS JetStream
// using Watermill publishers and subscribers.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Black-And-White-Club/golf-tournament/app/shared/attr"
	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	nc "github.com/nats-io/nats.go"
)

// EventBus publishes and subscribes Watermill messages by topic.
type EventBus interface {
	message.Publisher
	message.Subscriber
}

// NATSBus is an EventBus backed by NATS JetStream.
type NATSBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	conn       *nc.Conn
	logger     *slog.Logger
}

// NewNATSBus connects to natsURL and builds a JetStream publisher and
// subscriber sharing one marshaler. Streams are provisioned by
// InitializeStreams rather than per topic.
func NewNATSBus(ctx context.Context, natsURL string, logger *slog.Logger) (*NATSBus, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true), nc.Name("golf-tournament"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	if err := InitializeStreams(ctx, conn, logger); err != nil {
		conn.Close()
		return nil, err
	}

	wmLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}

	publisher, err := wmnats.NewPublisher(wmnats.PublisherConfig{
		URL:         natsURL,
		Marshaler:   marshaler,
		NatsOptions: []nc.Option{nc.RetryOnFailedConnect(true)},
		JetStream:   wmnats.JetStreamConfig{AutoProvision: false},
	}, wmLogger)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(wmnats.SubscriberConfig{
		URL:         natsURL,
		Unmarshaler: marshaler,
		NatsOptions: []nc.Option{nc.RetryOnFailedConnect(true)},
		JetStream: wmnats.JetStreamConfig{
			AutoProvision: false,
			// Consumers react to what happens from now on; history stays in the stream.
			SubscribeOptions: []nc.SubOpt{nc.DeliverNew()},
		},
	}, wmLogger)
	if err != nil {
		_ = publisher.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to create subscriber: %w", err)
	}

	return &NATSBus{publisher: publisher, subscriber: subscriber, conn: conn, logger: logger}, nil
}

func (b *NATSBus) Publish(topic string, msgs ...*message.Message) error {
	for _, msg := range msgs {
		b.logger.Debug("Publishing message",
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
			attr.String("correlation_id", middleware.MessageCorrelationID(msg)),
		)
	}
	return b.publisher.Publish(topic, msgs...)
}

func (b *NATSBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.logger.Info("Subscribing to topic", attr.String("topic", topic))
	return b.subscriber.Subscribe(ctx, topic)
}

// Healthy reports whether the underlying NATS connection is up.
func (b *NATSBus) Healthy() bool {
	return b.conn != nil && b.conn.IsConnected()
}

// Close shuts down the publisher, the subscriber and the connection.
func (b *NATSBus) Close() error {
	err := errors.Join(b.publisher.Close(), b.subscriber.Close())
	b.conn.Close()
	return err
}

// NewInMemory returns an EventBus on a Watermill Go channel. Messages are
// delivered only to subscribers present at publish time.
func NewInMemory(logger *slog.Logger) EventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NewSlogLogger(logger))
}

// NewMessage marshals payload to JSON and stamps the context's correlation ID.
func NewMessage(ctx context.Context, payload any) (*message.Message, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal event payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), body)
	correlationID := attr.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = watermill.NewShortUUID()
	}
	middleware.SetCorrelationID(correlationID, msg)
	msg.SetContext(ctx)
	return msg, nil
}

// Decode unmarshals msg's payload into T.
func Decode[T any](msg *message.Message) (T, error) {
	var v T
	if err := json.Unmarshal(msg.Payload, &v); err != nil {
		return v, fmt.Errorf("failed to decode %s: %w", msg.UUID, err)
	}
	return v, nil
}
