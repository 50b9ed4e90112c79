package kafka

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/twmb/franz-go/pkg/kgo"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/kafka/registry"

	// Blank import triggers init() in each handler file,
	// registering all event handlers into the registry.
	_ "vn.io.arda/contos/internal/kafka/handlers"
)

// NotificationCreator stores and pushes a notification.
type NotificationCreator interface {
	Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error)
}

// Consumer wraps the franz-go Kafka client.
type Consumer struct {
	client  *kgo.Client
	creator NotificationCreator
}

// New creates a Consumer with the given brokers, group ID, and topics.
func New(brokers []string, groupID string, topics []string, creator NotificationCreator) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(groupID),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, err
	}
	return &Consumer{client: client, creator: creator}, nil
}

// Start begins polling Kafka and processing records. Blocks until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Info().Msg("kafka consumer started")

	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			break
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			log.Error().Err(err).Str("topic", topic).Int32("partition", partition).Msg("kafka fetch error")
		})

		fetches.EachRecord(func(r *kgo.Record) {
			Process(ctx, c.creator, r.Topic, r.Value)
		})

		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			log.Error().Err(err).Msg("kafka commit error")
		}
	}

	c.client.Close()
	log.Info().Msg("kafka consumer stopped")
}

// Process dispatches one record through the registry and creates the resulting
// notification. Failures are logged; the offset is committed regardless.
func Process(ctx context.Context, creator NotificationCreator, topic string, value []byte) {
	log.Debug().Str("topic", topic).Msg("processing kafka record")

	input := registry.DispatchDirect(topic, value)
	if input == nil {
		input = registry.Dispatch(topic, value)
	}
	if input == nil {
		log.Debug().Str("topic", topic).Msg("no handler matched, skipping")
		return
	}

	if _, err := creator.Create(ctx, *input); err != nil {
		log.Error().Err(err).
			Str("topic", topic).
			Str("user", input.UserID.String()).
			Str("type", string(input.Type)).
			Msg("failed to create notification from kafka event")
	}
}
