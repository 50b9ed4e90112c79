package redis

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
)

const channelPrefix = "contos:notifications:"

// LocalEmitter delivers to subscribers connected to this instance.
type LocalEmitter interface {
	Emit(userID uuid.UUID, n *domain.Notification)
}

// Broker publishes notifications to Redis so the instance holding the user's
// stream can deliver them.
type Broker struct {
	client *redis.Client
	local  LocalEmitter
}

func NewBroker(client *redis.Client, local LocalEmitter) *Broker {
	return &Broker{client: client, local: local}
}

// Emit publishes n on the user's channel. A publish failure falls back to
// local delivery.
func (b *Broker) Emit(userID uuid.UUID, n *domain.Notification) {
	payload, err := json.Marshal(n)
	if err != nil {
		log.Error().Err(err).Str("notification", n.ID.String()).Msg("encode notification for broker")
		return
	}
	if err := b.client.Publish(context.Background(), channelPrefix+userID.String(), payload).Err(); err != nil {
		log.Warn().Err(err).Str("user", userID.String()).Msg("redis publish failed, delivering locally")
		b.local.Emit(userID, n)
	}
}

// Run relays published notifications to the local emitter until ctx is done.
func (b *Broker) Run(ctx context.Context) error {
	sub := b.client.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	log.Info().Str("pattern", channelPrefix+"*").Msg("notification relay subscribed")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			b.relay(msg)
		}
	}
}

func (b *Broker) relay(msg *redis.Message) {
	userID, err := uuid.Parse(strings.TrimPrefix(msg.Channel, channelPrefix))
	if err != nil {
		log.Warn().Str("channel", msg.Channel).Msg("ignoring message on unexpected channel")
		return
	}
	var n domain.Notification
	if err := json.Unmarshal([]byte(msg.Payload), &n); err != nil {
		log.Warn().Err(err).Str("channel", msg.Channel).Msg("ignoring undecodable notification")
		return
	}
	b.local.Emit(userID, &n)
}
