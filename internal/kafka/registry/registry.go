// Package registry provides a lightweight event handler registry for Kafka events.
// Each handler file registers itself via init(), so the consumer never changes
// when a new event type is added.
package registry

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
)

// EventHandler maps raw Kafka message bytes to a notification to create.
// Returning nil means "skip this event".
type EventHandler func(data []byte) *domain.CreateNotificationInput

var handlers = map[string]EventHandler{}

// Register binds a handler to a {topic}:{eventType} key.
// Panics on duplicate registration to catch wiring mistakes early.
func Register(topic, eventType string, h EventHandler) {
	key := topic + ":" + eventType
	if _, exists := handlers[key]; exists {
		panic("registry: duplicate handler registered for key: " + key)
	}
	handlers[key] = h
}

// Dispatch calls the handler for topic and the message's "eventType" field.
// Returns nil if no handler matches or data cannot be parsed.
func Dispatch(topic string, data []byte) *domain.CreateNotificationInput {
	var probe struct {
		EventType string `json:"eventType"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		log.Warn().Str("topic", topic).Err(err).Msg("registry: failed to probe eventType")
		return nil
	}

	key := topic + ":" + probe.EventType
	h, ok := handlers[key]
	if !ok {
		log.Debug().Str("key", key).Msg("registry: no handler registered")
		return nil
	}
	return h(data)
}

// DispatchDirect calls the handler registered for a topic without eventType routing.
func DispatchDirect(topic string, data []byte) *domain.CreateNotificationInput {
	h, ok := handlers[topic+":"]
	if !ok {
		return nil
	}
	return h(data)
}
