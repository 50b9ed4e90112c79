// Package handlers turns Kafka events into notifications. Importing it for side
// effects registers every handler.
package handlers

import (
	"vn.io.arda/contos/internal/kafka/registry"
)

const (
	TopicSocialEvents         = "social-events"
	TopicNotificationCommands = "notification-commands"
)

// Register is a convenience alias so each handler file calls Register(...)
// instead of registry.Register(...).
func Register(topic, eventType string, h registry.EventHandler) {
	registry.Register(topic, eventType, h)
}

// RegisterDirect registers a handler for topics that don't use eventType routing.
func RegisterDirect(topic string, h registry.EventHandler) {
	registry.Register(topic, "", h)
}
