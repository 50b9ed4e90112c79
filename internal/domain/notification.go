package domain

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType identifies the social event that produced a notification.
type NotificationType string

const (
	TypeLike    NotificationType = "like"
	TypeComment NotificationType = "comment"
	TypeMention NotificationType = "mention"
)

// Notification is the durable record of a social event directed at UserID.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"createdAt"`
}

// NotificationWithMeta adds the relative age computed at read time.
type NotificationWithMeta struct {
	Notification
	TimeAgo string `json:"timeAgo"`
}

type CreateNotificationInput struct {
	UserID  uuid.UUID        `json:"userId" validate:"required"`
	Type    NotificationType `json:"type" validate:"required,oneof=like comment mention"`
	Title   string           `json:"title" validate:"required,min=1,max=200"`
	Message string           `json:"message" validate:"required,min=1,max=500"`
	Data    map[string]any   `json:"data,omitempty"`
}
