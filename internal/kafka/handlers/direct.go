package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	"vn.io.arda/contos/internal/domain"
)

func init() {
	RegisterDirect(TopicNotificationCommands, handleDirectCommand)
}

// handleDirectCommand accepts a ready-made notification. Content checks happen
// in the service, which validates every input.
func handleDirectCommand(data []byte) *domain.CreateNotificationInput {
	var cmd struct {
		UserID  uuid.UUID      `json:"userId"`
		Type    string         `json:"type"`
		Title   string         `json:"title"`
		Message string         `json:"message"`
		Data    map[string]any `json:"data"`
	}

	if err := json.Unmarshal(data, &cmd); err != nil {
		return nil
	}
	if cmd.UserID == uuid.Nil {
		return nil
	}

	return &domain.CreateNotificationInput{
		UserID:  cmd.UserID,
		Type:    domain.NotificationType(cmd.Type),
		Title:   cmd.Title,
		Message: cmd.Message,
		Data:    cmd.Data,
	}
}
