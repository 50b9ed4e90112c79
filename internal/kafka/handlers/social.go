package handlers

import (
	"encoding/json"

	"github.com/google/uuid"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/messages"
)

func init() {
	Register(TopicSocialEvents, "STORY_LIKED", handleStoryLiked)
	Register(TopicSocialEvents, "STORY_COMMENTED", handleStoryCommented)
	Register(TopicSocialEvents, "USER_MENTIONED", handleUserMentioned)
}

type socialEnv struct {
	EventType string `json:"eventType"`
	EventID   string `json:"eventId"`
	Payload   struct {
		ActorID     uuid.UUID `json:"actorId"`
		ActorName   string    `json:"actorName"`
		RecipientID uuid.UUID `json:"recipientId"`
		StoryID     uuid.UUID `json:"storyId"`
		CommentID   uuid.UUID `json:"commentId"`
	} `json:"payload"`
}

// parseSocialEnv rejects events without a recipient and events users
// trigger on their own content.
func parseSocialEnv(data []byte) (*socialEnv, bool) {
	var env socialEnv
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, false
	}
	if env.Payload.RecipientID == uuid.Nil || env.Payload.RecipientID == env.Payload.ActorID {
		return nil, false
	}
	return &env, true
}

func handleStoryLiked(data []byte) *domain.CreateNotificationInput {
	env, ok := parseSocialEnv(data)
	if !ok || env.Payload.StoryID == uuid.Nil {
		return nil
	}
	in := messages.LikeNotification(env.Payload.RecipientID, env.Payload.ActorName, env.Payload.StoryID)
	return &in
}

func handleStoryCommented(data []byte) *domain.CreateNotificationInput {
	env, ok := parseSocialEnv(data)
	if !ok || env.Payload.StoryID == uuid.Nil {
		return nil
	}
	in := messages.CommentNotification(env.Payload.RecipientID, env.Payload.ActorName, env.Payload.StoryID)
	return &in
}

func handleUserMentioned(data []byte) *domain.CreateNotificationInput {
	env, ok := parseSocialEnv(data)
	if !ok || env.Payload.CommentID == uuid.Nil {
		return nil
	}
	in := messages.MentionNotification(env.Payload.RecipientID, env.Payload.ActorName, env.Payload.CommentID)
	return &in
}
