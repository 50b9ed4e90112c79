package messages

import (
	"fmt"

	"github.com/google/uuid"

	"vn.io.arda/contos/internal/domain"
)

// ─── Social builders ─────────────────────────────────────────────────────────

func Like(likerName string) (string, string) {
	return LikeTitle, fmt.Sprintf(LikeMessage, actor(likerName))
}

func Comment(commenterName string) (string, string) {
	return CommentTitle, fmt.Sprintf(CommentMessage, actor(commenterName))
}

func Mention(mentionerName string) (string, string) {
	return MentionTitle, fmt.Sprintf(MentionMessage, actor(mentionerName))
}

// ─── Notification inputs ─────────────────────────────────────────────────────
// Every path that creates like, comment or mention notifications goes through
// these, so the payload shape stays the same for in-process and event sources.

// LikeNotification tells storyAuthorID that likerName liked storyID.
func LikeNotification(storyAuthorID uuid.UUID, likerName string, storyID uuid.UUID) domain.CreateNotificationInput {
	title, message := Like(likerName)
	return domain.CreateNotificationInput{
		UserID:  storyAuthorID,
		Type:    domain.TypeLike,
		Title:   title,
		Message: message,
		Data:    map[string]any{"storyId": storyID.String()},
	}
}

// CommentNotification tells storyAuthorID that commenterName commented on storyID.
func CommentNotification(storyAuthorID uuid.UUID, commenterName string, storyID uuid.UUID) domain.CreateNotificationInput {
	title, message := Comment(commenterName)
	return domain.CreateNotificationInput{
		UserID:  storyAuthorID,
		Type:    domain.TypeComment,
		Title:   title,
		Message: message,
		Data:    map[string]any{"storyId": storyID.String()},
	}
}

// MentionNotification tells mentionedUserID that mentionerName mentioned them in commentID.
func MentionNotification(mentionedUserID uuid.UUID, mentionerName string, commentID uuid.UUID) domain.CreateNotificationInput {
	title, message := Mention(mentionerName)
	return domain.CreateNotificationInput{
		UserID:  mentionedUserID,
		Type:    domain.TypeMention,
		Title:   title,
		Message: message,
		Data:    map[string]any{"commentId": commentID.String()},
	}
}

func actor(name string) string {
	if name == "" {
		return DefaultActorName
	}
	return name
}
