package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Like is a user's endorsement of a story, unique per (UserID, StoryID).
type Like struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"userId"`
	StoryID   uuid.UUID `json:"storyId"`
	CreatedAt time.Time `json:"createdAt"`
}

type LikeWithUser struct {
	Like
	User UserSummary `json:"user"`
}

type Comment struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	UserID    uuid.UUID `json:"userId"`
	StoryID   uuid.UUID `json:"storyId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommentMention is a mention joined with the mentioned user, as rendered under a comment.
type CommentMention struct {
	ID            uuid.UUID   `json:"id"`
	MentionedUser UserSummary `json:"mentionedUser"`
}

type CommentWithUser struct {
	Comment
	User     UserSummary      `json:"user"`
	Mentions []CommentMention `json:"mentions"`
}

type Mention struct {
	ID              uuid.UUID `json:"id"`
	CommentID       uuid.UUID `json:"commentId"`
	MentionedUserID uuid.UUID `json:"mentionedUserId"`
	CreatedAt       time.Time `json:"createdAt"`
}

type NewMention struct {
	CommentID       uuid.UUID
	MentionedUserID uuid.UUID
}

type NewComment struct {
	Content string
	StoryID uuid.UUID
	UserID  uuid.UUID
}

type CreateCommentInput struct {
	Content string    `json:"content" validate:"required,min=1,max=1000"`
	StoryID uuid.UUID `json:"storyId" validate:"required"`
}

type UpdateCommentInput struct {
	Content string `json:"content" validate:"required,min=1,max=1000"`
}

// User is the minimal account view used to resolve @mentions.
type User struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

var mentionPattern = regexp.MustCompile(`@(\w+)`)

// ExtractMentions returns the unique usernames referenced as @name in content,
// in first-occurrence order. Matching is case-sensitive and ignores surrounding
// context, so "test@example.com" yields "example".
func ExtractMentions(content string) []string {
	matches := mentionPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return []string{}
	}
	seen := make(map[string]struct{}, len(matches))
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		if _, ok := seen[m[1]]; ok {
			continue
		}
		seen[m[1]] = struct{}{}
		names = append(names, m[1])
	}
	return names
}
