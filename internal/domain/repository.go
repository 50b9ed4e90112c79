package domain

import (
	"context"

	"github.com/google/uuid"
)

// Repository ports. Implementations live in infrastructure/postgres.
// Single-row finders return the matching Err*NotFound sentinel when the row is absent.

type StoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Story, error)
	FindByIDWithAuthor(ctx context.Context, id uuid.UUID) (*StoryWithAuthor, error)
	FindAll(ctx context.Context, filter StoryFilter) ([]*Story, error)
	FindAllWithAuthor(ctx context.Context, filter StoryFilter) ([]*StoryWithAuthor, error)
	Create(ctx context.Context, story NewStory) (*Story, error)
	// Update applies only the non-nil fields of input.
	Update(ctx context.Context, id uuid.UUID, input UpdateStoryInput) (*Story, error)
	Delete(ctx context.Context, id uuid.UUID) error
	IncrementLikes(ctx context.Context, id uuid.UUID) error
	DecrementLikes(ctx context.Context, id uuid.UUID) error
	CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error)
}

type LikeRepository interface {
	FindByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*Like, error)
	FindByStory(ctx context.Context, storyID uuid.UUID) ([]*LikeWithUser, error)
	// Create returns ErrAlreadyLiked when the (user, story) pair already exists.
	Create(ctx context.Context, userID, storyID uuid.UUID) (*Like, error)
	// Delete returns ErrLikeNotFound when nothing was removed.
	Delete(ctx context.Context, userID, storyID uuid.UUID) error
	CountByStory(ctx context.Context, storyID uuid.UUID) (int64, error)
}

type CommentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	FindByIDWithUser(ctx context.Context, id uuid.UUID) (*CommentWithUser, error)
	FindByStory(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*CommentWithUser, error)
	Create(ctx context.Context, comment NewComment) (*Comment, error)
	Update(ctx context.Context, id uuid.UUID, content string) (*Comment, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByStory(ctx context.Context, storyID uuid.UUID) (int64, error)
}

type MentionRepository interface {
	Create(ctx context.Context, mention NewMention) (*Mention, error)
	// CreateMany silently skips pairs that already exist.
	CreateMany(ctx context.Context, mentions []NewMention) error
	DeleteByComment(ctx context.Context, commentID uuid.UUID) error
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Mention, error)
}

// UserLookupRepository resolves usernames case-insensitively.
type UserLookupRepository interface {
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByUsernames(ctx context.Context, usernames []string) ([]User, error)
}

type NotificationRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Notification, error)
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*Notification, error)
	Create(ctx context.Context, input CreateNotificationInput) (*Notification, error)
	MarkAsRead(ctx context.Context, id uuid.UUID) (*Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// PurgeOlderThan deletes notifications older than the given number of days (TTL cleanup).
	PurgeOlderThan(ctx context.Context, days int) (int64, error)
}

// Transactor runs fn so that every repository call made with the ctx it receives
// commits or rolls back together.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
