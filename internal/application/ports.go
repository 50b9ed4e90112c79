package application

import (
	"context"

	"github.com/google/uuid"

	"vn.io.arda/contos/internal/domain"
)

// NotificationEmitter pushes a stored notification to the recipient's live channel.
// Emission is fire-and-forget; a missing subscriber is not an error.
// Implementations: transport/http.Hub (in-process), infrastructure/redis.Broker (cross-instance).
type NotificationEmitter interface {
	Emit(userID uuid.UUID, n *domain.Notification)
}

// StoryGenerator produces story text. It is the only dependency on a network boundary.
type StoryGenerator interface {
	Generate(ctx context.Context, input domain.GenerateStoryInput) (*domain.GeneratedStory, error)
}

// Notifier is the subset of NotificationService the social services depend on.
type Notifier interface {
	NotifyLike(ctx context.Context, storyAuthorID uuid.UUID, likerName string, storyID uuid.UUID) error
	NotifyComment(ctx context.Context, storyAuthorID uuid.UUID, commenterName string, storyID uuid.UUID) error
	NotifyMention(ctx context.Context, mentionedUserID, commentID uuid.UUID, mentionerName string) error
}

// StoryLikesUpdater keeps a story's cached like counter in sync and resolves its author.
type StoryLikesUpdater interface {
	IncrementLikes(ctx context.Context, storyID uuid.UUID) error
	DecrementLikes(ctx context.Context, storyID uuid.UUID) error
	GetAuthorID(ctx context.Context, storyID uuid.UUID) (uuid.UUID, error)
}

// storyUpdater adapts a StoryRepository to StoryLikesUpdater.
type storyUpdater struct {
	repo domain.StoryRepository
}

// NewStoryLikesUpdater wraps repo so social services can touch only the like counter.
func NewStoryLikesUpdater(repo domain.StoryRepository) StoryLikesUpdater {
	return storyUpdater{repo: repo}
}

func (u storyUpdater) IncrementLikes(ctx context.Context, storyID uuid.UUID) error {
	return u.repo.IncrementLikes(ctx, storyID)
}

func (u storyUpdater) DecrementLikes(ctx context.Context, storyID uuid.UUID) error {
	return u.repo.DecrementLikes(ctx, storyID)
}

func (u storyUpdater) GetAuthorID(ctx context.Context, storyID uuid.UUID) (uuid.UUID, error) {
	story, err := u.repo.FindByID(ctx, storyID)
	if err != nil {
		return uuid.Nil, err
	}
	return story.AuthorID, nil
}

// directTx runs fn without a transaction; used when no Transactor is wired.
type directTx struct{}

func (directTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func orDirect(tx domain.Transactor) domain.Transactor {
	if tx == nil {
		return directTx{}
	}
	return tx
}

func pageDefaults(limit, offset int) (int, int) {
	if limit <= 0 || limit > domain.MaxPageLimit {
		limit = domain.DefaultPageLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
