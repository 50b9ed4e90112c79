package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
)

// LikeService enforces one like per user per story and keeps the story's
// cached like counter equal to the number of like rows.
type LikeService struct {
	likes    domain.LikeRepository
	stories  StoryLikesUpdater
	notifier Notifier
	tx       domain.Transactor
}

// NewLikeService creates a LikeService. notifier and tx may be nil.
func NewLikeService(likes domain.LikeRepository, stories StoryLikesUpdater, notifier Notifier, tx domain.Transactor) *LikeService {
	return &LikeService{likes: likes, stories: stories, notifier: notifier, tx: orDirect(tx)}
}

// Like records userID's like on storyID and notifies the story author unless
// the liker is the author. Notification failures are logged, never returned.
func (s *LikeService) Like(ctx context.Context, userID, storyID uuid.UUID, userName string) (*domain.Like, error) {
	_, err := s.likes.FindByUserAndStory(ctx, userID, storyID)
	switch {
	case err == nil:
		return nil, domain.ErrAlreadyLiked
	case !errors.Is(err, domain.ErrLikeNotFound):
		return nil, fmt.Errorf("check existing like: %w", err)
	}

	var like *domain.Like
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		created, err := s.likes.Create(ctx, userID, storyID)
		if err != nil {
			return err
		}
		if err := s.stories.IncrementLikes(ctx, storyID); err != nil {
			return fmt.Errorf("increment likes: %w", err)
		}
		like = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Str("user", userID.String()).Str("story", storyID.String()).Msg("story liked")

	if s.notifier != nil {
		notifyStoryAuthor(ctx, s.stories, userID, storyID, func(authorID uuid.UUID) error {
			return s.notifier.NotifyLike(ctx, authorID, userName, storyID)
		})
	}

	return like, nil
}

// Unlike removes userID's like on storyID. The counter is decremented only
// after the delete is confirmed.
func (s *LikeService) Unlike(ctx context.Context, userID, storyID uuid.UUID) error {
	if _, err := s.likes.FindByUserAndStory(ctx, userID, storyID); err != nil {
		if errors.Is(err, domain.ErrLikeNotFound) {
			return domain.ErrNotLiked
		}
		return fmt.Errorf("check existing like: %w", err)
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.likes.Delete(ctx, userID, storyID); err != nil {
			if errors.Is(err, domain.ErrLikeNotFound) {
				return domain.ErrNotLiked
			}
			return fmt.Errorf("delete like: %w", err)
		}
		if err := s.stories.DecrementLikes(ctx, storyID); err != nil {
			return fmt.Errorf("decrement likes: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("user", userID.String()).Str("story", storyID.String()).Msg("story unliked")
	return nil
}

func (s *LikeService) IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error) {
	_, err := s.likes.FindByUserAndStory(ctx, userID, storyID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, domain.ErrLikeNotFound):
		return false, nil
	default:
		return false, err
	}
}

func (s *LikeService) GetLikesByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LikeWithUser, error) {
	return s.likes.FindByStory(ctx, storyID)
}

func (s *LikeService) GetLikesCount(ctx context.Context, storyID uuid.UUID) (int64, error) {
	return s.likes.CountByStory(ctx, storyID)
}

// notifyStoryAuthor resolves the story author and calls send unless the author is
// actorID. Errors are logged and swallowed.
func notifyStoryAuthor(ctx context.Context, stories StoryLikesUpdater, actorID, storyID uuid.UUID, send func(authorID uuid.UUID) error) {
	authorID, err := stories.GetAuthorID(ctx, storyID)
	if err != nil {
		log.Warn().Err(err).Str("story", storyID.String()).Msg("could not resolve story author for notification")
		return
	}
	if authorID == uuid.Nil || authorID == actorID {
		return
	}
	if err := send(authorID); err != nil {
		log.Error().Err(err).
			Str("story", storyID.String()).
			Str("recipient", authorID.String()).
			Msg("failed to notify story author")
	}
}
