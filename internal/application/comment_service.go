package application

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/validation"
)

// CommentService manages comments and the mentions extracted from them.
type CommentService struct {
	comments domain.CommentRepository
	mentions domain.MentionRepository
	users    domain.UserLookupRepository
	stories  StoryLikesUpdater
	notifier Notifier
	tx       domain.Transactor
}

// NewCommentService creates a CommentService. notifier and tx may be nil.
func NewCommentService(
	comments domain.CommentRepository,
	mentions domain.MentionRepository,
	users domain.UserLookupRepository,
	stories StoryLikesUpdater,
	notifier Notifier,
	tx domain.Transactor,
) *CommentService {
	return &CommentService{
		comments: comments,
		mentions: mentions,
		users:    users,
		stories:  stories,
		notifier: notifier,
		tx:       orDirect(tx),
	}
}

// Create stores a comment with its mentions, then notifies each mentioned user
// (except the author) and the story author (unless they wrote the comment).
func (s *CommentService) Create(ctx context.Context, input domain.CreateCommentInput, userID uuid.UUID, userName string) (*domain.Comment, error) {
	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	var (
		comment   *domain.Comment
		mentioned []domain.User
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		comment, err = s.comments.Create(ctx, domain.NewComment{
			Content: input.Content,
			StoryID: input.StoryID,
			UserID:  userID,
		})
		if err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
		mentioned, err = s.saveMentions(ctx, comment.ID, input.Content)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("comment", comment.ID.String()).
		Str("story", input.StoryID.String()).
		Int("mentions", len(mentioned)).
		Msg("comment created")

	if s.notifier == nil {
		return comment, nil
	}

	for _, u := range mentioned {
		if u.ID == userID {
			continue
		}
		if err := s.notifier.NotifyMention(ctx, u.ID, comment.ID, userName); err != nil {
			log.Error().Err(err).
				Str("comment", comment.ID.String()).
				Str("recipient", u.ID.String()).
				Msg("failed to notify mentioned user")
		}
	}

	notifyStoryAuthor(ctx, s.stories, userID, input.StoryID, func(authorID uuid.UUID) error {
		return s.notifier.NotifyComment(ctx, authorID, userName, input.StoryID)
	})

	return comment, nil
}

// Update replaces the comment content and rebuilds its mentions from scratch.
// Edits never notify.
func (s *CommentService) Update(ctx context.Context, id uuid.UUID, input domain.UpdateCommentInput, userID uuid.UUID) (*domain.Comment, error) {
	if err := validation.Validate(input); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}

	var updated *domain.Comment
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.mentions.DeleteByComment(ctx, id); err != nil {
			return fmt.Errorf("delete mentions: %w", err)
		}
		var err error
		updated, err = s.comments.Update(ctx, id, input.Content)
		if err != nil {
			return fmt.Errorf("update comment: %w", err)
		}
		_, err = s.saveMentions(ctx, id, input.Content)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the comment's mentions and then the comment itself.
func (s *CommentService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.authorize(ctx, id, userID); err != nil {
		return err
	}

	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.mentions.DeleteByComment(ctx, id); err != nil {
			return fmt.Errorf("delete mentions: %w", err)
		}
		if err := s.comments.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		return nil
	})
}

func (s *CommentService) GetByStory(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*domain.CommentWithUser, error) {
	limit, offset = pageDefaults(limit, offset)
	return s.comments.FindByStory(ctx, storyID, limit, offset)
}

func (s *CommentService) GetByID(ctx context.Context, id uuid.UUID) (*domain.CommentWithUser, error) {
	return s.comments.FindByIDWithUser(ctx, id)
}

func (s *CommentService) CountByStory(ctx context.Context, storyID uuid.UUID) (int64, error) {
	return s.comments.CountByStory(ctx, storyID)
}

// saveMentions resolves @names in content to existing users and stores one
// mention per user. Unknown names are dropped.
func (s *CommentService) saveMentions(ctx context.Context, commentID uuid.UUID, content string) ([]domain.User, error) {
	names := domain.ExtractMentions(content)
	if len(names) == 0 {
		return nil, nil
	}

	users, err := s.users.FindByUsernames(ctx, names)
	if err != nil {
		return nil, fmt.Errorf("resolve mentions: %w", err)
	}
	if len(users) == 0 {
		return nil, nil
	}

	rows := make([]domain.NewMention, 0, len(users))
	for _, u := range users {
		rows = append(rows, domain.NewMention{CommentID: commentID, MentionedUserID: u.ID})
	}
	if err := s.mentions.CreateMany(ctx, rows); err != nil {
		return nil, fmt.Errorf("create mentions: %w", err)
	}
	return users, nil
}

func (s *CommentService) authorize(ctx context.Context, id, userID uuid.UUID) error {
	c, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if c.UserID != userID {
		return domain.ErrUnauthorized
	}
	return nil
}
