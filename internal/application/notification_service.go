package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/messages"
	"vn.io.arda/contos/internal/validation"
)

// NotificationService holds all notification use-cases.
type NotificationService struct {
	repo    domain.NotificationRepository
	emitter NotificationEmitter
	now     func() time.Time
}

// NewNotificationService creates a NotificationService. emitter may be nil, in which
// case notifications are only persisted.
func NewNotificationService(repo domain.NotificationRepository, emitter NotificationEmitter) *NotificationService {
	return &NotificationService{repo: repo, emitter: emitter, now: time.Now}
}

// Create validates and persists a notification, then pushes it to the recipient's
// live channel. The push happens only after the row is stored.
func (s *NotificationService) Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	n, err := s.repo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}

	if s.emitter != nil {
		s.emitter.Emit(n.UserID, n)
	}

	log.Info().
		Str("id", n.ID.String()).
		Str("user", n.UserID.String()).
		Str("type", string(n.Type)).
		Msg("notification created")

	return n, nil
}

// GetByUser returns a page of the user's notifications, newest first.
func (s *NotificationService) GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.NotificationWithMeta, error) {
	limit, offset = pageDefaults(limit, offset)
	list, err := s.repo.FindByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return s.withMeta(list), nil
}

func (s *NotificationService) GetUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NotificationWithMeta, error) {
	list, err := s.repo.FindUnreadByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return s.withMeta(list), nil
}

// MarkAsRead flips the read flag of a notification owned by userID.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	if err := s.authorize(ctx, id, userID); err != nil {
		return nil, err
	}
	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks every unread notification of userID as read.
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.MarkAllAsRead(ctx, userID)
}

// Delete removes a notification owned by userID.
func (s *NotificationService) Delete(ctx context.Context, id, userID uuid.UUID) error {
	if err := s.authorize(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// GetUnreadCount returns the unread badge count for a user.
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}

func (s *NotificationService) NotifyLike(ctx context.Context, storyAuthorID uuid.UUID, likerName string, storyID uuid.UUID) error {
	_, err := s.Create(ctx, messages.LikeNotification(storyAuthorID, likerName, storyID))
	return err
}

func (s *NotificationService) NotifyComment(ctx context.Context, storyAuthorID uuid.UUID, commenterName string, storyID uuid.UUID) error {
	_, err := s.Create(ctx, messages.CommentNotification(storyAuthorID, commenterName, storyID))
	return err
}

func (s *NotificationService) NotifyMention(ctx context.Context, mentionedUserID, commentID uuid.UUID, mentionerName string) error {
	_, err := s.Create(ctx, messages.MentionNotification(mentionedUserID, mentionerName, commentID))
	return err
}

// PurgeTTL deletes old notifications. Called by a background scheduler.
func (s *NotificationService) PurgeTTL(ctx context.Context, days int) {
	count, err := s.repo.PurgeOlderThan(ctx, days)
	if err != nil {
		log.Error().Err(err).Msg("notification TTL purge failed")
		return
	}
	log.Info().Int64("deleted", count).Int("older_than_days", days).Msg("notification TTL purge completed")
}

func (s *NotificationService) authorize(ctx context.Context, id, userID uuid.UUID) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.UserID != userID {
		return domain.ErrUnauthorized
	}
	return nil
}

func (s *NotificationService) withMeta(list []*domain.Notification) []*domain.NotificationWithMeta {
	now := s.now()
	out := make([]*domain.NotificationWithMeta, 0, len(list))
	for _, n := range list {
		out = append(out, &domain.NotificationWithMeta{
			Notification: *n,
			TimeAgo:      TimeAgo(n.CreatedAt, now),
		})
	}
	return out
}
