package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vn.io.arda/contos/internal/domain"
)

// NotificationRepository is the PostgreSQL implementation of domain.NotificationRepository.
type NotificationRepository struct {
	s *Store
}

const notificationColumns = `id, user_id, type, title, message, data, read, created_at`

// Create inserts a new notification record.
func (r *NotificationRepository) Create(ctx context.Context, input domain.CreateNotificationInput) (*domain.Notification, error) {
	var data []byte
	if input.Data != nil {
		var err error
		if data, err = json.Marshal(input.Data); err != nil {
			return nil, fmt.Errorf("encode notification data: %w", err)
		}
	}

	row := r.s.q(ctx).QueryRow(ctx, `
		INSERT INTO notifications (user_id, type, title, message, data)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+notificationColumns,
		input.UserID, string(input.Type), input.Title, input.Message, data)
	n, err := scanNotification(row)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return n, nil
}

func (r *NotificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row := r.s.q(ctx).QueryRow(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = $1`, id)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	return n, err
}

// FindByUser fetches paginated notifications for a user, newest first.
func (r *NotificationRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Notification, error) {
	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

func (r *NotificationRepository) FindUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error) {
	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = $1 AND read = FALSE
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list unread notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

// MarkAsRead marks a single notification as read. Already-read rows are returned as is.
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		UPDATE notifications SET read = TRUE
		WHERE id = $1
		RETURNING `+notificationColumns, id)
	n, err := scanNotification(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark read: %w", err)
	}
	return n, nil
}

// MarkAllAsRead marks all unread notifications for a user as read.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := r.s.q(ctx).Exec(ctx,
		`UPDATE notifications SET read = TRUE WHERE user_id = $1 AND read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.s.q(ctx).Exec(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotificationNotFound
	}
	return nil
}

// CountUnread returns the count of unread notifications for a user.
func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.s.q(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = FALSE`, userID,
	).Scan(&count)
	return count, err
}

// PurgeOlderThan deletes notifications older than the given number of days.
func (r *NotificationRepository) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days)
	tag, err := r.s.q(ctx).Exec(ctx, `DELETE FROM notifications WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("purge notifications: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanNotification(row scannable) (*domain.Notification, error) {
	var n domain.Notification
	var data []byte
	if err := row.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Message, &data, &n.Read, &n.CreatedAt); err != nil {
		return nil, err
	}
	if len(data) > 0 {
		_ = json.Unmarshal(data, &n.Data)
	}
	return &n, nil
}
