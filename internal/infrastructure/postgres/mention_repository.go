package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"vn.io.arda/contos/internal/domain"
)

// MentionRepository is the PostgreSQL implementation of domain.MentionRepository.
type MentionRepository struct {
	s *Store
}

func (r *MentionRepository) Create(ctx context.Context, in domain.NewMention) (*domain.Mention, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		INSERT INTO mentions (comment_id, mentioned_user_id) VALUES ($1, $2)
		RETURNING id, comment_id, mentioned_user_id, created_at
	`, in.CommentID, in.MentionedUserID)
	m, err := scanMention(row)
	if err != nil {
		return nil, fmt.Errorf("insert mention: %w", err)
	}
	return m, nil
}

// CreateMany inserts all rows in one statement, skipping pairs that already exist.
func (r *MentionRepository) CreateMany(ctx context.Context, in []domain.NewMention) error {
	if len(in) == 0 {
		return nil
	}

	const paramsPerRow = 2
	args := make([]any, 0, len(in)*paramsPerRow)
	values := make([]string, 0, len(in))
	for i, m := range in {
		base := i * paramsPerRow
		values = append(values, fmt.Sprintf("($%d,$%d)", base+1, base+2))
		args = append(args, m.CommentID, m.MentionedUserID)
	}

	query := "INSERT INTO mentions (comment_id, mentioned_user_id) VALUES " +
		strings.Join(values, ",") +
		" ON CONFLICT (comment_id, mentioned_user_id) DO NOTHING"

	if _, err := r.s.q(ctx).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("batch insert mentions: %w", err)
	}
	return nil
}

func (r *MentionRepository) DeleteByComment(ctx context.Context, commentID uuid.UUID) error {
	if _, err := r.s.q(ctx).Exec(ctx, `DELETE FROM mentions WHERE comment_id = $1`, commentID); err != nil {
		return fmt.Errorf("delete mentions: %w", err)
	}
	return nil
}

func (r *MentionRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Mention, error) {
	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT id, comment_id, mentioned_user_id, created_at FROM mentions
		WHERE mentioned_user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list mentions: %w", err)
	}
	return collect(rows, scanMention)
}

func scanMention(row scannable) (*domain.Mention, error) {
	var m domain.Mention
	if err := row.Scan(&m.ID, &m.CommentID, &m.MentionedUserID, &m.CreatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}
