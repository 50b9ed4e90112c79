package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vn.io.arda/contos/internal/domain"
)

// LikeRepository is the PostgreSQL implementation of domain.LikeRepository.
type LikeRepository struct {
	s *Store
}

func (r *LikeRepository) FindByUserAndStory(ctx context.Context, userID, storyID uuid.UUID) (*domain.Like, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		SELECT id, user_id, story_id, created_at FROM likes
		WHERE user_id = $1 AND story_id = $2
	`, userID, storyID)
	l, err := scanLike(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLikeNotFound
	}
	return l, err
}

func (r *LikeRepository) FindByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LikeWithUser, error) {
	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT l.id, l.user_id, l.story_id, l.created_at, `+authorColumns+`
		FROM likes l JOIN users u ON u.id = l.user_id
		WHERE l.story_id = $1
		ORDER BY l.created_at DESC
	`, storyID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	return collect(rows, func(row scannable) (*domain.LikeWithUser, error) {
		var l domain.LikeWithUser
		err := row.Scan(&l.ID, &l.UserID, &l.StoryID, &l.CreatedAt, &l.User.ID, &l.User.Name, &l.User.Image)
		if err != nil {
			return nil, err
		}
		return &l, nil
	})
}

// Create inserts a like. The (user_id, story_id) unique constraint backs ErrAlreadyLiked.
func (r *LikeRepository) Create(ctx context.Context, userID, storyID uuid.UUID) (*domain.Like, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		INSERT INTO likes (user_id, story_id) VALUES ($1, $2)
		RETURNING id, user_id, story_id, created_at
	`, userID, storyID)
	l, err := scanLike(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrAlreadyLiked
		}
		if isForeignKeyViolation(err) {
			return nil, domain.ErrStoryNotFound
		}
		return nil, fmt.Errorf("insert like: %w", err)
	}
	return l, nil
}

func (r *LikeRepository) Delete(ctx context.Context, userID, storyID uuid.UUID) error {
	tag, err := r.s.q(ctx).Exec(ctx, `DELETE FROM likes WHERE user_id = $1 AND story_id = $2`, userID, storyID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLikeNotFound
	}
	return nil
}

func (r *LikeRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.q(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM likes WHERE story_id = $1`, storyID).Scan(&n)
	return n, err
}

func scanLike(row scannable) (*domain.Like, error) {
	var l domain.Like
	if err := row.Scan(&l.ID, &l.UserID, &l.StoryID, &l.CreatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
