package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vn.io.arda/contos/internal/domain"
)

// CommentRepository is the PostgreSQL implementation of domain.CommentRepository.
type CommentRepository struct {
	s *Store
}

const commentColumns = `c.id, c.content, c.user_id, c.story_id, c.created_at, c.updated_at`

func (r *CommentRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	row := r.s.q(ctx).QueryRow(ctx, `SELECT `+commentColumns+` FROM comments c WHERE c.id = $1`, id)
	c, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	return c, err
}

func (r *CommentRepository) FindByIDWithUser(ctx context.Context, id uuid.UUID) (*domain.CommentWithUser, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		SELECT `+commentColumns+`, `+authorColumns+`
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.id = $1
	`, id)
	c, err := scanCommentWithUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachMentions(ctx, []*domain.CommentWithUser{c}); err != nil {
		return nil, err
	}
	return c, nil
}

// FindByStory returns a page of comments, newest first, each with its mentions.
func (r *CommentRepository) FindByStory(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*domain.CommentWithUser, error) {
	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT `+commentColumns+`, `+authorColumns+`
		FROM comments c JOIN users u ON u.id = c.user_id
		WHERE c.story_id = $1
		ORDER BY c.created_at DESC
		LIMIT $2 OFFSET $3
	`, storyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	list, err := collect(rows, scanCommentWithUser)
	if err != nil {
		return nil, err
	}
	if err := r.attachMentions(ctx, list); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *CommentRepository) Create(ctx context.Context, in domain.NewComment) (*domain.Comment, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		INSERT INTO comments AS c (content, story_id, user_id) VALUES ($1, $2, $3)
		RETURNING `+commentColumns, in.Content, in.StoryID, in.UserID)
	c, err := scanComment(row)
	if isForeignKeyViolation(err) {
		return nil, domain.ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("insert comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) Update(ctx context.Context, id uuid.UUID, content string) (*domain.Comment, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		UPDATE comments AS c SET content = $2, updated_at = NOW()
		WHERE c.id = $1
		RETURNING `+commentColumns, id, content)
	c, err := scanComment(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrCommentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.s.q(ctx).Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCommentNotFound
	}
	return nil
}

func (r *CommentRepository) CountByStory(ctx context.Context, storyID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.q(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE story_id = $1`, storyID).Scan(&n)
	return n, err
}

// attachMentions loads the mentions of every comment in list with one query.
func (r *CommentRepository) attachMentions(ctx context.Context, list []*domain.CommentWithUser) error {
	if len(list) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(list))
	byID := make(map[uuid.UUID]*domain.CommentWithUser, len(list))
	for _, c := range list {
		c.Mentions = []domain.CommentMention{}
		ids = append(ids, c.ID)
		byID[c.ID] = c
	}

	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT m.comment_id, m.id, `+authorColumns+`
		FROM mentions m JOIN users u ON u.id = m.mentioned_user_id
		WHERE m.comment_id = ANY($1::uuid[])
		ORDER BY m.created_at
	`, ids)
	if err != nil {
		return fmt.Errorf("load mentions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var commentID uuid.UUID
		var m domain.CommentMention
		if err := rows.Scan(&commentID, &m.ID, &m.MentionedUser.ID, &m.MentionedUser.Name, &m.MentionedUser.Image); err != nil {
			return fmt.Errorf("scan mention: %w", err)
		}
		if c, ok := byID[commentID]; ok {
			c.Mentions = append(c.Mentions, m)
		}
	}
	return rows.Err()
}

func scanComment(row scannable) (*domain.Comment, error) {
	var c domain.Comment
	if err := row.Scan(&c.ID, &c.Content, &c.UserID, &c.StoryID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func scanCommentWithUser(row scannable) (*domain.CommentWithUser, error) {
	var c domain.CommentWithUser
	err := row.Scan(&c.ID, &c.Content, &c.UserID, &c.StoryID, &c.CreatedAt, &c.UpdatedAt,
		&c.User.ID, &c.User.Name, &c.User.Image)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
