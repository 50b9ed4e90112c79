package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"vn.io.arda/contos/internal/domain"
)

// StoryRepository is the PostgreSQL implementation of domain.StoryRepository.
type StoryRepository struct {
	s *Store
}

const storyColumns = `s.id, s.title, s.content, s.theme, s.age_group, s.author_id, s.is_public, s.likes_count, s.created_at, s.updated_at`

const authorColumns = `u.id, u.name, COALESCE(u.image, '')`

func (r *StoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Story, error) {
	row := r.s.q(ctx).QueryRow(ctx, `SELECT `+storyColumns+` FROM stories s WHERE s.id = $1`, id)
	st, err := scanStory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStoryNotFound
	}
	return st, err
}

func (r *StoryRepository) FindByIDWithAuthor(ctx context.Context, id uuid.UUID) (*domain.StoryWithAuthor, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		SELECT `+storyColumns+`, `+authorColumns+`
		FROM stories s JOIN users u ON u.id = s.author_id
		WHERE s.id = $1
	`, id)
	st, err := scanStoryWithAuthor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStoryNotFound
	}
	return st, err
}

func (r *StoryRepository) FindAll(ctx context.Context, f domain.StoryFilter) ([]*domain.Story, error) {
	where, args := storyWhere(f)
	query := `SELECT ` + storyColumns + ` FROM stories s` + where +
		fmt.Sprintf(" ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories: %w", err)
	}
	return collect(rows, scanStory)
}

func (r *StoryRepository) FindAllWithAuthor(ctx context.Context, f domain.StoryFilter) ([]*domain.StoryWithAuthor, error) {
	where, args := storyWhere(f)
	query := `SELECT ` + storyColumns + `, ` + authorColumns +
		` FROM stories s JOIN users u ON u.id = s.author_id` + where +
		fmt.Sprintf(" ORDER BY s.created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, f.Limit, f.Offset)

	rows, err := r.s.q(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stories with author: %w", err)
	}
	return collect(rows, scanStoryWithAuthor)
}

func (r *StoryRepository) Create(ctx context.Context, in domain.NewStory) (*domain.Story, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		INSERT INTO stories AS s (title, content, theme, age_group, author_id, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+storyColumns,
		in.Title, in.Content, string(in.Theme), string(in.AgeGroup), in.AuthorID, in.IsPublic)
	st, err := scanStory(row)
	if err != nil {
		return nil, fmt.Errorf("insert story: %w", err)
	}
	return st, nil
}

func (r *StoryRepository) Update(ctx context.Context, id uuid.UUID, in domain.UpdateStoryInput) (*domain.Story, error) {
	row := r.s.q(ctx).QueryRow(ctx, `
		UPDATE stories AS s SET
			title = COALESCE($2, s.title),
			is_public = COALESCE($3, s.is_public),
			updated_at = NOW()
		WHERE s.id = $1
		RETURNING `+storyColumns, id, in.Title, in.IsPublic)
	st, err := scanStory(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStoryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update story: %w", err)
	}
	return st, nil
}

func (r *StoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.s.q(ctx).Exec(ctx, `DELETE FROM stories WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete story: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoryNotFound
	}
	return nil
}

func (r *StoryRepository) IncrementLikes(ctx context.Context, id uuid.UUID) error {
	return r.bumpLikes(ctx, id, `likes_count + 1`)
}

// DecrementLikes never takes the counter below zero.
func (r *StoryRepository) DecrementLikes(ctx context.Context, id uuid.UUID) error {
	return r.bumpLikes(ctx, id, `GREATEST(likes_count - 1, 0)`)
}

func (r *StoryRepository) bumpLikes(ctx context.Context, id uuid.UUID, expr string) error {
	tag, err := r.s.q(ctx).Exec(ctx, `UPDATE stories SET likes_count = `+expr+` WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update likes count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStoryNotFound
	}
	return nil
}

func (r *StoryRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID) (int64, error) {
	var n int64
	err := r.s.q(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM stories WHERE author_id = $1`, authorID).Scan(&n)
	return n, err
}

func storyWhere(f domain.StoryFilter) (string, []any) {
	var conds []string
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if f.AuthorID != nil {
		add("s.author_id = $%d", *f.AuthorID)
	}
	if f.Theme != "" {
		add("s.theme = $%d", string(f.Theme))
	}
	if f.AgeGroup != "" {
		add("s.age_group = $%d", string(f.AgeGroup))
	}
	if f.IsPublic != nil {
		add("s.is_public = $%d", *f.IsPublic)
	}

	if len(conds) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanStory(row scannable) (*domain.Story, error) {
	var st domain.Story
	err := row.Scan(&st.ID, &st.Title, &st.Content, &st.Theme, &st.AgeGroup,
		&st.AuthorID, &st.IsPublic, &st.LikesCount, &st.CreatedAt, &st.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &st, nil
}

func scanStoryWithAuthor(row scannable) (*domain.StoryWithAuthor, error) {
	var st domain.StoryWithAuthor
	err := row.Scan(&st.ID, &st.Title, &st.Content, &st.Theme, &st.AgeGroup,
		&st.AuthorID, &st.IsPublic, &st.LikesCount, &st.CreatedAt, &st.UpdatedAt,
		&st.Author.ID, &st.Author.Name, &st.Author.Image)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
