package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"vn.io.arda/contos/internal/domain"
)

// UserRepository resolves @mention names. Accounts themselves are managed elsewhere.
type UserRepository struct {
	s *Store
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	var u domain.User
	err := r.s.q(ctx).QueryRow(ctx,
		`SELECT id, name FROM users WHERE lower(name) = lower($1) ORDER BY created_at LIMIT 1`, username,
	).Scan(&u.ID, &u.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

// FindByUsernames matches names case-insensitively. Unknown names are skipped.
func (r *UserRepository) FindByUsernames(ctx context.Context, usernames []string) ([]domain.User, error) {
	if len(usernames) == 0 {
		return []domain.User{}, nil
	}
	rows, err := r.s.q(ctx).Query(ctx, `
		SELECT id, name FROM users
		WHERE lower(name) IN (SELECT lower(n) FROM unnest($1::text[]) AS n)
	`, usernames)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer rows.Close()

	out := make([]domain.User, 0, len(usernames))
	for rows.Next() {
		var u domain.User
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
