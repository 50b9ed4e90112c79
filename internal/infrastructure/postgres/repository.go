package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"vn.io.arda/contos/internal/domain"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

var (
	_ domain.Transactor             = (*Store)(nil)
	_ domain.StoryRepository        = (*StoryRepository)(nil)
	_ domain.LikeRepository         = (*LikeRepository)(nil)
	_ domain.CommentRepository      = (*CommentRepository)(nil)
	_ domain.MentionRepository      = (*MentionRepository)(nil)
	_ domain.UserLookupRepository   = (*UserRepository)(nil)
	_ domain.NotificationRepository = (*NotificationRepository)(nil)
)

type txKey struct{}

// Store owns the pool and hands every repository the right querier for ctx.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store over pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// WithinTx implements domain.Transactor. Nested calls join the outer transaction.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}
	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

func (s *Store) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return s.pool
}

func (s *Store) Stories() *StoryRepository             { return &StoryRepository{s} }
func (s *Store) Likes() *LikeRepository                 { return &LikeRepository{s} }
func (s *Store) Comments() *CommentRepository           { return &CommentRepository{s} }
func (s *Store) Mentions() *MentionRepository           { return &MentionRepository{s} }
func (s *Store) Users() *UserRepository                 { return &UserRepository{s} }
func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{s} }

// scannable is a pgx.Row or the current row of pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	return hasCode(err, "23505")
}

// isForeignKeyViolation reports a reference to a row that does not exist.
func isForeignKeyViolation(err error) bool {
	return hasCode(err, "23503")
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// collect scans every row with scan. The result is never nil.
func collect[T any](rows pgx.Rows, scan func(scannable) (*T, error)) ([]*T, error) {
	defer rows.Close()
	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
