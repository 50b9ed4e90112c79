package postgres

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"vn.io.arda/contos/internal/domain"
)

func TestStoryWhere(t *testing.T) {
	author := uuid.New()
	public := true

	where, args := storyWhere(domain.StoryFilter{})
	assert.Empty(t, where)
	assert.Empty(t, args)

	where, args = storyWhere(domain.StoryFilter{
		AuthorID: &author,
		Theme:    domain.ThemeSpace,
		AgeGroup: domain.AgeGroupMiddle,
		IsPublic: &public,
	})
	assert.Equal(t, " WHERE s.author_id = $1 AND s.theme = $2 AND s.age_group = $3 AND s.is_public = $4", where)
	assert.Equal(t, []any{author, "space", "9-12", true}, args)
}

func TestConstraintViolations(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	assert.True(t, isUniqueViolation(dup))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert like: %w", dup)))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(fmt.Errorf("boom")))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrations.ReadDir("migrations")
	assert.NoError(t, err)
	assert.NotEmpty(t, entries)
}
