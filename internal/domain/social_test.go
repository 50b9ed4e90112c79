package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"vn.io.arda/contos/internal/domain"
)

func TestExtractMentions(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{"single", "Hello @john!", []string{"john"}},
		{"multiple", "Hey @john and @jane!", []string{"john", "jane"}},
		{"duplicates keep first occurrence", "@john @jane @john", []string{"john", "jane"}},
		{"none", "No mentions here", []string{}},
		{"start of string", "@admin please check", []string{"admin"}},
		{"underscores", "Thanks @john_doe", []string{"john_doe"}},
		{"digits", "cc @user42", []string{"user42"}},
		{"case sensitive", "@John @john", []string{"John", "john"}},
		{"email address matches domain label", "Contact me at test@example.com", []string{"example"}},
		{"bare at sign", "meet @ noon", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.ExtractMentions(tt.content))
		})
	}
}

func TestValidationError_EnumeratesFields(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "title", Message: "Title is required"},
		{Field: "prompt", Message: "Prompt must be at least 10 characters"},
	}}

	assert.Equal(t, "validation failed: title: Title is required; prompt: Prompt must be at least 10 characters", err.Error())
	assert.True(t, domain.IsValidation(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, domain.IsValidation(errors.New("plain")))
}

func TestErrorClassification(t *testing.T) {
	assert.True(t, domain.IsNotFound(fmt.Errorf("x: %w", domain.ErrStoryNotFound)))
	assert.True(t, domain.IsNotFound(domain.ErrNotLiked))
	assert.False(t, domain.IsNotFound(domain.ErrUnauthorized))
	assert.True(t, domain.IsConflict(domain.ErrAlreadyLiked))
}

func TestThemeAndAgeGroupValid(t *testing.T) {
	for _, th := range domain.Themes {
		assert.True(t, th.Valid(), th)
	}
	assert.False(t, domain.Theme("horror").Valid())
	assert.True(t, domain.AgeGroup("6-8").Valid())
	assert.False(t, domain.AgeGroup("13-17").Valid())
}
