package domain

import (
	"errors"
	"strings"
)

var (
	// ErrStoryNotFound indicates the referenced story doesn't exist
	ErrStoryNotFound = errors.New("story not found")

	// ErrCommentNotFound indicates the referenced comment doesn't exist
	ErrCommentNotFound = errors.New("comment not found")

	// ErrNotificationNotFound indicates the referenced notification doesn't exist
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrLikeNotFound is returned by LikeRepository when no like row matches
	ErrLikeNotFound = errors.New("like not found")

	// ErrUserNotFound is returned by UserLookupRepository.FindByUsername
	ErrUserNotFound = errors.New("user not found")

	// ErrUnauthorized indicates the actor does not own the resource
	ErrUnauthorized = errors.New("unauthorized")

	// ErrAlreadyLiked indicates the user already liked the story
	ErrAlreadyLiked = errors.New("already liked")

	// ErrNotLiked indicates an unlike for a pair that was never liked
	ErrNotLiked = errors.New("not liked")

	// ErrRateLimited indicates story generation was refused by admission control
	ErrRateLimited = errors.New("rate limit exceeded, please try again later")

	// ErrGeneratorNotConfigured indicates the generator has no API credential
	ErrGeneratorNotConfigured = errors.New("story generator is not configured")

	// ErrUpstream indicates the generation API failed or returned nothing usable
	ErrUpstream = errors.New("story generation failed")
)

// FieldError is one violated constraint on an input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every invalid field of an input at once.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsNotFound checks if an error is a "not found" error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrStoryNotFound) ||
		errors.Is(err, ErrCommentNotFound) ||
		errors.Is(err, ErrNotificationNotFound) ||
		errors.Is(err, ErrNotLiked)
}

// IsConflict checks if an error is a conflict error
func IsConflict(err error) bool {
	return errors.Is(err, ErrAlreadyLiked)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUnauthorized checks if an error is an ownership violation
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
