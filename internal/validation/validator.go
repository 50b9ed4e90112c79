// Package validation checks inputs against their struct tags and converts failures
// into a domain.ValidationError that names every violated field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"vn.io.arda/contos/internal/domain"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// messages overrides the generic message for "<Struct>.<jsonField>.<tag>".
var messages = map[string]string{
	"CreateCommentInput.content.required": "Comment cannot be empty",
	"CreateCommentInput.content.min":      "Comment cannot be empty",
	"CreateCommentInput.content.max":      "Comment is too long",
	"UpdateCommentInput.content.required": "Comment cannot be empty",
	"UpdateCommentInput.content.min":      "Comment cannot be empty",
	"UpdateCommentInput.content.max":      "Comment is too long",
	"CreateStoryInput.title.required":     "Title is required",
	"CreateStoryInput.title.max":          "Title is too long",
	"CreateStoryInput.prompt.min":         "Prompt must be at least 10 characters",
	"UpdateStoryInput.title.min":          "Title cannot be empty",
}

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
			return domain.Theme(fl.Field().String()).Valid()
		})
		_ = v.RegisterValidation("agegroup", func(fl validator.FieldLevel) bool {
			return domain.AgeGroup(fl.Field().String()).Valid()
		})
		instance = v
	})
	return instance
}

// Validate returns nil when input satisfies its tags, a *domain.ValidationError
// listing each violation otherwise.
func Validate(input any) error {
	err := get().Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate input: %w", err)
	}

	out := &domain.ValidationError{Fields: make([]domain.FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields = append(out.Fields, domain.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return out
}

func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Namespace()+"."+fe.Tag()]; ok {
		return msg
	}

	field, param := fe.Field(), fe.Param()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of the following values: %s", field, param)
	case "theme":
		return fmt.Sprintf("%s must be a known story theme", field)
	case "agegroup":
		return fmt.Sprintf("%s must be one of 3-5, 6-8, 9-12", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
