package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
)

// envelope is the body of every JSON response.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

func ok(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data})
}

// errorStatus maps a domain error to its HTTP status and public message.
var errorStatus = []struct {
	err     error
	status  int
	message string
}{
	{domain.ErrNotLiked, http.StatusNotFound, "Not liked"},
	{domain.ErrStoryNotFound, http.StatusNotFound, "Story not found"},
	{domain.ErrCommentNotFound, http.StatusNotFound, "Comment not found"},
	{domain.ErrNotificationNotFound, http.StatusNotFound, "Notification not found"},
	{domain.ErrUnauthorized, http.StatusForbidden, "Forbidden"},
	{domain.ErrAlreadyLiked, http.StatusConflict, "Already liked"},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later."},
	{domain.ErrUpstream, http.StatusBadGateway, "Story generation failed"},
	{domain.ErrGeneratorNotConfigured, http.StatusServiceUnavailable, "Story generation is not available"},
}

// fail writes err as an error envelope.
func fail(c echo.Context, err error) error {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return c.JSON(http.StatusBadRequest, envelope{Error: "Validation error", Details: ve.Fields})
	}
	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return c.JSON(m.status, envelope{Error: m.message})
		}
	}

	log.Error().Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("request failed")
	return c.JSON(http.StatusInternalServerError, envelope{Error: "Internal server error"})
}

// ErrorHandler renders echo errors (auth, routing, binding) in the envelope shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var he *echo.HTTPError
	if !errors.As(err, &he) {
		_ = fail(c, err)
		return
	}

	msg := http.StatusText(he.Code)
	if s, ok := he.Message.(string); ok && s != "" {
		msg = s
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(he.Code)
		return
	}
	_ = c.JSON(he.Code, envelope{Error: msg})
}

func invalid(field, message string) error {
	return &domain.ValidationError{Fields: []domain.FieldError{{Field: field, Message: message}}}
}

// pathID parses the :name path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, invalid(name, name+" must be a valid id")
	}
	return id, nil
}

// queryID parses a required UUID query parameter.
func queryID(c echo.Context, name string) (uuid.UUID, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return uuid.Nil, invalid(name, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, invalid(name, name+" must be a valid id")
	}
	return id, nil
}

// queryInt returns def when the parameter is absent.
func queryInt(c echo.Context, name string, def int) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalid(name, name+" must be a number")
	}
	return v, nil
}

// bind decodes the JSON body into v.
func bind(c echo.Context, v any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return invalid("body", "Invalid JSON body")
	}
	return nil
}
