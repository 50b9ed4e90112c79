package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/transport/mw"
)

// StoryUseCases is the story surface the HTTP layer calls.
type StoryUseCases interface {
	GetByIDWithAuthor(ctx context.Context, id uuid.UUID) (*domain.StoryWithAuthor, error)
	GetPublicStories(ctx context.Context, filter domain.StoryFilter) ([]*domain.StoryWithAuthor, error)
	GetUserStories(ctx context.Context, authorID uuid.UUID, filter domain.StoryFilter) ([]*domain.Story, error)
	Create(ctx context.Context, input domain.CreateStoryInput, authorID uuid.UUID, characterName string) (*domain.Story, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateStoryInput, authorID uuid.UUID) (*domain.Story, error)
	Delete(ctx context.Context, id, authorID uuid.UUID) error
}

type LikeUseCases interface {
	Like(ctx context.Context, userID, storyID uuid.UUID, userName string) (*domain.Like, error)
	Unlike(ctx context.Context, userID, storyID uuid.UUID) error
	IsLiked(ctx context.Context, userID, storyID uuid.UUID) (bool, error)
	GetLikesByStory(ctx context.Context, storyID uuid.UUID) ([]*domain.LikeWithUser, error)
}

type CommentUseCases interface {
	Create(ctx context.Context, input domain.CreateCommentInput, userID uuid.UUID, userName string) (*domain.Comment, error)
	Update(ctx context.Context, id uuid.UUID, input domain.UpdateCommentInput, userID uuid.UUID) (*domain.Comment, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	GetByStory(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*domain.CommentWithUser, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.CommentWithUser, error)
}

type NotificationUseCases interface {
	GetByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.NotificationWithMeta, error)
	GetUnreadByUser(ctx context.Context, userID uuid.UUID) ([]*domain.NotificationWithMeta, error)
	GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkAsRead(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

// Handler holds all HTTP handler methods.
type Handler struct {
	stories       StoryUseCases
	likes         LikeUseCases
	comments      CommentUseCases
	notifications NotificationUseCases
	hub           *Hub
	keepalive     time.Duration
}

// NewHandler creates a new Handler. keepalive is the SSE comment interval.
func NewHandler(
	stories StoryUseCases,
	likes LikeUseCases,
	comments CommentUseCases,
	notifications NotificationUseCases,
	hub *Hub,
	keepalive time.Duration,
) *Handler {
	if keepalive <= 0 {
		keepalive = 30 * time.Second
	}
	return &Handler{
		stories:       stories,
		likes:         likes,
		comments:      comments,
		notifications: notifications,
		hub:           hub,
		keepalive:     keepalive,
	}
}

// --- Notifications ---

// ListNotifications GET /notifications
func (h *Handler) ListNotifications(c echo.Context) error {
	userID := mustUser(c)
	ctx := c.Request().Context()

	var (
		list []*domain.NotificationWithMeta
		err  error
	)
	if c.QueryParam("unread") == "true" {
		list, err = h.notifications.GetUnreadByUser(ctx, userID)
	} else {
		limit, lerr := queryInt(c, "limit", domain.DefaultPageLimit)
		if lerr != nil {
			return fail(c, lerr)
		}
		offset, oerr := queryInt(c, "offset", 0)
		if oerr != nil {
			return fail(c, oerr)
		}
		list, err = h.notifications.GetByUser(ctx, userID, limit, offset)
	}
	if err != nil {
		return fail(c, err)
	}

	unread, err := h.notifications.GetUnreadCount(ctx, userID)
	if err != nil {
		return fail(c, err)
	}

	return ok(c, http.StatusOK, map[string]any{
		"notifications": list,
		"unreadCount":   unread,
	})
}

// GetUnreadCount GET /notifications/unread-count
func (h *Handler) GetUnreadCount(c echo.Context) error {
	count, err := h.notifications.GetUnreadCount(c.Request().Context(), mustUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]int64{"count": count})
}

// MarkRead PATCH /notifications/:id/read
func (h *Handler) MarkRead(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	n, err := h.notifications.MarkAsRead(c.Request().Context(), id, mustUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, n)
}

// MarkAllRead POST /notifications/read-all
func (h *Handler) MarkAllRead(c echo.Context) error {
	count, err := h.notifications.MarkAllAsRead(c.Request().Context(), mustUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, map[string]int64{"marked": count})
}

// DeleteNotification DELETE /notifications/:id
func (h *Handler) DeleteNotification(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.notifications.Delete(c.Request().Context(), id, mustUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

// --- SSE Handler ---

// Stream GET /notifications/stream
func (h *Handler) Stream(c echo.Context) error {
	userID := mustUser(c)

	w := c.Response()
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	client := h.hub.Register(userID)
	defer h.hub.Unregister(client)

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"ok\"}\n\n")
	w.Flush()

	log.Info().Str("user", userID.String()).Msg("SSE stream opened")

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	ctx := c.Request().Context()
	for {
		select {
		case msg := <-client.Send():
			if _, err := w.Write(msg); err != nil {
				return nil
			}
			w.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return nil
			}
			w.Flush()

		case <-client.Done():
			log.Info().Str("user", userID.String()).Msg("SSE stream replaced by a newer connection")
			return nil

		case <-ctx.Done():
			log.Info().Str("user", userID.String()).Msg("SSE stream closed by client")
			return nil
		}
	}
}

// --- Healthcheck ---

// Health GET /health
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":      "ok",
		"sse_clients": h.hub.ConnectedCount(),
	})
}

// mustUser returns the authenticated caller. Only valid behind mw.JWTAuth.
func mustUser(c echo.Context) uuid.UUID {
	id, _ := mw.UserID(c)
	return id
}
