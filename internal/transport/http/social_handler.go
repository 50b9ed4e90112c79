package http

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/transport/mw"
)

type likeRequest struct {
	StoryID uuid.UUID `json:"storyId"`
}

// Like POST /social/likes
func (h *Handler) Like(c echo.Context) error {
	var req likeRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	if req.StoryID == uuid.Nil {
		return fail(c, invalid("storyId", "storyId is required"))
	}
	like, err := h.likes.Like(c.Request().Context(), mustUser(c), req.StoryID, mw.UserName(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, like)
}

// Unlike DELETE /social/likes?storyId=
func (h *Handler) Unlike(c echo.Context) error {
	storyID, err := queryID(c, "storyId")
	if err != nil {
		return fail(c, err)
	}
	if err := h.likes.Unlike(c.Request().Context(), mustUser(c), storyID); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

// ListLikes GET /social/likes?storyId=
// isLiked is false for anonymous callers.
func (h *Handler) ListLikes(c echo.Context) error {
	storyID, err := queryID(c, "storyId")
	if err != nil {
		return fail(c, err)
	}
	ctx := c.Request().Context()

	likes, err := h.likes.GetLikesByStory(ctx, storyID)
	if err != nil {
		return fail(c, err)
	}

	liked := false
	if caller, ok := mw.UserID(c); ok {
		if liked, err = h.likes.IsLiked(ctx, caller, storyID); err != nil {
			return fail(c, err)
		}
	}

	return ok(c, http.StatusOK, map[string]any{
		"likes":   likes,
		"count":   len(likes),
		"isLiked": liked,
	})
}

// ListComments GET /social/comments?storyId=
func (h *Handler) ListComments(c echo.Context) error {
	storyID, err := queryID(c, "storyId")
	if err != nil {
		return fail(c, err)
	}
	limit, err := queryInt(c, "limit", domain.DefaultPageLimit)
	if err != nil {
		return fail(c, err)
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return fail(c, err)
	}
	list, err := h.comments.GetByStory(c.Request().Context(), storyID, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, list)
}

// GetComment GET /social/comments/:id
func (h *Handler) GetComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	comment, err := h.comments.GetByID(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, comment)
}

// CreateComment POST /social/comments
func (h *Handler) CreateComment(c echo.Context) error {
	var input domain.CreateCommentInput
	if err := bind(c, &input); err != nil {
		return fail(c, err)
	}
	comment, err := h.comments.Create(c.Request().Context(), input, mustUser(c), mw.UserName(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, comment)
}

// UpdateComment PATCH /social/comments/:id
func (h *Handler) UpdateComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var input domain.UpdateCommentInput
	if err := bind(c, &input); err != nil {
		return fail(c, err)
	}
	comment, err := h.comments.Update(c.Request().Context(), id, input, mustUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, comment)
}

// DeleteComment DELETE /social/comments/:id
func (h *Handler) DeleteComment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.comments.Delete(c.Request().Context(), id, mustUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, nil)
}
