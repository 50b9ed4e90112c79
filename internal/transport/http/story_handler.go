package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"vn.io.arda/contos/internal/domain"
	"vn.io.arda/contos/internal/transport/mw"
)

type createStoryRequest struct {
	domain.CreateStoryInput
	CharacterName string `json:"characterName"`
}

// ListStories GET /stories
func (h *Handler) ListStories(c echo.Context) error {
	filter, err := storyFilter(c)
	if err != nil {
		return fail(c, err)
	}
	list, err := h.stories.GetPublicStories(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, list)
}

// ListMyStories GET /stories/my
func (h *Handler) ListMyStories(c echo.Context) error {
	filter, err := storyFilter(c)
	if err != nil {
		return fail(c, err)
	}
	list, err := h.stories.GetUserStories(c.Request().Context(), mustUser(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, list)
}

// GetStory GET /stories/:id
// Private stories are only visible to their author; everyone else gets 404.
func (h *Handler) GetStory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	story, err := h.stories.GetByIDWithAuthor(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}
	if !story.IsPublic {
		if caller, ok := mw.UserID(c); !ok || caller != story.AuthorID {
			return fail(c, domain.ErrStoryNotFound)
		}
	}
	return ok(c, http.StatusOK, story)
}

// CreateStory POST /stories
func (h *Handler) CreateStory(c echo.Context) error {
	var req createStoryRequest
	if err := bind(c, &req); err != nil {
		return fail(c, err)
	}
	story, err := h.stories.Create(c.Request().Context(), req.CreateStoryInput, mustUser(c), req.CharacterName)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, story)
}

// UpdateStory PATCH /stories/:id
func (h *Handler) UpdateStory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var input domain.UpdateStoryInput
	if err := bind(c, &input); err != nil {
		return fail(c, err)
	}
	story, err := h.stories.Update(c.Request().Context(), id, input, mustUser(c))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, story)
}

// DeleteStory DELETE /stories/:id
func (h *Handler) DeleteStory(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	if err := h.stories.Delete(c.Request().Context(), id, mustUser(c)); err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, nil)
}

func storyFilter(c echo.Context) (domain.StoryFilter, error) {
	limit, err := queryInt(c, "limit", 0)
	if err != nil {
		return domain.StoryFilter{}, err
	}
	offset, err := queryInt(c, "offset", 0)
	if err != nil {
		return domain.StoryFilter{}, err
	}
	return domain.StoryFilter{
		Theme:    domain.Theme(c.QueryParam("theme")),
		AgeGroup: domain.AgeGroup(c.QueryParam("ageGroup")),
		Limit:    limit,
		Offset:   offset,
	}, nil
}
