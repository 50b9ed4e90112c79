package http

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"vn.io.arda/contos/internal/transport/mw"
)

// NewRouter sets up all Echo routes and middleware.
func NewRouter(h *Handler, jwtSecret []byte, allowOrigins []string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler

	if len(allowOrigins) == 0 {
		allowOrigins = []string{"*"}
	}

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: allowOrigins,
		AllowHeaders: []string{"Authorization", "Content-Type"},
		AllowMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	}))

	auth := mw.JWTAuth(jwtSecret)
	optional := mw.OptionalJWTAuth(jwtSecret)

	// Health (no auth required)
	e.GET("/health", h.Health)

	// Stories
	e.GET("/stories", h.ListStories)
	e.GET("/stories/my", h.ListMyStories, auth)
	e.GET("/stories/:id", h.GetStory, optional)
	e.POST("/stories", h.CreateStory, auth)
	e.PATCH("/stories/:id", h.UpdateStory, auth)
	e.DELETE("/stories/:id", h.DeleteStory, auth)

	// Social
	e.GET("/social/likes", h.ListLikes, optional)
	e.POST("/social/likes", h.Like, auth)
	e.DELETE("/social/likes", h.Unlike, auth)
	e.GET("/social/comments", h.ListComments)
	e.GET("/social/comments/:id", h.GetComment)
	e.POST("/social/comments", h.CreateComment, auth)
	e.PATCH("/social/comments/:id", h.UpdateComment, auth)
	e.DELETE("/social/comments/:id", h.DeleteComment, auth)

	// Notifications
	e.GET("/notifications", h.ListNotifications, auth)
	e.GET("/notifications/unread-count", h.GetUnreadCount, auth)
	e.GET("/notifications/stream", h.Stream, auth)
	e.PATCH("/notifications/:id/read", h.MarkRead, auth)
	e.POST("/notifications/read-all", h.MarkAllRead, auth)
	e.DELETE("/notifications/:id", h.DeleteNotification, auth)

	return e
}
