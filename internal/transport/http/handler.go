// Package http provides the HTTP transport for the chat relay.
package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hzhou826/chatrelay/internal/domain"
	"github.com/hzhou826/chatrelay/internal/service"
)

// Handler handles HTTP requests.
type Handler struct {
	service *service.Service
}

// NewHandler creates a new handler.
func NewHandler(service *service.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes registers routes with the echo server.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/chat", h.Chat)
	e.POST("/chat/session", h.CreateSession)
	e.POST("/chat/:session_id", h.ChatWithSession)
	e.GET("/chat/stream/:session_id", h.StreamChat)

	e.GET("/history/:session_id", h.History)
	e.GET("/sessions", h.Sessions)

	e.GET("/health", h.Health)
}

// Health returns health status.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": "0.1.0",
	})
}

// errorResponse maps an error to the HTTP status and user-facing message.
// Validation failures carry their reason; everything else is a generic 500
// with the detail kept server-side.
func errorResponse(err error) (int, string) {
	var valErr *domain.ValidationError
	if errors.As(err, &valErr) {
		return http.StatusBadRequest, valErr.Reason
	}
	return http.StatusInternalServerError, "internal server error"
}
