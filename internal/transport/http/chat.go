package http

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// Chat answers a single message without session context.
// POST /chat
func (h *Handler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.Chat(ctx, req.Message)
	if err != nil {
		status, msg := errorResponse(err)
		if status == http.StatusInternalServerError {
			log.Printf("ERROR: chat request failed: %v", err)
		}
		return c.JSON(status, map[string]string{"error": msg})
	}
	return c.JSON(http.StatusOK, resp)
}

// CreateSession creates a session eagerly and returns its id.
// POST /chat/session
func (h *Handler) CreateSession(c echo.Context) error {
	ctx := c.Request().Context()

	created, err := h.service.CreateSession(ctx)
	if err != nil {
		log.Printf("ERROR: failed to create session: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
	return c.JSON(http.StatusOK, created)
}

// ChatWithSession answers a message with session context and persists the
// completed turn.
// POST /chat/:session_id
func (h *Handler) ChatWithSession(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	var req domain.ChatRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	resp, err := h.service.ChatWithSession(ctx, sessionID, req.Message)
	if err != nil {
		status, msg := errorResponse(err)
		if status == http.StatusInternalServerError {
			log.Printf("ERROR: chat request for session %s failed: %v", sessionID, err)
		}
		return c.JSON(status, map[string]string{"error": msg})
	}
	return c.JSON(http.StatusOK, resp)
}
