package http

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
)

// History returns the persisted turns of a session in timestamp order.
// GET /history/:session_id
func (h *Handler) History(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")

	history, err := h.service.History(ctx, sessionID)
	if err != nil {
		log.Printf("ERROR: failed to get history for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to retrieve chat history"})
	}
	return c.JSON(http.StatusOK, history)
}

// Sessions lists all sessions, most recently active first.
// GET /sessions
func (h *Handler) Sessions(c echo.Context) error {
	ctx := c.Request().Context()

	sessions, err := h.service.Sessions(ctx)
	if err != nil {
		log.Printf("ERROR: failed to list sessions: %v", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to retrieve sessions"})
	}
	return c.JSON(http.StatusOK, sessions)
}
