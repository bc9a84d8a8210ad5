package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hzhou826/chatrelay/internal/domain"
)

// StreamChat relays the model reply as a server-sent-event stream. Each
// event is a JSON object: {"content": s} fragments, one terminal
// {"done": true}, or an in-band {"error": s}.
// GET /chat/stream/:session_id?message=...
func (h *Handler) StreamChat(c echo.Context) error {
	ctx := c.Request().Context()
	sessionID := c.Param("session_id")
	message := c.QueryParam("message")

	if message == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "message query parameter is required"})
	}

	res := c.Response()

	// Headers go out with the first event, so failures before streaming can
	// still answer with a plain status code.
	headersSent := false
	emit := func(e domain.StreamEvent) error {
		if !headersSent {
			res.Header().Set(echo.HeaderContentType, "text/event-stream")
			res.Header().Set("Cache-Control", "no-cache")
			res.Header().Set("Connection", "keep-alive")
			res.Header().Set("X-Accel-Buffering", "no")
			res.Header().Set(echo.HeaderAccessControlAllowOrigin, "*")
			res.WriteHeader(http.StatusOK)
			headersSent = true
		}

		data, err := json.Marshal(e)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(res, "data: %s\n\n", data); err != nil {
			return err
		}
		res.Flush()
		return nil
	}

	if err := h.service.StreamChat(ctx, sessionID, message, emit); err != nil {
		status, msg := errorResponse(err)
		if status == http.StatusInternalServerError {
			log.Printf("ERROR: stream request for session %s failed: %v", sessionID, err)
		}
		return c.JSON(status, map[string]string{"error": msg})
	}
	return nil
}
