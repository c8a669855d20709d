package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/learncircle/internal/app/repositories"
	"github.com/yigit/learncircle/internal/middleware"
	"github.com/yigit/learncircle/internal/pkg/helpers"
)

// Handler upgrades circle subscription requests to websocket connections
type Handler struct {
	hub        *Hub
	circleRepo repositories.ICircleRepository
	logger     zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, circleRepo repositories.ICircleRepository, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:        hub,
		circleRepo: circleRepo,
		logger:     logger,
	}
}

// HandleConnection godoc
// @Summary Subscribe to a circle's messages
// @Description Upgrades to a WebSocket that receives every message posted to the circle. The token may be passed as ?token=.
// @Tags messages
// @Security BearerAuth
// @Param id path int true "Circle ID"
// @Param token query string false "Access token"
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /circles/{id}/messages/ws [get]
func (h *Handler) HandleConnection(c *gin.Context) {
	circleID, err := helpers.ParseIDParam(c, "id")
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	if _, err := h.circleRepo.GetByID(c.Request.Context(), circleID); err != nil {
		middleware.HandleAPIError(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error to the client
		h.logger.Warn().Err(err).Int64("circleID", circleID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		circleID: circleID,
		logger:   h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.Stopped():
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
