package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/blueprints-backend/internal/platform/logger"
	"github.com/yungbote/blueprints-backend/internal/realtime"
)

type RealtimeHandler struct {
	log *logger.Logger
	hub *realtime.SSEHub
}

func NewRealtimeHandler(log *logger.Logger, hub *realtime.SSEHub) *RealtimeHandler {
	return &RealtimeHandler{log: log.With("handler", "RealtimeHandler"), hub: hub}
}

// GET /api/v1/events?author=acme
func (h *RealtimeHandler) Stream(c *gin.Context) {
	channel := realtime.ChannelAll
	if author := strings.TrimSpace(c.Query("author")); author != "" {
		channel = realtime.AuthorChannel(author)
	}
	client := h.hub.NewSSEClient()
	h.hub.AddChannel(client, channel)
	defer h.hub.CloseClient(client)

	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
