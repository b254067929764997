package handlers

import (
	"github.com/gofiber/websocket/v2"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/handlers/ws"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
)

type WebSocketHandler struct {
	hub      *ws.Hub
	resolver *service.GroupResolver
	runtime  *config.Runtime
}

func NewWebSocketHandler(hub *ws.Hub, resolver *service.GroupResolver, runtime *config.Runtime) *WebSocketHandler {
	return &WebSocketHandler{
		hub:      hub,
		resolver: resolver,
		runtime:  runtime,
	}
}

// GetHub returns the hub instance (useful for broadcasting from other handlers)
func (h *WebSocketHandler) GetHub() *ws.Hub {
	return h.hub
}

// HandleWebSocket runs one subscriber's session: register, greet, then
// read command frames until the connection dies. Malformed frames answer
// with an error response but keep the connection up.
func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	sub := h.hub.Connect(c)
	defer h.hub.Disconnect(sub.ID)

	ctx := &ws.MessageContext{
		Subscriber: sub,
		Hub:        h.hub,
		Resolver:   h.resolver,
		Runtime:    h.runtime,
	}

	for {
		_, raw, err := c.ReadMessage()
		if err != nil {
			return
		}

		cmd, err := ws.Deserialize(raw)
		if err != nil {
			logging.Warn("rejecting command frame", logging.Fields{
				"subscriber_id": sub.ID,
				"error":         err.Error(),
			})
			_ = ws.SendCommandError(sub, "", err.Error())
			continue
		}

		if err := cmd.Process(ctx); err != nil {
			logging.Error("command processing failed", logging.Fields{
				"subscriber_id": sub.ID,
				"action":        cmd.GetAction(),
				"error":         err.Error(),
			})
			_ = ws.SendCommandError(sub, cmd.GetAction(), "command failed")
		}
	}
}
