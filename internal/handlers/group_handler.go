package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/httpx"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
)

const defaultRecentLimit = 20

type GroupHandler struct {
	directory *service.DirectoryService
}

func NewGroupHandler(directory *service.DirectoryService) *GroupHandler {
	return &GroupHandler{directory: directory}
}

// ListGroups returns the group directory merged with saved aliases and
// favorites.
func (h *GroupHandler) ListGroups(c *fiber.Ctx) error {
	groups, err := h.directory.ListGroups()
	if err != nil {
		logging.Error("group directory query failed", logging.Fields{"error": err.Error()})
		return httpx.Internal(c, "groups_query_failed")
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"groups": groups,
	})
}

// RecentMessages returns the last messages of the group behind a session
// id, oldest first, shaped like danmaku frames.
func (h *GroupHandler) RecentMessages(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", defaultRecentLimit)

	messages, err := h.directory.RecentMessages(c.Params("session_id"), limit)
	if errors.Is(err, service.ErrInvalidSessionID) {
		return httpx.BadRequest(c, "invalid_session_id", "Session id must be numeric")
	}
	if errors.Is(err, service.ErrGroupNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"status":  "error",
			"message": "No group found for this session",
		})
	}
	if err != nil {
		logging.Error("recent messages query failed", logging.Fields{
			"session_id": c.Params("session_id"),
			"error":      err.Error(),
		})
		return httpx.Internal(c, "recent_messages_query_failed")
	}

	return c.JSON(fiber.Map{
		"status":   "success",
		"messages": messages,
	})
}
