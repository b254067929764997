package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/handlers/ws"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/httpx"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/logging"
)

// SettingsHandler exposes the persisted viewer settings over REST. Changes
// that viewers render live (speed, active group) are also pushed to every
// websocket subscriber as setting_update frames.
type SettingsHandler struct {
	runtime         *config.Runtime
	hub             *ws.Hub
	maxDanmakuCount int
}

func NewSettingsHandler(runtime *config.Runtime, hub *ws.Hub, maxDanmakuCount int) *SettingsHandler {
	return &SettingsHandler{
		runtime:         runtime,
		hub:             hub,
		maxDanmakuCount: maxDanmakuCount,
	}
}

func (h *SettingsHandler) GetSettings(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":            "success",
		"settings":          h.runtime.Snapshot(),
		"max_danmaku_count": h.maxDanmakuCount,
	})
}

type SetSpeedRequest struct {
	Speed int `json:"speed"`
}

func (h *SettingsHandler) SetSpeed(c *fiber.Ctx) error {
	var req SetSpeedRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	ok, err := h.runtime.SetDanmakuSpeed(req.Speed)
	if err != nil {
		logging.Error("saving danmaku speed failed", logging.Fields{"error": err.Error()})
		return httpx.Internal(c, "settings_write_failed")
	}
	if !ok {
		message := fmt.Sprintf("Speed must be between %d and %d", config.MinDanmakuSpeed, config.MaxDanmakuSpeed)
		return httpx.BadRequest(c, "speed_out_of_range", message)
	}

	h.hub.BroadcastToAll(ws.SettingUpdateFrame{
		Type:  "setting_update",
		Key:   "danmaku_speed",
		Value: req.Speed,
	})
	return c.JSON(fiber.Map{"status": "success", "speed": req.Speed})
}

type SetActiveGroupRequest struct {
	GroupID string `json:"group_id"`
}

func (h *SettingsHandler) SetActiveGroup(c *fiber.Ctx) error {
	var req SetActiveGroupRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if err := h.runtime.SetActiveGroup(req.GroupID); err != nil {
		logging.Error("saving active group failed", logging.Fields{"error": err.Error()})
		return httpx.Internal(c, "settings_write_failed")
	}

	h.hub.BroadcastToAll(ws.SettingUpdateFrame{
		Type:  "setting_update",
		Key:   "active_group",
		Value: req.GroupID,
	})
	return c.JSON(fiber.Map{"status": "success", "active_group_id": req.GroupID})
}

type SetAliasRequest struct {
	Alias string `json:"alias"`
}

func (h *SettingsHandler) SetAlias(c *fiber.Ctx) error {
	groupID := c.Params("group_id")
	if groupID == "" {
		return httpx.BadRequest(c, "missing_group_id", "Group id is required")
	}

	var req SetAliasRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if err := h.runtime.SetGroupAlias(groupID, req.Alias); err != nil {
		logging.Error("saving group alias failed", logging.Fields{"error": err.Error()})
		return httpx.Internal(c, "settings_write_failed")
	}
	return c.JSON(fiber.Map{"status": "success", "group_id": groupID, "alias": req.Alias})
}

type SetFavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

func (h *SettingsHandler) SetFavorite(c *fiber.Ctx) error {
	groupID := c.Params("group_id")
	if groupID == "" {
		return httpx.BadRequest(c, "missing_group_id", "Group id is required")
	}

	var req SetFavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "invalid_body", "Invalid request body")
	}

	if err := h.runtime.ToggleFavorite(groupID, req.Favorite); err != nil {
		logging.Error("saving favorite failed", logging.Fields{"error": err.Error()})
		return httpx.Internal(c, "settings_write_failed")
	}
	return c.JSON(fiber.Map{"status": "success", "group_id": groupID, "favorite": req.Favorite})
}
