package ws

import (
	"fmt"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
)

// SetDanmakuSpeedCommand persists a new scroll speed and announces it to
// every subscriber.
type SetDanmakuSpeedCommand struct {
	Speed int `json:"speed"`
}

func init() {
	RegisterCommand(&SetDanmakuSpeedCommand{})
}

func (c *SetDanmakuSpeedCommand) GetAction() string {
	return "set_danmaku_speed"
}

func (c *SetDanmakuSpeedCommand) Process(ctx *MessageContext) error {
	ok, err := ctx.Runtime.SetDanmakuSpeed(c.Speed)
	if err != nil {
		return err
	}
	if !ok {
		message := fmt.Sprintf("speed must be between %d and %d", config.MinDanmakuSpeed, config.MaxDanmakuSpeed)
		return ctx.Subscriber.Send(errorResponse(c.GetAction(), message))
	}

	ctx.Hub.BroadcastToAll(SettingUpdateFrame{
		Type:  "setting_update",
		Key:   "danmaku_speed",
		Value: c.Speed,
	})
	data := map[string]any{"speed": c.Speed}
	return ctx.Subscriber.Send(successResponse(c.GetAction(), fmt.Sprintf("danmaku speed set to %d", c.Speed), data))
}
