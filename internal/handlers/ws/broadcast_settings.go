package ws

// BroadcastSettingsCommand pushes an arbitrary settings object to every
// subscriber. The relay does not interpret the keys; it only rejects an
// empty push.
type BroadcastSettingsCommand struct {
	Settings map[string]any `json:"settings"`
}

func init() {
	RegisterCommand(&BroadcastSettingsCommand{})
}

func (c *BroadcastSettingsCommand) GetAction() string {
	return "broadcast_settings"
}

func (c *BroadcastSettingsCommand) Process(ctx *MessageContext) error {
	if len(c.Settings) == 0 {
		return ctx.Subscriber.Send(errorResponse(c.GetAction(), "settings must be a non-empty object"))
	}

	ctx.Hub.BroadcastToAll(SettingUpdateFrame{
		Type:     "setting_update",
		Settings: c.Settings,
	})
	return ctx.Subscriber.Send(successResponse(c.GetAction(), "settings broadcast to all subscribers", nil))
}
