package ws

// GetActiveFilterCommand reports the filter currently applied to the
// calling subscriber, whether inherited from the global filter or set per
// connection.
type GetActiveFilterCommand struct{}

func init() {
	RegisterCommand(&GetActiveFilterCommand{})
}

func (c *GetActiveFilterCommand) GetAction() string {
	return "get_active_filter"
}

func (c *GetActiveFilterCommand) Process(ctx *MessageContext) error {
	filter := ctx.Subscriber.Filter()
	data := map[string]any{
		"filter_enabled": filter.Enabled,
		"allowed_groups": filter.AllowedList(),
	}
	return ctx.Subscriber.Send(successResponse(c.GetAction(), "active filter", data))
}
