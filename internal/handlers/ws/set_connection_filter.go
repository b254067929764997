package ws

import "fmt"

// SetConnectionFilterCommand overrides the filter of the calling
// subscriber only. The global filter and every other subscriber are left
// untouched.
type SetConnectionFilterCommand struct {
	FilterEnabled bool     `json:"filter_enabled"`
	Groups        []string `json:"groups"`
}

func init() {
	RegisterCommand(&SetConnectionFilterCommand{})
}

func (c *SetConnectionFilterCommand) GetAction() string {
	return "set_connection_filter"
}

func (c *SetConnectionFilterCommand) Process(ctx *MessageContext) error {
	groups, unresolved := resolveSessionIDs(ctx.Resolver, c.Groups)
	filter, ok := ctx.Hub.SetSubscriberFilter(ctx.Subscriber.ID, c.FilterEnabled, groups)
	if !ok {
		return ctx.Subscriber.Send(errorResponse(c.GetAction(), "subscriber is no longer registered"))
	}

	data := map[string]any{
		"filter_enabled": filter.Enabled,
		"allowed_groups": filter.AllowedList(),
	}
	if len(unresolved) > 0 {
		data["unresolved"] = unresolved
	}
	message := fmt.Sprintf("connection filter updated, %d groups selected", len(filter.AllowedList()))
	if !filter.Enabled {
		message = "connection filter disabled, all groups pass"
	}
	return ctx.Subscriber.Send(successResponse(c.GetAction(), message, data))
}
