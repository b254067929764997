package ws

import (
	"fmt"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/validation"
)

// SetGroupsCommand retunes the global filter for every subscriber. Group
// selections arrive as session ids (the directory's id field) and are
// resolved to group ids before install.
type SetGroupsCommand struct {
	FilterEnabled bool     `json:"filter_enabled"`
	Groups        []string `json:"groups"`
}

func init() {
	RegisterCommand(&SetGroupsCommand{})
}

func (c *SetGroupsCommand) GetAction() string {
	return "set_groups"
}

func (c *SetGroupsCommand) Process(ctx *MessageContext) error {
	groups, unresolved := resolveSessionIDs(ctx.Resolver, c.Groups)
	filter := ctx.Hub.SetGlobalFilter(c.FilterEnabled, groups)

	data := map[string]any{
		"filter_enabled": filter.Enabled,
		"allowed_groups": filter.AllowedList(),
	}
	if len(unresolved) > 0 {
		data["unresolved"] = unresolved
	}
	message := fmt.Sprintf("filter updated, %d groups selected", len(filter.AllowedList()))
	if !filter.Enabled {
		message = "filter disabled, all groups pass"
	}
	return ctx.Subscriber.Send(successResponse(c.GetAction(), message, data))
}

// resolveSessionIDs maps client-selected session ids to group ids. Ids
// that fail validation or have no known group are skipped and reported
// back, never fatal.
func resolveSessionIDs(resolver *service.GroupResolver, sessionIDs []string) (groups, unresolved []string) {
	for _, raw := range sessionIDs {
		id := validation.NormalizeSessionID(raw)
		if !validation.ValidateSessionID(id) {
			unresolved = append(unresolved, raw)
			continue
		}
		groupID, ok := resolver.Resolve(id)
		if !ok {
			unresolved = append(unresolved, raw)
			continue
		}
		groups = append(groups, groupID)
	}
	return groups, unresolved
}
