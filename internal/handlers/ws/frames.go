package ws

// Outbound frame shapes. Every frame carries a "type" discriminator so
// viewers can dispatch without sniffing fields.

// ConnectionFrame greets a subscriber right after the upgrade.
type ConnectionFrame struct {
	Type         string `json:"type"`
	Message      string `json:"message"`
	SubscriberID string `json:"subscriber_id"`
}

// StatsFrame reports the current connection count.
type StatsFrame struct {
	Type        string `json:"type"`
	Connections int    `json:"connections"`
}

// SettingUpdateFrame announces a runtime settings change. Single-key
// updates fill Key/Value; bulk pushes fill Settings instead.
type SettingUpdateFrame struct {
	Type     string         `json:"type"`
	Key      string         `json:"key,omitempty"`
	Value    any            `json:"value,omitempty"`
	Settings map[string]any `json:"settings,omitempty"`
}

// FilterUpdateFrame announces a global filter change to every subscriber.
type FilterUpdateFrame struct {
	Type          string   `json:"type"`
	FilterEnabled bool     `json:"filter_enabled"`
	AllowedGroups []string `json:"allowed_groups"`
}

// PongFrame answers a ping command.
type PongFrame struct {
	Type string `json:"type"`
}

// CommandResponse acknowledges an inbound command. Action is empty when
// the inbound frame was too malformed to name one.
type CommandResponse struct {
	Type    string         `json:"type"`
	Action  string         `json:"action,omitempty"`
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

func newConnectionFrame(subscriberID string) ConnectionFrame {
	return ConnectionFrame{Type: "connection", Message: "connected", SubscriberID: subscriberID}
}

func newStatsFrame(connections int) StatsFrame {
	return StatsFrame{Type: "stats", Connections: connections}
}

func newFilterUpdateFrame(filter Filter) FilterUpdateFrame {
	return FilterUpdateFrame{
		Type:          "broadcast_filter_update",
		FilterEnabled: filter.Enabled,
		AllowedGroups: filter.AllowedList(),
	}
}

func successResponse(action, message string, data map[string]any) CommandResponse {
	return CommandResponse{
		Type:    "command_response",
		Action:  action,
		Status:  "success",
		Message: message,
		Data:    data,
	}
}

func errorResponse(action, message string) CommandResponse {
	return CommandResponse{
		Type:    "command_response",
		Action:  action,
		Status:  "error",
		Message: message,
	}
}
