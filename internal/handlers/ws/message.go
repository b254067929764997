package ws

import (
	"encoding/json"

	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/config"
	"github.com/F1Justin/Chat-Message-Danmaku-System/internal/service"
)

// MessageContext carries everything a command may need while processing.
type MessageContext struct {
	Subscriber *Subscriber
	Hub        *Hub
	Resolver   *service.GroupResolver
	Runtime    *config.Runtime
}

// Command is implemented by every inbound control frame.
type Command interface {
	// GetAction returns the wire action this command answers to.
	GetAction() string

	// Process executes the command and writes its response frames.
	Process(ctx *MessageContext) error
}

// Envelope is the wire wrapper around inbound commands.
type Envelope struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// SendCommandError reports a failed command back to the subscriber.
func SendCommandError(sub *Subscriber, action, message string) error {
	return sub.Send(errorResponse(action, message))
}
