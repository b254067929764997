package ws

// PingCommand is a client liveness probe.
type PingCommand struct{}

func init() {
	RegisterCommand(&PingCommand{})
}

func (c *PingCommand) GetAction() string {
	return "ping"
}

func (c *PingCommand) Process(ctx *MessageContext) error {
	return ctx.Subscriber.Send(PongFrame{Type: "pong"})
}
