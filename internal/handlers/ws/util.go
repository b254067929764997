package ws

import (
	"encoding/json"
	"fmt"
)

// Deserialize parses one inbound text frame into its command. The payload
// may be absent for commands that carry no arguments.
func Deserialize(data []byte) (Command, error) {
	var envelope Envelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal envelope: %w", err)
	}
	if envelope.Action == "" {
		return nil, fmt.Errorf("missing action field")
	}

	cmd, err := CreateCommand(envelope.Action)
	if err != nil {
		return nil, err
	}
	if len(envelope.Payload) > 0 {
		if err := json.Unmarshal(envelope.Payload, cmd); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s payload: %w", envelope.Action, err)
		}
	}
	return cmd, nil
}
