package ws

import (
	"fmt"
	"reflect"
)

// actionRegistry maps wire actions to command types so Deserialize can
// instantiate the right struct without a switch per action.
var actionRegistry = make(map[string]reflect.Type)

// RegisterCommand adds a command type to the registry. Call it from init()
// in the file defining the command.
func RegisterCommand(cmd Command) {
	t := reflect.TypeOf(cmd)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	actionRegistry[cmd.GetAction()] = t
}

// CreateCommand instantiates an empty command for the given action.
func CreateCommand(action string) (Command, error) {
	t, ok := actionRegistry[action]
	if !ok {
		return nil, fmt.Errorf("unknown action: %s", action)
	}
	cmd, ok := reflect.New(t).Interface().(Command)
	if !ok {
		return nil, fmt.Errorf("registered type for %s is not a command", action)
	}
	return cmd, nil
}

// RegisteredActions lists every known action.
func RegisteredActions() []string {
	actions := make([]string, 0, len(actionRegistry))
	for action := range actionRegistry {
		actions = append(actions, action)
	}
	return actions
}
