package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/samber/lo"
)

// Danmaku scroll speed bounds in seconds. The UI refuses anything outside
// this range, and so does the server.
const (
	MinDanmakuSpeed = 5
	MaxDanmakuSpeed = 60
)

// runtimeState is the on-disk shape of the settings file. Only this package
// knows it; everyone else goes through the Runtime accessors.
type runtimeState struct {
	GroupAliases   map[string]string `json:"group_aliases"`
	FavoriteGroups []string          `json:"favorite_groups"`
	ActiveGroupID  string            `json:"active_group_id"`
	DanmakuSpeed   int               `json:"danmaku_speed"`
}

// RuntimeSnapshot is a read-only copy of the current settings.
type RuntimeSnapshot struct {
	GroupAliases   map[string]string `json:"group_aliases"`
	FavoriteGroups []string          `json:"favorite_groups"`
	ActiveGroupID  string            `json:"active_group_id"`
	DanmakuSpeed   int               `json:"danmaku_speed"`
}

// Runtime holds the mutable viewer settings (group aliases, favorites, the
// active-group hint and the danmaku speed), persisted to a JSON file after
// every mutation.
type Runtime struct {
	path string

	mu    sync.Mutex
	state runtimeState
}

// LoadRuntime reads the settings file at path. A missing file yields
// defaults; a corrupt one is an error so a broken deploy does not silently
// wipe saved aliases.
func LoadRuntime(path string, defaultSpeed int) (*Runtime, error) {
	r := &Runtime{
		path: path,
		state: runtimeState{
			GroupAliases: make(map[string]string),
			DanmakuSpeed: defaultSpeed,
		},
	}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}
	if err := json.Unmarshal(raw, &r.state); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	if r.state.GroupAliases == nil {
		r.state.GroupAliases = make(map[string]string)
	}
	if r.state.DanmakuSpeed < MinDanmakuSpeed || r.state.DanmakuSpeed > MaxDanmakuSpeed {
		r.state.DanmakuSpeed = defaultSpeed
	}
	return r, nil
}

// save writes the state back to disk. Callers hold r.mu.
func (r *Runtime) save() error {
	raw, err := json.MarshalIndent(r.state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.WriteFile(r.path, raw, 0o644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	return nil
}

// Snapshot returns a deep copy of the current settings.
func (r *Runtime) Snapshot() RuntimeSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RuntimeSnapshot{
		GroupAliases:   lo.Assign(map[string]string{}, r.state.GroupAliases),
		FavoriteGroups: append([]string(nil), r.state.FavoriteGroups...),
		ActiveGroupID:  r.state.ActiveGroupID,
		DanmakuSpeed:   r.state.DanmakuSpeed,
	}
}

// SetGroupAlias stores a display alias for a group. An empty alias removes
// the entry.
func (r *Runtime) SetGroupAlias(groupID, alias string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if alias == "" {
		delete(r.state.GroupAliases, groupID)
	} else {
		r.state.GroupAliases[groupID] = alias
	}
	return r.save()
}

// ToggleFavorite adds or removes a group from the favorites list.
func (r *Runtime) ToggleFavorite(groupID string, favorite bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	has := lo.Contains(r.state.FavoriteGroups, groupID)
	switch {
	case favorite && !has:
		r.state.FavoriteGroups = append(r.state.FavoriteGroups, groupID)
	case !favorite && has:
		r.state.FavoriteGroups = lo.Without(r.state.FavoriteGroups, groupID)
	default:
		return nil
	}
	return r.save()
}

// SetActiveGroup persists the last group the operator pointed viewers at.
func (r *Runtime) SetActiveGroup(groupID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.ActiveGroupID = groupID
	return r.save()
}

// SetDanmakuSpeed updates the scroll speed. Returns false without saving if
// speed is out of bounds.
func (r *Runtime) SetDanmakuSpeed(speed int) (bool, error) {
	if speed < MinDanmakuSpeed || speed > MaxDanmakuSpeed {
		return false, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.DanmakuSpeed = speed
	return true, r.save()
}

// DanmakuSpeed returns the current scroll speed in seconds.
func (r *Runtime) DanmakuSpeed() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.DanmakuSpeed
}
