package activity

import "context"

// Action describes a registry mutation.
type Action string

const (
	ActionAddFilter    Action = "add_filter"
	ActionRemoveFilter Action = "remove_filter"
	ActionDefine       Action = "define"
	ActionExtend       Action = "extend"
	ActionAlias        Action = "alias"
)

// UpdateEvent captures a mutation of the hook engine or the type registry.
// Name is the hook name for filter actions and the type or alias name otherwise.
type UpdateEvent struct {
	Action       Action
	Name         string
	Target       string
	Priority     int
	AcceptedArgs int
}

// Hook receives update events.
type Hook interface {
	OnUpdate(ctx context.Context, event UpdateEvent)
}

// HookFunc wraps a function as a Hook.
type HookFunc func(context.Context, UpdateEvent)

// OnUpdate implements Hook.
func (fn HookFunc) OnUpdate(ctx context.Context, event UpdateEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}

// NoopHook ignores updates.
type NoopHook struct{}

// OnUpdate implements Hook.
func (NoopHook) OnUpdate(context.Context, UpdateEvent) {}

// Emit delivers event to every non-nil hook.
func Emit(ctx context.Context, hooks []Hook, event UpdateEvent) {
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		hook.OnUpdate(ctx, event)
	}
}
