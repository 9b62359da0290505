package filter

import (
	"context"
	"math"
	"strings"
)

const (
	// DefaultPriority is the priority hosts conventionally use when none is given.
	DefaultPriority = 10
	// MaxPriority runs after every callback registered with a lower priority.
	MaxPriority = math.MaxInt
	// DefaultAcceptedArgs is the number of arguments a value filter receives.
	DefaultAcceptedArgs = 1
)

// Callback transforms the value threaded through a filter chain.
type Callback interface {
	Filter(ctx context.Context, value string) string
}

// CallbackFunc wraps a function as a Callback.
type CallbackFunc func(ctx context.Context, value string) string

// Filter implements Callback. A nil func passes the value through.
func (fn CallbackFunc) Filter(ctx context.Context, value string) string {
	if fn == nil {
		return value
	}
	return fn(ctx, value)
}

// Const returns a Callback that ignores its input and yields value.
func Const(value string) Callback {
	return CallbackFunc(func(context.Context, string) string {
		return value
	})
}

// Hooks is the extension point engine consumed by the resolver.
// Higher priorities run later; ApplyFilters returns seed when the chain is empty.
type Hooks interface {
	AddFilter(name string, cb Callback, priority, acceptedArgs int) error
	ApplyFilters(ctx context.Context, name, seed string) string
}

// Registration describes one callback in a chain.
type Registration struct {
	HookName     string
	Priority     int
	AcceptedArgs int
	Seq          uint64
}

// Inspector exposes a chain's registrations in evaluation order.
type Inspector interface {
	Registrations(name string) []Registration
}

// ActorRef identifies who performed an install.
type ActorRef struct {
	ID   string
	Type string
	Name string
}

// IsZero reports whether no actor field is set.
func (a ActorRef) IsZero() bool {
	return a.ID == "" && a.Type == "" && a.Name == ""
}

// NormalizeName trims surrounding whitespace from hook and type names.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}
