package hooks

import (
	"context"
	"sort"
	"sync"

	"github.com/goliatone/go-filteredclass/activity"
	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
)

// Registry is an in-memory filter hook engine. Callbacks run in ascending
// priority order and, within a priority, in registration order.
type Registry struct {
	mu          sync.RWMutex
	chains      map[string][]entry
	applied     map[string]int
	seq         uint64
	updateHooks []activity.Hook
}

type entry struct {
	callback filter.Callback
	reg      filter.Registration
}

// Option customizes a Registry.
type Option func(*Registry)

// WithActivityHook registers a hook notified on every registration change.
func WithActivityHook(hook activity.Hook) Option {
	return func(r *Registry) {
		if r == nil || hook == nil {
			return
		}
		r.updateHooks = append(r.updateHooks, hook)
	}
}

// New constructs an empty Registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		chains:  map[string][]entry{},
		applied: map[string]int{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// AddFilter implements filter.Hooks.
func (r *Registry) AddFilter(name string, cb filter.Callback, priority, acceptedArgs int) error {
	_, err := r.Add(name, cb, priority, acceptedArgs)
	return err
}

// Add registers cb and returns its registration, which can be passed to RemoveFilter.
// acceptedArgs is recorded for introspection; value callbacks always receive the current value.
func (r *Registry) Add(name string, cb filter.Callback, priority, acceptedArgs int) (filter.Registration, error) {
	normalized := filter.NormalizeName(name)
	meta := map[string]any{
		ferrors.MetaHookName:     normalized,
		ferrors.MetaPriority:     priority,
		ferrors.MetaAcceptedArgs: acceptedArgs,
		ferrors.MetaOperation:    "add_filter",
	}
	if r == nil {
		return filter.Registration{}, ferrors.WrapSentinel(ferrors.ErrHooksRequired, "", meta)
	}
	if normalized == "" {
		return filter.Registration{}, ferrors.WrapSentinel(ferrors.ErrHookNameRequired, "", meta)
	}
	if cb == nil {
		return filter.Registration{}, ferrors.WrapSentinel(ferrors.ErrCallbackRequired, "", meta)
	}
	if acceptedArgs < 0 {
		return filter.Registration{}, ferrors.WrapSentinel(ferrors.ErrAcceptedArgsInvalid, "", meta)
	}

	r.mu.Lock()
	if r.chains == nil {
		r.chains = map[string][]entry{}
	}
	r.seq++
	reg := filter.Registration{
		HookName:     normalized,
		Priority:     priority,
		AcceptedArgs: acceptedArgs,
		Seq:          r.seq,
	}
	chain := r.chains[normalized]
	// first slot whose priority is strictly greater keeps equal priorities in insertion order
	idx := sort.Search(len(chain), func(i int) bool {
		return chain[i].reg.Priority > priority
	})
	chain = append(chain, entry{})
	copy(chain[idx+1:], chain[idx:])
	chain[idx] = entry{callback: cb, reg: reg}
	r.chains[normalized] = chain
	hooks := r.updateHooks
	r.mu.Unlock()

	activity.Emit(context.Background(), hooks, activity.UpdateEvent{
		Action:       activity.ActionAddFilter,
		Name:         normalized,
		Priority:     priority,
		AcceptedArgs: acceptedArgs,
	})
	return reg, nil
}

// RemoveFilter unregisters the callback identified by reg. It reports whether anything was removed.
func (r *Registry) RemoveFilter(reg filter.Registration) bool {
	if r == nil {
		return false
	}
	name := filter.NormalizeName(reg.HookName)
	r.mu.Lock()
	chain := r.chains[name]
	idx := -1
	for i, e := range chain {
		if e.reg.Seq == reg.Seq {
			idx = i
			break
		}
	}
	if idx < 0 {
		r.mu.Unlock()
		return false
	}
	chain = append(chain[:idx:idx], chain[idx+1:]...)
	if len(chain) == 0 {
		delete(r.chains, name)
	} else {
		r.chains[name] = chain
	}
	hooks := r.updateHooks
	r.mu.Unlock()

	activity.Emit(context.Background(), hooks, activity.UpdateEvent{
		Action:       activity.ActionRemoveFilter,
		Name:         name,
		Priority:     reg.Priority,
		AcceptedArgs: reg.AcceptedArgs,
	})
	return true
}

// ApplyFilters implements filter.Hooks. The chain is snapshotted before
// dispatch, so callbacks may register or evaluate hooks themselves.
func (r *Registry) ApplyFilters(ctx context.Context, name, seed string) string {
	if r == nil {
		return seed
	}
	normalized := filter.NormalizeName(name)
	r.mu.Lock()
	if r.applied == nil {
		r.applied = map[string]int{}
	}
	r.applied[normalized]++
	chain := append([]entry(nil), r.chains[normalized]...)
	r.mu.Unlock()

	value := seed
	for _, e := range chain {
		value = e.callback.Filter(ctx, value)
	}
	return value
}

// HasFilters reports whether any callback is registered for name.
func (r *Registry) HasFilters(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.chains[filter.NormalizeName(name)]) > 0
}

// Registrations implements filter.Inspector.
func (r *Registry) Registrations(name string) []filter.Registration {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	chain := r.chains[filter.NormalizeName(name)]
	if len(chain) == 0 {
		return nil
	}
	out := make([]filter.Registration, 0, len(chain))
	for _, e := range chain {
		out = append(out, e.reg)
	}
	return out
}

// Applied returns how many times name has been evaluated.
func (r *Registry) Applied(name string) int {
	if r == nil {
		return 0
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.applied[filter.NormalizeName(name)]
}

// Clear removes every registration and evaluation counter.
func (r *Registry) Clear() {
	if r == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chains = map[string][]entry{}
	r.applied = map[string]int{}
}

var _ filter.Hooks = (*Registry)(nil)
var _ filter.Inspector = (*Registry)(nil)
