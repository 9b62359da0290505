package resolver

import (
	"context"
	"sync"

	"github.com/goliatone/go-filteredclass/filter"
)

// override is the callback installed at the end of a hook chain. It records
// the value it replaces and always yields the substitute.
type override struct {
	hookName       string
	defaultValue   string
	substituteName string

	mu         sync.Mutex
	captured   string
	captureSet bool
}

func newOverride(hookName, defaultValue, substituteName string) *override {
	return &override{
		hookName:       hookName,
		defaultValue:   defaultValue,
		substituteName: substituteName,
	}
}

// Filter implements filter.Callback. Every evaluation that reaches the
// override with something other than the substitute updates the capture.
func (o *override) Filter(_ context.Context, incoming string) string {
	if incoming != o.substituteName {
		o.mu.Lock()
		o.captured = incoming
		o.captureSet = true
		o.mu.Unlock()
	}
	return o.substituteName
}

// resolveCaptured evaluates the hook once and reports what the chain
// resolved to before the override replaced it.
func (o *override) resolveCaptured(ctx context.Context, hooks filter.Hooks) (string, string, filter.CaptureSource) {
	resolved := hooks.ApplyFilters(ctx, o.hookName, o.defaultValue)
	if resolved != o.substituteName {
		return resolved, resolved, filter.CaptureSourceRaw
	}
	if captured, ok := o.capture(); ok {
		return captured, resolved, filter.CaptureSourceCaptured
	}
	return o.defaultValue, resolved, filter.CaptureSourceDefault
}

func (o *override) capture() (string, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.captured, o.captureSet
}

var _ filter.Callback = (*override)(nil)
