package configadapter

import (
	"strings"

	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-filteredclass/catalog"
)

type configOptions struct {
	delimiter string
}

// Option configures configadapter parsing.
type Option func(*configOptions)

// WithDelimiter sets the key delimiter used when flattening nested maps.
func WithDelimiter(delimiter string) Option {
	return func(cfg *configOptions) {
		if cfg == nil {
			return
		}
		cfg.delimiter = delimiter
	}
}

func newConfigOptions(opts []Option) configOptions {
	cfg := configOptions{delimiter: "."}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.delimiter == "" {
		cfg.delimiter = "."
	}
	return cfg
}

// Toggle is a tri-state switch: unset toggles leave a substitution as declared.
type Toggle struct {
	Set   bool
	Value bool
}

// Toggles switches catalog substitutions on or off per environment.
type Toggles struct {
	values map[string]Toggle
}

// NewToggles builds Toggles from a nested map containing OptionalBool or bool values.
func NewToggles(data map[string]any, opts ...Option) *Toggles {
	cfg := newConfigOptions(opts)
	values := map[string]Toggle{}
	flattenToggles("", data, cfg.delimiter, values)
	return &Toggles{values: values}
}

// NewTogglesFromBools builds Toggles from a simple map of booleans.
func NewTogglesFromBools(data map[string]bool, opts ...Option) *Toggles {
	if len(data) == 0 {
		return NewToggles(nil, opts...)
	}
	return NewToggles(boolMapToAny(data), opts...)
}

// Lookup returns the toggle configured for a catalog key.
func (t *Toggles) Lookup(key string) Toggle {
	if t == nil || len(t.values) == 0 {
		return Toggle{}
	}
	return t.values[strings.TrimSpace(key)]
}

// Apply returns a copy of cat with every set toggle applied to its substitution.
func (t *Toggles) Apply(cat catalog.Catalog) *catalog.StaticCatalog {
	if cat == nil {
		return catalog.NewStatic(nil)
	}
	defs := map[string]catalog.Substitution{}
	for _, def := range cat.List() {
		if toggle := t.Lookup(def.Key); toggle.Set {
			def.Disabled = !toggle.Value
		}
		defs[def.Key] = def
	}
	return catalog.NewStatic(defs)
}

type optionalBool interface {
	IsSet() bool
	Value() bool
}

func flattenToggles(prefix string, data map[string]any, delim string, out map[string]Toggle) {
	if len(data) == 0 {
		return
	}
	for key, value := range data {
		trimmedKey := strings.TrimSpace(key)
		if trimmedKey == "" {
			continue
		}
		path := trimmedKey
		if prefix != "" {
			path = prefix + delim + trimmedKey
		}

		switch typed := value.(type) {
		case map[string]any:
			flattenToggles(path, typed, delim, out)
		case map[string]bool:
			flattenToggles(path, boolMapToAny(typed), delim, out)
		default:
			if toggle, ok := toggleFromValue(value); ok {
				out[path] = toggle
			}
		}
	}
}

func toggleFromValue(value any) (Toggle, bool) {
	switch typed := value.(type) {
	case optionalBool:
		return Toggle{Set: typed.IsSet(), Value: typed.Value()}, true
	case config.OptionalBool:
		return Toggle{Set: typed.IsSet(), Value: typed.Value()}, true
	case *config.OptionalBool:
		if typed == nil {
			return Toggle{}, true
		}
		return Toggle{Set: typed.IsSet(), Value: typed.Value()}, true
	case bool:
		return Toggle{Set: true, Value: typed}, true
	case *bool:
		if typed == nil {
			return Toggle{}, true
		}
		return Toggle{Set: true, Value: *typed}, true
	default:
		return Toggle{}, false
	}
}

func boolMapToAny(data map[string]bool) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = value
	}
	return out
}
