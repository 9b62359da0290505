package scope

import (
	"context"
	"strings"
)

type contextKey string

const pluginKey contextKey = "filteredclass.plugin"

// MetadataPlugin is the metadata key adapters use for the plugin name.
const MetadataPlugin = "plugin"

// WithPlugin stores the name of the plugin performing installs in context.
// Blank names leave ctx unchanged.
func WithPlugin(ctx context.Context, plugin string) context.Context {
	plugin = strings.TrimSpace(plugin)
	if plugin == "" {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, pluginKey, plugin)
}

// ClearPlugin removes any plugin name from context.
func ClearPlugin(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return context.WithValue(ctx, pluginKey, "")
}

// Plugin extracts the plugin name from context.
func Plugin(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if s, ok := ctx.Value(pluginKey).(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}
