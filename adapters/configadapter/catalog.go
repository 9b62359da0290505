package configadapter

import (
	"strings"

	"github.com/goliatone/go-filteredclass/catalog"
)

// NewCatalog builds a substitution catalog from a nested map. Any map that
// carries a "hook" string is a substitution keyed by its path:
//
//	logging:
//	  swap:
//	    hook: pick_logger
//	    default: DefaultLogger
//	    substitute: MyLogger
//	    alias: BaseLogger
//	    enabled: true
func NewCatalog(data map[string]any, opts ...Option) *catalog.StaticCatalog {
	cfg := newConfigOptions(opts)
	defs := map[string]catalog.Substitution{}
	flattenCatalog("", data, cfg.delimiter, defs)
	return catalog.NewStatic(defs)
}

func flattenCatalog(prefix string, data map[string]any, delim string, out map[string]catalog.Substitution) {
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
			if def, ok := substitutionFromMap(typed); ok {
				def.Key = path
				out[path] = def
				continue
			}
			flattenCatalog(path, typed, delim, out)
		case map[string]string:
			if def, ok := substitutionFromMap(stringMapToAny(typed)); ok {
				def.Key = path
				out[path] = def
			}
		}
	}
}

func substitutionFromMap(data map[string]any) (catalog.Substitution, bool) {
	hook, ok := data["hook"].(string)
	if !ok || strings.TrimSpace(hook) == "" {
		return catalog.Substitution{}, false
	}
	def := catalog.Substitution{
		HookName:       hook,
		DefaultValue:   stringField(data, "default"),
		SubstituteName: stringField(data, "substitute"),
		AliasName:      stringField(data, "alias"),
	}
	if enabled, ok := toggleFromValue(data["enabled"]); ok && enabled.Set {
		def.Disabled = !enabled.Value
	}

	if msg, ok := messageFromValue(data["description"]); ok {
		def.Description = msg
		return def, true
	}
	if val, ok := data["description_key"].(string); ok {
		def.Description.Key = strings.TrimSpace(val)
	}
	if val, ok := data["description_text"].(string); ok {
		def.Description.Text = strings.TrimSpace(val)
	}
	return def, true
}

func stringField(data map[string]any, key string) string {
	val, _ := data[key].(string)
	return strings.TrimSpace(val)
}

func messageFromValue(value any) (catalog.Message, bool) {
	switch typed := value.(type) {
	case string:
		trimmed := strings.TrimSpace(typed)
		if trimmed == "" {
			return catalog.Message{}, false
		}
		return catalog.Message{Text: trimmed}, true
	case map[string]any:
		return messageFromMap(typed)
	case map[string]string:
		return messageFromMap(stringMapToAny(typed))
	default:
		return catalog.Message{}, false
	}
}

func messageFromMap(data map[string]any) (catalog.Message, bool) {
	if len(data) == 0 {
		return catalog.Message{}, false
	}
	msg := catalog.Message{}
	if val, ok := data["key"].(string); ok {
		msg.Key = strings.TrimSpace(val)
	}
	if val, ok := data["text"].(string); ok {
		msg.Text = strings.TrimSpace(val)
	}
	if args, ok := data["args"].(map[string]any); ok && len(args) > 0 {
		msg.Args = args
	} else if args, ok := data["args"].(map[string]string); ok && len(args) > 0 {
		msg.Args = stringMapToAny(args)
	}
	if msg.Key == "" && msg.Text == "" {
		return catalog.Message{}, false
	}
	return msg, true
}

func stringMapToAny(data map[string]string) map[string]any {
	if len(data) == 0 {
		return nil
	}
	out := make(map[string]any, len(data))
	for key, value := range data {
		out[key] = value
	}
	return out
}
