package configadapter

import (
	"testing"

	"github.com/goliatone/go-config/config"

	"github.com/goliatone/go-filteredclass/catalog"
)

func TestTogglesOptionalBoolValues(t *testing.T) {
	toggles := NewToggles(map[string]any{
		"logging": map[string]any{
			"swap":  config.NewOptionalBool(true),
			"audit": config.NewOptionalBoolUnset(),
		},
	})

	if got := toggles.Lookup("logging.swap"); !got.Set || !got.Value {
		t.Fatalf("expected set true toggle, got %+v", got)
	}
	if got := toggles.Lookup("logging.audit"); got.Set {
		t.Fatalf("expected unset toggle, got %+v", got)
	}
}

func TestTogglesApply(t *testing.T) {
	cat := catalog.NewStatic(map[string]catalog.Substitution{
		"logging.swap": {HookName: "pick_logger", AliasName: "BaseLogger"},
		"storage.swap": {HookName: "pick_store", AliasName: "BaseStore", Disabled: true},
		"queue.swap":   {HookName: "pick_queue", AliasName: "BaseQueue"},
	})
	toggles := NewTogglesFromBools(map[string]bool{
		"logging.swap": false,
		"storage.swap": true,
	})

	applied := toggles.Apply(cat)
	for key, want := range map[string]bool{"logging.swap": false, "storage.swap": true, "queue.swap": true} {
		def, ok := applied.Get(key)
		if !ok {
			t.Fatalf("expected %s to exist", key)
		}
		if def.Enabled() != want {
			t.Fatalf("%s Enabled() = %v, want %v", key, def.Enabled(), want)
		}
	}
	if original, _ := cat.Get("logging.swap"); !original.Enabled() {
		t.Fatalf("Apply must not mutate the source catalog")
	}

	var none *Toggles
	if len(none.Apply(cat).List()) != 3 {
		t.Fatalf("nil toggles must keep every substitution")
	}
}
