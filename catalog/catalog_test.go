package catalog

import "testing"

func TestStaticCatalogGetNormalizesFields(t *testing.T) {
	cat := NewStatic(map[string]Substitution{
		"logging.swap": {
			HookName:       " pick_logger ",
			DefaultValue:   "DefaultLogger",
			SubstituteName: "MyLogger ",
			AliasName:      " BaseLogger",
			Description: Message{
				Text: " Route logs through MyLogger ",
			},
		},
	})

	def, ok := cat.Get(" logging.swap ")
	if !ok {
		t.Fatalf("expected substitution to be found")
	}
	if def.Key != "logging.swap" {
		t.Fatalf("expected normalized key, got %q", def.Key)
	}
	if def.HookName != "pick_logger" || def.SubstituteName != "MyLogger" || def.AliasName != "BaseLogger" {
		t.Fatalf("expected trimmed names, got %+v", def)
	}
	if def.Description.Text != "Route logs through MyLogger" {
		t.Fatalf("unexpected description: %q", def.Description.Text)
	}
	if !def.Enabled() {
		t.Fatalf("substitutions are enabled unless disabled")
	}
}

func TestStaticCatalogKeyFallsBackToAlias(t *testing.T) {
	cat := NewStatic(map[string]Substitution{
		"": {HookName: "pick_store", AliasName: "BaseStore"},
		" ": {HookName: "pick_queue"},
	})
	if _, ok := cat.Get("BaseStore"); !ok {
		t.Fatalf("expected alias name to be used as key")
	}
	if len(cat.List()) != 1 {
		t.Fatalf("expected keyless, aliasless entry to be dropped")
	}
}

func TestStaticCatalogListIsSorted(t *testing.T) {
	cat := NewStatic(map[string]Substitution{
		"b": {HookName: "pick_store", AliasName: "BaseStore"},
		"a": {HookName: "pick_logger", AliasName: "BaseLogger"},
	})
	list := cat.List()
	if len(list) != 2 || list[0].Key != "a" || list[1].Key != "b" {
		t.Fatalf("unexpected order: %+v", list)
	}
	var empty *StaticCatalog
	if empty.List() != nil {
		t.Fatalf("nil catalog must list nothing")
	}
}
