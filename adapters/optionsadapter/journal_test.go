package optionsadapter

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/journal"
	"github.com/goliatone/go-filteredclass/scope"
)

type memoryStateStore struct {
	mu           sync.RWMutex
	snapshots    map[string]map[string]any
	lastSaveRef  state.Ref
	lastSaveMeta state.Meta
}

func newMemoryStateStore() *memoryStateStore {
	return &memoryStateStore{
		snapshots: map[string]map[string]any{},
	}
}

func (m *memoryStateStore) Load(_ context.Context, ref state.Ref) (map[string]any, state.Meta, bool, error) {
	key, err := ref.Identifier()
	if err != nil {
		return nil, state.Meta{}, false, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	snapshot, ok := m.snapshots[key]
	if !ok {
		return nil, state.Meta{}, false, nil
	}
	return cloneSnapshot(snapshot), state.Meta{}, true, nil
}

func (m *memoryStateStore) Save(_ context.Context, ref state.Ref, snapshot map[string]any, meta state.Meta) (state.Meta, error) {
	key, err := ref.Identifier()
	if err != nil {
		return state.Meta{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastSaveRef = ref
	m.lastSaveMeta = meta
	m.snapshots[key] = cloneSnapshot(snapshot)
	return state.Meta{}, nil
}

func (m *memoryStateStore) seed(ref state.Ref, snapshot map[string]any) error {
	key, err := ref.Identifier()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[key] = cloneSnapshot(snapshot)
	return nil
}

func cloneSnapshot(snapshot map[string]any) map[string]any {
	if snapshot == nil {
		return nil
	}
	out := make(map[string]any, len(snapshot))
	for key, value := range snapshot {
		out[key] = value
	}
	return out
}

func TestJournalAppendWritesPluginScopeMetadata(t *testing.T) {
	ctx := context.Background()
	stateStore := newMemoryStateStore()
	j := NewJournal(stateStore)

	err := j.Append(ctx, journal.Record{
		HookName:  "pick_logger",
		AliasName: "BaseLogger",
		Original:  "FileLogger",
		Published: true,
		Plugin:    "acme-logging",
		Actor:     filter.ActorRef{ID: "user-1"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ref := stateStore.lastSaveRef
	if ref.Scope.Name != "plugin" {
		t.Fatalf("expected scope name plugin, got %q", ref.Scope.Name)
	}
	if ref.Scope.Metadata == nil || ref.Scope.Metadata[scope.MetadataPlugin] != "acme-logging" {
		t.Fatalf("expected scope metadata plugin to be set")
	}
	if stateStore.lastSaveMeta.Extra["actor_id"] != "user-1" {
		t.Fatalf("expected actor metadata, got %+v", stateStore.lastSaveMeta)
	}
}

func TestJournalListReadsPluginAndSystemScopes(t *testing.T) {
	stateStore := newMemoryStateStore()
	j := NewJournal(stateStore)
	first := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)

	records := []journal.Record{
		{HookName: "pick_store", AliasName: "BaseStore", Original: "ArrayStore", Published: true, InstalledAt: first.Add(time.Minute)},
		{HookName: "pick_logger", AliasName: "BaseLogger", Original: "FileLogger", Published: true, Plugin: "acme-logging", InstalledAt: first},
		{HookName: "pick_logger", AliasName: "OtherLogger", Plugin: "other-plugin", Error: "collision", InstalledAt: first},
	}
	for _, record := range records {
		if err := j.Append(context.Background(), record); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	ctx := scope.WithPlugin(context.Background(), "acme-logging")
	got, err := j.List(ctx, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected plugin and system records, got %+v", got)
	}
	if got[0].AliasName != "BaseLogger" || got[1].AliasName != "BaseStore" {
		t.Fatalf("expected install time order, got %+v", got)
	}
	if !got[0].InstalledAt.Equal(first) || got[0].Plugin != "acme-logging" {
		t.Fatalf("unexpected record: %+v", got[0])
	}

	loggers, err := j.List(ctx, "pick_logger")
	if err != nil || len(loggers) != 1 {
		t.Fatalf("expected one logger record, got %d (%v)", len(loggers), err)
	}

	system, err := j.List(context.Background(), "")
	if err != nil || len(system) != 1 || system[0].AliasName != "BaseStore" {
		t.Fatalf("expected system records only, got %+v (%v)", system, err)
	}
}

func TestJournalRejectsUnsupportedSnapshotValue(t *testing.T) {
	stateStore := newMemoryStateStore()
	systemScope := opts.NewScope("system", prioritySystem, opts.WithScopeLabel("System"))
	if err := stateStore.seed(state.Ref{Domain: DefaultDomain, Scope: systemScope}, map[string]any{
		"BaseLogger": true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := NewJournal(stateStore).List(context.Background(), "")
	if !ferrors.HasTextCode(err, ferrors.TextCodeJournalReadFailed) {
		t.Fatalf("expected read failure, got %v", err)
	}
}

func TestJournalRequiresStore(t *testing.T) {
	j := NewJournal(nil)
	if err := j.Append(context.Background(), journal.Record{HookName: "h", AliasName: "A"}); !errors.Is(err, ErrStoreRequired) {
		t.Fatalf("expected store required, got %v", err)
	}
	if err := NewJournal(newMemoryStateStore()).Append(context.Background(), journal.Record{}); !errors.Is(err, ferrors.ErrRecordInvalid) {
		t.Fatalf("expected invalid record, got %v", err)
	}
}
