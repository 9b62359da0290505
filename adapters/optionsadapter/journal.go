package optionsadapter

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	opts "github.com/goliatone/go-options"
	"github.com/goliatone/go-options/pkg/state"

	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/journal"
	"github.com/goliatone/go-filteredclass/scope"
)

const (
	prioritySystem = 10
	priorityPlugin = 20
)

// DefaultDomain is the default options domain used for install records.
const DefaultDomain = "filteredclass_installs"

// ErrStoreRequired indicates the underlying state store is missing.
var ErrStoreRequired = ferrors.ErrStoreRequired

// ScopeBuilder maps a plugin name into the go-options scopes read by List,
// ordered by precedence. The first scope is also where that plugin's records are written.
type ScopeBuilder func(plugin string) []opts.Scope

// MetaBuilder builds storage metadata from an actor reference.
type MetaBuilder func(actor filter.ActorRef) state.Meta

// Option customizes the Journal adapter.
type Option func(*Journal)

// Journal adapts a go-options state.Store into an install journal. Each
// snapshot maps alias names to the latest install record for that alias.
type Journal struct {
	stateStore state.Store[map[string]any]
	domain     string
	scopes     ScopeBuilder
	meta       MetaBuilder
}

// NewJournal constructs an adapter backed by a go-options state.Store.
func NewJournal(stateStore state.Store[map[string]any], opts ...Option) *Journal {
	adapter := &Journal{
		stateStore: stateStore,
		domain:     DefaultDomain,
		scopes:     defaultScopes,
		meta:       defaultMeta,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.domain == "" {
		adapter.domain = DefaultDomain
	}
	if adapter.scopes == nil {
		adapter.scopes = defaultScopes
	}
	if adapter.meta == nil {
		adapter.meta = defaultMeta
	}
	return adapter
}

// WithDomain sets the options domain used for install records.
func WithDomain(domain string) Option {
	return func(adapter *Journal) {
		if adapter == nil {
			return
		}
		adapter.domain = strings.TrimSpace(domain)
	}
}

// WithScopeBuilder overrides the default scope mapping.
func WithScopeBuilder(builder ScopeBuilder) Option {
	return func(adapter *Journal) {
		if adapter == nil {
			return
		}
		adapter.scopes = builder
	}
}

// WithMetaBuilder overrides the metadata builder used on mutations.
func WithMetaBuilder(builder MetaBuilder) Option {
	return func(adapter *Journal) {
		if adapter == nil {
			return
		}
		adapter.meta = builder
	}
}

// Append implements journal.Writer. The record is written to the scope of
// its plugin, or the system scope when it has none.
func (j *Journal) Append(ctx context.Context, record journal.Record) error {
	if j == nil || j.stateStore == nil {
		return storeRequiredError("append", j.domainName())
	}
	if err := record.Validate(); err != nil {
		return err
	}
	scopes := j.scopes(record.Plugin)
	if len(scopes) == 0 {
		return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "optionsadapter: no scope to write to", storeMeta(opts.Scope{}, "append", j.domain))
	}
	ref := state.Ref{Domain: j.domain, Scope: scopes[0]}
	alias := filter.NormalizeName(record.AliasName)

	resolver := state.Resolver[map[string]any]{Store: j.stateStore}
	_, _, err := resolver.Mutate(ctx, ref, j.meta(record.Actor), func(snapshot *map[string]any) error {
		if snapshot == nil {
			return ferrors.WrapSentinel(ferrors.ErrSnapshotRequired, "optionsadapter: snapshot is nil", storeMeta(ref.Scope, "append", j.domain))
		}
		if *snapshot == nil {
			*snapshot = map[string]any{}
		}
		(*snapshot)[alias] = recordToValue(record)
		return nil
	})
	if err != nil {
		meta := storeMeta(ref.Scope, "append", j.domain)
		meta[ferrors.MetaHookName] = record.HookName
		meta[ferrors.MetaAliasName] = alias
		return ferrors.WrapExternal(err, ferrors.TextCodeJournalWriteFailed, "optionsadapter: append failed", meta)
	}
	return nil
}

// List implements journal.Reader. It reads the scopes built for the plugin
// carried by ctx and returns records ordered by install time.
func (j *Journal) List(ctx context.Context, hookName string) ([]journal.Record, error) {
	if j == nil || j.stateStore == nil {
		return nil, storeRequiredError("list", j.domainName())
	}
	name := filter.NormalizeName(hookName)

	var out []journal.Record
	for _, scopeDef := range j.scopes(scope.Plugin(ctx)) {
		snapshot, _, ok, err := j.stateStore.Load(ctx, state.Ref{Domain: j.domain, Scope: scopeDef})
		if err != nil {
			return nil, ferrors.WrapExternal(err, ferrors.TextCodeJournalReadFailed, "optionsadapter: load failed", storeMeta(scopeDef, "load", j.domain))
		}
		if !ok || len(snapshot) == 0 {
			continue
		}
		for alias, value := range snapshot {
			record, err := recordFromValue(alias, value, scopeDef, j.domain)
			if err != nil {
				return nil, err
			}
			if name != "" && record.HookName != name {
				continue
			}
			out = append(out, record)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].InstalledAt.Equal(out[b].InstalledAt) {
			return out[a].AliasName < out[b].AliasName
		}
		return out[a].InstalledAt.Before(out[b].InstalledAt)
	})
	return out, nil
}

func (j *Journal) domainName() string {
	if j == nil {
		return ""
	}
	return j.domain
}

func defaultScopes(plugin string) []opts.Scope {
	plugin = strings.TrimSpace(plugin)
	if plugin == "" {
		return []opts.Scope{scoped("system", "System", prioritySystem, "", "")}
	}
	return []opts.Scope{
		scoped("plugin", "Plugin", priorityPlugin, scope.MetadataPlugin, plugin),
		scoped("system", "System", prioritySystem, "", ""),
	}
}

func scoped(name, label string, priority int, metadataKey, metadataValue string) opts.Scope {
	var metadata map[string]any
	if metadataKey != "" && metadataValue != "" {
		metadata = map[string]any{metadataKey: metadataValue}
	}
	return opts.NewScope(
		name,
		priority,
		opts.WithScopeLabel(label),
		opts.WithScopeMetadata(metadata),
	)
}

func defaultMeta(actor filter.ActorRef) state.Meta {
	extra := map[string]string{}
	if actor.ID != "" {
		extra["actor_id"] = actor.ID
	}
	if actor.Type != "" {
		extra["actor_type"] = actor.Type
	}
	if actor.Name != "" {
		extra["actor_name"] = actor.Name
	}
	if len(extra) == 0 {
		return state.Meta{}
	}
	return state.Meta{Extra: extra}
}

func recordToValue(record journal.Record) map[string]any {
	value := map[string]any{
		"hook_name":       filter.NormalizeName(record.HookName),
		"default_value":   record.DefaultValue,
		"substitute_name": filter.NormalizeName(record.SubstituteName),
		"original":        record.Original,
		"capture_source":  string(record.Source),
		"published":       record.Published,
	}
	if record.Error != "" {
		value["error"] = record.Error
	}
	if record.Plugin != "" {
		value["plugin"] = record.Plugin
	}
	if !record.Actor.IsZero() {
		value["actor"] = map[string]any{
			"id":   record.Actor.ID,
			"type": record.Actor.Type,
			"name": record.Actor.Name,
		}
	}
	if !record.InstalledAt.IsZero() {
		value["installed_at"] = record.InstalledAt.UTC().Format(time.RFC3339Nano)
	}
	return value
}

func recordFromValue(alias string, value any, scopeDef opts.Scope, domain string) (journal.Record, error) {
	data, ok := value.(map[string]any)
	if !ok {
		meta := storeMeta(scopeDef, "decode", domain)
		meta[ferrors.MetaAliasName] = alias
		return journal.Record{}, ferrors.NewExternal(ferrors.TextCodeJournalReadFailed, fmt.Sprintf("optionsadapter: unsupported record type %T", value), meta)
	}
	record := journal.Record{
		HookName:       stringValue(data["hook_name"]),
		DefaultValue:   stringValue(data["default_value"]),
		SubstituteName: stringValue(data["substitute_name"]),
		AliasName:      alias,
		Original:       stringValue(data["original"]),
		Source:         filter.CaptureSource(stringValue(data["capture_source"])),
		Error:          stringValue(data["error"]),
		Plugin:         stringValue(data["plugin"]),
	}
	if published, ok := data["published"].(bool); ok {
		record.Published = published
	}
	if actor, ok := data["actor"].(map[string]any); ok {
		record.Actor = filter.ActorRef{
			ID:   stringValue(actor["id"]),
			Type: stringValue(actor["type"]),
			Name: stringValue(actor["name"]),
		}
	}
	if raw := stringValue(data["installed_at"]); raw != "" {
		at, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			meta := storeMeta(scopeDef, "decode", domain)
			meta[ferrors.MetaAliasName] = alias
			return journal.Record{}, ferrors.WrapExternal(err, ferrors.TextCodeJournalReadFailed, "optionsadapter: invalid installed_at", meta)
		}
		record.InstalledAt = at
	}
	return record, nil
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}

var _ journal.ReadWriter = (*Journal)(nil)

func storeRequiredError(operation, domain string) error {
	return ferrors.WrapSentinel(ferrors.ErrStoreRequired, "optionsadapter: state store is required", map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaDomain:    strings.TrimSpace(domain),
		ferrors.MetaOperation: operation,
	})
}

func storeMeta(scopeDef opts.Scope, operation, domain string) map[string]any {
	meta := map[string]any{
		ferrors.MetaAdapter:   "options",
		ferrors.MetaOperation: operation,
		ferrors.MetaScope:     scopeDef,
	}
	if strings.TrimSpace(domain) != "" {
		meta[ferrors.MetaDomain] = strings.TrimSpace(domain)
	}
	return meta
}
