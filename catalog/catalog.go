package catalog

import (
	"sort"
	"strings"

	"github.com/goliatone/go-filteredclass/filter"
)

// Message represents a human-friendly string with optional localization data.
type Message struct {
	Key  string
	Text string
	Args map[string]any
}

// Substitution declares one install: replace whatever HookName resolves to
// with SubstituteName and expose the replaced type as AliasName.
type Substitution struct {
	Key            string
	HookName       string
	DefaultValue   string
	SubstituteName string
	AliasName      string
	Description    Message
	Disabled       bool
}

// Enabled reports whether the substitution should be installed.
func (s Substitution) Enabled() bool {
	return !s.Disabled
}

// Catalog exposes declared substitutions by key.
type Catalog interface {
	Get(key string) (Substitution, bool)
	List() []Substitution
}

// StaticCatalog provides an in-memory catalog.
type StaticCatalog struct {
	defs map[string]Substitution
}

// NewStatic builds an in-memory catalog. Entries without a key fall back to
// their alias name; entries left without a key are dropped.
func NewStatic(defs map[string]Substitution) *StaticCatalog {
	out := make(map[string]Substitution, len(defs))
	for key, def := range defs {
		normalized := strings.TrimSpace(key)
		if normalized == "" {
			normalized = filter.NormalizeName(def.AliasName)
		}
		if normalized == "" {
			continue
		}
		def.Key = normalized
		def.HookName = filter.NormalizeName(def.HookName)
		def.DefaultValue = strings.TrimSpace(def.DefaultValue)
		def.SubstituteName = filter.NormalizeName(def.SubstituteName)
		def.AliasName = filter.NormalizeName(def.AliasName)
		def.Description = normalizeMessage(def.Description)
		out[normalized] = def
	}
	return &StaticCatalog{defs: out}
}

// Get implements Catalog.
func (c *StaticCatalog) Get(key string) (Substitution, bool) {
	if c == nil || len(c.defs) == 0 {
		return Substitution{}, false
	}
	normalized := strings.TrimSpace(key)
	if normalized == "" {
		return Substitution{}, false
	}
	def, ok := c.defs[normalized]
	return def, ok
}

// List implements Catalog. Substitutions are sorted by key so installs run in a stable order.
func (c *StaticCatalog) List() []Substitution {
	if c == nil || len(c.defs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.defs))
	for key := range c.defs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Substitution, 0, len(keys))
	for _, key := range keys {
		out = append(out, c.defs[key])
	}
	return out
}

func normalizeMessage(msg Message) Message {
	msg.Key = strings.TrimSpace(msg.Key)
	msg.Text = strings.TrimSpace(msg.Text)
	if len(msg.Args) == 0 {
		msg.Args = nil
	}
	return msg
}
