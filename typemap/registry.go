package typemap

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/goliatone/go-filteredclass/activity"
	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
)

// Factory builds a fresh instance of a defined type.
type Factory func() any

// ExtendFactory builds an instance of an extending type around an instance of its parent.
type ExtendFactory func(parent any) any

// Class describes a defined type.
type Class struct {
	Name   string
	Type   reflect.Type
	Parent string
}

// Registry maps type names to factories and keeps write-once aliases.
//
// Aliases resolve to the canonical defined name; an alias of an alias
// collapses to that same canonical name.
type Registry struct {
	mu          sync.RWMutex
	classes     map[string]*class
	aliases     map[string]string
	updateHooks []activity.Hook
}

type class struct {
	name    string
	typ     reflect.Type
	parent  string
	factory Factory
	extend  ExtendFactory
}

// Option customizes a Registry.
type Option func(*Registry)

// WithActivityHook registers a hook notified on definitions and aliases.
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
		classes: map[string]*class{},
		aliases: map[string]string{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Define registers name with factory. The factory is called once to learn
// the concrete type. Redefining a name with the same type is a no-op.
func (r *Registry) Define(name string, factory Factory) error {
	normalized := filter.NormalizeName(name)
	meta := map[string]any{
		ferrors.MetaTypeName:  normalized,
		ferrors.MetaOperation: "define",
	}
	if r == nil {
		return ferrors.WrapSentinel(ferrors.ErrTypesRequired, "", meta)
	}
	if normalized == "" {
		return ferrors.WrapSentinel(ferrors.ErrTypeNameRequired, "", meta)
	}
	if factory == nil {
		return ferrors.WrapSentinel(ferrors.ErrFactoryRequired, "", meta)
	}
	probe := factory()
	if probe == nil {
		return ferrors.NewBadInput(ferrors.TextCodeFactoryFailed, fmt.Sprintf("typemap: factory for %q returned nil", normalized), meta)
	}
	entry := &class{name: normalized, typ: reflect.TypeOf(probe), factory: factory}
	if err := r.store(entry, meta); err != nil {
		return err
	}
	r.emit(activity.UpdateEvent{Action: activity.ActionDefine, Name: normalized, Target: entry.typ.String()})
	return nil
}

// Extend registers name as a type built around an instance of parent.
// parent must already exist; it is recorded as given, so extending an alias
// keeps pointing at whatever the alias denoted when it was created.
func (r *Registry) Extend(name, parent string, build ExtendFactory) error {
	normalized := filter.NormalizeName(name)
	parentName := filter.NormalizeName(parent)
	meta := map[string]any{
		ferrors.MetaTypeName:  normalized,
		ferrors.MetaParent:    parentName,
		ferrors.MetaOperation: "extend",
	}
	if r == nil {
		return ferrors.WrapSentinel(ferrors.ErrTypesRequired, "", meta)
	}
	if normalized == "" || parentName == "" {
		return ferrors.WrapSentinel(ferrors.ErrTypeNameRequired, "", meta)
	}
	if build == nil {
		return ferrors.WrapSentinel(ferrors.ErrFactoryRequired, "", meta)
	}
	base, err := r.New(parentName)
	if err != nil {
		return err
	}
	probe := build(base)
	if probe == nil {
		return ferrors.NewBadInput(ferrors.TextCodeFactoryFailed, fmt.Sprintf("typemap: extension %q of %q returned nil", normalized, parentName), meta)
	}
	entry := &class{name: normalized, typ: reflect.TypeOf(probe), parent: parentName, extend: build}
	if err := r.store(entry, meta); err != nil {
		return err
	}
	r.emit(activity.UpdateEvent{Action: activity.ActionExtend, Name: normalized, Target: parentName})
	return nil
}

func (r *Registry) store(entry *class, meta map[string]any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.classes == nil {
		r.classes = map[string]*class{}
	}
	if target, ok := r.aliases[entry.name]; ok {
		meta[ferrors.MetaExisting] = target
		return ferrors.WrapSentinel(ferrors.ErrTypeExists, "", meta)
	}
	if existing, ok := r.classes[entry.name]; ok {
		if existing.typ == entry.typ && existing.parent == entry.parent {
			return nil
		}
		meta[ferrors.MetaExisting] = existing.typ.String()
		return ferrors.WrapSentinel(ferrors.ErrTypeExists, "", meta)
	}
	r.classes[entry.name] = entry
	return nil
}

// Alias makes alias denote the same type as target.
//
// It fails with ErrAliasCollision when alias already names a different type
// and succeeds without change when alias already names the same type.
// Aliases are permanent.
func (r *Registry) Alias(alias, target string) error {
	aliasName := filter.NormalizeName(alias)
	targetName := filter.NormalizeName(target)
	meta := map[string]any{
		ferrors.MetaAliasName: aliasName,
		ferrors.MetaTarget:    targetName,
		ferrors.MetaOperation: "alias",
	}
	if r == nil {
		return ferrors.WrapSentinel(ferrors.ErrTypesRequired, "", meta)
	}
	if aliasName == "" {
		return ferrors.WrapSentinel(ferrors.ErrAliasRequired, "", meta)
	}
	if targetName == "" {
		return ferrors.WrapSentinel(ferrors.ErrTypeNameRequired, "", meta)
	}

	r.mu.Lock()
	canonical, ok := r.canonicalLocked(targetName)
	if !ok {
		r.mu.Unlock()
		return ferrors.WrapSentinel(ferrors.ErrTypeNotFound, "", meta)
	}
	if existing, ok := r.canonicalLocked(aliasName); ok {
		r.mu.Unlock()
		if existing == canonical {
			return nil
		}
		meta[ferrors.MetaExisting] = existing
		return ferrors.WrapSentinel(ferrors.ErrAliasCollision, "", meta)
	}
	if r.aliases == nil {
		r.aliases = map[string]string{}
	}
	r.aliases[aliasName] = canonical
	r.mu.Unlock()

	r.emit(activity.UpdateEvent{Action: activity.ActionAlias, Name: aliasName, Target: canonical})
	return nil
}

// Exists reports whether name is a defined type or an alias.
func (r *Registry) Exists(name string) bool {
	_, ok := r.Canonical(name)
	return ok
}

// IsAlias reports whether name was created by Alias.
func (r *Registry) IsAlias(name string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.aliases[filter.NormalizeName(name)]
	return ok
}

// Canonical returns the defined type name that name denotes.
func (r *Registry) Canonical(name string) (string, bool) {
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canonicalLocked(filter.NormalizeName(name))
}

func (r *Registry) canonicalLocked(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	if target, ok := r.aliases[name]; ok {
		return target, true
	}
	if _, ok := r.classes[name]; ok {
		return name, true
	}
	return "", false
}

// Same reports whether a and b denote the same defined type.
func (r *Registry) Same(a, b string) bool {
	ca, ok := r.Canonical(a)
	if !ok {
		return false
	}
	cb, ok := r.Canonical(b)
	return ok && ca == cb
}

// Lookup returns the class that name denotes.
func (r *Registry) Lookup(name string) (Class, bool) {
	if r == nil {
		return Class{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.classLocked(filter.NormalizeName(name))
	if !ok {
		return Class{}, false
	}
	return Class{Name: entry.name, Type: entry.typ, Parent: entry.parent}, true
}

// TypeOf returns the Go type that name denotes.
func (r *Registry) TypeOf(name string) (reflect.Type, bool) {
	c, ok := r.Lookup(name)
	if !ok {
		return nil, false
	}
	return c.Type, true
}

// Parent returns the parent an extending type was declared against.
func (r *Registry) Parent(name string) (string, bool) {
	c, ok := r.Lookup(name)
	if !ok || c.Parent == "" {
		return "", false
	}
	return c.Parent, true
}

func (r *Registry) classLocked(name string) (*class, bool) {
	canonical, ok := r.canonicalLocked(name)
	if !ok {
		return nil, false
	}
	entry, ok := r.classes[canonical]
	return entry, ok
}

// New instantiates the type name denotes. Extending types get a fresh parent instance.
func (r *Registry) New(name string) (any, error) {
	normalized := filter.NormalizeName(name)
	meta := map[string]any{
		ferrors.MetaTypeName:  normalized,
		ferrors.MetaOperation: "new",
	}
	if r == nil {
		return nil, ferrors.WrapSentinel(ferrors.ErrTypesRequired, "", meta)
	}
	r.mu.RLock()
	entry, ok := r.classLocked(normalized)
	r.mu.RUnlock()
	if !ok {
		return nil, ferrors.WrapSentinel(ferrors.ErrTypeNotFound, "", meta)
	}
	if entry.extend == nil {
		return entry.factory(), nil
	}
	base, err := r.New(entry.parent)
	if err != nil {
		return nil, err
	}
	return entry.extend(base), nil
}

// Members lists the method names available on name, including those
// inherited from the parent of an extending type, sorted.
func (r *Registry) Members(name string) []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	members, ok := r.membersLocked(filter.NormalizeName(name))
	r.mu.RUnlock()
	if !ok {
		return nil
	}
	out := members.ToSlice()
	sort.Strings(out)
	return out
}

// HasMember reports whether name exposes a method called member.
func (r *Registry) HasMember(name, member string) bool {
	if r == nil {
		return false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	members, ok := r.membersLocked(filter.NormalizeName(name))
	if !ok {
		return false
	}
	return members.Contains(filter.NormalizeName(member))
}

func (r *Registry) membersLocked(name string) (mapset.Set[string], bool) {
	entry, ok := r.classLocked(name)
	if !ok {
		return nil, false
	}
	members := methodSet(entry.typ)
	if entry.parent != "" {
		if inherited, ok := r.membersLocked(entry.parent); ok {
			members = members.Union(inherited)
		}
	}
	return members, true
}

// Names lists every defined type and alias, sorted.
func (r *Registry) Names() []string {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.classes)+len(r.aliases))
	for name := range r.classes {
		out = append(out, name)
	}
	for name := range r.aliases {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (r *Registry) emit(event activity.UpdateEvent) {
	r.mu.RLock()
	hooks := r.updateHooks
	r.mu.RUnlock()
	activity.Emit(context.Background(), hooks, event)
}

func methodSet(t reflect.Type) mapset.Set[string] {
	members := mapset.NewThreadUnsafeSet[string]()
	if t == nil {
		return members
	}
	collect := func(t reflect.Type) {
		for i := 0; i < t.NumMethod(); i++ {
			members.Add(t.Method(i).Name)
		}
	}
	collect(t)
	if t.Kind() != reflect.Pointer && t.Kind() != reflect.Interface {
		collect(reflect.PointerTo(t))
	}
	return members
}
