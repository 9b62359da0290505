package resolver

import (
	"context"
	"time"

	"go.uber.org/multierr"

	"github.com/goliatone/go-filteredclass/catalog"
	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/journal"
	"github.com/goliatone/go-filteredclass/logger"
	"github.com/goliatone/go-filteredclass/scope"
)

// Types is the aliasing capability the loader needs from a type registry.
// typemap.Registry implements it.
type Types interface {
	Alias(alias, target string) error
}

// ActorResolver derives the actor performing an install from context.
type ActorResolver func(ctx context.Context) filter.ActorRef

// Loader installs substitutes on filter hooks and aliases the type each
// hook resolved to before the substitute took over.
type Loader struct {
	hooks         filter.Hooks
	types         Types
	installHooks  []filter.InstallHook
	journal       journal.Writer
	logger        logger.Logger
	actor         ActorResolver
	now           func() time.Time
	strictJournal bool
}

// Option customizes a Loader.
type Option func(*Loader)

// WithHooks sets the hook engine installs register on.
func WithHooks(hooks filter.Hooks) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.hooks = hooks
	}
}

// WithTypes sets the registry aliases are published to.
func WithTypes(types Types) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.types = types
	}
}

// WithInstallHook registers a hook notified after every install attempt
// that passed validation.
func WithInstallHook(hook filter.InstallHook) Option {
	return func(l *Loader) {
		if l == nil || hook == nil {
			return
		}
		l.installHooks = append(l.installHooks, hook)
	}
}

// WithJournal records every install attempt that passed validation.
func WithJournal(writer journal.Writer) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.journal = writer
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(lgr logger.Logger) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.logger = lgr
	}
}

// WithActorResolver sets how the installing actor is derived from context.
func WithActorResolver(resolver ActorResolver) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.actor = resolver
	}
}

// WithClock overrides the time source used for journal records.
func WithClock(now func() time.Time) Option {
	return func(l *Loader) {
		if l == nil || now == nil {
			return
		}
		l.now = now
	}
}

// WithStrictJournal makes journal write failures part of the install error.
func WithStrictJournal(strict bool) Option {
	return func(l *Loader) {
		if l == nil {
			return
		}
		l.strictJournal = strict
	}
}

// New constructs a Loader with the provided options.
func New(options ...Option) *Loader {
	l := &Loader{
		logger: logger.Nop(),
		now:    time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	if l.logger == nil {
		l.logger = logger.Nop()
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// Install substitutes substituteName for whatever hookName resolves to and
// publishes aliasName for the replaced type. It reports whether the alias
// was published. The override stays registered when aliasing fails.
// Hook and alias names are trimmed; the hook yields substituteName exactly
// as given.
func Install(hooks filter.Hooks, types Types, hookName, defaultValue, substituteName, aliasName string) bool {
	ok, _ := New(WithHooks(hooks), WithTypes(types)).Install(context.Background(), hookName, defaultValue, substituteName, aliasName)
	return ok
}

// Install implements the boolean install contract and returns the error that
// explains a false result.
func (l *Loader) Install(ctx context.Context, hookName, defaultValue, substituteName, aliasName string) (bool, error) {
	ok, _, err := l.install(ctx, hookName, defaultValue, substituteName, aliasName)
	return ok, err
}

// InstallWithTrace installs like Install and returns provenance for the attempt.
func (l *Loader) InstallWithTrace(ctx context.Context, hookName, defaultValue, substituteName, aliasName string) (bool, filter.InstallTrace, error) {
	return l.install(ctx, hookName, defaultValue, substituteName, aliasName)
}

// InstallCatalog installs every enabled substitution in catalog order.
// Failures do not stop later installs; they are returned together.
func (l *Loader) InstallCatalog(ctx context.Context, cat catalog.Catalog) error {
	if cat == nil {
		return nil
	}
	var errs error
	for _, sub := range cat.List() {
		if !sub.Enabled() {
			l.log(ctx).Debug("filteredclass substitution disabled", "key", sub.Key, "hook", sub.HookName)
			continue
		}
		if _, err := l.Install(ctx, sub.HookName, sub.DefaultValue, sub.SubstituteName, sub.AliasName); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (l *Loader) install(ctx context.Context, hookName, defaultValue, substituteName, aliasName string) (bool, filter.InstallTrace, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	trace := filter.InstallTrace{
		HookName:       filter.NormalizeName(hookName),
		DefaultValue:   defaultValue,
		SubstituteName: substituteName,
		AliasName:      filter.NormalizeName(aliasName),
		Plugin:         scope.Plugin(ctx),
	}
	if l != nil && l.actor != nil {
		trace.Actor = l.actor(ctx)
	}
	meta := map[string]any{
		ferrors.MetaHookName:       trace.HookName,
		ferrors.MetaDefaultValue:   trace.DefaultValue,
		ferrors.MetaSubstituteName: trace.SubstituteName,
		ferrors.MetaAliasName:      trace.AliasName,
		ferrors.MetaOperation:      "install",
	}
	if trace.Plugin != "" {
		meta[ferrors.MetaPlugin] = trace.Plugin
	}
	if err := l.validate(trace, meta); err != nil {
		if l != nil {
			l.log(ctx).Warn("filteredclass install rejected", "hook", trace.HookName, "alias", trace.AliasName, "error", err)
		}
		return false, trace, err
	}

	o := newOverride(trace.HookName, trace.DefaultValue, trace.SubstituteName)
	if err := l.hooks.AddFilter(trace.HookName, o, filter.MaxPriority, filter.DefaultAcceptedArgs); err != nil {
		return l.finish(ctx, trace, annotate(err, "override registration failed", meta))
	}
	trace.Registered = true

	original, resolved, source := o.resolveCaptured(ctx, l.hooks)
	trace.Original = original
	trace.Resolved = resolved
	trace.Source = source
	meta[ferrors.MetaOriginal] = original
	meta[ferrors.MetaCaptureSource] = string(source)

	if err := l.types.Alias(trace.AliasName, original); err != nil {
		return l.finish(ctx, trace, annotate(err, "alias publication failed", meta))
	}
	trace.Published = true
	return l.finish(ctx, trace, nil)
}

// annotate returns a copy of a collaborator error carrying install metadata.
// Rich errors keep their text code; anything else becomes INSTALL_FAILED.
// The collaborator's error value is never modified.
func annotate(err error, message string, meta map[string]any) error {
	return ferrors.WrapOperation(err, ferrors.TextCodeInstallFailed, message, meta)
}

func (l *Loader) validate(trace filter.InstallTrace, meta map[string]any) error {
	switch {
	case l == nil || l.hooks == nil:
		return ferrors.WrapSentinel(ferrors.ErrHooksRequired, "", meta)
	case l.types == nil:
		return ferrors.WrapSentinel(ferrors.ErrTypesRequired, "", meta)
	case trace.HookName == "":
		return ferrors.WrapSentinel(ferrors.ErrHookNameRequired, "", meta)
	case filter.NormalizeName(trace.SubstituteName) == "":
		return ferrors.WrapSentinel(ferrors.ErrSubstituteRequired, "", meta)
	case trace.AliasName == "":
		return ferrors.WrapSentinel(ferrors.ErrAliasRequired, "", meta)
	}
	return nil
}

func (l *Loader) finish(ctx context.Context, trace filter.InstallTrace, err error) (bool, filter.InstallTrace, error) {
	lgr := l.log(ctx)
	if err != nil {
		lgr.Warn("filteredclass install failed",
			"hook", trace.HookName,
			"substitute", trace.SubstituteName,
			"alias", trace.AliasName,
			"original", trace.Original,
			"registered", trace.Registered,
			"error", err,
		)
	} else {
		lgr.Debug("filteredclass installed",
			"hook", trace.HookName,
			"substitute", trace.SubstituteName,
			"alias", trace.AliasName,
			"original", trace.Original,
			"source", string(trace.Source),
		)
	}

	l.emitInstall(ctx, trace, err)

	if journalErr := l.record(ctx, trace, err); journalErr != nil {
		lgr.Warn("filteredclass journal append failed", "hook", trace.HookName, "alias", trace.AliasName, "error", journalErr)
		if l.strictJournal {
			err = multierr.Append(err, journalErr)
		}
	}
	return trace.Published, trace, err
}

func (l *Loader) record(ctx context.Context, trace filter.InstallTrace, installErr error) error {
	if l.journal == nil {
		return nil
	}
	if err := l.journal.Append(ctx, journal.FromTrace(trace, installErr, l.now())); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeJournalWriteFailed, "install journal append failed", map[string]any{
			ferrors.MetaHookName:  trace.HookName,
			ferrors.MetaAliasName: trace.AliasName,
			ferrors.MetaOperation: "append",
			ferrors.MetaStrict:    l.strictJournal,
		})
	}
	return nil
}

func (l *Loader) emitInstall(ctx context.Context, trace filter.InstallTrace, err error) {
	if len(l.installHooks) == 0 {
		return
	}
	event := filter.InstallEvent{
		HookName:       trace.HookName,
		SubstituteName: trace.SubstituteName,
		AliasName:      trace.AliasName,
		Original:       trace.Original,
		Published:      trace.Published,
		Error:          err,
		Trace:          trace,
	}
	for _, hook := range l.installHooks {
		if hook == nil {
			continue
		}
		hook.OnInstall(ctx, event)
	}
}

func (l *Loader) log(ctx context.Context) logger.Logger {
	if l == nil || l.logger == nil {
		return logger.Nop()
	}
	return l.logger.WithContext(ctx)
}
