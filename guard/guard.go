package guard

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
)

// ErrMemberMissing is returned when a type lacks a required member and no custom error is provided.
var ErrMemberMissing = ferrors.ErrMemberMissing

// ErrNotSubstituted is returned when a hook does not resolve to the expected substitute.
var ErrNotSubstituted = ferrors.ErrNotSubstituted

// MemberSet reports the members a named type exposes. typemap.Registry implements it.
type MemberSet interface {
	HasMember(name, member string) bool
}

// MissingMemberError lists the members a type lacks and unwraps to ErrMemberMissing.
type MissingMemberError struct {
	TypeName string
	Missing  []string
}

func (e MissingMemberError) Error() string {
	if len(e.Missing) == 0 {
		return ErrMemberMissing.Error()
	}
	return fmt.Sprintf("%s: %s lacks %s", ErrMemberMissing.Error(), e.TypeName, strings.Join(e.Missing, ", "))
}

func (e MissingMemberError) Unwrap() error {
	return ErrMemberMissing
}

// NotSubstitutedError reports what a hook resolved to instead of the substitute.
type NotSubstitutedError struct {
	HookName   string
	Substitute string
	Got        string
}

func (e NotSubstitutedError) Error() string {
	return fmt.Sprintf("%s: %s resolved to %q, want %q", ErrNotSubstituted.Error(), e.HookName, e.Got, e.Substitute)
}

func (e NotSubstitutedError) Unwrap() error {
	return ErrNotSubstituted
}

// Option configures guard behavior.
type Option func(*config)

type config struct {
	failureErr  error
	errorMapper func(error) error
}

// WithFailureError sets the error returned when a check fails.
func WithFailureError(err error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.failureErr = err
	}
}

// WithErrorMapper transforms guard errors before returning them.
func WithErrorMapper(mapper func(error) error) Option {
	return func(c *config) {
		if c == nil {
			return
		}
		c.errorMapper = mapper
	}
}

// RequireMembers checks that name exposes every member, including inherited ones.
// If types is nil, RequireMembers returns nil.
func RequireMembers(types MemberSet, name string, members []string, opts ...Option) error {
	if types == nil {
		return nil
	}
	cfg := newConfig(opts)

	var missing []string
	for _, member := range members {
		member = strings.TrimSpace(member)
		if member == "" {
			continue
		}
		if !types.HasMember(name, member) {
			missing = append(missing, member)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return fail(cfg, MissingMemberError{TypeName: filter.NormalizeName(name), Missing: missing})
}

// RequireSubstitute evaluates hookName and checks that it resolves to substitute.
// If hooks is nil, RequireSubstitute returns nil.
func RequireSubstitute(ctx context.Context, hooks filter.Hooks, hookName, substitute string, opts ...Option) error {
	if hooks == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	cfg := newConfig(opts)

	name := filter.NormalizeName(hookName)
	want := filter.NormalizeName(substitute)
	if name == "" {
		return mapErr(cfg, ferrors.WrapSentinel(ferrors.ErrHookNameRequired, "", map[string]any{
			ferrors.MetaOperation: "require_substitute",
		}))
	}
	got := hooks.ApplyFilters(ctx, name, "")
	if got == want {
		return nil
	}
	return fail(cfg, NotSubstitutedError{HookName: name, Substitute: want, Got: got})
}

func newConfig(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func fail(cfg *config, err error) error {
	if cfg.failureErr != nil {
		return cfg.failureErr
	}
	return mapErr(cfg, err)
}

func mapErr(cfg *config, err error) error {
	if err == nil {
		return nil
	}
	if cfg != nil && cfg.errorMapper != nil {
		return cfg.errorMapper(err)
	}
	return err
}
