package hooks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-filteredclass/activity"
	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
)

func appendTag(tag string) filter.Callback {
	return filter.CallbackFunc(func(_ context.Context, value string) string {
		return value + "+" + tag
	})
}

func TestApplyFiltersEmptyChainReturnsSeed(t *testing.T) {
	r := New()
	if got := r.ApplyFilters(context.Background(), "pick_store", "ArrayStore"); got != "ArrayStore" {
		t.Fatalf("ApplyFilters() = %q, want seed", got)
	}
	if r.Applied("pick_store") != 1 {
		t.Fatalf("expected evaluation to be counted")
	}
}

func TestApplyFiltersOrdersByPriorityThenInsertion(t *testing.T) {
	r := New()
	ctx := context.Background()
	mustAdd(t, r, "chain", appendTag("late"), 20)
	mustAdd(t, r, "chain", appendTag("first"), 5)
	mustAdd(t, r, "chain", appendTag("a"), filter.DefaultPriority)
	mustAdd(t, r, "chain", appendTag("b"), filter.DefaultPriority)
	mustAdd(t, r, "chain", appendTag("last"), filter.MaxPriority)

	got := r.ApplyFilters(ctx, "chain", "seed")
	want := "seed+first+a+b+late+last"
	if got != want {
		t.Fatalf("ApplyFilters() = %q, want %q", got, want)
	}

	regs := r.Registrations("chain")
	if len(regs) != 5 {
		t.Fatalf("expected 5 registrations, got %d", len(regs))
	}
	for i := 1; i < len(regs); i++ {
		if regs[i-1].Priority > regs[i].Priority {
			t.Fatalf("registrations out of order: %+v", regs)
		}
	}
}

func TestAddFilterValidatesInput(t *testing.T) {
	r := New()
	if err := r.AddFilter("  ", filter.Const("x"), 10, 1); !errors.Is(err, ferrors.ErrHookNameRequired) {
		t.Fatalf("expected hook name error, got %v", err)
	}
	if err := r.AddFilter("hook", nil, 10, 1); !errors.Is(err, ferrors.ErrCallbackRequired) {
		t.Fatalf("expected callback error, got %v", err)
	}
	if err := r.AddFilter("hook", filter.Const("x"), 10, -1); !errors.Is(err, ferrors.ErrAcceptedArgsInvalid) {
		t.Fatalf("expected accepted args error, got %v", err)
	}
	if r.HasFilters("hook") {
		t.Fatalf("rejected registrations must not be stored")
	}
}

func TestRemoveDropsOnlyTheGivenRegistration(t *testing.T) {
	r := New()
	ctx := context.Background()
	keep := mustAdd(t, r, "chain", appendTag("keep"), 10)
	drop := mustAdd(t, r, "chain", appendTag("drop"), 10)

	if !r.RemoveFilter(drop) {
		t.Fatalf("expected removal")
	}
	if r.RemoveFilter(drop) {
		t.Fatalf("second removal must report false")
	}
	if got := r.ApplyFilters(ctx, "chain", "v"); got != "v+keep" {
		t.Fatalf("ApplyFilters() = %q", got)
	}
	if !r.RemoveFilter(keep) || r.HasFilters("chain") {
		t.Fatalf("expected chain to be empty after removing all callbacks")
	}
}

func TestCallbacksMayRegisterDuringDispatch(t *testing.T) {
	r := New()
	ctx := context.Background()
	mustAdd(t, r, "chain", filter.CallbackFunc(func(ctx context.Context, value string) string {
		if err := r.AddFilter("chain", appendTag("nested"), 10, 1); err != nil {
			t.Errorf("nested add failed: %v", err)
		}
		return value
	}), 10)

	if got := r.ApplyFilters(ctx, "chain", "v"); got != "v" {
		t.Fatalf("nested registration must not join the running evaluation, got %q", got)
	}
	if got := r.ApplyFilters(ctx, "chain", "v"); !strings.HasSuffix(got, "+nested") {
		t.Fatalf("expected nested callback on next evaluation, got %q", got)
	}
}

func TestActivityHookReceivesRegistrations(t *testing.T) {
	var events []activity.UpdateEvent
	r := New(WithActivityHook(activity.HookFunc(func(_ context.Context, event activity.UpdateEvent) {
		events = append(events, event)
	})))
	reg := mustAdd(t, r, "pick_logger", filter.Const("FileLogger"), 10)
	r.RemoveFilter(reg)

	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Action != activity.ActionAddFilter || events[0].Name != "pick_logger" {
		t.Fatalf("unexpected add event: %+v", events[0])
	}
	if events[1].Action != activity.ActionRemoveFilter {
		t.Fatalf("unexpected remove event: %+v", events[1])
	}
}

func TestClearResetsChainsAndCounters(t *testing.T) {
	r := New()
	mustAdd(t, r, "chain", appendTag("x"), 10)
	r.ApplyFilters(context.Background(), "chain", "v")
	r.Clear()
	if r.HasFilters("chain") || r.Applied("chain") != 0 {
		t.Fatalf("expected registry to be empty after Clear")
	}
}

func mustAdd(t *testing.T, r *Registry, name string, cb filter.Callback, priority int) filter.Registration {
	t.Helper()
	reg, err := r.Add(name, cb, priority, filter.DefaultAcceptedArgs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}
