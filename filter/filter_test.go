package filter

import (
	"context"
	"testing"
)

func TestCallbackFuncNilPassesThrough(t *testing.T) {
	var fn CallbackFunc
	if got := fn.Filter(context.Background(), "FileLogger"); got != "FileLogger" {
		t.Fatalf("Filter() = %q, want %q", got, "FileLogger")
	}
}

func TestConstIgnoresInput(t *testing.T) {
	cb := Const("FileLogger")
	if got := cb.Filter(context.Background(), "DefaultLogger"); got != "FileLogger" {
		t.Fatalf("Filter() = %q, want %q", got, "FileLogger")
	}
}

func TestInstallHookFuncNilIsSafe(t *testing.T) {
	var fn InstallHookFunc
	fn.OnInstall(context.Background(), InstallEvent{HookName: "pick_logger"})

	var got InstallEvent
	fn = func(_ context.Context, event InstallEvent) { got = event }
	fn.OnInstall(context.Background(), InstallEvent{HookName: "pick_logger"})
	if got.HookName != "pick_logger" {
		t.Fatalf("expected event to be delivered, got %+v", got)
	}
}

func TestNormalizeNameAndActor(t *testing.T) {
	if got := NormalizeName("  pick_logger\n"); got != "pick_logger" {
		t.Fatalf("NormalizeName() = %q", got)
	}
	if !(ActorRef{}).IsZero() {
		t.Fatalf("expected empty actor to be zero")
	}
	if (ActorRef{ID: "admin"}).IsZero() {
		t.Fatalf("expected actor with id to be non-zero")
	}
}
