package ferrors

import (
	"errors"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestWrapSentinelPreservesIsAndMetadata(t *testing.T) {
	err := WrapSentinel(ErrAliasCollision, "", map[string]any{
		MetaAliasName: "BaseLogger",
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrAliasCollision) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	rich, ok := As(err)
	if !ok {
		t.Fatalf("expected rich error")
	}
	if rich.Category != goerrors.CategoryBadInput {
		t.Fatalf("unexpected category: %s", rich.Category)
	}
	if rich.TextCode != TextCodeAliasCollision {
		t.Fatalf("unexpected text code: %s", rich.TextCode)
	}
	if rich.Metadata == nil || rich.Metadata[MetaAliasName] != "BaseLogger" {
		t.Fatalf("expected metadata to include alias name")
	}
}

func TestWrapExternalKeepsSourceAndTextCode(t *testing.T) {
	cause := errors.New("disk full")
	err := WrapExternal(cause, TextCodeJournalWriteFailed, "journal append failed", map[string]any{
		MetaOperation: "append",
	})
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped error to unwrap to cause")
	}
	if !HasTextCode(err, TextCodeJournalWriteFailed) {
		t.Fatalf("expected text code %s", TextCodeJournalWriteFailed)
	}
	if err.Category != goerrors.CategoryExternal {
		t.Fatalf("unexpected category: %s", err.Category)
	}
}

func TestWrapOfSentinelReturnsFreshCopy(t *testing.T) {
	err := WrapOperation(ErrHooksRequired, TextCodeInstallFailed, "", map[string]any{
		MetaHookName: "pick_logger",
	})
	if err == ErrHooksRequired {
		t.Fatalf("expected sentinel to be copied, not returned")
	}
	if !errors.Is(err, ErrHooksRequired) {
		t.Fatalf("expected errors.Is to match sentinel")
	}
	if ErrHooksRequired.Metadata[MetaHookName] != nil {
		t.Fatalf("sentinel metadata must not be mutated")
	}
}
