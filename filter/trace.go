package filter

import "context"

// CaptureSource captures where the aliased original came from.
type CaptureSource string

const (
	// CaptureSourceCaptured means the override saw the chain's value before substituting it.
	CaptureSourceCaptured CaptureSource = "captured"
	// CaptureSourceDefault means nothing was captured and the seed value was used.
	CaptureSourceDefault CaptureSource = "default"
	// CaptureSourceRaw means the chain did not end with the override and its raw result was used.
	CaptureSourceRaw CaptureSource = "raw"
)

// InstallTrace captures provenance for a single install.
type InstallTrace struct {
	HookName       string
	DefaultValue   string
	SubstituteName string
	AliasName      string
	Original       string
	Resolved       string
	Source         CaptureSource
	Registered     bool
	Published      bool
	Plugin         string
	Actor          ActorRef
}

// InstallEvent is emitted after an install for hooks.
type InstallEvent struct {
	HookName       string
	SubstituteName string
	AliasName      string
	Original       string
	Published      bool
	Error          error
	Trace          InstallTrace
}

// InstallHook receives install events.
type InstallHook interface {
	OnInstall(ctx context.Context, event InstallEvent)
}

// InstallHookFunc wraps a function as an InstallHook.
type InstallHookFunc func(context.Context, InstallEvent)

// OnInstall implements InstallHook.
func (fn InstallHookFunc) OnInstall(ctx context.Context, event InstallEvent) {
	if fn == nil {
		return
	}
	fn(ctx, event)
}
