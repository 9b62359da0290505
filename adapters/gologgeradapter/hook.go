package gologgeradapter

import (
	"context"
	"strings"

	"github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-filteredclass/activity"
	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/scope"
)

// Hook logs install and registry update events using go-logger.
type Hook struct {
	logger         glog.Logger
	installLevel   string
	failureLevel   string
	updateLevel    string
	installMessage string
	updateMessage  string
}

// Option customizes the logger hook.
type Option func(*Hook)

// New builds a logging hook for install/update events.
func New(logger glog.Logger, opts ...Option) *Hook {
	hook := &Hook{
		logger:         logger,
		installLevel:   "info",
		failureLevel:   "warn",
		updateLevel:    "debug",
		installMessage: "filteredclass.install",
		updateMessage:  "filteredclass.update",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(hook)
		}
	}
	return hook
}

// WithInstallLevel sets the log level for successful installs.
func WithInstallLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.installLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithFailureLevel sets the log level for installs whose alias was not published.
func WithFailureLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.failureLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithUpdateLevel sets the log level for update events.
func WithUpdateLevel(level string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateLevel = strings.ToLower(strings.TrimSpace(level))
	}
}

// WithInstallMessage overrides the install log message.
func WithInstallMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.installMessage = message
	}
}

// WithUpdateMessage overrides the update log message.
func WithUpdateMessage(message string) Option {
	return func(hook *Hook) {
		if hook == nil {
			return
		}
		hook.updateMessage = message
	}
}

// OnInstall implements filter.InstallHook.
func (h *Hook) OnInstall(ctx context.Context, event filter.InstallEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"hook_name":       event.HookName,
		"substitute_name": event.SubstituteName,
		"alias_name":      event.AliasName,
		"original":        event.Original,
		"capture_source":  event.Trace.Source,
		"published":       event.Published,
		"registered":      event.Trace.Registered,
		"actor_id":        event.Trace.Actor.ID,
		"actor_type":      event.Trace.Actor.Type,
		"actor_name":      event.Trace.Actor.Name,
	}
	if event.Trace.Plugin != "" {
		fields[scope.MetadataPlugin] = event.Trace.Plugin
	}
	level := h.installLevel
	if event.Error != nil {
		fields["install_error"] = event.Error.Error()
	}
	if !event.Published {
		level = h.failureLevel
	}
	h.log(ctx, level, h.installMessage, fields)
}

// OnUpdate implements activity.Hook.
func (h *Hook) OnUpdate(ctx context.Context, event activity.UpdateEvent) {
	if h == nil || h.logger == nil {
		return
	}
	fields := map[string]any{
		"update_action": event.Action,
		"update_name":   event.Name,
	}
	if event.Target != "" {
		fields["update_target"] = event.Target
	}
	if event.Action == activity.ActionAddFilter || event.Action == activity.ActionRemoveFilter {
		fields["priority"] = event.Priority
		fields["accepted_args"] = event.AcceptedArgs
	}
	h.log(ctx, h.updateLevel, h.updateMessage, fields)
}

func (h *Hook) log(ctx context.Context, level string, message string, fields map[string]any) {
	logger := h.logger
	if logger == nil {
		return
	}
	if ctx != nil {
		logger = logger.WithContext(ctx)
	}
	if fieldsLogger, ok := logger.(glog.FieldsLogger); ok && len(fields) > 0 {
		logger = fieldsLogger.WithFields(fields)
	}
	switch level {
	case "trace":
		logger.Trace(message)
	case "debug":
		logger.Debug(message)
	case "warn":
		logger.Warn(message)
	case "error", "fatal":
		// fatal would exit the host; log it as error.
		logger.Error(message)
	default:
		logger.Info(message)
	}
}

var _ filter.InstallHook = (*Hook)(nil)
var _ activity.Hook = (*Hook)(nil)
