package ferrors

import (
	goerrors "github.com/goliatone/go-errors"
)

const (
	MetaHookName       = "hook_name"
	MetaDefaultValue   = "default_value"
	MetaSubstituteName = "substitute_name"
	MetaAliasName      = "alias_name"
	MetaOriginal       = "original"
	MetaCaptureSource  = "capture_source"
	MetaTypeName       = "type_name"
	MetaTarget         = "target"
	MetaExisting       = "existing"
	MetaParent         = "parent"
	MetaMember         = "member"
	MetaPriority       = "priority"
	MetaAcceptedArgs   = "accepted_args"
	MetaPlugin         = "plugin"
	MetaAdapter        = "adapter"
	MetaDomain         = "domain"
	MetaTable          = "table"
	MetaScope          = "scope"
	MetaOperation      = "operation"
	MetaStrict         = "strict"
)

const (
	TextCodeHookNameRequired    = "HOOK_NAME_REQUIRED"
	TextCodeSubstituteRequired  = "SUBSTITUTE_REQUIRED"
	TextCodeAliasRequired       = "ALIAS_REQUIRED"
	TextCodeHooksRequired       = "HOOKS_REQUIRED"
	TextCodeTypesRequired       = "TYPES_REQUIRED"
	TextCodeTypeNameRequired    = "TYPE_NAME_REQUIRED"
	TextCodeFactoryRequired     = "FACTORY_REQUIRED"
	TextCodeCallbackRequired    = "CALLBACK_REQUIRED"
	TextCodeAcceptedArgsInvalid = "ACCEPTED_ARGS_INVALID"
	TextCodeTypeExists          = "TYPE_EXISTS"
	TextCodeTypeNotFound        = "TYPE_NOT_FOUND"
	TextCodeAliasCollision      = "ALIAS_COLLISION"
	TextCodeFactoryFailed       = "FACTORY_FAILED"
	TextCodeMemberMissing       = "MEMBER_MISSING"
	TextCodeNotSubstituted      = "NOT_SUBSTITUTED"
	TextCodeJournalRequired     = "JOURNAL_REQUIRED"
	TextCodeJournalWriteFailed  = "JOURNAL_WRITE_FAILED"
	TextCodeJournalReadFailed   = "JOURNAL_READ_FAILED"
	TextCodeStoreRequired       = "STORE_REQUIRED"
	TextCodeSnapshotRequired    = "SNAPSHOT_REQUIRED"
	TextCodeRecordInvalid       = "RECORD_INVALID"
	TextCodeInstallFailed       = "INSTALL_FAILED"
)

var (
	ErrHookNameRequired    = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeHookNameRequired, "hook name required")
	ErrSubstituteRequired  = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeSubstituteRequired, "substitute name required")
	ErrAliasRequired       = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeAliasRequired, "alias name required")
	ErrHooksRequired       = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeHooksRequired, "hooks engine is required")
	ErrTypesRequired       = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeTypesRequired, "type registry is required")
	ErrTypeNameRequired    = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeTypeNameRequired, "type name required")
	ErrFactoryRequired     = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeFactoryRequired, "type factory is required")
	ErrCallbackRequired    = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeCallbackRequired, "filter callback is required")
	ErrAcceptedArgsInvalid = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeAcceptedArgsInvalid, "accepted args must not be negative")
	ErrTypeExists          = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeTypeExists, "type name already defined")
	ErrTypeNotFound        = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeTypeNotFound, "type not defined")
	ErrAliasCollision      = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeAliasCollision, "alias names a different type")
	ErrJournalRequired     = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeJournalRequired, "journal is required")
	ErrStoreRequired       = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeStoreRequired, "store is required")
	ErrSnapshotRequired    = newSentinel(goerrors.CategoryInternal, goerrors.CodeInternal, TextCodeSnapshotRequired, "snapshot is required")
	ErrRecordInvalid       = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeRecordInvalid, "journal record requires hook and alias names")
	ErrMemberMissing       = newSentinel(goerrors.CategoryBadInput, goerrors.CodeBadRequest, TextCodeMemberMissing, "type member missing")
	ErrNotSubstituted      = newSentinel(goerrors.CategoryOperation, goerrors.CodeInternal, TextCodeNotSubstituted, "hook does not resolve to substitute")
)

func newSentinel(category goerrors.Category, code int, textCode, message string) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if code != 0 {
		err.WithCode(code)
	}
	return err
}

func IsSentinel(err error) bool {
	return err == ErrHookNameRequired ||
		err == ErrSubstituteRequired ||
		err == ErrAliasRequired ||
		err == ErrHooksRequired ||
		err == ErrTypesRequired ||
		err == ErrTypeNameRequired ||
		err == ErrFactoryRequired ||
		err == ErrCallbackRequired ||
		err == ErrAcceptedArgsInvalid ||
		err == ErrTypeExists ||
		err == ErrTypeNotFound ||
		err == ErrAliasCollision ||
		err == ErrJournalRequired ||
		err == ErrStoreRequired ||
		err == ErrSnapshotRequired ||
		err == ErrRecordInvalid ||
		err == ErrMemberMissing ||
		err == ErrNotSubstituted
}

func WrapSentinel(sentinel *goerrors.Error, message string, meta map[string]any) *goerrors.Error {
	if sentinel == nil {
		return nil
	}
	if message == "" {
		message = sentinel.Message
	}
	err := goerrors.New(message, sentinel.Category).
		WithTextCode(sentinel.TextCode).
		WithCode(sentinel.Code).
		WithSeverity(sentinel.Severity)
	err.Source = sentinel
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func Wrap(err error, category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	if err == nil {
		return nil
	}
	if IsSentinel(err) {
		if sentinel, ok := err.(*goerrors.Error); ok {
			return WrapSentinel(sentinel, "", meta)
		}
	}
	if rich, ok := err.(*goerrors.Error); ok {
		clone := rich.Clone()
		if clone.TextCode == "" && textCode != "" {
			clone.TextCode = textCode
		}
		if clone.Message == "" && message != "" {
			clone.Message = message
		}
		if meta != nil {
			clone.WithMetadata(meta)
		}
		return clone
	}
	if message == "" {
		message = err.Error()
	}
	wrapped := goerrors.New(message, category).WithTextCode(textCode)
	wrapped.Source = err
	if meta != nil {
		wrapped.WithMetadata(meta)
	}
	return wrapped
}

func New(category goerrors.Category, textCode, message string, meta map[string]any) *goerrors.Error {
	err := goerrors.New(message, category).WithTextCode(textCode)
	if meta != nil {
		err.WithMetadata(meta)
	}
	return err
}

func NewBadInput(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryBadInput, textCode, message, meta)
}

func WrapOperation(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryOperation, textCode, message, meta)
}

func NewExternal(textCode, message string, meta map[string]any) *goerrors.Error {
	return New(goerrors.CategoryExternal, textCode, message, meta)
}

func WrapExternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryExternal, textCode, message, meta)
}

func WrapInternal(err error, textCode, message string, meta map[string]any) *goerrors.Error {
	return Wrap(err, goerrors.CategoryInternal, textCode, message, meta)
}

// HasTextCode reports whether err carries the given text code.
func HasTextCode(err error, textCode string) bool {
	rich, ok := As(err)
	if !ok {
		return false
	}
	return rich.TextCode == textCode
}

func As(err error) (*goerrors.Error, bool) {
	var rich *goerrors.Error
	if goerrors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}
