package journal

import (
	"context"
	"time"

	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
)

// Record captures the outcome of a single install.
type Record struct {
	HookName       string
	DefaultValue   string
	SubstituteName string
	AliasName      string
	Original       string
	Source         filter.CaptureSource
	Published      bool
	Error          string
	Plugin         string
	Actor          filter.ActorRef
	InstalledAt    time.Time
}

// FromTrace builds a Record from an install trace and its error, if any.
func FromTrace(trace filter.InstallTrace, err error, at time.Time) Record {
	record := Record{
		HookName:       trace.HookName,
		DefaultValue:   trace.DefaultValue,
		SubstituteName: trace.SubstituteName,
		AliasName:      trace.AliasName,
		Original:       trace.Original,
		Source:         trace.Source,
		Published:      trace.Published,
		Plugin:         trace.Plugin,
		Actor:          trace.Actor,
		InstalledAt:    at,
	}
	if err != nil {
		record.Error = err.Error()
	}
	return record
}

// Validate checks the fields every store needs to key a record.
func (r Record) Validate() error {
	if filter.NormalizeName(r.HookName) == "" || filter.NormalizeName(r.AliasName) == "" {
		return ferrors.WrapSentinel(ferrors.ErrRecordInvalid, "", map[string]any{
			ferrors.MetaHookName:  r.HookName,
			ferrors.MetaAliasName: r.AliasName,
		})
	}
	return nil
}

// Reader lists install records. An empty hook name lists every record.
type Reader interface {
	List(ctx context.Context, hookName string) ([]Record, error)
}

// Writer stores install records.
type Writer interface {
	Append(ctx context.Context, record Record) error
}

// ReadWriter is a combined reader/writer.
type ReadWriter interface {
	Reader
	Writer
}
