package bunadapter

import (
	"context"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
	"github.com/goliatone/go-filteredclass/journal"
)

// DefaultTable is the default table name for install records.
const DefaultTable = "filteredclass_installs"

// ErrDBRequired indicates the underlying Bun DB is missing.
var ErrDBRequired = ferrors.ErrStoreRequired

// Journal persists install records through Bun.
type Journal struct {
	db    bun.IDB
	table string
	now   func() time.Time
}

// Option customizes the Bun journal adapter.
type Option func(*Journal)

// NewJournal constructs a Bun-backed install journal.
func NewJournal(db bun.IDB, opts ...Option) *Journal {
	adapter := &Journal{
		db:    db,
		table: DefaultTable,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(adapter)
		}
	}
	if adapter.table == "" {
		adapter.table = DefaultTable
	}
	if adapter.now == nil {
		adapter.now = time.Now
	}
	return adapter
}

// WithTable sets the table name used for install records.
func WithTable(table string) Option {
	return func(adapter *Journal) {
		if adapter == nil {
			return
		}
		adapter.table = strings.TrimSpace(table)
	}
}

// WithNowFunc sets the timestamp used for records that carry none.
func WithNowFunc(now func() time.Time) Option {
	return func(adapter *Journal) {
		if adapter == nil {
			return
		}
		adapter.now = now
	}
}

// InstallRecord maps to the filteredclass_installs table.
type InstallRecord struct {
	bun.BaseModel  `bun:"table:filteredclass_installs,alias:fci"`
	ID             int64     `bun:"id,pk,autoincrement"`
	HookName       string    `bun:"hook_name,notnull"`
	DefaultValue   string    `bun:"default_value"`
	SubstituteName string    `bun:"substitute_name"`
	AliasName      string    `bun:"alias_name,notnull"`
	Original       string    `bun:"original"`
	Source         string    `bun:"capture_source"`
	Published      bool      `bun:"published"`
	Error          string    `bun:"error"`
	Plugin         string    `bun:"plugin"`
	ActorID        string    `bun:"actor_id"`
	ActorType      string    `bun:"actor_type"`
	ActorName      string    `bun:"actor_name"`
	InstalledAt    time.Time `bun:"installed_at"`
}

// CreateTable creates the journal table when it does not exist.
func (j *Journal) CreateTable(ctx context.Context) error {
	if j == nil || j.db == nil {
		return ferrors.WrapSentinel(ErrDBRequired, "", j.meta("create_table"))
	}
	query := j.db.NewCreateTable().Model((*InstallRecord)(nil)).IfNotExists()
	if j.table != DefaultTable {
		query = query.ModelTableExpr("?", bun.Ident(j.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeJournalWriteFailed, "install journal table create failed", j.meta("create_table"))
	}
	return nil
}

// Append implements journal.Writer.
func (j *Journal) Append(ctx context.Context, record journal.Record) error {
	if j == nil || j.db == nil {
		return ferrors.WrapSentinel(ErrDBRequired, "", j.meta("append"))
	}
	if err := record.Validate(); err != nil {
		return err
	}
	row := recordToRow(record)
	if row.InstalledAt.IsZero() {
		row.InstalledAt = j.now()
	}
	query := j.db.NewInsert().Model(&row)
	if j.table != DefaultTable {
		query = query.ModelTableExpr("? AS fci", bun.Ident(j.table))
	}
	if _, err := query.Exec(ctx); err != nil {
		return ferrors.WrapExternal(err, ferrors.TextCodeJournalWriteFailed, "install journal append failed", j.meta("append"))
	}
	return nil
}

// List implements journal.Reader. Records are returned in insertion order.
func (j *Journal) List(ctx context.Context, hookName string) ([]journal.Record, error) {
	if j == nil || j.db == nil {
		return nil, ferrors.WrapSentinel(ErrDBRequired, "", j.meta("list"))
	}
	var rows []InstallRecord
	query := j.db.NewSelect().Model(&rows).Order("fci.id ASC")
	if j.table != DefaultTable {
		query = query.ModelTableExpr("? AS fci", bun.Ident(j.table))
	}
	if name := filter.NormalizeName(hookName); name != "" {
		query = query.Where("fci.hook_name = ?", name)
	}
	if err := query.Scan(ctx); err != nil {
		return nil, ferrors.WrapExternal(err, ferrors.TextCodeJournalReadFailed, "install journal list failed", j.meta("list"))
	}
	out := make([]journal.Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, rowToRecord(row))
	}
	return out, nil
}

func (j *Journal) meta(operation string) map[string]any {
	table := DefaultTable
	if j != nil {
		table = j.table
	}
	return map[string]any{
		ferrors.MetaAdapter:   "bun",
		ferrors.MetaTable:     table,
		ferrors.MetaOperation: operation,
	}
}

func recordToRow(record journal.Record) InstallRecord {
	return InstallRecord{
		HookName:       filter.NormalizeName(record.HookName),
		DefaultValue:   record.DefaultValue,
		SubstituteName: filter.NormalizeName(record.SubstituteName),
		AliasName:      filter.NormalizeName(record.AliasName),
		Original:       record.Original,
		Source:         string(record.Source),
		Published:      record.Published,
		Error:          record.Error,
		Plugin:         record.Plugin,
		ActorID:        record.Actor.ID,
		ActorType:      record.Actor.Type,
		ActorName:      record.Actor.Name,
		InstalledAt:    record.InstalledAt.UTC(),
	}
}

func rowToRecord(row InstallRecord) journal.Record {
	return journal.Record{
		HookName:       row.HookName,
		DefaultValue:   row.DefaultValue,
		SubstituteName: row.SubstituteName,
		AliasName:      row.AliasName,
		Original:       row.Original,
		Source:         filter.CaptureSource(row.Source),
		Published:      row.Published,
		Error:          row.Error,
		Plugin:         row.Plugin,
		Actor: filter.ActorRef{
			ID:   row.ActorID,
			Type: row.ActorType,
			Name: row.ActorName,
		},
		InstalledAt: row.InstalledAt,
	}
}

var _ journal.ReadWriter = (*Journal)(nil)
