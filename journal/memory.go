package journal

import (
	"context"
	"sync"

	"github.com/goliatone/go-filteredclass/ferrors"
	"github.com/goliatone/go-filteredclass/filter"
)

// MemoryJournal keeps install records in memory for tests and examples.
type MemoryJournal struct {
	mu      sync.RWMutex
	records []Record
}

// NewMemoryJournal constructs an in-memory journal.
func NewMemoryJournal() *MemoryJournal {
	return &MemoryJournal{}
}

// Append implements Writer.
func (m *MemoryJournal) Append(_ context.Context, record Record) error {
	if m == nil {
		return ferrors.WrapSentinel(ferrors.ErrJournalRequired, "", map[string]any{
			ferrors.MetaOperation: "append",
		})
	}
	if err := record.Validate(); err != nil {
		return err
	}
	record.HookName = filter.NormalizeName(record.HookName)
	record.AliasName = filter.NormalizeName(record.AliasName)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, record)
	return nil
}

// List implements Reader. Records come back in append order.
func (m *MemoryJournal) List(_ context.Context, hookName string) ([]Record, error) {
	if m == nil {
		return nil, ferrors.WrapSentinel(ferrors.ErrJournalRequired, "", map[string]any{
			ferrors.MetaOperation: "list",
		})
	}
	normalized := filter.NormalizeName(hookName)
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Record, 0, len(m.records))
	for _, record := range m.records {
		if normalized != "" && record.HookName != normalized {
			continue
		}
		out = append(out, record)
	}
	return out, nil
}

// Len returns the number of stored records.
func (m *MemoryJournal) Len() int {
	if m == nil {
		return 0
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}

// Clear removes all stored records.
func (m *MemoryJournal) Clear() {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = nil
}

var _ ReadWriter = (*MemoryJournal)(nil)
