package mapping

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

func TestJournalEntryMapping_KeepsAuditStampAndLinks(t *testing.T) {
	created := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	original := "e-1"
	entry := domain.JournalEntry{
		EntryID:     "e-2",
		EntryNumber: "JE-20250301-0A1B2C",
		EntryDate:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Status:      domain.Posted,
		Kind:        domain.KindReversal,
		ReversalOf:  &original,
		AuditFields: domain.AuditFields{CreatedAt: created, CreatedBy: "user-1", LastUpdatedAt: created, LastUpdatedBy: "user-2"},
	}

	row := ToModelJournalEntry(entry)
	assert.Equal(t, "POSTED", row.Status)
	assert.Equal(t, "REVERSAL", row.Kind)
	assert.Equal(t, "user-2", row.LastUpdatedBy)

	back := ToDomainJournalEntry(row)
	assert.Equal(t, entry.AuditFields, back.AuditFields)
	assert.Equal(t, domain.KindReversal, back.Kind)
	assert.Equal(t, "e-1", *back.ReversalOf)
}
