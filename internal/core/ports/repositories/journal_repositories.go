package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReader defines read operations for journal entry data
type JournalReader interface {
	// FindEntryByID retrieves an entry with its lines.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindEntryByNumber retrieves an entry with its lines by its entry number.
	FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves entries (without lines) using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriter defines write operations for journal entry data
type JournalWriter interface {
	// SaveEntry inserts an entry and its lines. A duplicate entry number yields apperrors.ErrDuplicate.
	SaveEntry(ctx context.Context, entry domain.JournalEntry) error

	// ReplaceDraft rewrites header fields and lines of a DRAFT entry.
	ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error

	// DeleteDraft removes a DRAFT entry; its lines go with it.
	DeleteDraft(ctx context.Context, entryID string) error

	// LockEntryForUpdate reads an entry with its lines and holds a row lock until the transaction ends.
	LockEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// MarkPosted moves a DRAFT entry to POSTED.
	MarkPosted(ctx context.Context, entryID string, postedAt time.Time, userID string) error

	// MarkReversed moves a POSTED entry to REVERSED and links its counter-entry.
	MarkReversed(ctx context.Context, entryID string, reversedBy string, reversedAt time.Time, userID string) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalReader
	JournalWriter
}
