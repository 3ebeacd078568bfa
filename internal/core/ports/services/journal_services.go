package services

import (
	"context"
	"time"

	"github.com/SscSPs/ledger_engine/internal/core/domain"
)

// JournalReaderSvc defines read operations for journal entries
type JournalReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// GetEntryByNumber retrieves an entry with its lines by entry number.
	GetEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error)

	// ListEntries retrieves a page of entries and the token for the next page.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalWriterSvc defines the lifecycle operations of journal entries
type JournalWriterSvc interface {
	// Validate runs every posting rule against a draft without storing anything.
	Validate(ctx context.Context, draft domain.DraftEntry) error

	// CreateDraft stores a shape-valid draft under a new entry number.
	CreateDraft(ctx context.Context, draft domain.DraftEntry) (*domain.JournalEntry, error)

	// UpdateDraft replaces the header and lines of a DRAFT entry.
	UpdateDraft(ctx context.Context, entryID string, draft domain.DraftEntry) (*domain.JournalEntry, error)

	// DeleteDraft removes a DRAFT entry and its lines.
	DeleteDraft(ctx context.Context, entryID string) error

	// Post re-validates a DRAFT and moves it to POSTED.
	Post(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// CreateAndPost validates, stores and posts a draft in one transaction.
	CreateAndPost(ctx context.Context, draft domain.DraftEntry) (*domain.JournalEntry, error)

	// Reverse posts a counter-entry for a POSTED entry and marks the original REVERSED.
	// It returns the counter-entry.
	Reverse(ctx context.Context, entryID string, userID string, reversalDate *time.Time) (*domain.JournalEntry, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
}
