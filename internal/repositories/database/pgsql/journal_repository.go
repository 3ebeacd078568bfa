package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/SscSPs/ledger_engine/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_engine/internal/core/ports/repositories"
	"github.com/SscSPs/ledger_engine/internal/models"
	"github.com/SscSPs/ledger_engine/internal/utils/mapping"
	"github.com/SscSPs/ledger_engine/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `entry_id, entry_number, entry_date, description, reference, status, kind,
	reversal_of, reversed_by, posted_at, reversed_at,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, description, debit_amount, credit_amount`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) *PgxJournalRepository {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// SaveEntry inserts the header and all lines atomically.
func (r *PgxJournalRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		query := `
			INSERT INTO journal_entries (` + entryColumns + `)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
		`
		_, err := r.db(txCtx).Exec(txCtx, query,
			m.EntryID, m.EntryNumber, m.EntryDate, m.Description, m.Reference, m.Status, m.Kind,
			m.ReversalOf, m.ReversedBy, m.PostedAt, m.ReversedAt,
			m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
		)
		if err != nil {
			return mapPgError(err, "journal entry "+m.EntryNumber)
		}
		return r.insertLines(txCtx, entry.Lines)
	})
}

// insertLines sends all line inserts in one batch.
func (r *PgxJournalRepository) insertLines(ctx context.Context, lines []domain.JournalEntryLine) error {
	if len(lines) == 0 {
		return nil
	}

	query := `INSERT INTO journal_entry_lines (` + lineColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7);`
	batch := &pgx.Batch{}
	for _, l := range lines {
		ml := mapping.ToModelJournalEntryLine(l)
		batch.Queue(query, ml.LineID, ml.EntryID, ml.LineNumber, ml.AccountID, ml.Description, ml.DebitAmount, ml.CreditAmount)
	}

	// Close reports the first failed statement.
	if err := r.db(ctx).SendBatch(ctx, batch).Close(); err != nil {
		return mapPgError(err, "journal entry lines")
	}
	return nil
}

// ReplaceDraft rewrites the header of a DRAFT entry and swaps its lines.
func (r *PgxJournalRepository) ReplaceDraft(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	return r.WithinTransaction(ctx, func(txCtx context.Context) error {
		q := r.db(txCtx)
		tag, err := q.Exec(txCtx, `
			UPDATE journal_entries
			SET entry_date = $2, description = $3, reference = $4, last_updated_at = $5, last_updated_by = $6
			WHERE entry_id = $1 AND status = 'DRAFT';
		`, m.EntryID, m.EntryDate, m.Description, m.Reference, m.LastUpdatedAt, m.LastUpdatedBy)
		if err != nil {
			return mapPgError(err, "draft entry "+m.EntryID)
		}
		if err := expectOne(tag, "draft entry "+m.EntryID); err != nil {
			return err
		}

		if _, err := q.Exec(txCtx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return mapPgError(err, "draft entry lines")
		}
		return r.insertLines(txCtx, entry.Lines)
	})
}

// DeleteDraft removes a DRAFT entry. Lines cascade.
func (r *PgxJournalRepository) DeleteDraft(ctx context.Context, entryID string) error {
	tag, err := r.db(ctx).Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND status = 'DRAFT';`, entryID)
	if err != nil {
		return mapPgError(err, "draft entry "+entryID)
	}
	return expectOne(tag, "draft entry "+entryID)
}

// MarkPosted moves a DRAFT entry to POSTED.
func (r *PgxJournalRepository) MarkPosted(ctx context.Context, entryID string, postedAt time.Time, userID string) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`, entryID, postedAt, userID)
	if err != nil {
		return mapPgError(err, "journal entry "+entryID)
	}
	return expectOne(tag, "draft entry "+entryID)
}

// MarkReversed moves a POSTED entry to REVERSED and links the counter-entry.
func (r *PgxJournalRepository) MarkReversed(ctx context.Context, entryID string, reversedBy string, reversedAt time.Time, userID string) error {
	tag, err := r.db(ctx).Exec(ctx, `
		UPDATE journal_entries
		SET status = 'REVERSED', reversed_by = $2, reversed_at = $3, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED';
	`, entryID, reversedBy, reversedAt, userID)
	if err != nil {
		return mapPgError(err, "journal entry "+entryID)
	}
	return expectOne(tag, "posted entry "+entryID)
}

// FindEntryByID retrieves an entry with its lines.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1;`, entryID)
}

// FindEntryByNumber retrieves an entry with its lines by number.
func (r *PgxJournalRepository) FindEntryByNumber(ctx context.Context, entryNumber string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_number = $1;`, entryNumber)
}

// LockEntryForUpdate reads an entry with FOR UPDATE. Only meaningful inside WithinTransaction.
func (r *PgxJournalRepository) LockEntryForUpdate(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	return r.findEntry(ctx, `SELECT `+entryColumns+` FROM journal_entries WHERE entry_id = $1 FOR UPDATE;`, entryID)
}

func (r *PgxJournalRepository) findEntry(ctx context.Context, query string, arg string) (*domain.JournalEntry, error) {
	q := r.db(ctx)
	rows, _ := q.Query(ctx, query, arg)
	m, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, mapPgError(err, "journal entry "+arg)
	}

	entry := mapping.ToDomainJournalEntry(m)
	lineRows, _ := q.Query(ctx, `SELECT `+lineColumns+` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_number;`, entry.EntryID)
	lines, err := pgx.CollectRows(lineRows, pgx.RowToStructByName[models.JournalEntryLine])
	if err != nil {
		return nil, mapPgError(err, "lines of journal entry "+entry.EntryNumber)
	}
	entry.Lines = make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		entry.Lines[i] = mapping.ToDomainJournalEntryLine(l)
	}
	return &entry, nil
}

// ListEntries lists entry headers newest first using token-based pagination.
// The token encodes the (entry_date, created_at, entry_id) of the last row returned.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	var conditions []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.Status != nil {
		conditions = append(conditions, "status = "+arg(string(*filter.Status)))
	}
	if filter.FromDate != nil {
		conditions = append(conditions, "entry_date >= "+arg(domain.DateOnly(*filter.FromDate)))
	}
	if filter.ToDate != nil {
		conditions = append(conditions, "entry_date <= "+arg(domain.DateOnly(*filter.ToDate)))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewValidationError(err.Error())
		}
		conditions = append(conditions, fmt.Sprintf("(entry_date, created_at, entry_id) < (%s, %s, %s)",
			arg(cursor.Date), arg(cursor.CreatedAt), arg(cursor.ID)))
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	// One extra row tells whether another page exists.
	query += " ORDER BY entry_date DESC, created_at DESC, entry_id DESC LIMIT " + arg(limit+1) + ";"

	rows, _ := r.db(ctx).Query(ctx, query, args...)
	ms, err := pgx.CollectRows(rows, pgx.RowToStructByName[models.JournalEntry])
	if err != nil {
		return nil, nil, mapPgError(err, "journal entry list")
	}

	var next *string
	if len(ms) > limit {
		ms = ms[:limit]
		last := ms[len(ms)-1]
		token := pagination.Cursor{Date: last.EntryDate, CreatedAt: last.CreatedAt, ID: last.EntryID}.Encode()
		next = &token
	}
	return mapping.ToDomainJournalEntrySlice(ms), next, nil
}
