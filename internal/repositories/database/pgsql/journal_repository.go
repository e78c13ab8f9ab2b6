package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hesabdari_ledger/internal/models"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/mapping"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const entryColumns = `e.entry_id, e.number, e.entry_date, e.description, e.period_id, e.status,
	e.total_debit, e.total_credit, e.posted_at, e.posted_by, e.cancelled_at, e.cancelled_by, e.version,
	e.created_at, e.created_by, e.last_updated_at, e.last_updated_by`

const insertLineQuery = `
	INSERT INTO journal_lines (line_id, entry_id, line_no, account_id, debit, credit, description)
	VALUES ($1, $2, $3, $4, $5, $6, $7);
`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.Number,
		&m.EntryDate,
		&m.Description,
		&m.PeriodID,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.PostedAt,
		&m.PostedBy,
		&m.CancelledAt,
		&m.CancelledBy,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindJournalEntryByID retrieves an entry and its lines.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries e WHERE e.entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	lines, err := r.linesByEntryIDs(ctx, []string{entryID})
	if err != nil {
		return nil, err
	}
	entry := mapping.ToDomainJournalEntry(m, lines[entryID])
	return &entry, nil
}

// linesByEntryIDs loads the lines of several entries in one round trip, grouped by entry and ordered by line number.
func (r *PgxJournalRepository) linesByEntryIDs(ctx context.Context, entryIDs []string) (map[string][]models.JournalLine, error) {
	query := `
		SELECT l.line_id, l.entry_id, l.line_no, l.account_id, a.code, a.name, l.debit, l.credit, l.description
		FROM journal_lines l
		JOIN accounts a ON a.account_id = l.account_id
		WHERE l.entry_id = ANY($1)
		ORDER BY l.entry_id, l.line_no;
	`
	rows, err := r.Pool.Query(ctx, query, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal lines: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]models.JournalLine, len(entryIDs))
	for rows.Next() {
		var l models.JournalLine
		if err := rows.Scan(
			&l.LineID,
			&l.EntryID,
			&l.LineNo,
			&l.AccountID,
			&l.AccountCode,
			&l.AccountName,
			&l.Debit,
			&l.Credit,
			&l.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal line: %w", err)
		}
		out[l.EntryID] = append(out[l.EntryID], l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal lines: %w", err)
	}
	return out, nil
}

// ListJournalEntries retrieves a page of entries using token-based pagination.
// It returns the entries, a token for the next page, and an error.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, filter domain.JournalEntryFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// One extra row tells us whether another page exists.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries e WHERE 1 = 1`
	args := []interface{}{}
	next := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if filter.PeriodID != "" {
		query += " AND e.period_id = " + next(filter.PeriodID)
	}
	if filter.Status != "" {
		query += " AND e.status = " + next(string(filter.Status))
	}
	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, lastID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += " AND (e.entry_date, e.created_at, e.entry_id) < (" + next(lastDate) + ", " + next(lastCreatedAt) + ", " + next(lastID) + ")"
	}
	query += " ORDER BY e.entry_date DESC, e.created_at DESC, e.entry_id DESC LIMIT " + next(fetchLimit) + ";"

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	headers := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		headers = append(headers, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var nextTokenVal *string
	if len(headers) > limit {
		last := headers[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt, last.EntryID)
		nextTokenVal = &token
		headers = headers[:limit]
	}
	if len(headers) == 0 {
		return []domain.JournalEntry{}, nil, nil
	}

	ids := make([]string, len(headers))
	for i, h := range headers {
		ids[i] = h.EntryID
	}
	lines, err := r.linesByEntryIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	entries := make([]domain.JournalEntry, len(headers))
	for i, h := range headers {
		entries[i] = mapping.ToDomainJournalEntry(h, lines[h.EntryID])
	}
	return entries, nextTokenVal, nil
}

func (r *PgxJournalRepository) CountJournalEntriesByPeriod(ctx context.Context, periodID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal_entries WHERE period_id = $1;`, periodID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count journal entries for period %s: %w", periodID, err)
	}
	return count, nil
}

// NextJournalNumber draws from journal_entry_number_seq.
func (r *PgxJournalRepository) NextJournalNumber(ctx context.Context) (string, error) {
	var seq int64
	if err := r.Pool.QueryRow(ctx, `SELECT nextval('journal_entry_number_seq');`).Scan(&seq); err != nil {
		return "", fmt.Errorf("failed to reserve journal number: %w", err)
	}
	return fmt.Sprintf("JE-%06d", seq), nil
}

// SaveJournalEntry inserts the header and lines of a new draft in one transaction.
func (r *PgxJournalRepository) SaveJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := requireOpenPeriod(ctx, tx, m.PeriodID); err != nil {
			return err
		}

		query := `
			INSERT INTO journal_entries (
				entry_id, number, entry_date, description, period_id, status,
				total_debit, total_credit, version,
				created_at, created_by, last_updated_at, last_updated_by
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
		`
		if _, err := tx.Exec(ctx, query,
			m.EntryID,
			m.Number,
			m.EntryDate,
			m.Description,
			m.PeriodID,
			m.Status,
			m.TotalDebit,
			m.TotalCredit,
			m.Version,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		); err != nil {
			return err
		}
		return insertLines(ctx, tx, entry.Lines)
	})
	return translateWriteError(err, "failed to save journal entry "+m.EntryID)
}

func (r *PgxJournalRepository) UpdateDraftJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int64) error {
	m := mapping.ToModelJournalEntry(entry)

	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockDraft(ctx, tx, m.EntryID, expectedVersion); err != nil {
			return err
		}
		if err := requireOpenPeriod(ctx, tx, m.PeriodID); err != nil {
			return err
		}

		query := `
			UPDATE journal_entries
			SET number = $2, entry_date = $3, description = $4, period_id = $5,
			    total_debit = $6, total_credit = $7, version = $8,
			    last_updated_at = $9, last_updated_by = $10
			WHERE entry_id = $1;
		`
		if _, err := tx.Exec(ctx, query,
			m.EntryID,
			m.Number,
			m.EntryDate,
			m.Description,
			m.PeriodID,
			m.TotalDebit,
			m.TotalCredit,
			m.Version,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
			return err
		}
		return insertLines(ctx, tx, entry.Lines)
	})
	return translateWriteError(err, "failed to update journal entry "+m.EntryID)
}

func (r *PgxJournalRepository) PostJournalEntry(ctx context.Context, entryID string, expectedVersion int64, postedBy string, postedAt time.Time) error {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		periodID, err := lockDraft(ctx, tx, entryID, expectedVersion)
		if err != nil {
			return err
		}
		if err := requireOpenPeriod(ctx, tx, periodID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $2, posted_at = $3, posted_by = $4, version = version + 1,
			    last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1;
		`, entryID, string(domain.Posted), postedAt, postedBy)
		return err
	})
	return translateWriteError(err, "failed to post journal entry "+entryID)
}

func (r *PgxJournalRepository) CancelJournalEntry(ctx context.Context, entryID string, expectedVersion int64, cancelledBy string, cancelledAt time.Time) error {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockDraft(ctx, tx, entryID, expectedVersion); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE journal_entries
			SET status = $2, cancelled_at = $3, cancelled_by = $4, version = version + 1,
			    last_updated_at = $3, last_updated_by = $4
			WHERE entry_id = $1;
		`, entryID, string(domain.Cancelled), cancelledAt, cancelledBy)
		return err
	})
	return translateWriteError(err, "failed to cancel journal entry "+entryID)
}

func (r *PgxJournalRepository) DeleteDraftJournalEntry(ctx context.Context, entryID string, expectedVersion int64) error {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := lockDraft(ctx, tx, entryID, expectedVersion); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM journal_lines WHERE entry_id = $1;`, entryID); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1;`, entryID)
		return err
	})
	return translateWriteError(err, "failed to delete journal entry "+entryID)
}

// lockDraft takes a row lock on the entry and applies the draft and version guard.
// It returns the entry's period so callers can check it is still open.
func lockDraft(ctx context.Context, tx pgx.Tx, entryID string, expectedVersion int64) (string, error) {
	var (
		status   string
		version  int64
		periodID string
	)
	err := tx.QueryRow(ctx, `
		SELECT status, version, period_id FROM journal_entries WHERE entry_id = $1 FOR UPDATE;
	`, entryID).Scan(&status, &version, &periodID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.ErrNotFound
		}
		return "", err
	}
	if domain.JournalStatus(status) != domain.Draft {
		return "", apperrors.ErrInvalidStateTransition
	}
	if version != expectedVersion {
		return "", apperrors.ErrConflict
	}
	return periodID, nil
}

// requireOpenPeriod share-locks the period row so a concurrent close waits for this write.
func requireOpenPeriod(ctx context.Context, tx pgx.Tx, periodID string) error {
	var closed bool
	err := tx.QueryRow(ctx, `SELECT is_closed FROM accounting_periods WHERE period_id = $1 FOR SHARE;`, periodID).Scan(&closed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return err
	}
	if closed {
		return apperrors.ErrPeriodClosed
	}
	return nil
}

func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, line := range lines {
		l := mapping.ToModelJournalLine(line)
		batch.Queue(insertLineQuery, l.LineID, l.EntryID, l.LineNo, l.AccountID, l.Debit, l.Credit, l.Description)
	}
	// Close reports the first failing statement of the batch.
	return tx.SendBatch(ctx, batch).Close()
}

// translateWriteError keeps sentinel errors intact and maps constraint violations.
func translateWriteError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	switch pgErrorCode(err) {
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, msg)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s: referenced row does not exist", apperrors.ErrValidation, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
