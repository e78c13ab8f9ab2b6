package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/hesabdari_ledger/internal/models"
	"github.com/SscSPs/hesabdari_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const periodColumns = `period_id, name, start_date, end_date, is_closed, closed_at, closed_by, closing_date, closing_note,
	total_revenue, total_expenses, net_income, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxPeriodRepository struct {
	BaseRepository
}

func newPgxPeriodRepository(pool *pgxpool.Pool) portsrepo.PeriodRepositoryFacade {
	return &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PeriodRepositoryFacade = (*PgxPeriodRepository)(nil)

func scanPeriod(row pgx.Row) (models.AccountingPeriod, error) {
	var m models.AccountingPeriod
	err := row.Scan(
		&m.PeriodID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
		&m.ClosedAt,
		&m.ClosedBy,
		&m.ClosingDate,
		&m.ClosingNote,
		&m.TotalRevenue,
		&m.TotalExpenses,
		&m.NetIncome,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxPeriodRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.AccountingPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM accounting_periods WHERE period_id = $1;`
	m, err := scanPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find period %s: %w", periodID, err)
	}
	p := mapping.ToDomainPeriod(m)
	return &p, nil
}

func (r *PgxPeriodRepository) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	rows, err := r.Pool.Query(ctx, `SELECT `+periodColumns+` FROM accounting_periods ORDER BY start_date;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods: %w", err)
	}
	defer rows.Close()

	periods := []domain.AccountingPeriod{}
	for rows.Next() {
		m, err := scanPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainPeriod(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating period rows: %w", err)
	}
	return periods, nil
}

// SavePeriod inserts a new open period. The exclusion constraint on the date range rejects overlaps.
func (r *PgxPeriodRepository) SavePeriod(ctx context.Context, period domain.AccountingPeriod) error {
	m := mapping.ToModelPeriod(period)
	query := `
		INSERT INTO accounting_periods (
			period_id, name, start_date, end_date, is_closed,
			total_revenue, total_expenses, net_income, version,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, FALSE, 0, 0, 0, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PeriodID,
		m.Name,
		m.StartDate,
		m.EndDate,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return translatePeriodError(err, "failed to save period "+m.PeriodID)
}

func (r *PgxPeriodRepository) UpdateOpenPeriod(ctx context.Context, period domain.AccountingPeriod, expectedVersion int64) error {
	m := mapping.ToModelPeriod(period)
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpenPeriod(ctx, tx, m.PeriodID, expectedVersion, apperrors.ErrPeriodClosed); err != nil {
			return err
		}
		var outside int
		err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM journal_entries
			WHERE period_id = $1 AND (entry_date < $2 OR entry_date > $3);
		`, m.PeriodID, m.StartDate, m.EndDate).Scan(&outside)
		if err != nil {
			return err
		}
		if outside > 0 {
			return fmt.Errorf("%w: %d journal entries of period %s fall outside the new date range",
				apperrors.ErrEntriesOutsidePeriod, outside, m.PeriodID)
		}
		_, err = tx.Exec(ctx, `
			UPDATE accounting_periods
			SET name = $2, start_date = $3, end_date = $4, version = $5,
			    last_updated_at = $6, last_updated_by = $7
			WHERE period_id = $1;
		`, m.PeriodID, m.Name, m.StartDate, m.EndDate, m.Version, m.LastUpdatedAt, m.LastUpdatedBy)
		return err
	})
	return translatePeriodError(err, "failed to update period "+m.PeriodID)
}

// ClosePeriod writes the closure. The FOR UPDATE lock waits out in-flight journal writes holding FOR SHARE,
// so the draft count and the aggregates read under it are final.
func (r *PgxPeriodRepository) ClosePeriod(ctx context.Context, periodID string, expectedVersion int64, closure domain.PeriodClosure) (domain.PeriodAggregates, error) {
	var aggregates domain.PeriodAggregates
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpenPeriod(ctx, tx, periodID, expectedVersion, apperrors.ErrAlreadyClosed); err != nil {
			return err
		}

		var drafts int
		if err := tx.QueryRow(ctx, `
			SELECT COUNT(*) FROM journal_entries WHERE period_id = $1 AND status = 'DRAFT';
		`, periodID).Scan(&drafts); err != nil {
			return err
		}
		if drafts > 0 {
			return fmt.Errorf("%w: %d draft entries appeared in period %s", apperrors.ErrClosingChecksFailed, drafts, periodID)
		}

		rows, err := queryTrialBalance(ctx, tx, periodID)
		if err != nil {
			return err
		}
		tb := domain.TrialBalance{PeriodID: periodID, Rows: rows}
		aggregates = tb.Aggregates()

		_, err = tx.Exec(ctx, `
			UPDATE accounting_periods
			SET is_closed = TRUE, closed_at = $2, closed_by = $3, closing_date = $4, closing_note = $5,
			    total_revenue = $6, total_expenses = $7, net_income = $8,
			    version = version + 1, last_updated_at = $2, last_updated_by = $3
			WHERE period_id = $1;
		`,
			periodID,
			closure.ClosedAt,
			closure.ClosedBy,
			closure.ClosingDate,
			closure.ClosingNote,
			aggregates.TotalRevenue,
			aggregates.TotalExpenses,
			aggregates.NetIncome,
		)
		return err
	})
	if err != nil {
		return domain.PeriodAggregates{}, translatePeriodError(err, "failed to close period "+periodID)
	}
	return aggregates, nil
}

func (r *PgxPeriodRepository) DeleteOpenPeriod(ctx context.Context, periodID string) error {
	err := r.WithTx(ctx, func(tx pgx.Tx) error {
		var closed bool
		err := tx.QueryRow(ctx, `SELECT is_closed FROM accounting_periods WHERE period_id = $1 FOR UPDATE;`, periodID).Scan(&closed)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.ErrNotFound
			}
			return err
		}
		if closed {
			return apperrors.ErrPeriodClosed
		}
		_, err = tx.Exec(ctx, `DELETE FROM accounting_periods WHERE period_id = $1;`, periodID)
		return err
	})
	return translatePeriodError(err, "failed to delete period "+periodID)
}

// lockOpenPeriod row-locks an open period at the expected version. closedErr is returned for a closed row.
func lockOpenPeriod(ctx context.Context, tx pgx.Tx, periodID string, expectedVersion int64, closedErr error) error {
	var (
		closed  bool
		version int64
	)
	err := tx.QueryRow(ctx, `
		SELECT is_closed, version FROM accounting_periods WHERE period_id = $1 FOR UPDATE;
	`, periodID).Scan(&closed, &version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return err
	}
	if closed {
		return closedErr
	}
	if version != expectedVersion {
		return apperrors.ErrConflict
	}
	return nil
}

func translatePeriodError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if apperrors.KindOf(err) != apperrors.KindInternal {
		return err
	}
	switch pgErrorCode(err) {
	case pgExclusionViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrOverlappingPeriod, msg)
	case pgForeignKeyViolation:
		return fmt.Errorf("%w: %s: period still has journal entries", apperrors.ErrConflict, msg)
	case pgUniqueViolation:
		return fmt.Errorf("%w: %s", apperrors.ErrDuplicate, msg)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
