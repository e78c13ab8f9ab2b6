package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/hesabdari_ledger/internal/apperrors"
	"github.com/SscSPs/hesabdari_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/hesabdari_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxClosingDataRepository answers the queries of the closing checklist and stores
// the reconciliations, valuations and checks they consult.
type PgxClosingDataRepository struct {
	BaseRepository
	periods *PgxPeriodRepository
}

func newPgxClosingDataRepository(pool *pgxpool.Pool) portsrepo.ClosingDataRepositoryFacade {
	return &PgxClosingDataRepository{
		BaseRepository: BaseRepository{Pool: pool},
		periods:        &PgxPeriodRepository{BaseRepository: BaseRepository{Pool: pool}},
	}
}

var _ portsrepo.ClosingDataRepositoryFacade = (*PgxClosingDataRepository)(nil)

func (r *PgxClosingDataRepository) CountDraftEntries(ctx context.Context, periodID string) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM journal_entries WHERE period_id = $1 AND status = $2;
	`, periodID, string(domain.Draft)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count draft entries for period %s: %w", periodID, err)
	}
	return count, nil
}

// PostedTotals sums the cached totals of posted entries and lists entries whose lines disagree with them.
func (r *PgxClosingDataRepository) PostedTotals(ctx context.Context, periodID string) (portsrepo.PostedTotals, error) {
	out := portsrepo.PostedTotals{TotalDebit: decimal.Zero, TotalCredit: decimal.Zero, UnbalancedEntries: []string{}}

	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total_debit), 0), COALESCE(SUM(total_credit), 0)
		FROM journal_entries
		WHERE period_id = $1 AND status = $2;
	`, periodID, string(domain.Posted)).Scan(&out.TotalDebit, &out.TotalCredit)
	if err != nil {
		return out, fmt.Errorf("failed to sum posted totals for period %s: %w", periodID, err)
	}

	rows, err := r.Pool.Query(ctx, `
		SELECT e.entry_id
		FROM journal_entries e
		LEFT JOIN journal_lines l ON l.entry_id = e.entry_id
		WHERE e.period_id = $1 AND e.status = $2
		GROUP BY e.entry_id, e.number, e.total_debit, e.total_credit
		HAVING COALESCE(SUM(l.debit), 0) <> e.total_debit OR COALESCE(SUM(l.credit), 0) <> e.total_credit
		ORDER BY e.number;
	`, periodID, string(domain.Posted))
	if err != nil {
		return out, fmt.Errorf("failed to query unbalanced entries for period %s: %w", periodID, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return out, fmt.Errorf("failed to scan unbalanced entries: %w", err)
	}
	out.UnbalancedEntries = append(out.UnbalancedEntries, ids...)
	return out, nil
}

func (r *PgxClosingDataRepository) ListPeriods(ctx context.Context) ([]domain.AccountingPeriod, error) {
	return r.periods.ListPeriods(ctx)
}

func (r *PgxClosingDataRepository) ListBankReconciliations(ctx context.Context, periodID string) ([]domain.BankReconciliation, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT reconciliation_id, period_id, bank_account_id, status
		FROM bank_reconciliations
		WHERE period_id = $1
		ORDER BY reconciliation_id;
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank reconciliations: %w", err)
	}
	defer rows.Close()

	out := []domain.BankReconciliation{}
	for rows.Next() {
		var rec domain.BankReconciliation
		if err := rows.Scan(&rec.ReconciliationID, &rec.PeriodID, &rec.BankAccountID, &rec.Status); err != nil {
			return nil, fmt.Errorf("failed to scan bank reconciliation: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (r *PgxClosingDataRepository) ListInventoryValuations(ctx context.Context, periodID string) ([]domain.InventoryValuation, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT valuation_id, period_id, account_id, amount::text
		FROM inventory_valuations
		WHERE period_id = $1
		ORDER BY valuation_id;
	`, periodID)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory valuations: %w", err)
	}
	defer rows.Close()

	out := []domain.InventoryValuation{}
	for rows.Next() {
		var v domain.InventoryValuation
		if err := rows.Scan(&v.ValuationID, &v.PeriodID, &v.AccountID, &v.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan inventory valuation: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *PgxClosingDataRepository) AccountBookBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.Pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(l.debit - l.credit), 0)
		FROM journal_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE l.account_id = $1 AND e.status = $2 AND e.entry_date <= $3;
	`, accountID, string(domain.Posted), domain.TruncateDay(asOf)).Scan(&balance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to compute book balance for account %s: %w", accountID, err)
	}
	return balance, nil
}

func (r *PgxClosingDataRepository) ListOutstandingChecksDueBy(ctx context.Context, dueBy time.Time) ([]domain.IssuedCheck, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT check_id, check_number, due_date, status
		FROM issued_checks
		WHERE status = $1 AND due_date <= $2
		ORDER BY due_date, check_number;
	`, string(domain.CheckOutstanding), domain.TruncateDay(dueBy))
	if err != nil {
		return nil, fmt.Errorf("failed to list outstanding checks: %w", err)
	}
	defer rows.Close()

	out := []domain.IssuedCheck{}
	for rows.Next() {
		var c domain.IssuedCheck
		if err := rows.Scan(&c.CheckID, &c.CheckNumber, &c.DueDate, &c.Status); err != nil {
			return nil, fmt.Errorf("failed to scan issued check: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *PgxClosingDataRepository) SaveBankReconciliation(ctx context.Context, rec domain.BankReconciliation) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO bank_reconciliations (reconciliation_id, period_id, bank_account_id, status)
		VALUES ($1, $2, $3, $4);
	`, rec.ReconciliationID, rec.PeriodID, rec.BankAccountID, string(rec.Status))
	return translateWriteError(err, "failed to save bank reconciliation "+rec.ReconciliationID)
}

func (r *PgxClosingDataRepository) FindBankReconciliationByID(ctx context.Context, reconciliationID string) (*domain.BankReconciliation, error) {
	var rec domain.BankReconciliation
	err := r.Pool.QueryRow(ctx, `
		SELECT reconciliation_id, period_id, bank_account_id, status
		FROM bank_reconciliations
		WHERE reconciliation_id = $1;
	`, reconciliationID).Scan(&rec.ReconciliationID, &rec.PeriodID, &rec.BankAccountID, &rec.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find bank reconciliation %s: %w", reconciliationID, err)
	}
	return &rec, nil
}

func (r *PgxClosingDataRepository) UpdateBankReconciliationStatus(ctx context.Context, reconciliationID string, status domain.ReconciliationStatus) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE bank_reconciliations SET status = $2 WHERE reconciliation_id = $1;
	`, reconciliationID, string(status))
	if err != nil {
		return fmt.Errorf("failed to update bank reconciliation %s: %w", reconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxClosingDataRepository) SaveInventoryValuation(ctx context.Context, v domain.InventoryValuation) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO inventory_valuations (valuation_id, period_id, account_id, amount)
		VALUES ($1, $2, $3, $4::numeric);
	`, v.ValuationID, v.PeriodID, v.AccountID, v.Amount)
	return translateWriteError(err, "failed to save inventory valuation "+v.ValuationID)
}

func (r *PgxClosingDataRepository) SaveIssuedCheck(ctx context.Context, c domain.IssuedCheck) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO issued_checks (check_id, check_number, due_date, status)
		VALUES ($1, $2, $3, $4);
	`, c.CheckID, c.CheckNumber, domain.TruncateDay(c.DueDate), string(c.Status))
	return translateWriteError(err, "failed to save issued check "+c.CheckID)
}

func (r *PgxClosingDataRepository) UpdateIssuedCheckStatus(ctx context.Context, checkID string, status domain.CheckStatus) (*domain.IssuedCheck, error) {
	var c domain.IssuedCheck
	err := r.Pool.QueryRow(ctx, `
		UPDATE issued_checks SET status = $2 WHERE check_id = $1
		RETURNING check_id, check_number, due_date, status;
	`, checkID, string(status)).Scan(&c.CheckID, &c.CheckNumber, &c.DueDate, &c.Status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update issued check %s: %w", checkID, err)
	}
	return &c, nil
}
