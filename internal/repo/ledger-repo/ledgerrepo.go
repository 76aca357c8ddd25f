package ledgerrepo

import (
	"context"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/pg"
)

type Repository struct {
	db pg.Database
}

func New(db pg.Database) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetByJobID(ctx context.Context, jobID int) (*domain.BudgetLedger, error) {
	query := `
        SELECT id, job_id, total_budget, amount_paid, amount_pending, remaining_budget, frozen, updated_at
        FROM budget_ledgers
        WHERE job_id = $1
    `
	row := r.db.QueryRow(ctx, query, jobID)
	var ledger domain.BudgetLedger
	err := row.Scan(&ledger.ID, &ledger.JobID, &ledger.TotalBudget, &ledger.AmountPaid,
		&ledger.AmountPending, &ledger.RemainingBudget, &ledger.Frozen, &ledger.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get budget ledger", zap.Error(err))
		return nil, err
	}
	return &ledger, nil
}

// Create seeds a ledger with the whole budget remaining. Concurrent creates
// for the same job collapse into one row.
func (r *Repository) Create(ctx context.Context, jobID int, totalBudget domain.Money) error {
	query := `
        INSERT INTO budget_ledgers (job_id, total_budget, amount_paid, amount_pending, remaining_budget)
        VALUES ($1, $2, 0, 0, $2)
        ON CONFLICT (job_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, jobID, totalBudget)
	if err != nil {
		zap.L().Error("failed to create budget ledger", zap.Error(err))
		return err
	}
	return nil
}

// Reserve moves amount from remaining to pending in one conditional update.
// Returns false when the remaining budget does not cover the amount or the
// ledger is frozen; the check and the move are a single atomic statement, so
// two concurrent reservations can never both succeed past the budget.
func (r *Repository) Reserve(ctx context.Context, jobID int, amount domain.Money) (bool, error) {
	query := `
        UPDATE budget_ledgers
        SET remaining_budget = remaining_budget - $2, amount_pending = amount_pending + $2, updated_at = now()
        WHERE job_id = $1 AND remaining_budget >= $2 AND NOT frozen
    `
	tag, err := r.db.Exec(ctx, query, jobID, amount)
	if err != nil {
		zap.L().Error("failed to reserve budget", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Release removes amount from pending, settling it into paid or reverting it
// to remaining. Guarded on amount_pending so a stray double release cannot
// drive the ledger negative.
func (r *Repository) Release(ctx context.Context, jobID int, amount domain.Money, settled bool) (bool, error) {
	var query string
	if settled {
		query = `
            UPDATE budget_ledgers
            SET amount_pending = amount_pending - $2, amount_paid = amount_paid + $2, updated_at = now()
            WHERE job_id = $1 AND amount_pending >= $2
        `
	} else {
		query = `
            UPDATE budget_ledgers
            SET amount_pending = amount_pending - $2, remaining_budget = remaining_budget + $2, updated_at = now()
            WHERE job_id = $1 AND amount_pending >= $2
        `
	}
	tag, err := r.db.Exec(ctx, query, jobID, amount)
	if err != nil {
		zap.L().Error("failed to release pending budget", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// Freeze stops all further mutation of a ledger row. Used when the
// conservation invariant is found violated.
func (r *Repository) Freeze(ctx context.Context, jobID int) error {
	query := `UPDATE budget_ledgers SET frozen = TRUE, updated_at = now() WHERE job_id = $1`
	_, err := r.db.Exec(ctx, query, jobID)
	if err != nil {
		zap.L().Error("failed to freeze budget ledger", zap.Error(err))
		return err
	}
	return nil
}
