package ledgerservice

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/pkg/metrics"
)

type Repo interface {
	GetByJobID(ctx context.Context, jobID int) (*domain.BudgetLedger, error)
	Create(ctx context.Context, jobID int, totalBudget domain.Money) error
	Reserve(ctx context.Context, jobID int, amount domain.Money) (bool, error)
	Release(ctx context.Context, jobID int, amount domain.Money, settled bool) (bool, error)
	Freeze(ctx context.Context, jobID int) error
}

type Service struct {
	repo Repo
}

func New(repo Repo) *Service {
	return &Service{
		repo: repo,
	}
}

var (
	ErrInsufficientBudget = errors.New("insufficient remaining budget")
	ErrLedgerNotFound     = errors.New("budget ledger not found")
	ErrLedgerFrozen       = errors.New("budget ledger is frozen")
	// ErrInvariantViolation means the ledger sums no longer add up. It is a
	// logic or concurrency bug upstream, never a user error; the row is frozen
	// and must not be silently corrected.
	ErrInvariantViolation = errors.New("budget conservation invariant violated")
)

// Ensure lazily creates the ledger for a job, seeded with the whole budget
// remaining. Safe to call for every draw request.
func (s *Service) Ensure(ctx context.Context, jobID int, totalBudget domain.Money) error {
	ledger, err := s.repo.GetByJobID(ctx, jobID)
	if err != nil {
		zap.L().Error("failed to get ledger", zap.Error(err))
		return err
	}
	if ledger != nil {
		return nil
	}
	if err := s.repo.Create(ctx, jobID, totalBudget); err != nil {
		zap.L().Error("failed to seed ledger", zap.Error(err))
		return err
	}
	return nil
}

// Admit atomically reserves amount out of the remaining budget. Two
// concurrent admits for the same job can never jointly exceed it.
func (s *Service) Admit(ctx context.Context, jobID int, amount domain.Money) error {
	ok, err := s.repo.Reserve(ctx, jobID, amount)
	if err != nil {
		return err
	}
	if !ok {
		ledger, lerr := s.repo.GetByJobID(ctx, jobID)
		if lerr == nil && ledger != nil && ledger.Frozen {
			return ErrLedgerFrozen
		}
		return ErrInsufficientBudget
	}
	return s.verify(ctx, jobID)
}

// Release resolves a previously admitted reservation. With settled=true the
// amount moves to paid, otherwise back to remaining. A release that finds no
// matching pending amount is a no-op; idempotency is enforced by the status
// guards of the callers.
func (s *Service) Release(ctx context.Context, jobID int, amount domain.Money, settled bool) error {
	ok, err := s.repo.Release(ctx, jobID, amount, settled)
	if err != nil {
		return err
	}
	if !ok {
		zap.L().Warn("ledger release found nothing to release",
			zap.Int("jobID", jobID), zap.Int64("amount", amount), zap.Bool("settled", settled))
		return nil
	}
	return s.verify(ctx, jobID)
}

func (s *Service) GetLedger(ctx context.Context, jobID int) (*domain.BudgetLedger, error) {
	ledger, err := s.repo.GetByJobID(ctx, jobID)
	if err != nil {
		zap.L().Error("failed to get ledger", zap.Error(err))
		return nil, err
	}
	if ledger == nil {
		return nil, ErrLedgerNotFound
	}
	return ledger, nil
}

// verify re-reads the row after a mutation and freezes it if conservation is
// broken.
func (s *Service) verify(ctx context.Context, jobID int) error {
	ledger, err := s.repo.GetByJobID(ctx, jobID)
	if err != nil {
		return err
	}
	if ledger == nil {
		return ErrLedgerNotFound
	}
	if !ledger.Conserved() {
		metrics.InvariantViolationsTotal.Inc()
		zap.L().Error("budget conservation invariant violated, freezing ledger",
			zap.Int("jobID", jobID),
			zap.Int64("total", ledger.TotalBudget),
			zap.Int64("paid", ledger.AmountPaid),
			zap.Int64("pending", ledger.AmountPending),
			zap.Int64("remaining", ledger.RemainingBudget),
		)
		if err := s.repo.Freeze(ctx, jobID); err != nil {
			zap.L().Error("failed to freeze ledger", zap.Error(err))
		}
		return ErrInvariantViolation
	}
	return nil
}
