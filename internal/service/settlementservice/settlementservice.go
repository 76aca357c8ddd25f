package settlementservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/gateway"
	"github.com/vleukhin/workmart/internal/pg"
	"github.com/vleukhin/workmart/pkg/metrics"
	"github.com/vleukhin/workmart/pkg/validate"
)

type TransactionRepo interface {
	Save(ctx context.Context, txn *domain.Transaction) error
	FindByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	FindPending(ctx context.Context, limit uint32) ([]domain.Transaction, error)
	ResolveFrom(ctx context.Context, id int, to string, payload []byte) (bool, error)
	MarkRefunded(ctx context.Context, id int, payload []byte) (bool, error)
}

type PaymentRepo interface {
	UpdateStatusFrom(ctx context.Context, id int, from, to, declineReason string) (bool, error)
}

type LedgerService interface {
	Release(ctx context.Context, jobID int, amount domain.Money, settled bool) error
}

type Gateway interface {
	CalculatePlatformFee(amount domain.Money) domain.Money
	GenerateReference(prefix string) string
	CreatePayout(ctx context.Context, reference string, amount domain.Money, b *domain.Beneficiary) (*gateway.PayoutResult, error)
}

type BeneficiaryProvider interface {
	GetBeneficiary(ctx context.Context, workerID int) (*domain.Beneficiary, error)
}

type Notifier interface {
	Publish(event domain.Event)
}

var (
	// ErrSettlementPending means the gateway gave no definitive answer; the
	// draw stays reserved until a webhook or the poller resolves it.
	ErrSettlementPending  = errors.New("settlement pending reconciliation")
	ErrSettlementFailed   = errors.New("settlement failed")
	ErrMissingBeneficiary = errors.New("missing or invalid beneficiary details")
	ErrUnknownReference   = errors.New("unknown gateway reference")
	// ErrRequestResolved means the request left pending before the approve
	// flip landed; someone else resolved it first.
	ErrRequestResolved = errors.New("payment request no longer pending")
)

const referencePrefix = "PAYOUT"

type Service struct {
	transactionRepo TransactionRepo
	paymentRepo     PaymentRepo
	ledgerService   LedgerService
	gateway         Gateway
	beneficiaries   BeneficiaryProvider
	notifier        Notifier
	txManager       pg.TXManager
}

func New(
	transactionRepo TransactionRepo,
	paymentRepo PaymentRepo,
	ledgerService LedgerService,
	gw Gateway,
	beneficiaries BeneficiaryProvider,
	notifier Notifier,
	txManager pg.TXManager,
) *Service {
	return &Service{
		transactionRepo: transactionRepo,
		paymentRepo:     paymentRepo,
		ledgerService:   ledgerService,
		gateway:         gw,
		beneficiaries:   beneficiaries,
		notifier:        notifier,
		txManager:       txManager,
	}
}

// Settle turns a client-approved payment request into a settled transaction:
// it prices the fee, flips the request to approved atomically with a pending
// transaction under a fresh gateway reference, calls the gateway outside any
// database transaction, and applies the outcome. Ambiguous outcomes leave the
// transaction pending and surface ErrSettlementPending.
func (s *Service) Settle(ctx context.Context, req *domain.PaymentRequest) (*domain.Transaction, error) {
	fee := s.gateway.CalculatePlatformFee(req.Amount)

	txn := &domain.Transaction{
		PaymentRequestID: req.ID,
		JobID:            req.JobID,
		WorkerID:         req.WorkerID,
		ClientID:         req.ClientID,
		Amount:           req.Amount,
		PlatformFee:      fee,
		WorkerAmount:     req.Amount - fee,
		GatewayReference: s.gateway.GenerateReference(referencePrefix),
		Status:           domain.TransactionStatusPending,
		CreatedAt:        time.Now(),
	}
	// The approve flip commits together with the pending transaction, so an
	// approved request always has a reference reconciliation can converge on.
	// If the insert fails the flip rolls back and the request stays pending
	// with its reservation intact, ready for the client to retry.
	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.paymentRepo.UpdateStatusFrom(ctx, req.ID,
			domain.RequestStatusPending, domain.RequestStatusApproved, "")
		if err != nil {
			return err
		}
		if !ok {
			return ErrRequestResolved
		}
		return s.transactionRepo.Save(ctx, txn)
	})
	if err != nil {
		return nil, err
	}
	req.Status = domain.RequestStatusApproved

	beneficiary, err := s.beneficiaries.GetBeneficiary(ctx, req.WorkerID)
	if err != nil {
		zap.L().Error("failed to fetch beneficiary", zap.Int("workerID", req.WorkerID), zap.Error(err))
		return nil, err
	}
	if beneficiary == nil || !validate.IsCard(beneficiary.CardNumber) {
		if err := s.Finalize(ctx, txn.GatewayReference, false, []byte(`{"reason":"missing beneficiary details"}`)); err != nil {
			return nil, err
		}
		return txn, ErrMissingBeneficiary
	}

	result, err := s.gateway.CreatePayout(ctx, txn.GatewayReference, txn.WorkerAmount, beneficiary)
	if err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			zap.L().Warn("gateway gave no definitive answer, leaving transaction pending",
				zap.String("reference", txn.GatewayReference))
			return txn, ErrSettlementPending
		}
		return nil, err
	}

	switch result.Status {
	case gateway.StatusSucceeded:
		if err := s.Finalize(ctx, txn.GatewayReference, true, result.Raw); err != nil {
			return nil, err
		}
		return txn, nil
	case gateway.StatusFailed:
		if err := s.Finalize(ctx, txn.GatewayReference, false, result.Raw); err != nil {
			return nil, err
		}
		return txn, ErrSettlementFailed
	default:
		return txn, ErrSettlementPending
	}
}

// Finalize applies a definitive settlement outcome: transaction status,
// payment request status and ledger release flip together in one database
// transaction. The pending/approved status guards make a repeated call for
// the same reference a no-op, which is what webhook at-least-once delivery
// relies on.
func (s *Service) Finalize(ctx context.Context, reference string, succeeded bool, payload []byte) error {
	txn, err := s.transactionRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	if txn == nil {
		return ErrUnknownReference
	}
	if txn.Terminal() {
		zap.L().Info("transaction already resolved", zap.String("reference", reference), zap.String("status", txn.Status))
		return nil
	}

	txnStatus := domain.TransactionStatusFailed
	reqStatus := domain.RequestStatusFailed
	if succeeded {
		txnStatus = domain.TransactionStatusSuccess
		reqStatus = domain.RequestStatusProcessed
	}

	resolved := false
	err = s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.transactionRepo.ResolveFrom(ctx, txn.ID, txnStatus, payload)
		if err != nil {
			return err
		}
		if !ok {
			// Lost the race against another finalizer; nothing left to do.
			return nil
		}
		resolved = true
		if _, err := s.paymentRepo.UpdateStatusFrom(ctx, txn.PaymentRequestID,
			domain.RequestStatusApproved, reqStatus, ""); err != nil {
			return err
		}
		return s.ledgerService.Release(ctx, txn.JobID, txn.Amount, succeeded)
	})
	if err != nil {
		zap.L().Error("failed to finalize settlement", zap.String("reference", reference), zap.Error(err))
		return err
	}
	if !resolved {
		return nil
	}

	metrics.SettlementsTotal.WithLabelValues(txnStatus).Inc()

	eventName := domain.EventSettlementFailed
	if succeeded {
		eventName = domain.EventSettlementSuccess
	}
	s.notifier.Publish(domain.Event{
		Name:       eventName,
		JobID:      txn.JobID,
		RequestID:  txn.PaymentRequestID,
		WorkerID:   txn.WorkerID,
		ClientID:   txn.ClientID,
		Amount:     txn.Amount,
		OccurredAt: time.Now(),
	})
	return nil
}

// Refund records a gateway-initiated refund notification. Only transactions
// already settled as success can move to refunded; everything else is a
// no-op. The ledger is not touched: refund accounting is a downstream
// concern.
func (s *Service) Refund(ctx context.Context, reference string, payload []byte) error {
	txn, err := s.transactionRepo.FindByReference(ctx, reference)
	if err != nil {
		return err
	}
	if txn == nil {
		return ErrUnknownReference
	}

	ok, err := s.transactionRepo.MarkRefunded(ctx, txn.ID, payload)
	if err != nil {
		return err
	}
	if !ok {
		zap.L().Info("refund ignored for non-settled transaction",
			zap.String("reference", reference), zap.String("status", txn.Status))
		return nil
	}

	metrics.SettlementsTotal.WithLabelValues(domain.TransactionStatusRefunded).Inc()
	return nil
}

// FindPending exposes stale pending transactions to the reconciliation
// poller.
func (s *Service) FindPending(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
	return s.transactionRepo.FindPending(ctx, limit)
}

// FindByReference is used by the webhook reconciler to distinguish unknown
// events from known ones.
func (s *Service) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	return s.transactionRepo.FindByReference(ctx, reference)
}
