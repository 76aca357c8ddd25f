package paymentservice

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/pg"
	"github.com/vleukhin/workmart/internal/service/settlementservice"
)

type Repo interface {
	Save(ctx context.Context, req *domain.PaymentRequest) error
	FindByID(ctx context.Context, id int) (*domain.PaymentRequest, error)
	FindByJobID(ctx context.Context, jobID int) ([]domain.PaymentRequest, error)
	UpdateStatusFrom(ctx context.Context, id int, from, to, declineReason string) (bool, error)
}

type LedgerService interface {
	Ensure(ctx context.Context, jobID int, totalBudget domain.Money) error
	Admit(ctx context.Context, jobID int, amount domain.Money) error
	Release(ctx context.Context, jobID int, amount domain.Money, settled bool) error
}

type Settler interface {
	Settle(ctx context.Context, req *domain.PaymentRequest) (*domain.Transaction, error)
}

type JobProvider interface {
	GetJob(ctx context.Context, jobID int) (*domain.Job, error)
}

type Notifier interface {
	Publish(event domain.Event)
}

const (
	ActionApprove string = "approve"
	ActionDecline string = "decline"
)

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrEmptyDescription    = errors.New("description is required")
	ErrJobNotFound         = errors.New("job not found")
	ErrNotJobWorker        = errors.New("only the assigned worker may request payment")
	ErrNotJobClient        = errors.New("only the job client may respond")
	ErrNotJobParticipant   = errors.New("caller is not a participant of the job")
	ErrNotEligibleJobState = errors.New("job is not in an eligible state")
	ErrRequestNotFound     = errors.New("payment request not found")
	ErrAlreadyResolved     = errors.New("payment request already resolved")
	ErrReasonRequired      = errors.New("decline reason is required")
	ErrInvalidAction       = errors.New("unknown response action")
)

// Service owns the payment request state machine:
// pending -> {approved, declined}, approved -> {processed, failed}.
type Service struct {
	repo          Repo
	ledgerService LedgerService
	settler       Settler
	jobs          JobProvider
	notifier      Notifier
	txManager     pg.TXManager
}

func New(repo Repo, ledgerService LedgerService, settler Settler, jobs JobProvider, notifier Notifier, txManager pg.TXManager) *Service {
	return &Service{
		repo:          repo,
		ledgerService: ledgerService,
		settler:       settler,
		jobs:          jobs,
		notifier:      notifier,
		txManager:     txManager,
	}
}

// CreateRequest admits a worker's draw against the job budget and records the
// pending request. Admission and reservation happen in one atomic ledger
// update; if the request row cannot be written afterwards the reservation is
// compensated.
func (s *Service) CreateRequest(ctx context.Context, workerID, jobID int, amount domain.Money, description string) (*domain.PaymentRequest, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if description == "" {
		return nil, ErrEmptyDescription
	}

	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		zap.L().Error("failed to fetch job", zap.Int("jobID", jobID), zap.Error(err))
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if job.WorkerID != workerID {
		return nil, ErrNotJobWorker
	}
	if !job.Eligible() {
		return nil, ErrNotEligibleJobState
	}

	if err := s.ledgerService.Ensure(ctx, jobID, job.Budget); err != nil {
		return nil, err
	}
	if err := s.ledgerService.Admit(ctx, jobID, amount); err != nil {
		return nil, err
	}

	req := &domain.PaymentRequest{
		JobID:       jobID,
		WorkerID:    workerID,
		ClientID:    job.ClientID,
		Amount:      amount,
		Description: description,
		Status:      domain.RequestStatusPending,
		RequestedAt: time.Now(),
	}
	if err := s.repo.Save(ctx, req); err != nil {
		// The reservation is already held; give it back.
		if rerr := s.ledgerService.Release(ctx, jobID, amount, false); rerr != nil {
			zap.L().Error("failed to compensate reservation", zap.Int("jobID", jobID), zap.Error(rerr))
		}
		return nil, err
	}

	s.notifier.Publish(domain.Event{
		Name:       domain.EventRequestCreated,
		JobID:      jobID,
		RequestID:  req.ID,
		WorkerID:   workerID,
		ClientID:   job.ClientID,
		Amount:     amount,
		OccurredAt: time.Now(),
	})
	return req, nil
}

// Respond applies the client's approve or decline decision. Declines revert
// the reservation atomically with the status flip; approvals hand off to the
// settlement coordinator, whose outcome (or lack of one) is reflected in the
// returned request and error.
func (s *Service) Respond(ctx context.Context, clientID, requestID int, action, reason string) (*domain.PaymentRequest, error) {
	req, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.ClientID != clientID {
		return nil, ErrNotJobClient
	}
	if req.Resolved() {
		return nil, ErrAlreadyResolved
	}

	// The job may have moved on (e.g. been cancelled) while the request sat
	// pending; a response against such a job is rejected explicitly.
	job, err := s.jobs.GetJob(ctx, req.JobID)
	if err != nil {
		return nil, err
	}
	if job == nil || !job.Eligible() {
		return nil, ErrNotEligibleJobState
	}

	switch action {
	case ActionDecline:
		return s.decline(ctx, req, reason)
	case ActionApprove:
		return s.approve(ctx, req)
	default:
		return nil, ErrInvalidAction
	}
}

func (s *Service) decline(ctx context.Context, req *domain.PaymentRequest, reason string) (*domain.PaymentRequest, error) {
	if reason == "" {
		return nil, ErrReasonRequired
	}

	err := s.txManager.Begin(ctx, func(ctx context.Context) error {
		ok, err := s.repo.UpdateStatusFrom(ctx, req.ID, domain.RequestStatusPending, domain.RequestStatusDeclined, reason)
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyResolved
		}
		return s.ledgerService.Release(ctx, req.JobID, req.Amount, false)
	})
	if err != nil {
		return nil, err
	}

	s.notifier.Publish(domain.Event{
		Name:       domain.EventRequestDeclined,
		JobID:      req.JobID,
		RequestID:  req.ID,
		WorkerID:   req.WorkerID,
		ClientID:   req.ClientID,
		Amount:     req.Amount,
		OccurredAt: time.Now(),
	})
	return s.repo.FindByID(ctx, req.ID)
}

func (s *Service) approve(ctx context.Context, req *domain.PaymentRequest) (*domain.PaymentRequest, error) {
	// The settler owns the pending->approved flip, committed atomically with
	// its transaction row: an approval can never strand a reservation without
	// a gateway reference to reconcile.
	_, settleErr := s.settler.Settle(ctx, req)
	if errors.Is(settleErr, settlementservice.ErrRequestResolved) {
		return nil, ErrAlreadyResolved
	}
	if settleErr != nil &&
		!errors.Is(settleErr, settlementservice.ErrSettlementPending) &&
		!errors.Is(settleErr, settlementservice.ErrSettlementFailed) &&
		!errors.Is(settleErr, settlementservice.ErrMissingBeneficiary) {
		return nil, settleErr
	}

	s.notifier.Publish(domain.Event{
		Name:       domain.EventRequestApproved,
		JobID:      req.JobID,
		RequestID:  req.ID,
		WorkerID:   req.WorkerID,
		ClientID:   req.ClientID,
		Amount:     req.Amount,
		OccurredAt: time.Now(),
	})

	updated, err := s.repo.FindByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	return updated, settleErr
}

// ListRequests returns a job's payment requests for either of its
// participants, newest first.
func (s *Service) ListRequests(ctx context.Context, actorID, jobID int) ([]domain.PaymentRequest, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, ErrJobNotFound
	}
	if actorID != job.ClientID && actorID != job.WorkerID {
		return nil, ErrNotJobParticipant
	}
	return s.repo.FindByJobID(ctx, jobID)
}
