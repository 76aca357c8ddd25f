package paymentrepo

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

func (r *Repository) Save(ctx context.Context, req *domain.PaymentRequest) error {
	query := `
        INSERT INTO payment_requests (job_id, worker_id, client_id, amount, description, status, requested_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, req.JobID, req.WorkerID, req.ClientID,
		req.Amount, req.Description, req.Status, req.RequestedAt).Scan(&req.ID)
	if err != nil {
		zap.L().Error("can't save payment request", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByID(ctx context.Context, id int) (*domain.PaymentRequest, error) {
	query := `
        SELECT id, job_id, worker_id, client_id, amount, description, status, decline_reason,
               requested_at, responded_at, processed_at
        FROM payment_requests
        WHERE id = $1
    `
	row := r.db.QueryRow(ctx, query, id)
	var req domain.PaymentRequest
	err := row.Scan(&req.ID, &req.JobID, &req.WorkerID, &req.ClientID, &req.Amount,
		&req.Description, &req.Status, &req.DeclineReason, &req.RequestedAt, &req.RespondedAt, &req.ProcessedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get payment request", zap.Error(err))
		return nil, err
	}
	return &req, nil
}

func (r *Repository) FindByJobID(ctx context.Context, jobID int) ([]domain.PaymentRequest, error) {
	query := `
        SELECT id, job_id, worker_id, client_id, amount, description, status, decline_reason,
               requested_at, responded_at, processed_at
        FROM payment_requests
        WHERE job_id = $1
        ORDER BY requested_at DESC
    `
	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		zap.L().Error("failed to fetch payment requests", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var requests []domain.PaymentRequest
	for rows.Next() {
		var req domain.PaymentRequest
		err := rows.Scan(&req.ID, &req.JobID, &req.WorkerID, &req.ClientID, &req.Amount,
			&req.Description, &req.Status, &req.DeclineReason, &req.RequestedAt, &req.RespondedAt, &req.ProcessedAt)
		if err != nil {
			zap.L().Error("failed to scan payment request row", zap.Error(err))
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// UpdateStatusFrom flips status only when the row is still in the expected
// state. The returned flag reports whether the transition happened; a false
// means somebody else already resolved the request.
func (r *Repository) UpdateStatusFrom(ctx context.Context, id int, from, to, declineReason string) (bool, error) {
	query := `
        UPDATE payment_requests
        SET status = $3, decline_reason = $4,
            responded_at = COALESCE(responded_at, now()),
            processed_at = CASE WHEN $3 IN ('processed', 'failed') THEN now() ELSE processed_at END
        WHERE id = $1 AND status = $2
    `
	tag, err := r.db.Exec(ctx, query, id, from, to, declineReason)
	if err != nil {
		zap.L().Error("failed to update payment request status", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
