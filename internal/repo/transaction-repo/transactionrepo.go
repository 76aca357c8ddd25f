package transactionrepo

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

func (r *Repository) Save(ctx context.Context, txn *domain.Transaction) error {
	query := `
        INSERT INTO transactions (payment_request_id, job_id, worker_id, client_id, amount,
                                  platform_fee, worker_amount, gateway_reference, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `
	err := r.db.QueryRow(ctx, query, txn.PaymentRequestID, txn.JobID, txn.WorkerID, txn.ClientID,
		txn.Amount, txn.PlatformFee, txn.WorkerAmount, txn.GatewayReference, txn.Status, txn.CreatedAt).Scan(&txn.ID)
	if err != nil {
		zap.L().Error("can't save transaction", zap.Error(err))
		return err
	}
	return nil
}

func (r *Repository) FindByReference(ctx context.Context, reference string) (*domain.Transaction, error) {
	query := `
        SELECT id, payment_request_id, job_id, worker_id, client_id, amount,
               platform_fee, worker_amount, gateway_reference, status, gateway_payload, created_at
        FROM transactions
        WHERE gateway_reference = $1
    `
	row := r.db.QueryRow(ctx, query, reference)
	var txn domain.Transaction
	err := row.Scan(&txn.ID, &txn.PaymentRequestID, &txn.JobID, &txn.WorkerID, &txn.ClientID,
		&txn.Amount, &txn.PlatformFee, &txn.WorkerAmount, &txn.GatewayReference, &txn.Status,
		&txn.GatewayPayload, &txn.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		zap.L().Error("failed to get transaction by reference", zap.Error(err))
		return nil, err
	}
	return &txn, nil
}

// FindPending returns pending transactions older than the cutoff, oldest
// first, for the reconciliation poller.
func (r *Repository) FindPending(ctx context.Context, limit uint32) ([]domain.Transaction, error) {
	query := `
        SELECT id, payment_request_id, job_id, worker_id, client_id, amount,
               platform_fee, worker_amount, gateway_reference, status, gateway_payload, created_at
        FROM transactions
        WHERE status = 'pending' AND created_at < now() - interval '30 seconds'
        ORDER BY created_at
        LIMIT $1
    `
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		zap.L().Error("failed to fetch pending transactions", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(&txn.ID, &txn.PaymentRequestID, &txn.JobID, &txn.WorkerID, &txn.ClientID,
			&txn.Amount, &txn.PlatformFee, &txn.WorkerAmount, &txn.GatewayReference, &txn.Status,
			&txn.GatewayPayload, &txn.CreatedAt)
		if err != nil {
			zap.L().Error("failed to scan transaction row", zap.Error(err))
			return nil, err
		}
		txns = append(txns, txn)
	}

	return txns, nil
}

// MarkRefunded records a gateway-initiated refund on an already-settled
// transaction. Only success rows can become refunded.
func (r *Repository) MarkRefunded(ctx context.Context, id int, payload []byte) (bool, error) {
	query := `
        UPDATE transactions
        SET status = 'refunded', gateway_payload = $2
        WHERE id = $1 AND status = 'success'
    `
	tag, err := r.db.Exec(ctx, query, id, payload)
	if err != nil {
		zap.L().Error("failed to mark transaction refunded", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// ResolveFrom flips a pending transaction into a terminal status and stores
// the raw gateway payload. Zero affected rows means the transaction was
// already resolved.
func (r *Repository) ResolveFrom(ctx context.Context, id int, to string, payload []byte) (bool, error) {
	query := `
        UPDATE transactions
        SET status = $2, gateway_payload = $3
        WHERE id = $1 AND status = 'pending'
    `
	tag, err := r.db.Exec(ctx, query, id, to, payload)
	if err != nil {
		zap.L().Error("failed to resolve transaction", zap.Error(err))
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}
