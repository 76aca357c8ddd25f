package transactionrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	"github.com/vleukhin/workmart/internal/domain"
)

func NewMock(t *testing.T) (*Repository, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

var transactionColumns = []string{
	"id", "payment_request_id", "job_id", "worker_id", "client_id", "amount",
	"platform_fee", "worker_amount", "gateway_reference", "status", "gateway_payload", "created_at",
}

func TestRepository_Save(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	txn := &domain.Transaction{
		PaymentRequestID: 1,
		JobID:            2,
		WorkerID:         20,
		ClientID:         10,
		Amount:           10000,
		PlatformFee:      500,
		WorkerAmount:     9500,
		GatewayReference: "PAYOUT-1",
		Status:           domain.TransactionStatusPending,
		CreatedAt:        now,
	}

	query := regexp.QuoteMeta(`
        INSERT INTO transactions (payment_request_id, job_id, worker_id, client_id, amount,
                                  platform_fee, worker_amount, gateway_reference, status, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING id
    `)

	tests := []struct {
		name      string
		mockSetup func()
		expectErr bool
	}{
		{
			name: "Successfully saves transaction",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, 2, 20, 10, int64(10000), int64(500), int64(9500), "PAYOUT-1", domain.TransactionStatusPending, now).
					WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(7))
			},
			expectErr: false,
		},
		{
			name: "Duplicate reference rejected by the unique constraint",
			mockSetup: func() {
				mock.ExpectQuery(query).
					WithArgs(1, 2, 20, 10, int64(10000), int64(500), int64(9500), "PAYOUT-1", domain.TransactionStatusPending, now).
					WillReturnError(errors.New("duplicate key value violates unique constraint"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			err := repo.Save(context.Background(), txn)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 7, txn.ID)
			}
		})
	}
}

func TestRepository_FindByReference(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	query := regexp.QuoteMeta(`
        SELECT id, payment_request_id, job_id, worker_id, client_id, amount,
               platform_fee, worker_amount, gateway_reference, status, gateway_payload, created_at
        FROM transactions
        WHERE gateway_reference = $1
    `)

	tests := []struct {
		name      string
		reference string
		mockSetup func()
		expectErr bool
		result    *domain.Transaction
	}{
		{
			name:      "Known reference returns transaction",
			reference: "PAYOUT-1",
			mockSetup: func() {
				rows := pgxmock.NewRows(transactionColumns).
					AddRow(7, 1, 2, 20, 10, int64(10000), int64(500), int64(9500), "PAYOUT-1", domain.TransactionStatusPending, []byte(nil), now)
				mock.ExpectQuery(query).WithArgs("PAYOUT-1").WillReturnRows(rows)
			},
			expectErr: false,
			result: &domain.Transaction{
				ID:               7,
				PaymentRequestID: 1,
				JobID:            2,
				WorkerID:         20,
				ClientID:         10,
				Amount:           10000,
				PlatformFee:      500,
				WorkerAmount:     9500,
				GatewayReference: "PAYOUT-1",
				Status:           domain.TransactionStatusPending,
				CreatedAt:        now,
			},
		},
		{
			name:      "Unknown reference returns nil",
			reference: "PAYOUT-unknown",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("PAYOUT-unknown").WillReturnError(pgx.ErrNoRows)
			},
			expectErr: false,
			result:    nil,
		},
		{
			name:      "Database error",
			reference: "PAYOUT-1",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs("PAYOUT-1").WillReturnError(errors.New("database error"))
			},
			expectErr: true,
			result:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			result, err := repo.FindByReference(context.Background(), tt.reference)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}

			if tt.result == nil {
				assert.Nil(t, result)
			} else {
				assert.NotNil(t, result)
				assert.Equal(t, tt.result, result)
			}
		})
	}
}

func TestRepository_FindPending(t *testing.T) {
	repo, mock := NewMock(t)
	now := time.Now()

	query := regexp.QuoteMeta(`
        SELECT id, payment_request_id, job_id, worker_id, client_id, amount,
               platform_fee, worker_amount, gateway_reference, status, gateway_payload, created_at
        FROM transactions
        WHERE status = 'pending' AND created_at < now() - interval '30 seconds'
        ORDER BY created_at
        LIMIT $1
    `)

	tests := []struct {
		name          string
		mockSetup     func()
		expectErr     bool
		expectedCount int
	}{
		{
			name: "Returns stale pending transactions",
			mockSetup: func() {
				rows := pgxmock.NewRows(transactionColumns).
					AddRow(7, 1, 2, 20, 10, int64(10000), int64(500), int64(9500), "PAYOUT-1", domain.TransactionStatusPending, []byte(nil), now.Add(-time.Minute)).
					AddRow(8, 3, 2, 20, 10, int64(4000), int64(200), int64(3800), "PAYOUT-2", domain.TransactionStatusPending, []byte(nil), now.Add(-2*time.Minute))
				mock.ExpectQuery(query).WithArgs(uint32(100)).WillReturnRows(rows)
			},
			expectErr:     false,
			expectedCount: 2,
		},
		{
			name: "Nothing pending",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(uint32(100)).WillReturnRows(pgxmock.NewRows(transactionColumns))
			},
			expectErr:     false,
			expectedCount: 0,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectQuery(query).WithArgs(uint32(100)).WillReturnError(errors.New("database error"))
			},
			expectErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			txns, err := repo.FindPending(context.Background(), 100)

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Len(t, txns, tt.expectedCount)
			}
		})
	}
}

func TestRepository_ResolveFrom(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        UPDATE transactions
        SET status = $2, gateway_payload = $3
        WHERE id = $1 AND status = 'pending'
    `)

	tests := []struct {
		name       string
		to         string
		mockSetup  func()
		expectErr  bool
		expectedOK bool
	}{
		{
			name: "Pending transaction resolved to success",
			to:   domain.TransactionStatusSuccess,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, domain.TransactionStatusSuccess, []byte(`{}`)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectErr:  false,
			expectedOK: true,
		},
		{
			name: "Already resolved transaction is untouched",
			to:   domain.TransactionStatusFailed,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, domain.TransactionStatusFailed, []byte(`{}`)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr:  false,
			expectedOK: false,
		},
		{
			name: "Database error",
			to:   domain.TransactionStatusSuccess,
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, domain.TransactionStatusSuccess, []byte(`{}`)).
					WillReturnError(errors.New("database error"))
			},
			expectErr:  true,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			ok, err := repo.ResolveFrom(context.Background(), 7, tt.to, []byte(`{}`))

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedOK, ok)
		})
	}
}

func TestRepository_MarkRefunded(t *testing.T) {
	repo, mock := NewMock(t)

	query := regexp.QuoteMeta(`
        UPDATE transactions
        SET status = 'refunded', gateway_payload = $2
        WHERE id = $1 AND status = 'success'
    `)

	tests := []struct {
		name       string
		mockSetup  func()
		expectErr  bool
		expectedOK bool
	}{
		{
			name: "Settled transaction marked refunded",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, []byte(`{}`)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
			expectErr:  false,
			expectedOK: true,
		},
		{
			name: "Non-settled transaction is untouched",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, []byte(`{}`)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			expectErr:  false,
			expectedOK: false,
		},
		{
			name: "Database error",
			mockSetup: func() {
				mock.ExpectExec(query).
					WithArgs(7, []byte(`{}`)).
					WillReturnError(errors.New("database error"))
			},
			expectErr:  true,
			expectedOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()
			ok, err := repo.MarkRefunded(context.Background(), 7, []byte(`{}`))

			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedOK, ok)
		})
	}
}
