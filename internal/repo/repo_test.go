package repo

import (
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"

	ledgerrepo "github.com/vleukhin/workmart/internal/repo/ledger-repo"
	paymentrepo "github.com/vleukhin/workmart/internal/repo/payment-repo"
	transactionrepo "github.com/vleukhin/workmart/internal/repo/transaction-repo"
)

func NewMock(t *testing.T) (*Repositories, pgxmock.PgxPoolIface) {
	mockDB, err := pgxmock.NewPool()
	assert.NoError(t, err)
	repo := New(mockDB)
	defer mockDB.Close()

	return repo, mockDB
}

func TestNew(t *testing.T) {
	repo, mock := NewMock(t)

	assert.NotNil(t, repo.LedgerRepo)
	assert.NotNil(t, repo.PaymentRepo)
	assert.NotNil(t, repo.TransactionRepo)

	assert.IsType(t, &ledgerrepo.Repository{}, repo.LedgerRepo)
	assert.IsType(t, &paymentrepo.Repository{}, repo.PaymentRepo)
	assert.IsType(t, &transactionrepo.Repository{}, repo.TransactionRepo)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unmet expectations: %v", err)
	}
}
