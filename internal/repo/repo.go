package repo

import (
	"github.com/vleukhin/workmart/internal/pg"
	ledgerrepo "github.com/vleukhin/workmart/internal/repo/ledger-repo"
	paymentrepo "github.com/vleukhin/workmart/internal/repo/payment-repo"
	transactionrepo "github.com/vleukhin/workmart/internal/repo/transaction-repo"
	"github.com/vleukhin/workmart/internal/service/ledgerservice"
	"github.com/vleukhin/workmart/internal/service/paymentservice"
	"github.com/vleukhin/workmart/internal/service/settlementservice"
)

type Repositories struct {
	LedgerRepo      ledgerservice.Repo
	PaymentRepo     paymentservice.Repo
	TransactionRepo settlementservice.TransactionRepo
}

func New(conn pg.Database) *Repositories {
	ledgerRepo := ledgerrepo.New(conn)
	paymentRepo := paymentrepo.New(conn)
	transactionRepo := transactionrepo.New(conn)

	return &Repositories{
		LedgerRepo:      ledgerRepo,
		PaymentRepo:     paymentRepo,
		TransactionRepo: transactionRepo,
	}
}
