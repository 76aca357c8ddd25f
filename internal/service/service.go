package service

import (
	ledgerhandlers "github.com/vleukhin/workmart/internal/handlers/ledger"
	"github.com/vleukhin/workmart/internal/handlers/payments"

	"github.com/vleukhin/workmart/internal/pg"
	"github.com/vleukhin/workmart/internal/repo"
	"github.com/vleukhin/workmart/internal/service/ledgerservice"
	"github.com/vleukhin/workmart/internal/service/paymentservice"
	"github.com/vleukhin/workmart/internal/service/settlementservice"
)

type Services struct {
	PaymentService    payments.Service
	LedgerService     ledgerhandlers.Service
	SettlementService *settlementservice.Service
}

func New(
	repos *repo.Repositories,
	txManager pg.TXManager,
	gw settlementservice.Gateway,
	jobs paymentservice.JobProvider,
	beneficiaries settlementservice.BeneficiaryProvider,
	notifier settlementservice.Notifier,
) *Services {
	ledgerService := ledgerservice.New(repos.LedgerRepo)
	settlementService := settlementservice.New(
		repos.TransactionRepo, repos.PaymentRepo, ledgerService, gw, beneficiaries, notifier, txManager)
	paymentService := paymentservice.New(
		repos.PaymentRepo, ledgerService, settlementService, jobs, notifier, txManager)

	return &Services{
		PaymentService:    paymentService,
		LedgerService:     ledgerService,
		SettlementService: settlementService,
	}
}
