package settlementservice

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/gateway"
	"github.com/vleukhin/workmart/internal/pg"
)

const validCard = "4561261212345467"

type serviceMocks struct {
	transactionRepo *MockTransactionRepo
	paymentRepo     *MockPaymentRepo
	ledger          *MockLedgerService
	gateway         *MockGateway
	beneficiaries   *MockBeneficiaryProvider
	txManager       *pg.MockTXManager
}

func NewMock(t *testing.T) (*Service, *serviceMocks) {
	ctrl := gomock.NewController(t)
	m := &serviceMocks{
		transactionRepo: NewMockTransactionRepo(ctrl),
		paymentRepo:     NewMockPaymentRepo(ctrl),
		ledger:          NewMockLedgerService(ctrl),
		gateway:         NewMockGateway(ctrl),
		beneficiaries:   NewMockBeneficiaryProvider(ctrl),
		txManager:       pg.NewMockTXManager(ctrl),
	}
	notifier := NewMockNotifier(ctrl)
	notifier.EXPECT().Publish(gomock.Any()).AnyTimes()
	service := New(m.transactionRepo, m.paymentRepo, m.ledger, m.gateway, m.beneficiaries, notifier, m.txManager)
	defer ctrl.Finish()
	return service, m
}

func requestToSettle() *domain.PaymentRequest {
	return &domain.PaymentRequest{
		ID:       1,
		JobID:    2,
		WorkerID: 20,
		ClientID: 10,
		Amount:   10000,
		Status:   domain.RequestStatusPending,
	}
}

func pendingTransaction(reference string) *domain.Transaction {
	return &domain.Transaction{
		ID:               7,
		PaymentRequestID: 1,
		JobID:            2,
		WorkerID:         20,
		ClientID:         10,
		Amount:           10000,
		PlatformFee:      500,
		WorkerAmount:     9500,
		GatewayReference: reference,
		Status:           domain.TransactionStatusPending,
	}
}

func expectApproveAndInsert(m *serviceMocks, saveErr error) {
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
	m.paymentRepo.EXPECT().UpdateStatusFrom(gomock.Any(), 1, domain.RequestStatusPending, domain.RequestStatusApproved, "").Return(true, nil)
	m.transactionRepo.EXPECT().Save(gomock.Any(), gomock.Any()).Return(saveErr)
}

func expectFinalize(m *serviceMocks, reference string, txnStatus, reqStatus string, settled bool) {
	m.transactionRepo.EXPECT().FindByReference(gomock.Any(), reference).Return(pendingTransaction(reference), nil)
	m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
		return fn(ctx)
	})
	m.transactionRepo.EXPECT().ResolveFrom(gomock.Any(), 7, txnStatus, gomock.Any()).Return(true, nil)
	m.paymentRepo.EXPECT().UpdateStatusFrom(gomock.Any(), 1, domain.RequestStatusApproved, reqStatus, "").Return(true, nil)
	m.ledger.EXPECT().Release(gomock.Any(), 2, domain.Money(10000), settled).Return(nil)
}

func TestSettle(t *testing.T) {
	service, m := NewMock(t)
	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Successful settlement",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-ok")
				expectApproveAndInsert(m, nil)
				m.beneficiaries.EXPECT().GetBeneficiary(gomock.Any(), 20).Return(&domain.Beneficiary{WorkerID: 20, CardNumber: validCard}, nil)
				m.gateway.EXPECT().CreatePayout(gomock.Any(), "PAYOUT-ok", domain.Money(9500), gomock.Any()).
					Return(&gateway.PayoutResult{Status: gateway.StatusSucceeded}, nil)
				expectFinalize(m, "PAYOUT-ok", domain.TransactionStatusSuccess, domain.RequestStatusProcessed, true)
			},
			expectedError: nil,
		},
		{
			name: "Gateway declines the payout",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-declined")
				expectApproveAndInsert(m, nil)
				m.beneficiaries.EXPECT().GetBeneficiary(gomock.Any(), 20).Return(&domain.Beneficiary{WorkerID: 20, CardNumber: validCard}, nil)
				m.gateway.EXPECT().CreatePayout(gomock.Any(), "PAYOUT-declined", domain.Money(9500), gomock.Any()).
					Return(&gateway.PayoutResult{Status: gateway.StatusFailed}, nil)
				expectFinalize(m, "PAYOUT-declined", domain.TransactionStatusFailed, domain.RequestStatusFailed, false)
			},
			expectedError: ErrSettlementFailed,
		},
		{
			name: "Gateway gives no definitive answer",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-timeout")
				expectApproveAndInsert(m, nil)
				m.beneficiaries.EXPECT().GetBeneficiary(gomock.Any(), 20).Return(&domain.Beneficiary{WorkerID: 20, CardNumber: validCard}, nil)
				m.gateway.EXPECT().CreatePayout(gomock.Any(), "PAYOUT-timeout", domain.Money(9500), gomock.Any()).
					Return(nil, gateway.ErrUnavailable)
			},
			expectedError: ErrSettlementPending,
		},
		{
			name: "Missing beneficiary fails the settlement before the gateway call",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-nobene")
				expectApproveAndInsert(m, nil)
				m.beneficiaries.EXPECT().GetBeneficiary(gomock.Any(), 20).Return(nil, nil)
				expectFinalize(m, "PAYOUT-nobene", domain.TransactionStatusFailed, domain.RequestStatusFailed, false)
			},
			expectedError: ErrMissingBeneficiary,
		},
		{
			name: "Invalid card number counts as missing beneficiary",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-badcard")
				expectApproveAndInsert(m, nil)
				m.beneficiaries.EXPECT().GetBeneficiary(gomock.Any(), 20).Return(&domain.Beneficiary{WorkerID: 20, CardNumber: "1234"}, nil)
				expectFinalize(m, "PAYOUT-badcard", domain.TransactionStatusFailed, domain.RequestStatusFailed, false)
			},
			expectedError: ErrMissingBeneficiary,
		},
		{
			name: "Empty card number counts as missing beneficiary",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-nocard")
				expectApproveAndInsert(m, nil)
				m.beneficiaries.EXPECT().GetBeneficiary(gomock.Any(), 20).Return(&domain.Beneficiary{WorkerID: 20}, nil)
				expectFinalize(m, "PAYOUT-nocard", domain.TransactionStatusFailed, domain.RequestStatusFailed, false)
			},
			expectedError: ErrMissingBeneficiary,
		},
		{
			name: "Request resolved before the approve flip",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-race")
				m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					return fn(ctx)
				})
				m.paymentRepo.EXPECT().UpdateStatusFrom(gomock.Any(), 1, domain.RequestStatusPending, domain.RequestStatusApproved, "").Return(false, nil)
			},
			expectedError: ErrRequestResolved,
		},
		{
			name: "Transaction insert failure rolls the approval back",
			prepareMock: func() {
				m.gateway.EXPECT().CalculatePlatformFee(domain.Money(10000)).Return(domain.Money(500))
				m.gateway.EXPECT().GenerateReference("PAYOUT").Return("PAYOUT-err")
				expectApproveAndInsert(m, errors.New("insert failed"))
			},
			expectedError: errors.New("insert failed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			txn, err := service.Settle(context.Background(), requestToSettle())
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
				assert.Equal(t, domain.Money(500), txn.PlatformFee)
				assert.Equal(t, domain.Money(9500), txn.WorkerAmount)
			}
		})
	}
}

func TestFinalize(t *testing.T) {
	service, m := NewMock(t)
	tests := []struct {
		name          string
		succeeded     bool
		prepareMock   func()
		expectedError error
	}{
		{
			name:      "Successful outcome moves everything to processed",
			succeeded: true,
			prepareMock: func() {
				expectFinalize(m, "PAYOUT-1", domain.TransactionStatusSuccess, domain.RequestStatusProcessed, true)
			},
			expectedError: nil,
		},
		{
			name:      "Failed outcome reverts the reservation",
			succeeded: false,
			prepareMock: func() {
				expectFinalize(m, "PAYOUT-1", domain.TransactionStatusFailed, domain.RequestStatusFailed, false)
			},
			expectedError: nil,
		},
		{
			name:      "Repeated finalize is a no-op",
			succeeded: true,
			prepareMock: func() {
				settled := pendingTransaction("PAYOUT-1")
				settled.Status = domain.TransactionStatusSuccess
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(settled, nil)
			},
			expectedError: nil,
		},
		{
			name:      "Lost race inside the transaction is a no-op",
			succeeded: true,
			prepareMock: func() {
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(pendingTransaction("PAYOUT-1"), nil)
				m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					return fn(ctx)
				})
				m.transactionRepo.EXPECT().ResolveFrom(gomock.Any(), 7, domain.TransactionStatusSuccess, gomock.Any()).Return(false, nil)
			},
			expectedError: nil,
		},
		{
			name:      "Unknown reference",
			succeeded: true,
			prepareMock: func() {
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(nil, nil)
			},
			expectedError: ErrUnknownReference,
		},
		{
			name:      "Ledger release error rolls the transaction back",
			succeeded: true,
			prepareMock: func() {
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(pendingTransaction("PAYOUT-1"), nil)
				m.txManager.EXPECT().Begin(gomock.Any(), gomock.Any()).DoAndReturn(func(ctx context.Context, fn pg.TransactionalFn) error {
					return fn(ctx)
				})
				m.transactionRepo.EXPECT().ResolveFrom(gomock.Any(), 7, domain.TransactionStatusSuccess, gomock.Any()).Return(true, nil)
				m.paymentRepo.EXPECT().UpdateStatusFrom(gomock.Any(), 1, domain.RequestStatusApproved, domain.RequestStatusProcessed, "").Return(true, nil)
				m.ledger.EXPECT().Release(gomock.Any(), 2, domain.Money(10000), true).Return(errors.New("db error"))
			},
			expectedError: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			err := service.Finalize(context.Background(), "PAYOUT-1", tt.succeeded, []byte(`{}`))
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRefund(t *testing.T) {
	service, m := NewMock(t)
	tests := []struct {
		name          string
		prepareMock   func()
		expectedError error
	}{
		{
			name: "Settled transaction marked refunded",
			prepareMock: func() {
				settled := pendingTransaction("PAYOUT-1")
				settled.Status = domain.TransactionStatusSuccess
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(settled, nil)
				m.transactionRepo.EXPECT().MarkRefunded(gomock.Any(), 7, gomock.Any()).Return(true, nil)
			},
			expectedError: nil,
		},
		{
			name: "Refund for non-settled transaction is a no-op",
			prepareMock: func() {
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(pendingTransaction("PAYOUT-1"), nil)
				m.transactionRepo.EXPECT().MarkRefunded(gomock.Any(), 7, gomock.Any()).Return(false, nil)
			},
			expectedError: nil,
		},
		{
			name: "Unknown reference",
			prepareMock: func() {
				m.transactionRepo.EXPECT().FindByReference(gomock.Any(), "PAYOUT-1").Return(nil, nil)
			},
			expectedError: ErrUnknownReference,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.prepareMock != nil {
				tt.prepareMock()
			}

			err := service.Refund(context.Background(), "PAYOUT-1", []byte(`{}`))
			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindPending(t *testing.T) {
	service, m := NewMock(t)
	m.transactionRepo.EXPECT().FindPending(gomock.Any(), uint32(100)).
		Return([]domain.Transaction{*pendingTransaction("PAYOUT-1")}, nil)

	transactions, err := service.FindPending(context.Background(), 100)
	assert.NoError(t, err)
	assert.Len(t, transactions, 1)
}
