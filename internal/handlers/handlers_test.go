package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	gomock "go.uber.org/mock/gomock"

	_ "github.com/vleukhin/workmart/docs"
	ledgerhandlers "github.com/vleukhin/workmart/internal/handlers/ledger"
	paymenthandlers "github.com/vleukhin/workmart/internal/handlers/payments"
	webhookhandlers "github.com/vleukhin/workmart/internal/handlers/webhook"
	"github.com/vleukhin/workmart/internal/service"
)

func TestNew(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	services := &service.Services{
		PaymentService: paymenthandlers.NewMockService(ctrl),
		LedgerService:  ledgerhandlers.NewMockService(ctrl),
	}

	h := New(services, webhookhandlers.NewMockReconciler(ctrl))
	assert.NotNil(t, h, "Handlers should not be nil")
}

func TestInitRoutes(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockPaymentHandler := NewMockPaymentHandler(ctrl)
	mockLedgerHandler := NewMockLedgerHandler(ctrl)
	mockWebhookHandler := NewMockWebhookHandler(ctrl)

	mockPaymentHandler.EXPECT().Create(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().Respond(gomock.Any(), gomock.Any()).AnyTimes()
	mockPaymentHandler.EXPECT().List(gomock.Any(), gomock.Any()).AnyTimes()
	mockLedgerHandler.EXPECT().GetLedger(gomock.Any(), gomock.Any()).AnyTimes()
	mockWebhookHandler.EXPECT().Handle(gomock.Any(), gomock.Any()).Do(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}).AnyTimes()

	h := &Handlers{
		PaymentHandler: mockPaymentHandler,
		LedgerHandler:  mockLedgerHandler,
		WebhookHandler: mockWebhookHandler,
	}

	router := chi.NewRouter()
	h.InitRoutes(router)

	tests := []struct {
		method string
		url    string
		status int
	}{
		{"POST", "/api/webhooks/settlement", http.StatusAccepted},
		{"POST", "/api/jobs/1/payment-requests", http.StatusUnauthorized},
		{"GET", "/api/jobs/1/payment-requests", http.StatusUnauthorized},
		{"GET", "/api/jobs/1/ledger", http.StatusUnauthorized},
		{"POST", "/api/payment-requests/1/respond", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.url, nil)
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
