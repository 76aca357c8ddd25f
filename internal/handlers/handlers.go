package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/vleukhin/workmart/docs"
	ledgerhandlers "github.com/vleukhin/workmart/internal/handlers/ledger"
	paymenthandlers "github.com/vleukhin/workmart/internal/handlers/payments"
	webhookhandlers "github.com/vleukhin/workmart/internal/handlers/webhook"
	"github.com/vleukhin/workmart/internal/service"
	"github.com/vleukhin/workmart/pkg/auth"
)

type PaymentHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Respond(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type LedgerHandler interface {
	GetLedger(w http.ResponseWriter, r *http.Request)
}

type WebhookHandler interface {
	Handle(w http.ResponseWriter, r *http.Request)
}

type Handlers struct {
	PaymentHandler PaymentHandler
	LedgerHandler  LedgerHandler
	WebhookHandler WebhookHandler
}

func New(s *service.Services, rec webhookhandlers.Reconciler) *Handlers {
	return &Handlers{
		PaymentHandler: paymenthandlers.New(s.PaymentService),
		LedgerHandler:  ledgerhandlers.New(s.LedgerService),
		WebhookHandler: webhookhandlers.New(rec),
	}
}

func (h *Handlers) InitRoutes(r chi.Router) chi.Router {
	r.Use(
		middleware.RealIP,
		middleware.Recoverer,
		middleware.Logger,
	)
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("doc.json"),
	))
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/webhooks/settlement", h.WebhookHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(auth.AuthMiddleware)
			r.Route("/jobs/{jobID}", func(r chi.Router) {
				r.Post("/payment-requests", h.PaymentHandler.Create)
				r.Get("/payment-requests", h.PaymentHandler.List)
				r.Get("/ledger", h.LedgerHandler.GetLedger)
			})
			r.Post("/payment-requests/{requestID}/respond", h.PaymentHandler.Respond)
		})
	})

	return r
}
