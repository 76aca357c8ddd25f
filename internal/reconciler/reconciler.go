package reconciler

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/dto"
	"github.com/vleukhin/workmart/internal/gateway"
	"github.com/vleukhin/workmart/pkg/metrics"
)

type Settlements interface {
	Finalize(ctx context.Context, reference string, succeeded bool, payload []byte) error
	Refund(ctx context.Context, reference string, payload []byte) error
	FindByReference(ctx context.Context, reference string) (*domain.Transaction, error)
	FindPending(ctx context.Context, limit uint32) ([]domain.Transaction, error)
}

type Gateway interface {
	VerifySignature(body []byte, signature, timestamp string) bool
	CheckPayout(ctx context.Context, reference string) (*gateway.PayoutResult, error)
}

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrMalformedPayload = errors.New("malformed webhook payload")
)

// Reconciler converges transaction state from out-of-band gateway
// notifications. Webhooks are delivered at least once; the settlement
// finalizer's status guards make repeats harmless.
type Reconciler struct {
	settlements Settlements
	gateway     Gateway
}

func New(settlements Settlements, gw Gateway) *Reconciler {
	return &Reconciler{
		settlements: settlements,
		gateway:     gw,
	}
}

// HandleWebhook verifies and applies one gateway callback. Unknown references
// and repeated deliveries are accepted without state change so the gateway
// does not retry-storm us; only authentication and parse failures are
// reported back as errors.
func (r *Reconciler) HandleWebhook(ctx context.Context, body []byte, signature, timestamp string) error {
	if !r.gateway.VerifySignature(body, signature, timestamp) {
		metrics.WebhookEventsTotal.WithLabelValues("invalid_signature").Inc()
		zap.L().Warn("webhook with invalid signature rejected", zap.String("timestamp", timestamp))
		return ErrInvalidSignature
	}

	var event dto.WebhookEventDTO
	if err := json.Unmarshal(body, &event); err != nil || event.Reference == "" {
		metrics.WebhookEventsTotal.WithLabelValues("malformed").Inc()
		return ErrMalformedPayload
	}

	txn, err := r.settlements.FindByReference(ctx, event.Reference)
	if err != nil {
		return err
	}
	if txn == nil {
		// Foreign or stale event; acknowledge without fabricating state.
		metrics.WebhookEventsTotal.WithLabelValues("unknown").Inc()
		zap.L().Info("webhook for unknown reference ignored", zap.String("reference", event.Reference))
		return nil
	}

	switch event.Status {
	case domain.TransactionStatusSuccess:
		err = r.settlements.Finalize(ctx, event.Reference, true, body)
	case domain.TransactionStatusFailed:
		err = r.settlements.Finalize(ctx, event.Reference, false, body)
	case domain.TransactionStatusRefunded:
		err = r.settlements.Refund(ctx, event.Reference, body)
	default:
		metrics.WebhookEventsTotal.WithLabelValues("unrecognized_status").Inc()
		zap.L().Warn("webhook with unrecognized status ignored",
			zap.String("reference", event.Reference), zap.String("status", event.Status))
		return nil
	}
	if err != nil {
		return err
	}

	metrics.WebhookEventsTotal.WithLabelValues("applied").Inc()
	return nil
}
