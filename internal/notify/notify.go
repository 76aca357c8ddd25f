package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/vleukhin/workmart/internal/config"
	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/pkg/clients"
)

const bufferSize = 256

// Dispatcher forwards domain events to the notification service. It runs
// outside any transactional boundary: events are buffered, delivery is
// best-effort, and a full buffer drops the event with a warning rather than
// blocking a payment flow.
type Dispatcher struct {
	url    string
	client clients.HTTPClientI
	events chan domain.Event
}

func NewDispatcher(cfg *config.Config, client clients.HTTPClientI) *Dispatcher {
	return &Dispatcher{
		url:    cfg.NotificationAddress,
		client: client,
		events: make(chan domain.Event, bufferSize),
	}
}

func (d *Dispatcher) Publish(event domain.Event) {
	select {
	case d.events <- event:
	default:
		zap.L().Warn("notification buffer full, dropping event", zap.String("event", event.Name))
	}
}

func (d *Dispatcher) Start(ctx context.Context) {
	zap.L().Info("notification dispatcher started")
	go d.run(ctx)
}

func (d *Dispatcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping notification dispatcher")
			return
		case event := <-d.events:
			d.deliver(event)
		}
	}
}

func (d *Dispatcher) deliver(event domain.Event) {
	body, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("failed to marshal event", zap.Error(err))
		return
	}

	statusCode, _, err := d.client.Post(d.url+"/api/events", body, nil)
	if err != nil {
		zap.L().Warn("failed to deliver event", zap.String("event", event.Name), zap.Error(err))
		return
	}
	if statusCode >= 300 {
		zap.L().Warn("notification service rejected event",
			zap.String("event", event.Name), zap.Int("status", statusCode))
	}
}
