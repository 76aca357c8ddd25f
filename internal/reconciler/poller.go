package reconciler

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vleukhin/workmart/internal/domain"
	"github.com/vleukhin/workmart/internal/gateway"
)

const (
	maxRetries    = 3
	retryInterval = time.Second * 1
)

var inFlight sync.Map

// Poller periodically asks the gateway about transactions stuck in pending.
// Most settlements confirm via webhook; the poller is the safety net for lost
// callbacks and for payouts whose create call was ambiguous.
type Poller struct {
	settlements  Settlements
	gateway      Gateway
	limit        uint32
	workerPool   WorkerPoolI
	pollInterval time.Duration
}

func NewPoller(settlements Settlements, gw Gateway) *Poller {
	return &Poller{
		settlements:  settlements,
		gateway:      gw,
		limit:        1000,
		workerPool:   NewWorkerPool(10),
		pollInterval: time.Second * 5,
	}
}

func (p *Poller) Start(ctx context.Context) {
	zap.L().Info("settlement reconciliation poller started")
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("context canceled, stopping reconciliation poller")
			return
		case <-ticker.C:
			p.processPending(ctx)
		}
	}
}

func (p *Poller) processPending(ctx context.Context) {
	txns, err := p.settlements.FindPending(ctx, atomic.LoadUint32(&p.limit))
	if err != nil {
		zap.L().Error("failed to fetch pending transactions", zap.Error(err))
		return
	}

	var g errgroup.Group
	for _, txn := range txns {
		txn := txn

		if _, loaded := inFlight.LoadOrStore(txn.GatewayReference, struct{}{}); loaded {
			continue
		}

		g.Go(func() error {
			err := p.workerPool.AddTask(ctx, func() error {
				defer inFlight.Delete(txn.GatewayReference)
				return p.checkTransaction(ctx, txn)
			})
			if err != nil {
				inFlight.Delete(txn.GatewayReference)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		zap.L().Error("error reconciling pending transactions", zap.Error(err))
	}
}

func (p *Poller) checkTransaction(ctx context.Context, txn domain.Transaction) error {
	var result *gateway.PayoutResult
	var err error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			result, err = p.gateway.CheckPayout(ctx, txn.GatewayReference)
			if err != nil {
				if attempt < maxRetries {
					time.Sleep(retryInterval * time.Duration(attempt))
					continue
				}
				return fmt.Errorf("failed to check payout %s after %d retries: %w", txn.GatewayReference, maxRetries, err)
			}

			switch result.Status {
			case gateway.StatusSucceeded:
				return p.settlements.Finalize(ctx, txn.GatewayReference, true, result.Raw)
			case gateway.StatusFailed:
				return p.settlements.Finalize(ctx, txn.GatewayReference, false, result.Raw)
			default:
				// Still in flight at the gateway; keep waiting.
				zap.L().Debug("payout still pending at gateway", zap.String("reference", txn.GatewayReference))
				return nil
			}
		}
	}
	return nil
}
