package reconciler

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type WorkerPoolI interface {
	AddTask(ctx context.Context, task Task) error
	Close()
}

// Task is one unit of reconciliation work, typically a single payout check.
type Task func() error

// WorkerPool bounds how many gateway checks run at once. Task errors are
// logged and dropped; the transaction stays pending and the next poll picks
// it up again.
type WorkerPool struct {
	tasks chan Task
	once  sync.Once
}

func NewWorkerPool(size int) *WorkerPool {
	wp := &WorkerPool{tasks: make(chan Task, size)}
	for i := 0; i < size; i++ {
		go wp.worker(i)
	}
	return wp
}

func (wp *WorkerPool) worker(id int) {
	for task := range wp.tasks {
		if err := task(); err != nil {
			zap.L().Error("payout check failed", zap.Int("worker", id), zap.Error(err))
		}
	}
}

// AddTask blocks until a worker slot frees up or ctx is canceled.
func (wp *WorkerPool) AddTask(ctx context.Context, task Task) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wp.tasks <- task:
		return nil
	}
}

// Close stops accepting tasks; workers drain whatever is already queued.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.tasks)
	})
}
