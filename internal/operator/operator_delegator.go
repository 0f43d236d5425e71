package operator

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/operator/actions"
	"github.com/carson-networks/wallet-server/internal/service"
)

var ErrOperatorStopped = errors.New("operator is stopped")

// OperatorDelegator manages the queue, starts/stops Operators (workers), and enqueues items.
type OperatorDelegator struct {
	ledger     actions.Ledger
	queue      chan ActionItem
	numWorkers int
	logger     logrus.FieldLogger
	wg         sync.WaitGroup
	stopOnce   sync.Once

	// mu guards stopped and keeps Stop from closing the queue under a sender.
	mu      sync.RWMutex
	stopped bool
}

func NewOperatorDelegator(ledger actions.Ledger, numWorkers int, logger logrus.FieldLogger) *OperatorDelegator {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &OperatorDelegator{
		ledger:     ledger,
		queue:      make(chan ActionItem, 1000),
		numWorkers: numWorkers,
		logger:     logger,
	}
}

func (d *OperatorDelegator) Start() {
	for i := 0; i < d.numWorkers; i++ {
		d.wg.Add(1)
		op := NewOperator(d.ledger, d.queue, d.logger.WithField("worker", i))
		go func() {
			defer d.wg.Done()
			op.Run()
		}()
	}
	d.logger.WithField("workers", d.numWorkers).Info("OperatorDelegator.Start.started")
}

// Stop drains the queued items and waits for the workers to exit.
func (d *OperatorDelegator) Stop() {
	d.stopOnce.Do(func() {
		d.mu.Lock()
		d.stopped = true
		close(d.queue)
		d.mu.Unlock()

		d.wg.Wait()
		d.logger.Info("OperatorDelegator.Stop.stopped")
	})
}

// Run starts the workers and stops them once ctx is done.
func (d *OperatorDelegator) Run(ctx context.Context) error {
	d.Start()
	<-ctx.Done()
	d.Stop()
	return nil
}

// Process runs action on a worker. ctx only bounds the wait for a queue slot:
// once the item is queued its outcome is always returned, so a caller never
// sees a cancellation for an action that went on to succeed.
func (d *OperatorDelegator) Process(ctx context.Context, action actions.IAction) error {
	respCh := make(chan ActionItemResponse, 1)
	item := ActionItem{
		ctx:      ctx,
		action:   action,
		response: respCh,
	}

	d.mu.RLock()
	if d.stopped {
		d.mu.RUnlock()
		return ErrOperatorStopped
	}
	select {
	case d.queue <- item:
	case <-ctx.Done():
		d.mu.RUnlock()
		return ctx.Err()
	}
	d.mu.RUnlock()

	resp := <-respCh
	return resp.err
}

// Commit queues a confirmed draft and returns the committed transaction.
func (d *OperatorDelegator) Commit(ctx context.Context, draft service.Draft) (service.Transaction, error) {
	action := &actions.CommitDraft{Draft: draft}
	if err := d.Process(ctx, action); err != nil {
		return service.Transaction{}, err
	}
	return action.Result, nil
}
