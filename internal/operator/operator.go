package operator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/operator/actions"
)

// Operator is the worker that processes items from the queue.
type Operator struct {
	ledger actions.Ledger
	queue  chan ActionItem
	logger logrus.FieldLogger
}

func NewOperator(ledger actions.Ledger, queue chan ActionItem, logger logrus.FieldLogger) *Operator {
	return &Operator{
		ledger: ledger,
		queue:  queue,
		logger: logger,
	}
}

// Run listens to the queue and processes items. Exits when the queue is closed.
func (o *Operator) Run() {
	for item := range o.queue {
		o.processItem(item)
	}
}

func (o *Operator) processItem(item ActionItem) {
	logger := o.logger.WithField("action", fmt.Sprintf("%T", item.action))

	if err := item.action.Perform(item.ctx, o.ledger); err != nil {
		logger.WithError(err).Warn("Operator.processItem.action failed")
		item.response <- ActionItemResponse{err: err}
		return
	}

	logger.Debug("Operator.processItem.done")
	item.response <- ActionItemResponse{}
}

type ActionItem struct {
	ctx      context.Context
	action   actions.IAction
	response chan ActionItemResponse
}

type ActionItemResponse struct {
	err error
}
