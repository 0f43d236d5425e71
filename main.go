package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/carson-networks/wallet-server/api"
	"github.com/carson-networks/wallet-server/internal/config"
	"github.com/carson-networks/wallet-server/internal/events"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/operator"
	"github.com/carson-networks/wallet-server/internal/service"
	"github.com/carson-networks/wallet-server/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logger.Info("wallet-server starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logger.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}
	if err := logging.SetLevel(logger, envConfig.LogLevel); err != nil {
		logger.WithError(err).Fatal("logging.SetLevel")
		return
	}

	store, err := storage.NewStorage(envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("storage.NewStorage")
		return
	}
	defer store.Close()

	ledger := service.NewLedgerStore(store.Transactions, logger)
	delegator := operator.NewOperatorDelegator(ledger, envConfig.OperatorWorkers, logger)
	svc := service.NewService(ledger, delegator, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	if envConfig.AMQPURL != "" {
		publisher, err := events.NewPublisher(envConfig.AMQPURL, envConfig.AMQPExchange, envConfig.AMQPRoutingKey, logger)
		if err != nil {
			logger.WithError(err).Fatal("events.NewPublisher")
			return
		}
		defer publisher.Close()
		ledger.Subscribe(publisher.HandleLedgerEvent)
		group.Go(func() error { return publisher.Run(ctx) })
	}

	if envConfig.DefaultOwnerID != "" {
		if err := svc.StartSession(ctx, envConfig.DefaultOwnerID); err != nil {
			logger.WithError(err).Warn("main.StartSession.default owner")
		}
	}

	group.Go(func() error { return delegator.Run(ctx) })
	group.Go(func() error {
		httpRest := api.Rest{
			Logger:  logger,
			Port:    envConfig.Port,
			Service: svc,
		}
		return httpRest.Serve(ctx)
	})

	if err := group.Wait(); err != nil {
		logger.WithError(err).Error("wallet-server stopped with error")
	}
	logger.Info("wallet-server stopped")
}
