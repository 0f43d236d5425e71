package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/wallet-server/internal/handlers/v1/draft"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/session"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/status"
	"github.com/carson-networks/wallet-server/internal/handlers/v1/transaction"
	"github.com/carson-networks/wallet-server/internal/logging"
	"github.com/carson-networks/wallet-server/internal/service"
)

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
}

// NewRouter builds the HTTP surface: /status as a plain handler and the /v1
// operations through Huma.
func NewRouter(logger *logrus.Logger, svc *service.Service) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"https://*", "http://*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	statusHandler := status.NewHandler(svc)
	router.Get("/status", logging.LoggingWrapper("Status", logger, statusHandler.Handler))

	api := humachi.New(router, huma.DefaultConfig("Wallet Server", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(logger))

	session.NewHandler(svc).Register(api)
	draft.NewCreateDraftHandler(svc).Register(api)
	draft.NewResolveDraftHandler(svc).Register(api)
	draft.NewDataPlansHandler(svc).Register(api)
	transaction.NewListTransactionsHandler(svc).Register(api)
	transaction.NewRecentTransactionsHandler(svc).Register(api)
	transaction.NewGetTransactionHandler(svc).Register(api)
	transaction.NewBalanceHandler(svc).Register(api)

	return router
}

// Serve listens until ctx is done and then shuts the server down gracefully.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           NewRouter(r.Logger, r.Service),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	go func() {
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			r.Logger.WithError(err).Error("HttpServer.Serve.shutdown error")
		}
	}()

	r.Logger.WithField("port", r.Port).Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
		return err
	}
	return nil
}
