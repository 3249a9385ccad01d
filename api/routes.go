package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger/internal/handlers/v1/card"
	"github.com/carson-networks/card-ledger/internal/handlers/v1/category"
	"github.com/carson-networks/card-ledger/internal/handlers/v1/status"
	"github.com/carson-networks/card-ledger/internal/handlers/v1/transaction"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/service"
	"github.com/carson-networks/card-ledger/internal/storage"
)

const shutdownTimeout = 15 * time.Second

type Rest struct {
	Logger  *logrus.Logger
	Port    string
	Service *service.Service
	Storage *storage.Storage
}

// Handler builds the router: /status on the plain mux and the versioned
// API through huma.
func (r *Rest) Handler() http.Handler {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler(r.Storage)
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	api := humago.New(mux, huma.DefaultConfig("Card Ledger API", "1.0.0"))
	api.UseMiddleware(logging.HumaMiddleware(r.Logger))

	transaction.NewCreateTransactionHandler(r.Service.Ledger).Register(api)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(api)
	card.NewListCardsHandler(r.Service.Card).Register(api)
	card.NewCreateCardHandler(r.Service.Card).Register(api)
	card.NewUpdateCardHandler(r.Service.Card).Register(api)
	card.NewDeleteCardHandler(r.Service.Card).Register(api)
	category.NewListCategoriesHandler(r.Service.Category).Register(api)

	return mux
}

// Serve listens until ctx is cancelled, then drains in-flight requests.
func (r *Rest) Serve(ctx context.Context) error {
	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           r.Handler(),
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctx.Done()
		r.Logger.Info("HttpServer.Serve.shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
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

	<-shutdownDone
	return nil
}
