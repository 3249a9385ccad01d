package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/card-ledger/api"
	"github.com/carson-networks/card-ledger/internal/config"
	"github.com/carson-networks/card-ledger/internal/logging"
	"github.com/carson-networks/card-ledger/internal/operator"
	"github.com/carson-networks/card-ledger/internal/service"
	"github.com/carson-networks/card-ledger/internal/storage"
	"github.com/carson-networks/card-ledger/internal/storage/memory"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.WithField("backend", envConfig.DataBackend).Info("card-ledger starting")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStorage(ctx, envConfig, logger)
	if err != nil {
		logger.WithError(err).Fatal("openStorage")
		return
	}
	defer store.Close()

	policy, err := service.ParseCategoryPolicy(envConfig.CategoryPolicy)
	if err != nil {
		logger.WithError(err).Fatal("service.ParseCategoryPolicy")
		return
	}

	delegator := operator.NewOperatorDelegator(store, envConfig.OperatorWorkers, envConfig.OperatorQueueSize, logger)
	delegator.Start()

	svc := service.NewService(store.Reader, delegator, policy)

	httpRest := api.Rest{
		Logger:  logger,
		Port:    envConfig.Port,
		Service: svc,
		Storage: store,
	}
	if err := httpRest.Serve(ctx); err != nil {
		logger.WithError(err).Error("api.Rest.Serve")
	}

	delegator.Stop()
	logger.Info("card-ledger stopped")
}

func openStorage(ctx context.Context, envConfig *config.Config, logger *logrus.Logger) (*storage.Storage, error) {
	if envConfig.DataBackend == config.BackendMemory {
		logger.Warn("using the in-memory backend, data is lost on restart")
		return memory.New(memory.DefaultCategories).Storage(), nil
	}

	if envConfig.RunMigrations {
		result, err := storage.RunMigrations(envConfig.PostgresURL())
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"preMigrationVersion":  result.PreMigrationVersion,
			"postMigrationVersion": result.PostMigrationVersion,
		}).Info("Migration status")
	}

	return storage.NewStorage(ctx, envConfig)
}
