package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/iho/txnflow/internal/adapter/csvio"
	"github.com/iho/txnflow/internal/adapter/repository/memory"
	postgresRepo "github.com/iho/txnflow/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/txnflow/internal/adapter/repository/redis"
	"github.com/iho/txnflow/internal/infrastructure/config"
	"github.com/iho/txnflow/internal/infrastructure/logger"
	"github.com/iho/txnflow/internal/infrastructure/metrics"
	"github.com/iho/txnflow/internal/infrastructure/postgres"
	"github.com/iho/txnflow/internal/infrastructure/redis"
	"github.com/iho/txnflow/internal/usecase"
)

type stores struct {
	transactions usecase.TransactionStore
	accounts     usecase.AccountStore
	close        func()
}

func run(ctx context.Context, path string, cfg *config.Config, stdout, stderr io.Writer) error {
	policy, err := cfg.ChargebackPolicy()
	if err != nil {
		return err
	}

	log, runID := logger.WithRunID(logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Out:    stderr,
	}))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	in, err := csvio.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("failed to open input")
		return err
	}
	defer in.Close()

	s, err := openStores(ctx, cfg, runID, log, m)
	if err != nil {
		log.Error().Err(err).Str("backend", cfg.StoreBackend).Msg("failed to open store")
		return err
	}
	defer s.close()

	log.Debug().
		Str("path", path).
		Str("backend", cfg.StoreBackend).
		Str("withdrawal_chargeback", string(policy)).
		Msg("starting run")

	processor := usecase.NewProcessor(usecase.ProcessorConfig{
		Manager:   usecase.NewTransactionManager(s.transactions, s.accounts, policy),
		Accounts:  s.accounts,
		Logger:    log,
		Metrics:   m,
		QueueSize: cfg.QueueSize,
	})

	if _, err := processor.Run(ctx, csvio.NewDecoder(in), csvio.NewEncoder(stdout)); err != nil {
		log.Error().Err(err).Msg("run aborted")
		return err
	}

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile, reg); err != nil {
			log.Warn().Err(err).Str("path", cfg.MetricsFile).Msg("failed to write metrics")
		}
	}

	return nil
}

func openStores(ctx context.Context, cfg *config.Config, runID string, log zerolog.Logger, m *metrics.Metrics) (*stores, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		log.Debug().Msg("connected to redis")

		retrier := redisRepo.NewRetrier(log, m)
		return &stores{
			transactions: redisRepo.NewTransactionRepository(client, cfg.RedisKeyPrefix, runID, retrier),
			accounts:     redisRepo.NewAccountRepository(client, cfg.RedisKeyPrefix, runID, retrier),
			close:        func() { _ = client.Close() },
		}, nil

	case config.BackendPostgres:
		if err := postgres.RunMigrations(cfg.DatabaseURL, log); err != nil {
			return nil, err
		}

		pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
		if err != nil {
			return nil, err
		}
		log.Debug().Msg("connected to postgres")

		retrier := postgresRepo.NewRetrier(log, m)
		return &stores{
			transactions: postgresRepo.NewTransactionRepository(pool, runID, retrier),
			accounts:     postgresRepo.NewAccountRepository(pool, runID, retrier),
			close:        pool.Close,
		}, nil

	case config.BackendMemory:
		return &stores{
			transactions: memory.NewTransactionRepository(),
			accounts:     memory.NewAccountRepository(),
			close:        func() {},
		}, nil
	}

	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}
