package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/iho/txnflow/internal/domain"
	"github.com/iho/txnflow/internal/infrastructure/metrics"
)

// RunStats summarizes a processing run.
type RunStats struct {
	Processed     int
	Applied       int
	Rejected      int
	Accounts      int
	Locked        int
	Discrepancies int
}

// Processor feeds decoded transactions to a TransactionManager in arrival
// order and emits the final account states.
type Processor struct {
	manager   *TransactionManager
	accounts  AccountStore
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	queueSize int
}

// ProcessorConfig configures a Processor.
type ProcessorConfig struct {
	Manager   *TransactionManager
	Accounts  AccountStore
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	QueueSize int
}

func NewProcessor(cfg ProcessorConfig) *Processor {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	return &Processor{
		manager:   cfg.Manager,
		accounts:  cfg.Accounts,
		logger:    cfg.Logger,
		metrics:   cfg.Metrics,
		queueSize: cfg.QueueSize,
	}
}

type queuedTransaction struct {
	seq int
	txn *domain.Transaction
}

// Run decodes src on one goroutine and processes records on another, then
// writes every account to sink sorted by client.
//
// Rejected records are logged and skipped. Run fails only when decoding,
// a store, or the sink fails, or when ctx is cancelled.
func (p *Processor) Run(ctx context.Context, src TransactionSource, sink SnapshotSink) (RunStats, error) {
	var stats RunStats

	queue := make(chan queuedTransaction, p.queueSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)

		for seq := 1; ; seq++ {
			txn, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}

			select {
			case queue <- queuedTransaction{seq: seq, txn: txn}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for item := range queue {
			if err := p.process(gctx, item, &stats); err != nil {
				return err
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}

	snapshots, err := p.accounts.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list accounts: %w", err)
	}

	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})

	stats.Accounts = len(snapshots)
	for _, s := range snapshots {
		if s.Locked {
			stats.Locked++
		}
	}

	report := Reconcile(snapshots)
	stats.Discrepancies = len(report.Discrepancies)
	for _, d := range report.Discrepancies {
		p.logger.Error().Uint16("client", d.Client).Str("reason", d.Reason).Msg("account failed reconciliation")
	}

	if p.metrics != nil {
		p.metrics.Accounts.Set(float64(stats.Accounts))
		p.metrics.AccountsLocked.Set(float64(stats.Locked))
	}

	if err := sink.Write(snapshots); err != nil {
		return stats, err
	}

	p.logger.Info().
		Int("processed", stats.Processed).
		Int("applied", stats.Applied).
		Int("rejected", stats.Rejected).
		Int("accounts", stats.Accounts).
		Int("locked", stats.Locked).
		Msg("run complete")

	return stats, nil
}

func (p *Processor) process(ctx context.Context, item queuedTransaction, stats *RunStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := item.txn
	start := time.Now()

	err := p.manager.Process(ctx, txn)
	stats.Processed++

	if p.metrics != nil {
		p.metrics.TransactionsProcessed.WithLabelValues(string(txn.Kind)).Inc()
		p.metrics.ProcessDuration.Observe(time.Since(start).Seconds())
	}

	if err == nil {
		stats.Applied++
		p.logger.Debug().
			Int("record", item.seq).
			Str("type", string(txn.Kind)).
			Uint16("client", txn.Client).
			Uint32("tx", txn.ID).
			Msg("transaction applied")
		return nil
	}

	if !domain.IsBusinessError(err) {
		return fmt.Errorf("record %d: %w", item.seq, err)
	}

	stats.Rejected++
	if p.metrics != nil {
		p.metrics.TransactionsRejected.WithLabelValues(string(txn.Kind), domain.Reason(err)).Inc()
	}

	p.logger.Warn().
		Err(err).
		Int("record", item.seq).
		Str("type", string(txn.Kind)).
		Uint16("client", txn.Client).
		Uint32("tx", txn.ID).
		Msg("transaction rejected")

	return nil
}
