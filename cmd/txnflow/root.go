package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/iho/txnflow/internal/infrastructure/config"
	"github.com/iho/txnflow/internal/usecase"
)

var errInvalidArguments = errors.New("invalid arguments")

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var (
		logLevel    string
		logFormat   string
		backend     string
		chargeback  string
		metricsFile string
		queueSize   int
	)

	cmd := &cobra.Command{
		Use:   "txnflow <transactions.csv>",
		Short: "Apply a transaction CSV to client accounts",
		Long: `txnflow reads deposits, withdrawals, disputes, resolves and chargebacks
from a CSV file, applies them in order and prints the final state of every
client account to standard output.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(1)(cmd, args); err != nil {
				return fmt.Errorf("%w: %v", errInvalidArguments, err)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}

			flags := cmd.Flags()
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if flags.Changed("backend") {
				cfg.StoreBackend = backend
			}
			if flags.Changed("withdrawal-chargeback") {
				cfg.WithdrawalChargeback = chargeback
			}
			if flags.Changed("metrics-file") {
				cfg.MetricsFile = metricsFile
			}
			if flags.Changed("queue-size") {
				cfg.QueueSize = queueSize
			}

			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("%w: %v", errInvalidArguments, err)
			}

			return run(cmd.Context(), args[0], cfg, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	f.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "log format (console, json)")
	f.StringVar(&backend, "backend", config.BackendMemory, "account store backend (memory, redis, postgres)")
	f.StringVar(&chargeback, "withdrawal-chargeback", config.DefaultWithdrawalChargeback, "chargeback of a disputed withdrawal (reverse, release)")
	f.StringVar(&metricsFile, "metrics-file", "", "write Prometheus metrics to this file after the run")
	f.IntVar(&queueSize, "queue-size", usecase.DefaultQueueSize, "records buffered between decoding and processing")

	return cmd
}
