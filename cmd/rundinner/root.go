package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/spf13/cobra"

	"github.com/arloliu/rundinner"
	"github.com/arloliu/rundinner/internal/logger"
	"github.com/arloliu/rundinner/internal/logging"
	"github.com/arloliu/rundinner/store"
)

type rootOptions struct {
	logLevel  string
	logFormat string
	quiet     bool

	logger rundinner.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "rundinner",
		Short:        "Plan teams and routes for running dinner events",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if opts.quiet {
				opts.logger = logger.NewNop()
				return nil
			}

			log, err := newLogger(cmd.ErrOrStderr(), opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.logger = log

			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if zl, ok := opts.logger.(*logging.ZapLogger); ok {
				_ = zl.Sync()
			}
		},
	}

	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", logFormatJSON, "log format (json, console, text)")
	cmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "disable logging")

	cmd.AddCommand(
		newPlanCmd(opts),
		newShowCmd(opts),
		newCombinationCmd(opts),
	)

	return cmd
}

const (
	logFormatJSON    = "json"
	logFormatConsole = "console"
	logFormatText    = "text"
)

// newLogger builds the command logger: zap for json and console output, slog for
// logfmt text.
func newLogger(w io.Writer, level, format string) (rundinner.Logger, error) {
	var (
		log rundinner.Logger
		err error
	)
	switch format {
	case logFormatJSON, logFormatConsole:
		log, err = logging.NewZapWithLevel(level, format == logFormatConsole)
	case logFormatText:
		log, err = logging.NewSlogText(w, level)
	default:
		err = fmt.Errorf("unknown log format %q", format)
	}
	if err != nil {
		return nil, err
	}

	return log, nil
}

// connect opens a NATS connection and a JetStream context on it. The returned close
// function drains the connection.
func connect(url string) (jetstream.JetStream, func(), error) {
	nc, err := nats.Connect(url, nats.Name("rundinner"))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", url, err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, nil, fmt.Errorf("create jetstream context: %w", err)
	}

	return js, func() { _ = nc.Drain() }, nil
}

// openStore connects to NATS and opens the schedule bucket.
func openStore(ctx context.Context, url string, cfg rundinner.StoreConfig, log rundinner.Logger) (*store.KV, func(), error) {
	js, closeConn, err := connect(url)
	if err != nil {
		return nil, nil, err
	}

	kv, err := store.NewKV(ctx, js, cfg, log, nil)
	if err != nil {
		closeConn()
		return nil, nil, err
	}

	return kv, closeConn, nil
}

// loadConfig reads the config file if one is given, otherwise returns the defaults.
func loadConfig(path string) (rundinner.Config, error) {
	if path == "" {
		return rundinner.DefaultConfig(), nil
	}

	return rundinner.LoadConfig(path)
}

var errUnknownFormat = errors.New("unknown output format")

func writeOutput(w io.Writer, format string, snapshot *rundinner.ScheduleSnapshot) error {
	switch format {
	case formatYAML:
		return writeYAML(w, snapshot)
	case formatText:
		return writeText(w, snapshot)
	default:
		return fmt.Errorf("%w: %q", errUnknownFormat, format)
	}
}
