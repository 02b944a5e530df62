package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"robo-advisor/internal/common/config"
	"robo-advisor/internal/common/logger"
	"robo-advisor/internal/common/metrics"
	"robo-advisor/internal/common/observability"
	"robo-advisor/internal/dialog"
	recommendportfolio "robo-advisor/internal/intents/recommend-portfolio"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "advisor:", err)
		stop()
		os.Exit(1)
	}
}

// run executes one CLI invocation. Responses and reports go to stdout, logs
// to the configured output.
func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	a := &app{}
	root := newRootCommand(a)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)

	err := root.ExecuteContext(ctx)
	if closeErr := a.close(ctx); err == nil {
		err = closeErr
	}
	return err
}

// app is everything a subcommand needs, built once the config is known.
type app struct {
	cfg      *config.Config
	zapLog   *zap.Logger
	log      logger.Logger
	registry *prometheus.Registry
	recorder *metrics.Recorder
	obs      *observability.Observability
	handler  dialog.TurnHandler
}

func newRootCommand(a *app) *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "advisor",
		Short:         "Robo-advisor dialog handler",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a config file (default: configs/config.yaml search)")

	root.AddCommand(newTurnCommand(a), newReplayCommand(a))
	return root
}

func (a *app) init(configPath string) error {
	var err error
	if configPath != "" {
		a.cfg, err = config.LoadFromFile(configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a.zapLog, err = logger.New(a.cfg.Logging.Level, a.cfg.Logging.Format, a.cfg.Logging.Output)
	if err != nil {
		return err
	}
	a.log = logger.NewZapAdapter(a.zapLog).WithFields(map[string]interface{}{
		"app":     a.cfg.App.Name,
		"version": a.cfg.App.Version,
	})

	intentCfg := recommendportfolio.DefaultConfig()
	if err := intentCfg.Validate(); err != nil {
		return fmt.Errorf("intent config: %w", err)
	}
	dispatcher := dialog.NewDispatcher(recommendportfolio.NewHandler(intentCfg, a.log), a.log)

	a.handler = dispatcher
	if a.cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.recorder = metrics.New(a.registry)
		a.obs, err = observability.New(a.cfg.Metrics.ServiceName, a.registry)
		if err != nil {
			return err
		}
		a.handler = dialog.Instrument(dispatcher, a.recorder, a.obs)
	}
	return nil
}

// close writes the metrics textfile, if enabled, and flushes the logger.
func (a *app) close(ctx context.Context) error {
	if a.zapLog == nil {
		return nil
	}
	defer a.zapLog.Sync() //nolint:errcheck

	if a.registry == nil {
		return nil
	}
	writeErr := metrics.WriteTextfile(a.cfg.Metrics.TextfilePath, a.registry)
	if err := a.obs.Shutdown(ctx); err != nil {
		a.log.Warn("observability shutdown failed", map[string]interface{}{"error": err})
	}
	if writeErr != nil {
		return fmt.Errorf("write metrics: %w", writeErr)
	}
	a.log.Debug("metrics written", map[string]interface{}{"path": a.cfg.Metrics.TextfilePath})
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
