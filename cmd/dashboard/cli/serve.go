package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"validprop/internal/config"
	"validprop/internal/dashboard"
	"validprop/internal/health"
	"validprop/internal/metrics"
	"validprop/internal/publisher"
	"validprop/internal/service"
	"validprop/internal/storage/postgres"
	"validprop/internal/web"
)

const recorderViewID = "recorder"

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web dashboard",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	client := newClient(cfg, logger)
	checks := health.New()

	var (
		snapshots web.SnapshotLister
		store     service.SnapshotStore
		txManager service.TransactionManager
		events    service.Publisher
	)

	if cfg.Database.Enabled {
		db, err := postgres.Connect(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer db.Close()
		logger.Info("connected to database")

		snapshotStore := postgres.NewSnapshotStore(db)
		snapshots = snapshotStore
		store = snapshotStore
		txManager = postgres.NewTransactionManager(db)
		checks.RegisterCheck("database", snapshotStore.Ping)
	}

	if cfg.RabbitMQ.Enabled {
		rabbitMQ, err := publisher.NewRabbitMQ(publisher.Config{
			URL:        cfg.RabbitMQ.URL,
			Exchange:   cfg.RabbitMQ.Exchange,
			RoutingKey: cfg.RabbitMQ.RoutingKey,
			QueueName:  cfg.RabbitMQ.QueueName,
		}, logger)
		if err != nil {
			return fmt.Errorf("connect to rabbitmq: %w", err)
		}
		events = rabbitMQ
		checks.RegisterCheck("rabbitmq", func(context.Context) error {
			return rabbitMQ.Ping()
		})
	}

	recorder := service.NewRecorder(store, txManager, events, m, logger, cfg.Database)
	defer func() {
		if err := recorder.Close(); err != nil {
			logger.Error("failed to close publisher", "error", err)
		}
	}()

	srv, err := web.NewServer(web.Config{
		Addr:            cfg.Server.Addr,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		Source:          client,
		Dashboard:       cfg.Dashboard,
		Settings:        cfg,
		Snapshots:       snapshots,
		Health:          checks,
		Metrics:         m,
		Gatherer:        reg,
		Logger:          logger,
	})
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	eg, egctx := errgroup.WithContext(ctx)

	if recorder.Enabled() {
		if err := startRecorder(egctx, eg, client, cfg.Dashboard, recorder, m, logger); err != nil {
			return err
		}
	}

	eg.Go(func() error {
		return srv.Serve(egctx)
	})

	logger.Info("starting dashboard",
		"api", client.BaseURL(),
		"addr", cfg.Server.Addr,
		"archive", cfg.Database.Enabled,
		"events", cfg.RabbitMQ.Enabled,
	)

	if err := eg.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// startRecorder mounts a headless dashboard view whose stats refreshes are
// archived and published whether or not anyone has the dashboard open.
func startRecorder(
	ctx context.Context,
	eg *errgroup.Group,
	source dashboard.Source,
	cfg config.DashboardConfig,
	recorder *service.Recorder,
	m *metrics.Metrics,
	logger *slog.Logger,
) error {
	ctrl := dashboard.New(source, cfg, logger,
		dashboard.WithID(recorderViewID),
		dashboard.StatsOnly(),
		dashboard.WithObserver(recorder),
		dashboard.WithMetrics(m),
	)
	if err := ctrl.Mount(ctx); err != nil {
		return fmt.Errorf("mount recorder: %w", err)
	}

	eg.Go(func() error {
		<-ctx.Done()
		ctrl.Close()
		return nil
	})
	return nil
}
