package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpin "laundry/internal/adapters/in/http"
	"laundry/internal/adapters/out/kafka"
	"laundry/internal/adapters/out/postgres/migrations"
	"laundry/internal/core/ports"
	"laundry/internal/jobs"
	"laundry/internal/pkg/logger"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

type closablePublisher interface {
	ports.EventPublisher
	Close() error
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the scheduled jobs",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log := current.config, current.logger
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := applyMigrations(cfg); err != nil {
			return err
		}
	}

	db, err := openGorm(cfg, log)
	if err != nil {
		return err
	}
	defer closeGorm(db)

	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := publisher.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close event publisher")
		}
	}()

	root := NewCompositionRoot(db, publisher, log)

	jobManager := jobs.NewJobManager(root.CreateMarkOverdueCommandHandler(), cfg.OverdueSweepSchedule, log)
	if err = jobManager.StartAll(); err != nil {
		return err
	}
	defer jobManager.StopAll()

	server := newHTTPServer(&root, cfg, log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		addr := fmt.Sprintf("0.0.0.0:%s", cfg.HTTPPort)
		log.Info().Str("addr", addr).Msg("HTTP server started")
		if startErr := server.Start(addr); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
			errCh <- startErr
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newHTTPServer(root *CompositionRoot, cfg Config, log zerolog.Logger) interface {
	Start(address string) error
	Shutdown(ctx context.Context) error
} {
	orders := httpin.NewOrderHandlers(
		root.CreateCreateOrderCommandHandler(),
		root.CreateUpdateOrderCommandHandler(),
		root.CreateUpdateOrderStatusCommandHandler(),
		root.CreateConfirmPickupCommandHandler(),
		root.CreateReceiveAtFacilityCommandHandler(),
		root.CreateConfirmDeliveryCommandHandler(),
		root.CreateDeleteOrderCommandHandler(),
		root.CreateListOrdersQueryHandler(),
		root.CreateGetOrderQueryHandler(),
	)
	routes := httpin.NewRouteHandlers(
		root.CreateCreateRouteCommandHandler(),
		root.CreateUpdateRouteCommandHandler(),
		root.CreateUpdateRouteStatusCommandHandler(),
		root.CreateDeleteRouteCommandHandler(),
		root.CreateListRoutesQueryHandler(),
		root.CreateGetRouteQueryHandler(),
	)
	invoices := httpin.NewInvoiceHandlers(
		root.CreateCreateInvoiceCommandHandler(),
		root.CreateRecordPaymentCommandHandler(),
		root.CreateMarkOverdueCommandHandler(),
		root.CreateListInvoicesQueryHandler(),
		root.CreateGetInvoiceQueryHandler(),
	)

	return httpin.NewServer(
		orders,
		routes,
		invoices,
		httpin.NewTokenVerifier(cfg.JWTAccessSecret),
		cfg.CORSOrigins(),
		logger.WithComponent(log, "http"),
	).Echo()
}

func newPublisher(cfg Config, log zerolog.Logger) (closablePublisher, error) {
	brokers := cfg.KafkaBrokers()
	if len(brokers) == 0 {
		log.Warn().Msg("KAFKA_HOST is not set, order status events will not be published")
		return kafka.NewNoopPublisher(log), nil
	}

	producer, err := kafka.NewSyncProducer(brokers)
	if err != nil {
		return nil, err
	}
	return kafka.NewOrderStatusPublisher(producer, cfg.KafkaOrderChangedTopic, log), nil
}

func applyMigrations(cfg Config) error {
	db, err := migrations.Open(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()
	return migrations.Up(db)
}
