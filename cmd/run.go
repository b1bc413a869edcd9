package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"credmarket/api"
	"credmarket/config"
	"credmarket/database"
	"credmarket/events"
	"credmarket/metrics"
	"credmarket/repository"
	"credmarket/service"

	log "github.com/sirupsen/logrus"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg)

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	eventBus := events.NewBus()
	subscribeMetrics(eventBus)

	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	ledgerService := service.NewLedgerService(uowFactory, cfg.StartingBalance)
	marketplaceService := service.NewMarketplaceService(uowFactory, cfg.IdempotencyTTL)
	voteService := service.NewVoteService(uowFactory)
	contentService := service.NewContentService(uowFactory)

	server := api.NewServer(ledgerService, marketplaceService, voteService, contentService)
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"port":        cfg.HTTPPort,
			"environment": cfg.Environment,
		}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("HTTP server shutdown was not clean")
	}

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(cfg *config.Config) {
	if cfg.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetLevel(log.DebugLevel)
	}
}

// subscribeMetrics bridges committed domain events into Prometheus
// counters
func subscribeMetrics(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChanged, func(_ context.Context, e events.Event) {
		ev := e.(events.BalanceChangedEvent)
		metrics.TransfersTotal.WithLabelValues(string(ev.EntryType)).Inc()
		if ev.Amount > 0 {
			metrics.CreditsMovedTotal.Add(float64(ev.Amount))
		}
	})
	bus.Subscribe(events.EventTypeAccountCreated, func(_ context.Context, _ events.Event) {
		metrics.AccountsCreatedTotal.Inc()
	})
	bus.Subscribe(events.EventTypeVoteCast, func(_ context.Context, e events.Event) {
		ev := e.(events.VoteCastEvent)
		metrics.VotesCastTotal.WithLabelValues(string(ev.Status)).Inc()
	})
	bus.Subscribe(events.EventTypeReportFiled, func(_ context.Context, _ events.Event) {
		metrics.ReportsFiledTotal.Inc()
	})
}
