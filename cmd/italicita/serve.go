package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alebarre/italicita/internal/catalog"
	"github.com/alebarre/italicita/internal/checkout"
	"github.com/alebarre/italicita/internal/config"
	"github.com/alebarre/italicita/internal/events"
	h "github.com/alebarre/italicita/internal/http"
	"github.com/alebarre/italicita/internal/metrics"
	"github.com/alebarre/italicita/internal/payment"
	"github.com/alebarre/italicita/internal/session"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the storefront HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap()
			if err != nil {
				return err
			}
			defer logger.Sync()
			return serve(cfg, logger)
		},
	}
}

// publisher is what checkout publishes to, closed on shutdown.
type publisher interface {
	checkout.Publisher
	Close() error
}

func serve(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	repo, err := openCatalog(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	cache, closeCache := openMenuCache(ctx, cfg, logger)
	defer closeCache()
	menu := catalog.NewService(repo, cache, logger)

	store, err := openOrderStore(ctx, cfg, true, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	pix, err := payment.NewPixGenerator(payment.PixConfig{
		Key:          cfg.PixKey,
		MerchantName: cfg.PixMerchant,
		City:         cfg.PixCity,
	})
	if err != nil {
		return fmt.Errorf("pix: %w", err)
	}

	carts := session.NewMemoryStore(cfg.CartSessionTTL, session.DefaultCleanupInterval, logger)
	defer carts.Close()
	payments := payment.NewSessionStore(cfg.PixSessionTTL, payment.CleanupInterval, logger)
	defer payments.Close()

	var pub publisher = events.Noop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewPublisher(cfg.KafkaBrokers...)
	}
	defer pub.Close()

	m := metrics.New()
	svc := checkout.NewService(carts, store, pix, payment.NewWhatsApp(cfg.WhatsAppPhone), payments, pub, m,
		checkout.Config{DeliveryFee: cfg.DeliveryFee}, logger)

	if len(cfg.KafkaBrokers) > 0 {
		consumer := events.NewConsumer(svc, logger, cfg.KafkaBrokers...)
		defer consumer.Close()
		go consumer.Run(ctx)
		logger.Info("listening for pix confirmations", zap.Strings("brokers", cfg.KafkaBrokers))
	} else {
		logger.Info("kafka not configured, events disabled")
	}

	router := h.NewRouter(h.RouterConfig{
		Menu:           h.NewMenuHandler(menu, cfg.RequestTimeout, logger),
		Cart:           h.NewCartHandler(carts, menu, m, cfg.RequestTimeout, logger),
		Checkout:       h.NewCheckoutHandler(svc, cfg.RequestTimeout, logger),
		Orders:         h.NewOrdersHandler(svc, cfg.RequestTimeout, logger),
		Payments:       h.NewPaymentHandler(svc, cfg.RequestTimeout, logger),
		Metrics:        m.Handler(),
		RequestTimeout: cfg.RequestTimeout,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		logger.Info("shutting down server", zap.String("signal", sig.String()))
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	}

	stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("server exited")
	return nil
}
