package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/closespark/vrm-properties-demo-site/internal/config"
	"github.com/closespark/vrm-properties-demo-site/internal/email"
	"github.com/closespark/vrm-properties-demo-site/internal/events"
	apphttp "github.com/closespark/vrm-properties-demo-site/internal/http"
	"github.com/closespark/vrm-properties-demo-site/internal/http/router"
	"github.com/closespark/vrm-properties-demo-site/internal/hubspot"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry"
	"github.com/closespark/vrm-properties-demo-site/internal/notification"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
	"github.com/closespark/vrm-properties-demo-site/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	crmClient := hubspot.NewClient(hubspot.Config{
		APIBaseURL:          cfg.GetHubSpotAPIBaseURL(),
		FormsBaseURL:        cfg.GetHubSpotFormsBaseURL(),
		AccessToken:         cfg.GetHubSpotAccessToken(),
		PortalID:            cfg.GetHubSpotPortalID(),
		FormGUID:            cfg.GetHubSpotFormGUID(),
		ListingsObjectType:  cfg.GetHubSpotListingsObjectType(),
		ListingIDProperty:   cfg.GetHubSpotListingIDProperty(),
		AssociationCategory: cfg.GetHubSpotAssociationCategory(),
		AssociationTypeID:   cfg.GetHubSpotAssociationTypeID(),
		Timeout:             cfg.GetHubSpotTimeout(),
	}, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events (not HTTP-facing)
	notificationModule := notification.New(sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	inquiryModule := inquiry.NewModule(crmClient, cfg, eventBus, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			inquiryModule,
		},
	}

	engine := router.New(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
