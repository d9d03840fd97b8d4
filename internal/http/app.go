// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"github.com/closespark/vrm-properties-demo-site/internal/config"
	"github.com/closespark/vrm-properties-demo-site/internal/events"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
)

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the HTTP server configuration.
	Config config.HTTPConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
