// Package inquiry provides the property inquiry domain module.
package inquiry

import (
	"github.com/closespark/vrm-properties-demo-site/internal/config"
	"github.com/closespark/vrm-properties-demo-site/internal/events"
	apphttp "github.com/closespark/vrm-properties-demo-site/internal/http"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/handler"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/service"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
	"github.com/closespark/vrm-properties-demo-site/platform/validator"
)

// Config combines the config interfaces the inquiry module reads.
type Config interface {
	config.InquiryConfig
	config.PhoneConfig
}

// Module represents the inquiry domain module
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates a new inquiry module with all dependencies wired
func NewModule(crm service.CRM, cfg Config, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(crm, cfg, eventBus, log)
	h := handler.New(svc, val, cfg, log)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module name for logging
func (m *Module) Name() string {
	return "inquiry"
}

// Service returns the service layer for external use
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes registers the module's routes
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.API.POST("/request-info", ctx.FormRateLimiter.RateLimit(), m.handler.HandleRequestInfo)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
