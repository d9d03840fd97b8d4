// Package notification provides event handlers for sending notifications
// in response to domain events. This module subscribes to events and inverts
// the dependency: domain modules do not need to know about email providers
// or templates.
package notification

import (
	"context"

	"github.com/closespark/vrm-properties-demo-site/internal/config"
	"github.com/closespark/vrm-properties-demo-site/internal/email"
	"github.com/closespark/vrm-properties-demo-site/internal/events"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
)

// Module handles all notification-related event subscriptions.
type Module struct {
	sender email.Sender
	cfg    config.NotifyConfig
	log    *logger.Logger
}

// New creates a new notification module.
func New(sender email.Sender, cfg config.NotifyConfig, log *logger.Logger) *Module {
	return &Module{
		sender: sender,
		cfg:    cfg,
		log:    log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	bus.Subscribe(events.InquiryProcessed{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle routes events to the appropriate handler method.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.InquiryProcessed:
		return m.handleInquiryProcessed(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleInquiryProcessed(ctx context.Context, e events.InquiryProcessed) error {
	if !m.cfg.IsNotifyEnabled() {
		return nil
	}

	toEmail := m.cfg.GetNotifyEmail()
	data := email.InquiryNotification{
		FirstName:           e.FirstName,
		LastName:            e.LastName,
		Email:               e.Email,
		Phone:               e.Phone,
		ExternalListingID:   e.ExternalListingID,
		PageName:            e.PageName,
		PageURI:             e.PageURI,
		MarketingConsentSet: e.MarketingConsentSet,
		ListingFound:        e.ListingFound,
		AssociationCreated:  e.AssociationCreated,
	}

	if err := m.sender.SendInquiryNotificationEmail(ctx, toEmail, data); err != nil {
		m.log.Error("failed to send inquiry notification email",
			"email", e.Email,
			"external_listing_id", e.ExternalListingID,
			"error", err,
		)
		return err
	}

	m.log.Info("inquiry notification email sent", "to", toEmail, "external_listing_id", e.ExternalListingID)
	return nil
}
