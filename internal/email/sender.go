// Package email delivers transactional mail for the inquiry workflow.
package email

import (
	"context"

	"github.com/closespark/vrm-properties-demo-site/internal/config"
)

// InquiryNotification carries the processed inquiry data for the owner email.
type InquiryNotification struct {
	FirstName           string
	LastName            string
	Email               string
	Phone               string
	ExternalListingID   string
	PageName            string
	PageURI             string
	MarketingConsentSet bool
	ListingFound        bool
	AssociationCreated  bool
}

// Sender delivers notification emails. Implementations render the shared
// HTML templates and differ only in transport.
type Sender interface {
	SendInquiryNotificationEmail(ctx context.Context, toEmail string, data InquiryNotification) error
}

// NoopSender is used when notifications are not configured.
type NoopSender struct{}

func (NoopSender) SendInquiryNotificationEmail(ctx context.Context, toEmail string, data InquiryNotification) error {
	return nil
}

// NewSender picks the delivery transport from configuration: Brevo when an
// API key is present, direct SMTP as fallback, and a no-op sender when
// notifications are disabled.
func NewSender(cfg config.NotifyConfig) (Sender, error) {
	if !cfg.IsNotifyEnabled() {
		return NoopSender{}, nil
	}

	if cfg.GetBrevoAPIKey() != "" {
		return newBrevoSender(cfg), nil
	}

	return NewSMTPSender(
		cfg.GetSMTPHost(),
		cfg.GetSMTPPort(),
		cfg.GetSMTPUsername(),
		cfg.GetSMTPPassword(),
		cfg.GetEmailFromAddress(),
		cfg.GetEmailFromName(),
	), nil
}
