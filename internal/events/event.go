// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"github.com/closespark/vrm-properties-demo-site/platform/events"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Inquiry Domain Events
// =============================================================================

// InquiryReceived is published when a valid inquiry passes validation,
// before any CRM work starts.
type InquiryReceived struct {
	BaseEvent
	Email             string `json:"email"`
	ExternalListingID string `json:"externalListingId"`
	PageName          string `json:"pageName,omitempty"`
}

func (e InquiryReceived) EventName() string { return "inquiry.received" }

// InquiryProcessed is published after the CRM workflow for an inquiry has
// finished, whatever the outcome of the individual steps.
type InquiryProcessed struct {
	BaseEvent
	FirstName           string `json:"firstName"`
	LastName            string `json:"lastName"`
	Email               string `json:"email"`
	Phone               string `json:"phone,omitempty"`
	ExternalListingID   string `json:"externalListingId"`
	PageName            string `json:"pageName,omitempty"`
	PageURI             string `json:"pageUri,omitempty"`
	ContactSubmitted    bool   `json:"contactSubmitted"`
	MarketingConsentSet bool   `json:"marketingConsentSet"`
	ListingFound        bool   `json:"listingFound"`
	AssociationCreated  bool   `json:"associationCreated"`
}

func (e InquiryProcessed) EventName() string { return "inquiry.processed" }
