// Package service orchestrates the inquiry workflow against the CRM.
//
// The workflow is strictly sequential: submit the contact form, wait for the
// CRM to index the submission, record marketing consent, resolve the listing
// and finally associate contact and listing. Only the form submission is
// fatal; every later step degrades to a partial result.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/closespark/vrm-properties-demo-site/internal/config"
	"github.com/closespark/vrm-properties-demo-site/internal/events"
	"github.com/closespark/vrm-properties-demo-site/internal/hubspot"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/transport"
	"github.com/closespark/vrm-properties-demo-site/platform/apperr"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
	"github.com/closespark/vrm-properties-demo-site/platform/metrics"
)

// CRM is the slice of the HubSpot client the inquiry workflow needs.
type CRM interface {
	SubmitForm(ctx context.Context, sub hubspot.FormSubmission) error
	SearchContactByEmail(ctx context.Context, email string) (string, error)
	CreateContact(ctx context.Context, properties map[string]string) (string, error)
	UpdateContactProperties(ctx context.Context, contactID string, properties map[string]string) error
	SearchListingByExternalID(ctx context.Context, externalID string) (string, error)
	AssociateContactWithListing(ctx context.Context, contactID, listingID string) error
}

type listingOutcome int

const (
	listingFound listingOutcome = iota
	listingNotFound
	listingLookupFailed
	listingInvalidInput
)

type Service struct {
	crm          CRM
	bus          events.Bus
	log          *logger.Logger
	consentDelay time.Duration
}

func New(crm CRM, cfg config.InquiryConfig, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		crm:          crm,
		bus:          bus,
		log:          log,
		consentDelay: cfg.GetConsentLookupDelay(),
	}
}

// Process runs the full inquiry workflow. It returns an error only when the
// initial form submission fails; degraded outcomes are reported through the
// result flags and message instead.
func (s *Service) Process(ctx context.Context, req transport.InquiryRequest) (transport.InquiryResult, error) {
	log := s.log.WithContext(ctx)

	s.bus.Publish(ctx, events.InquiryReceived{
		BaseEvent:         events.NewBaseEvent(),
		Email:             req.Email,
		ExternalListingID: req.ExternalListingID,
		PageName:          req.PageName,
	})

	if err := s.submitContact(ctx, req); err != nil {
		log.Error("contact form submission failed", "error", err, "email", req.Email)
		metrics.RecordInquiry("failed")
		return transport.InquiryResult{}, apperr.Wrap(apperr.KindInternal, "contact submission failed", err).WithOp("inquiry.Process")
	}

	result := transport.InquiryResult{Success: true}
	result.Details.ContactSubmitted = true
	log.Info("contact submitted", "email", req.Email, "external_listing_id", req.ExternalListingID)

	// Form submissions are not searchable immediately; give the CRM a moment
	// before looking the contact back up.
	s.waitConsentWindow(ctx)

	contactID := s.grantConsent(ctx, req, &result.Details)
	listingID, listing := s.resolveListing(ctx, req.ExternalListingID, &result.Details)

	if listing == listingFound {
		if contactID == "" {
			log.Warn("listing found but contact id unresolved, skipping association",
				"external_listing_id", req.ExternalListingID)
		} else {
			s.associate(ctx, contactID, listingID, &result.Details)
		}
	}

	result.Message = resultMessage(result.Details, listing)
	metrics.RecordInquiry(outcomeLabel(result.Details))

	s.bus.Publish(ctx, events.InquiryProcessed{
		BaseEvent:           events.NewBaseEvent(),
		FirstName:           req.FirstName,
		LastName:            req.LastName,
		Email:               req.Email,
		Phone:               req.Phone,
		ExternalListingID:   req.ExternalListingID,
		PageName:            req.PageName,
		PageURI:             req.PageURI,
		ContactSubmitted:    result.Details.ContactSubmitted,
		MarketingConsentSet: result.Details.MarketingConsentSet,
		ListingFound:        result.Details.ListingFound,
		AssociationCreated:  result.Details.AssociationCreated,
	})

	return result, nil
}

func (s *Service) submitContact(ctx context.Context, req transport.InquiryRequest) error {
	fields := []hubspot.FormField{
		{Name: hubspot.PropertyFirstName, Value: req.FirstName},
		{Name: hubspot.PropertyLastName, Value: req.LastName},
		{Name: hubspot.PropertyEmail, Value: req.Email},
	}
	if req.Phone != "" {
		fields = append(fields, hubspot.FormField{Name: hubspot.PropertyPhone, Value: req.Phone})
	}

	sub := hubspot.FormSubmission{Fields: fields}
	if req.PageURI != "" || req.PageName != "" {
		sub.Context = &hubspot.FormContext{PageURI: req.PageURI, PageName: req.PageName}
	}

	return s.crm.SubmitForm(ctx, sub)
}

// waitConsentWindow blocks for the configured delay, or until the request is
// cancelled.
func (s *Service) waitConsentWindow(ctx context.Context) {
	if s.consentDelay <= 0 {
		return
	}

	timer := time.NewTimer(s.consentDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// grantConsent looks the contact up by email, creates it directly when the
// form submission has not been indexed yet, and records the legal basis for
// marketing communication. Returns the contact id when one was resolved, even
// if the consent update itself failed.
func (s *Service) grantConsent(ctx context.Context, req transport.InquiryRequest, details *transport.InquiryDetails) string {
	log := s.log.WithContext(ctx)

	contactID, err := s.crm.SearchContactByEmail(ctx, req.Email)
	if err != nil {
		log.Error("contact lookup for consent failed", "error", err, "email", req.Email)
		return ""
	}

	if contactID == "" {
		contactID, err = s.crm.CreateContact(ctx, contactProperties(req))
		if err != nil {
			log.Error("contact not searchable yet and direct create failed", "error", err, "email", req.Email)
			return ""
		}
		log.Info("contact not indexed yet, created directly", "contact_id", contactID)
	}

	if err := s.crm.UpdateContactProperties(ctx, contactID, map[string]string{
		hubspot.PropertyLegalBasis: hubspot.LegalBasisConsent,
	}); err != nil {
		log.Error("recording marketing consent failed", "error", err, "contact_id", contactID)
		return contactID
	}

	details.MarketingConsentSet = true
	return contactID
}

func contactProperties(req transport.InquiryRequest) map[string]string {
	props := map[string]string{
		hubspot.PropertyEmail:     req.Email,
		hubspot.PropertyFirstName: req.FirstName,
		hubspot.PropertyLastName:  req.LastName,
	}
	if req.Phone != "" {
		props[hubspot.PropertyPhone] = req.Phone
	}
	return props
}

// resolveListing finds the CRM listing matching the external id. A lookup
// that succeeds but matches nothing is distinct from a lookup that fails.
func (s *Service) resolveListing(ctx context.Context, externalID string, details *transport.InquiryDetails) (string, listingOutcome) {
	log := s.log.WithContext(ctx)

	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		log.Warn("blank external listing id, skipping lookup")
		return "", listingInvalidInput
	}

	listingID, err := s.crm.SearchListingByExternalID(ctx, externalID)
	if err != nil {
		log.Error("listing lookup failed", "error", err, "external_listing_id", externalID)
		return "", listingLookupFailed
	}
	if listingID == "" {
		log.Info("no listing matches external id", "external_listing_id", externalID)
		return "", listingNotFound
	}

	details.ListingFound = true
	return listingID, listingFound
}

func (s *Service) associate(ctx context.Context, contactID, listingID string, details *transport.InquiryDetails) {
	log := s.log.WithContext(ctx)

	if err := s.crm.AssociateContactWithListing(ctx, contactID, listingID); err != nil {
		log.Error("associating contact with listing failed", "error", err,
			"contact_id", contactID, "listing_id", listingID)
		return
	}

	details.AssociationCreated = true
	log.Info("contact associated with listing", "contact_id", contactID, "listing_id", listingID)
}

// resultMessage renders the caller-facing summary. Messages are fixed strings
// so clients can rely on them.
func resultMessage(d transport.InquiryDetails, listing listingOutcome) string {
	switch {
	case d.AssociationCreated && d.MarketingConsentSet:
		return "Inquiry received and linked to the requested listing."
	case d.AssociationCreated:
		return "Inquiry received and linked to the requested listing, but marketing consent could not be recorded."
	case listing == listingNotFound:
		return "Inquiry received, but the requested listing was not found so no link was created."
	case listing == listingLookupFailed:
		return "Inquiry received, but the listing lookup failed so no link was created."
	case d.ListingFound:
		return "Inquiry received and the listing was found, but it could not be linked."
	default:
		return "Inquiry received."
	}
}

func outcomeLabel(d transport.InquiryDetails) string {
	if d.ContactSubmitted && d.MarketingConsentSet && d.ListingFound && d.AssociationCreated {
		return "completed"
	}
	return "partial"
}
