// Package transport defines the wire types for the inquiry endpoint.
package transport

import (
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/closespark/vrm-properties-demo-site/platform/phone"
	"github.com/closespark/vrm-properties-demo-site/platform/sanitize"
	"github.com/closespark/vrm-properties-demo-site/platform/validator"
)

// InquiryRequest is the request-info form payload.
// MarketingOptIn is a *bool so that absent, false and non-boolean values are
// all distinguishable; only an explicit boolean true passes validation.
type InquiryRequest struct {
	FirstName         string `json:"firstname" validate:"required,max=100"`
	LastName          string `json:"lastname" validate:"required,max=100"`
	Email             string `json:"email" validate:"required,email_basic,max=255"`
	Phone             string `json:"phone" validate:"omitempty,max=30"`
	ExternalListingID string `json:"external_listing_id" validate:"required,max=64"`
	MarketingOptIn    *bool  `json:"marketing_opt_in" validate:"required,eq=true"`
	PageURI           string `json:"pageUri" validate:"omitempty,max=500"`
	PageName          string `json:"pageName" validate:"omitempty,max=255"`
}

// Normalize cleans the payload in place before validation: trims all strings,
// lower-cases the email, strips HTML from free-text fields and formats the
// phone number to E.164 when it parses.
func (r *InquiryRequest) Normalize(defaultPhoneRegion string) {
	r.FirstName = sanitize.Text(r.FirstName)
	r.LastName = sanitize.Text(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Phone = phone.NormalizeE164(r.Phone, defaultPhoneRegion)
	r.ExternalListingID = strings.TrimSpace(r.ExternalListingID)
	r.PageURI = strings.TrimSpace(r.PageURI)
	r.PageName = sanitize.Text(r.PageName)
}

// BindFieldErrors translates a JSON binding failure into field errors when
// the failure points at a specific field (e.g. a string where a boolean is
// expected). Returns nil for payloads that are not JSON at all.
func BindFieldErrors(err error) []validator.FieldError {
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) || typeErr.Field == "" {
		return nil
	}

	field := typeErr.Field
	if idx := strings.LastIndex(field, "."); idx >= 0 {
		field = field[idx+1:]
	}

	return []validator.FieldError{{Field: field, Message: typeMismatchMessage(typeErr.Type.Kind())}}
}

func typeMismatchMessage(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "must be a boolean"
	case reflect.String:
		return "must be a string"
	case reflect.Int, reflect.Int64, reflect.Float64:
		return "must be a number"
	default:
		return "has the wrong type"
	}
}

// InquiryDetails records which workflow steps completed. The four flags are
// the machine-checkable outcome of an inquiry.
type InquiryDetails struct {
	ContactSubmitted    bool `json:"contactSubmitted"`
	MarketingConsentSet bool `json:"marketingConsentSet"`
	ListingFound        bool `json:"listingFound"`
	AssociationCreated  bool `json:"associationCreated"`
}

// InquiryResult is the outcome of processing one inquiry.
type InquiryResult struct {
	Success bool
	Message string
	Details InquiryDetails
}

// InquiryResponse is the JSON body returned by the request-info endpoint.
type InquiryResponse struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Details *InquiryDetails        `json:"details,omitempty"`
	Errors  []validator.FieldError `json:"errors,omitempty"`
}
