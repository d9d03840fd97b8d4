// Package hubspot provides the HTTP client for the HubSpot CRM and Forms APIs.
package hubspot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/closespark/vrm-properties-demo-site/platform/logger"
	"github.com/closespark/vrm-properties-demo-site/platform/metrics"
)

const serviceName = "hubspot"

// Config configures the HubSpot client. All values come from the application
// configuration; the client never reads the environment itself.
type Config struct {
	APIBaseURL          string
	FormsBaseURL        string
	AccessToken         string
	PortalID            string
	FormGUID            string
	ListingsObjectType  string
	ListingIDProperty   string
	AssociationCategory string
	AssociationTypeID   int
	Timeout             time.Duration
}

// Client is an HTTP client for the HubSpot CRM and Forms APIs.
// Every method performs exactly one HTTP call; there are no retries.
type Client struct {
	apiBaseURL   string
	formsBaseURL string
	accessToken  string
	cfg          Config
	httpClient   *http.Client
	log          *logger.Logger
}

// NewClient creates a new HubSpot client.
func NewClient(cfg Config, log *logger.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		apiBaseURL:   strings.TrimRight(cfg.APIBaseURL, "/"),
		formsBaseURL: strings.TrimRight(cfg.FormsBaseURL, "/"),
		accessToken:  cfg.AccessToken,
		cfg:          cfg,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
	}
}

// SubmitForm submits contact fields through the Forms API. HubSpot treats
// the submission as an upsert keyed on the email field. The response body
// carries no record ID, so success is reported as a bare nil error.
func (c *Client) SubmitForm(ctx context.Context, sub FormSubmission) error {
	endpoint := fmt.Sprintf("%s/submissions/v3/integration/secure/submit/%s/%s",
		c.formsBaseURL, url.PathEscape(c.cfg.PortalID), url.PathEscape(c.cfg.FormGUID))

	if err := c.do(ctx, "form_submit", http.MethodPost, endpoint, sub, nil); err != nil {
		return fmt.Errorf("submit form: %w", err)
	}
	return nil
}

// SearchContactByEmail looks up a contact by exact email match.
// Returns ("", nil) when no contact matches; errors indicate the lookup
// itself failed.
func (c *Client) SearchContactByEmail(ctx context.Context, email string) (string, error) {
	req := SearchRequest{
		FilterGroups: []FilterGroup{{
			Filters: []Filter{{
				PropertyName: PropertyEmail,
				Operator:     OperatorEQ,
				Value:        email,
			}},
		}},
		Properties: []string{PropertyEmail},
		Limit:      1,
	}

	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/search", c.apiBaseURL, ObjectTypeContacts)

	var result SearchResponse
	if err := c.do(ctx, "contact_search", http.MethodPost, endpoint, req, &result); err != nil {
		return "", fmt.Errorf("search contact: %w", err)
	}

	if result.Total == 0 || len(result.Results) == 0 {
		c.log.Debug("hubspot: no contact found", "email", email)
		return "", nil
	}
	return result.Results[0].ID, nil
}

// CreateContact creates a contact record directly through the CRM objects
// API and returns its ID. Used when a just-submitted contact is not yet
// visible to search.
func (c *Client) CreateContact(ctx context.Context, properties map[string]string) (string, error) {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s", c.apiBaseURL, ObjectTypeContacts)

	var created Object
	if err := c.do(ctx, "contact_create", http.MethodPost, endpoint, ObjectInput{Properties: properties}, &created); err != nil {
		return "", fmt.Errorf("create contact: %w", err)
	}
	if created.ID == "" {
		return "", fmt.Errorf("create contact: response carried no id")
	}
	return created.ID, nil
}

// UpdateContactProperties patches properties on an existing contact.
func (c *Client) UpdateContactProperties(ctx context.Context, contactID string, properties map[string]string) error {
	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/%s",
		c.apiBaseURL, ObjectTypeContacts, url.PathEscape(contactID))

	if err := c.do(ctx, "contact_update", http.MethodPatch, endpoint, ObjectInput{Properties: properties}, nil); err != nil {
		return fmt.Errorf("update contact %s: %w", contactID, err)
	}
	return nil
}

// SearchListingByExternalID resolves the CRM-internal record ID of a listing
// by its external ID property. Returns ("", nil) when no listing matches;
// errors indicate the lookup itself failed.
func (c *Client) SearchListingByExternalID(ctx context.Context, externalID string) (string, error) {
	req := SearchRequest{
		FilterGroups: []FilterGroup{{
			Filters: []Filter{{
				PropertyName: c.cfg.ListingIDProperty,
				Operator:     OperatorEQ,
				Value:        externalID,
			}},
		}},
		Properties: []string{c.cfg.ListingIDProperty},
		Limit:      1,
	}

	endpoint := fmt.Sprintf("%s/crm/v3/objects/%s/search",
		c.apiBaseURL, url.PathEscape(c.cfg.ListingsObjectType))

	var result SearchResponse
	if err := c.do(ctx, "listing_search", http.MethodPost, endpoint, req, &result); err != nil {
		return "", fmt.Errorf("search listing: %w", err)
	}

	if result.Total == 0 || len(result.Results) == 0 {
		c.log.Debug("hubspot: no listing found", "externalListingId", externalID)
		return "", nil
	}
	return result.Results[0].ID, nil
}

// AssociateContactWithListing links a contact to a listing with the
// configured association type tag. Both arguments must be CRM-internal
// record IDs; the external listing key must never reach this endpoint.
// The batch endpoint is idempotent on the remote side, so repeating a
// link is safe and performs no pre-check here.
func (c *Client) AssociateContactWithListing(ctx context.Context, contactID, listingID string) error {
	if contactID == "" || listingID == "" {
		return fmt.Errorf("associate: contact id and listing id are both required")
	}

	req := BatchAssociationRequest{
		Inputs: []AssociationInput{{
			From: AssociationRef{ID: contactID},
			To:   AssociationRef{ID: listingID},
			Types: []AssociationType{{
				AssociationCategory: c.cfg.AssociationCategory,
				AssociationTypeID:   c.cfg.AssociationTypeID,
			}},
		}},
	}

	endpoint := fmt.Sprintf("%s/crm/v4/associations/%s/%s/batch/create",
		c.apiBaseURL, ObjectTypeContacts, url.PathEscape(c.cfg.ListingsObjectType))

	if err := c.do(ctx, "association_create", http.MethodPost, endpoint, req, nil); err != nil {
		return fmt.Errorf("associate contact %s with listing %s: %w", contactID, listingID, err)
	}
	return nil
}

// do executes a single authenticated JSON request. Non-2xx responses become
// errors carrying the status and a snippet of the body; when out is non-nil
// the response body is decoded into it.
func (c *Client) do(ctx context.Context, operation, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(request)
	if err != nil {
		metrics.RecordIntegrationError(serviceName, operation)
		c.log.IntegrationError(serviceName, operation, err)
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("hubspot returned %d: %s", resp.StatusCode, string(snippet))
		metrics.RecordIntegrationError(serviceName, operation)
		c.log.IntegrationError(serviceName, operation, err)
		return err
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
