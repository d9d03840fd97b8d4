package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/closespark/vrm-properties-demo-site/internal/events"
	"github.com/closespark/vrm-properties-demo-site/internal/hubspot"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/service"
	"github.com/closespark/vrm-properties-demo-site/internal/inquiry/transport"
	"github.com/closespark/vrm-properties-demo-site/platform/logger"
	"github.com/closespark/vrm-properties-demo-site/platform/validator"
)

type testInquiryConfig struct{}

func (testInquiryConfig) GetConsentLookupDelay() time.Duration { return 0 }

type testPhoneConfig struct{}

func (testPhoneConfig) GetDefaultPhoneRegion() string { return "US" }

type crmStub struct {
	submitErr error

	submitCalls     int
	lastSubmission  hubspot.FormSubmission
	lastSearchEmail string
}

func (s *crmStub) SubmitForm(_ context.Context, sub hubspot.FormSubmission) error {
	s.submitCalls++
	s.lastSubmission = sub
	return s.submitErr
}

func (s *crmStub) SearchContactByEmail(_ context.Context, email string) (string, error) {
	s.lastSearchEmail = email
	return "301", nil
}

func (s *crmStub) CreateContact(_ context.Context, _ map[string]string) (string, error) {
	return "302", nil
}

func (s *crmStub) UpdateContactProperties(_ context.Context, _ string, _ map[string]string) error {
	return nil
}

func (s *crmStub) SearchListingByExternalID(_ context.Context, _ string) (string, error) {
	return "9001", nil
}

func (s *crmStub) AssociateContactWithListing(_ context.Context, _, _ string) error {
	return nil
}

type apiResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Details *transport.InquiryDetails `json:"details"`
	Errors  []validator.FieldError    `json:"errors"`
}

func newTestEngine(crm *crmStub) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logger.New("development")
	bus := events.NewInMemoryBus(log)
	svc := service.New(crm, testInquiryConfig{}, bus, log)
	h := New(svc, validator.New(), testPhoneConfig{}, log)

	engine := gin.New()
	engine.POST("/api/request-info", h.HandleRequestInfo)
	return engine
}

func postInquiry(engine *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/request-info", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeResponse(t *testing.T, w *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return resp
}

func fieldMessage(resp apiResponse, field string) (string, bool) {
	for _, fe := range resp.Errors {
		if fe.Field == field {
			return fe.Message, true
		}
	}
	return "", false
}

const validBody = `{
	"firstname": "John",
	"lastname": "Doe",
	"email": "  JOHN.DOE@Example.com ",
	"phone": "(212) 555-0147",
	"external_listing_id": " 22317 ",
	"marketing_opt_in": true,
	"pageUri": "https://example.com/listings/22317",
	"pageName": "Listing 22317"
}`

func TestHandleRequestInfoSuccess(t *testing.T) {
	crm := &crmStub{}
	engine := newTestEngine(crm)

	w := postInquiry(engine, validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if !resp.Success {
		t.Fatalf("expected success, got %+v", resp)
	}
	if resp.Details == nil {
		t.Fatal("expected details in response")
	}
	if !resp.Details.ContactSubmitted || !resp.Details.MarketingConsentSet ||
		!resp.Details.ListingFound || !resp.Details.AssociationCreated {
		t.Fatalf("expected all steps completed, got %+v", resp.Details)
	}

	if crm.lastSearchEmail != "john.doe@example.com" {
		t.Errorf("expected normalized email in lookup, got %q", crm.lastSearchEmail)
	}
	for _, f := range crm.lastSubmission.Fields {
		if f.Name == hubspot.PropertyPhone && f.Value != "+12125550147" {
			t.Errorf("expected E.164 phone in submission, got %q", f.Value)
		}
	}
}

func TestHandleRequestInfoMissingConsent(t *testing.T) {
	crm := &crmStub{}
	engine := newTestEngine(crm)

	body := `{
		"firstname": "John",
		"lastname": "Doe",
		"email": "john.doe@example.com",
		"external_listing_id": "22317"
	}`
	w := postInquiry(engine, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Message != "Validation failed" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	msg, ok := fieldMessage(resp, "marketing_opt_in")
	if !ok {
		t.Fatalf("expected error for marketing_opt_in, got %+v", resp.Errors)
	}
	if msg != "is required" {
		t.Errorf("expected required message, got %q", msg)
	}
	if crm.submitCalls != 0 {
		t.Errorf("expected no CRM calls for rejected payload, got %d", crm.submitCalls)
	}
}

func TestHandleRequestInfoConsentFalse(t *testing.T) {
	crm := &crmStub{}
	engine := newTestEngine(crm)

	body := `{
		"firstname": "John",
		"lastname": "Doe",
		"email": "john.doe@example.com",
		"external_listing_id": "22317",
		"marketing_opt_in": false
	}`
	w := postInquiry(engine, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	msg, ok := fieldMessage(decodeResponse(t, w), "marketing_opt_in")
	if !ok {
		t.Fatal("expected error for marketing_opt_in")
	}
	if msg != "must be true" {
		t.Errorf("expected eq message, got %q", msg)
	}
	if crm.submitCalls != 0 {
		t.Errorf("expected no CRM calls for rejected payload, got %d", crm.submitCalls)
	}
}

func TestHandleRequestInfoConsentAsString(t *testing.T) {
	crm := &crmStub{}
	engine := newTestEngine(crm)

	body := `{
		"firstname": "John",
		"lastname": "Doe",
		"email": "john.doe@example.com",
		"external_listing_id": "22317",
		"marketing_opt_in": "true"
	}`
	w := postInquiry(engine, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	msg, ok := fieldMessage(decodeResponse(t, w), "marketing_opt_in")
	if !ok {
		t.Fatal("expected error for marketing_opt_in")
	}
	if msg != "must be a boolean" {
		t.Errorf("expected type message, got %q", msg)
	}
	if crm.submitCalls != 0 {
		t.Errorf("expected no CRM calls for rejected payload, got %d", crm.submitCalls)
	}
}

func TestHandleRequestInfoInvalidEmail(t *testing.T) {
	crm := &crmStub{}
	engine := newTestEngine(crm)

	body := `{
		"firstname": "John",
		"lastname": "Doe",
		"email": "john.doe@nodot",
		"external_listing_id": "22317",
		"marketing_opt_in": true
	}`
	w := postInquiry(engine, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	msg, ok := fieldMessage(decodeResponse(t, w), "email")
	if !ok {
		t.Fatal("expected error for email")
	}
	if msg != "must be a valid email address" {
		t.Errorf("unexpected message: %q", msg)
	}
	if crm.submitCalls != 0 {
		t.Errorf("expected no CRM calls for rejected payload, got %d", crm.submitCalls)
	}
}

func TestHandleRequestInfoWhitespaceOnlyName(t *testing.T) {
	engine := newTestEngine(&crmStub{})

	body := `{
		"firstname": "   ",
		"lastname": "Doe",
		"email": "john.doe@example.com",
		"external_listing_id": "22317",
		"marketing_opt_in": true
	}`
	w := postInquiry(engine, body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	msg, ok := fieldMessage(decodeResponse(t, w), "firstname")
	if !ok {
		t.Fatal("expected error for firstname")
	}
	if msg != "is required" {
		t.Errorf("expected required message, got %q", msg)
	}
}

func TestHandleRequestInfoMalformedJSON(t *testing.T) {
	engine := newTestEngine(&crmStub{})

	w := postInquiry(engine, `{"firstname": "John"`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Message != "Invalid request body" {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if len(resp.Errors) != 0 {
		t.Errorf("expected no field errors, got %+v", resp.Errors)
	}
}

func TestHandleRequestInfoSubmitFailure(t *testing.T) {
	crm := &crmStub{submitErr: context.DeadlineExceeded}
	engine := newTestEngine(crm)

	w := postInquiry(engine, validBody)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeResponse(t, w)
	if resp.Success {
		t.Fatal("expected failure response")
	}
	if resp.Message != msgProcessingFailed {
		t.Errorf("unexpected message: %q", resp.Message)
	}
	if resp.Details == nil {
		t.Fatal("expected zeroed details in failure response")
	}
	if resp.Details.ContactSubmitted || resp.Details.AssociationCreated {
		t.Errorf("expected no completed steps, got %+v", resp.Details)
	}
}
