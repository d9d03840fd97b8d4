// Package config provides application configuration loading.
// Components receive narrow config interfaces instead of the full struct,
// and never read environment variables themselves.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Module-Specific Config Interfaces (Principle of Least Privilege)
// =============================================================================

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetEnv() string
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
	GetRateLimitRPS() float64
	GetRateLimitBurst() int
}

// HubSpotConfig provides settings for the HubSpot CRM integration.
type HubSpotConfig interface {
	GetHubSpotAccessToken() string
	GetHubSpotAPIBaseURL() string
	GetHubSpotFormsBaseURL() string
	GetHubSpotPortalID() string
	GetHubSpotFormGUID() string
	GetHubSpotListingsObjectType() string
	GetHubSpotListingIDProperty() string
	GetHubSpotAssociationCategory() string
	GetHubSpotAssociationTypeID() int
	GetHubSpotTimeout() time.Duration
}

// InquiryConfig provides settings for the inquiry workflow.
type InquiryConfig interface {
	GetConsentLookupDelay() time.Duration
}

// PhoneConfig provides settings for phone number normalization.
type PhoneConfig interface {
	GetDefaultPhoneRegion() string
}

// NotifyConfig provides settings for owner notification emails.
type NotifyConfig interface {
	GetNotifyEmail() string
	GetBrevoAPIKey() string
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	IsNotifyEnabled() bool
}

// =============================================================================
// Main Config Struct
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                        string
	HTTPAddr                   string
	CORSAllowAll               bool
	CORSOrigins                []string
	CORSAllowCreds             bool
	RateLimitRPS               float64
	RateLimitBurst             int
	HubSpotAccessToken         string
	HubSpotAPIBaseURL          string
	HubSpotFormsBaseURL        string
	HubSpotPortalID            string
	HubSpotFormGUID            string
	HubSpotListingsObjectType  string
	HubSpotListingIDProperty   string
	HubSpotAssociationCategory string
	HubSpotAssociationTypeID   int
	HubSpotTimeout             time.Duration
	ConsentLookupDelay         time.Duration
	DefaultPhoneRegion         string
	NotifyEmail                string
	BrevoAPIKey                string
	SMTPHost                   string
	SMTPPort                   int
	SMTPUsername               string
	SMTPPassword               string
	EmailFromName              string
	EmailFromAddress           string
}

// =============================================================================
// Interface Implementations
// =============================================================================

// HTTPConfig implementation
func (c *Config) GetEnv() string           { return c.Env }
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }
func (c *Config) GetRateLimitRPS() float64 { return c.RateLimitRPS }
func (c *Config) GetRateLimitBurst() int   { return c.RateLimitBurst }

// HubSpotConfig implementation
func (c *Config) GetHubSpotAccessToken() string  { return c.HubSpotAccessToken }
func (c *Config) GetHubSpotAPIBaseURL() string   { return c.HubSpotAPIBaseURL }
func (c *Config) GetHubSpotFormsBaseURL() string { return c.HubSpotFormsBaseURL }
func (c *Config) GetHubSpotPortalID() string     { return c.HubSpotPortalID }
func (c *Config) GetHubSpotFormGUID() string     { return c.HubSpotFormGUID }
func (c *Config) GetHubSpotListingsObjectType() string {
	return c.HubSpotListingsObjectType
}
func (c *Config) GetHubSpotListingIDProperty() string {
	return c.HubSpotListingIDProperty
}
func (c *Config) GetHubSpotAssociationCategory() string {
	return c.HubSpotAssociationCategory
}
func (c *Config) GetHubSpotAssociationTypeID() int { return c.HubSpotAssociationTypeID }
func (c *Config) GetHubSpotTimeout() time.Duration { return c.HubSpotTimeout }

// InquiryConfig implementation
func (c *Config) GetConsentLookupDelay() time.Duration { return c.ConsentLookupDelay }

// PhoneConfig implementation
func (c *Config) GetDefaultPhoneRegion() string { return c.DefaultPhoneRegion }

// NotifyConfig implementation
func (c *Config) GetNotifyEmail() string      { return c.NotifyEmail }
func (c *Config) GetBrevoAPIKey() string      { return c.BrevoAPIKey }
func (c *Config) GetSMTPHost() string         { return c.SMTPHost }
func (c *Config) GetSMTPPort() int            { return c.SMTPPort }
func (c *Config) GetSMTPUsername() string     { return c.SMTPUsername }
func (c *Config) GetSMTPPassword() string     { return c.SMTPPassword }
func (c *Config) GetEmailFromName() string    { return c.EmailFromName }
func (c *Config) GetEmailFromAddress() string { return c.EmailFromAddress }
func (c *Config) IsNotifyEnabled() bool {
	return c.NotifyEmail != "" && c.EmailFromAddress != "" &&
		(c.BrevoAPIKey != "" || c.SMTPHost != "")
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(getEnv("CORS_ORIGINS", "http://localhost:3000"))
	corsAllowAll := strings.EqualFold(getEnv("CORS_ALLOW_ALL", "false"), "true")
	if containsWildcard(corsOrigins) {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                        getEnv("APP_ENV", "development"),
		HTTPAddr:                   getEnv("HTTP_ADDR", ":8080"),
		CORSAllowAll:               corsAllowAll,
		CORSOrigins:                corsOrigins,
		CORSAllowCreds:             strings.EqualFold(getEnv("CORS_ALLOW_CREDENTIALS", "false"), "true"),
		RateLimitRPS:               mustFloat64(getEnv("RATE_LIMIT_RPS", "20")),
		RateLimitBurst:             mustInt(getEnv("RATE_LIMIT_BURST", "40")),
		HubSpotAccessToken:         getEnv("HUBSPOT_ACCESS_TOKEN", ""),
		HubSpotAPIBaseURL:          getEnv("HUBSPOT_API_BASE_URL", "https://api.hubapi.com"),
		HubSpotFormsBaseURL:        getEnv("HUBSPOT_FORMS_BASE_URL", "https://api.hsforms.com"),
		HubSpotPortalID:            getEnv("HUBSPOT_PORTAL_ID", ""),
		HubSpotFormGUID:            getEnv("HUBSPOT_FORM_GUID", ""),
		HubSpotListingsObjectType:  getEnv("HUBSPOT_LISTINGS_OBJECT_TYPE", ""),
		HubSpotListingIDProperty:   getEnv("HUBSPOT_LISTING_ID_PROPERTY", "external_listing_id"),
		HubSpotAssociationCategory: getEnv("HUBSPOT_ASSOCIATION_CATEGORY", "USER_DEFINED"),
		HubSpotAssociationTypeID:   mustInt(getEnv("HUBSPOT_ASSOCIATION_TYPE_ID", "0")),
		HubSpotTimeout:             mustDuration(getEnv("HUBSPOT_TIMEOUT", "10s")),
		ConsentLookupDelay:         mustDuration(getEnv("HUBSPOT_CONSENT_LOOKUP_DELAY", "1s")),
		DefaultPhoneRegion:         getEnv("PHONE_DEFAULT_REGION", "US"),
		NotifyEmail:                getEnv("NOTIFY_EMAIL", ""),
		BrevoAPIKey:                getEnv("BREVO_API_KEY", ""),
		SMTPHost:                   getEnv("SMTP_HOST", ""),
		SMTPPort:                   mustInt(getEnv("SMTP_PORT", "587")),
		SMTPUsername:               getEnv("SMTP_USERNAME", ""),
		SMTPPassword:               getEnv("SMTP_PASSWORD", ""),
		EmailFromName:              getEnv("EMAIL_FROM_NAME", "Property Inquiries"),
		EmailFromAddress:           getEnv("EMAIL_FROM_ADDRESS", ""),
	}

	if cfg.HubSpotAccessToken == "" {
		return nil, fmt.Errorf("HUBSPOT_ACCESS_TOKEN is required")
	}
	if cfg.HubSpotPortalID == "" || cfg.HubSpotFormGUID == "" {
		return nil, fmt.Errorf("HUBSPOT_PORTAL_ID and HUBSPOT_FORM_GUID are required")
	}
	if cfg.HubSpotListingsObjectType == "" {
		return nil, fmt.Errorf("HUBSPOT_LISTINGS_OBJECT_TYPE is required")
	}
	if cfg.HubSpotAssociationTypeID <= 0 {
		return nil, fmt.Errorf("HUBSPOT_ASSOCIATION_TYPE_ID must be a positive integer")
	}
	if cfg.ConsentLookupDelay < 0 {
		return nil, fmt.Errorf("HUBSPOT_CONSENT_LOOKUP_DELAY must not be negative")
	}
	if cfg.NotifyEmail != "" && cfg.BrevoAPIKey == "" && cfg.SMTPHost == "" {
		return nil, fmt.Errorf("BREVO_API_KEY or SMTP_HOST is required when NOTIFY_EMAIL is set")
	}
	if cfg.NotifyEmail != "" && cfg.EmailFromAddress == "" {
		return nil, fmt.Errorf("EMAIL_FROM_ADDRESS is required when NOTIFY_EMAIL is set")
	}
	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func mustDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

func mustInt(value string) int {
	result, err := strconv.Atoi(value)
	if err != nil {
		return 0
	}
	return result
}

func mustFloat64(value string) float64 {
	result, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return result
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

func containsWildcard(values []string) bool {
	for _, value := range values {
		if value == "*" {
			return true
		}
	}
	return false
}
