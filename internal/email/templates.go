package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title      string
	Heading    string
	Subheading string
	CTALabel   string
	CTAURL     string
}

type inquiryNotificationEmailData struct {
	baseEmailData
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

func newInquiryNotificationEmailData(data InquiryNotification) inquiryNotificationEmailData {
	return inquiryNotificationEmailData{
		baseEmailData: baseEmailData{
			Title:      "New property inquiry",
			Heading:    "New property inquiry",
			Subheading: "A visitor requested information about one of your listings.",
		},
		FirstName:           data.FirstName,
		LastName:            data.LastName,
		Email:               data.Email,
		Phone:               data.Phone,
		ExternalListingID:   data.ExternalListingID,
		PageName:            data.PageName,
		PageURI:             data.PageURI,
		MarketingConsentSet: data.MarketingConsentSet,
		ListingFound:        data.ListingFound,
		AssociationCreated:  data.AssociationCreated,
	}
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
