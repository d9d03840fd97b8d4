package hubspot

// Property names and values used across the integration.
const (
	PropertyEmail      = "email"
	PropertyFirstName  = "firstname"
	PropertyLastName   = "lastname"
	PropertyPhone      = "phone"
	PropertyLegalBasis = "hs_legal_basis"

	// LegalBasisConsent is the value HubSpot expects on hs_legal_basis for
	// explicitly granted marketing consent.
	LegalBasisConsent = "Freely given consent from contact"

	// OperatorEQ is the exact-match search operator.
	OperatorEQ = "EQ"

	// ObjectTypeContacts is the CRM object type for contacts.
	ObjectTypeContacts = "contacts"
)

// FormField is a single name/value pair in a form submission.
type FormField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// FormContext carries page metadata alongside a form submission.
type FormContext struct {
	PageURI  string `json:"pageUri,omitempty"`
	PageName string `json:"pageName,omitempty"`
}

// FormSubmission is the payload for the Forms API secure submit endpoint.
type FormSubmission struct {
	Fields  []FormField  `json:"fields"`
	Context *FormContext `json:"context,omitempty"`
}

// SearchRequest represents a CRM search API request.
type SearchRequest struct {
	FilterGroups []FilterGroup `json:"filterGroups"`
	Properties   []string      `json:"properties,omitempty"`
	Limit        int           `json:"limit,omitempty"`
}

// FilterGroup is a group of filters combined with AND.
type FilterGroup struct {
	Filters []Filter `json:"filters"`
}

// Filter represents a single property filter.
type Filter struct {
	PropertyName string `json:"propertyName"`
	Operator     string `json:"operator"`
	Value        string `json:"value,omitempty"`
}

// SearchResponse is the response from a CRM search.
type SearchResponse struct {
	Total   int      `json:"total"`
	Results []Object `json:"results"`
}

// Object is a CRM record as returned by the objects and search APIs.
type Object struct {
	ID         string            `json:"id"`
	Properties map[string]string `json:"properties"`
}

// ObjectInput is the payload for creating or updating a CRM record.
type ObjectInput struct {
	Properties map[string]string `json:"properties"`
}

// AssociationRef identifies one side of an association.
type AssociationRef struct {
	ID string `json:"id"`
}

// AssociationType tags an association with its category and numeric type.
// Untagged associations are accepted by the API but invisible to portal
// views and workflows, so the tag is always sent.
type AssociationType struct {
	AssociationCategory string `json:"associationCategory"`
	AssociationTypeID   int    `json:"associationTypeId"`
}

// AssociationInput is one association in a batch create request.
type AssociationInput struct {
	From  AssociationRef    `json:"from"`
	To    AssociationRef    `json:"to"`
	Types []AssociationType `json:"types"`
}

// BatchAssociationRequest is the payload for the v4 batch associate endpoint.
type BatchAssociationRequest struct {
	Inputs []AssociationInput `json:"inputs"`
}
