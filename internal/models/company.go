package models

// Company is the profile of the business issuing the documents.
// It is configured, not stored.
type Company struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
	Website string `json:"website,omitempty"`
}
