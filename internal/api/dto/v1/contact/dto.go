package contact

// ContactResponse represents the response after submitting a contact form
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	ID      string `json:"id"`
}

// ContactInfoResponse describes the contact endpoint
type ContactInfoResponse struct {
	Name           string   `json:"name"`
	Version        string   `json:"version"`
	Description    string   `json:"description"`
	Method         string   `json:"method"`
	RequiredFields []string `json:"requiredFields"`
	RateLimit      string   `json:"rateLimit"`
}
