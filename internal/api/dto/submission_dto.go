package dto

// ContactRequest payload for POST /api/contact.
type ContactRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	Service        string `json:"service"`
	Message        string `json:"message"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// ContactResponse response for POST /api/contact.
type ContactResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FeedbackRequest payload for POST /api/feedback. Metadata carries the
// standard app/environment keys plus arbitrary caller-supplied extras.
type FeedbackRequest struct {
	Type        string            `json:"type"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Email       string            `json:"email"`
	AcceptTerms bool              `json:"acceptTerms"`
	Metadata    map[string]string `json:"metadata"`
}

// FeedbackResponse response for POST /api/feedback.
type FeedbackResponse struct {
	Success    bool   `json:"success"`
	TicketID   string `json:"ticketId"`
	WorkItemID int    `json:"workItemId"`
	Message    string `json:"message"`
}

// SupportRequest payload for POST /api/support.
type SupportRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Company        string `json:"company"`
	Phone          string `json:"phone"`
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	Subject        string `json:"subject"`
	Description    string `json:"description"`
	RecaptchaToken string `json:"recaptchaToken"`
	UserAgent      string `json:"userAgent"`
	Timestamp      string `json:"timestamp"`
}

// SupportResponse response for POST /api/support.
type SupportResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	WorkItemID int    `json:"workItemId"`
}
