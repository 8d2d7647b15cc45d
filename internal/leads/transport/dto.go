package transport

// LeadIn is one lead supplied to the manual trigger endpoints.
type LeadIn struct {
	LeadID         string `json:"lead_id" validate:"required"`
	UserID         string `json:"user_id,omitempty"`
	Tag            string `json:"tag,omitempty"`
	Name           string `json:"name,omitempty"`
	Title          string `json:"title,omitempty"`
	Location       string `json:"location,omitempty"`
	CompanyName    string `json:"company_name,omitempty"`
	Experience     string `json:"experience,omitempty"`
	Skills         string `json:"skills,omitempty"`
	Bio            string `json:"bio,omitempty"`
	ProfileURL     string `json:"profile_url,omitempty"`
	LinkedInURL    string `json:"linkedin_url,omitempty"`
	CompanyPageURL string `json:"company_page_url,omitempty"`
}

// ProcessRequest triggers processing of a batch of leads with an explicit
// credential and prompt context, bypassing the eligibility query.
type ProcessRequest struct {
	APIKey                string   `json:"api_key" validate:"required"`
	WildnetData           string   `json:"wildnet_data" validate:"required"`
	ScoringCriteriaAndICP string   `json:"scoring_criteria_and_icp" validate:"required"`
	MessagePrompt         string   `json:"message_prompt" validate:"required"`
	Leads                 []LeadIn `json:"leads" validate:"required,min=1,dive"`
}

// ProcessSingleRequest is the single-lead variant of ProcessRequest.
type ProcessSingleRequest struct {
	APIKey                string `json:"api_key" validate:"required"`
	WildnetData           string `json:"wildnet_data" validate:"required"`
	ScoringCriteriaAndICP string `json:"scoring_criteria_and_icp" validate:"required"`
	MessagePrompt         string `json:"message_prompt" validate:"required"`
	Lead                  LeadIn `json:"lead" validate:"required"`
}

// LeadResult echoes the lead identity plus its terminal outcome.
type LeadResult struct {
	LeadID        string  `json:"lead_id"`
	Tag           string  `json:"tag,omitempty"`
	Name          string  `json:"name,omitempty"`
	LinkedInURL   string  `json:"linkedin_url,omitempty"`
	Location      string  `json:"location,omitempty"`
	Status        string  `json:"status"`
	Score         *int    `json:"score,omitempty"`
	ShouldContact *bool   `json:"should_contact,omitempty"`
	Subject       *string `json:"subject,omitempty"`
	Message       *string `json:"message,omitempty"`
	Reason        *string `json:"reason,omitempty"`
}

// ProcessResponse is the batch trigger response.
type ProcessResponse struct {
	Results     []LeadResult `json:"results"`
	Errors      []LeadError  `json:"errors"`
	DurationSec float64      `json:"duration_sec"`
}

// ProcessSingleResponse is the single-lead trigger response.
type ProcessSingleResponse struct {
	Result      LeadResult  `json:"result"`
	Errors      []LeadError `json:"errors"`
	DurationSec float64     `json:"duration_sec"`
}

// LeadError describes a per-lead failure in a manual batch.
type LeadError struct {
	LeadID string `json:"lead_id"`
	Reason string `json:"reason"`
}
