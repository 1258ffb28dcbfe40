package models

import "time"

// Event is the envelope for everything published on the event bus.
type Event struct {
	ID        string                 `json:"id"`
	Type      string                 `json:"type"` // counts.updated
	Source    string                 `json:"source"`
	Data      map[string]interface{} `json:"data"`
	Timestamp time.Time              `json:"timestamp"`
	Metadata  map[string]string      `json:"metadata,omitempty"`
}

// CountsSnapshot is the non-identifying aggregate view published after each
// committed submission and materialized by the dashboard cache. It carries
// totals and the derived classification only - never answer data.
type CountsSnapshot struct {
	CompanyID        string    `json:"company_id"`
	TotalFounders    int       `json:"total_founders"`
	TotalResponses   int       `json:"total_responses"`
	TotalDeclinedAll int       `json:"total_declined_all"`
	DiverseStatus    string    `json:"diverse_status"`
	ResponseRate     string    `json:"response_rate_percent"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SubmitResponse acknowledges an accepted survey submission.
type SubmitResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
