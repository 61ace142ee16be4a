package entity

import "time"

// AnonymousUsername is stored when the submitter opts out of attribution.
const AnonymousUsername = "Anonymous"

// Complaint is a report filed against a business. It back-references the
// business by id only; the business row is unaware of its complaints.
type Complaint struct {
	ID          string    `json:"id"`
	BusinessID  string    `json:"businessId"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Username    *string   `json:"username,omitempty"`
	UserPhone   *string   `json:"userPhone,omitempty"`
	EvidenceURL *string   `json:"evidenceUrl,omitempty"`
	Source      string    `json:"source"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}
