package handler

import (
	"time"

	"greenreg/internal/registry/models"
)

// SubmissionResponse is the submission record exposed over HTTP. The
// applicant credential hash never leaves the service.
type SubmissionResponse struct {
	ID               string     `json:"id"`
	ActorType        string     `json:"actor_type"`
	OrganizationName string     `json:"organization_name"`
	FocusAreas       []string   `json:"focus_areas"`
	YearEstablished  *int       `json:"year_established,omitempty"`
	LGAOperations    []string   `json:"lga_operations"`
	Description      string     `json:"description"`
	ContactName      string     `json:"contact_name"`
	ContactEmail     string     `json:"contact_email"`
	ContactPhone     string     `json:"contact_phone"`
	WebsiteURL       string     `json:"website_url,omitempty"`
	LogoURL          *string    `json:"logo_url,omitempty"`
	Status           string     `json:"status"`
	CreatedAt        time.Time  `json:"created_at"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ApprovedBy       *string    `json:"approved_by,omitempty"`
	RejectionReason  *string    `json:"rejection_reason,omitempty"`
}

func FromRecord(record *models.SubmissionRecord) SubmissionResponse {
	resp := SubmissionResponse{
		ID:               record.ID.String(),
		ActorType:        record.ActorType.String(),
		OrganizationName: record.OrganizationName,
		FocusAreas:       record.FocusAreas,
		YearEstablished:  record.YearEstablished,
		LGAOperations:    record.LGAOperations,
		Description:      record.Description,
		ContactName:      record.ContactName,
		ContactEmail:     record.ContactEmail,
		ContactPhone:     record.ContactPhone,
		WebsiteURL:       record.WebsiteURL,
		LogoURL:          record.LogoURL,
		Status:           record.Status.String(),
		CreatedAt:        record.CreatedAt,
		ApprovedAt:       record.ApprovedAt,
		RejectionReason:  record.RejectionReason,
	}
	if record.ApprovedBy != nil {
		by := record.ApprovedBy.String()
		resp.ApprovedBy = &by
	}
	return resp
}

func FromRecords(records []*models.SubmissionRecord) []SubmissionResponse {
	out := make([]SubmissionResponse, 0, len(records))
	for _, record := range records {
		out = append(out, FromRecord(record))
	}
	return out
}
