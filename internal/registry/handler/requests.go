package handler

import (
	"greenreg/internal/registry"
	"greenreg/internal/registry/models"
)

// LogoPayload is an inline logo upload. Data is base64 in the JSON body.
type LogoPayload struct {
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}

// SubmitRequest is the HTTP request body for POST /registry/actors.
// Field-level validation happens in the service; the handler only shapes
// the payload.
type SubmitRequest struct {
	ActorType        string       `json:"actor_type"`
	OrganizationName string       `json:"organization_name"`
	FocusAreas       []string     `json:"focus_areas"`
	YearEstablished  *int         `json:"year_established"`
	LGAOperations    []string     `json:"lga_operations"`
	Description      string       `json:"description"`
	ContactName      string       `json:"contact_name"`
	ContactEmail     string       `json:"contact_email"`
	ContactPhone     string       `json:"contact_phone"`
	WebsiteURL       string       `json:"website_url"`
	Password         string       `json:"password"`
	ConfirmPassword  string       `json:"confirm_password"`
	Consent          bool         `json:"consent"`
	Logo             *LogoPayload `json:"logo"`
}

// ToParams maps the request body to service parameters.
func (r *SubmitRequest) ToParams() registry.SubmitParams {
	params := registry.SubmitParams{
		ActorType:        models.ActorType(r.ActorType),
		OrganizationName: r.OrganizationName,
		FocusAreas:       r.FocusAreas,
		YearEstablished:  r.YearEstablished,
		LGAOperations:    r.LGAOperations,
		Description:      r.Description,
		ContactName:      r.ContactName,
		ContactEmail:     r.ContactEmail,
		ContactPhone:     r.ContactPhone,
		WebsiteURL:       r.WebsiteURL,
		Password:         r.Password,
		ConfirmPassword:  r.ConfirmPassword,
		Consent:          r.Consent,
	}
	if r.Logo != nil {
		params.Logo = &registry.Logo{
			ContentType: r.Logo.ContentType,
			Data:        r.Logo.Data,
		}
	}
	return params
}

// RejectRequest is the HTTP request body for POST /registry/actors/{id}/reject.
type RejectRequest struct {
	Reason string `json:"reason"`
}
