package rpc

import (
	"honors_gwa/backend/internal/gwa"
	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/shared"
)

// StudentRequest names the student a computation runs for
type StudentRequest struct {
	StudentID string `json:"student_id"`
}

// GWAResponse carries a GWA result; a nil GWA means no data
type GWAResponse struct {
	GWA    *shared.GWAResult      `json:"gwa,omitempty"`
	Period *shared.AcademicPeriod `json:"period,omitempty"`
}

// EligibilityResponse carries a full eligibility report
type EligibilityResponse struct {
	Report *honors.EligibilityReport `json:"report"`
}

// SubmitApplicationRequest submits an application on behalf of the caller
type SubmitApplicationRequest struct {
	Caller    shared.RequestContext `json:"caller"`
	HonorType string                `json:"honor_type"`
}

// UpdateApplicationStatusRequest moves an application along the review workflow
type UpdateApplicationStatusRequest struct {
	Caller        shared.RequestContext `json:"caller"`
	ApplicationID string                `json:"application_id"`
	Status        string                `json:"status"`
}

// ApplicationResponse carries a stored application
type ApplicationResponse struct {
	Application *shared.Application `json:"application"`
}

// RankingRequest selects the cohort and honor of a ranking export
type RankingRequest struct {
	Department string `json:"department"`
	Period     string `json:"period"`
	HonorType  string `json:"honor_type"`
}

// RankingResponse carries the ranked entries in order
type RankingResponse struct {
	Entries []gwa.RankingEntry `json:"entries"`
}
