package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"honors_gwa/backend/internal/gateway/util"
	"honors_gwa/backend/internal/rpc"
	"honors_gwa/backend/internal/shared"
)

const honorsCallTimeout = 10 * time.Second

// HonorsAPI is the slice of the honors service the gateway calls
type HonorsAPI interface {
	ComputeCurrentPeriodGWA(ctx context.Context, studentID string) (*rpc.GWAResponse, error)
	ComputeApplicationPeriodGWA(ctx context.Context, studentID string) (*rpc.GWAResponse, error)
	ComputeOverallGWA(ctx context.Context, studentID string) (*rpc.GWAResponse, error)
	CheckEligibility(ctx context.Context, studentID string) (*rpc.EligibilityResponse, error)
	SubmitApplication(ctx context.Context, caller shared.RequestContext, honorType string) (*shared.Application, error)
	UpdateApplicationStatus(ctx context.Context, caller shared.RequestContext, applicationID, status string) (*shared.Application, error)
	BuildHonorRanking(ctx context.Context, req rpc.RankingRequest) (*rpc.RankingResponse, error)
}

// HonorsHandler serves the GWA, eligibility, application and ranking endpoints
type HonorsHandler struct {
	Honors HonorsAPI
}

// RESTSubmitApplicationRequest mirrors the JSON input for POST /honors/applications
type RESTSubmitApplicationRequest struct {
	HonorType string `json:"honor_type" validate:"required,oneof=deans_list cum_laude magna_cum_laude summa_cum_laude"`
}

// RESTUpdateStatusRequest mirrors the JSON input for PATCH /honors/applications/{id}/status
type RESTUpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=under_review approved final_approved rejected"`
}

// RESTRankingQuery mirrors the query string of GET /honors/rankings
type RESTRankingQuery struct {
	Period     string `json:"period" validate:"required"`
	HonorType  string `json:"honor" validate:"required,oneof=deans_list cum_laude magna_cum_laude summa_cum_laude"`
	Department string `json:"department" validate:"required"`
}

// GetRequestContext returns the caller identity stored by the auth middleware
func GetRequestContext(r *http.Request) (shared.RequestContext, bool) {
	return shared.RequestContextFrom(r.Context())
}

func requireStudent(w http.ResponseWriter, r *http.Request) (shared.RequestContext, bool) {
	rc, ok := GetRequestContext(r)
	if !ok || !rc.IsStudent() {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only students can access this resource")
		return rc, false
	}
	return rc, true
}

func requireReviewer(w http.ResponseWriter, r *http.Request) (shared.RequestContext, bool) {
	rc, ok := GetRequestContext(r)
	if !ok || !rc.IsReviewer() {
		util.WriteJSONError(w, http.StatusForbidden, "Access denied: Only faculty and administrators can access this resource")
		return rc, false
	}
	return rc, true
}

func gwaPayload(resp *rpc.GWAResponse) map[string]interface{} {
	out := map[string]interface{}{
		"success":  true,
		"has_data": resp.GWA != nil,
		"gwa":      nil,
	}
	if resp.GWA != nil {
		out["gwa"] = resp.GWA.Value.InexactFloat64()
		out["gwa_display"] = resp.GWA.Value.StringFixed(2)
		out["total_units"] = resp.GWA.TotalUnits.InexactFloat64()
		out["subjects_count"] = resp.GWA.SubjectsCount
		if resp.GWA.PeriodID != "" {
			out["period_id"] = resp.GWA.PeriodID
		}
		if resp.GWA.PeriodLabel != "" {
			out["period_label"] = resp.GWA.PeriodLabel
		}
	}
	if resp.Period != nil {
		out["period_id"] = resp.Period.ID
		out["period_label"] = resp.Period.Label()
	}
	return out
}

// GetCurrentGWA handles GET /honors/gwa/current
func (h *HonorsHandler) GetCurrentGWA(w http.ResponseWriter, r *http.Request) {
	h.serveGWA(w, r, h.Honors.ComputeCurrentPeriodGWA)
}

// GetApplicationGWA handles GET /honors/gwa/application
func (h *HonorsHandler) GetApplicationGWA(w http.ResponseWriter, r *http.Request) {
	h.serveGWA(w, r, h.Honors.ComputeApplicationPeriodGWA)
}

// GetOverallGWA handles GET /honors/gwa/overall
func (h *HonorsHandler) GetOverallGWA(w http.ResponseWriter, r *http.Request) {
	h.serveGWA(w, r, h.Honors.ComputeOverallGWA)
}

func (h *HonorsHandler) serveGWA(w http.ResponseWriter, r *http.Request, call func(context.Context, string) (*rpc.GWAResponse, error)) {
	rc, ok := requireStudent(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), honorsCallTimeout)
	defer cancel()

	resp, err := call(ctx, rc.UserID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}
	util.WriteJSON(w, http.StatusOK, gwaPayload(resp))
}

// CheckEligibility handles GET /honors/eligibility
// The response body keeps the field names the student dashboard reads.
func (h *HonorsHandler) CheckEligibility(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireStudent(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), honorsCallTimeout)
	defer cancel()

	resp, err := h.Honors.CheckEligibility(ctx, rc.UserID)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	report := resp.Report
	var gwa *float64
	if report.GWA != nil {
		v := report.GWA.Value.InexactFloat64()
		gwa = &v
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":                true,
		"has_grades":             report.HasGrades,
		"gwa":                    gwa,
		"total_semesters":        report.TotalSemesters,
		"year_level":             report.YearLevel,
		"eligible_for_deans":     report.Result.DeansList,
		"eligible_for_summa":     report.Result.SummaCumLaude,
		"eligible_for_magna":     report.Result.MagnaCumLaude,
		"eligible_for_cum_laude": report.Result.CumLaude,
		"can_apply_latin_honors": report.Result.CanApplyLatinHonors,
		"latin_honors_message":   report.Result.LatinHonorsMessage,
		"has_grade_above_25":     report.HasGradeAbove25,
	})
}

// SubmitApplication handles POST /honors/applications
func (h *HonorsHandler) SubmitApplication(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireStudent(w, r)
	if !ok {
		return
	}

	var req RESTSubmitApplicationRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), honorsCallTimeout)
	defer cancel()

	app, err := h.Honors.SubmitApplication(ctx, rc, req.HonorType)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success":     true,
		"message":     app.HonorType.Label() + " application submitted",
		"application": app,
		"status":      app.Status.Label(),
	})
}

// UpdateApplicationStatus handles PATCH /honors/applications/{id}/status
func (h *HonorsHandler) UpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireReviewer(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	var req RESTUpdateStatusRequest
	if err := util.DecodeJSON(r, &req); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), honorsCallTimeout)
	defer cancel()

	app, err := h.Honors.UpdateApplicationStatus(ctx, rc, id, req.Status)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":     true,
		"message":     "Application is now " + app.Status.Label(),
		"application": app,
	})
}

// GetRankings handles GET /honors/rankings
// Query Params: period (required), honor (required), department (admins only; defaults to the caller's)
func (h *HonorsHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	rc, ok := requireReviewer(w, r)
	if !ok {
		return
	}

	q := RESTRankingQuery{
		Period:     strings.TrimSpace(r.URL.Query().Get("period")),
		HonorType:  strings.TrimSpace(r.URL.Query().Get("honor")),
		Department: rc.Department,
	}
	if dept := strings.TrimSpace(r.URL.Query().Get("department")); dept != "" && rc.Role == shared.RoleAdmin {
		q.Department = dept
	}
	if err := util.ValidateStruct(&q); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), honorsCallTimeout)
	defer cancel()

	resp, err := h.Honors.BuildHonorRanking(ctx, rpc.RankingRequest{
		Department: q.Department,
		Period:     q.Period,
		HonorType:  q.HonorType,
	})
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success":    true,
		"period":     q.Period,
		"honor":      q.HonorType,
		"department": q.Department,
		"entries":    resp.Entries,
		"count":      len(resp.Entries),
	})
}
