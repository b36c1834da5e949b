package gwa

import (
	"fmt"

	"github.com/shopspring/decimal"

	"honors_gwa/backend/internal/shared"
)

// Inclusive GWA bounds of each honor band.
var (
	gwaFloor   = decimal.RequireFromString("1.00")
	summaUpper = decimal.RequireFromString("1.25")
	magnaLower = decimal.RequireFromString("1.26")
	magnaUpper = decimal.RequireFromString("1.45")
	cumLower   = decimal.RequireFromString("1.46")
	deansUpper = decimal.RequireFromString("1.75")
)

// EligibilityInput is everything honor eligibility depends on.
type EligibilityInput struct {
	GWA                   *shared.GWAResult
	HasGradeAbove25       bool // any processed grade > 2.5, system-wide
	HasOngoingGrade       bool // any processed grade == 0.00
	TotalRegularSemesters int
	YearLevel             int
}

// EligibilityResult is recomputed on every request and never stored.
type EligibilityResult struct {
	DeansList     bool `json:"deans_list"`
	SummaCumLaude bool `json:"summa_cum_laude"`
	MagnaCumLaude bool `json:"magna_cum_laude"`
	CumLaude      bool `json:"cum_laude"`

	// The submission form also requires a 4th year standing for Latin honors.
	CanApplyLatinHonors bool   `json:"can_apply_latin_honors"`
	LatinHonorsMessage  string `json:"latin_honors_message"`

	// Reasons holds a message for every honor the student is not eligible for.
	Reasons map[shared.HonorType]string `json:"reasons,omitempty"`
}

// Eligible reports eligibility for one honor type.
func (r EligibilityResult) Eligible(h shared.HonorType) bool {
	switch h {
	case shared.HonorDeansList:
		return r.DeansList
	case shared.HonorSummaCumLaude:
		return r.SummaCumLaude
	case shared.HonorMagnaCumLaude:
		return r.MagnaCumLaude
	case shared.HonorCumLaude:
		return r.CumLaude
	}
	return false
}

// LatinHonor returns the Latin honor tier the student qualifies for, if any.
func (r EligibilityResult) LatinHonor() (shared.HonorType, bool) {
	switch {
	case r.SummaCumLaude:
		return shared.HonorSummaCumLaude, true
	case r.MagnaCumLaude:
		return shared.HonorMagnaCumLaude, true
	case r.CumLaude:
		return shared.HonorCumLaude, true
	}
	return "", false
}

func between(v, lo, hi decimal.Decimal) bool {
	return v.GreaterThanOrEqual(lo) && v.LessThanOrEqual(hi)
}

// FullEligibility applies the complete honor rules: Dean's List on the GWA band
// and the 2.5 grade ceiling, Latin honors additionally gated on eight regular
// semesters and no ongoing grades.
func FullEligibility(in EligibilityInput) EligibilityResult {
	res := EligibilityResult{Reasons: make(map[shared.HonorType]string)}

	if in.GWA == nil {
		for _, h := range shared.HonorTypes {
			res.Reasons[h] = "No processed grades are available yet."
		}
		res.LatinHonorsMessage = "No processed grades are available yet."
		return res
	}

	v := in.GWA.Value

	switch {
	case in.HasGradeAbove25:
		res.Reasons[shared.HonorDeansList] = "You have a grade above 2.50."
	case v.LessThan(gwaFloor):
		res.Reasons[shared.HonorDeansList] = fmt.Sprintf("GWA %s is outside the grading scale.", v.StringFixed(2))
	case v.GreaterThan(deansUpper):
		res.Reasons[shared.HonorDeansList] = fmt.Sprintf("GWA %s is above the required %s.", v.StringFixed(2), deansUpper.StringFixed(2))
	default:
		res.DeansList = true
	}

	gate := latinGate(in)
	if gate == "" {
		res.SummaCumLaude = between(v, gwaFloor, summaUpper)
		res.MagnaCumLaude = between(v, magnaLower, magnaUpper)
		res.CumLaude = between(v, cumLower, deansUpper)
	}
	for _, h := range []shared.HonorType{shared.HonorSummaCumLaude, shared.HonorMagnaCumLaude, shared.HonorCumLaude} {
		if res.Eligible(h) {
			continue
		}
		if gate != "" {
			res.Reasons[h] = gate
		} else {
			res.Reasons[h] = fmt.Sprintf("GWA %s is outside the %s range.", v.StringFixed(2), h.Label())
		}
	}

	latin, ok := res.LatinHonor()
	switch {
	case in.YearLevel != shared.GraduatingYearLevel:
		res.LatinHonorsMessage = "Latin honors applications are open to 4th year students only."
	case gate != "":
		res.LatinHonorsMessage = gate
	case !ok:
		res.LatinHonorsMessage = fmt.Sprintf("GWA %s does not meet any Latin honors range.", v.StringFixed(2))
	default:
		res.CanApplyLatinHonors = true
		res.LatinHonorsMessage = fmt.Sprintf("Eligible for %s.", latin.Label())
	}

	return res
}

// latinGate returns why Latin honors are not evaluated, or "" when they are.
func latinGate(in EligibilityInput) string {
	switch {
	case in.TotalRegularSemesters < shared.LatinHonorsMinSemesters:
		return fmt.Sprintf("Latin honors require %d regular semesters; you have %d.",
			shared.LatinHonorsMinSemesters, in.TotalRegularSemesters)
	case in.HasOngoingGrade:
		return "You have ongoing subjects without a final grade."
	case in.HasGradeAbove25:
		return "You have a grade above 2.50."
	}
	return ""
}

// SimplifiedDashboardEligibility is the dashboard's shortcut check: a 4th year
// student with GWA <= 1.25. It skips the semester count and ongoing-grade
// checks of FullEligibility, so the two can disagree for the same student.
func SimplifiedDashboardEligibility(yearLevel int, gwa *shared.GWAResult) bool {
	if gwa == nil {
		return false
	}
	return yearLevel == shared.GraduatingYearLevel && gwa.Value.LessThanOrEqual(summaUpper)
}

// HasGradeAbove25 reports whether any record has a grade strictly above 2.5.
func HasGradeAbove25(records []shared.GradeRecord) bool {
	for _, r := range records {
		if r.Grade.GreaterThan(shared.GradeAboveThreshold) {
			return true
		}
	}
	return false
}

// HasOngoingGrade reports whether any record still has a 0.00 grade.
func HasOngoingGrade(records []shared.GradeRecord) bool {
	for _, r := range records {
		if r.IsOngoing() {
			return true
		}
	}
	return false
}
