// ============================================================================
// backend/internal/shared/models.go
// Shared value types for grades, academic periods and honor applications
// ============================================================================

package shared

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ============================================================================
// User Models
// ============================================================================

// User represents an account stored in the users collection
type User struct {
	ID           string    `bson:"_id" json:"id"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"password_hash" json:"-"` // Never expose in JSON
	Role         string    `bson:"role" json:"role"`       // student, faculty, admin
	FirstName    string    `bson:"first_name" json:"first_name"`
	LastName     string    `bson:"last_name" json:"last_name"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at"`

	// Student-specific fields
	StudentNumber string `bson:"student_number,omitempty" json:"student_number,omitempty"`
	Section       string `bson:"section,omitempty" json:"section,omitempty"`
	YearLevel     int    `bson:"year_level,omitempty" json:"year_level,omitempty"`

	Department string `bson:"department,omitempty" json:"department,omitempty"`
	IsActive   bool   `bson:"is_active" json:"is_active"`
}

// Name returns "First Last"
func (u *User) Name() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Student is the cohort projection of a student account used by ranking exports
type Student struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Section    string `json:"section"`
	YearLevel  int    `json:"year_level"`
	Department string `json:"department"`
}

// ============================================================================
// Grade Models
// ============================================================================

// Grade domain: 0.00 means ongoing, otherwise 1.00 (best) to 5.00.
var (
	GradeOngoing        = decimal.Zero
	GradeMax            = decimal.NewFromInt(5)
	GradeAboveThreshold = decimal.RequireFromString("2.5")

	nstpMarkers = []string{"NSTP", "NATIONAL SERVICE TRAINING"}
)

// Submission statuses of the external grade store; only processed rows reach the core
const (
	SubmissionProcessed = "processed"
	SubmissionPending   = "pending"
	SubmissionRejected  = "rejected"
)

// GradeRecord is one extracted row of an uploaded grade report
type GradeRecord struct {
	ID               string          `json:"id"`
	StudentID        string          `json:"student_id"`
	SubjectCode      string          `json:"subject_code"`
	SubjectName      string          `json:"subject_name"`
	Units            decimal.Decimal `json:"units"`
	Grade            decimal.Decimal `json:"grade"`
	SemesterTaken    string          `json:"semester_taken"` // e.g. "1st Semester SY 2024-2025"
	SubmissionID     string          `json:"submission_id"`
	PeriodID         string          `json:"academic_period_id"` // period of the owning submission
	SubmissionStatus string          `json:"submission_status"`
}

// IsOngoing reports whether the record has no final grade yet
func (g GradeRecord) IsOngoing() bool {
	return g.Grade.Equal(GradeOngoing)
}

// IsNSTP reports whether the subject is a National Service Training Program subject
func (g GradeRecord) IsNSTP() bool {
	name := strings.ToUpper(g.SubjectName)
	for _, marker := range nstpMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// GWAResult is an aggregated General Weighted Average
type GWAResult struct {
	Value         decimal.Decimal `json:"value"` // truncated to 2 decimal places
	Exact         decimal.Decimal `json:"exact"` // untruncated quotient
	TotalUnits    decimal.Decimal `json:"total_units"`
	SubjectsCount int             `json:"subjects_count"`
	PeriodID      string          `json:"period_id,omitempty"`
	PeriodLabel   string          `json:"period_label,omitempty"`
}

// WithPeriod stamps the contributing period identity on a copy of the result
func (r GWAResult) WithPeriod(p *AcademicPeriod) GWAResult {
	if p != nil {
		r.PeriodID = p.ID
		r.PeriodLabel = p.Label()
	}
	return r
}

// GWASnapshot mirrors the latest GWA computation for a (student, period) pair
type GWASnapshot struct {
	ID            string          `json:"id"`
	StudentID     string          `json:"student_id"`
	PeriodID      string          `json:"period_id"`
	GWA           decimal.Decimal `json:"gwa"`
	TotalUnits    decimal.Decimal `json:"total_units"`
	SubjectsCount int             `json:"subjects_count"`
	SourcePeriod  string          `json:"source_period_id,omitempty"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// ============================================================================
// Academic Period Models
// ============================================================================

// Semester is the term within a school year
type Semester string

const (
	SemesterFirst  Semester = "1st"
	SemesterSecond Semester = "2nd"
	SemesterSummer Semester = "Summer"
)

// AcademicPeriod is a row of the academic_periods collection
type AcademicPeriod struct {
	ID         string    `bson:"_id" json:"id"`
	Semester   Semester  `bson:"semester" json:"semester"`
	SchoolYear string    `bson:"school_year" json:"school_year"` // "YYYY-YYYY"
	IsActive   bool      `bson:"is_active" json:"is_active"`
	StartDate  time.Time `bson:"start_date" json:"start_date"`
	EndDate    time.Time `bson:"end_date" json:"end_date"`
}

// Label synthesizes the semester_taken text grade reports carry for this period
func (p AcademicPeriod) Label() string {
	return fmt.Sprintf("%s Semester SY %s", p.Semester, p.SchoolYear)
}

// Contains reports whether t falls within the period's date range (inclusive)
func (p AcademicPeriod) Contains(t time.Time) bool {
	return !t.Before(p.StartDate) && !t.After(p.EndDate)
}

// ============================================================================
// Honor Models
// ============================================================================

// HonorType is an honor a student can apply for
type HonorType string

const (
	HonorDeansList     HonorType = "deans_list"
	HonorCumLaude      HonorType = "cum_laude"
	HonorMagnaCumLaude HonorType = "magna_cum_laude"
	HonorSummaCumLaude HonorType = "summa_cum_laude"
)

// HonorTypes lists every honor type in display order
var HonorTypes = []HonorType{HonorDeansList, HonorSummaCumLaude, HonorMagnaCumLaude, HonorCumLaude}

// ParseHonorType validates an honor type key
func ParseHonorType(s string) (HonorType, error) {
	switch h := HonorType(strings.ToLower(strings.TrimSpace(s))); h {
	case HonorDeansList, HonorCumLaude, HonorMagnaCumLaude, HonorSummaCumLaude:
		return h, nil
	case "":
		return "", NewValidationError("honor type is required")
	default:
		return "", NewValidationError(fmt.Sprintf("unknown honor type %q", s))
	}
}

// IsLatin reports whether the honor is one of the Latin honors
func (h HonorType) IsLatin() bool {
	return h == HonorCumLaude || h == HonorMagnaCumLaude || h == HonorSummaCumLaude
}

// RequiredGWA is the informational GWA stored on the application record
func (h HonorType) RequiredGWA() decimal.Decimal {
	switch h {
	case HonorDeansList, HonorCumLaude:
		return decimal.RequireFromString("1.75")
	case HonorMagnaCumLaude:
		return decimal.RequireFromString("1.45")
	case HonorSummaCumLaude:
		return decimal.RequireFromString("1.25")
	}
	panic(fmt.Sprintf("shared: RequiredGWA of unknown honor type %q", string(h)))
}

// Label returns the display name of the honor
func (h HonorType) Label() string {
	switch h {
	case HonorDeansList:
		return "Dean's List"
	case HonorCumLaude:
		return "Cum Laude"
	case HonorMagnaCumLaude:
		return "Magna Cum Laude"
	case HonorSummaCumLaude:
		return "Summa Cum Laude"
	}
	panic(fmt.Sprintf("shared: Label of unknown honor type %q", string(h)))
}

// ApplicationStatus is the review state of an honor application
type ApplicationStatus string

const (
	StatusNone          ApplicationStatus = "none"
	StatusSubmitted     ApplicationStatus = "submitted"
	StatusUnderReview   ApplicationStatus = "under_review"
	StatusApproved      ApplicationStatus = "approved"
	StatusFinalApproved ApplicationStatus = "final_approved"
	StatusRejected      ApplicationStatus = "rejected"
)

// ParseApplicationStatus validates a status key; "none" is not a stored status
func ParseApplicationStatus(s string) (ApplicationStatus, error) {
	switch st := ApplicationStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusFinalApproved, StatusRejected:
		return st, nil
	default:
		return "", NewValidationError(fmt.Sprintf("unknown application status %q", s))
	}
}

// IsPending reports whether the status blocks a new submission for the same period
func (s ApplicationStatus) IsPending() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusApproved, StatusFinalApproved:
		return true
	}
	return false
}

// IsApproved reports whether the application counts as granted for ranking exports
func (s ApplicationStatus) IsApproved() bool {
	return s == StatusApproved || s == StatusFinalApproved
}

// Label returns the display name of the status
func (s ApplicationStatus) Label() string {
	switch s {
	case StatusNone:
		return "Not Submitted"
	case StatusSubmitted:
		return "Submitted"
	case StatusUnderReview:
		return "Under Review"
	case StatusApproved:
		return "Approved"
	case StatusFinalApproved:
		return "Final Approved"
	case StatusRejected:
		return "Rejected"
	}
	panic(fmt.Sprintf("shared: Label of unknown application status %q", string(s)))
}

// PendingStatuses lists the statuses checked by the duplicate-application rule
var PendingStatuses = []ApplicationStatus{StatusSubmitted, StatusUnderReview, StatusApproved, StatusFinalApproved}

// Application is an honor application record
type Application struct {
	ID          string            `json:"id"`
	StudentID   string            `json:"student_id"`
	PeriodID    string            `json:"period_id"`
	HonorType   HonorType         `json:"honor_type"`
	Status      ApplicationStatus `json:"status"`
	GWA         decimal.Decimal   `json:"gwa"`
	RequiredGWA decimal.Decimal   `json:"required_gwa"`
	SubmittedAt time.Time         `json:"submitted_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	ReviewedBy  string            `json:"reviewed_by,omitempty"`
}

// ============================================================================
// Validation Constants
// ============================================================================

const (
	// User roles
	RoleStudent = "student"
	RoleFaculty = "faculty"
	RoleAdmin   = "admin"

	// Year level allowed to apply for Latin honors
	GraduatingYearLevel = 4

	// Regular semesters required before Latin honors are evaluated
	LatinHonorsMinSemesters = 8

	// Regular semesters required before the cumulative GWA is shown
	OverallGWAMinSemesters = 4
)
