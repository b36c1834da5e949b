package honors

import (
	"context"
	"time"

	"honors_gwa/backend/internal/shared"
)

// GradeFilter narrows a processed-grade fetch. Zero fields do not filter.
type GradeFilter struct {
	PeriodID      string // submission's academic_period_id
	SemesterTaken string // exact semester_taken text
}

// GradeStore reads processed grade rows. Rows of unprocessed submissions are never returned.
type GradeStore interface {
	FetchProcessedGrades(ctx context.Context, studentID string, filter GradeFilter) ([]shared.GradeRecord, error)
}

// PeriodStore reads academic periods. Missing periods are (nil, nil).
type PeriodStore interface {
	GetActivePeriod(ctx context.Context) (*shared.AcademicPeriod, error)
	GetPeriod(ctx context.Context, id string) (*shared.AcademicPeriod, error)
}

// ApplicationWindow is the opaque gating answer for a student.
type ApplicationWindow struct {
	CanApply     bool                   `json:"can_apply"`
	Reason       string                 `json:"reason,omitempty"`
	ActivePeriod *shared.AcademicPeriod `json:"active_period,omitempty"`
	NextPeriod   *shared.AcademicPeriod `json:"next_period,omitempty"`
}

// ApplicationPeriodService decides whether a student may apply right now.
type ApplicationPeriodService interface {
	CanApply(ctx context.Context, studentID string) (ApplicationWindow, error)
}

// DateRange is an inclusive time window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ApplicationRepository persists honor applications.
type ApplicationRepository interface {
	// HasPendingApplication reports an application in a pending status submitted within r.
	HasPendingApplication(ctx context.Context, studentID string, r DateRange) (bool, error)
	InsertApplication(ctx context.Context, app shared.Application) (string, error)
	// GetApplication returns (nil, nil) when the id is unknown.
	GetApplication(ctx context.Context, id string) (*shared.Application, error)
	// UpdateStatus moves an application from one status to another. It reports
	// false when the stored status was no longer from.
	UpdateStatus(ctx context.Context, id string, from, to shared.ApplicationStatus, reviewer string) (bool, error)
	// ApprovedHonors returns, per student, the honors held with an approved application.
	ApprovedHonors(ctx context.Context, studentIDs []string) (map[string][]shared.HonorType, error)
}

// GWASnapshotStore keeps one snapshot per (student, period). Upsert must be
// atomic on that key.
type GWASnapshotStore interface {
	Upsert(ctx context.Context, studentID, periodID string, result shared.GWAResult) (string, error)
}

// UserDirectory reads student standing.
type UserDirectory interface {
	// GetYearLevel reports false when the student is unknown or has no year level.
	GetYearLevel(ctx context.Context, studentID string) (int, bool, error)
	ListStudents(ctx context.Context, department string) ([]shared.Student, error)
}

// Notifier delivers application lifecycle notifications.
type Notifier interface {
	ApplicationSubmitted(ctx context.Context, app shared.Application) error
	ApplicationStatusChanged(ctx context.Context, app shared.Application, from shared.ApplicationStatus) error
}

type nopNotifier struct{}

func (nopNotifier) ApplicationSubmitted(context.Context, shared.Application) error { return nil }

func (nopNotifier) ApplicationStatusChanged(context.Context, shared.Application, shared.ApplicationStatus) error {
	return nil
}
