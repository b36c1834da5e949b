package honors

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"honors_gwa/backend/internal/gwa"
	"honors_gwa/backend/internal/shared"
)

// Dependencies are the collaborators the service reads and writes through.
type Dependencies struct {
	Grades       GradeStore
	Periods      PeriodStore
	Window       ApplicationPeriodService
	Applications ApplicationRepository
	Snapshots    GWASnapshotStore
	Users        UserDirectory
	Notifier     Notifier // optional

	// RankingConcurrency bounds concurrent grade reads per ranking export.
	RankingConcurrency int
	// Now is the clock used for application timestamps; defaults to time.Now.
	Now func() time.Time
}

// Service computes GWAs, honor eligibility and honor rolls, and records honor applications.
type Service struct {
	grades      GradeStore
	periods     PeriodStore
	window      ApplicationPeriodService
	apps        ApplicationRepository
	snapshots   GWASnapshotStore
	users       UserDirectory
	notifier    Notifier
	resolver    *PeriodResolver
	concurrency int
	now         func() time.Time
}

// NewService creates a new Service instance
func NewService(deps Dependencies) *Service {
	s := &Service{
		grades:      deps.Grades,
		periods:     deps.Periods,
		window:      deps.Window,
		apps:        deps.Applications,
		snapshots:   deps.Snapshots,
		users:       deps.Users,
		notifier:    deps.Notifier,
		resolver:    NewPeriodResolver(deps.Grades, deps.Periods),
		concurrency: deps.RankingConcurrency,
		now:         deps.Now,
	}
	if s.notifier == nil {
		s.notifier = nopNotifier{}
	}
	if s.concurrency < 1 {
		s.concurrency = 1
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Resolver exposes the period resolver used by the service
func (s *Service) Resolver() *PeriodResolver { return s.resolver }

// ComputeCurrentPeriodGWA aggregates the grades linked to the active period.
// It returns nil when there is no active period or no countable grades.
func (s *Service) ComputeCurrentPeriodGWA(ctx context.Context, studentID string) (*shared.GWAResult, error) {
	active, err := s.periods.GetActivePeriod(ctx)
	if err != nil {
		return nil, fmt.Errorf("get active period: %w", err)
	}
	if active == nil {
		return nil, nil
	}

	records, err := s.resolver.Direct(ctx, studentID, *active)
	if err != nil {
		return nil, err
	}
	return stamp(gwa.Aggregate(records), active), nil
}

// ComputeDesignatedApplicationPeriodGWA aggregates the grades of the period an
// honor application is judged on. It returns nil when nothing resolves.
func (s *Service) ComputeDesignatedApplicationPeriodGWA(ctx context.Context, studentID string) (*shared.GWAResult, *shared.AcademicPeriod, error) {
	period, records, err := s.resolver.Resolve(ctx, studentID, nil)
	if err != nil {
		return nil, nil, err
	}
	if period == nil {
		return nil, nil, nil
	}
	res := gwa.Aggregate(records)
	if res == nil {
		return nil, nil, nil
	}
	return stamp(res, period), period, nil
}

// ComputeMostRecentCompletedPeriodGWA aggregates the most recent period with
// grades, regardless of the active period.
func (s *Service) ComputeMostRecentCompletedPeriodGWA(ctx context.Context, studentID string) (*shared.GWAResult, *shared.AcademicPeriod, error) {
	period, records, err := s.resolver.MostRecentWithGrades(ctx, studentID)
	if err != nil || period == nil {
		return nil, nil, err
	}
	res := gwa.Aggregate(records)
	if res == nil {
		return nil, nil, nil
	}
	return stamp(res, period), period, nil
}

// ComputeOverallGWA aggregates every processed grade. The cumulative figure is
// only shown from the fourth regular semester on; before that it is nil.
func (s *Service) ComputeOverallGWA(ctx context.Context, studentID string) (*shared.GWAResult, error) {
	all, err := s.grades.FetchProcessedGrades(ctx, studentID, GradeFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetch grades: %w", err)
	}
	if gwa.CountRegularSemesters(all) < shared.OverallGWAMinSemesters {
		return nil, nil
	}
	return gwa.Aggregate(all), nil
}

// EligibilityReport is everything the eligibility check shows a student.
type EligibilityReport struct {
	HasGrades       bool                   `json:"has_grades"`
	GWA             *shared.GWAResult      `json:"gwa,omitempty"`
	Period          *shared.AcademicPeriod `json:"period,omitempty"`
	TotalSemesters  int                    `json:"total_semesters"`
	YearLevel       int                    `json:"year_level"`
	HasGradeAbove25 bool                   `json:"has_grade_above_25"`
	HasOngoingGrade bool                   `json:"has_ongoing_grade"`
	Result          gwa.EligibilityResult  `json:"result"`

	// DashboardLatinEligible is the dashboard's simplified Latin honors check.
	DashboardLatinEligible bool `json:"dashboard_latin_eligible"`
}

// EvaluateEligibility evaluates every honor for a student on the designated
// application period GWA. Grade flags and the semester count span all
// processed grades.
func (s *Service) EvaluateEligibility(ctx context.Context, studentID string) (*EligibilityReport, error) {
	all, err := s.grades.FetchProcessedGrades(ctx, studentID, GradeFilter{})
	if err != nil {
		return nil, fmt.Errorf("fetch grades: %w", err)
	}

	result, period, err := s.ComputeDesignatedApplicationPeriodGWA(ctx, studentID)
	if err != nil {
		return nil, err
	}

	yearLevel, _, err := s.users.GetYearLevel(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("get year level: %w", err)
	}

	in := gwa.EligibilityInput{
		GWA:                   result,
		HasGradeAbove25:       gwa.HasGradeAbove25(all),
		HasOngoingGrade:       gwa.HasOngoingGrade(all),
		TotalRegularSemesters: gwa.CountRegularSemesters(all),
		YearLevel:             yearLevel,
	}

	return &EligibilityReport{
		HasGrades:              len(all) > 0,
		GWA:                    result,
		Period:                 period,
		TotalSemesters:         in.TotalRegularSemesters,
		YearLevel:              yearLevel,
		HasGradeAbove25:        in.HasGradeAbove25,
		HasOngoingGrade:        in.HasOngoingGrade,
		Result:                 gwa.FullEligibility(in),
		DashboardLatinEligible: gwa.SimplifiedDashboardEligibility(yearLevel, result),
	}, nil
}

// SubmitApplication records an honor application for the calling student in
// the active application period.
//
// The GWA snapshot is upserted before the application is inserted and is not
// retracted if the insert fails, so a snapshot does not imply an application.
func (s *Service) SubmitApplication(ctx context.Context, rc shared.RequestContext, honorType string) (*shared.Application, error) {
	if !rc.IsStudent() || rc.UserID == "" {
		return nil, shared.NewValidationError("only students can submit honor applications")
	}

	honor, err := shared.ParseHonorType(honorType)
	if err != nil {
		return nil, err
	}

	window, err := s.window.CanApply(ctx, rc.UserID)
	if err != nil {
		return nil, fmt.Errorf("check application window: %w", err)
	}
	if !window.CanApply {
		reason := window.Reason
		if reason == "" {
			reason = "applications are closed"
		}
		return nil, shared.NewValidationError(reason)
	}
	period := window.ActivePeriod
	if period == nil || !period.IsActive {
		return nil, shared.NewValidationError("there is no active application period")
	}

	report, err := s.EvaluateEligibility(ctx, rc.UserID)
	if err != nil {
		return nil, err
	}
	if report.GWA == nil {
		return nil, shared.NewDataUnavailableError("no processed grades are available for this application period")
	}
	if honor.IsLatin() && report.YearLevel != shared.GraduatingYearLevel {
		return nil, shared.NewValidationError("Latin honors applications are open to 4th year students only")
	}
	if !report.Result.Eligible(honor) {
		return nil, shared.NewValidationError(fmt.Sprintf("not eligible for %s: %s", honor.Label(), report.Result.Reasons[honor]))
	}

	pending, err := s.apps.HasPendingApplication(ctx, rc.UserID, DateRange{Start: period.StartDate, End: period.EndDate})
	if err != nil {
		return nil, fmt.Errorf("check pending applications: %w", err)
	}
	if pending {
		return nil, shared.NewConflictError("you already have a pending honor application for this period")
	}

	if _, err := s.snapshots.Upsert(ctx, rc.UserID, period.ID, *report.GWA); err != nil {
		return nil, shared.NewPersistenceError("save GWA snapshot", err)
	}

	now := s.now()
	app := shared.Application{
		StudentID:   rc.UserID,
		PeriodID:    period.ID,
		HonorType:   honor,
		Status:      shared.StatusSubmitted,
		GWA:         report.GWA.Value,
		RequiredGWA: honor.RequiredGWA(),
		SubmittedAt: now,
		UpdatedAt:   now,
	}

	id, err := s.apps.InsertApplication(ctx, app)
	if err != nil {
		log.Printf("WARN: GWA snapshot for student %s period %s kept without an application: %v", rc.UserID, period.ID, err)
		return nil, shared.NewPersistenceError("save honor application", err)
	}
	app.ID = id

	log.Printf("INFO: %s application %s submitted by %s (GWA %s)", honor, id, rc.UserID, app.GWA.StringFixed(2))

	if err := s.notifier.ApplicationSubmitted(ctx, app); err != nil {
		log.Printf("WARN: failed to publish submission of application %s: %v", id, err)
	}

	return &app, nil
}

// UpdateApplicationStatus moves an application along the review workflow.
func (s *Service) UpdateApplicationStatus(ctx context.Context, rc shared.RequestContext, applicationID, status string) (*shared.Application, error) {
	if !rc.IsReviewer() {
		return nil, shared.NewValidationError("only faculty and administrators can review applications")
	}
	if strings.TrimSpace(applicationID) == "" {
		return nil, shared.NewValidationError("application id is required")
	}

	to, err := shared.ParseApplicationStatus(status)
	if err != nil {
		return nil, err
	}

	app, err := s.apps.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}
	if app == nil {
		return nil, shared.NewDataUnavailableError(fmt.Sprintf("application %s not found", applicationID))
	}

	from := app.Status
	if !gwa.CanTransition(from, to) {
		return nil, shared.NewValidationError(fmt.Sprintf("cannot move an application from %s to %s", from.Label(), to.Label()))
	}

	ok, err := s.apps.UpdateStatus(ctx, applicationID, from, to, rc.UserID)
	if err != nil {
		return nil, shared.NewPersistenceError("update application status", err)
	}
	if !ok {
		return nil, shared.NewConflictError("the application was updated by someone else; reload and try again")
	}

	app.Status = to
	app.ReviewedBy = rc.UserID
	app.UpdatedAt = s.now()

	if err := s.notifier.ApplicationStatusChanged(ctx, *app, from); err != nil {
		log.Printf("WARN: failed to publish status change of application %s: %v", app.ID, err)
	}

	return app, nil
}

// BuildHonorRanking builds the honor roll of a department for one period label.
func (s *Service) BuildHonorRanking(ctx context.Context, department, periodLabel, honorType string) ([]gwa.RankingEntry, error) {
	if strings.TrimSpace(department) == "" {
		return nil, shared.NewValidationError("department is required")
	}
	if strings.TrimSpace(periodLabel) == "" {
		return nil, shared.NewValidationError("period is required")
	}
	honor, err := shared.ParseHonorType(honorType)
	if err != nil {
		return nil, err
	}

	students, err := s.users.ListStudents(ctx, department)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	cohort := make([]gwa.CohortMember, len(students))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, st := range students {
		g.Go(func() error {
			records, err := s.grades.FetchProcessedGrades(gctx, st.ID, GradeFilter{SemesterTaken: periodLabel})
			if err != nil {
				return fmt.Errorf("fetch grades of %s: %w", st.ID, err)
			}
			cohort[i] = gwa.CohortMember{Student: st, Records: records}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if honor.IsLatin() {
		ids := make([]string, len(students))
		for i, st := range students {
			ids[i] = st.ID
		}
		approved, err := s.apps.ApprovedHonors(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("load approved applications: %w", err)
		}
		for i := range cohort {
			cohort[i].Approved = approved[cohort[i].Student.ID]
		}
	}

	return gwa.BuildRanking(cohort, periodLabel, honor), nil
}

func stamp(res *shared.GWAResult, p *shared.AcademicPeriod) *shared.GWAResult {
	if res == nil {
		return nil
	}
	out := res.WithPeriod(p)
	return &out
}
