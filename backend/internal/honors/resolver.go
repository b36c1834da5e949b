package honors

import (
	"context"
	"fmt"

	"honors_gwa/backend/internal/gwa"
	"honors_gwa/backend/internal/shared"
)

// PeriodResolver picks the academic period, and the grade rows, a computation
// runs over.
type PeriodResolver struct {
	grades  GradeStore
	periods PeriodStore
}

// NewPeriodResolver creates a PeriodResolver
func NewPeriodResolver(grades GradeStore, periods PeriodStore) *PeriodResolver {
	return &PeriodResolver{grades: grades, periods: periods}
}

// Resolve tries, in order: grades whose submission is linked to the period,
// grades whose semester_taken equals the period's label, then the most recent
// period the student has any grades in. A nil hint means the active period.
// It returns a nil period when the student has no processed grades at all.
func (r *PeriodResolver) Resolve(ctx context.Context, studentID string, hint *shared.AcademicPeriod) (*shared.AcademicPeriod, []shared.GradeRecord, error) {
	period := hint
	if period == nil {
		active, err := r.periods.GetActivePeriod(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("get active period: %w", err)
		}
		period = active
	}

	if period != nil {
		records, err := r.Direct(ctx, studentID, *period)
		if err != nil {
			return nil, nil, err
		}
		if len(records) > 0 {
			return period, records, nil
		}

		records, err = r.ByLabel(ctx, studentID, *period)
		if err != nil {
			return nil, nil, err
		}
		if len(records) > 0 {
			return period, records, nil
		}
	}

	return r.MostRecentWithGrades(ctx, studentID)
}

// Direct returns grades whose submission is linked to the period.
func (r *PeriodResolver) Direct(ctx context.Context, studentID string, period shared.AcademicPeriod) ([]shared.GradeRecord, error) {
	records, err := r.grades.FetchProcessedGrades(ctx, studentID, GradeFilter{PeriodID: period.ID})
	if err != nil {
		return nil, fmt.Errorf("fetch grades for period %s: %w", period.ID, err)
	}
	return records, nil
}

// ByLabel returns grades whose semester_taken text names the period, for rows
// ingested against the wrong period.
func (r *PeriodResolver) ByLabel(ctx context.Context, studentID string, period shared.AcademicPeriod) ([]shared.GradeRecord, error) {
	records, err := r.grades.FetchProcessedGrades(ctx, studentID, GradeFilter{SemesterTaken: period.Label()})
	if err != nil {
		return nil, fmt.Errorf("fetch grades labelled %q: %w", period.Label(), err)
	}
	return records, nil
}

// MostRecentWithGrades returns the greatest (school_year, semester) period the
// student has processed grades linked to, with those grades.
func (r *PeriodResolver) MostRecentWithGrades(ctx context.Context, studentID string) (*shared.AcademicPeriod, []shared.GradeRecord, error) {
	all, err := r.grades.FetchProcessedGrades(ctx, studentID, GradeFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("fetch grades: %w", err)
	}

	byPeriod := make(map[string][]shared.GradeRecord)
	var order []string
	for _, g := range all {
		if g.PeriodID == "" {
			continue
		}
		if _, seen := byPeriod[g.PeriodID]; !seen {
			order = append(order, g.PeriodID)
		}
		byPeriod[g.PeriodID] = append(byPeriod[g.PeriodID], g)
	}

	candidates := make([]shared.AcademicPeriod, 0, len(order))
	for _, id := range order {
		p, err := r.periods.GetPeriod(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("get period %s: %w", id, err)
		}
		if p != nil {
			candidates = append(candidates, *p)
		}
	}

	best, ok := gwa.MostRecent(candidates)
	if !ok {
		return nil, nil, nil
	}
	return &best, byPeriod[best.ID], nil
}
