// Package honorstest provides an in-memory implementation of the honors
// collaborators for tests.
package honorstest

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"honors_gwa/backend/internal/honors"
	"honors_gwa/backend/internal/shared"
)

// Store implements every honors collaborator interface in memory.
// The zero value is not usable; call New.
type Store struct {
	mu sync.Mutex

	Users        map[string]shared.User
	Grades       []shared.GradeRecord
	Periods      map[string]shared.AcademicPeriod
	Applications map[string]shared.Application
	Snapshots    map[string]shared.GWASnapshot

	// Window overrides the CanApply answer when set.
	Window *honors.ApplicationWindow

	// Fail* inject errors into the matching operation.
	FailGrades   error
	FailInsert   error
	FailSnapshot error

	Submitted []shared.Application
	Changed   []StatusChange

	nextID int
}

// StatusChange is one recorded status notification.
type StatusChange struct {
	App  shared.Application
	From shared.ApplicationStatus
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		Users:        make(map[string]shared.User),
		Periods:      make(map[string]shared.AcademicPeriod),
		Applications: make(map[string]shared.Application),
		Snapshots:    make(map[string]shared.GWASnapshot),
	}
}

// Dependencies wires the store into every slot of honors.Dependencies.
func (s *Store) Dependencies() honors.Dependencies {
	return honors.Dependencies{
		Grades:             s,
		Periods:            s,
		Window:             s,
		Applications:       s,
		Snapshots:          s,
		Users:              s,
		Notifier:           s,
		RankingConcurrency: 4,
	}
}

// AddUser stores a user.
func (s *Store) AddUser(u shared.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Users[u.ID] = u
}

// AddPeriod stores a period.
func (s *Store) AddPeriod(p shared.AcademicPeriod) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Periods[p.ID] = p
}

// AddGrades appends grade rows, defaulting their submission status to processed.
func (s *Store) AddGrades(records ...shared.GradeRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		if r.SubmissionStatus == "" {
			r.SubmissionStatus = shared.SubmissionProcessed
		}
		s.Grades = append(s.Grades, r)
	}
}

// FetchProcessedGrades implements honors.GradeStore.
func (s *Store) FetchProcessedGrades(_ context.Context, studentID string, f honors.GradeFilter) ([]shared.GradeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailGrades != nil {
		return nil, s.FailGrades
	}
	var out []shared.GradeRecord
	for _, g := range s.Grades {
		if g.StudentID != studentID || g.SubmissionStatus != shared.SubmissionProcessed {
			continue
		}
		if f.PeriodID != "" && g.PeriodID != f.PeriodID {
			continue
		}
		if f.SemesterTaken != "" && g.SemesterTaken != f.SemesterTaken {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// GetActivePeriod implements honors.PeriodStore.
func (s *Store) GetActivePeriod(context.Context) (*shared.AcademicPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeLocked(), nil
}

func (s *Store) activeLocked() *shared.AcademicPeriod {
	for _, p := range s.Periods {
		if p.IsActive {
			return &p
		}
	}
	return nil
}

// GetPeriod implements honors.PeriodStore.
func (s *Store) GetPeriod(_ context.Context, id string) (*shared.AcademicPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.Periods[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// CanApply implements honors.ApplicationPeriodService. Without an override
// the window is open whenever a period is active.
func (s *Store) CanApply(context.Context, string) (honors.ApplicationWindow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Window != nil {
		return *s.Window, nil
	}
	active := s.activeLocked()
	if active == nil {
		return honors.ApplicationWindow{Reason: "no active academic period"}, nil
	}
	return honors.ApplicationWindow{CanApply: true, ActivePeriod: active}, nil
}

// HasPendingApplication implements honors.ApplicationRepository.
func (s *Store) HasPendingApplication(_ context.Context, studentID string, r honors.DateRange) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.Applications {
		if a.StudentID != studentID || !a.Status.IsPending() {
			continue
		}
		if a.SubmittedAt.Before(r.Start) || a.SubmittedAt.After(r.End) {
			continue
		}
		return true, nil
	}
	return false, nil
}

// InsertApplication implements honors.ApplicationRepository.
func (s *Store) InsertApplication(_ context.Context, app shared.Application) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailInsert != nil {
		return "", s.FailInsert
	}
	s.nextID++
	app.ID = fmt.Sprintf("app-%d", s.nextID)
	s.Applications[app.ID] = app
	return app.ID, nil
}

// GetApplication implements honors.ApplicationRepository.
func (s *Store) GetApplication(_ context.Context, id string) (*shared.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Applications[id]
	if !ok {
		return nil, nil
	}
	return &a, nil
}

// UpdateStatus implements honors.ApplicationRepository.
func (s *Store) UpdateStatus(_ context.Context, id string, from, to shared.ApplicationStatus, reviewer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.Applications[id]
	if !ok || a.Status != from {
		return false, nil
	}
	a.Status = to
	a.ReviewedBy = reviewer
	a.UpdatedAt = time.Now()
	s.Applications[id] = a
	return true, nil
}

// ApprovedHonors implements honors.ApplicationRepository.
func (s *Store) ApprovedHonors(_ context.Context, studentIDs []string) (map[string][]shared.HonorType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]shared.HonorType)
	for _, a := range s.Applications {
		if a.Status.IsApproved() && slices.Contains(studentIDs, a.StudentID) {
			out[a.StudentID] = append(out[a.StudentID], a.HonorType)
		}
	}
	return out, nil
}

// Upsert implements honors.GWASnapshotStore.
func (s *Store) Upsert(_ context.Context, studentID, periodID string, res shared.GWAResult) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailSnapshot != nil {
		return "", s.FailSnapshot
	}
	key := studentID + "/" + periodID
	snap, ok := s.Snapshots[key]
	if !ok {
		snap = shared.GWASnapshot{ID: "snap-" + key, StudentID: studentID, PeriodID: periodID}
	}
	snap.GWA = res.Value
	snap.TotalUnits = res.TotalUnits
	snap.SubjectsCount = res.SubjectsCount
	snap.SourcePeriod = res.PeriodID
	snap.UpdatedAt = time.Now()
	s.Snapshots[key] = snap
	return snap.ID, nil
}

// Snapshot returns the stored snapshot of a (student, period) pair.
func (s *Store) Snapshot(studentID, periodID string) (shared.GWASnapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap, ok := s.Snapshots[studentID+"/"+periodID]
	return snap, ok
}

// GetYearLevel implements honors.UserDirectory.
func (s *Store) GetYearLevel(_ context.Context, studentID string) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.Users[studentID]
	if !ok || u.YearLevel == 0 {
		return 0, false, nil
	}
	return u.YearLevel, true, nil
}

// ListStudents implements honors.UserDirectory.
func (s *Store) ListStudents(_ context.Context, department string) ([]shared.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []shared.Student
	for _, u := range s.Users {
		if u.Role != shared.RoleStudent || u.Department != department || !u.IsActive {
			continue
		}
		out = append(out, shared.Student{
			ID: u.ID, FirstName: u.FirstName, LastName: u.LastName,
			Section: u.Section, YearLevel: u.YearLevel, Department: u.Department,
		})
	}
	slices.SortFunc(out, func(a, b shared.Student) int { return cmp.Compare(a.ID, b.ID) })
	return out, nil
}

// FindByIdentifier looks a user up by id, email or student number. Unknown
// users are (nil, nil).
func (s *Store) FindByIdentifier(_ context.Context, identifier string) (*shared.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Users {
		if u.ID == identifier || u.Email == identifier || (u.StudentNumber != "" && u.StudentNumber == identifier) {
			return &u, nil
		}
	}
	return nil, nil
}

// ApplicationSubmitted implements honors.Notifier.
func (s *Store) ApplicationSubmitted(_ context.Context, app shared.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Submitted = append(s.Submitted, app)
	return nil
}

// ApplicationStatusChanged implements honors.Notifier.
func (s *Store) ApplicationStatusChanged(_ context.Context, app shared.Application, from shared.ApplicationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Changed = append(s.Changed, StatusChange{App: app, From: from})
	return nil
}
