package honorstest

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"honors_gwa/backend/internal/shared"
)

// Fixture identifiers.
const (
	ActivePeriodID   = "period-2024-1"
	PreviousPeriodID = "period-2023-2"
	Department       = "CCS"
)

// Now is a moment inside the active period.
var Now = time.Date(2024, time.September, 15, 9, 0, 0, 0, time.UTC)

// ActivePeriod is the fixture's open application period.
var ActivePeriod = shared.AcademicPeriod{
	ID:         ActivePeriodID,
	Semester:   shared.SemesterFirst,
	SchoolYear: "2024-2025",
	IsActive:   true,
	StartDate:  time.Date(2024, time.August, 1, 0, 0, 0, 0, time.UTC),
	EndDate:    time.Date(2024, time.December, 20, 23, 59, 59, 0, time.UTC),
}

// PreviousPeriod is the semester before ActivePeriod.
var PreviousPeriod = shared.AcademicPeriod{
	ID:         PreviousPeriodID,
	Semester:   shared.SemesterSecond,
	SchoolYear: "2023-2024",
	StartDate:  time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
	EndDate:    time.Date(2024, time.May, 31, 23, 59, 59, 0, time.UTC),
}

// Fixture returns a store holding both fixture periods.
func Fixture() *Store {
	s := New()
	s.AddPeriod(ActivePeriod)
	s.AddPeriod(PreviousPeriod)
	return s
}

// Student returns an active student account in Department.
func Student(id, lastName string, yearLevel int) shared.User {
	return shared.User{
		ID:            id,
		Email:         id + "@school.edu.ph",
		Role:          shared.RoleStudent,
		FirstName:     "Student",
		LastName:      lastName,
		StudentNumber: "2021-" + id,
		Section:       "BSCS 4A",
		YearLevel:     yearLevel,
		Department:    Department,
		IsActive:      true,
	}
}

// Grade builds a processed grade row linked to period p.
func Grade(studentID string, p shared.AcademicPeriod, subject, grade, units string) shared.GradeRecord {
	return shared.GradeRecord{
		ID:               fmt.Sprintf("%s-%s-%s", studentID, p.ID, subject),
		StudentID:        studentID,
		SubjectCode:      subject,
		SubjectName:      subject,
		Units:            decimal.RequireFromString(units),
		Grade:            decimal.RequireFromString(grade),
		SemesterTaken:    p.Label(),
		SubmissionID:     "sub-" + studentID + "-" + p.ID,
		PeriodID:         p.ID,
		SubmissionStatus: shared.SubmissionProcessed,
	}
}

// AddHistory gives a student one processed grade in each of the n regular
// semesters preceding the active period, none linked to a known period.
func (s *Store) AddHistory(studentID string, n int, grade string) {
	year := 2024
	sem := shared.SemesterFirst
	for i := 0; i < n; i++ {
		if sem == shared.SemesterFirst {
			sem = shared.SemesterSecond
			year--
		} else {
			sem = shared.SemesterFirst
		}
		p := shared.AcademicPeriod{ID: "", Semester: sem, SchoolYear: fmt.Sprintf("%d-%d", year, year+1)}
		r := Grade(studentID, p, fmt.Sprintf("HIST%d", i), grade, "3")
		r.ID = fmt.Sprintf("%s-hist-%d", studentID, i)
		s.AddGrades(r)
	}
}
