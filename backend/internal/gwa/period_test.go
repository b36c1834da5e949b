package gwa

import (
	"testing"

	"honors_gwa/backend/internal/shared"
)

func TestParsePeriodLabel(t *testing.T) {
	cases := []struct {
		label    string
		semester shared.Semester
		year     string
	}{
		{"1st Semester SY 2024-2025", shared.SemesterFirst, "2024-2025"},
		{"2nd Semester SY 2023 - 2024", shared.SemesterSecond, "2023-2024"},
		{"Summer SY 2024", shared.SemesterSummer, "2024"},
		{"summer semester sy 2024-2025", shared.SemesterSummer, "2024-2025"},
	}
	for _, tc := range cases {
		sem, year, err := ParsePeriodLabel(tc.label)
		if err != nil {
			t.Errorf("%q: unexpected error %v", tc.label, err)
			continue
		}
		if sem != tc.semester || year != tc.year {
			t.Errorf("%q: got (%s, %s), want (%s, %s)", tc.label, sem, year, tc.semester, tc.year)
		}
	}

	if _, _, err := ParsePeriodLabel("Third Trimester 2024"); err == nil {
		t.Error("expected an error for an unrecognized label")
	}
}

func TestLabelRoundTrip(t *testing.T) {
	p := shared.AcademicPeriod{Semester: shared.SemesterSecond, SchoolYear: "2024-2025"}
	if p.Label() != "2nd Semester SY 2024-2025" {
		t.Fatalf("unexpected label %q", p.Label())
	}
	sem, year, err := ParsePeriodLabel(p.Label())
	if err != nil || sem != p.Semester || year != p.SchoolYear {
		t.Errorf("round trip failed: %s %s %v", sem, year, err)
	}
}

func TestMostRecent(t *testing.T) {
	periods := []shared.AcademicPeriod{
		{ID: "a", Semester: shared.SemesterFirst, SchoolYear: "2024-2025"},
		{ID: "b", Semester: shared.SemesterSummer, SchoolYear: "2024-2025"},
		{ID: "c", Semester: shared.SemesterSecond, SchoolYear: "2023-2024"},
		{ID: "d", Semester: shared.SemesterSecond, SchoolYear: "2024-2025"},
	}

	got, ok := MostRecent(periods)
	if !ok || got.ID != "d" {
		t.Errorf("expected 2nd semester 2024-2025, got %+v", got)
	}

	t.Run("Second Beats First Beats Summer", func(t *testing.T) {
		got, _ := MostRecent(periods[:2])
		if got.ID != "a" {
			t.Errorf("1st semester should outrank summer of the same year, got %s", got.ID)
		}
	})

	t.Run("Unknown Semester Ranks Last", func(t *testing.T) {
		odd := shared.AcademicPeriod{ID: "x", Semester: "Midyear", SchoolYear: "2024-2025"}
		got, _ := MostRecent([]shared.AcademicPeriod{odd, periods[1]})
		if got.ID != "b" {
			t.Errorf("summer should outrank an unknown semester, got %s", got.ID)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		if _, ok := MostRecent(nil); ok {
			t.Error("expected no period")
		}
	})
}

func TestCountRegularSemesters(t *testing.T) {
	labels := []string{"1st Semester SY 2023-2024", "2nd Semester SY 2023-2024", "Summer SY 2024"}
	if got := CountRegularSemesterLabels(labels); got != 2 {
		t.Errorf("got %d, want 2", got)
	}

	records := []shared.GradeRecord{
		{SemesterTaken: "1st Semester SY 2023-2024"},
		{SemesterTaken: "1st Semester SY 2023-2024"},
		{SemesterTaken: "2nd Semester SY 2023-2024"},
		{SemesterTaken: "1st Semester SY 2024-2025"},
		{SemesterTaken: "Summer SY 2024"},
	}
	if got := CountRegularSemesters(records); got != 3 {
		t.Errorf("distinct regular semesters: got %d, want 3", got)
	}
}
