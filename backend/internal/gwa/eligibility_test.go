package gwa

import (
	"testing"

	"honors_gwa/backend/internal/shared"
)

func gwaOf(v string) *shared.GWAResult {
	return &shared.GWAResult{Value: dec(v), Exact: dec(v), TotalUnits: dec("21"), SubjectsCount: 7}
}

func graduating(v string) EligibilityInput {
	return EligibilityInput{GWA: gwaOf(v), TotalRegularSemesters: 8, YearLevel: 4}
}

func TestDeansList(t *testing.T) {
	cases := []struct {
		gwa  string
		want bool
	}{
		{"0.99", false},
		{"1.00", true},
		{"1.50", true},
		{"1.75", true},
		{"1.76", false},
		{"2.10", false},
	}
	for _, tc := range cases {
		in := EligibilityInput{GWA: gwaOf(tc.gwa), YearLevel: 1}
		got := FullEligibility(in)
		if got.DeansList != tc.want {
			t.Errorf("GWA %s: got %t, want %t", tc.gwa, got.DeansList, tc.want)
		}
		if !tc.want && got.Reasons[shared.HonorDeansList] == "" {
			t.Errorf("GWA %s: expected a reason", tc.gwa)
		}
	}

	t.Run("Grade Above 2.5 Disqualifies", func(t *testing.T) {
		got := FullEligibility(EligibilityInput{GWA: gwaOf("1.20"), HasGradeAbove25: true})
		if got.DeansList {
			t.Error("expected ineligible with a grade above 2.5")
		}
	})

	t.Run("No GWA", func(t *testing.T) {
		got := FullEligibility(EligibilityInput{YearLevel: 4, TotalRegularSemesters: 8})
		if got.DeansList || got.CanApplyLatinHonors {
			t.Error("expected nothing without a GWA")
		}
		if got.Reasons[shared.HonorDeansList] == "" {
			t.Error("expected a reason")
		}
	})
}

func TestLatinHonorTiers(t *testing.T) {
	cases := []struct {
		gwa  string
		want shared.HonorType
	}{
		{"1.00", shared.HonorSummaCumLaude},
		{"1.25", shared.HonorSummaCumLaude},
		{"1.26", shared.HonorMagnaCumLaude},
		{"1.45", shared.HonorMagnaCumLaude},
		{"1.46", shared.HonorCumLaude},
		{"1.75", shared.HonorCumLaude},
		{"1.76", ""},
	}
	for _, tc := range cases {
		got := FullEligibility(graduating(tc.gwa))
		tier, ok := got.LatinHonor()
		if tc.want == "" {
			if ok {
				t.Errorf("GWA %s: expected no tier, got %s", tc.gwa, tier)
			}
			continue
		}
		if tier != tc.want {
			t.Errorf("GWA %s: got %s, want %s", tc.gwa, tier, tc.want)
		}

		n := 0
		for _, h := range []shared.HonorType{shared.HonorSummaCumLaude, shared.HonorMagnaCumLaude, shared.HonorCumLaude} {
			if got.Eligible(h) {
				n++
			}
		}
		if n != 1 {
			t.Errorf("GWA %s: tiers must not overlap, %d matched", tc.gwa, n)
		}
	}
}

func TestLatinHonorGates(t *testing.T) {
	t.Run("Seven Semesters", func(t *testing.T) {
		in := graduating("1.10")
		in.TotalRegularSemesters = 7
		got := FullEligibility(in)
		if got.SummaCumLaude || got.CanApplyLatinHonors {
			t.Error("expected Latin honors gated on semester count")
		}
		if !got.DeansList {
			t.Error("Dean's List does not depend on semester count")
		}
	})

	t.Run("Ongoing Grade", func(t *testing.T) {
		in := graduating("1.10")
		in.HasOngoingGrade = true
		got := FullEligibility(in)
		if got.SummaCumLaude {
			t.Error("expected Latin honors gated on ongoing grades")
		}
		if got.Reasons[shared.HonorSummaCumLaude] == "" {
			t.Error("expected a reason")
		}
	})

	t.Run("Grade Above 2.5", func(t *testing.T) {
		in := graduating("1.10")
		in.HasGradeAbove25 = true
		got := FullEligibility(in)
		if got.SummaCumLaude || got.DeansList {
			t.Error("a grade above 2.5 blocks every honor")
		}
	})

	t.Run("Year Level Gate", func(t *testing.T) {
		in := graduating("1.10")
		in.YearLevel = 3
		got := FullEligibility(in)
		if !got.SummaCumLaude {
			t.Error("tier evaluation does not depend on year level")
		}
		if got.CanApplyLatinHonors {
			t.Error("only 4th year students may apply for Latin honors")
		}
	})

	t.Run("Can Apply", func(t *testing.T) {
		got := FullEligibility(graduating("1.30"))
		if !got.CanApplyLatinHonors || got.LatinHonorsMessage != "Eligible for Magna Cum Laude." {
			t.Errorf("unexpected result %+v", got)
		}
	})
}

// The dashboard shortcut ignores the semester count and ongoing grades, so the
// two variants disagree for an under-semestered 4th year student.
func TestSimplifiedDashboardEligibilityDisagreesWithFull(t *testing.T) {
	in := EligibilityInput{GWA: gwaOf("1.20"), TotalRegularSemesters: 6, HasOngoingGrade: true, YearLevel: 4}

	full := FullEligibility(in)
	simplified := SimplifiedDashboardEligibility(in.YearLevel, in.GWA)

	if full.SummaCumLaude {
		t.Error("full eligibility should reject six semesters")
	}
	if !simplified {
		t.Error("simplified eligibility only checks year level and GWA")
	}

	if SimplifiedDashboardEligibility(3, gwaOf("1.10")) {
		t.Error("simplified eligibility requires 4th year")
	}
	if SimplifiedDashboardEligibility(4, gwaOf("1.26")) {
		t.Error("simplified eligibility requires GWA <= 1.25")
	}
	if SimplifiedDashboardEligibility(4, nil) {
		t.Error("no GWA is never eligible")
	}
}

func TestGradeFlags(t *testing.T) {
	records := []shared.GradeRecord{rec("A", "2.50", "3"), rec("B", "1.00", "3")}
	if HasGradeAbove25(records) {
		t.Error("2.50 is not above 2.5")
	}
	records = append(records, rec("C", "2.75", "3"))
	if !HasGradeAbove25(records) {
		t.Error("2.75 is above 2.5")
	}
	if HasOngoingGrade(records) {
		t.Error("no ongoing grade yet")
	}
	records = append(records, rec("D", "0.00", "3"))
	if !HasOngoingGrade(records) {
		t.Error("0.00 is an ongoing grade")
	}
}
