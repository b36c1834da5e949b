package gwa

import (
	"testing"

	"honors_gwa/backend/internal/shared"
)

func ranks(gwas ...string) []int {
	entries := make([]RankingEntry, len(gwas))
	for i, g := range gwas {
		entries[i] = RankingEntry{GWA: dec(g)}
	}
	AssignCompetitionRanks(entries)
	out := make([]int, len(entries))
	for i, e := range entries {
		out[i] = e.Rank
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestAssignCompetitionRanks(t *testing.T) {
	cases := []struct {
		gwas []string
		want []int
	}{
		{[]string{"1.200", "1.200", "1.300"}, []int{1, 1, 3}},
		{[]string{"1.100", "1.200", "1.200", "1.200", "1.400"}, []int{1, 2, 2, 2, 5}},
		{[]string{"1.100"}, []int{1}},
		{[]string{"1.1234", "1.1231", "1.5"}, []int{1, 1, 3}},
	}
	for _, tc := range cases {
		if got := ranks(tc.gwas...); !equalInts(got, tc.want) {
			t.Errorf("%v: got %v, want %v", tc.gwas, got, tc.want)
		}
	}
}

const period = "1st Semester SY 2024-2025"

func member(id, last string, approved []shared.HonorType, records ...shared.GradeRecord) CohortMember {
	return CohortMember{
		Student:  shared.Student{ID: id, FirstName: "S", LastName: last, Section: "BSCS 4A", YearLevel: 4},
		Records:  records,
		Approved: approved,
	}
}

func TestBuildRanking(t *testing.T) {
	other := rec("History", "1.00", "3")
	other.SemesterTaken = "2nd Semester SY 2023-2024"

	cohort := []CohortMember{
		member("s1", "Santos", nil, rec("Calculus", "1.25", "3"), other),
		member("s2", "Reyes", nil, rec("Calculus", "1.25", "3")),
		member("s3", "Cruz", nil, rec("Calculus", "1.00", "3")),
		member("s4", "Bautista", nil, rec("Calculus", "2.00", "3")),
		member("s5", "Garcia", nil, rec("Calculus", "1.50", "3"), rec("NSTP 1", "1.00", "3"), rec("Thesis", "0.00", "3")),
		member("s6", "Lim", nil, other),
	}

	got := BuildRanking(cohort, period, shared.HonorDeansList)

	wantIDs := []string{"s3", "s5", "s2", "s1"}
	wantRanks := []int{1, 2, 2, 2}
	if len(got) != len(wantIDs) {
		t.Fatalf("expected %d entries, got %d: %+v", len(wantIDs), len(got), got)
	}
	for i, e := range got {
		if e.StudentID != wantIDs[i] || e.Rank != wantRanks[i] {
			t.Errorf("entry %d: got (%s, rank %d), want (%s, rank %d)", i, e.StudentID, e.Rank, wantIDs[i], wantRanks[i])
		}
	}

	t.Run("NSTP Counted In Export", func(t *testing.T) {
		if !got[1].GWA.Equal(dec("1.25")) {
			t.Errorf("Garcia's export GWA should include NSTP: got %s", got[1].GWA)
		}
	})

	t.Run("Latin Honors Require Approval", func(t *testing.T) {
		cohort := []CohortMember{
			member("s1", "Santos", []shared.HonorType{shared.HonorSummaCumLaude}, rec("Calculus", "1.10", "3")),
			member("s2", "Reyes", []shared.HonorType{shared.HonorDeansList}, rec("Calculus", "1.05", "3")),
			member("s3", "Cruz", nil, rec("Calculus", "1.00", "3")),
		}
		got := BuildRanking(cohort, period, shared.HonorSummaCumLaude)
		if len(got) != 1 || got[0].StudentID != "s1" || got[0].Rank != 1 {
			t.Errorf("expected only the approved student, got %+v", got)
		}
	})

	t.Run("Cutoff Uses Exact GWA", func(t *testing.T) {
		cohort := []CohortMember{
			member("s1", "Santos", nil, rec("Calculus", "1.75", "1")),
			member("s2", "Reyes", nil, rec("Calculus", "1.7505", "1")),
		}
		got := BuildRanking(cohort, period, shared.HonorDeansList)
		if len(got) != 1 || got[0].StudentID != "s1" {
			t.Errorf("expected only the 1.75 student, got %+v", got)
		}
	})

	t.Run("Empty Cohort", func(t *testing.T) {
		if got := BuildRanking(nil, period, shared.HonorDeansList); len(got) != 0 {
			t.Errorf("expected no entries, got %+v", got)
		}
	})
}
