package gwa

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"honors_gwa/backend/internal/shared"
)

// RankingCutoff is the highest GWA printed on any honor roll.
var RankingCutoff = decimal.RequireFromString("1.75")

// CohortMember is one student considered for a ranking export.
type CohortMember struct {
	Student shared.Student
	Records []shared.GradeRecord

	// Approved lists honors the student holds an approved application for.
	Approved []shared.HonorType
}

// RankingEntry is one printed line of an honor roll.
type RankingEntry struct {
	StudentID string          `json:"student_id"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Section   string          `json:"section"`
	YearLevel int             `json:"year_level"`
	GWA       decimal.Decimal `json:"gwa"` // rounded to 3 decimal places
	Rank      int             `json:"rank"`
}

// BuildRanking computes each member's GWA over the records taken in
// periodLabel with the RankingExport variant, keeps GWAs at or below the cutoff
// (and, for Latin honors, members approved for that honor), then sorts and
// assigns competition ranks.
func BuildRanking(cohort []CohortMember, periodLabel string, honor shared.HonorType) []RankingEntry {
	entries := make([]RankingEntry, 0, len(cohort))

	for _, m := range cohort {
		var inPeriod []shared.GradeRecord
		for _, r := range m.Records {
			if r.SemesterTaken == periodLabel {
				inPeriod = append(inPeriod, r)
			}
		}

		res := AggregateWith(RankingExport, inPeriod)
		// The export never truncates, so the cutoff applies to the exact GWA.
		if res == nil || res.Exact.GreaterThan(RankingCutoff) {
			continue
		}
		if honor.IsLatin() && !slices.Contains(m.Approved, honor) {
			continue
		}

		entries = append(entries, RankingEntry{
			StudentID: m.Student.ID,
			FirstName: m.Student.FirstName,
			LastName:  m.Student.LastName,
			Section:   m.Student.Section,
			YearLevel: m.Student.YearLevel,
			GWA:       res.Exact.Round(3),
		})
	}

	slices.SortStableFunc(entries, func(a, b RankingEntry) int {
		if c := a.GWA.Cmp(b.GWA); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.LastName), strings.ToLower(b.LastName))
	})

	AssignCompetitionRanks(entries)
	return entries
}

// AssignCompetitionRanks sets 1-1-3 style ranks on entries already sorted by
// GWA: equal GWAs (at 3 decimal places) share a rank and the next distinct GWA
// takes its 1-based position.
func AssignCompetitionRanks(entries []RankingEntry) {
	for i := range entries {
		if i > 0 && entries[i].GWA.Round(3).Equal(entries[i-1].GWA.Round(3)) {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
