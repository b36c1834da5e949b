package gwa

import (
	"fmt"
	"regexp"
	"strings"

	"honors_gwa/backend/internal/shared"
)

var periodLabelPattern = regexp.MustCompile(`(?i)^\s*(1st|2nd|summer)(?:\s+semester)?\s+SY\s+(\d{4}(?:\s*-\s*\d{4})?)\s*$`)

// ParsePeriodLabel parses a semester_taken label such as
// "1st Semester SY 2024-2025" or "Summer SY 2024".
func ParsePeriodLabel(label string) (shared.Semester, string, error) {
	m := periodLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return "", "", fmt.Errorf("unrecognized period label %q", label)
	}

	var sem shared.Semester
	switch strings.ToLower(m[1]) {
	case "1st":
		sem = shared.SemesterFirst
	case "2nd":
		sem = shared.SemesterSecond
	default:
		sem = shared.SemesterSummer
	}

	year := strings.Join(strings.Fields(strings.ReplaceAll(m[2], "-", " ")), "-")
	return sem, year, nil
}

// semesterRank orders semesters within a school year: 2nd > 1st > Summer > other.
func semesterRank(s shared.Semester) int {
	switch s {
	case shared.SemesterSecond:
		return 3
	case shared.SemesterFirst:
		return 2
	case shared.SemesterSummer:
		return 1
	default:
		return 0
	}
}

// ComparePeriods orders periods by (school_year, semester), school year compared
// lexicographically.
func ComparePeriods(a, b shared.AcademicPeriod) int {
	if c := strings.Compare(a.SchoolYear, b.SchoolYear); c != 0 {
		return c
	}
	ra, rb := semesterRank(a.Semester), semesterRank(b.Semester)
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// MostRecent returns the greatest period by ComparePeriods. The first of equal
// periods wins.
func MostRecent(periods []shared.AcademicPeriod) (shared.AcademicPeriod, bool) {
	if len(periods) == 0 {
		return shared.AcademicPeriod{}, false
	}
	best := periods[0]
	for _, p := range periods[1:] {
		if ComparePeriods(p, best) > 0 {
			best = p
		}
	}
	return best, true
}

// CountRegularSemesters counts distinct semester_taken labels that name a 1st
// or 2nd semester. Summer terms do not count.
func CountRegularSemesters(records []shared.GradeRecord) int {
	labels := make([]string, 0, len(records))
	for _, r := range records {
		labels = append(labels, r.SemesterTaken)
	}
	return CountRegularSemesterLabels(labels)
}

// CountRegularSemesterLabels is CountRegularSemesters over bare labels.
func CountRegularSemesterLabels(labels []string) int {
	seen := make(map[string]struct{}, len(labels))
	for _, l := range labels {
		if !strings.Contains(l, "1st Semester") && !strings.Contains(l, "2nd Semester") {
			continue
		}
		seen[l] = struct{}{}
	}
	return len(seen)
}
