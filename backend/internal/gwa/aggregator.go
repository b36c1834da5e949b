// Package gwa holds the grade arithmetic behind honor eligibility: GWA
// aggregation, period ordering, eligibility rules and competition ranking.
// Everything here is a pure function of its inputs.
package gwa

import (
	"github.com/shopspring/decimal"

	"honors_gwa/backend/internal/shared"
)

// Variant selects which records an aggregation drops.
type Variant int

const (
	// Strict drops NSTP subjects (by name) and ongoing 0.00 grades.
	Strict Variant = iota
	// RankingExport drops only non-positive grades. NSTP subjects with a grade
	// are counted, matching the printed honor rolls.
	RankingExport
)

func (v Variant) String() string {
	switch v {
	case Strict:
		return "strict"
	case RankingExport:
		return "ranking_export"
	default:
		return "unknown"
	}
}

func (v Variant) excludes(r shared.GradeRecord) bool {
	switch v {
	case RankingExport:
		return !r.Grade.IsPositive()
	default:
		return r.IsNSTP() || r.IsOngoing()
	}
}

var hundred = decimal.NewFromInt(100)

// Aggregate folds records into a GWA using the Strict variant.
func Aggregate(records []shared.GradeRecord) *shared.GWAResult {
	return AggregateWith(Strict, records)
}

// AggregateWith folds records into a GWA. It returns nil when no units remain
// after exclusions; a GWA of zero is never produced.
func AggregateWith(v Variant, records []shared.GradeRecord) *shared.GWAResult {
	weighted := decimal.Zero
	units := decimal.Zero
	count := 0

	for _, r := range records {
		if v.excludes(r) {
			continue
		}
		weighted = weighted.Add(r.Grade.Mul(r.Units))
		units = units.Add(r.Units)
		count++
	}

	if !units.IsPositive() {
		return nil
	}

	return &shared.GWAResult{
		Value:         Truncate2(weighted, units),
		Exact:         weighted.Div(units),
		TotalUnits:    units,
		SubjectsCount: count,
	}
}

// Truncate2 returns floor(num/den * 100) / 100 for positive operands, computed
// with an exact integer quotient so no intermediate rounding can lift the value
// across a cut.
func Truncate2(num, den decimal.Decimal) decimal.Decimal {
	q, _ := num.Mul(hundred).QuoRem(den, 0)
	return q.Shift(-2)
}
