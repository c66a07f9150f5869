package digest

import (
	"fmt"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"investment-digest/internal/models"
)

// Property: buckets partition the records that have a date within the
// reporting horizon, and every bucket agrees with the literal comparisons.
func TestProperty_BucketPartition(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("each dated record lands in at most one bucket", prop.ForAll(
		func(offsets []int) bool {
			records := make([]models.RawRecord, len(offsets))
			for i, off := range offsets {
				records[i] = record(fmt.Sprintf("r%d", i), today.AddDate(0, 0, off))
			}

			report := Categorize(records, today)

			seen := map[string]int{}
			for _, bucket := range [][]models.Investment{report.Overdue, report.DueToday, report.ThisWeek, report.ThisMonth} {
				for _, inv := range bucket {
					seen[inv.ID]++
				}
			}

			for i, off := range offsets {
				id := fmt.Sprintf("r%d", i)
				inHorizon := off < MonthDays
				if inHorizon && seen[id] != 1 {
					t.Logf("offset %d: expected exactly one bucket, got %d", off, seen[id])
					return false
				}
				if !inHorizon && seen[id] != 0 {
					t.Logf("offset %d: expected no bucket, got %d", off, seen[id])
					return false
				}
			}
			return report.Total() == len(offsets)
		},
		gen.SliceOf(gen.IntRange(-60, 60)),
	))

	properties.Property("bucket membership follows the comparisons", prop.ForAll(
		func(off int) bool {
			report := Categorize([]models.RawRecord{record("r", today.AddDate(0, 0, off))}, today)
			switch {
			case off < 0:
				return len(report.Overdue) == 1
			case off == 0:
				return len(report.DueToday) == 1
			case off < WeekDays:
				return len(report.ThisWeek) == 1
			case off < MonthDays:
				return len(report.ThisMonth) == 1
			default:
				return len(report.Overdue)+len(report.DueToday)+len(report.ThisWeek)+len(report.ThisMonth) == 0
			}
		},
		gen.IntRange(-400, 400),
	))

	properties.Property("days overdue matches offset", prop.ForAll(
		func(days int) bool {
			return DaysOverdue(today.AddDate(0, 0, -days), today) == days
		},
		gen.IntRange(1, 3650),
	))

	properties.Property("categorize does not depend on the time of day", prop.ForAll(
		func(off int, minutes int) bool {
			rec := record("r", today.AddDate(0, 0, off))
			a := Categorize([]models.RawRecord{rec}, today)
			b := Categorize([]models.RawRecord{rec}, today.Add(time.Duration(minutes)*time.Minute))
			return len(a.Overdue) == len(b.Overdue) &&
				len(a.DueToday) == len(b.DueToday) &&
				len(a.ThisWeek) == len(b.ThisWeek) &&
				len(a.ThisMonth) == len(b.ThisMonth)
		},
		gen.IntRange(-40, 40),
		gen.IntRange(0, 24*60-1),
	))

	properties.TestingRun(t)
}
