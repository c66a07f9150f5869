// Package digest maps raw records to investments and buckets them by due date.
package digest

import (
	"strings"
	"time"

	"investment-digest/internal/models"
)

// Window sizes, in days, of the forward-looking buckets.
const (
	WeekDays  = 7
	MonthDays = 30
)

// dateLayouts are tried in order when parsing a date property.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05.000Z07:00",
	"2006-01-02T15:04:05",
}

// NewInvestment extracts the fixed set of investment fields from a raw record,
// applying defaults for absent properties. It reports false when the record
// has no parseable next-action date; such records belong to no bucket.
// The due date is interpreted as a calendar day in loc.
func NewInvestment(raw models.RawRecord, loc *time.Location) (models.Investment, bool) {
	due, ok := dueDate(raw, loc)
	if !ok {
		return models.Investment{}, false
	}

	inv := models.Investment{
		ID:             raw.ID,
		CompanyName:    models.DefaultCompanyName,
		NextActionDate: due,
		NextAction:     models.DefaultNextAction,
		Status:         models.DefaultStatus,
		URL:            raw.URL,
	}

	if p, ok := raw.Properties[models.FieldCompanyName]; ok && len(p.Title) > 0 {
		inv.CompanyName = models.PlainText(p.Title)
	}
	if p, ok := raw.Properties[models.FieldNextAction]; ok && len(p.RichText) > 0 {
		inv.NextAction = models.PlainText(p.RichText)
	}
	if p, ok := raw.Properties[models.FieldAmount]; ok && p.Number != nil {
		inv.Amount = *p.Number
	}
	if p, ok := raw.Properties[models.FieldStatus]; ok && p.Select != nil {
		inv.Status = p.Select.Name
	}
	if p, ok := raw.Properties[models.FieldNotes]; ok && len(p.RichText) > 0 {
		inv.Notes = models.PlainText(p.RichText)
	}

	return inv, true
}

func dueDate(raw models.RawRecord, loc *time.Location) (time.Time, bool) {
	p, ok := raw.Properties[models.FieldNextActionDate]
	if !ok || p.Date == nil {
		return time.Time{}, false
	}
	return ParseDate(p.Date.Start, loc)
}

// ParseDate parses a date or datetime string and returns its calendar day at
// midnight in loc. Date-only values name that day directly; datetimes with an
// offset are converted into loc first, so the day is the one observed there.
func ParseDate(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range dateLayouts {
		parsed, err := time.ParseInLocation(layout, value, loc)
		if err != nil {
			continue
		}
		return DateOnly(parsed.In(loc)), true
	}
	return time.Time{}, false
}

// DateOnly strips the time of day, keeping the location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Categorize buckets records relative to today. It is a pure function of its
// arguments. The first matching rule wins:
//
//	due <  today        overdue
//	due == today        due today
//	due <  today+7      this week
//	due <  today+30     this month
//
// Anything later, or without a parseable date, is left out of every bucket but
// stays in the raw list.
func Categorize(records []models.RawRecord, today time.Time) models.CategorizedReport {
	today = DateOnly(today)
	nextWeek := today.AddDate(0, 0, WeekDays)
	nextMonth := today.AddDate(0, 0, MonthDays)

	report := models.CategorizedReport{
		Overdue:   []models.Investment{},
		DueToday:  []models.Investment{},
		ThisWeek:  []models.Investment{},
		ThisMonth: []models.Investment{},
		All:       records,
	}

	for _, raw := range records {
		inv, ok := NewInvestment(raw, today.Location())
		if !ok {
			continue
		}
		due := inv.NextActionDate

		switch {
		case due.Before(today):
			report.Overdue = append(report.Overdue, inv)
		case due.Equal(today):
			report.DueToday = append(report.DueToday, inv)
		case due.Before(nextWeek):
			report.ThisWeek = append(report.ThisWeek, inv)
		case due.Before(nextMonth):
			report.ThisMonth = append(report.ThisMonth, inv)
		}
	}

	return report
}

// DaysOverdue returns the whole number of calendar days between due and today.
// It is zero when due is not before today.
func DaysOverdue(due, today time.Time) int {
	d := civilDay(due)
	t := civilDay(today)
	if !d.Before(t) {
		return 0
	}
	return int(t.Sub(d).Hours() / 24)
}

// civilDay maps a date to UTC midnight so that day arithmetic ignores DST shifts.
func civilDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
