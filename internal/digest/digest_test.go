package digest

import (
	"testing"
	"time"

	"investment-digest/internal/models"
)

var today = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

func record(id string, due time.Time) models.RawRecord {
	return recordWithDate(id, due.Format("2006-01-02"))
}

func recordWithDate(id, start string) models.RawRecord {
	props := map[string]models.Property{
		models.FieldCompanyName: {
			Type:  models.PropertyTitle,
			Title: []models.RichText{{PlainText: "Company " + id}},
		},
	}
	if start != "" {
		props[models.FieldNextActionDate] = models.Property{
			Type: models.PropertyDate,
			Date: &models.DateValue{Start: start},
		}
	}
	return models.RawRecord{ID: id, URL: "https://example.com/" + id, Properties: props}
}

func bucketOf(r models.CategorizedReport, id string) []string {
	var found []string
	check := func(name string, items []models.Investment) {
		for _, inv := range items {
			if inv.ID == id {
				found = append(found, name)
			}
		}
	}
	check("overdue", r.Overdue)
	check("due_today", r.DueToday)
	check("this_week", r.ThisWeek)
	check("this_month", r.ThisMonth)
	return found
}

func TestCategorizeBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		want   string
	}{
		{"long overdue", -10, "overdue"},
		{"yesterday", -1, "overdue"},
		{"today", 0, "due_today"},
		{"tomorrow", 1, "this_week"},
		{"six days", 6, "this_week"},
		{"seven days", 7, "this_month"},
		{"twenty nine days", 29, "this_month"},
		{"thirty days", 30, ""},
		{"forty days", 40, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := record("r", today.AddDate(0, 0, tt.offset))
			report := Categorize([]models.RawRecord{rec}, today)

			got := bucketOf(report, "r")
			if tt.want == "" {
				if len(got) != 0 {
					t.Fatalf("expected no bucket, got %v", got)
				}
			} else if len(got) != 1 || got[0] != tt.want {
				t.Fatalf("expected [%s], got %v", tt.want, got)
			}
			if report.Total() != 1 {
				t.Fatalf("expected raw total 1, got %d", report.Total())
			}
		})
	}
}

func TestCategorizeSkipsMissingAndUnparseableDates(t *testing.T) {
	records := []models.RawRecord{
		recordWithDate("missing", ""),
		recordWithDate("garbage", "next tuesday"),
		record("ok", today),
	}

	report := Categorize(records, today)

	if report.Total() != 3 {
		t.Fatalf("expected raw total 3, got %d", report.Total())
	}
	if got := bucketOf(report, "missing"); len(got) != 0 {
		t.Fatalf("record without date landed in %v", got)
	}
	if got := bucketOf(report, "garbage"); len(got) != 0 {
		t.Fatalf("record with bad date landed in %v", got)
	}
	if len(report.DueToday) != 1 {
		t.Fatalf("expected 1 due today, got %d", len(report.DueToday))
	}
}

func TestCategorizeIgnoresTimeOfDay(t *testing.T) {
	afternoon := today.Add(15 * time.Hour)
	rec := recordWithDate("r", "2026-03-10T09:30:00.000+00:00")

	report := Categorize([]models.RawRecord{rec}, afternoon)

	if len(report.DueToday) != 1 {
		t.Fatalf("expected datetime on today to be due today, got %+v", report)
	}
}

func TestCategorizeConvertsDatetimeIntoReportZone(t *testing.T) {
	// 23:30 in UTC-8 on the 10th is 07:30 UTC on the 11th.
	rec := recordWithDate("r", "2026-03-10T23:30:00.000-08:00")
	nextDay := today.AddDate(0, 0, 1)

	report := Categorize([]models.RawRecord{rec}, nextDay)

	if len(report.DueToday) != 1 || len(report.Overdue) != 0 {
		t.Fatalf("expected due today after zone conversion, got overdue=%d dueToday=%d",
			len(report.Overdue), len(report.DueToday))
	}
}

func TestParseDateZones(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	tests := []struct {
		name  string
		value string
		loc   *time.Location
		want  time.Time
	}{
		{"date only stays literal", "2026-03-10", tokyo, time.Date(2026, 3, 10, 0, 0, 0, 0, tokyo)},
		{"offset datetime shifts forward", "2026-03-10T20:00:00Z", tokyo, time.Date(2026, 3, 11, 0, 0, 0, 0, tokyo)},
		{"offset datetime shifts back", "2026-03-10T02:00:00+09:00", time.UTC, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)},
		{"local datetime keeps its day", "2026-03-10T23:59:00", tokyo, time.Date(2026, 3, 10, 0, 0, 0, 0, tokyo)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseDate(tt.value, tt.loc)
			if !ok {
				t.Fatalf("ParseDate(%q) failed", tt.value)
			}
			if !got.Equal(tt.want) {
				t.Fatalf("ParseDate(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestCategorizeKeepsOrder(t *testing.T) {
	records := []models.RawRecord{
		record("a", today.AddDate(0, 0, -5)),
		record("b", today.AddDate(0, 0, -2)),
		record("c", today.AddDate(0, 0, 8)),
		record("d", today.AddDate(0, 0, 12)),
	}

	report := Categorize(records, today)

	if len(report.Overdue) != 2 || report.Overdue[0].ID != "a" || report.Overdue[1].ID != "b" {
		t.Fatalf("unexpected overdue order: %+v", report.Overdue)
	}
	if len(report.ThisMonth) != 2 || report.ThisMonth[0].ID != "c" || report.ThisMonth[1].ID != "d" {
		t.Fatalf("unexpected this month order: %+v", report.ThisMonth)
	}
}

func TestCategorizeEmpty(t *testing.T) {
	report := Categorize(nil, today)
	if report.Total() != 0 || report.ActionCount() != 0 || report.ActiveCount() != 0 {
		t.Fatalf("expected zero stats, got total=%d action=%d active=%d",
			report.Total(), report.ActionCount(), report.ActiveCount())
	}
}

func TestNewInvestmentDefaults(t *testing.T) {
	rec := models.RawRecord{
		ID:  "x",
		URL: "https://example.com/x",
		Properties: map[string]models.Property{
			models.FieldNextActionDate: {Type: models.PropertyDate, Date: &models.DateValue{Start: "2026-03-12"}},
		},
	}

	inv, ok := NewInvestment(rec, time.UTC)
	if !ok {
		t.Fatal("expected record with date to map")
	}
	if inv.CompanyName != models.DefaultCompanyName {
		t.Errorf("company default: got %q", inv.CompanyName)
	}
	if inv.NextAction != models.DefaultNextAction {
		t.Errorf("action default: got %q", inv.NextAction)
	}
	if inv.Status != models.DefaultStatus {
		t.Errorf("status default: got %q", inv.Status)
	}
	if inv.Amount != 0 || inv.Notes != "" {
		t.Errorf("amount/notes defaults: got %v %q", inv.Amount, inv.Notes)
	}
	if !inv.NextActionDate.Equal(time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("due date: got %v", inv.NextActionDate)
	}
}

func TestNewInvestmentReadsProperties(t *testing.T) {
	amount := 25000.0
	rec := models.RawRecord{
		ID:  "y",
		URL: "https://example.com/y",
		Properties: map[string]models.Property{
			models.FieldCompanyName:    {Title: []models.RichText{{PlainText: "Data"}, {PlainText: "Sync"}}},
			models.FieldNextActionDate: {Date: &models.DateValue{Start: "2026-03-12"}},
			models.FieldNextAction:     {RichText: []models.RichText{{PlainText: "Review board deck"}}},
			models.FieldAmount:         {Number: &amount},
			models.FieldStatus:         {Select: &models.SelectOption{Name: "On Hold"}},
			models.FieldNotes:          {RichText: []models.RichText{{PlainText: "call CFO"}}},
		},
	}

	inv, ok := NewInvestment(rec, time.UTC)
	if !ok {
		t.Fatal("expected record to map")
	}
	if inv.CompanyName != "DataSync" || inv.NextAction != "Review board deck" ||
		inv.Amount != 25000 || inv.Status != "On Hold" || inv.Notes != "call CFO" || inv.URL != rec.URL {
		t.Fatalf("unexpected investment: %+v", inv)
	}
}

func TestDaysOverdue(t *testing.T) {
	tests := []struct {
		due  time.Time
		want int
	}{
		{today.AddDate(0, 0, -10), 10},
		{today.AddDate(0, 0, -1), 1},
		{today, 0},
		{today.AddDate(0, 0, 3), 0},
	}
	for _, tt := range tests {
		if got := DaysOverdue(tt.due, today); got != tt.want {
			t.Errorf("DaysOverdue(%s) = %d, want %d", tt.due.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestDaysOverdueAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST starts 2026-03-08 in New York.
	due := time.Date(2026, 3, 7, 0, 0, 0, 0, loc)
	now := time.Date(2026, 3, 9, 0, 0, 0, 0, loc)
	if got := DaysOverdue(due, now); got != 2 {
		t.Fatalf("expected 2 days across DST, got %d", got)
	}
}
