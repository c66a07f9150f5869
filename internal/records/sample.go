package records

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"investment-digest/internal/models"
	"investment-digest/pkg/utils"
)

var sampleCompanies = []string{
	"TechStart AI", "FinanceFlow", "HealthHub", "EduLearn", "GreenEnergy Co",
	"DataSync", "CloudBase", "SecureNet", "MarketPlace Pro", "AutoDrive",
}

var sampleActions = []string{
	"Schedule quarterly review call",
	"Review latest board deck",
	"Follow up on hiring plans",
	"Check product roadmap progress",
	"Discuss Series A fundraising",
	"Review financial statements",
	"Connect with new CEO",
	"Evaluate exit opportunities",
	"Update valuation model",
	"Schedule site visit",
}

var sampleStatuses = []string{"Active", "Active", "Active", "On Hold", "Exited"}

// SampleSource generates a fixed-size synthetic portfolio relative to Today.
// The same seed and day always produce the same records.
type SampleSource struct {
	Today time.Time
	Seed  int64
}

// NewSampleSource creates a sample source anchored at today.
func NewSampleSource(today time.Time, seed int64) *SampleSource {
	return &SampleSource{Today: today, Seed: seed}
}

// Name returns the source name.
func (s *SampleSource) Name() string {
	return "sample"
}

// Query returns the generated records. Only ascending next action date
// ordering is supported; other sort specs leave generation order.
func (s *SampleSource) Query(ctx context.Context, _ string, sorts []SortSpec) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recs := s.Generate()
	if len(sorts) > 0 && sorts[0].Field == models.FieldNextActionDate && sorts[0].Ascending {
		sort.SliceStable(recs, func(i, j int) bool {
			return recs[i].Properties[models.FieldNextActionDate].Date.Start <
				recs[j].Properties[models.FieldNextActionDate].Date.Start
		})
	}
	return recs, nil
}

// Generate builds ten records: two overdue, one due today, two this week and
// five later in the month.
func (s *SampleSource) Generate() []models.RawRecord {
	rng := rand.New(rand.NewSource(s.Seed))
	today := s.Today

	recs := make([]models.RawRecord, 0, len(sampleCompanies))
	for i, company := range sampleCompanies {
		var offset int
		switch {
		case i < 2:
			offset = -(rng.Intn(10) + 1)
		case i < 3:
			offset = 0
		case i < 5:
			offset = rng.Intn(6) + 1
		default:
			offset = rng.Intn(20) + 7
		}

		due := today.AddDate(0, 0, offset)
		amount := float64(rng.Intn(100000) + 10000)
		status := sampleStatuses[rng.Intn(len(sampleStatuses))]

		recs = append(recs, models.RawRecord{
			ID:  fmt.Sprintf("sample-%d", i),
			URL: fmt.Sprintf("https://notion.so/sample-%d", i),
			Properties: map[string]models.Property{
				models.FieldCompanyName: {
					Type:  models.PropertyTitle,
					Title: []models.RichText{{PlainText: company}},
				},
				models.FieldNextActionDate: {
					Type: models.PropertyDate,
					Date: &models.DateValue{Start: utils.FormatDate(due)},
				},
				models.FieldNextAction: {
					Type:     models.PropertyRichText,
					RichText: []models.RichText{{PlainText: sampleActions[i]}},
				},
				models.FieldAmount: {
					Type:   models.PropertyNumber,
					Number: &amount,
				},
				models.FieldStatus: {
					Type:   models.PropertySelect,
					Select: &models.SelectOption{Name: status},
				},
				models.FieldNotes: {
					Type:     models.PropertyRichText,
					RichText: []models.RichText{{PlainText: "Sample note for " + company}},
				},
			},
		})
	}
	return recs
}
