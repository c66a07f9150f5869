// Package render turns a categorized report into a self-contained HTML email.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
	"time"

	"investment-digest/internal/digest"
	"investment-digest/internal/models"
	"investment-digest/pkg/utils"
)

// MonthLimit caps the number of entries listed in the this-month section.
const MonthLimit = 5

//go:embed templates/report.html.tmpl
var templates embed.FS

var reportTemplate = template.Must(template.ParseFS(templates, "templates/report.html.tmpl"))

// Renderer renders reports. The zero value formats amounts in USD and links
// the footer to the Notion home page.
type Renderer struct {
	Currency  string
	SourceURL string
}

// NewRenderer creates a renderer for the given currency and footer link.
func NewRenderer(currency, sourceURL string) *Renderer {
	return &Renderer{Currency: currency, SourceURL: sourceURL}
}

type entry struct {
	Company     string
	Amount      string
	Action      string
	DaysOverdue int
	ShortDate   string
	URL         string
}

type reportView struct {
	Date           string
	Total          int
	Active         int
	ActionCount    int
	AllClear       bool
	Overdue        []entry
	DueToday       []entry
	ThisWeek       []entry
	ThisMonth      []entry
	ThisMonthTotal int
	MoreThisMonth  int
	SourceURL      template.URL
}

// Render produces the HTML document for report as of today. It does not
// modify report and returns the same output for the same inputs.
func (r *Renderer) Render(report models.CategorizedReport, today time.Time) (string, error) {
	view := r.view(report, today)

	var b strings.Builder
	if err := reportTemplate.Execute(&b, view); err != nil {
		return "", fmt.Errorf("rendering report: %w", err)
	}
	return b.String(), nil
}

func (r *Renderer) view(report models.CategorizedReport, today time.Time) reportView {
	v := reportView{
		Date:           utils.FormatLongDate(today),
		Total:          report.Total(),
		Active:         report.ActiveCount(),
		ActionCount:    report.ActionCount(),
		AllClear:       report.ActionCount() == 0 && len(report.ThisWeek) == 0,
		ThisMonthTotal: len(report.ThisMonth),
		SourceURL:      template.URL(r.sourceURL()),
	}

	for _, inv := range report.Overdue {
		e := r.entry(inv)
		e.DaysOverdue = digest.DaysOverdue(inv.NextActionDate, today)
		v.Overdue = append(v.Overdue, e)
	}
	for _, inv := range report.DueToday {
		v.DueToday = append(v.DueToday, r.entry(inv))
	}
	for _, inv := range report.ThisWeek {
		v.ThisWeek = append(v.ThisWeek, r.datedEntry(inv))
	}

	month := report.ThisMonth
	if len(month) > MonthLimit {
		v.MoreThisMonth = len(month) - MonthLimit
		month = month[:MonthLimit]
	}
	for _, inv := range month {
		v.ThisMonth = append(v.ThisMonth, r.datedEntry(inv))
	}

	return v
}

func (r *Renderer) entry(inv models.Investment) entry {
	e := entry{
		Company: inv.CompanyName,
		Action:  inv.NextAction,
		URL:     inv.URL,
	}
	if inv.Amount != 0 {
		e.Amount = utils.FormatCurrency(inv.Amount, r.currency())
	}
	return e
}

func (r *Renderer) datedEntry(inv models.Investment) entry {
	return entry{
		Company:   inv.CompanyName,
		Action:    inv.NextAction,
		ShortDate: utils.FormatShortDate(inv.NextActionDate),
	}
}

func (r *Renderer) currency() string {
	if r.Currency == "" {
		return utils.DefaultCurrency
	}
	return r.Currency
}

func (r *Renderer) sourceURL() string {
	if r.SourceURL == "" {
		return "https://www.notion.so"
	}
	return r.SourceURL
}
