// Package models provides domain models for the investment digest.
package models

import (
	"strings"
	"time"
)

// Property names used by the investment tracker collection.
const (
	FieldCompanyName    = "Company Name"
	FieldNextActionDate = "Next Action Date"
	FieldNextAction     = "Next Action Description"
	FieldAmount         = "Amount Invested"
	FieldStatus         = "Current Status"
	FieldNotes          = "Notes"
)

// Defaults applied when a property is absent.
const (
	DefaultCompanyName = "Unknown"
	DefaultNextAction  = "No action specified"
	DefaultStatus      = "Active"
)

// StatusActive is the status value counted as an active investment.
const StatusActive = "Active"

// PropertyType identifies the kind of value a property carries.
type PropertyType string

const (
	PropertyTitle    PropertyType = "title"
	PropertyRichText PropertyType = "rich_text"
	PropertyDate     PropertyType = "date"
	PropertyNumber   PropertyType = "number"
	PropertySelect   PropertyType = "select"
)

// RawRecord is one entry as returned by the records store.
type RawRecord struct {
	ID         string              `json:"id"`
	URL        string              `json:"url"`
	Properties map[string]Property `json:"properties"`
}

// Property is a typed value from the record's property bag.
type Property struct {
	Type     PropertyType  `json:"type"`
	Title    []RichText    `json:"title,omitempty"`
	RichText []RichText    `json:"rich_text,omitempty"`
	Date     *DateValue    `json:"date,omitempty"`
	Number   *float64      `json:"number,omitempty"`
	Select   *SelectOption `json:"select,omitempty"`
}

// RichText is a fragment of formatted text.
type RichText struct {
	PlainText string `json:"plain_text"`
}

// DateValue holds a date property. Start is an ISO 8601 date or datetime.
type DateValue struct {
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
}

// SelectOption is the chosen option of a select property.
type SelectOption struct {
	Name string `json:"name"`
}

// PlainText joins rich text fragments.
func PlainText(fragments []RichText) string {
	var sb strings.Builder
	for _, f := range fragments {
		sb.WriteString(f.PlainText)
	}
	return sb.String()
}

// Status returns the select value of the status property, or "" when absent.
func (r RawRecord) Status() string {
	p, ok := r.Properties[FieldStatus]
	if !ok || p.Select == nil {
		return ""
	}
	return p.Select.Name
}

// Investment is the normalized view of a record. It is built once and never mutated.
type Investment struct {
	ID             string
	CompanyName    string
	NextActionDate time.Time
	NextAction     string
	Amount         float64
	Status         string
	Notes          string
	URL            string
}

// CategorizedReport groups investments into disjoint due-date buckets.
// Each bucket keeps the ascending due-date order of the fetch.
type CategorizedReport struct {
	Overdue   []Investment
	DueToday  []Investment
	ThisWeek  []Investment
	ThisMonth []Investment

	// All is the unfiltered raw list used for aggregate statistics.
	All []RawRecord
}

// ActionCount is the number of items needing attention now.
func (r CategorizedReport) ActionCount() int {
	return len(r.Overdue) + len(r.DueToday)
}

// Total returns the raw record count.
func (r CategorizedReport) Total() int {
	return len(r.All)
}

// ActiveCount counts raw records whose status is exactly "Active".
func (r CategorizedReport) ActiveCount() int {
	n := 0
	for _, rec := range r.All {
		if rec.Status() == StatusActive {
			n++
		}
	}
	return n
}

// BucketCounts returns per-bucket sizes keyed by a stable label.
func (r CategorizedReport) BucketCounts() map[string]int {
	return map[string]int{
		"overdue":    len(r.Overdue),
		"due_today":  len(r.DueToday),
		"this_week":  len(r.ThisWeek),
		"this_month": len(r.ThisMonth),
	}
}
