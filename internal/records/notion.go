package records

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jomei/notionapi"

	"investment-digest/internal/models"
	"investment-digest/internal/security"
)

const (
	notionPageSize = 100
	// notionAPIBase is the URL the client library addresses; other base
	// URLs are reached by rewriting requests in notionTransport.
	notionAPIBase = "https://api.notion.com/v1"
)

// NotionConfig holds the settings of the hosted database client.
type NotionConfig struct {
	APIKey  string
	BaseURL string
	Version string
	Timeout time.Duration
}

// NotionSource queries a hosted Notion database.
type NotionSource struct {
	client *notionapi.Client
}

// NewNotionSource creates a Notion database client.
func NewNotionSource(cfg NotionConfig) *NotionSource {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := &notionTransport{next: http.DefaultTransport, version: cfg.Version}
	if base := strings.TrimRight(cfg.BaseURL, "/"); base != "" && base != notionAPIBase {
		if u, err := url.Parse(base); err == nil {
			transport.base = u
		}
	}

	httpClient := &http.Client{Timeout: timeout, Transport: transport}
	return &NotionSource{
		client: notionapi.NewClient(notionapi.Token(cfg.APIKey), notionapi.WithHTTPClient(httpClient)),
	}
}

// Name returns the source name.
func (n *NotionSource) Name() string {
	return "notion"
}

// Query pages through the database query endpoint until has_more is false.
func (n *NotionSource) Query(ctx context.Context, collectionID string, sorts []SortSpec) ([]models.RawRecord, error) {
	req := &notionapi.DatabaseQueryRequest{PageSize: notionPageSize}
	for _, s := range sorts {
		dir := notionapi.SortOrderDESC
		if s.Ascending {
			dir = notionapi.SortOrderASC
		}
		req.Sorts = append(req.Sorts, notionapi.SortObject{Property: s.Field, Direction: dir})
	}

	all := []models.RawRecord{}
	for {
		page, err := n.client.Database.Query(ctx, notionapi.DatabaseID(collectionID), req)
		if err != nil {
			return nil, queryError(err)
		}
		for _, p := range page.Results {
			all = append(all, pageToRecord(p))
		}

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		req.StartCursor = page.NextCursor
	}
	return all, nil
}

func queryError(err error) error {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("query returned status %d (%s): %s",
			apiErr.Status, apiErr.Code, security.MaskString(apiErr.Message))
	}
	return fmt.Errorf("querying database: %w", security.MaskError(err))
}

// pageToRecord copies the properties the digest reads into a RawRecord.
// Other property types are dropped.
func pageToRecord(p notionapi.Page) models.RawRecord {
	props := map[string]models.Property{}
	for name, prop := range p.Properties {
		switch v := prop.(type) {
		case *notionapi.TitleProperty:
			props[name] = models.Property{Type: models.PropertyTitle, Title: richText(v.Title)}
		case *notionapi.RichTextProperty:
			props[name] = models.Property{Type: models.PropertyRichText, RichText: richText(v.RichText)}
		case *notionapi.NumberProperty:
			number := v.Number
			props[name] = models.Property{Type: models.PropertyNumber, Number: &number}
		case *notionapi.SelectProperty:
			if v.Select.Name != "" {
				props[name] = models.Property{
					Type:   models.PropertySelect,
					Select: &models.SelectOption{Name: v.Select.Name},
				}
			}
		case *notionapi.DateProperty:
			if v.Date != nil && v.Date.Start != nil {
				props[name] = models.Property{
					Type: models.PropertyDate,
					Date: &models.DateValue{Start: notionDate(v.Date.Start)},
				}
			}
		}
	}
	return models.RawRecord{ID: string(p.ID), URL: p.URL, Properties: props}
}

func richText(in []notionapi.RichText) []models.RichText {
	out := make([]models.RichText, 0, len(in))
	for _, rt := range in {
		out = append(out, models.RichText{PlainText: rt.PlainText})
	}
	return out
}

// notionDate formats a decoded date back to its wire form. Date-only values
// decode to UTC midnight and are written without a time.
func notionDate(d *notionapi.Date) string {
	t := time.Time(*d)
	if t.Location() == time.UTC && t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format(time.RFC3339)
}

// notionTransport pins the Notion-Version header and, when a custom base URL
// is configured, redirects requests to it.
type notionTransport struct {
	next    http.RoundTripper
	version string
	base    *url.URL
}

func (t *notionTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.version != "" {
		req.Header.Set("Notion-Version", t.version)
	}
	req.Header.Set("User-Agent", "InvestmentDigest/1.0")
	if t.base != nil {
		req.URL.Scheme = t.base.Scheme
		req.URL.Host = t.base.Host
		req.URL.Path = strings.TrimRight(t.base.Path, "/") + strings.TrimPrefix(req.URL.Path, "/v1")
		req.URL.RawPath = ""
		req.Host = ""
	}
	return t.next.RoundTrip(req)
}
