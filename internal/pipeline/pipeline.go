// Package pipeline runs one report: fetch, categorize, render, deliver.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"investment-digest/internal/digest"
	"investment-digest/internal/logging"
	"investment-digest/internal/models"
	"investment-digest/internal/notify"
	"investment-digest/internal/records"
	"investment-digest/internal/render"
	"investment-digest/pkg/utils"
)

// ReportFile is the name used by the save output.
const ReportFile = "report.html"

// SourceMode selects where records come from.
type SourceMode int

const (
	SourceLive SourceMode = iota
	SourceSample
)

// SendMode selects whether the email is actually sent.
type SendMode int

const (
	SendLive SendMode = iota
	SendDry
)

// OutputMode is a set of local outputs written in addition to the email.
type OutputMode uint8

const (
	OutputSave OutputMode = 1 << iota
	OutputPreview
)

// Has reports whether all bits of o are set in m.
func (m OutputMode) Has(o OutputMode) bool {
	return m&o == o
}

// Options parameterize a single run.
type Options struct {
	Source  SourceMode
	Send    SendMode
	Output  OutputMode
	Verbose bool
	// Today overrides the reference day; zero means the current day.
	Today time.Time
}

// DryRun reports whether the run must not send email. Sample runs never send.
func (o Options) DryRun() bool {
	return o.Send == SendDry || o.Source == SourceSample
}

// Tone selects the marker color of a bullet line.
type Tone int

const (
	TonePlain Tone = iota
	ToneRed
	ToneYellow
	ToneBlue
	ToneCyan
)

// Console receives human-readable progress lines.
type Console interface {
	Info(format string, args ...interface{})
	Success(format string, args ...interface{})
	Warning(format string, args ...interface{})
	Printf(format string, args ...interface{})
	// Bullet prints an indented line behind a marker in the given tone.
	Bullet(tone Tone, format string, args ...interface{})
}

// Opener opens a file for viewing.
type Opener func(path string) error

// Pipeline holds the collaborators of a run.
type Pipeline struct {
	Source       records.Source
	CollectionID string
	Renderer     *render.Renderer
	Transport    notify.Transport
	From         string
	To           string
	Location     *time.Location
	Timeout      time.Duration
	SampleSeed   int64
	OutputDir    string
	Console      Console
	Open         Opener
	Logger       zerolog.Logger
}

// Result describes what a run produced.
type Result struct {
	RunID       string
	Today       time.Time
	Report      models.CategorizedReport
	HTML        string
	SavedPath   string
	PreviewPath string
	Sent        bool
	MessageID   string
}

// Run executes the pipeline once. Any failing stage aborts the run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	runID := uuid.NewString()
	logger := logging.WithRunID(p.Logger, runID)
	ctx = logging.WithLogger(ctx, logger)

	loc := p.Location
	if loc == nil {
		loc = time.Local
	}
	today := utils.Today(loc)
	if !opts.Today.IsZero() {
		today = utils.StartOfDay(opts.Today, loc)
	}

	res := &Result{RunID: runID, Today: today}
	logger.Info().
		Str("today", utils.FormatDate(today)).
		Bool("sample", opts.Source == SourceSample).
		Bool("dry_run", opts.DryRun()).
		Msg("Starting report run")

	recs, err := p.fetch(ctx, opts, today)
	if err != nil {
		return nil, err
	}

	p.console().Info("Categorizing investments by action date...")
	res.Report = digest.Categorize(recs, today)
	p.printSummary(res.Report, opts.Verbose)

	html, err := p.renderer().Render(res.Report, today)
	if err != nil {
		return nil, err
	}
	res.HTML = html
	p.console().Success("HTML report generated successfully")

	if opts.Output.Has(OutputSave) {
		path, err := p.save(html)
		if err != nil {
			return nil, err
		}
		res.SavedPath = path
		p.console().Success("HTML saved to: %s", path)
	}

	if opts.Output.Has(OutputPreview) {
		res.PreviewPath = p.preview(logger, html)
	}

	dispatcher := notify.NewDispatcher(p.Transport, p.From, p.To, opts.DryRun())
	sendCtx, cancel := p.withTimeout(ctx)
	defer cancel()

	if !opts.DryRun() {
		p.console().Info("Sending email via %s...", p.transportName())
	}
	sent, err := dispatcher.Dispatch(sendCtx, html, res.Report)
	if err != nil {
		return nil, err
	}
	if opts.DryRun() {
		p.console().Info("Email sending skipped (dry-run or sample mode)")
		p.printDryRun(res.Report)
	} else {
		res.Sent = true
		res.MessageID = sent.ID
		p.console().Success("Email sent successfully to %s", p.To)
	}

	logger.Info().Int("action_items", res.Report.ActionCount()).Msg("Report run completed")
	return res, nil
}

func (p *Pipeline) fetch(ctx context.Context, opts Options, today time.Time) ([]models.RawRecord, error) {
	src := p.Source
	collection := p.CollectionID
	if opts.Source == SourceSample {
		p.console().Info("Using sample data (--sample flag detected)")
		src = records.NewSampleSource(today, p.SampleSeed)
		collection = "sample"
	}
	if src == nil {
		return nil, fmt.Errorf("no records source configured")
	}

	if opts.Source == SourceLive {
		p.console().Info("Fetching investments from %s...", src.Name())
	}

	fetchCtx, cancel := p.withTimeout(ctx)
	defer cancel()

	recs, err := records.Fetch(fetchCtx, src, collection)
	if err != nil {
		return nil, err
	}
	p.console().Success("Fetched %d investments from %s", len(recs), src.Name())
	return recs, nil
}

func (p *Pipeline) printSummary(report models.CategorizedReport, verbose bool) {
	c := p.console()
	c.Printf("\n")
	c.Info("📊 Report Summary:")
	c.Bullet(ToneRed, "Overdue:     %s", utils.Pluralize(len(report.Overdue), "item", "items"))
	c.Bullet(ToneYellow, "Due Today:   %s", utils.Pluralize(len(report.DueToday), "item", "items"))
	c.Bullet(ToneBlue, "This Week:   %s", utils.Pluralize(len(report.ThisWeek), "item", "items"))
	c.Bullet(ToneCyan, "This Month:  %s", utils.Pluralize(len(report.ThisMonth), "item", "items"))
	c.Printf("\n")

	if !verbose {
		return
	}
	if len(report.Overdue) > 0 {
		c.Warning("Overdue items:")
		for _, inv := range report.Overdue {
			c.Printf("   - %s: %s\n", inv.CompanyName, inv.NextAction)
		}
	}
	if len(report.DueToday) > 0 {
		c.Info("Due today:")
		for _, inv := range report.DueToday {
			c.Printf("   - %s: %s\n", inv.CompanyName, inv.NextAction)
		}
	}
}

// printDryRun shows what would have been sent.
func (p *Pipeline) printDryRun(report models.CategorizedReport) {
	c := p.console()
	to := p.To
	if to == "" {
		to = "(no recipient configured)"
	}
	counts := report.BucketCounts()
	c.Printf("   To:      %s\n", to)
	c.Printf("   Subject: %s\n", notify.Subject(report))
	c.Printf("   Counts:  %d overdue, %d due today, %d this week, %d this month\n",
		counts["overdue"], counts["due_today"], counts["this_week"], counts["this_month"])
}

func (p *Pipeline) save(html string) (string, error) {
	dir := p.OutputDir
	if dir == "" {
		dir = "."
	}
	path, err := filepath.Abs(filepath.Join(dir, ReportFile))
	if err != nil {
		return "", fmt.Errorf("resolving report path: %w", err)
	}
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("saving report: %w", err)
	}
	return path, nil
}

// preview writes html to a temp file and opens it. Failures are warnings.
func (p *Pipeline) preview(logger zerolog.Logger, html string) string {
	f, err := os.CreateTemp("", "digest-preview-*.html")
	if err != nil {
		p.console().Warning("Could not write preview: %v", err)
		return ""
	}
	path := f.Name()
	_, werr := f.WriteString(html)
	cerr := f.Close()
	if werr != nil || cerr != nil {
		p.console().Warning("Could not write preview: %v", firstErr(werr, cerr))
		return ""
	}

	p.console().Info("Opening preview in browser...")
	open := p.Open
	if open == nil {
		open = OpenInBrowser
	}
	if err := open(path); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("Could not open browser")
		p.console().Warning("Could not open browser: %v", err)
		p.console().Info("Preview saved to: %s", path)
	}
	return path
}

func (p *Pipeline) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.Timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, p.Timeout)
}

func (p *Pipeline) renderer() *render.Renderer {
	if p.Renderer == nil {
		return &render.Renderer{}
	}
	return p.Renderer
}

func (p *Pipeline) transportName() string {
	if p.Transport == nil {
		return "none"
	}
	return p.Transport.Name()
}

func (p *Pipeline) console() Console {
	if p.Console == nil {
		return discardConsole{}
	}
	return p.Console
}

func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

type discardConsole struct{}

func (discardConsole) Info(string, ...interface{})         {}
func (discardConsole) Success(string, ...interface{})      {}
func (discardConsole) Warning(string, ...interface{})      {}
func (discardConsole) Printf(string, ...interface{})       {}
func (discardConsole) Bullet(Tone, string, ...interface{}) {}
