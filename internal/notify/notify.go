// Package notify delivers the rendered report by email.
package notify

import (
	"context"
	"fmt"
	"time"

	apperrors "investment-digest/internal/errors"
	"investment-digest/internal/logging"
	"investment-digest/internal/models"
)

// Message is one outgoing email.
type Message struct {
	From    string
	To      []string
	Subject string
	HTML    string
}

// SendResult is what the transport reports back for an accepted message.
type SendResult struct {
	ID string
}

// Transport submits messages to an email provider.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) (SendResult, error)
}

// Subject returns the subject line for a report.
func Subject(report models.CategorizedReport) string {
	if n := report.ActionCount(); n > 0 {
		return fmt.Sprintf("🔔 Investment Tracker: %d action items need attention", n)
	}
	return "✅ Investment Tracker: All clear, no urgent actions"
}

// Dispatcher sends a rendered report to the configured recipient.
type Dispatcher struct {
	Transport Transport
	From      string
	To        string
	DryRun    bool
}

// NewDispatcher creates a dispatcher.
func NewDispatcher(transport Transport, from, to string, dryRun bool) *Dispatcher {
	return &Dispatcher{
		Transport: transport,
		From:      from,
		To:        to,
		DryRun:    dryRun,
	}
}

// Dispatch emails html with a subject derived from report. In dry-run mode it
// only logs what would be sent. Transport errors are returned as
// *errors.DispatchError without retrying.
func (d *Dispatcher) Dispatch(ctx context.Context, html string, report models.CategorizedReport) (SendResult, error) {
	logger := logging.WithStage(logging.FromContext(ctx), "dispatch")
	subject := Subject(report)
	counts := report.BucketCounts()

	if d.DryRun {
		logger.Info().
			Str("to", d.To).
			Str("subject", subject).
			Int("overdue", counts["overdue"]).
			Int("due_today", counts["due_today"]).
			Int("this_week", counts["this_week"]).
			Int("this_month", counts["this_month"]).
			Msg("Dry run, email not sent")
		return SendResult{}, nil
	}

	if d.Transport == nil {
		return SendResult{}, apperrors.NewDispatchError("none", d.To, fmt.Errorf("no email transport configured"))
	}

	msg := Message{
		From:    d.From,
		To:      []string{d.To},
		Subject: subject,
		HTML:    html,
	}

	start := time.Now()
	res, err := d.Transport.Send(ctx, msg)
	logging.LogAPICall(logger, "send", d.Transport.Name(), time.Since(start), err)
	if err != nil {
		logger.Error().
			Str("transport", d.Transport.Name()).
			Str("to", d.To).
			Err(err).
			Msg("Failed to send email")
		return SendResult{}, apperrors.NewDispatchError(d.Transport.Name(), d.To, err)
	}

	logger.Info().
		Str("transport", d.Transport.Name()).
		Str("to", d.To).
		Str("id", res.ID).
		Msg("Email sent")
	return res, nil
}
