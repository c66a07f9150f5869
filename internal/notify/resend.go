package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/resend/resend-go/v2"

	"investment-digest/internal/security"
)

// DefaultResendURL is the Resend API base URL.
const DefaultResendURL = "https://api.resend.com"

// ResendTransport sends email through the Resend API.
type ResendTransport struct {
	client *resend.Client
}

// NewResendTransport creates a Resend client. An empty baseURL selects the public API.
func NewResendTransport(apiKey, baseURL string, timeout time.Duration) *ResendTransport {
	if baseURL == "" {
		baseURL = DefaultResendURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, apiKey)
	// the client resolves endpoint paths relative to the base
	if u, err := url.Parse(strings.TrimRight(baseURL, "/") + "/"); err == nil {
		client.BaseURL = u
	}
	return &ResendTransport{client: client}
}

// Name returns the transport name.
func (r *ResendTransport) Name() string {
	return "resend"
}

// Send submits the message to the emails endpoint.
func (r *ResendTransport) Send(ctx context.Context, msg Message) (SendResult, error) {
	sent, err := r.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return SendResult{}, fmt.Errorf("resend rejected email: %w", security.MaskError(err))
	}
	return SendResult{ID: sent.Id}, nil
}
